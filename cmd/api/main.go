package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"

	"commerce-klaviyo-layer/internal/application"
	"commerce-klaviyo-layer/internal/application/event_handlers"
	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/infrastructure/commerce"
	"commerce-klaviyo-layer/internal/infrastructure/klaviyo"
	"commerce-klaviyo-layer/internal/infrastructure/repository"
	"commerce-klaviyo-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Per-scope marketing settings: read from the host platform's MongoDB
	// when configured, otherwise fall back to the environment.
	var configProvider ports.ConfigProvider
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())

		db := client.Database(os.Getenv("MONGODB_DATABASE"))
		scope := os.Getenv("STORE_SCOPE")
		if scope == "" {
			scope = "default"
		}
		configProvider = repository.NewMongoConfigProvider(db, scope)
	} else {
		configProvider = repository.NewStaticConfigProvider(configFromEnv())
		logger.Info().Msg("MONGODB_URI not set, reading marketing settings from environment")
	}

	// Outbound marketing client
	klaviyoHost := os.Getenv("KLAVIYO_HOST")
	var marketingClient ports.MarketingClient
	if klaviyoHost != "" {
		marketingClient = klaviyo.NewClientWithOptions(configProvider, klaviyoHost, http.DefaultClient, logger)
	} else {
		marketingClient = klaviyo.NewClient(configProvider, logger)
	}

	// Customer lookup against the host platform admin API
	customerLookup := buildCustomerLookup(logger)

	// Initialize dispatcher and register the three event handlers
	dispatcher := application.NewDispatcher(logger)
	dispatcher.Register(event_handlers.NewOrderPlacedHandler(configProvider, marketingClient, logger))
	dispatcher.Register(event_handlers.NewOrderRefundedHandler(configProvider, marketingClient, logger))
	dispatcher.Register(event_handlers.NewNewsletterHandler(configProvider, marketingClient, customerLookup, logger))

	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" {
		logger.Fatal().Msg("WEBHOOK_SECRET environment variable is required")
	}
	verifier := commerce.NewWebhookVerifier(webhookSecret)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Admin helper: list mailing lists, used to verify a private key and pick
	// the newsletter list. An api_key query parameter overrides the
	// configured key.
	r.Get("/lists", listsHandler(marketingClient, logger))

	// Webhook endpoint: POST /webhooks/commerce
	r.Post("/webhooks/commerce", webhookHandler(dispatcher, verifier, logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// configFromEnv reads the marketing settings from environment variables.
func configFromEnv() domain.Config {
	enabled, _ := strconv.ParseBool(os.Getenv("KLAVIYO_ENABLED"))
	webhookEnabled, _ := strconv.ParseBool(os.Getenv("KLAVIYO_WEBHOOK_ENABLED"))

	optIn := domain.OptInMode(os.Getenv("KLAVIYO_OPT_IN"))
	if optIn != domain.OptInSingle && optIn != domain.OptInDouble {
		optIn = domain.OptInDouble
	}

	return domain.Config{
		Enabled:          enabled,
		WebhookEnabled:   webhookEnabled,
		PublicAPIKey:     os.Getenv("KLAVIYO_PUBLIC_API_KEY"),
		PrivateAPIKey:    os.Getenv("KLAVIYO_PRIVATE_API_KEY"),
		NewsletterListID: os.Getenv("KLAVIYO_NEWSLETTER_LIST_ID"),
		OptIn:            optIn,
	}
}

// buildCustomerLookup wires the host platform admin API client when
// credentials are present. Without them subscription changes cannot be
// resolved to a profile and the lookup reports itself unconfigured.
func buildCustomerLookup(logger zerolog.Logger) ports.CustomerLookup {
	apiKey := os.Getenv("COMMERCE_API_KEY")
	apiSecret := os.Getenv("COMMERCE_API_SECRET")
	shopDomain := os.Getenv("COMMERCE_SHOP_DOMAIN")
	accessToken := os.Getenv("COMMERCE_ACCESS_TOKEN")

	if apiKey == "" || shopDomain == "" {
		logger.Warn().Msg("Commerce API credentials not set, customer lookup disabled")
		return commerce.UnconfiguredCustomerLookup{}
	}

	lookup, err := commerce.NewShopifyCustomerLookup(apiKey, apiSecret, shopDomain, accessToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize customer lookup")
	}
	return lookup
}

// listsHandler exposes the mailing-list lookup for the admin surface.
func listsHandler(client ports.MarketingClient, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := client.ListMailingLists(r.Context(), r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		if !result.Success {
			w.WriteHeader(http.StatusBadGateway)
		}
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.Error().Err(err).Msg("Failed to encode lists response")
		}
	}
}

// webhookHandler handles host platform webhook deliveries.
func webhookHandler(dispatcher *application.Dispatcher, verifier *commerce.WebhookVerifier, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		topic := r.Header.Get("X-Commerce-Topic")
		if topic == "" {
			logger.Warn().Msg("Missing X-Commerce-Topic header")
			http.Error(w, "Missing X-Commerce-Topic header", http.StatusBadRequest)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook payload")
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		signature := r.Header.Get("X-Commerce-Hmac-SHA256")
		if err := verifier.Verify(payload, signature); err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("Webhook signature verification failed")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		event, err := commerce.MapWebhookEvent(topic, payload)
		if err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("Failed to map webhook event")
			http.Error(w, "Unsupported or malformed webhook", http.StatusBadRequest)
			return
		}

		// Forwarding failures are logged inside the dispatcher and never
		// surface here: the host platform does not retry, and a provider
		// outage must not look like a broken webhook endpoint.
		if err := dispatcher.Dispatch(ctx, event); err != nil {
			logger.Error().Err(err).Str("topic", topic).Msg("No handler for webhook event")
			http.Error(w, "Unsupported webhook event", http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"received": "true",
		})
	}
}
