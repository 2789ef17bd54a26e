package klaviyo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/metrics"
	"commerce-klaviyo-layer/internal/ports"

	"github.com/rs/zerolog"
)

const (
	defaultHost    = "https://a.klaviyo.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "Klaviyo/1.0"

	listsV1Path = "/api/v1/lists"
	listV2Path  = "/api/v2/list/"
	trackPath   = "/api/track"
)

const identityValidationMessage = "You must identify a user by email or ID."

// Client talks to the Klaviyo HTTP API. State-changing calls carry the
// private API key inside the JSON body; the track call instead embeds the
// public key in its encoded payload. That asymmetry is the provider's API
// contract, not an accident.
type Client struct {
	host       string
	config     ports.ConfigProvider
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client against the production Klaviyo host.
func NewClient(config ports.ConfigProvider, logger zerolog.Logger) ports.MarketingClient {
	return NewClientWithOptions(config, defaultHost, &http.Client{Timeout: defaultTimeout}, logger)
}

// NewClientWithOptions creates a client with an explicit host and transport,
// used by tests and deployments behind a proxy.
func NewClientWithOptions(config ports.ConfigProvider, host string, httpClient *http.Client, logger zerolog.Logger) ports.MarketingClient {
	return &Client{
		host:       strings.TrimSuffix(host, "/"),
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// listsResponse is either an error shape carrying a status, or a data shape
// carrying the account's list groups.
type listsResponse struct {
	Status *int                 `json:"status"`
	Data   []domain.MailingList `json:"data"`
}

// ListMailingLists fetches all mailing lists for the account, keeping only
// static lists (dynamic segments are excluded) sorted case-insensitively by
// name. Provider error shapes are classified into admin-readable reasons;
// this call never returns a Go error.
func (c *Client) ListMailingLists(ctx context.Context, apiKey string) domain.ListsResult {
	if apiKey == "" {
		cfg, err := c.config.Get(ctx)
		if err != nil || cfg == nil {
			c.logger.Error().Err(err).Msg("Marketing settings unavailable for list lookup")
			return domain.ListsResult{Success: false, Reason: "Unable to verify the private Klaviyo API key."}
		}
		apiKey = cfg.PrivateAPIKey
	}

	reqURL := c.host + listsV1Path + "?api_key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.ListsResult{Success: false, Reason: "Unable to verify the private Klaviyo API key."}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to fetch mailing lists")
		metrics.ProviderRequests.WithLabelValues("lists", string(domain.ErrorTransport)).Inc()
		return domain.ListsResult{Success: false, Reason: "Unable to verify the private Klaviyo API key."}
	}
	defer resp.Body.Close()

	var decoded listsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Error().Err(err).Msg("Failed to decode mailing lists response")
		metrics.ProviderRequests.WithLabelValues("lists", string(domain.ErrorTransport)).Inc()
		return domain.ListsResult{Success: false, Reason: "Unable to verify the private Klaviyo API key."}
	}

	if decoded.Status != nil {
		var reason string
		switch *decoded.Status {
		case http.StatusForbidden:
			reason = "The private Klaviyo API key you have set is invalid."
		case http.StatusUnauthorized:
			reason = "The private Klaviyo API key you have set is no longer valid."
		default:
			reason = "Unable to verify the private Klaviyo API key."
		}
		metrics.ProviderRequests.WithLabelValues("lists", string(domain.ErrorAuth)).Inc()
		return domain.ListsResult{Success: false, Reason: reason}
	}

	lists := make([]domain.MailingList, 0, len(decoded.Data))
	for _, list := range decoded.Data {
		if list.Type == "list" {
			lists = append(lists, list)
		}
	}
	sort.Slice(lists, func(i, j int) bool {
		return strings.ToLower(lists[i].Name) < strings.ToLower(lists[j].Name)
	})

	metrics.ProviderRequests.WithLabelValues("lists", "ok").Inc()
	return domain.ListsResult{Success: true, Lists: lists}
}

// Subscribe adds an email to the configured newsletter list. The opt-in mode
// from configuration selects the endpoint suffix: single opt-in writes
// members directly, double opt-in requires the subscriber to confirm.
func (c *Client) Subscribe(ctx context.Context, email, firstName, lastName, source string) domain.CallResult {
	cfg, err := c.config.Get(ctx)
	if err != nil || cfg == nil {
		return c.failure("subscribe", domain.ErrorTransport, "marketing settings unavailable")
	}

	profile := map[string]interface{}{"email": email}
	if firstName != "" {
		profile["$first_name"] = firstName
	}
	if lastName != "" {
		profile["$last_name"] = lastName
	}
	if source != "" {
		profile["$source"] = source
	}

	path := listV2Path + cfg.NewsletterListID + cfg.OptIn.Suffix()
	body := map[string]interface{}{"profiles": profile}

	if err := c.sendAPIRequest(ctx, http.MethodPost, path, body, cfg.PrivateAPIKey); err != nil {
		c.logger.Error().
			Err(err).
			Str("email", email).
			Str("listId", cfg.NewsletterListID).
			Msg("Unable to subscribe email to list")
		return c.failure("subscribe", domain.ErrorTransport, err.Error())
	}

	metrics.ProviderRequests.WithLabelValues("subscribe", "ok").Inc()
	return domain.CallResult{OK: true}
}

// Unsubscribe removes an email from the configured newsletter list. Removal
// always goes through the subscribe endpoint regardless of opt-in mode.
func (c *Client) Unsubscribe(ctx context.Context, email string) domain.CallResult {
	cfg, err := c.config.Get(ctx)
	if err != nil || cfg == nil {
		return c.failure("unsubscribe", domain.ErrorTransport, "marketing settings unavailable")
	}

	path := listV2Path + cfg.NewsletterListID + "/subscribe"
	body := map[string]interface{}{"emails": []string{email}}

	if err := c.sendAPIRequest(ctx, http.MethodDelete, path, body, cfg.PrivateAPIKey); err != nil {
		c.logger.Error().
			Err(err).
			Str("email", email).
			Str("listId", cfg.NewsletterListID).
			Msg("Unable to unsubscribe email from list")
		return c.failure("unsubscribe", domain.ErrorTransport, err.Error())
	}

	metrics.ProviderRequests.WithLabelValues("unsubscribe", "ok").Inc()
	return domain.CallResult{OK: true}
}

// TrackEvent sends a server-side tracking event as a base64-encoded JSON
// blob on the query string. The provider answers with a literal "1" body on
// success; anything else, including a transport failure, is a failed call
// (the two are not distinguishable at this layer).
func (c *Client) TrackEvent(ctx context.Context, event domain.TrackingEvent) domain.CallResult {
	if !hasIdentity(event.CustomerProperties) {
		return domain.CallResult{Kind: domain.ErrorValidation, Detail: identityValidationMessage}
	}

	cfg, err := c.config.Get(ctx)
	if err != nil || cfg == nil {
		return c.failure("track", domain.ErrorTransport, "marketing settings unavailable")
	}

	params := map[string]interface{}{
		"token":               cfg.PublicAPIKey,
		"event":               event.Event,
		"properties":          event.Properties,
		"customer_properties": event.CustomerProperties,
	}
	if event.Time != nil {
		params["time"] = *event.Time
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return c.failure("track", domain.ErrorTransport, fmt.Sprintf("failed to encode event: %v", err))
	}
	data := base64.StdEncoding.EncodeToString(encoded)

	reqURL := c.host + trackPath + "?data=" + url.QueryEscape(data)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return c.failure("track", domain.ErrorTransport, err.Error())
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("event", event.Event).
			Msg("Failed to send tracking event")
		return c.failure("track", domain.ErrorTransport, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure("track", domain.ErrorTransport, err.Error())
	}
	if string(body) != "1" {
		return c.failure("track", domain.ErrorTransport, fmt.Sprintf("provider rejected event %q", event.Event))
	}

	metrics.ProviderRequests.WithLabelValues("track", "ok").Inc()
	return domain.CallResult{OK: true}
}

// sendAPIRequest performs a state-changing call: JSON body with the private
// API key injected, fixed user agent, explicit content length.
func (c *Client) sendAPIRequest(ctx context.Context, method, path string, params map[string]interface{}, apiKey string) error {
	params["api_key"] = apiKey

	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.ContentLength = int64(len(encoded))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *Client) failure(operation string, kind domain.ErrorKind, detail string) domain.CallResult {
	metrics.ProviderRequests.WithLabelValues(operation, string(kind)).Inc()
	return domain.CallResult{Kind: kind, Detail: detail}
}

// hasIdentity reports whether the customer properties identify a person by
// email or external id.
func hasIdentity(props map[string]interface{}) bool {
	for _, key := range []string{"$email", "$id"} {
		value, ok := props[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString {
			if s != "" {
				return true
			}
			continue
		}
		return true
	}
	return false
}
