package event_handlers

import (
	"context"
	"fmt"

	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/ports"

	"github.com/rs/zerolog"
)

// NewsletterHandler mirrors host-platform subscription changes onto the
// newsletter list. Unlike the order handlers it is gated only on the module
// flag, not the webhook flag.
type NewsletterHandler struct {
	config ports.ConfigProvider
	client ports.MarketingClient
	lookup ports.CustomerLookup
	logger zerolog.Logger
}

// NewNewsletterHandler creates a new subscription change handler.
func NewNewsletterHandler(
	config ports.ConfigProvider,
	client ports.MarketingClient,
	lookup ports.CustomerLookup,
	logger zerolog.Logger,
) *NewsletterHandler {
	return &NewsletterHandler{
		config: config,
		client: client,
		lookup: lookup,
		logger: logger,
	}
}

// Kind returns the event kind this handler owns.
func (h *NewsletterHandler) Kind() domain.EventKind {
	return domain.EventSubscriptionChanged
}

// Handle resolves the acting customer's profile and subscribes or
// unsubscribes them according to the new status. Notifications that did not
// actually change the status are idempotent no-ops.
func (h *NewsletterHandler) Handle(ctx context.Context, event *domain.Event) error {
	cfg, err := h.config.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read marketing settings: %w", err)
	}
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	subscriber := event.Subscriber
	if !subscriber.StatusChanged {
		return nil
	}

	customer, err := h.lookup.GetCustomer(ctx, subscriber.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to resolve customer %d: %w", subscriber.CustomerID, err)
	}

	if subscriber.Subscribed {
		result := h.client.Subscribe(ctx, customer.Email, customer.FirstName, customer.LastName, "")
		if !result.OK {
			return fmt.Errorf("failed to subscribe customer %d: %s", subscriber.CustomerID, result.Detail)
		}
	} else {
		result := h.client.Unsubscribe(ctx, customer.Email)
		if !result.OK {
			return fmt.Errorf("failed to unsubscribe customer %d: %s", subscriber.CustomerID, result.Detail)
		}
	}

	h.logger.Debug().
		Int64("customerId", subscriber.CustomerID).
		Bool("subscribed", subscriber.Subscribed).
		Msg("Forwarded subscription change")
	return nil
}
