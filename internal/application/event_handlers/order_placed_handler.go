package event_handlers

import (
	"context"
	"fmt"
	"time"

	"commerce-klaviyo-layer/internal/application"
	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/ports"

	"github.com/rs/zerolog"
)

// Provider-side event names for order webhooks.
const (
	PlacedOrderEvent   = "Placed Order Webhook"
	RefundedOrderEvent = "Refunded Order Webhook"
)

// OrderPlacedHandler forwards placed orders to the marketing provider as
// tracking events.
type OrderPlacedHandler struct {
	config ports.ConfigProvider
	client ports.MarketingClient
	logger zerolog.Logger
	now    func() time.Time
}

// NewOrderPlacedHandler creates a new order placed handler.
func NewOrderPlacedHandler(config ports.ConfigProvider, client ports.MarketingClient, logger zerolog.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		config: config,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Kind returns the event kind this handler owns.
func (h *OrderPlacedHandler) Kind() domain.EventKind {
	return domain.EventOrderPlaced
}

// Handle maps the order and tracks it, stamped with the current time. A
// disabled module or disabled webhook flag makes this a no-op.
func (h *OrderPlacedHandler) Handle(ctx context.Context, event *domain.Event) error {
	cfg, err := h.config.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read marketing settings: %w", err)
	}
	if cfg == nil || !cfg.Enabled || !cfg.WebhookEnabled {
		return nil
	}

	payload := application.MapOrder(event.Order)
	timestamp := h.now().Unix()

	result := h.client.TrackEvent(ctx, domain.TrackingEvent{
		Event:              PlacedOrderEvent,
		CustomerProperties: payload.CustomerProperties,
		Properties:         payload.Properties,
		Time:               &timestamp,
	})
	if !result.OK {
		return fmt.Errorf("failed to track placed order %s: %s", event.Order.QuoteID, result.Detail)
	}

	h.logger.Debug().
		Str("quoteId", event.Order.QuoteID).
		Msg("Forwarded placed order")
	return nil
}
