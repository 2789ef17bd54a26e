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

// OrderRefundedHandler forwards refunded orders to the marketing provider as
// tracking events.
type OrderRefundedHandler struct {
	config ports.ConfigProvider
	client ports.MarketingClient
	logger zerolog.Logger
	now    func() time.Time
}

// NewOrderRefundedHandler creates a new order refunded handler.
func NewOrderRefundedHandler(config ports.ConfigProvider, client ports.MarketingClient, logger zerolog.Logger) *OrderRefundedHandler {
	return &OrderRefundedHandler{
		config: config,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Kind returns the event kind this handler owns.
func (h *OrderRefundedHandler) Kind() domain.EventKind {
	return domain.EventOrderRefunded
}

// Handle maps the refunded order and tracks it. Same gating as placed
// orders: both the module flag and the webhook flag must be enabled.
func (h *OrderRefundedHandler) Handle(ctx context.Context, event *domain.Event) error {
	cfg, err := h.config.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read marketing settings: %w", err)
	}
	if cfg == nil || !cfg.Enabled || !cfg.WebhookEnabled {
		return nil
	}

	payload := application.MapRefund(event.Order)
	timestamp := h.now().Unix()

	result := h.client.TrackEvent(ctx, domain.TrackingEvent{
		Event:              RefundedOrderEvent,
		CustomerProperties: payload.CustomerProperties,
		Properties:         payload.Properties,
		Time:               &timestamp,
	})
	if !result.OK {
		return fmt.Errorf("failed to track refunded order %s: %s", event.Order.QuoteID, result.Detail)
	}

	h.logger.Debug().
		Str("quoteId", event.Order.QuoteID).
		Msg("Forwarded refunded order")
	return nil
}
