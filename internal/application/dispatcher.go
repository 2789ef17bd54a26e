package application

import (
	"context"
	"fmt"

	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/metrics"

	"github.com/rs/zerolog"
)

// Handler reacts to exactly one kind of host-platform event.
type Handler interface {
	// Kind returns the event kind this handler owns.
	Kind() domain.EventKind
	// Handle processes the event. A nil error also covers the case where the
	// handler decided to skip the event (module disabled, status unchanged).
	Handle(ctx context.Context, event *domain.Event) error
}

// Dispatcher routes events to handlers through a typed table keyed by event
// kind. Handler failures are logged and absorbed: a provider outage must
// never break order placement or subscription flows on the host platform.
type Dispatcher struct {
	handlers map[domain.EventKind]Handler
	logger   zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[domain.EventKind]Handler),
		logger:   logger,
	}
}

// Register adds a handler for its event kind, replacing any previous one.
func (d *Dispatcher) Register(handler Handler) {
	d.handlers[handler.Kind()] = handler
}

// Dispatch hands the event to the registered handler. It returns an error
// only for events no handler is registered for; handler failures are logged
// here and not propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.Event) error {
	handler, ok := d.handlers[event.Kind]
	if !ok {
		return fmt.Errorf("no handler registered for event kind %q", event.Kind)
	}

	if err := handler.Handle(ctx, event); err != nil {
		d.logger.Error().
			Err(err).
			Str("kind", string(event.Kind)).
			Msg("Failed to forward event")
		metrics.EventsForwarded.WithLabelValues(string(event.Kind), "error").Inc()
		return nil
	}

	metrics.EventsForwarded.WithLabelValues(string(event.Kind), "ok").Inc()
	return nil
}
