package event_handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce-klaviyo-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configStub struct {
	config *domain.Config
	err    error
}

func (s configStub) Get(_ context.Context) (*domain.Config, error) {
	return s.config, s.err
}

func enabledConfig() *domain.Config {
	return &domain.Config{
		Enabled:          true,
		WebhookEnabled:   true,
		PublicAPIKey:     "pk_test",
		PrivateAPIKey:    "sk_test",
		NewsletterListID: "LIST1",
		OptIn:            domain.OptInDouble,
	}
}

type marketingSpy struct {
	tracked      []domain.TrackingEvent
	subscribed   []string
	unsubscribed []string
	trackResult  domain.CallResult
	callResult   domain.CallResult
}

func newMarketingSpy() *marketingSpy {
	return &marketingSpy{
		trackResult: domain.CallResult{OK: true},
		callResult:  domain.CallResult{OK: true},
	}
}

func (s *marketingSpy) ListMailingLists(_ context.Context, _ string) domain.ListsResult {
	return domain.ListsResult{Success: true}
}

func (s *marketingSpy) Subscribe(_ context.Context, email, _, _, _ string) domain.CallResult {
	s.subscribed = append(s.subscribed, email)
	return s.callResult
}

func (s *marketingSpy) Unsubscribe(_ context.Context, email string) domain.CallResult {
	s.unsubscribed = append(s.unsubscribed, email)
	return s.callResult
}

func (s *marketingSpy) TrackEvent(_ context.Context, event domain.TrackingEvent) domain.CallResult {
	s.tracked = append(s.tracked, event)
	return s.trackResult
}

type lookupStub struct {
	customer *domain.Customer
	err      error
	calls    int
}

func (s *lookupStub) GetCustomer(_ context.Context, _ int64) (*domain.Customer, error) {
	s.calls++
	return s.customer, s.err
}

func orderEvent(kind domain.EventKind) *domain.Event {
	return &domain.Event{
		Kind: kind,
		Order: &domain.Order{
			QuoteID:       "Q-7",
			GrandTotal:    20,
			CustomerEmail: "jane@example.com",
		},
	}
}

func TestOrderPlacedTracksEvent(t *testing.T) {
	spy := newMarketingSpy()
	handler := NewOrderPlacedHandler(configStub{config: enabledConfig()}, spy, zerolog.Nop())
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	handler.now = func() time.Time { return fixed }

	err := handler.Handle(context.Background(), orderEvent(domain.EventOrderPlaced))

	require.NoError(t, err)
	require.Len(t, spy.tracked, 1)
	assert.Equal(t, PlacedOrderEvent, spy.tracked[0].Event)
	require.NotNil(t, spy.tracked[0].Time)
	assert.Equal(t, fixed.Unix(), *spy.tracked[0].Time)
	assert.Equal(t, "jane@example.com", spy.tracked[0].CustomerProperties["$email"])
}

func TestOrderPlacedSkipsWhenDisabled(t *testing.T) {
	for name, cfg := range map[string]*domain.Config{
		"module disabled":  {Enabled: false, WebhookEnabled: true},
		"webhook disabled": {Enabled: true, WebhookEnabled: false},
		"not configured":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			spy := newMarketingSpy()
			handler := NewOrderPlacedHandler(configStub{config: cfg}, spy, zerolog.Nop())

			err := handler.Handle(context.Background(), orderEvent(domain.EventOrderPlaced))

			require.NoError(t, err)
			assert.Empty(t, spy.tracked)
		})
	}
}

func TestOrderPlacedReportsTrackFailure(t *testing.T) {
	spy := newMarketingSpy()
	spy.trackResult = domain.CallResult{Kind: domain.ErrorTransport, Detail: "connection refused"}
	handler := NewOrderPlacedHandler(configStub{config: enabledConfig()}, spy, zerolog.Nop())

	err := handler.Handle(context.Background(), orderEvent(domain.EventOrderPlaced))

	assert.Error(t, err)
}

func TestOrderRefundedTracksEventWithReason(t *testing.T) {
	spy := newMarketingSpy()
	handler := NewOrderRefundedHandler(configStub{config: enabledConfig()}, spy, zerolog.Nop())

	err := handler.Handle(context.Background(), orderEvent(domain.EventOrderRefunded))

	require.NoError(t, err)
	require.Len(t, spy.tracked, 1)
	assert.Equal(t, RefundedOrderEvent, spy.tracked[0].Event)
	assert.Equal(t, "Not Needed", spy.tracked[0].Properties["Reason"])
}

func TestOrderRefundedSkipsWhenWebhookDisabled(t *testing.T) {
	spy := newMarketingSpy()
	cfg := enabledConfig()
	cfg.WebhookEnabled = false
	handler := NewOrderRefundedHandler(configStub{config: cfg}, spy, zerolog.Nop())

	err := handler.Handle(context.Background(), orderEvent(domain.EventOrderRefunded))

	require.NoError(t, err)
	assert.Empty(t, spy.tracked)
}

func subscriberEvent(statusChanged, subscribed bool) *domain.Event {
	return &domain.Event{
		Kind: domain.EventSubscriptionChanged,
		Subscriber: &domain.SubscriberChange{
			CustomerID:    7,
			StatusChanged: statusChanged,
			Subscribed:    subscribed,
		},
	}
}

func TestNewsletterSubscribe(t *testing.T) {
	spy := newMarketingSpy()
	lookup := &lookupStub{customer: &domain.Customer{ID: 7, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}}
	handler := NewNewsletterHandler(configStub{config: enabledConfig()}, spy, lookup, zerolog.Nop())

	err := handler.Handle(context.Background(), subscriberEvent(true, true))

	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com"}, spy.subscribed)
	assert.Empty(t, spy.unsubscribed)
}

func TestNewsletterUnsubscribe(t *testing.T) {
	spy := newMarketingSpy()
	lookup := &lookupStub{customer: &domain.Customer{ID: 7, Email: "jane@example.com"}}
	handler := NewNewsletterHandler(configStub{config: enabledConfig()}, spy, lookup, zerolog.Nop())

	err := handler.Handle(context.Background(), subscriberEvent(true, false))

	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com"}, spy.unsubscribed)
	assert.Empty(t, spy.subscribed)
}

func TestNewsletterUnchangedStatusIsNoop(t *testing.T) {
	spy := newMarketingSpy()
	lookup := &lookupStub{customer: &domain.Customer{ID: 7, Email: "jane@example.com"}}
	handler := NewNewsletterHandler(configStub{config: enabledConfig()}, spy, lookup, zerolog.Nop())

	err := handler.Handle(context.Background(), subscriberEvent(false, true))

	require.NoError(t, err)
	assert.Zero(t, lookup.calls)
	assert.Empty(t, spy.subscribed)
	assert.Empty(t, spy.unsubscribed)
}

func TestNewsletterIgnoresWebhookFlag(t *testing.T) {
	// Subscription changes are gated on the module flag only.
	spy := newMarketingSpy()
	cfg := enabledConfig()
	cfg.WebhookEnabled = false
	lookup := &lookupStub{customer: &domain.Customer{ID: 7, Email: "jane@example.com"}}
	handler := NewNewsletterHandler(configStub{config: cfg}, spy, lookup, zerolog.Nop())

	err := handler.Handle(context.Background(), subscriberEvent(true, true))

	require.NoError(t, err)
	assert.Len(t, spy.subscribed, 1)
}

func TestNewsletterSkipsWhenModuleDisabled(t *testing.T) {
	spy := newMarketingSpy()
	cfg := enabledConfig()
	cfg.Enabled = false
	lookup := &lookupStub{customer: &domain.Customer{ID: 7, Email: "jane@example.com"}}
	handler := NewNewsletterHandler(configStub{config: cfg}, spy, lookup, zerolog.Nop())

	err := handler.Handle(context.Background(), subscriberEvent(true, true))

	require.NoError(t, err)
	assert.Zero(t, lookup.calls)
	assert.Empty(t, spy.subscribed)
}

func TestNewsletterLookupFailure(t *testing.T) {
	spy := newMarketingSpy()
	lookup := &lookupStub{err: errors.New("admin api unreachable")}
	handler := NewNewsletterHandler(configStub{config: enabledConfig()}, spy, lookup, zerolog.Nop())

	err := handler.Handle(context.Background(), subscriberEvent(true, true))

	assert.Error(t, err)
	assert.Empty(t, spy.subscribed)
	assert.Empty(t, spy.unsubscribed)
}
