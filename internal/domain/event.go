package domain

// EventKind identifies a host-platform lifecycle notification. There are
// exactly three kinds; dispatch is a typed table keyed by this value.
type EventKind string

const (
	EventOrderPlaced         EventKind = "order/placed"
	EventOrderRefunded       EventKind = "order/refunded"
	EventSubscriptionChanged EventKind = "newsletter/subscription_changed"
)

// Event is the envelope handed to the dispatcher. Exactly one of the payload
// fields is set, matching the kind.
type Event struct {
	Kind       EventKind
	Order      *Order
	Subscriber *SubscriberChange
}

// SubscriberChange describes a newsletter subscription notification.
// StatusChanged is false when the host re-fires a save that did not actually
// flip the subscription status.
type SubscriberChange struct {
	CustomerID    int64
	StatusChanged bool
	Subscribed    bool
}

// Customer is the acting customer's profile as resolved from the host
// platform for subscription changes.
type Customer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
}

// TrackingEvent is a transient, per-call event payload for the provider's
// track endpoint. CustomerProperties must identify the person by $email or
// $id; events lacking both are rejected locally before any network call.
type TrackingEvent struct {
	Event              string
	CustomerProperties map[string]interface{}
	Properties         map[string]interface{}
	Time               *int64
}
