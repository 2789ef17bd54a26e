package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the forwarding path. Outcome is "ok" or "error" for dispatched
// events, and "ok" or the error kind for provider requests.
var (
	EventsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_forwarded_total",
			Help: "Host platform events handled by the dispatcher",
		},
		[]string{"kind", "outcome"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klaviyo_requests_total",
			Help: "Outbound calls to the marketing provider",
		},
		[]string{"operation", "outcome"},
	)
)
