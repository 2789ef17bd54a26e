package ports

import (
	"context"

	"commerce-klaviyo-layer/internal/domain"
)

// MarketingClient defines the outbound operations against the marketing
// provider. Implementations never panic or return Go errors for provider
// failures; every outcome is carried in the result value so callers can log
// and move on without breaking the host platform's event pipeline.
type MarketingClient interface {
	// ListMailingLists fetches all mailing lists for the account. apiKey
	// overrides the configured private key when non-empty (used by the admin
	// surface to verify a key before saving it).
	ListMailingLists(ctx context.Context, apiKey string) domain.ListsResult

	// Subscribe adds an email to the configured newsletter list. firstName,
	// lastName and source are optional and omitted from the payload when
	// empty.
	Subscribe(ctx context.Context, email, firstName, lastName, source string) domain.CallResult

	// Unsubscribe removes an email from the configured newsletter list.
	Unsubscribe(ctx context.Context, email string) domain.CallResult

	// TrackEvent sends a server-side tracking event. Events lacking both
	// $email and $id in CustomerProperties are rejected locally without any
	// network call.
	TrackEvent(ctx context.Context, event domain.TrackingEvent) domain.CallResult
}
