package ports

import (
	"context"

	"commerce-klaviyo-layer/internal/domain"
)

// CustomerLookup resolves a customer profile from the host commerce platform.
// Subscription-change notifications carry only the customer id; the acting
// profile (email, name) is fetched through this collaborator.
type CustomerLookup interface {
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
}

// ConfigProvider supplies the store-scope marketing settings. The settings
// are owned by the host platform and read on every dispatch; implementations
// must treat the backing store as read-only. A nil config with a nil error
// means the scope has no marketing settings at all.
type ConfigProvider interface {
	Get(ctx context.Context) (*domain.Config, error)
}
