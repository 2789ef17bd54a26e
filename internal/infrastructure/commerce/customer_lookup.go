package commerce

import (
	"context"
	"fmt"

	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// shopifyCustomerLookup resolves customer profiles through the host
// platform's admin API.
type shopifyCustomerLookup struct {
	client *goshopify.Client
	logger zerolog.Logger
}

// NewShopifyCustomerLookup creates a customer lookup against one shop.
func NewShopifyCustomerLookup(apiKey, apiSecret, shopDomain, accessToken string, logger zerolog.Logger) (ports.CustomerLookup, error) {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	client, err := goshopify.NewClient(app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &shopifyCustomerLookup{
		client: client,
		logger: logger,
	}, nil
}

// GetCustomer fetches a customer profile by id.
func (l *shopifyCustomerLookup) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	customer, err := l.client.Customer.Get(ctx, uint64(customerID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &domain.Customer{
		ID:        customerID,
		Email:     customer.Email,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
	}, nil
}

// UnconfiguredCustomerLookup is used when no host platform API credentials
// are set. Subscription changes cannot be forwarded without them.
type UnconfiguredCustomerLookup struct{}

func (UnconfiguredCustomerLookup) GetCustomer(_ context.Context, customerID int64) (*domain.Customer, error) {
	return nil, fmt.Errorf("customer lookup is not configured (customer %d)", customerID)
}
