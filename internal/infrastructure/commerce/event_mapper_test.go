package commerce

import (
	"testing"

	"commerce-klaviyo-layer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderJSON = `{
	"quote_id": "Q-1001",
	"grand_total": 149.90,
	"discount_amount": 10,
	"coupon_code": "WELCOME10",
	"customer_email": "jane@example.com",
	"customer_firstname": "Jane",
	"customer_lastname": "Doe",
	"shipping_address": {
		"firstname": "Jane",
		"city": "Springfield",
		"region_code": "IL",
		"country_id": "US",
		"postcode": "62704",
		"telephone": "555-0101"
	},
	"billing_address": {
		"firstname": "Jane",
		"company": "Acme"
	},
	"items": [
		{"product_id": "42", "sku": "SKU-42", "name": "Widget", "qty_ordered": 2, "price": 74.95, "visible": true},
		{"product_id": "43", "sku": "SKU-43", "name": "Part", "qty_ordered": 1, "price": 5, "visible": false}
	]
}`

func TestMapWebhookEventOrderCreated(t *testing.T) {
	event, err := MapWebhookEvent(TopicOrderCreated, []byte(orderJSON))

	require.NoError(t, err)
	assert.Equal(t, domain.EventOrderPlaced, event.Kind)
	require.NotNil(t, event.Order)
	assert.Equal(t, "Q-1001", event.Order.QuoteID)
	assert.Equal(t, 149.90, event.Order.GrandTotal)
	assert.Equal(t, "WELCOME10", event.Order.DiscountCode)
	require.NotNil(t, event.Order.Shipping)
	assert.Equal(t, "IL", event.Order.Shipping.RegionCode)
	require.NotNil(t, event.Order.Billing)
	assert.Equal(t, "Acme", event.Order.Billing.Company)
	require.Len(t, event.Order.Items, 2)
	assert.True(t, event.Order.Items[0].Visible)
	assert.False(t, event.Order.Items[1].Visible)
}

func TestMapWebhookEventRefund(t *testing.T) {
	event, err := MapWebhookEvent(TopicOrderRefunded, []byte(orderJSON))

	require.NoError(t, err)
	assert.Equal(t, domain.EventOrderRefunded, event.Kind)
	require.NotNil(t, event.Order)
}

func TestMapWebhookEventNewsletter(t *testing.T) {
	payload := []byte(`{"customer_id": 7, "status_changed": true, "subscribed": false}`)

	event, err := MapWebhookEvent(TopicNewsletterStatus, payload)

	require.NoError(t, err)
	assert.Equal(t, domain.EventSubscriptionChanged, event.Kind)
	require.NotNil(t, event.Subscriber)
	assert.Equal(t, int64(7), event.Subscriber.CustomerID)
	assert.True(t, event.Subscriber.StatusChanged)
	assert.False(t, event.Subscriber.Subscribed)
}

func TestMapWebhookEventMissingAddresses(t *testing.T) {
	event, err := MapWebhookEvent(TopicOrderCreated, []byte(`{"quote_id": "Q-2"}`))

	require.NoError(t, err)
	assert.Nil(t, event.Order.Shipping)
	assert.Nil(t, event.Order.Billing)
	assert.Empty(t, event.Order.Items)
}

func TestMapWebhookEventUnknownTopic(t *testing.T) {
	_, err := MapWebhookEvent("carts/update", []byte(`{}`))

	assert.Error(t, err)
}

func TestMapWebhookEventMalformedPayload(t *testing.T) {
	_, err := MapWebhookEvent(TopicOrderCreated, []byte(`{`))

	assert.Error(t, err)
}
