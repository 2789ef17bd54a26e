package commerce

import (
	"encoding/json"
	"fmt"

	"commerce-klaviyo-layer/internal/domain"
)

// Webhook topics the host platform delivers.
const (
	TopicOrderCreated     = "orders/create"
	TopicOrderRefunded    = "refunds/create"
	TopicNewsletterStatus = "newsletter/status"
)

// orderPayload is the wire shape of an order webhook delivery.
type orderPayload struct {
	QuoteID           string          `json:"quote_id"`
	GrandTotal        float64         `json:"grand_total"`
	DiscountAmount    float64         `json:"discount_amount"`
	CouponCode        string          `json:"coupon_code"`
	CustomerEmail     string          `json:"customer_email"`
	CustomerFirstName string          `json:"customer_firstname"`
	CustomerLastName  string          `json:"customer_lastname"`
	ShippingAddress   *addressPayload `json:"shipping_address"`
	BillingAddress    *addressPayload `json:"billing_address"`
	Items             []itemPayload   `json:"items"`
}

type addressPayload struct {
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Company     string `json:"company"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Region      string `json:"region"`
	RegionCode  string `json:"region_code"`
	CountryCode string `json:"country_id"`
	Postcode    string `json:"postcode"`
	Telephone   string `json:"telephone"`
}

type itemPayload struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"qty_ordered"`
	Price     float64 `json:"price"`
	Visible   bool    `json:"visible"`
}

// subscriberPayload is the wire shape of a newsletter status delivery.
type subscriberPayload struct {
	CustomerID    int64 `json:"customer_id"`
	StatusChanged bool  `json:"status_changed"`
	Subscribed    bool  `json:"subscribed"`
}

// MapWebhookEvent decodes a webhook delivery into the domain event for its
// topic.
func MapWebhookEvent(topic string, payload []byte) (*domain.Event, error) {
	switch topic {
	case TopicOrderCreated, TopicOrderRefunded:
		var decoded orderPayload
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, fmt.Errorf("failed to parse order webhook payload: %w", err)
		}
		kind := domain.EventOrderPlaced
		if topic == TopicOrderRefunded {
			kind = domain.EventOrderRefunded
		}
		return &domain.Event{Kind: kind, Order: decoded.toDomain()}, nil

	case TopicNewsletterStatus:
		var decoded subscriberPayload
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, fmt.Errorf("failed to parse newsletter webhook payload: %w", err)
		}
		return &domain.Event{
			Kind: domain.EventSubscriptionChanged,
			Subscriber: &domain.SubscriberChange{
				CustomerID:    decoded.CustomerID,
				StatusChanged: decoded.StatusChanged,
				Subscribed:    decoded.Subscribed,
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported webhook topic %q", topic)
	}
}

func (p *orderPayload) toDomain() *domain.Order {
	order := &domain.Order{
		QuoteID:           p.QuoteID,
		GrandTotal:        p.GrandTotal,
		DiscountAmount:    p.DiscountAmount,
		DiscountCode:      p.CouponCode,
		CustomerEmail:     p.CustomerEmail,
		CustomerFirstName: p.CustomerFirstName,
		CustomerLastName:  p.CustomerLastName,
		Shipping:          p.ShippingAddress.toDomain(),
		Billing:           p.BillingAddress.toDomain(),
	}
	for _, item := range p.Items {
		order.Items = append(order.Items, domain.LineItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Visible:   item.Visible,
		})
	}
	return order
}

func (p *addressPayload) toDomain() *domain.Address {
	if p == nil {
		return nil
	}
	return &domain.Address{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Company:     p.Company,
		Street:      p.Street,
		City:        p.City,
		Region:      p.Region,
		RegionCode:  p.RegionCode,
		CountryCode: p.CountryCode,
		Postcode:    p.Postcode,
		Telephone:   p.Telephone,
	}
}
