package application

import "commerce-klaviyo-layer/internal/domain"

// Payload is the pair of property maps the provider's track endpoint expects:
// who the customer is, and what the event was about.
type Payload struct {
	CustomerProperties map[string]interface{}
	Properties         map[string]interface{}
}

// MapOrder builds the tracking payload for an order. Identity fields come
// from the customer record plus the shipping address (billing is never used
// for identity); event properties carry the order totals, both addresses and
// the visible line items. Empty source fields are omitted entirely rather
// than emitted as empty values. Pure, no I/O.
func MapOrder(order *domain.Order) Payload {
	customerProps := map[string]interface{}{}
	props := map[string]interface{}{}

	if order.CustomerEmail != "" {
		customerProps["$email"] = order.CustomerEmail
	}
	if order.CustomerFirstName != "" {
		customerProps["$first_name"] = order.CustomerFirstName
	}
	if order.CustomerLastName != "" {
		customerProps["$last_name"] = order.CustomerLastName
	}

	if shipping := order.Shipping; shipping != nil {
		if shipping.Telephone != "" {
			customerProps["$phone_number"] = shipping.Telephone
		}
		if shipping.City != "" {
			customerProps["$city"] = shipping.City
		}
		if shipping.Street != "" {
			customerProps["$address1"] = shipping.Street
		}
		if shipping.Postcode != "" {
			customerProps["$zip"] = shipping.Postcode
		}
		if shipping.Region != "" {
			customerProps["$region"] = shipping.Region
		}
		if shipping.CountryCode != "" {
			customerProps["$country"] = shipping.CountryCode
		}
	}

	if order.GrandTotal != 0 {
		props["$value"] = order.GrandTotal
	}
	if order.QuoteID != "" {
		props["$event_id"] = order.QuoteID
	}
	if order.DiscountAmount != 0 {
		props["Discount Value"] = order.DiscountAmount
	}
	if order.DiscountCode != "" {
		props["Discount Code"] = order.DiscountCode
	}

	props["BillingAddress"] = mapAddress(order.Billing)
	props["ShippingAddress"] = mapAddress(order.Shipping)
	props["Items"] = mapItems(order.Items)

	return Payload{CustomerProperties: customerProps, Properties: props}
}

// MapRefund builds the tracking payload for a refunded order. The Reason is a
// fixed placeholder; the host platform gives no way to read the actual refund
// comment here.
func MapRefund(order *domain.Order) Payload {
	payload := MapOrder(order)
	payload.Properties["Reason"] = "Not Needed"
	return payload
}

// mapAddress is shared between billing and shipping. No defaulting and no
// normalization; only non-empty source fields appear in the output.
func mapAddress(address *domain.Address) map[string]interface{} {
	mapped := map[string]interface{}{}
	if address == nil {
		return mapped
	}

	if address.FirstName != "" {
		mapped["FirstName"] = address.FirstName
	}
	if address.LastName != "" {
		mapped["LastName"] = address.LastName
	}
	if address.Company != "" {
		mapped["Company"] = address.Company
	}
	if address.Street != "" {
		mapped["Address1"] = address.Street
	}
	if address.City != "" {
		mapped["City"] = address.City
	}
	if address.Region != "" {
		mapped["Region"] = address.Region
	}
	if address.RegionCode != "" {
		mapped["RegionCode"] = address.RegionCode
	}
	if address.CountryCode != "" {
		mapped["CountryCode"] = address.CountryCode
	}
	if address.Postcode != "" {
		mapped["Zip"] = address.Postcode
	}
	if address.Telephone != "" {
		mapped["Phone"] = address.Telephone
	}

	return mapped
}

func mapItems(items []domain.LineItem) []map[string]interface{} {
	mapped := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if !item.Visible {
			continue
		}
		mapped = append(mapped, map[string]interface{}{
			"ProductId":   item.ProductID,
			"SKU":         item.SKU,
			"ProductName": item.Name,
			"Quantity":    item.Quantity,
			"ItemPrice":   item.Price,
		})
	}
	return mapped
}
