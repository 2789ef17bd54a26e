package domain

// Order is an immutable snapshot of a host-platform order at the time the
// triggering event fired.
type Order struct {
	QuoteID           string
	GrandTotal        float64
	DiscountAmount    float64
	DiscountCode      string
	CustomerEmail     string
	CustomerFirstName string
	CustomerLastName  string
	Shipping          *Address
	Billing           *Address
	Items             []LineItem
}

// Address is a host-platform order address. Every field is optional; absent
// fields are omitted from mapped payloads, never emitted as empty strings.
type Address struct {
	FirstName   string
	LastName    string
	Company     string
	Street      string
	City        string
	Region      string
	RegionCode  string
	CountryCode string
	Postcode    string
	Telephone   string
}

// LineItem is a single ordered item. Hidden items (bundled sub-items) carry
// Visible=false and are excluded from mapped payloads.
type LineItem struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int
	Price     float64
	Visible   bool
}
