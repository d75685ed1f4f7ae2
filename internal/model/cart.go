package model

import "time"

// CartItem is a single line in a customer's cart. The unit price is
// captured from the catalog at mutation time so checkout prices a
// consistent snapshot even if catalog prices drift afterwards.
type CartItem struct {
	ProductID      string    `json:"productId" db:"product_id"`
	Variant        string    `json:"variant" db:"variant"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPriceCents Cents     `json:"unitPriceCents" db:"unit_price_cents"`
	AddedAt        time.Time `json:"addedAt" db:"added_at"`
}

// Cart is the mutable pre-order aggregate, one active cart per customer.
type Cart struct {
	CustomerID      string     `json:"customerId"`
	Items           []CartItem `json:"items"`
	ShippingAddress *Address   `json:"shippingAddress,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// SubtotalCents sums the line subtotals of the cart snapshot.
func (c *Cart) SubtotalCents() Cents {
	var total Cents
	for _, item := range c.Items {
		total += Subtotal(item.UnitPriceCents, item.Quantity)
	}
	return total
}

// Address is a shipping address attached to a cart before finalize and
// frozen onto the order afterwards.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Validate checks the fields required to ship a physical parcel.
func (a *Address) Validate() error {
	if a == nil {
		return ErrInvalidAddress
	}
	if a.Line1 == "" || a.City == "" || a.Country == "" {
		return ErrInvalidAddress
	}
	return nil
}

// CartItemRequest is the payload for cart line mutations.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// ReplaceCartRequest is the payload for PUT /api/orders/cart.
type ReplaceCartRequest struct {
	Items []CartItemRequest `json:"items"`
}
