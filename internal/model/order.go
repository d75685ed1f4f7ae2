package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine is a frozen line on an order, copied from the cart at finalize
// time. It is never recomputed from live catalog prices afterwards.
type OrderLine struct {
	ProductID      string `json:"productId"`
	Variant        string `json:"variant,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents Cents  `json:"unitPriceCents"`
	SubtotalCents  Cents  `json:"subtotalCents"`
}

// Order is the immutable-once-priced aggregate. Products and the money
// fields are frozen at the pending_payment transition; only status,
// gateway_reference and version move afterwards.
type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	CustomerID       string      `json:"customerId" db:"customer_id"`
	Products         []OrderLine `json:"products" db:"products"`
	ShippingAddress  Address     `json:"shippingAddress" db:"shipping_address"`
	ShippingCents    Cents       `json:"shippingCents" db:"shipping_cents"`
	TaxCents         Cents       `json:"taxCents" db:"tax_cents"`
	DiscountCents    Cents       `json:"discountCents" db:"discount_cents"`
	TotalCents       Cents       `json:"totalCents" db:"total_cents"`
	Status           OrderStatus `json:"status" db:"status"`
	GatewayReference *string     `json:"gatewayReference,omitempty" db:"gateway_reference"`
	Version          int64       `json:"version" db:"version"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderResponse is the wire shape of an order. Total is the legacy display
// float the storefront still reads; it always equals TotalCents / 100.
type OrderResponse struct {
	Order
	Total float64 `json:"total"`
}

// NewOrderResponse builds the wire representation of an order.
func NewOrderResponse(o *Order) *OrderResponse {
	return &OrderResponse{Order: *o, Total: o.TotalCents.ToDisplay()}
}

// CheckoutRequest is the payload for POST /api/orders. Shipping, tax and
// discount are computed upstream by the pricing collaborator and only
// folded into the frozen total here.
type CheckoutRequest struct {
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
	ShippingCents   Cents    `json:"shippingCents"`
	TaxCents        Cents    `json:"taxCents"`
	DiscountCents   Cents    `json:"discountCents"`
}

// StatusUpdateRequest is the payload for the admin transition endpoint.
type StatusUpdateRequest struct {
	Status  OrderStatus `json:"status"`
	Version int64       `json:"version"`
}
