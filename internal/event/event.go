// Package event emits domain events on order lifecycle transitions. The
// email sender and other collaborators consume them downstream; nothing in
// this core waits on delivery.
package event

import (
	"time"

	"jewelry-orders/internal/model"
)

// Event types, one per lifecycle transition destination.
const (
	TypeOrderReceived    = "OrderReceived"
	TypePaymentConfirmed = "PaymentConfirmed"
	TypePaymentFailed    = "PaymentFailed"
	TypeOrderCancelled   = "OrderCancelled"
	TypeOrderShipped     = "OrderShipped"
	TypeOrderDelivered   = "OrderDelivered"
)

// Event is a domain event describing one successful order transition.
type Event struct {
	Type       string            `json:"type"`
	OrderID    string            `json:"orderId"`
	CustomerID string            `json:"customerId"`
	From       model.OrderStatus `json:"from"`
	To         model.OrderStatus `json:"to"`
	TotalCents model.Cents       `json:"totalCents"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// ForTransition builds the event for a completed transition. Every legal
// destination state maps to exactly one event type.
func ForTransition(order *model.Order, from, to model.OrderStatus) Event {
	var eventType string
	switch to {
	case model.StatusPendingPayment:
		eventType = TypeOrderReceived
	case model.StatusPaid:
		eventType = TypePaymentConfirmed
	case model.StatusNotPaid:
		eventType = TypePaymentFailed
	case model.StatusCancelled:
		eventType = TypeOrderCancelled
	case model.StatusShipped:
		eventType = TypeOrderShipped
	case model.StatusDelivered:
		eventType = TypeOrderDelivered
	}

	return Event{
		Type:       eventType,
		OrderID:    order.ID.String(),
		CustomerID: order.CustomerID,
		From:       from,
		To:         to,
		TotalCents: order.TotalCents,
		OccurredAt: time.Now().UTC(),
	}
}
