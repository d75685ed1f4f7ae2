package model

// OrderStatus is the canonical order lifecycle state. The Spanish values
// are the wire values the storefront and admin panel already speak.
type OrderStatus string

const (
	StatusCart           OrderStatus = "cart"
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "pagado"
	StatusNotPaid        OrderStatus = "no_pagado"
	StatusCancelled      OrderStatus = "cancelado"
	StatusShipped        OrderStatus = "en_camino"
	StatusDelivered      OrderStatus = "entregado"
)

// validTransitions is the full transition graph. Anything not listed here
// is illegal, including self-transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusCart:           {StatusPendingPayment},
	StatusPendingPayment: {StatusPaid, StatusNotPaid, StatusCancelled},
	StatusPaid:           {StatusShipped},
	StatusShipped:        {StatusDelivered},
	StatusNotPaid:        {},
	StatusCancelled:      {},
	StatusDelivered:      {},
}

// CanTransition reports whether from -> to is a legal lifecycle transition.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known lifecycle state.
func IsValidStatus(s OrderStatus) bool {
	_, ok := validTransitions[s]
	return ok
}
