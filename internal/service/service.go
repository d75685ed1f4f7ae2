package service

import (
	"context"

	"jewelry-orders/internal/gateway/wompi"
	"jewelry-orders/internal/model"

	"github.com/google/uuid"
)

// CartService defines operations on the mutable per-customer cart.
type CartService interface {
	// Get retrieves the customer's active cart.
	Get(ctx context.Context, customerID string) (*model.Cart, error)

	// AddItem adds a line, incrementing quantity for an existing
	// (product, variant) pair, and returns the updated cart.
	AddItem(ctx context.Context, customerID string, req model.CartItemRequest) (*model.Cart, error)

	// UpdateQty overwrites a line's quantity; qty <= 0 removes the line.
	UpdateQty(ctx context.Context, customerID string, req model.CartItemRequest) (*model.Cart, error)

	// RemoveItem deletes a line and returns the updated cart.
	RemoveItem(ctx context.Context, customerID, productID, variant string) (*model.Cart, error)

	// Replace swaps the entire cart contents.
	Replace(ctx context.Context, customerID string, req model.ReplaceCartRequest) (*model.Cart, error)

	// SetAddress attaches a shipping address ahead of finalize.
	SetAddress(ctx context.Context, customerID string, addr model.Address) error
}

// CheckoutService converts a cart into an immutable priced order.
type CheckoutService interface {
	// Finalize re-validates stock, freezes prices and totals, creates the
	// order in pending_payment and discards the cart. No partial orders:
	// any failure leaves both cart and stock untouched.
	Finalize(ctx context.Context, customerID string, req model.CheckoutRequest) (*model.Order, error)
}

// OrderService reads orders and applies guarded lifecycle transitions.
type OrderService interface {
	// GetByID retrieves an order, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByCustomer retrieves a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)

	// Transition moves an order to a new status iff the transition is
	// legal and the caller's expected version still matches. Emits the
	// corresponding domain event exactly once on success.
	Transition(ctx context.Context, id uuid.UUID, to model.OrderStatus, expectedVersion int64, gatewayRef *string) (*model.Order, error)
}

// PaymentGateway is the slice of the gateway client the payment service
// depends on.
type PaymentGateway interface {
	Token(ctx context.Context) (*wompi.Token, error)
	Charge(ctx context.Context, bearer string, req wompi.ChargeRequest) (*wompi.ChargeResult, error)
	GetTransaction(ctx context.Context, bearer, reference string) (*wompi.ChargeResult, error)
}

// ChargeOutcome is the caller-visible result of a charge attempt.
type ChargeOutcome string

const (
	OutcomeApproved ChargeOutcome = "approved"
	OutcomeRejected ChargeOutcome = "rejected"
	// OutcomePendingConfirmation means the gateway outcome is unknown and
	// the order stays in pending_payment awaiting reconciliation. This is
	// a result, not an error: guessing risks a double charge or a lost sale.
	OutcomePendingConfirmation ChargeOutcome = "pending_confirmation"
)

// ChargeParams describes one charge attempt against an order.
type ChargeParams struct {
	OrderID     uuid.UUID
	CardToken   string
	Mode        wompi.ChargeMode
	Email       string
	Name        string
	RedirectURL string
	// Bearer is an optional pre-acquired gateway token; when empty the
	// service acquires a fresh one.
	Bearer string
}

// ChargeResponse is what a charge attempt produced.
type ChargeResponse struct {
	Outcome       ChargeOutcome `json:"outcome"`
	TransactionID string        `json:"transactionId,omitempty"`
	Message       string        `json:"message,omitempty"`
	ThreeDSURL    string        `json:"threeDsUrl,omitempty"`
	Order         *model.Order  `json:"order,omitempty"`
}

// PaymentService drives the two-legged gateway protocol for an order.
type PaymentService interface {
	// AcquireToken performs the client-credentials token leg with bounded
	// retry.
	AcquireToken(ctx context.Context) (*wompi.Token, error)

	// Charge submits at most one charge for the order. Duplicate attempts
	// are rejected locally; ambiguous outcomes are reconciled or surfaced
	// as pending_confirmation.
	Charge(ctx context.Context, params ChargeParams) (*ChargeResponse, error)
}
