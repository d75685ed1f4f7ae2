package repository

import (
	"context"

	"jewelry-orders/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository exposes the slice of the product catalog this core
// needs: snapshot prices for cart mutations and stock for checkout.
type CatalogRepository interface {
	// GetByID retrieves a single product, or nil if it does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// ReserveStock decrements stock for a product within the provided
	// transaction. Returns false when the remaining stock is insufficient.
	ReserveStock(ctx context.Context, tx pgx.Tx, productID string, qty int) (bool, error)
}

// CartRepository persists the mutable per-customer cart aggregate.
// Multi-statement mutations serialize per customer via an advisory
// transaction lock so concurrent clients merge instead of clobbering.
type CartRepository interface {
	// Get retrieves the customer's active cart. A customer with no cart
	// row gets an empty cart back, never nil.
	Get(ctx context.Context, customerID string) (*model.Cart, error)

	// AddItem inserts a line or increments the quantity of an existing
	// (productID, variant) line.
	AddItem(ctx context.Context, customerID string, item model.CartItem) error

	// SetQuantity overwrites the quantity of an existing line.
	SetQuantity(ctx context.Context, customerID string, item model.CartItem) error

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, customerID, productID, variant string) error

	// Replace swaps the entire item list atomically.
	Replace(ctx context.Context, customerID string, items []model.CartItem) error

	// SetAddress attaches a shipping address to the cart.
	SetAddress(ctx context.Context, customerID string, addr model.Address) error

	// ClearTx empties the cart within the provided transaction. Used by
	// checkout so order creation and cart destruction commit together.
	ClearTx(ctx context.Context, tx pgx.Tx, customerID string) error
}

// OrderRepository persists the immutable order aggregate and applies
// version-guarded status transitions.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateTx inserts a new order within the provided transaction.
	CreateTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByCustomer retrieves all orders for a customer, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)

	// ApplyTransition updates status (and optionally the gateway
	// reference) iff the stored version still equals expectedVersion,
	// bumping the version. Returns false when the guard did not match.
	ApplyTransition(ctx context.Context, id uuid.UUID, to model.OrderStatus, gatewayRef *string, expectedVersion int64) (bool, error)
}
