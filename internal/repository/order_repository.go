package repository

import (
	"context"
	"fmt"

	"jewelry-orders/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `
	id, customer_id, products, shipping_address,
	shipping_cents, tax_cents, discount_cents, total_cents,
	status, gateway_reference, version, created_at, updated_at
`

// CreateTx inserts a new order within the provided transaction. The line
// items and address are stored as frozen JSONB documents.
func (r *orderRepository) CreateTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, customer_id, products, shipping_address,
			shipping_cents, tax_cents, discount_cents, total_cents,
			status, gateway_reference, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.Products,
		order.ShippingAddress,
		order.ShippingCents,
		order.TaxCents,
		order.DiscountCents,
		order.TotalCents,
		order.Status,
		order.GatewayReference,
		order.Version,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int64("total_cents", int64(order.TotalCents)).
		Msg("order created")

	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Products,
		&o.ShippingAddress,
		&o.ShippingCents,
		&o.TaxCents,
		&o.DiscountCents,
		&o.TotalCents,
		&o.Status,
		&o.GatewayReference,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// ListByCustomer retrieves all orders for a customer, newest first.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// ApplyTransition is the single concurrency guard for multi-actor order
// writes: the row moves only when the stored version still matches.
func (r *orderRepository) ApplyTransition(ctx context.Context, id uuid.UUID, to model.OrderStatus, gatewayRef *string, expectedVersion int64) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2,
			gateway_reference = COALESCE($3, gateway_reference),
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $4
	`

	tag, err := r.pool.Exec(ctx, query, id, to, gatewayRef, expectedVersion)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("to_status", string(to)).
			Msg("failed to apply transition")
		return false, fmt.Errorf("failed to apply transition: %w", err)
	}

	applied := tag.RowsAffected() == 1
	r.logger.Debug().
		Str("order_id", id.String()).
		Str("to_status", string(to)).
		Int64("expected_version", expectedVersion).
		Bool("applied", applied).
		Msg("transition attempted")

	return applied, nil
}
