package repository

import (
	"context"
	"fmt"

	"jewelry-orders/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL. One cart row
// per customer plus one cart_items row per (product, variant) line.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// lockCustomer serializes multi-statement cart mutations per customer.
func lockCustomer(ctx context.Context, tx pgx.Tx, customerID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, customerID)
	if err != nil {
		return fmt.Errorf("failed to take customer lock: %w", err)
	}
	return nil
}

// Get retrieves the customer's active cart with its items in insertion order.
func (r *cartRepository) Get(ctx context.Context, customerID string) (*model.Cart, error) {
	cart := &model.Cart{CustomerID: customerID}

	headerQuery := `
		SELECT shipping_address, updated_at
		FROM carts
		WHERE customer_id = $1
	`
	err := r.pool.QueryRow(ctx, headerQuery, customerID).Scan(&cart.ShippingAddress, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return cart, nil
		}
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT product_id, variant, quantity, unit_price_cents, added_at
		FROM cart_items
		WHERE customer_id = $1
		ORDER BY added_at, product_id, variant
	`
	rows, err := r.pool.Query(ctx, itemsQuery, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Variant, &item.Quantity, &item.UnitPriceCents, &item.AddedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

// ensureCart upserts the cart header row within a transaction.
func (r *cartRepository) ensureCart(ctx context.Context, tx pgx.Tx, customerID string) error {
	query := `
		INSERT INTO carts (customer_id, updated_at)
		VALUES ($1, now())
		ON CONFLICT (customer_id) DO UPDATE SET updated_at = now()
	`
	if _, err := tx.Exec(ctx, query, customerID); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

// AddItem inserts a line or increments an existing (product, variant)
// line. The upsert merges concurrent insertions of different products at
// line granularity instead of overwriting the whole cart.
func (r *cartRepository) AddItem(ctx context.Context, customerID string, item model.CartItem) error {
	return r.mutate(ctx, customerID, func(tx pgx.Tx) error {
		query := `
			INSERT INTO cart_items (customer_id, product_id, variant, quantity, unit_price_cents, added_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (customer_id, product_id, variant)
			DO UPDATE SET
				quantity = cart_items.quantity + EXCLUDED.quantity,
				unit_price_cents = EXCLUDED.unit_price_cents
		`
		_, err := tx.Exec(ctx, query, customerID, item.ProductID, item.Variant, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	})
}

// SetQuantity overwrites the quantity of a line, last write wins.
func (r *cartRepository) SetQuantity(ctx context.Context, customerID string, item model.CartItem) error {
	return r.mutate(ctx, customerID, func(tx pgx.Tx) error {
		query := `
			INSERT INTO cart_items (customer_id, product_id, variant, quantity, unit_price_cents, added_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (customer_id, product_id, variant)
			DO UPDATE SET
				quantity = EXCLUDED.quantity,
				unit_price_cents = EXCLUDED.unit_price_cents
		`
		_, err := tx.Exec(ctx, query, customerID, item.ProductID, item.Variant, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return fmt.Errorf("failed to set cart item quantity: %w", err)
		}
		return nil
	})
}

// RemoveItem deletes a single line from the cart.
func (r *cartRepository) RemoveItem(ctx context.Context, customerID, productID, variant string) error {
	query := `
		DELETE FROM cart_items
		WHERE customer_id = $1 AND product_id = $2 AND variant = $3
	`
	_, err := r.pool.Exec(ctx, query, customerID, productID, variant)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("customer_id", customerID).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Replace swaps the entire item list atomically.
func (r *cartRepository) Replace(ctx context.Context, customerID string, items []model.CartItem) error {
	return r.mutate(ctx, customerID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID); err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}

		if len(items) == 0 {
			return nil
		}

		query := `
			INSERT INTO cart_items (customer_id, product_id, variant, quantity, unit_price_cents, added_at)
			VALUES ($1, $2, $3, $4, $5, now())
		`
		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(query, customerID, item.ProductID, item.Variant, item.Quantity, item.UnitPriceCents)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range items {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to insert cart item: %w", err)
			}
		}
		return nil
	})
}

// SetAddress attaches a shipping address to the cart.
func (r *cartRepository) SetAddress(ctx context.Context, customerID string, addr model.Address) error {
	query := `
		INSERT INTO carts (customer_id, shipping_address, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (customer_id) DO UPDATE SET
			shipping_address = EXCLUDED.shipping_address,
			updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query, customerID, addr); err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to set cart address")
		return fmt.Errorf("failed to set cart address: %w", err)
	}
	return nil
}

// ClearTx empties the cart within an externally managed transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, customerID string) error {
	if err := lockCustomer(ctx, tx, customerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET shipping_address = NULL, updated_at = now() WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("failed to reset cart: %w", err)
	}
	return nil
}

// mutate runs fn in a transaction holding the per-customer advisory lock.
func (r *cartRepository) mutate(ctx context.Context, customerID string, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockCustomer(ctx, tx, customerID); err != nil {
		return err
	}
	if err := r.ensureCart(ctx, tx, customerID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("cart mutation failed")
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cart mutation: %w", err)
	}
	return nil
}
