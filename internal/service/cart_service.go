package service

import (
	"context"
	"fmt"

	"jewelry-orders/internal/model"
	"jewelry-orders/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. Every mutation re-reads the live
// catalog price and stores it on the line, so checkout prices a stable
// snapshot even when catalog prices drift between add and checkout.
type cartService struct {
	cartRepo repository.CartRepository
	catalog  repository.CatalogRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	catalog repository.CatalogRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Get retrieves the customer's active cart.
func (s *cartService) Get(ctx context.Context, customerID string) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// snapshotItem validates the product and builds a line with the current
// catalog price captured.
func (s *cartService) snapshotItem(ctx context.Context, req model.CartItemRequest) (*model.CartItem, error) {
	if req.ProductID == "" {
		return nil, model.ErrProductNotFound
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		s.logger.Warn().Str("product_id", req.ProductID).Msg("unknown product in cart mutation")
		return nil, model.ErrProductNotFound
	}

	return &model.CartItem{
		ProductID:      req.ProductID,
		Variant:        req.Variant,
		Quantity:       req.Quantity,
		UnitPriceCents: product.PriceCents,
	}, nil
}

// AddItem adds a line or increments an existing (product, variant) pair.
func (s *cartService) AddItem(ctx context.Context, customerID string, req model.CartItemRequest) (*model.Cart, error) {
	item, err := s.snapshotItem(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, customerID, *item); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("customer_id", customerID).
		Str("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Msg("cart item added")

	return s.Get(ctx, customerID)
}

// UpdateQty overwrites a line's quantity; qty <= 0 removes the line.
func (s *cartService) UpdateQty(ctx context.Context, customerID string, req model.CartItemRequest) (*model.Cart, error) {
	if req.Quantity <= 0 {
		return s.RemoveItem(ctx, customerID, req.ProductID, req.Variant)
	}

	item, err := s.snapshotItem(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.SetQuantity(ctx, customerID, *item); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to update cart quantity")
		return nil, fmt.Errorf("failed to update cart quantity: %w", err)
	}

	return s.Get(ctx, customerID)
}

// RemoveItem deletes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, customerID, productID, variant string) (*model.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, customerID, productID, variant); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to remove cart item")
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.Get(ctx, customerID)
}

// Replace swaps the entire cart contents.
func (s *cartService) Replace(ctx context.Context, customerID string, req model.ReplaceCartRequest) (*model.Cart, error) {
	items := make([]model.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		item, err := s.snapshotItem(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := s.cartRepo.Replace(ctx, customerID, items); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to replace cart")
		return nil, fmt.Errorf("failed to replace cart: %w", err)
	}

	s.logger.Info().
		Str("customer_id", customerID).
		Int("item_count", len(items)).
		Msg("cart replaced")

	return s.Get(ctx, customerID)
}

// SetAddress attaches a shipping address ahead of finalize.
func (s *cartService) SetAddress(ctx context.Context, customerID string, addr model.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}

	if err := s.cartRepo.SetAddress(ctx, customerID, addr); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to set cart address")
		return fmt.Errorf("failed to set cart address: %w", err)
	}
	return nil
}
