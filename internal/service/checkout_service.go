package service

import (
	"context"
	"fmt"
	"time"

	"jewelry-orders/internal/event"
	"jewelry-orders/internal/model"
	"jewelry-orders/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService. Stock reservation, order
// creation and cart destruction commit in a single transaction so a
// failure on any line leaves nothing behind.
type checkoutService struct {
	orderRepo  repository.OrderRepository
	cartRepo   repository.CartRepository
	catalog    repository.CatalogRepository
	dispatcher event.Dispatcher
	logger     zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	catalog repository.CatalogRepository,
	dispatcher event.Dispatcher,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "checkout").Logger(),
	}
}

// Finalize converts the customer's cart into an order in pending_payment.
func (s *checkoutService) Finalize(ctx context.Context, customerID string, req model.CheckoutRequest) (*model.Order, error) {
	cart, err := s.cartRepo.Get(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, model.ErrEmptyCart
	}

	address := req.ShippingAddress
	if address == nil {
		address = cart.ShippingAddress
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	if req.ShippingCents < 0 || req.TaxCents < 0 || req.DiscountCents < 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Shipping, tax and discount must not be negative")
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize checkout: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	// Stock is re-validated against the live catalog; the snapshot prices
	// on the cart lines are what gets frozen onto the order.
	lines := make([]model.OrderLine, len(cart.Items))
	var itemsSubtotal model.Cents
	for i, item := range cart.Items {
		var reserved bool
		reserved, err = s.catalog.ReserveStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to finalize checkout: %w", err)
		}
		if !reserved {
			s.logger.Warn().
				Str("customer_id", customerID).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("insufficient stock at checkout")
			err = model.ErrOutOfStock
			return nil, err
		}

		subtotal := model.Subtotal(item.UnitPriceCents, item.Quantity)
		lines[i] = model.OrderLine{
			ProductID:      item.ProductID,
			Variant:        item.Variant,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  subtotal,
		}
		itemsSubtotal += subtotal
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Products:        lines,
		ShippingAddress: *address,
		ShippingCents:   req.ShippingCents,
		TaxCents:        req.TaxCents,
		DiscountCents:   req.DiscountCents,
		TotalCents:      model.OrderTotal(itemsSubtotal, req.ShippingCents, req.TaxCents, req.DiscountCents),
		Status:          model.StatusPendingPayment,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.CreateTx(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to finalize checkout: %w", err)
	}

	if err = s.cartRepo.ClearTx(ctx, tx, customerID); err != nil {
		return nil, fmt.Errorf("failed to finalize checkout: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit checkout")
		return nil, fmt.Errorf("failed to finalize checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("customer_id", customerID).
		Int("line_count", len(lines)).
		Int64("total_cents", int64(order.TotalCents)).
		Msg("checkout finalized")

	// Notification failures never revert a committed checkout.
	if dispatchErr := s.dispatcher.Dispatch(ctx, event.ForTransition(order, model.StatusCart, model.StatusPendingPayment)); dispatchErr != nil {
		s.logger.Error().Err(dispatchErr).Str("order_id", order.ID.String()).Msg("failed to dispatch order event")
	}

	return order, nil
}
