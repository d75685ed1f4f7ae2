package service

import (
	"context"
	"fmt"

	"jewelry-orders/internal/event"
	"jewelry-orders/internal/model"
	"jewelry-orders/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. The version guard on the order
// row linearizes transitions per order; different orders are fully
// independent.
type orderService struct {
	orderRepo  repository.OrderRepository
	dispatcher event.Dispatcher
	logger     zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	dispatcher event.Dispatcher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "order").Logger(),
	}
}

// GetByID retrieves an order by its ID.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListByCustomer retrieves a customer's orders, newest first.
func (s *orderService) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Transition applies a guarded lifecycle transition. Illegal edges are
// rejected as such, never coerced; a version mismatch means another actor
// (webhook, admin, poll) moved the order first and the caller must
// re-fetch.
func (s *orderService) Transition(ctx context.Context, id uuid.UUID, to model.OrderStatus, expectedVersion int64, gatewayRef *string) (*model.Order, error) {
	if !model.IsValidStatus(to) {
		return nil, model.ErrIllegalTransition
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.Version != expectedVersion {
		s.logger.Warn().
			Str("order_id", id.String()).
			Int64("expected_version", expectedVersion).
			Int64("current_version", order.Version).
			Msg("stale version on transition")
		return nil, model.ErrStaleOrderVersion
	}

	from := order.Status
	if !model.CanTransition(from, to) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("illegal transition rejected")
		return nil, model.ErrIllegalTransition
	}

	applied, err := s.orderRepo.ApplyTransition(ctx, id, to, gatewayRef, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	if !applied {
		// Lost the race between the read above and the guarded update.
		return nil, model.ErrStaleOrderVersion
	}

	updated, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order transitioned")

	// Exactly one event per successful transition; delivery failures are
	// the collaborator's problem and never revert the transition.
	if dispatchErr := s.dispatcher.Dispatch(ctx, event.ForTransition(updated, from, to)); dispatchErr != nil {
		s.logger.Error().Err(dispatchErr).Str("order_id", id.String()).Msg("failed to dispatch order event")
	}

	return updated, nil
}
