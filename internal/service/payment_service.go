package service

import (
	"context"
	"errors"
	"fmt"

	"jewelry-orders/internal/gateway/wompi"
	"jewelry-orders/internal/idempotency"
	"jewelry-orders/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const tokenRetryAttempts = 3

// paymentService implements PaymentService: the token leg, the guarded
// charge leg, and reconciliation of ambiguous outcomes.
type paymentService struct {
	gateway PaymentGateway
	orders  OrderService
	guard   idempotency.Guard
	logger  zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	gateway PaymentGateway,
	orders OrderService,
	guard idempotency.Guard,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		gateway: gateway,
		orders:  orders,
		guard:   guard,
		logger:  logger.With().Str("service", "payment").Logger(),
	}
}

// AcquireToken performs the client-credentials leg. The identity endpoint
// is idempotent, so transient failures are retried with bounded backoff.
func (s *paymentService) AcquireToken(ctx context.Context) (*wompi.Token, error) {
	var token *wompi.Token

	operation := func() error {
		var err error
		token, err = s.gateway.Token(ctx)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), tokenRetryAttempts),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Error().Err(err).Msg("token acquisition exhausted retries")
		return nil, model.ErrTokenAcquisition
	}

	return token, nil
}

// Charge runs the charge leg for an order. At most one charge is ever
// forwarded to the gateway per order id.
func (s *paymentService) Charge(ctx context.Context, params ChargeParams) (*ChargeResponse, error) {
	order, err := s.orders.GetByID(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	// The order's own state is the first duplicate check: a recorded
	// gateway reference or a paid status means a charge already ran.
	if order.Status == model.StatusPaid || order.GatewayReference != nil {
		s.logger.Warn().Str("order_id", order.ID.String()).Msg("duplicate charge attempt rejected")
		return nil, model.ErrDuplicateCharge
	}
	if order.Status != model.StatusPendingPayment {
		return nil, model.ErrIllegalTransition
	}

	// The in-flight mark closes the window between the status check and
	// the gateway call for concurrent submissions.
	acquired, err := s.guard.Acquire(ctx, order.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check charge guard: %w", err)
	}
	if !acquired {
		s.logger.Warn().Str("order_id", order.ID.String()).Msg("charge already in flight")
		return nil, model.ErrDuplicateCharge
	}

	bearer := params.Bearer
	if bearer == "" {
		token, tokenErr := s.AcquireToken(ctx)
		if tokenErr != nil {
			s.releaseGuard(order.ID.String())
			return nil, tokenErr
		}
		bearer = token.AccessToken
	}

	chargeReq := wompi.ChargeRequest{
		Mode:        params.Mode,
		Reference:   order.ID.String(),
		CardToken:   params.CardToken,
		AmountCents: order.TotalCents,
		Email:       params.Email,
		Name:        params.Name,
		RedirectURL: params.RedirectURL,
	}

	// The charge must complete and be recorded even if the original
	// caller hangs up mid-flight; the gateway call is not idempotent.
	chargeCtx := context.WithoutCancel(ctx)

	result, err := s.gateway.Charge(chargeCtx, bearer, chargeReq)
	if err != nil {
		if errors.Is(err, wompi.ErrAmbiguousOutcome) {
			return s.reconcile(chargeCtx, order, bearer)
		}
		s.releaseGuard(order.ID.String())
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("charge failed before reaching the gateway")
		return nil, fmt.Errorf("charge failed: %w", err)
	}

	return s.record(chargeCtx, order, result)
}

// record applies the gateway verdict to the order and releases the guard.
func (s *paymentService) record(ctx context.Context, order *model.Order, result *wompi.ChargeResult) (*ChargeResponse, error) {
	defer s.releaseGuard(order.ID.String())

	to := model.StatusNotPaid
	if result.IsApproved() {
		to = model.StatusPaid
	}

	var gatewayRef *string
	if result.TransactionID != "" {
		gatewayRef = &result.TransactionID
	}

	updated, err := s.orders.Transition(ctx, order.ID, to, order.Version, gatewayRef)
	if err != nil {
		// A concurrent actor already moved the order; the gateway verdict
		// is preserved in the returned error for the caller to re-fetch.
		return nil, err
	}

	resp := &ChargeResponse{
		TransactionID: result.TransactionID,
		Message:       result.Message,
		ThreeDSURL:    result.ThreeDSURL,
		Order:         updated,
	}
	if result.IsApproved() {
		resp.Outcome = OutcomeApproved
	} else {
		resp.Outcome = OutcomeRejected
	}
	return resp, nil
}

// reconcile resolves an ambiguous charge by querying the gateway for the
// order reference. When even that fails, the order stays in
// pending_payment and the in-flight mark stays held: nothing is guessed.
func (s *paymentService) reconcile(ctx context.Context, order *model.Order, bearer string) (*ChargeResponse, error) {
	s.logger.Warn().Str("order_id", order.ID.String()).Msg("charge outcome ambiguous, reconciling")

	result, err := s.gateway.GetTransaction(ctx, bearer, order.ID.String())
	if err != nil {
		if errors.Is(err, wompi.ErrTransactionNotFound) {
			// The charge never reached the gateway. Safe to re-attempt.
			s.releaseGuard(order.ID.String())
			return &ChargeResponse{Outcome: OutcomePendingConfirmation, Order: order}, nil
		}

		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("reconciliation unavailable, order left pending for manual resolution")
		return &ChargeResponse{Outcome: OutcomePendingConfirmation, Order: order}, nil
	}

	return s.record(ctx, order, result)
}

// releaseGuard drops the in-flight mark. Failures are logged only; the
// mark TTL still bounds how long a stuck mark blocks re-attempts.
func (s *paymentService) releaseGuard(orderID string) {
	if err := s.guard.Release(context.Background(), orderID); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to release charge guard")
	}
}
