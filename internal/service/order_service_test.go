package service

import (
	"context"
	"testing"
	"time"

	"jewelry-orders/internal/event"
	"jewelry-orders/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingOrder(id uuid.UUID) *model.Order {
	now := time.Now()
	return &model.Order{
		ID:         id,
		CustomerID: "cust-1",
		Products: []model.OrderLine{
			{ProductID: "P1", Quantity: 2, UnitPriceCents: 1999, SubtotalCents: 3998},
		},
		ShippingCents: 500,
		TotalCents:    4498,
		Status:        model.StatusPendingPayment,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestOrderService_Transition_Approved(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	repo := new(MockOrderRepository)
	dispatcher := &recordingDispatcher{}
	svc := NewOrderService(repo, dispatcher, zerolog.Nop())

	order := pendingOrder(orderID)
	txnID := "txn-99"

	paid := *order
	paid.Status = model.StatusPaid
	paid.GatewayReference = &txnID
	paid.Version = 2

	repo.On("GetByID", ctx, orderID).Return(order, nil).Once()
	repo.On("ApplyTransition", ctx, orderID, model.StatusPaid, &txnID, int64(1)).Return(true, nil)
	repo.On("GetByID", ctx, orderID).Return(&paid, nil).Once()

	updated, err := svc.Transition(ctx, orderID, model.StatusPaid, 1, &txnID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, updated.Status)
	assert.EqualValues(t, 2, updated.Version)

	events := dispatcher.Events()
	require.Len(t, events, 1, "exactly one event per successful transition")
	assert.Equal(t, event.TypePaymentConfirmed, events[0].Type)

	repo.AssertExpectations(t)
}

func TestOrderService_Transition_StaleVersion(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	repo := new(MockOrderRepository)
	dispatcher := &recordingDispatcher{}
	svc := NewOrderService(repo, dispatcher, zerolog.Nop())

	order := pendingOrder(orderID)
	order.Version = 3

	repo.On("GetByID", ctx, orderID).Return(order, nil)

	_, err := svc.Transition(ctx, orderID, model.StatusPaid, 1, nil)
	assert.ErrorIs(t, err, model.ErrStaleOrderVersion)
	assert.Empty(t, dispatcher.Events())
	repo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Transition_LostRaceAfterRead(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, &recordingDispatcher{}, zerolog.Nop())

	repo.On("GetByID", ctx, orderID).Return(pendingOrder(orderID), nil)
	repo.On("ApplyTransition", ctx, orderID, model.StatusPaid, (*string)(nil), int64(1)).Return(false, nil)

	_, err := svc.Transition(ctx, orderID, model.StatusPaid, 1, nil)
	assert.ErrorIs(t, err, model.ErrStaleOrderVersion)
}

func TestOrderService_Transition_IllegalEdgesRejected(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	dispatcher := &recordingDispatcher{}
	svc := NewOrderService(repo, dispatcher, zerolog.Nop())

	tests := []struct {
		name string
		from model.OrderStatus
		to   model.OrderStatus
	}{
		{"paid order cannot be re-confirmed", model.StatusPaid, model.StatusPaid},
		{"paid cannot re-enter pending", model.StatusPaid, model.StatusPendingPayment},
		{"cancelled is terminal", model.StatusCancelled, model.StatusPaid},
		{"not paid is terminal for the payment leg", model.StatusNotPaid, model.StatusPaid},
		{"cannot ship unpaid order", model.StatusPendingPayment, model.StatusShipped},
		{"cannot deliver before shipping", model.StatusPaid, model.StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID := uuid.New()
			order := pendingOrder(orderID)
			order.Status = tt.from

			repo.On("GetByID", ctx, orderID).Return(order, nil).Once()

			_, err := svc.Transition(ctx, orderID, tt.to, 1, nil)
			assert.ErrorIs(t, err, model.ErrIllegalTransition)
		})
	}

	assert.Empty(t, dispatcher.Events())
	repo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Transition_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(new(MockOrderRepository), &recordingDispatcher{}, zerolog.Nop())

	_, err := svc.Transition(ctx, uuid.New(), model.OrderStatus("refunded"), 1, nil)
	assert.ErrorIs(t, err, model.ErrIllegalTransition)
}

func TestOrderService_Transition_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, &recordingDispatcher{}, zerolog.Nop())

	repo.On("GetByID", ctx, orderID).Return(nil, nil)

	_, err := svc.Transition(ctx, orderID, model.StatusPaid, 1, nil)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_Transition_AdminShipAndDeliver(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	repo := new(MockOrderRepository)
	dispatcher := &recordingDispatcher{}
	svc := NewOrderService(repo, dispatcher, zerolog.Nop())

	paid := pendingOrder(orderID)
	paid.Status = model.StatusPaid
	paid.Version = 2

	shipped := *paid
	shipped.Status = model.StatusShipped
	shipped.Version = 3

	repo.On("GetByID", ctx, orderID).Return(paid, nil).Once()
	repo.On("ApplyTransition", ctx, orderID, model.StatusShipped, (*string)(nil), int64(2)).Return(true, nil)
	repo.On("GetByID", ctx, orderID).Return(&shipped, nil).Once()

	updated, err := svc.Transition(ctx, orderID, model.StatusShipped, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)

	events := dispatcher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderShipped, events[0].Type)
}
