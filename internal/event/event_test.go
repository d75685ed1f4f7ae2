package event

import (
	"testing"

	"jewelry-orders/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestForTransition_MapsEveryDestination(t *testing.T) {
	order := &model.Order{
		ID:         uuid.New(),
		CustomerID: "cust-1",
		TotalCents: 4498,
	}

	tests := []struct {
		from, to model.OrderStatus
		want     string
	}{
		{model.StatusCart, model.StatusPendingPayment, TypeOrderReceived},
		{model.StatusPendingPayment, model.StatusPaid, TypePaymentConfirmed},
		{model.StatusPendingPayment, model.StatusNotPaid, TypePaymentFailed},
		{model.StatusPendingPayment, model.StatusCancelled, TypeOrderCancelled},
		{model.StatusPaid, model.StatusShipped, TypeOrderShipped},
		{model.StatusShipped, model.StatusDelivered, TypeOrderDelivered},
	}

	for _, tt := range tests {
		e := ForTransition(order, tt.from, tt.to)
		assert.Equal(t, tt.want, e.Type)
		assert.Equal(t, order.ID.String(), e.OrderID)
		assert.Equal(t, "cust-1", e.CustomerID)
		assert.Equal(t, tt.from, e.From)
		assert.Equal(t, tt.to, e.To)
		assert.EqualValues(t, 4498, e.TotalCents)
		assert.False(t, e.OccurredAt.IsZero())
	}
}
