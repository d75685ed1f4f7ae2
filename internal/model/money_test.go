package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	assert.Equal(t, Cents(3998), Subtotal(1999, 2))
	assert.Equal(t, Cents(0), Subtotal(1999, 0))
}

func TestOrderTotal(t *testing.T) {
	// 2 x 19.99 + 5.00 shipping, no tax, no discount
	assert.Equal(t, Cents(4498), OrderTotal(3998, 500, 0, 0))
	assert.Equal(t, Cents(4248), OrderTotal(3998, 500, 250, 500))
}

func TestCentsToDisplay(t *testing.T) {
	assert.Equal(t, 44.98, Cents(4498).ToDisplay())
	assert.Equal(t, 0.0, Cents(0).ToDisplay())
}

func TestCartSubtotalCents(t *testing.T) {
	cart := &Cart{
		CustomerID: "cust-1",
		Items: []CartItem{
			{ProductID: "P1", Quantity: 2, UnitPriceCents: 1999},
			{ProductID: "P2", Quantity: 1, UnitPriceCents: 125000},
		},
	}
	assert.Equal(t, Cents(2*1999+125000), cart.SubtotalCents())
	assert.False(t, cart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
}

func TestAddressValidate(t *testing.T) {
	var nilAddr *Address
	assert.ErrorIs(t, nilAddr.Validate(), ErrInvalidAddress)
	assert.ErrorIs(t, (&Address{City: "Bogota"}).Validate(), ErrInvalidAddress)
	assert.NoError(t, (&Address{Line1: "Cra 7 # 12-34", City: "Bogota", Country: "CO"}).Validate())
}
