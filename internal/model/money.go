package model

// Cents is a monetary amount in the smallest currency unit. All arithmetic
// in this core is done on integer cents; floats only ever appear as
// display values derived at the wire boundary.
type Cents int64

// ToDisplay converts an amount in cents to the legacy float representation
// used by the storefront (e.g. 4498 -> 44.98).
func (c Cents) ToDisplay() float64 {
	return float64(c) / 100
}

// Subtotal returns the line subtotal for a unit price and quantity.
func Subtotal(unitPrice Cents, qty int) Cents {
	return unitPrice * Cents(qty)
}

// OrderTotal computes the frozen order total from its components.
func OrderTotal(itemsSubtotal, shipping, tax, discount Cents) Cents {
	return itemsSubtotal + shipping + tax - discount
}
