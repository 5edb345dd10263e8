package domain

import "fmt"

// OrderItem is an immutable product line within an order.
type OrderItem struct {
	productID ProductID
	quantity  Quantity
	unitPrice Money
}

// NewOrderItem builds a product line.
func NewOrderItem(productID ProductID, quantity Quantity, unitPrice Money) OrderItem {
	return OrderItem{productID: productID, quantity: quantity, unitPrice: unitPrice}
}

// ProductID returns the product identifier.
func (i OrderItem) ProductID() ProductID {
	return i.productID
}

// Quantity returns the line quantity.
func (i OrderItem) Quantity() Quantity {
	return i.quantity
}

// UnitPrice returns the per-unit price.
func (i OrderItem) UnitPrice() Money {
	return i.unitPrice
}

// WithQuantity returns a copy of the line holding a new quantity.
// The unit price is preserved.
func (i OrderItem) WithQuantity(q Quantity) OrderItem {
	return OrderItem{productID: i.productID, quantity: q, unitPrice: i.unitPrice}
}

// Subtotal is unit price times quantity.
func (i OrderItem) Subtotal() (Money, error) {
	return i.unitPrice.Multiply(float64(i.quantity.Value()))
}

// String renders "<product> x<qty> @ <price> = <subtotal>".
func (i OrderItem) String() string {
	subtotal, err := i.Subtotal()
	if err != nil {
		return fmt.Sprintf("%s x%d @ %s", i.productID, i.quantity.Value(), i.unitPrice)
	}

	return fmt.Sprintf("%s x%d @ %s = %s", i.productID, i.quantity.Value(), i.unitPrice, subtotal)
}
