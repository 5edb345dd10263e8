package domain

import (
	"fmt"
	"math"
)

// Quantity is a strictly positive integer count.
type Quantity struct {
	value int
}

// NewQuantity validates a positive integer quantity.
func NewQuantity(n int) (Quantity, error) {
	if n <= 0 {
		return Quantity{}, fmt.Errorf("quantity must be positive, got %d", n)
	}

	return Quantity{value: n}, nil
}

// QuantityFromFloat validates an externally supplied numeric quantity.
// Non-finite and fractional values are rejected before the sign check.
func QuantityFromFloat(n float64) (Quantity, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Quantity{}, fmt.Errorf("quantity must be finite, got %v", n)
	}
	if n != math.Trunc(n) {
		return Quantity{}, fmt.Errorf("quantity must be an integer, got %v", n)
	}

	return NewQuantity(int(n))
}

// Value returns the count.
func (q Quantity) Value() int {
	return q.value
}

// Add returns a new Quantity holding the sum.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Equals reports structural equality.
func (q Quantity) Equals(other Quantity) bool {
	return q.value == other.value
}

func (q Quantity) String() string {
	return fmt.Sprintf("%d", q.value)
}
