package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// OrderID identifies an order aggregate.
type OrderID struct {
	value string
}

// NewOrderID trims and validates an externally supplied order id.
func NewOrderID(s string) (OrderID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return OrderID{}, fmt.Errorf("order id cannot be empty")
	}

	return OrderID{value: trimmed}, nil
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderID produces "ORD-<base36 millis>-<7 random base36 chars>".
// The random suffix breaks ties between ids generated in the same
// millisecond.
func GenerateOrderID() OrderID {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}

	return OrderID{value: "ORD-" + ts + "-" + string(suffix)}
}

// String returns the raw id.
func (id OrderID) String() string {
	return id.value
}

// Equals reports structural equality.
func (id OrderID) Equals(other OrderID) bool {
	return id.value == other.value
}

// ProductID identifies a product line within an order.
type ProductID struct {
	value string
}

// NewProductID trims and validates an externally supplied product id.
func NewProductID(s string) (ProductID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ProductID{}, fmt.Errorf("product id cannot be empty")
	}

	return ProductID{value: trimmed}, nil
}

// String returns the raw id.
func (id ProductID) String() string {
	return id.value
}

// Equals reports structural equality.
func (id ProductID) Equals(other ProductID) bool {
	return id.value == other.value
}
