package domain

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Money is a non-negative amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney validates an amount and pairs it with a currency.
// Zero is allowed at the value level.
func NewMoney(amount float64, currency Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("money amount must be finite, got %v", amount)
	}
	if amount < 0 {
		return Money{}, fmt.Errorf("money amount cannot be negative, got %v", amount)
	}

	return Money{amount: decimal.NewFromFloat(amount), currency: currency}, nil
}

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency.Code(), m.currency.Code())
	}

	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a non-negative finite factor.
func (m Money) Multiply(factor float64) (Money, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Money{}, fmt.Errorf("multiply factor must be finite, got %v", factor)
	}
	if factor < 0 {
		return Money{}, fmt.Errorf("multiply factor cannot be negative, got %v", factor)
	}

	return Money{amount: m.amount.Mul(decimal.NewFromFloat(factor)), currency: m.currency}, nil
}

// Amount returns the amount as a float64.
func (m Money) Amount() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equals reports structural equality of amount and currency.
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency.Equals(other.currency)
}

// String renders "<symbol><amount>" with two decimal places.
func (m Money) String() string {
	return m.currency.Symbol() + m.amount.StringFixed(2)
}

type moneyJSON struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// MarshalJSON renders {"amount": <number>, "currency": "<code>"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount(), Currency: m.currency.Code()})
}
