package domain

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func mustCurrency(t *testing.T, code string) Currency {
	t.Helper()
	c, err := NewCurrency(code)
	if err != nil {
		t.Fatalf("NewCurrency(%q): %v", code, err)
	}
	return c
}

func mustMoney(t *testing.T, amount float64, code string) Money {
	t.Helper()
	m, err := NewMoney(amount, mustCurrency(t, code))
	if err != nil {
		t.Fatalf("NewMoney(%v, %s): %v", amount, code, err)
	}
	return m
}

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		expectErr bool
	}{
		{name: "positive-amount", amount: 1299.99},
		{name: "zero-allowed-at-value-level", amount: 0},
		{name: "negative-rejected", amount: -0.01, expectErr: true},
		{name: "nan-rejected", amount: math.NaN(), expectErr: true},
		{name: "positive-infinity-rejected", amount: math.Inf(1), expectErr: true},
		{name: "negative-infinity-rejected", amount: math.Inf(-1), expectErr: true},
	}

	usd := Currency{code: "USD"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, usd)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error for amount %v", tt.amount)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Amount() != tt.amount {
				t.Errorf("expected amount %v, got %v", tt.amount, m.Amount())
			}
		})
	}
}

func TestMoney_Add(t *testing.T) {
	a := mustMoney(t, 1299.99, "USD")
	b := mustMoney(t, 0.01, "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Amount() != 1300.00 {
		t.Errorf("expected 1300.00, got %v", sum.Amount())
	}

	eur := mustMoney(t, 1, "EUR")
	if _, err := a.Add(eur); err == nil {
		t.Error("expected currency mismatch error")
	}
}

func TestMoney_Multiply(t *testing.T) {
	price := mustMoney(t, 1299.99, "USD")

	subtotal, err := price.Multiply(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subtotal.Amount() != 2599.98 {
		t.Errorf("expected 2599.98, got %v", subtotal.Amount())
	}

	if _, err := price.Multiply(-1); err == nil {
		t.Error("expected error for negative factor")
	}
	if _, err := price.Multiply(math.NaN()); err == nil {
		t.Error("expected error for NaN factor")
	}
	if _, err := price.Multiply(math.Inf(1)); err == nil {
		t.Error("expected error for infinite factor")
	}

	zeroed, err := price.Multiply(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !zeroed.IsZero() {
		t.Errorf("expected zero, got %v", zeroed.Amount())
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		amount   float64
		code     string
		expected string
	}{
		{amount: 1299.99, code: "USD", expected: "$1299.99"},
		{amount: 5, code: "EUR", expected: "€5.00"},
		{amount: 0.5, code: "GBP", expected: "£0.50"},
	}

	for _, tt := range tests {
		m := mustMoney(t, tt.amount, tt.code)
		if m.String() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, m.String())
		}
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	m := mustMoney(t, 1299.99, "USD")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Amount != 1299.99 || decoded.Currency != "USD" {
		t.Errorf("unexpected JSON shape: %s", data)
	}
}

func TestMoney_Equals(t *testing.T) {
	a := mustMoney(t, 10, "USD")
	b := mustMoney(t, 10, "USD")
	c := mustMoney(t, 10, "EUR")

	if !a.Equals(b) {
		t.Error("expected equal values to compare equal")
	}
	if a.Equals(c) {
		t.Error("expected different currencies to compare unequal")
	}
}
