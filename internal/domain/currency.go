package domain

import (
	"fmt"
	"strings"
)

// currencyInfo holds display metadata for a supported ISO-4217 code.
type currencyInfo struct {
	symbol string
	name   string
}

var supportedCurrencies = map[string]currencyInfo{
	"USD": {symbol: "$", name: "US Dollar"},
	"EUR": {symbol: "€", name: "Euro"},
	"GBP": {symbol: "£", name: "British Pound"},
	"JPY": {symbol: "¥", name: "Japanese Yen"},
	"MXN": {symbol: "$", name: "Mexican Peso"},
	"ARS": {symbol: "$", name: "Argentine Peso"},
	"CLP": {symbol: "$", name: "Chilean Peso"},
}

// Currency is a validated ISO-4217 currency code from the supported set.
type Currency struct {
	code string
}

// CurrencyUSD is the fallback currency for totals that cannot be computed.
var CurrencyUSD = Currency{code: "USD"}

// NewCurrency validates and normalizes a currency code.
// Codes are upper-cased; surrounding whitespace is rejected, not trimmed.
func NewCurrency(code string) (Currency, error) {
	if code != strings.TrimSpace(code) {
		return Currency{}, fmt.Errorf("invalid currency %q: surrounding whitespace not allowed", code)
	}

	upper := strings.ToUpper(code)
	if _, ok := supportedCurrencies[upper]; !ok {
		return Currency{}, fmt.Errorf("unsupported currency %q", code)
	}

	return Currency{code: upper}, nil
}

// Code returns the three-letter code.
func (c Currency) Code() string {
	return c.code
}

// Symbol returns the display symbol.
func (c Currency) Symbol() string {
	return supportedCurrencies[c.code].symbol
}

// Name returns the display name.
func (c Currency) Name() string {
	return supportedCurrencies[c.code].name
}

// Equals reports structural equality.
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

func (c Currency) String() string {
	return c.code
}
