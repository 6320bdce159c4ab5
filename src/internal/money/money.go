// Package money holds the fixed-point helpers every amount in the ledger goes
// through. Amounts are shopspring decimals; float64 never touches them.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the default minor-unit scale.
const Scale int32 = 2

var ErrInvalidAmount = errors.New("invalid amount")

var zeroScaleCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
	"VND": {},
	"CLP": {},
	"ISK": {},
}

// Round rounds half away from zero to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

func RoundTo(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// ScaleFor returns the number of minor-unit digits for the currency.
func ScaleFor(currency string) int32 {
	if _, ok := zeroScaleCurrencies[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return 0
	}
	return Scale
}

func RoundFor(currency string, d decimal.Decimal) decimal.Decimal {
	return d.Round(ScaleFor(currency))
}

// Parse reads a decimal string. Blank and non-numeric input are rejected.
func Parse(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return d, nil
}

// ParsePositive parses raw and requires a value strictly greater than zero.
func ParsePositive(raw string) (decimal.Decimal, error) {
	d, err := Parse(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, d.String())
	}
	return d, nil
}

// Format renders d at the currency's scale, e.g. "41.10".
func Format(currency string, d decimal.Decimal) string {
	return d.StringFixed(ScaleFor(currency))
}

// HasValidScale reports whether d carries no more fractional digits than the
// currency allows.
func HasValidScale(currency string, d decimal.Decimal) bool {
	return d.Equal(d.Truncate(ScaleFor(currency)))
}
