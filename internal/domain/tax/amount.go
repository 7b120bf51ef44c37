package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountDigits bounds the integer part of an income amount. Values
	// this size stay exact as float64 in JSON responses.
	MaxAmountDigits = 15
	// MaxAmountScale bounds the digits after the decimal point.
	MaxAmountScale = 32
)

// BoundAmount rejects amounts outside MaxAmountDigits and MaxAmountScale
// using only the coefficient length and exponent, so huge exponents are
// refused without expanding them. Zero comes back as decimal.Zero.
func BoundAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	exp := int64(amount.Exponent())
	if exp < -MaxAmountScale {
		return decimal.Zero, fmt.Errorf("%w: more than %d decimal places", ErrAmountOutOfRange, MaxAmountScale)
	}
	if int64(amount.NumDigits())+exp > MaxAmountDigits {
		return decimal.Zero, fmt.Errorf("%w: more than %d integer digits", ErrAmountOutOfRange, MaxAmountDigits)
	}
	return amount, nil
}
