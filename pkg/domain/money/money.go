// Package money holds the fixed-point arithmetic used for account balances.
//
// Amounts are shopspring decimals with two fractional digits. Every value that
// is stored or compared goes through Round first, so no floating drift can
// reach the database.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of fractional digits kept on every amount.
	Scale int32 = 2

	// MaxDigits is the total number of digits an amount may have (12,2 column).
	MaxDigits = 12
)

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountMustBePositive is returned when an amount is zero or negative.
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrTooManyDecimals is returned when an amount has more than two fractional digits.
	ErrTooManyDecimals = errors.New("amount must have at most 2 decimal places")

	// ErrTooManyDigits is returned when an amount does not fit into 12 digits.
	ErrTooManyDigits = errors.New("amount must have at most 12 digits")

	// ErrNegativeAmount is returned when an operation would result in a negative amount.
	ErrNegativeAmount = errors.New("resulting amount cannot be negative")
)

var (
	// MinUnit is the smallest amount that can be moved between accounts.
	MinUnit = decimal.New(1, -Scale)

	// maxAmount is the first value that no longer fits into MaxDigits.
	maxAmount = decimal.New(1, MaxDigits-Scale)
)

// Round truncates d toward zero to two fractional digits. It never rounds up:
// Round(2.999) is 2.99 and Round(-2.999) is -2.99.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Scale)
}

// Share splits total into n equal parts and returns one part, truncated to
// two fractional digits. The division is exact, the remainder is dropped.
func Share(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	q, _ := total.QuoRem(decimal.NewFromInt(int64(n)), Scale)
	return Round(q)
}

// Parse reads an amount from its decimal string form and validates it.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseBalance reads an opening balance. Unlike Parse it accepts zero.
func ParseBalance(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if err := ValidatePrecision(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount checks that d can be transferred.
// Invariants enforced:
//   - d must be strictly positive.
//   - d must not carry non-zero digits past the second decimal place.
//   - d must fit into 12 digits, 2 of them fractional.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrAmountMustBePositive
	}
	return ValidatePrecision(d)
}

// ValidatePrecision checks only the scale and digit limits of d. Zero passes.
func ValidatePrecision(d decimal.Decimal) error {
	if !Round(d).Equal(d) {
		return ErrTooManyDecimals
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrTooManyDigits
	}
	return nil
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return Round(d).StringFixed(Scale)
}
