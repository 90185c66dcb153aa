// Package inn validates 12-digit taxpayer identifiers (INN).
//
// An INN carries two check digits. Each is the weighted sum of the preceding
// digits modulo 11, then modulo 10. See https://zapolnenie.info/algoritm-proverki-inn/
package inn

import (
	"errors"
	"fmt"
)

// Length is the number of digits in a personal INN.
const Length = 12

var (
	// ErrInvalid is the parent of every INN validation error.
	ErrInvalid = errors.New("invalid INN")

	// ErrInvalidFormat is returned when the value is not exactly 12 ASCII digits.
	ErrInvalidFormat = fmt.Errorf("%w: INN must contain 12 numbers", ErrInvalid)

	// ErrChecksum is returned when the check digits do not match the payload.
	ErrChecksum = fmt.Errorf("%w: incorrect INN", ErrInvalid)
)

var weights = [...]int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}

// Validate reports whether s is a well-formed, checksum-valid INN.
func Validate(s string) error {
	if len(s) != Length {
		return ErrInvalidFormat
	}
	digits := make([]int, Length)
	for i := 0; i < Length; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return ErrInvalidFormat
		}
		digits[i] = int(c - '0')
	}

	if checkDigit(digits[:10]) != digits[10] || checkDigit(digits[:11]) != digits[11] {
		return ErrChecksum
	}
	return nil
}

// IsValid is a boolean shorthand for Validate.
func IsValid(s string) bool {
	return Validate(s) == nil
}

// checkDigit uses the last len(payload) weights.
func checkDigit(payload []int) int {
	w := weights[len(weights)-len(payload):]
	sum := 0
	for i, d := range payload {
		sum += w[i] * d
	}
	return sum % 11 % 10
}
