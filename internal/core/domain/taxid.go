package domain

import (
	"fmt"
	"strings"
)

// TaxIDLength is the number of digits in a business tax id (CNPJ).
const TaxIDLength = 14

// TaxID is a 14-digit business tax identifier.
type TaxID string

// ParseTaxID normalizes s to digits and checks its length.
func ParseTaxID(s string) (TaxID, error) {
	digits := NormalizeDigits(s)
	if len(digits) != TaxIDLength {
		return "", fmt.Errorf("%w: tax id must have %d digits, got %d", ErrInvalidLength, TaxIDLength, len(digits))
	}
	return TaxID(digits), nil
}

// String returns the tax id digits.
func (t TaxID) String() string {
	return string(t)
}

// NormalizeDigits strips every non-digit character from s.
// Postal codes, phone numbers and documents are sent to the carrier this way.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
