// Package cipher implements the classical ciphers used to produce demo ciphertext.
package cipher

import (
	"errors"
	"strings"
)

// ErrInvalidKey is returned when a key contains no usable letters.
var ErrInvalidKey = errors.New("key must contain only letters a-z")

const alphabetSize = 26

// Shift rotates every ASCII letter by amount positions, preserving case.
// Any other rune passes through unchanged. Negative amounts rotate backwards.
func Shift(text string, amount int) string {
	amount = normalizeShift(amount)
	if amount == 0 || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(rotate(r, amount))
	}
	return b.String()
}

func rotate(r rune, amount int) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+rune(amount))%alphabetSize
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+rune(amount))%alphabetSize
	default:
		return r
	}
}

func normalizeShift(amount int) int {
	amount %= alphabetSize
	if amount < 0 {
		amount += alphabetSize
	}
	return amount
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
