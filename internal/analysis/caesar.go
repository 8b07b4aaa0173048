package analysis

import (
	"math"
	"strings"
	"unicode"

	"github.com/verte-zerg/cipherlab/internal/cipher"
)

// MinShift and MaxShift bound the non-trivial Caesar keys.
const (
	MinShift = 1
	MaxShift = 25
)

// CaesarCandidate is one decryption attempt of a Caesar brute force.
type CaesarCandidate struct {
	Shift int
	Text  string
	Words int
	// Score is the percentage of letters in Text, rounded to one decimal.
	Score float64
}

// BruteForceCaesar decodes ciphertext with every shift in [1,25], in
// ascending shift order. It does not pick a winner: a shift maps letters to
// letters and leaves everything else alone, so every candidate of one
// ciphertext has the same Words and Score.
func BruteForceCaesar(ciphertext string) []CaesarCandidate {
	out := make([]CaesarCandidate, 0, MaxShift)
	for shift := MinShift; shift <= MaxShift; shift++ {
		decoded := cipher.Shift(ciphertext, -shift)
		out = append(out, CaesarCandidate{
			Shift: shift,
			Text:  decoded,
			Words: len(strings.Fields(decoded)),
			Score: LetterPercentage(decoded),
		})
	}
	return out
}

// LetterPercentage returns the share of runes in text that are letters, as a
// percentage rounded to one decimal. Empty text scores 0.
func LetterPercentage(text string) float64 {
	total := 0
	letters := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return round1(float64(letters) / float64(total) * 100)
}

// VerifyCandidate reports whether the candidate for shift decodes to plaintext.
// The candidate is returned even when it does not match so callers can show it.
func VerifyCandidate(cands []CaesarCandidate, shift int, plaintext string) (CaesarCandidate, bool) {
	for _, c := range cands {
		if c.Shift == shift {
			return c, c.Text == plaintext
		}
	}
	return CaesarCandidate{}, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
