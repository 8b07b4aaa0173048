package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cipherlab/internal/cipher"
)

func TestBruteForceCaesarKnownShift(t *testing.T) {
	ciphertext := cipher.Shift("Hola mundo", 3)
	require.Equal(t, "Krod pxqgr", ciphertext)

	cands := BruteForceCaesar(ciphertext)
	require.Len(t, cands, 25)
	for i, c := range cands {
		assert.Equal(t, i+1, c.Shift)
	}

	got := cands[2]
	assert.Equal(t, "Hola mundo", got.Text)
	assert.Equal(t, 2, got.Words)
	assert.Equal(t, 90.0, got.Score)
}

func TestBruteForceCaesarRoundTrip(t *testing.T) {
	texts := []string{
		"Hola mundo, este es un mensaje secreto",
		"ATTACK AT DAWN!",
		"Ñandú über 42",
		"",
	}
	for _, text := range texts {
		for shift := MinShift; shift <= MaxShift; shift++ {
			cands := BruteForceCaesar(cipher.Shift(text, shift))
			found := false
			for _, c := range cands {
				if c.Text == text {
					found = true
					break
				}
			}
			assert.True(t, found, "shift %d of %q not recovered", shift, text)
		}
	}
}

func TestBruteForceCaesarEmpty(t *testing.T) {
	cands := BruteForceCaesar("")
	require.Len(t, cands, 25)
	for _, c := range cands {
		assert.Equal(t, "", c.Text)
		assert.Zero(t, c.Words)
		assert.Zero(t, c.Score)
	}
}

func TestLetterPercentage(t *testing.T) {
	assert.Equal(t, 0.0, LetterPercentage(""))
	assert.Equal(t, 0.0, LetterPercentage("123 !"))
	assert.Equal(t, 100.0, LetterPercentage("abc"))
	assert.Equal(t, 66.7, LetterPercentage("ab "))
}

func TestBruteForceCaesarScoresDoNotDependOnShift(t *testing.T) {
	cands := BruteForceCaesar(cipher.Shift("Hola mundo, este es un mensaje secreto", 7))
	require.Len(t, cands, MaxShift)
	for _, c := range cands {
		assert.Equal(t, cands[0].Score, c.Score, "shift %d", c.Shift)
		assert.Equal(t, cands[0].Words, c.Words, "shift %d", c.Shift)
	}
	assert.Equal(t, 81.6, cands[0].Score)
	assert.Equal(t, 7, cands[0].Words)
	assert.Equal(t, "Hola mundo, este es un mensaje secreto", cands[6].Text)
}

func TestVerifyCandidate(t *testing.T) {
	cands := BruteForceCaesar(cipher.Shift("Hola mundo", 3))

	c, ok := VerifyCandidate(cands, 3, "Hola mundo")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Shift)

	c, ok = VerifyCandidate(cands, 4, "Hola mundo")
	assert.False(t, ok)
	assert.Equal(t, 4, c.Shift)

	_, ok = VerifyCandidate(cands, 0, "Hola mundo")
	assert.False(t, ok)
}
