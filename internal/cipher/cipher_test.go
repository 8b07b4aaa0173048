package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShift(t *testing.T) {
	tests := []struct {
		in     string
		amount int
		want   string
	}{
		{"Hola mundo", 3, "Krod pxqgr"},
		{"xyz XYZ", 3, "abc ABC"},
		{"abc", -1, "zab"},
		{"abc", 26, "abc"},
		{"abc", 53, "bcd"},
		{"Ñandú, 42!", 1, "Ñboeú, 42!"},
		{"", 7, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Shift(tt.in, tt.amount), "Shift(%q, %d)", tt.in, tt.amount)
	}
}

func TestShiftRoundTrip(t *testing.T) {
	text := "El veloz Murciélago: ¿hindú? 1234"
	for k := -30; k <= 30; k++ {
		assert.Equal(t, text, Shift(Shift(text, k), -k), "shift %d", k)
	}
}

func TestVigenere(t *testing.T) {
	got, err := Vigenere("attack at dawn", "LEMON")
	require.NoError(t, err)
	assert.Equal(t, "lxfopv ef rnhr", got)

	back, err := VigenereDecrypt(got, "lemon")
	require.NoError(t, err)
	assert.Equal(t, "attack at dawn", back)
}

func TestVigenereInvalidKey(t *testing.T) {
	for _, key := range []string{"", "   ", "k3y", "clavé"} {
		_, err := Vigenere("text", key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestSubstitution(t *testing.T) {
	gen := NewSeededGenerator(42)
	key := gen.SubstitutionKey()
	require.Len(t, key, 26)

	seen := map[rune]bool{}
	for _, enc := range key {
		assert.False(t, seen[enc], "duplicate image %q", enc)
		seen[enc] = true
	}

	text := "Hola Mundo, ¿qué tal?"
	enc := Substitute(text, key)
	assert.Equal(t, text, Substitute(enc, key.Invert()))
	assert.Len(t, key.String(), 26)

	again := NewSeededGenerator(42).SubstitutionKey()
	assert.Equal(t, key, again)
}
