package cipher

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// SubstitutionKey maps each lower-case plaintext letter to its ciphertext letter.
type SubstitutionKey map[rune]rune

// Generator produces random substitution keys.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with the current time.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator returns a Generator with a fixed seed for reproducible keys.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// SubstitutionKey shuffles the alphabet into a new key.
func (g *Generator) SubstitutionKey() SubstitutionKey {
	return NewSubstitutionKey(g.rnd)
}

// NewSubstitutionKey builds a key from a random permutation of a-z.
func NewSubstitutionKey(rnd *rand.Rand) SubstitutionKey {
	perm := rnd.Perm(alphabetSize)
	key := make(SubstitutionKey, alphabetSize)
	for i, p := range perm {
		key['a'+rune(i)] = 'a' + rune(p)
	}
	return key
}

// Invert returns the decryption key.
func (k SubstitutionKey) Invert() SubstitutionKey {
	inv := make(SubstitutionKey, len(k))
	for plain, enc := range k {
		inv[enc] = plain
	}
	return inv
}

// String renders the key as the ciphertext alphabet for a..z.
func (k SubstitutionKey) String() string {
	var b strings.Builder
	for r := 'a'; r <= 'z'; r++ {
		if enc, ok := k[r]; ok {
			b.WriteRune(enc)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Substitute applies key to text, preserving case. Letters missing from the key pass through.
func Substitute(text string, key SubstitutionKey) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		enc, ok := key[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if unicode.IsUpper(r) {
			enc = unicode.ToUpper(enc)
		}
		b.WriteRune(enc)
	}
	return b.String()
}
