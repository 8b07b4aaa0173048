package cipher

import "strings"

// Vigenere encrypts text with a repeating key of letters. The key position
// only advances on ASCII letters so spacing and punctuation survive intact.
func Vigenere(text, key string) (string, error) {
	shifts, err := keyShifts(key)
	if err != nil {
		return "", err
	}
	return applyVigenere(text, shifts, 1), nil
}

// VigenereDecrypt reverses Vigenere for the same key.
func VigenereDecrypt(text, key string) (string, error) {
	shifts, err := keyShifts(key)
	if err != nil {
		return "", err
	}
	return applyVigenere(text, shifts, -1), nil
}

func applyVigenere(text string, shifts []int, sign int) string {
	var b strings.Builder
	b.Grow(len(text))
	idx := 0
	for _, r := range text {
		if !isASCIILetter(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(rotate(r, normalizeShift(sign*shifts[idx%len(shifts)])))
		idx++
	}
	return b.String()
}

func keyShifts(key string) ([]int, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, ErrInvalidKey
	}
	shifts := make([]int, 0, len(key))
	for _, r := range key {
		if r < 'a' || r > 'z' {
			return nil, ErrInvalidKey
		}
		shifts = append(shifts, int(r-'a'))
	}
	return shifts, nil
}
