// Package analysis implements the classical cryptanalysis engine: Caesar
// brute force, letter frequency analysis and the Kasiski examination.
//
// Every function in this package is pure. Results are fresh values owned by
// the caller, so analyses may run concurrently without synchronization.
package analysis

import (
	"strings"
	"unicode"

	"github.com/segmentio/asm/ascii"
)

// Project reduces text to its letters, lower-cased, in original order.
func Project(text string) string {
	if text == "" {
		return ""
	}
	if ascii.ValidString(text) {
		return projectASCII(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func projectASCII(text string) string {
	buf := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
			buf = append(buf, c)
		case c >= 'A' && c <= 'Z':
			buf = append(buf, c+('a'-'A'))
		}
	}
	return string(buf)
}
