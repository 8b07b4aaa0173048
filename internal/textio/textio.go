// Package textio reads analysis input and normalizes it to NFC UTF-8.
package textio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNoInput is returned when no text, file or piped stdin is available.
	ErrNoInput = errors.New("no input text (use --text, --file or pipe stdin)")
	// ErrUnknownEncoding is returned for encoding names Decode does not support.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// DefaultEncoding is the input encoding assumed when none is given.
const DefaultEncoding = "utf-8"

var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
}

// Source describes where input comes from. Text wins over Path, Path wins
// over Stdin.
type Source struct {
	Text     string
	Path     string
	Stdin    io.Reader
	Encoding string
}

// Read resolves the source and returns NFC-normalized text.
func Read(src Source) (string, error) {
	if src.Text != "" {
		return Normalize(src.Text), nil
	}
	var raw []byte
	switch {
	case src.Path != "":
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		raw = data
	case src.Stdin != nil:
		data, err := io.ReadAll(src.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = data
	default:
		return "", ErrNoInput
	}
	text, err := Decode(raw, src.Encoding)
	if err != nil {
		return "", err
	}
	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return "", ErrNoInput
	}
	return text, nil
}

// Decode converts raw bytes in the named encoding to NFC UTF-8. A leading
// UTF-8 byte order mark is dropped.
func Decode(raw []byte, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encodings[name]
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownEncoding, name, strings.Join(Encodings(), ", "))
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	decoded, _, err := transform.Bytes(transform.Chain(enc.NewDecoder(), norm.NFC), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s input: %w", name, err)
	}
	return string(decoded), nil
}

// Normalize returns text in Unicode NFC so combining marks fold into their base letter.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Encodings lists the supported encoding names.
func Encodings() []string {
	return []string{"utf-8", "latin1", "iso-8859-15", "windows-1252", "utf-16"}
}

// StdinIsPiped reports whether stdin is a pipe or file rather than a terminal.
func StdinIsPiped() bool {
	return isPiped(os.Stdin)
}

func isPiped(f *os.File) bool {
	if f == nil {
		return false
	}
	return !term.IsTerminal(int(f.Fd()))
}
