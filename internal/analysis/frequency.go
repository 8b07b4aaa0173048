package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultHypotheses is the number of rank pairings proposed by Hypotheses.
const DefaultHypotheses = 5

// LetterFrequency is the share of one letter among all letters of a text.
type LetterFrequency struct {
	Letter  rune
	Count   int
	Percent float64
}

// FrequencyTable lists letters by descending percentage.
type FrequencyTable []LetterFrequency

// Percent returns the percentage for letter, or 0 when it never occurs.
func (t FrequencyTable) Percent(letter rune) float64 {
	letter = unicode.ToLower(letter)
	for _, f := range t {
		if f.Letter == letter {
			return f.Percent
		}
	}
	return 0
}

// Total returns the number of letters the table was built from.
func (t FrequencyTable) Total() int {
	total := 0
	for _, f := range t {
		total += f.Count
	}
	return total
}

// Head returns at most n leading entries; n <= 0 returns the whole table.
func (t FrequencyTable) Head(n int) FrequencyTable {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// Frequencies counts the letters of text, case-folded, and returns their
// percentages among all letters. Ties keep first-seen order. Text without
// letters yields an empty table.
func Frequencies(text string) FrequencyTable {
	index := map[rune]int{}
	var table FrequencyTable
	total := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		r = unicode.ToLower(r)
		total++
		if i, ok := index[r]; ok {
			table[i].Count++
			continue
		}
		index[r] = len(table)
		table = append(table, LetterFrequency{Letter: r, Count: 1})
	}
	if total == 0 {
		return FrequencyTable{}
	}
	for i := range table {
		table[i].Percent = float64(table[i].Count) / float64(total) * 100
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})
	return table
}

// Hypothesis pairs a ciphertext letter with the reference letter of the same
// frequency rank. It is a heuristic guess, not a recovered key.
type Hypothesis struct {
	Cipher rune
	Plain  rune
}

// Hypotheses pairs the DefaultHypotheses most frequent letters of table with
// those of ref by rank position.
func Hypotheses(table FrequencyTable, ref ReferenceTable) []Hypothesis {
	return HypothesesN(table, ref, DefaultHypotheses)
}

// HypothesesN is Hypotheses with an explicit limit.
func HypothesesN(table FrequencyTable, ref ReferenceTable, limit int) []Hypothesis {
	n := min(limit, len(table), len(ref.Table))
	if n <= 0 {
		return nil
	}
	out := make([]Hypothesis, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Hypothesis{Cipher: table[i].Letter, Plain: ref.Table[i].Letter})
	}
	return out
}

// Decipher applies hyps to text. Letters without a hypothesis are masked
// with '_'; other runes pass through. Case is preserved.
func Decipher(text string, hyps []Hypothesis) string {
	mapping := make(map[rune]rune, len(hyps))
	for _, h := range hyps {
		mapping[h.Cipher] = h.Plain
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsLetter(r) {
			b.WriteRune(r)
			continue
		}
		plain, ok := mapping[unicode.ToLower(r)]
		if !ok {
			b.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) {
			plain = unicode.ToUpper(plain)
		}
		b.WriteRune(plain)
	}
	return b.String()
}
