package analysis

import (
	"sort"
	"strings"
)

// DefaultLang is the reference language used when none is configured.
const DefaultLang = "es"

// ReferenceTable is a static letter distribution for a natural language.
type ReferenceTable struct {
	Lang  string
	Name  string
	Table FrequencyTable
}

var spanishLetters = []LetterFrequency{
	{Letter: 'a', Percent: 12.53}, {Letter: 'b', Percent: 1.42}, {Letter: 'c', Percent: 4.68},
	{Letter: 'd', Percent: 5.86}, {Letter: 'e', Percent: 13.68}, {Letter: 'f', Percent: 0.69},
	{Letter: 'g', Percent: 1.01}, {Letter: 'h', Percent: 0.70}, {Letter: 'i', Percent: 6.25},
	{Letter: 'j', Percent: 0.44}, {Letter: 'k', Percent: 0.02}, {Letter: 'l', Percent: 4.97},
	{Letter: 'm', Percent: 3.15}, {Letter: 'n', Percent: 6.71}, {Letter: 'ñ', Percent: 0.31},
	{Letter: 'o', Percent: 8.68}, {Letter: 'p', Percent: 2.51}, {Letter: 'q', Percent: 0.88},
	{Letter: 'r', Percent: 6.87}, {Letter: 's', Percent: 7.98}, {Letter: 't', Percent: 4.63},
	{Letter: 'u', Percent: 3.93}, {Letter: 'v', Percent: 0.90}, {Letter: 'w', Percent: 0.01},
	{Letter: 'x', Percent: 0.22}, {Letter: 'y', Percent: 0.90}, {Letter: 'z', Percent: 0.52},
}

var englishLetters = []LetterFrequency{
	{Letter: 'a', Percent: 8.17}, {Letter: 'b', Percent: 1.29}, {Letter: 'c', Percent: 2.78},
	{Letter: 'd', Percent: 4.25}, {Letter: 'e', Percent: 12.70}, {Letter: 'f', Percent: 2.23},
	{Letter: 'g', Percent: 2.02}, {Letter: 'h', Percent: 6.09}, {Letter: 'i', Percent: 6.97},
	{Letter: 'j', Percent: 0.15}, {Letter: 'k', Percent: 0.77}, {Letter: 'l', Percent: 4.03},
	{Letter: 'm', Percent: 2.41}, {Letter: 'n', Percent: 6.75}, {Letter: 'o', Percent: 7.51},
	{Letter: 'p', Percent: 1.93}, {Letter: 'q', Percent: 0.10}, {Letter: 'r', Percent: 5.99},
	{Letter: 's', Percent: 6.33}, {Letter: 't', Percent: 9.06}, {Letter: 'u', Percent: 2.76},
	{Letter: 'v', Percent: 0.98}, {Letter: 'w', Percent: 2.36}, {Letter: 'x', Percent: 0.15},
	{Letter: 'y', Percent: 1.97}, {Letter: 'z', Percent: 0.07},
}

var references = map[string]ReferenceTable{
	"es": newReference("es", "Spanish", spanishLetters),
	"en": newReference("en", "English", englishLetters),
}

func newReference(lang, name string, letters []LetterFrequency) ReferenceTable {
	table := append(FrequencyTable(nil), letters...)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Percent > table[j].Percent
	})
	return ReferenceTable{Lang: lang, Name: name, Table: table}
}

// ReferenceFor returns the reference table for lang. The returned table is a
// copy and may be modified by the caller.
func ReferenceFor(lang string) (ReferenceTable, bool) {
	ref, ok := references[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return ReferenceTable{}, false
	}
	ref.Table = append(FrequencyTable(nil), ref.Table...)
	return ref, true
}

// ReferenceLangs lists the available reference languages.
func ReferenceLangs() []string {
	langs := make([]string, 0, len(references))
	for lang := range references {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
