package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/cipherlab/internal/analysis"
	"github.com/verte-zerg/cipherlab/internal/model"
)

// CaesarFindings stores the candidates in shift order.
func CaesarFindings(cands []analysis.CaesarCandidate) []model.Finding {
	out := make([]model.Finding, 0, len(cands))
	for i, c := range cands {
		out = append(out, model.Finding{
			Rank:   i + 1,
			Label:  "shift " + strconv.Itoa(c.Shift),
			Value:  c.Score,
			Detail: c.Text,
		})
	}
	return out
}

// CaesarSummary counts the candidates. Score and word count are the same for
// every shift, so the first candidate stands for all of them.
func CaesarSummary(cands []analysis.CaesarCandidate) string {
	if len(cands) == 0 {
		return "no candidates"
	}
	return fmt.Sprintf("%d candidates, %.1f%% letters, %d words", len(cands), cands[0].Score, cands[0].Words)
}

// FrequencyFindings stores the letter distribution.
func FrequencyFindings(table analysis.FrequencyTable, hyps []analysis.Hypothesis) []model.Finding {
	guess := make(map[rune]rune, len(hyps))
	for _, h := range hyps {
		guess[h.Cipher] = h.Plain
	}
	out := make([]model.Finding, 0, len(table))
	for i, f := range table {
		detail := strconv.Itoa(f.Count)
		if plain, ok := guess[f.Letter]; ok {
			detail += " -> " + string(plain)
		}
		out = append(out, model.Finding{
			Rank:   i + 1,
			Label:  string(f.Letter),
			Value:  f.Percent,
			Detail: detail,
		})
	}
	return out
}

// FrequencySummary lists the hypotheses in compact form.
func FrequencySummary(table analysis.FrequencyTable, hyps []analysis.Hypothesis) string {
	if len(table) == 0 {
		return "no letters"
	}
	if len(hyps) == 0 {
		return fmt.Sprintf("%d letters, top %c", table.Total(), table[0].Letter)
	}
	parts := make([]string, len(hyps))
	for i, h := range hyps {
		parts[i] = fmt.Sprintf("%c->%c", h.Cipher, h.Plain)
	}
	return fmt.Sprintf("%d letters, guesses %s", table.Total(), strings.Join(parts, " "))
}

// KasiskiFindings stores the key length votes.
func KasiskiFindings(ranking analysis.KeyLengthRanking) []model.Finding {
	out := make([]model.Finding, 0, len(ranking))
	for i, v := range ranking {
		out = append(out, model.Finding{
			Rank:   i + 1,
			Label:  strconv.Itoa(v.Length),
			Value:  float64(v.Votes),
			Detail: "votes",
		})
	}
	return out
}

// KasiskiSummary reports the most probable key lengths.
func KasiskiSummary(record analysis.RepetitionRecord, ranking analysis.KeyLengthRanking) string {
	if len(record) == 0 {
		return "no repeated sequences"
	}
	most := analysis.MostProbable(ranking)
	if len(most) == 0 {
		return fmt.Sprintf("%d sequences, no key length estimate", len(record))
	}
	return fmt.Sprintf("%d sequences, most probable %s", len(record), joinInts(most))
}

// NewRecord builds the stored record for one analysis of input.
func NewRecord(kind model.AnalysisKind, lang, input, summary string) model.AnalysisRecord {
	return model.AnalysisRecord{
		CreatedAt:    time.Now(),
		Kind:         kind,
		Lang:         lang,
		Input:        input,
		InputLetters: utf8.RuneCountInString(analysis.Project(input)),
		Summary:      summary,
	}
}
