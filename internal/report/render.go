package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/verte-zerg/cipherlab/internal/analysis"
)

const (
	defaultTextWidth = 60
	distancePreview  = 50
	hypothesisNote   = "Rank pairing only: a guess to test, not a recovered key."
)

// Options controls the layout of rendered reports.
type Options struct {
	// Width is the total output width; 0 detects the terminal width.
	Width int
	// Top limits table and chart rows; 0 means no limit.
	Top   int
	Color bool
}

func (o Options) textWidth(used int) int {
	width := o.Width
	if width <= 0 {
		width = terminalWidth()
	}
	if w := width - used; w > 10 {
		return w
	}
	return defaultTextWidth
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCaesar prints one row per Caesar candidate.
func RenderCaesar(w io.Writer, cands []analysis.CaesarCandidate, opts Options) error {
	if len(cands) == 0 {
		_, err := fmt.Fprintln(w, "No candidates.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Caesar brute force (%d keys tried)\n", len(cands)); err != nil {
		return err
	}
	headers := []string{"Shift", "Words", "Letters", "Text"}
	textWidth := opts.textWidth(26)
	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{
			strconv.Itoa(c.Shift),
			strconv.Itoa(c.Words),
			fmt.Sprintf("%.1f%%", c.Score),
			Truncate(singleLine(c.Text), textWidth),
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderVerification reports whether the candidate for a known key matches
// the known plaintext, with a unified diff when it does not.
func RenderVerification(w io.Writer, shift int, cand analysis.CaesarCandidate, plaintext string, ok bool) error {
	if ok {
		_, err := fmt.Fprintf(w, "Key %d verified: candidate matches the known plaintext.\n", shift)
		return err
	}
	if cand.Shift == 0 {
		_, err := fmt.Fprintf(w, "Key %d is outside 1-25; nothing to verify.\n", shift)
		return err
	}
	if _, err := fmt.Fprintf(w, "Key %d does not reproduce the known plaintext.\n", shift); err != nil {
		return err
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(plaintext + "\n"),
		B:        difflib.SplitLines(cand.Text + "\n"),
		FromFile: "plaintext",
		ToFile:   fmt.Sprintf("shift-%d", shift),
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("failed to diff candidate: %w", err)
	}
	_, err = io.WriteString(w, text)
	return err
}

// RenderFrequencies prints the ciphertext and reference distributions, their
// bar charts and the rank hypotheses.
func RenderFrequencies(w io.Writer, text string, table analysis.FrequencyTable, ref analysis.ReferenceTable, hyps []analysis.Hypothesis, opts Options) error {
	if len(table) == 0 {
		_, err := fmt.Fprintln(w, "No letters found; nothing to count.")
		return err
	}
	top := opts.Top
	if _, err := fmt.Fprintf(w, "Letter frequencies (%d letters)\n", table.Total()); err != nil {
		return err
	}
	headers := []string{"Rank", "Cipher", "Freq", "Count", ref.Name, "Freq"}
	cipherRows := table.Head(top)
	refRows := ref.Table.Head(top)
	n := max(len(cipherRows), len(refRows))
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := []string{strconv.Itoa(i + 1), "", "", "", "", ""}
		if i < len(cipherRows) {
			f := cipherRows[i]
			row[1] = string(f.Letter)
			row[2] = fmt.Sprintf("%.2f%%", f.Percent)
			row[3] = strconv.Itoa(f.Count)
		}
		if i < len(refRows) {
			row[4] = string(refRows[i].Letter)
			row[5] = fmt.Sprintf("%.2f%%", refRows[i].Percent)
		}
		rows = append(rows, row)
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true, 5: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if err := barChart(w, "Ciphertext", frequencyBars(cipherRows), "%.2f%%", opts.Width, 0, opts.Color); err != nil {
		return err
	}
	if err := barChart(w, ref.Name, frequencyBars(refRows), "%.2f%%", opts.Width, 1, opts.Color); err != nil {
		return err
	}
	return RenderHypotheses(w, text, hyps, opts)
}

// RenderHypotheses prints the rank pairings and a partial decipherment.
func RenderHypotheses(w io.Writer, text string, hyps []analysis.Hypothesis, opts Options) error {
	if len(hyps) == 0 {
		_, err := fmt.Fprintln(w, "No substitution hypotheses.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Substitution hypotheses"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(hyps))
	for _, h := range hyps {
		rows = append(rows, []string{strings.ToUpper(string(h.Cipher)), "->", strings.ToUpper(string(h.Plain))})
	}
	if err := writeLines(w, formatTable([]string{"Cipher", "", "Plain"}, rows, nil)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, hypothesisNote); err != nil {
		return err
	}
	preview := Truncate(singleLine(analysis.Decipher(text, hyps)), opts.textWidth(10))
	_, err := fmt.Fprintf(w, "Preview: %s\n\n", preview)
	return err
}

func frequencyBars(table analysis.FrequencyTable) []Bar {
	bars := make([]Bar, 0, len(table))
	for _, f := range table {
		bars = append(bars, Bar{Label: string(f.Letter), Value: f.Percent})
	}
	return bars
}

// KasiskiOptions adds the known key length, when there is one.
type KasiskiOptions struct {
	Options
	KnownKeyLength int
}

// RenderKasiski prints repeated sequences, key length votes and the most
// probable lengths.
func RenderKasiski(w io.Writer, record analysis.RepetitionRecord, ranking analysis.KeyLengthRanking, opts KasiskiOptions) error {
	if len(record) == 0 {
		_, err := fmt.Fprintln(w, "No repeated sequences found; the text may be too short.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Repeated sequences (%d)\n", len(record)); err != nil {
		return err
	}
	rows := make([][]string, 0, len(record))
	for _, rep := range record {
		rows = append(rows, []string{
			rep.Sequence,
			strconv.Itoa(rep.Pairs()),
			Truncate(formatDistances(rep.Distances), distancePreview),
		})
	}
	if err := writeLines(w, formatTable([]string{"Sequence", "Pairs", "Distances"}, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if len(ranking) == 0 {
		_, err := fmt.Fprintln(w, "No key length could be estimated.")
		return err
	}
	bars := make([]Bar, 0, len(ranking))
	for _, v := range ranking.Top(opts.Top) {
		bars = append(bars, Bar{Label: strconv.Itoa(v.Length), Value: float64(v.Votes)})
	}
	if err := barChart(w, "Key length votes", bars, "%.0f", opts.Width, 3, opts.Color); err != nil {
		return err
	}

	most := analysis.MostProbable(ranking)
	if _, err := fmt.Fprintf(w, "Most probable key lengths: %s\n", joinInts(most)); err != nil {
		return err
	}
	if opts.KnownKeyLength > 0 {
		if containsInt(most, opts.KnownKeyLength) {
			_, err := fmt.Fprintf(w, "The estimate includes the real key length (%d).\n", opts.KnownKeyLength)
			return err
		}
		if ranking.Contains(opts.KnownKeyLength) {
			_, err := fmt.Fprintf(w, "The real key length was %d; it received votes but not the most.\n", opts.KnownKeyLength)
			return err
		}
		_, err := fmt.Fprintf(w, "The real key length was %d; it received no votes.\n", opts.KnownKeyLength)
		return err
	}
	return nil
}

// formatDistances lists the distinct distances in ascending order.
func formatDistances(distances []int) string {
	seen := map[int]struct{}{}
	uniq := make([]int, 0, len(distances))
	for _, d := range distances {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
	}
	sort.Ints(uniq)
	return joinInts(uniq)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
