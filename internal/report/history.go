package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/cipherlab/internal/model"
)

const historyTimeFormat = "2006-01-02 15:04"

// RenderHistory prints one line per stored analysis.
func RenderHistory(w io.Writer, analyses []model.AnalysisSummary, opts Options) error {
	if len(analyses) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	headers := []string{"ID", "When", "Kind", "Lang", "Letters", "Summary"}
	summaryWidth := opts.textWidth(50)
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.CreatedAt.Local().Format(historyTimeFormat),
			string(a.Kind),
			a.Lang,
			strconv.Itoa(a.InputLetters),
			Truncate(a.Summary, summaryWidth),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 4: true}))
}

// RenderKindTotals prints one line with the stored count of every kind.
func RenderKindTotals(w io.Writer, counts map[model.AnalysisKind]int) error {
	parts := make([]string, 0, len(model.Kinds()))
	total := 0
	for _, k := range model.Kinds() {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
		total += counts[k]
	}
	_, err := fmt.Fprintf(w, "Stored: %d (%s)\n", total, strings.Join(parts, ", "))
	return err
}

// RenderAnalysis prints a stored analysis with its findings.
func RenderAnalysis(w io.Writer, a model.AnalysisSummary, findings []model.Finding, opts Options) error {
	lines := []string{
		fmt.Sprintf("Analysis #%d (%s, %s)", a.ID, a.Kind, a.CreatedAt.Local().Format(historyTimeFormat)),
		"Input: " + Truncate(singleLine(a.Input), opts.textWidth(7)),
		"Summary: " + a.Summary,
		"",
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}
	if len(findings) == 0 {
		_, err := fmt.Fprintln(w, "No findings stored.")
		return err
	}
	detailWidth := opts.textWidth(30)
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			strconv.Itoa(f.Rank),
			f.Label,
			strconv.FormatFloat(f.Value, 'f', 2, 64),
			Truncate(singleLine(f.Detail), detailWidth),
		})
	}
	return writeLines(w, formatTable([]string{"Rank", "Label", "Value", "Detail"}, rows, map[int]bool{0: true, 2: true}))
}
