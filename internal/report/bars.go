package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

const (
	barRune             = '█'
	minBarWidth         = 10
	maxBarWidth         = 60
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// barChart renders horizontal bars scaled to the largest value. format is
// applied to each value, e.g. "%.2f%%".
func barChart(w io.Writer, title string, bars []Bar, format string, totalWidth, colorIdx int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	labelWidth := 0
	valueWidth := 0
	values := make([]string, len(bars))
	maxVal := 0.0
	for i, bar := range bars {
		if lw := displayWidth(bar.Label); lw > labelWidth {
			labelWidth = lw
		}
		values[i] = fmt.Sprintf(format, bar.Value)
		if vw := displayWidth(values[i]); vw > valueWidth {
			valueWidth = vw
		}
		if bar.Value > maxVal {
			maxVal = bar.Value
		}
	}
	width := BarWidthFor(totalWidth, labelWidth, valueWidth)
	useColor := shouldUseColor(w, forceColor)
	color := colorPalette[colorIdx%len(colorPalette)]

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, bar := range bars {
		n := 0
		if maxVal > 0 && bar.Value > 0 {
			n = int(bar.Value / maxVal * float64(width))
			if n == 0 {
				n = 1
			}
		}
		fill := strings.Repeat(string(barRune), n)
		if useColor && n > 0 {
			fill = color + fill + colorReset
		}
		pad := strings.Repeat(" ", width-n)
		line := fmt.Sprintf("%s │%s%s %s", padCell(bar.Label, labelWidth, false), fill, pad, padCell(values[i], valueWidth, true))
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// BarWidthFor computes the bar area that fits next to labels and values
// within totalWidth.
func BarWidthFor(totalWidth, labelWidth, valueWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	width := totalWidth - labelWidth - valueWidth - 3
	if width < minBarWidth {
		width = minBarWidth
	}
	if width > maxBarWidth {
		width = maxBarWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
