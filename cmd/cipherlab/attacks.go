package main

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/analysis"
	"github.com/verte-zerg/cipherlab/internal/cipher"
	"github.com/verte-zerg/cipherlab/internal/model"
	"github.com/verte-zerg/cipherlab/internal/report"
	"github.com/verte-zerg/cipherlab/internal/textio"
)

// Demo inputs used when no text is given.
const (
	demoCaesarPlaintext = "Hola mundo, este es un mensaje secreto"
	demoCaesarShift     = 3
	demoFrequencyText   = "Xl wxlxli qsv jiv uirgmxmsr wiw yrmhsh jvigmirgme"
	demoVigenereText    = "Vzmv yp eesxq alvrq buz wg cekmvp pjvsfe osfz eg xgitj wg cekmvp y oizeo t xgitj euí buz in eesxq de mirttz"
	demoVigenereKey     = "clave"
)

var (
	caesarEncrypt   int
	caesarPlaintext string
	caesarKey       int

	kasiskiVigenereKey string
)

func newCaesarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caesar",
		Short: "Brute-force all 25 Caesar shifts",
		Args:  cobra.NoArgs,
		RunE:  runCaesarCmd,
	}
	cmd.Flags().IntVar(&caesarEncrypt, "encrypt", 0, "shift the input by N (mod 26) before attacking it")
	cmd.Flags().StringVar(&caesarPlaintext, "plaintext", "", "known plaintext to verify against --key")
	cmd.Flags().IntVar(&caesarKey, "key", 0, "known shift (1-25) to verify")
	return cmd
}

func runCaesarCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, "")
	demo := false
	switch {
	case errors.Is(err, textio.ErrNoInput) && inputFile == "":
		demo = true
		logErrln("No input given; using the demo text.")
		text = cipher.Shift(demoCaesarPlaintext, demoCaesarShift)
	case err != nil:
		return err
	}

	out := cmd.OutOrStdout()
	shift := normalizeShift(caesarEncrypt)
	if shift != 0 {
		text = cipher.Shift(text, shift)
	}
	if caesarEncrypt != 0 || demo {
		if _, err := fmt.Fprintf(out, "Ciphertext: %s\n\n", text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	cands := analysis.BruteForceCaesar(text)
	opts := reportOptions(cfg)
	if err := report.RenderCaesar(out, cands, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	plaintext, key := caesarPlaintext, caesarKey
	if cmd.Flags().Changed("key") {
		if key < analysis.MinShift || key > analysis.MaxShift {
			return fmt.Errorf("--key must be between %d and %d", analysis.MinShift, analysis.MaxShift)
		}
	} else {
		key = shift
	}
	if demo && plaintext == "" {
		plaintext = demoCaesarPlaintext
		key = normalizeShift(demoCaesarShift + caesarEncrypt)
	}
	switch {
	case plaintext != "" && key == 0 && !demo && caesarEncrypt == 0:
		return fmt.Errorf("--plaintext requires --key")
	case key == 0 && (plaintext != "" || caesarEncrypt != 0):
		if err := writeLine(out, "The shift reduces to 0 mod 26; the input is its own plaintext, nothing to verify."); err != nil {
			return err
		}
	case plaintext != "":
		cand, ok := analysis.VerifyCandidate(cands, key, plaintext)
		if err := report.RenderVerification(out, key, cand, plaintext, ok); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	case key != 0:
		if err := writeLine(out, fmt.Sprintf("Shift %d: %s", key, cands[key-1].Text)); err != nil {
			return err
		}
	}

	rec := report.NewRecord(model.KindCaesar, "", text, report.CaesarSummary(cands))
	saveAnalysis(cfg, rec, report.CaesarFindings(cands))
	return nil
}

func newFreqCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freq",
		Short: "Letter frequency analysis with substitution hypotheses",
		Args:  cobra.NoArgs,
		RunE:  runFreqCmd,
	}
}

func runFreqCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, demoFrequencyText)
	if err != nil {
		return err
	}
	ref, ok := analysis.ReferenceFor(cfg.Lang)
	if !ok {
		return fmt.Errorf("unknown language %q", cfg.Lang)
	}
	table := analysis.Frequencies(text)
	hyps := analysis.HypothesesN(table, ref, cfg.Hypotheses)
	if err := report.RenderFrequencies(cmd.OutOrStdout(), text, table, ref, hyps, reportOptions(cfg)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(table) == 0 {
		return nil
	}
	rec := report.NewRecord(model.KindFrequency, ref.Lang, text, report.FrequencySummary(table, hyps))
	saveAnalysis(cfg, rec, report.FrequencyFindings(table, hyps))
	return nil
}

func newKasiskiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kasiski",
		Short: "Estimate a Vigenère key length from repeated sequences",
		Args:  cobra.NoArgs,
		RunE:  runKasiskiCmd,
	}
	cmd.Flags().StringVar(&kasiskiVigenereKey, "vigenere-key", "", "encrypt the input with KEY first and check the estimate")
	return cmd
}

func runKasiskiCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, "")
	knownLength := 0
	switch {
	case errors.Is(err, textio.ErrNoInput) && inputFile == "":
		logErrln("No input given; using the demo text.")
		text = demoVigenereText
		if kasiskiVigenereKey == "" {
			knownLength = len(demoVigenereKey)
		}
	case err != nil:
		return err
	}

	out := cmd.OutOrStdout()
	if kasiskiVigenereKey != "" {
		encrypted, err := cipher.Vigenere(text, kasiskiVigenereKey)
		if err != nil {
			return fmt.Errorf("invalid --vigenere-key: %w", err)
		}
		text = encrypted
		knownLength = utf8.RuneCountInString(kasiskiVigenereKey)
		if _, err := fmt.Fprintf(out, "Ciphertext: %s\n\n", text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	letters := utf8.RuneCountInString(analysis.Project(text))
	if cfg.MaxKasiskiInput > 0 && letters > cfg.MaxKasiskiInput {
		return fmt.Errorf("input has %d letters, above the Kasiski limit of %d (raise --max-kasiski-input)", letters, cfg.MaxKasiskiInput)
	}

	var estimate []analysis.EstimateOption
	if cfg.DistinctDistances {
		estimate = append(estimate, analysis.WithDistinctDistances())
	}
	record := analysis.FindRepetitions(text, cfg.MinLength)
	ranking := analysis.EstimateKeyLength(record, estimate...)
	opts := report.KasiskiOptions{Options: reportOptions(cfg), KnownKeyLength: knownLength}
	if err := report.RenderKasiski(out, record, ranking, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	rec := report.NewRecord(model.KindKasiski, "", text, report.KasiskiSummary(record, ranking))
	saveAnalysis(cfg, rec, report.KasiskiFindings(ranking))
	return nil
}

// normalizeShift reduces n into [0,25].
func normalizeShift(n int) int {
	return ((n % 26) + 26) % 26
}

func reportOptions(cfg model.Config) report.Options {
	return report.Options{Top: cfg.Top}
}

func writeLine(w io.Writer, line string) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
