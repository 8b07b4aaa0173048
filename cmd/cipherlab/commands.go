package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/cipher"
	"github.com/verte-zerg/cipherlab/internal/config"
	"github.com/verte-zerg/cipherlab/internal/model"
	"github.com/verte-zerg/cipherlab/internal/report"
	"github.com/verte-zerg/cipherlab/internal/store"
)

const (
	cipherCaesar       = "caesar"
	cipherVigenere     = "vigenere"
	cipherSubstitution = "substitution"
	defaultShift       = 3
)

var (
	encryptCipher  string
	encryptShift   int
	encryptKey     string
	encryptSeed    int64
	encryptDecrypt bool

	historyKind  string
	historyLast  int
	historySince string
	historyShow  int64
)

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Produce ciphertext for experiments, or undo it with --decrypt",
		Args:  cobra.NoArgs,
		RunE:  runEncryptCmd,
	}
	cmd.Flags().StringVar(&encryptCipher, "cipher", cipherCaesar, "cipher: caesar, vigenere or substitution")
	cmd.Flags().IntVar(&encryptShift, "shift", defaultShift, "Caesar shift")
	cmd.Flags().StringVar(&encryptKey, "key", "", "Vigenère key (letters a-z)")
	cmd.Flags().Int64Var(&encryptSeed, "seed", 0, "seed for the substitution key (default: random)")
	cmd.Flags().BoolVar(&encryptDecrypt, "decrypt", false, "reverse the cipher instead (substitution needs --seed)")
	return cmd
}

func runEncryptCmd(cmd *cobra.Command, _ []string) error {
	text, err := readInput(cmd, "")
	if err != nil {
		return err
	}
	var out string
	switch strings.ToLower(strings.TrimSpace(encryptCipher)) {
	case cipherCaesar:
		shift := encryptShift
		if encryptDecrypt {
			shift = -shift
		}
		out = cipher.Shift(text, shift)
	case cipherVigenere:
		if encryptDecrypt {
			out, err = cipher.VigenereDecrypt(text, encryptKey)
		} else {
			out, err = cipher.Vigenere(text, encryptKey)
		}
		if err != nil {
			return fmt.Errorf("failed to apply vigenere: %w", err)
		}
	case cipherSubstitution:
		seeded := cmd.Flags().Changed("seed")
		if encryptDecrypt && !seeded {
			return fmt.Errorf("--decrypt with substitution requires the --seed used to encrypt")
		}
		gen := cipher.NewGenerator()
		if seeded {
			gen = cipher.NewSeededGenerator(encryptSeed)
		}
		key := gen.SubstitutionKey()
		logErrf("Substitution key (a-z): %s\n", key)
		if encryptDecrypt {
			key = key.Invert()
		}
		out = cipher.Substitute(text, key)
	default:
		return fmt.Errorf("unknown --cipher %q (use caesar, vigenere or substitution)", encryptCipher)
	}
	return writeLine(cmd.OutOrStdout(), out)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyKind, "kind", "", "filter by kind (caesar, frequency, kasiski)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N analyses")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&historyShow, "show", 0, "show one analysis with its findings")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	kind := strings.ToLower(strings.TrimSpace(historyKind))
	if kind != "" && !knownKind(kind) {
		return fmt.Errorf("unknown --kind %q", historyKind)
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if historyShow > 0 {
		a, findings, err := st.GetAnalysis(ctx, historyShow)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("analysis %d not found", historyShow)
		}
		if err != nil {
			return fmt.Errorf("failed to load analysis: %w", err)
		}
		if err := report.RenderAnalysis(out, a, findings, report.Options{}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	analyses, err := st.ListAnalyses(ctx, model.HistoryConfig{Kind: kind, Since: sinceTime, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	if err := report.RenderHistory(out, analyses, report.Options{}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(analyses) == 0 {
		return nil
	}
	counts, err := st.CountByKind(ctx)
	if err != nil {
		return fmt.Errorf("failed to count analyses: %w", err)
	}
	if err := writeLine(out, ""); err != nil {
		return err
	}
	if err := report.RenderKindTotals(out, counts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func knownKind(kind string) bool {
	for _, k := range model.Kinds() {
		if string(k) == kind {
			return true
		}
	}
	return false
}
