// Package main provides the CLI entrypoint for cipherlab.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/analysis"
	"github.com/verte-zerg/cipherlab/internal/config"
	"github.com/verte-zerg/cipherlab/internal/explorer"
	"github.com/verte-zerg/cipherlab/internal/model"
	"github.com/verte-zerg/cipherlab/internal/store"
	"github.com/verte-zerg/cipherlab/internal/textio"
)

const (
	defaultTop             = 10
	defaultMaxKasiskiInput = 5000
)

var (
	inputText     string
	inputFile     string
	inputEncoding string
	noSave        bool

	analysisLang       string
	analysisMinLength  int
	analysisDistinct   bool
	analysisTop        int
	analysisHypotheses int
	analysisMaxKasiski int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cipherlab",
		Short:         "Classical cipher cryptanalysis lab",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runExplorerCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&inputText, "text", "", "input text (wins over --file and stdin)")
	flags.StringVar(&inputFile, "file", "", "read input from file")
	flags.StringVar(&inputEncoding, "encoding", textio.DefaultEncoding, "input encoding for --file and stdin ("+strings.Join(textio.Encodings(), ", ")+")")
	flags.BoolVar(&noSave, "no-save", false, "do not record the analysis in the history")
	flags.StringVar(&analysisLang, "lang", analysis.DefaultLang, "reference language ("+strings.Join(analysis.ReferenceLangs(), ", ")+")")
	flags.IntVar(&analysisMinLength, "min-length", analysis.DefaultMinLength, "shortest repeated sequence for Kasiski")
	flags.BoolVar(&analysisDistinct, "distinct-distances", false, "count each repeat distance once when voting")
	flags.IntVar(&analysisTop, "top", defaultTop, "rows to show in tables and charts (0 = all)")
	flags.IntVar(&analysisHypotheses, "hypotheses", analysis.DefaultHypotheses, "substitution hypotheses to pair")
	flags.IntVar(&analysisMaxKasiski, "max-kasiski-input", defaultMaxKasiskiInput, "letter limit for Kasiski (0 = no limit)")

	rootCmd.AddCommand(newCaesarCmd())
	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newKasiskiCmd())
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runExplorerCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	piped := inputText == "" && inputFile == "" && textio.StdinIsPiped()
	text, err := readInput(cmd, "")
	if err != nil && !errors.Is(err, textio.ErrNoInput) {
		return err
	}

	var st *store.Store
	if opened, err := store.Open(config.DefaultDBPath()); err != nil {
		logErrf("failed to open db, history disabled: %v\n", err)
	} else {
		st = opened
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if piped {
		opts = append(opts, tea.WithInputTTY())
	}
	program := tea.NewProgram(explorer.NewModel(st, cfg, text), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run explorer: %w", err)
	}
	return nil
}

// loadConfig merges the config file under explicitly set flags.
func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &analysisLang, fileCfg.Analysis.Lang)
	applyIntConfig(cmd, "min-length", &analysisMinLength, fileCfg.Analysis.MinLength)
	applyBoolConfig(cmd, "distinct-distances", &analysisDistinct, fileCfg.Analysis.DistinctDistances)
	applyIntConfig(cmd, "top", &analysisTop, fileCfg.Analysis.Top)
	applyIntConfig(cmd, "hypotheses", &analysisHypotheses, fileCfg.Analysis.Hypotheses)
	applyIntConfig(cmd, "max-kasiski-input", &analysisMaxKasiski, fileCfg.Analysis.MaxKasiskiInput)

	save := true
	if fileCfg.History.Save != nil {
		save = *fileCfg.History.Save
	}

	cfg := model.Config{
		Lang:              strings.ToLower(strings.TrimSpace(analysisLang)),
		MinLength:         analysisMinLength,
		DistinctDistances: analysisDistinct,
		Top:               analysisTop,
		Hypotheses:        analysisHypotheses,
		MaxKasiskiInput:   analysisMaxKasiski,
		SaveHistory:       save && !noSave,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if _, ok := analysis.ReferenceFor(cfg.Lang); !ok {
		return fmt.Errorf("unknown --lang %q (available: %s)", cfg.Lang, strings.Join(analysis.ReferenceLangs(), ", "))
	}
	if cfg.MinLength < 2 {
		return fmt.Errorf("--min-length must be >= 2")
	}
	if cfg.Top < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	if cfg.Hypotheses < 0 {
		return fmt.Errorf("--hypotheses must be >= 0")
	}
	if cfg.MaxKasiskiInput < 0 {
		return fmt.Errorf("--max-kasiski-input must be >= 0")
	}
	return nil
}

// readInput resolves --text, --file and piped stdin in that order. When
// nothing is given and fallback is set, fallback is used instead.
func readInput(cmd *cobra.Command, fallback string) (string, error) {
	src := textio.Source{Text: inputText, Path: inputFile, Encoding: inputEncoding}
	if src.Text == "" && src.Path == "" && textio.StdinIsPiped() {
		src.Stdin = cmd.InOrStdin()
	}
	text, err := textio.Read(src)
	if errors.Is(err, textio.ErrNoInput) && fallback != "" && inputFile == "" {
		logErrln("No input given; using the demo text.")
		return fallback, nil
	}
	return text, err
}

func saveAnalysis(cfg model.Config, rec model.AnalysisRecord, findings []model.Finding) {
	if !cfg.SaveHistory {
		return
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertAnalysis(context.Background(), rec, findings); err != nil {
		logErrf("failed to save analysis: %v\n", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config template unless a file exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cipherlab configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# lang = %q                 # Reference language (%s)
# min-length = %d            # Shortest repeated sequence for Kasiski
# distinct-distances = false # Count each repeat distance once when voting
# top = %d                  # Rows in tables and charts (0 = all)
# hypotheses = %d            # Substitution hypotheses to pair
# max-kasiski-input = %d  # Letter limit for Kasiski (0 = no limit)

[history]
# save = true                # Record analyses in the history database
`,
		analysis.DefaultLang,
		strings.Join(analysis.ReferenceLangs(), ", "),
		analysis.DefaultMinLength,
		defaultTop,
		analysis.DefaultHypotheses,
		defaultMaxKasiskiInput,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
