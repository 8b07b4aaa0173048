package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/cipherlab/internal/config"
	"github.com/verte-zerg/cipherlab/internal/model"
)

func setupDirs(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncryptCaesar(t *testing.T) {
	setupDirs(t)
	out, err := runCLI(t, "encrypt", "--text", "Hola mundo", "--shift", "3")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if out != "Krod pxqgr\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEncryptVigenereRequiresKey(t *testing.T) {
	setupDirs(t)
	if _, err := runCLI(t, "encrypt", "--text", "attack", "--cipher", "vigenere"); err == nil {
		t.Fatalf("expected error for missing key")
	}
	out, err := runCLI(t, "encrypt", "--text", "attack at dawn", "--cipher", "vigenere", "--key", "LEMON")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if out != "lxfopv ef rnhr\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	setupDirs(t)
	plain := "Attack at dawn, Hola mundo"
	cases := [][]string{
		{"--cipher", "caesar", "--shift", "7"},
		{"--cipher", "vigenere", "--key", "clave"},
		{"--cipher", "substitution", "--seed", "42"},
	}
	for _, flags := range cases {
		enc, err := runCLI(t, append([]string{"encrypt", "--text", plain}, flags...)...)
		if err != nil {
			t.Fatalf("encrypt %v failed: %v", flags, err)
		}
		enc = strings.TrimSuffix(enc, "\n")
		if enc == plain {
			t.Fatalf("encrypt %v left the text unchanged", flags)
		}
		dec, err := runCLI(t, append([]string{"encrypt", "--decrypt", "--text", enc}, flags...)...)
		if err != nil {
			t.Fatalf("decrypt %v failed: %v", flags, err)
		}
		if dec != plain+"\n" {
			t.Fatalf("decrypt %v: expected %q, got %q", flags, plain, dec)
		}
	}
}

func TestDecryptSubstitutionRequiresSeed(t *testing.T) {
	setupDirs(t)
	_, err := runCLI(t, "encrypt", "--decrypt", "--cipher", "substitution", "--text", "abc")
	if err == nil || !strings.Contains(err.Error(), "--seed") {
		t.Fatalf("expected seed error, got %v", err)
	}
}

func TestCaesarVerifiesKnownPlaintext(t *testing.T) {
	setupDirs(t)
	out, err := runCLI(t, "caesar", "--text", "Krod pxqgr", "--plaintext", "Hola mundo", "--key", "3", "--no-save")
	if err != nil {
		t.Fatalf("caesar failed: %v", err)
	}
	if !strings.Contains(out, "Key 3 verified") {
		t.Fatalf("missing verification: %s", out)
	}
	if _, err := os.Stat(config.DefaultDBPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no database with --no-save, stat err=%v", err)
	}
}

func TestCaesarPlaintextRequiresKey(t *testing.T) {
	setupDirs(t)
	if _, err := runCLI(t, "caesar", "--text", "Krod pxqgr", "--plaintext", "Hola mundo", "--no-save"); err == nil {
		t.Fatalf("expected error without --key")
	}
}

func TestCaesarEncryptShiftWraps(t *testing.T) {
	setupDirs(t)
	cases := []struct {
		encrypt string
		want    string
	}{
		{encrypt: "29", want: "Shift 3: Hola mundo"},
		{encrypt: "-3", want: "Shift 23: Hola mundo"},
		{encrypt: "55", want: "Shift 3: Hola mundo"},
	}
	for _, tc := range cases {
		out, err := runCLI(t, "caesar", "--text", "Hola mundo", "--encrypt="+tc.encrypt, "--no-save")
		if err != nil {
			t.Fatalf("caesar --encrypt %s failed: %v", tc.encrypt, err)
		}
		if !strings.Contains(out, tc.want) {
			t.Fatalf("--encrypt %s: expected %q in output: %s", tc.encrypt, tc.want, out)
		}
	}
}

func TestCaesarEncryptToIdentitySkipsVerification(t *testing.T) {
	setupDirs(t)
	out, err := runCLI(t, "caesar", "--encrypt", "23", "--no-save")
	if err != nil {
		t.Fatalf("caesar failed: %v", err)
	}
	if !strings.Contains(out, "Ciphertext: Hola mundo, este es un mensaje secreto") {
		t.Fatalf("expected demo text to shift back to plaintext: %s", out)
	}
	if !strings.Contains(out, "nothing to verify") || strings.Contains(out, "does not reproduce") {
		t.Fatalf("expected verification to be skipped: %s", out)
	}

	out, err = runCLI(t, "caesar", "--text", "Hola mundo", "--encrypt", "26", "--no-save")
	if err != nil {
		t.Fatalf("caesar --encrypt 26 failed: %v", err)
	}
	if !strings.Contains(out, "nothing to verify") {
		t.Fatalf("expected identity shift note: %s", out)
	}
}

func TestCaesarRejectsExplicitKeyOutOfRange(t *testing.T) {
	setupDirs(t)
	_, err := runCLI(t, "caesar", "--text", "Krod pxqgr", "--key", "29", "--no-save")
	if err == nil || !strings.Contains(err.Error(), "--key must be between 1 and 25") {
		t.Fatalf("expected key range error, got %v", err)
	}
}

func TestKasiskiReportsKeyLengths(t *testing.T) {
	setupDirs(t)
	out, err := runCLI(t, "kasiski", "--text", "abcxxabcxxabc", "--no-save")
	if err != nil {
		t.Fatalf("kasiski failed: %v", err)
	}
	if !strings.Contains(out, "Most probable key lengths: 2, 5") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestKasiskiInputLimit(t *testing.T) {
	setupDirs(t)
	_, err := runCLI(t, "kasiski", "--text", "abcxxabcxxabc", "--max-kasiski-input", "5", "--no-save")
	if err == nil || !strings.Contains(err.Error(), "Kasiski limit") {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestFreqThenHistory(t *testing.T) {
	setupDirs(t)
	if _, err := runCLI(t, "freq", "--text", "aaabbc"); err != nil {
		t.Fatalf("freq failed: %v", err)
	}
	out, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "frequency") || !strings.Contains(out, "6 letters") {
		t.Fatalf("unexpected history: %s", out)
	}
	if !strings.Contains(out, "Stored: 1 (caesar 0, frequency 1, kasiski 0)") {
		t.Fatalf("missing per-kind totals: %s", out)
	}

	out, err = runCLI(t, "history", "--show", "1")
	if err != nil {
		t.Fatalf("history --show failed: %v", err)
	}
	if !strings.Contains(out, "Analysis #1 (frequency") {
		t.Fatalf("unexpected analysis: %s", out)
	}

	if _, err := runCLI(t, "history", "--show", "99"); err == nil {
		t.Fatalf("expected error for missing analysis")
	}
	if _, err := runCLI(t, "history", "--kind", "rot13"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestConfigFileApplies(t *testing.T) {
	setupDirs(t)
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "[analysis]\nlang = \"klingon\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runCLI(t, "freq", "--text", "abc", "--no-save"); err == nil {
		t.Fatalf("expected unknown language from config")
	}
	if _, err := runCLI(t, "freq", "--text", "abc", "--no-save", "--lang", "en"); err != nil {
		t.Fatalf("flag should override config: %v", err)
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write default config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if cfg.Analysis.Lang != nil || cfg.History.Save != nil {
		t.Fatalf("expected all values commented out")
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Lang: "es", MinLength: 3, Top: 10, Hypotheses: 5}
	if err := validateConfig(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []func(*model.Config){
		func(c *model.Config) { c.Lang = "xx" },
		func(c *model.Config) { c.MinLength = 1 },
		func(c *model.Config) { c.Top = -1 },
		func(c *model.Config) { c.Hypotheses = -1 },
		func(c *model.Config) { c.MaxKasiskiInput = -1 },
	}
	for i, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
