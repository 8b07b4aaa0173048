// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	History  HistoryConfig  `toml:"history"`
}

// AnalysisConfig maps analysis-related settings.
type AnalysisConfig struct {
	Lang              *string `toml:"lang"`
	MinLength         *int    `toml:"min-length"`
	DistinctDistances *bool   `toml:"distinct-distances"`
	Top               *int    `toml:"top"`
	Hypotheses        *int    `toml:"hypotheses"`
	MaxKasiskiInput   *int    `toml:"max-kasiski-input"`
}

// HistoryConfig maps history settings.
type HistoryConfig struct {
	Save *bool `toml:"save"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
