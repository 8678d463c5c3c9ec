// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	History  HistoryConfig  `toml:"history"`
	Store    StoreConfig    `toml:"store"`
	Coach    CoachConfig    `toml:"coach"`
	Server   ServerConfig   `toml:"server"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	BaselineWPM *int     `toml:"baseline-wpm"`
	Memorize    *bool    `toml:"memorize"`
	WordList    *string  `toml:"wordlist"`
	Words       *int     `toml:"words"`
	CapsPct     *float64 `toml:"caps"`
	PunctPct    *float64 `toml:"punct"`
	PunctSet    *string  `toml:"punct-set"`
}

// HistoryConfig maps history listing defaults.
type HistoryConfig struct {
	Sort   *string `toml:"sort"`
	Filter *string `toml:"filter"`
	Limit  *int    `toml:"limit"`
}

// StoreConfig selects the database backend.
type StoreConfig struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
}

// CoachConfig maps LLM coaching settings.
type CoachConfig struct {
	Enabled   *bool   `toml:"enabled"`
	Provider  *string `toml:"provider"`
	Model     *string `toml:"model"`
	MaxTokens *int    `toml:"max-tokens"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
