// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analyze AnalyzeConfig `toml:"analyze"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// AnalyzeConfig maps analysis settings.
type AnalyzeConfig struct {
	Input     *string `toml:"input"`
	Output    *string `toml:"output"`
	Encoding  *string `toml:"encoding"`
	RangeLow  *int    `toml:"range-low"`
	RangeHigh *int    `toml:"range-high"`
	Mode      *string `toml:"mode"`
	Top       *int    `toml:"top"`
	Chart     *bool   `toml:"chart"`
	Parallel  *bool   `toml:"parallel"`
}

// HistoryConfig maps run history settings.
type HistoryConfig struct {
	Enabled *bool   `toml:"enabled"`
	Path    *string `toml:"path"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max-size"`    // megabytes
	MaxBackups int    `toml:"max-backups"` // files
	MaxAge     int    `toml:"max-age"`     // days
	Compress   bool   `toml:"compress"`
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
