package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of a ReviewConfig.
type fileConfig struct {
	EnabledHooks    []string `json:"enabledHooks" yaml:"enabledHooks" toml:"enabledHooks"`
	FileTypes       []string `json:"fileTypes" yaml:"fileTypes" toml:"fileTypes"`
	ExcludePaths    []string `json:"excludePaths" yaml:"excludePaths" toml:"excludePaths"`
	ReviewPrompt    string   `json:"reviewPrompt" yaml:"reviewPrompt" toml:"reviewPrompt"`
	ReviewerCommand string   `json:"reviewerCommand,omitempty" yaml:"reviewerCommand,omitempty" toml:"reviewerCommand,omitempty"`
	ReviewerArgs    []string `json:"reviewerArgs" yaml:"reviewerArgs" toml:"reviewerArgs"`
	PromptTimeout   float64  `json:"promptTimeout" yaml:"promptTimeout" toml:"promptTimeout"`
	TUI             bool     `json:"tui" yaml:"tui" toml:"tui"`
	ShowDiff        bool     `json:"showDiff" yaml:"showDiff" toml:"showDiff"`
}

func toFile(cfg ReviewConfig) fileConfig {
	return fileConfig{
		EnabledHooks:    cfg.EnabledHooks.Strings(),
		FileTypes:       cfg.FileTypes,
		ExcludePaths:    cfg.ExcludePaths,
		ReviewPrompt:    cfg.PromptTemplate,
		ReviewerCommand: cfg.ReviewerCommand,
		ReviewerArgs:    cfg.ReviewerArgs,
		PromptTimeout:   cfg.PromptTimeout.Seconds(),
		TUI:             cfg.TUI,
		ShowDiff:        cfg.ShowDiff,
	}
}

// Encode writes cfg in the given format: json, yaml, or toml.
func Encode(w io.Writer, cfg ReviewConfig, format string) error {
	fc := toFile(cfg)
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(fc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(fc); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json, yaml, or toml)", format)
	}
}

// WriteDefault writes the default config to path unless a file already exists.
// It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return false, fmt.Errorf("creating config: %w", err)
	}
	defer f.Close()

	if err := Encode(f, Defaults(), "json"); err != nil {
		return false, err
	}
	return true, nil
}
