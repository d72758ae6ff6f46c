// Package config loads import-reconciler settings from a YAML file with
// environment variable overrides.
//
//	version: "1"
//	log_level: info
//	fallback_contract: CT-999
//	suggestion_limit: 3
//	min_suggestion_score: 0.6
//	folds:
//	  jose: [zé, ze]
//	columns:
//	  employee: [colaborador, técnico]
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"import-reconciler/internal/match"
)

// Config holds all import-reconciler settings.
// Environment variables override YAML values for fields that support both.
type Config struct {
	Version string `yaml:"version"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"RECONCILER_LOG_LEVEL" env-default:"info"`

	// FallbackContract is the id, number or client name of the catch-all
	// contract for unmatched contract references. Empty disables fallback.
	FallbackContract string `yaml:"fallback_contract" env:"RECONCILER_FALLBACK_CONTRACT"`

	// SuggestionLimit caps near-miss names reported for skipped rows.
	// Zero disables suggestions; an absent key keeps the default.
	SuggestionLimit int `yaml:"suggestion_limit" env:"RECONCILER_SUGGESTION_LIMIT"`

	// MinSuggestionScore is the minimum name similarity (0-1) of a suggestion.
	MinSuggestionScore float64 `yaml:"min_suggestion_score" env:"RECONCILER_MIN_SUGGESTION_SCORE"`

	// Folds extends the built-in spelling-variant table: canonical -> variants.
	Folds map[string][]string `yaml:"folds"`

	// Columns adds header aliases per logical column (employee, contract,
	// equipment, date, amount, description, status, id, name, number,
	// client, serial).
	Columns map[string][]string `yaml:"columns"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		SuggestionLimit:    match.DefaultSuggestionLimit,
		MinSuggestionScore: match.DefaultMinSimilarity,
	}
	applyDefaults(cfg)

	return cfg
}

// LoadFile loads a YAML config file and applies environment overrides.
// An empty path loads defaults plus environment only.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}

		applyDefaults(cfg)

		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config and applies environment overrides.
// Keys missing from data keep their Default values.
func Parse(data []byte) (*Config, error) {
	cfg := *Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in blank string fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks value ranges and the fold table.
func (c *Config) Validate() error {
	if c.SuggestionLimit < 0 {
		return fmt.Errorf("suggestion_limit must not be negative, got %d", c.SuggestionLimit)
	}

	if c.MinSuggestionScore < 0 || c.MinSuggestionScore > 1 {
		return fmt.Errorf("min_suggestion_score must be within [0, 1], got %v", c.MinSuggestionScore)
	}

	if err := match.CheckFolds(c.Folds); err != nil {
		return fmt.Errorf("folds: %w", err)
	}

	return nil
}

// Normalizer builds the name normalizer with the configured folds.
func (c *Config) Normalizer() *match.Normalizer {
	return match.NewNormalizer(c.Folds)
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
