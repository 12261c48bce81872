// Package config provides Viper-based configuration loading for the judge.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// seedMaskDefault is XORed into wall-clock-derived seeds so that consecutive
// runs do not hand the RNG adjacent counters.
const seedMaskDefault = int64(226386487361623781)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// JudgeConfig holds settings shared by every run variant.
type JudgeConfig struct {
	// ItemsPerCase is the number of pens per case (N).
	ItemsPerCase int `mapstructure:"items_per_case"`
	// SeedMask is XORed into wall-clock-derived seeds.
	SeedMask int64 `mapstructure:"seed_mask"`
}

// VariantConfig is one selectable run configuration.
type VariantConfig struct {
	// Name selects the variant on the command line.
	Name string `mapstructure:"name"`
	// CaseCount is the number of cases played in lock-step.
	CaseCount int `mapstructure:"case_count"`
	// NeedCorrect is the minimum number of correct cases for a passing run.
	NeedCorrect int `mapstructure:"need_correct"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig   `mapstructure:"logging"`
	Judge    JudgeConfig     `mapstructure:"judge"`
	Variants []VariantConfig `mapstructure:"variants"`
}

// Variant looks up a run variant by name.
//
// Postcondition: returns the variant and true, or a zero value and false.
func (c Config) Variant(name string) (VariantConfig, bool) {
	for _, v := range c.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantConfig{}, false
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateJudge(c.Judge); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateVariants(c.Variants); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	if l.Format != "json" && l.Format != "console" {
		errs = append(errs, fmt.Sprintf("logging.format must be json or console, got %q", l.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateJudge(j JudgeConfig) error {
	var errs []string
	if j.ItemsPerCase < 1 {
		errs = append(errs, fmt.Sprintf("judge.items_per_case must be >= 1, got %d", j.ItemsPerCase))
	}
	if j.SeedMask < 0 {
		errs = append(errs, fmt.Sprintf("judge.seed_mask must be >= 0, got %d", j.SeedMask))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateVariants(variants []VariantConfig) error {
	var errs []string
	if len(variants) == 0 {
		errs = append(errs, "variants must not be empty")
	}
	seen := map[string]bool{}
	for i, v := range variants {
		if v.Name == "" {
			errs = append(errs, fmt.Sprintf("variants[%d].name must not be empty", i))
		} else if seen[v.Name] {
			errs = append(errs, fmt.Sprintf("variants[%d].name %q is duplicated", i, v.Name))
		}
		seen[v.Name] = true
		if v.CaseCount < 1 {
			errs = append(errs, fmt.Sprintf("variants[%d].case_count must be >= 1, got %d", i, v.CaseCount))
		}
		if v.NeedCorrect < 0 || v.NeedCorrect > v.CaseCount {
			errs = append(errs, fmt.Sprintf("variants[%d].need_correct must be in [0, %d], got %d", i, v.CaseCount, v.NeedCorrect))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path loads the
// built-in defaults (plus environment overrides) without touching the
// filesystem.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with PENJUDGE_ prefix
	v.SetEnvPrefix("PENJUDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("judge.items_per_case", 15)
	v.SetDefault("judge.seed_mask", seedMaskDefault)

	// The three historical contest variants.
	v.SetDefault("variants", []map[string]any{
		{"name": "small", "case_count": 20000, "need_correct": 10900},
		{"name": "large", "case_count": 20000, "need_correct": 12000},
		{"name": "huge", "case_count": 100000, "need_correct": 63600},
	})
}
