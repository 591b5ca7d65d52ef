// Package config provides Viper-based configuration loading for hatchery.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// StorageConfig selects where the roster is persisted.
type StorageConfig struct {
	// Backend is "file" (a single JSON document) or "sqlite" (snapshot history).
	Backend string `mapstructure:"backend"`
	// Path is the JSON file or SQLite database path.
	Path string `mapstructure:"path"`
	// Roster names the roster inside a sqlite database; ignored by the file backend.
	Roster string `mapstructure:"roster"`
}

// ScriptingConfig holds Lua script execution limits.
type ScriptingConfig struct {
	// InstructionLimit caps the Lua opcodes a script may execute; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// RandomConfig selects the breeding randomness source.
type RandomConfig struct {
	// Seed makes breeding deterministic when non-zero; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Random    RandomConfig    `mapstructure:"random"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	validBackends := map[string]bool{"file": true, "sqlite": true}
	if !validBackends[s.Backend] {
		errs = append(errs, fmt.Sprintf("storage.backend must be one of [file, sqlite], got %q", s.Backend))
	}
	if strings.TrimSpace(s.Path) == "" {
		errs = append(errs, "storage.path must not be empty")
	}
	if s.Backend == "sqlite" && strings.TrimSpace(s.Roster) == "" {
		errs = append(errs, "storage.roster must not be empty for the sqlite backend")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with HATCHERY_ prefix
	v.SetEnvPrefix("HATCHERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
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

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "roster.json")
	v.SetDefault("storage.roster", "default")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("random.seed", 0)
}
