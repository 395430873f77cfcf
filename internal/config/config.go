// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for modality.
type Config struct {
	Theme         string `mapstructure:"theme" yaml:"theme"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
	ConfirmMode   string `mapstructure:"confirm_mode" yaml:"confirm_mode"`     // "double" or "single"
	BackdropClose bool   `mapstructure:"backdrop_close" yaml:"backdrop_close"` // click outside dismisses dialogs
	Events        bool   `mapstructure:"events" yaml:"events"`                 // publish lifecycle events on the embedded bus
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("modality")

	v.SetDefault("theme", "catppuccin-mocha")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("confirm_mode", "double")
	v.SetDefault("backdrop_close", true)
	v.SetDefault("events", true)

	// Setup ENV binding with MODALITY_ prefix
	v.SetEnvPrefix("MODALITY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool parsing
	// Note: BindEnv errors are very rare (only invalid key names), but we check them anyway
	bindings := map[string]string{
		"theme":          "MODALITY_THEME",
		"log_level":      "MODALITY_LOG_LEVEL",
		"log_file":       "MODALITY_LOG_FILE",
		"confirm_mode":   "MODALITY_CONFIRM_MODE",
		"backdrop_close": "MODALITY_BACKDROP_CLOSE",
		"events":         "MODALITY_EVENTS",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		// Need to set config file explicitly for merge
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.ConfirmMode != "double" && cfg.ConfirmMode != "single" {
		return nil, fmt.Errorf("invalid confirm_mode %q (want \"double\" or \"single\")", cfg.ConfirmMode)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/modality/modality.yml or $XDG_CONFIG_HOME/modality/modality.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "modality", "modality.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "modality", "modality.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./modality.yml in the current working directory.
func ProjectPath() string {
	return "modality.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ProjectPath(), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
