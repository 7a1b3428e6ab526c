// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/stepwise/internal/wizard"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for stepwise.
type Config struct {
	NavigationMode   string `mapstructure:"navigation_mode" yaml:"navigation_mode"`
	NavigateBackward string `mapstructure:"navigate_backward" yaml:"navigate_backward"`
	NavigateForward  string `mapstructure:"navigate_forward" yaml:"navigate_forward"`
	DataDir          string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel         string `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string `mapstructure:"log_file" yaml:"log_file"`
	Journal          bool   `mapstructure:"journal" yaml:"journal"`
	HookTimeout      int    `mapstructure:"hook_timeout" yaml:"hook_timeout"`
}

// envKeys lists the keys bound explicitly to STEPWISE_* variables.
var envKeys = []string{
	"navigation_mode",
	"navigate_backward",
	"navigate_forward",
	"data_dir",
	"log_level",
	"log_file",
	"journal",
	"hook_timeout",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("stepwise")

	v.SetDefault("navigation_mode", "configurable")
	v.SetDefault("navigate_backward", "allow")
	v.SetDefault("navigate_forward", "deny")
	v.SetDefault("data_dir", ".stepwise")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("journal", true)
	v.SetDefault("hook_timeout", 30)

	// Setup ENV binding with STEPWISE_ prefix
	v.SetEnvPrefix("STEPWISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool/int parsing
	for _, key := range envKeys {
		if err := v.BindEnv(key, "STEPWISE_"+strings.ToUpper(key)); err != nil {
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
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or env var is set.
func Default() *Config {
	return &Config{
		NavigationMode:   "configurable",
		NavigateBackward: "allow",
		NavigateForward:  "deny",
		DataDir:          ".stepwise",
		LogLevel:         "info",
		Journal:          true,
		HookTimeout:      30,
	}
}

// Validate checks that the navigation settings name a known mode and axes.
func (c *Config) Validate() error {
	if _, err := c.NavigationModeValue(); err != nil {
		return err
	}
	if c.HookTimeout < 0 {
		return fmt.Errorf("hook_timeout must not be negative, got %d", c.HookTimeout)
	}
	return nil
}

// NavigationModeValue builds the configured navigation mode.
func (c *Config) NavigationModeValue() (wizard.NavigationMode, error) {
	return wizard.ParseNavigationMode(c.NavigationMode, wizard.ModeOptions{
		NavigateBackward: c.NavigateBackward,
		NavigateForward:  c.NavigateForward,
	})
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/stepwise/stepwise.yml or $XDG_CONFIG_HOME/stepwise/stepwise.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepwise", "stepwise.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stepwise", "stepwise.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./stepwise.yml in the current working directory.
func ProjectPath() string {
	return "stepwise.yml"
}

// Marshal renders the config as YAML, the format written by WriteGlobal and WriteProject.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return writeFile(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return writeFile(ProjectPath(), cfg)
}

func writeFile(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
