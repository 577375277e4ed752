// Package config loads addonctx settings from a config file and the
// environment. File lookup follows XDG conventions; every key can be
// overridden with an ADDONCTX_* environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "addonctx"

	envPrefix = "ADDONCTX"
)

// Config is the resolved application configuration.
type Config struct {
	// AddonsPaths are the addon roots in resolver search order.
	AddonsPaths []string `mapstructure:"addons_paths"`
	// Exclude lists foundation modules never worth re-extracting.
	Exclude []string `mapstructure:"exclude"`
	// IndexPath locates the sqlite module index. Empty disables the index.
	IndexPath string `mapstructure:"index_path"`
	LLM       LLM    `mapstructure:"llm"`
}

// LLM configures the completion client.
type LLM struct {
	Provider string `mapstructure:"provider"`
	// ModelOrder overrides the provider's default failover list.
	ModelOrder []string `mapstructure:"model_order"`
	APIKey     string   `mapstructure:"api_key"`
}

// DefaultExclude is the foundation-module set skipped during extraction:
// universally installed modules the consumer already knows.
var DefaultExclude = []string{"base", "web", "mail", "utm"}

// Dir returns the configuration directory, $XDG_CONFIG_HOME/addonctx or
// ~/.config/addonctx.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Load reads the configuration. A missing config file is not an error: the
// defaults plus environment variables apply.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return load(dir)
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default for AutomaticEnv to surface it through
	// Unmarshal.
	v.SetDefault("addons_paths", []string{})
	v.SetDefault("exclude", DefaultExclude)
	v.SetDefault("index_path", "")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model_order", []string{})
	v.SetDefault("llm.api_key", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
