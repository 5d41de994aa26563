// Package config loads redline settings from defaults, a YAML file, REDLINE_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sprite-ai/redline/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g. REDLINE_API_BASE_URL.
const EnvPrefix = "REDLINE"

// Default values.
const (
	DefaultBaseURL      = "http://127.0.0.1:5000"
	DefaultJurisdiction = "delaware"
	DefaultTimeout      = 30 * time.Second
)

// DefaultJurisdictions are the selector options offered when none are configured.
var DefaultJurisdictions = []string{"delaware", "new_york", "california", "texas"}

// Config holds the application's configuration values.
type Config struct {
	API     APIConfig      `mapstructure:"api" yaml:"api"`
	Samples SamplesConfig  `mapstructure:"samples" yaml:"samples"`
	Review  ReviewConfig   `mapstructure:"review" yaml:"review"`
	Log     logging.Config `mapstructure:"log" yaml:"log"`
}

// APIConfig points at the review service.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// SamplesConfig points at the canned sample texts. An empty BaseURL means the
// samples compiled into the binary are used.
type SamplesConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// ReviewConfig controls submissions.
type ReviewConfig struct {
	Jurisdiction  string        `mapstructure:"jurisdiction" yaml:"jurisdiction"`
	Jurisdictions []string      `mapstructure:"jurisdictions" yaml:"jurisdictions"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("samples.base_url", "")
	v.SetDefault("review.jurisdiction", DefaultJurisdiction)
	v.SetDefault("review.jurisdictions", DefaultJurisdictions)
	v.SetDefault("review.timeout", DefaultTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// Prepare wires file lookup and environment overrides into v. An explicit
// path wins over the default ~/.config/redline/config.yaml.
func Prepare(v *viper.Viper, path string) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// DefaultDir returns ~/.config/redline.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "redline"), nil
}

// Load reads the config file (optional unless set explicitly), then decodes
// and validates the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if err := validateURL("api.base_url", c.API.BaseURL, true); err != nil {
		return err
	}
	if err := validateURL("samples.base_url", c.Samples.BaseURL, false); err != nil {
		return err
	}
	if c.Review.Timeout < 0 {
		return fmt.Errorf("review.timeout must not be negative, got %s", c.Review.Timeout)
	}
	if len(c.Review.Jurisdictions) == 0 {
		c.Review.Jurisdictions = append([]string(nil), DefaultJurisdictions...)
	}
	if c.Review.Jurisdiction == "" {
		c.Review.Jurisdiction = c.Review.Jurisdictions[0]
	}
	return nil
}

func validateURL(key, raw string, required bool) error {
	if raw == "" {
		if required {
			return fmt.Errorf("%s must be set", key)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", key, raw)
	}
	return nil
}
