// Package config loads voicestats settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// DefaultPath is read when no path is given and VOICESTATS_CONFIG is unset.
	DefaultPath = "voicestats.yaml"
	envPath     = "VOICESTATS_CONFIG"
)

type API struct {
	BaseURL  string        `yaml:"base_url" env:"VOICESTATS_API_URL" env-default:"https://commonvoice.mozilla.org/api/v1"`
	Timeout  time.Duration `yaml:"timeout" env:"VOICESTATS_API_TIMEOUT" env-default:"10s"`
	MaxRetry time.Duration `yaml:"max_retry" env:"VOICESTATS_API_MAX_RETRY" env-default:"30s"`
}

type Server struct {
	ListenAddr  string   `yaml:"listen_addr" env:"VOICESTATS_LISTEN_ADDR" env-default:":8080"`
	AllowOrigin []string `yaml:"allow_origin" env:"VOICESTATS_ALLOW_ORIGIN" env-separator:","`
	MaxWidth    float64  `yaml:"max_width" env:"VOICESTATS_MAX_WIDTH" env-default:"4096"`
}

type Config struct {
	// Dataset is a CSV file of clip statistics. Empty selects the built in
	// sample data.
	Dataset string `yaml:"dataset" env:"VOICESTATS_DATASET"`
	// Locale is the interface language.
	Locale string `yaml:"locale" env:"VOICESTATS_LOCALE" env-default:"en"`
	// Locales are the contribution languages offered by the dashboard filter.
	Locales  []string `yaml:"locales" env:"VOICESTATS_LOCALES" env-separator:"," env-default:"en,de,fr"`
	LogLevel string   `yaml:"log_level" env:"VOICESTATS_LOG_LEVEL" env-default:"info"`
	API      API      `yaml:"api"`
	Server   Server   `yaml:"server"`
}

// Load reads path (or VOICESTATS_CONFIG, or DefaultPath) when it exists, then
// applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envPath)
	}
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}
	cfg := &Config{}
	st, err := os.Stat(path)
	switch {
	case err == nil && !st.IsDir():
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed reading config %s: %w", path, err)
		}
	case explicit:
		if err == nil {
			err = fmt.Errorf("%s is a directory", path)
		}
		return nil, fmt.Errorf("failed opening config: %w", err)
	default:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed reading environment: %w", err)
		}
	}
	normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Locale = strings.TrimSpace(cfg.Locale)
	locales := cfg.Locales[:0]
	for _, l := range cfg.Locales {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	cfg.Locales = locales
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.API.MaxRetry < 0 {
		errs = append(errs, errors.New("api.max_retry must not be negative"))
	}
	if c.Server.MaxWidth <= 0 {
		errs = append(errs, errors.New("server.max_width must be positive"))
	}
	return errors.Join(errs...)
}
