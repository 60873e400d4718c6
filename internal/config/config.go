// Package config resolves the effective settings from defaults, the global
// config file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/scimcp/internal/chembl"
	"github.com/matsen/scimcp/internal/crossref"
	"github.com/matsen/scimcp/internal/logging"
	"github.com/matsen/scimcp/internal/upstream"
)

// Environment variables, highest precedence after command-line flags.
const (
	EnvMailto         = "SCIMCP_MAILTO"
	EnvCrossrefMailto = "CROSSREF_MAILTO"
	EnvCrossrefURL    = "SCIMCP_CROSSREF_URL"
	EnvChEMBLURL      = "SCIMCP_CHEMBL_URL"
	EnvTimeout        = "SCIMCP_TIMEOUT"
	EnvRateLimit      = "SCIMCP_RATE_LIMIT"
	EnvLogLevel       = "SCIMCP_LOG_LEVEL"
	EnvLogFormat      = "SCIMCP_LOG_FORMAT"
	EnvMetricsAddr    = "SCIMCP_METRICS_ADDR"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective configuration.
type Config struct {
	Mailto          string        `json:"mailto"`
	CrossrefBaseURL string        `json:"crossref_base_url"`
	ChEMBLBaseURL   string        `json:"chembl_base_url"`
	Timeout         time.Duration `json:"-"`
	RateLimit       float64       `json:"rate_limit"`
	LogLevel        string        `json:"log_level"`
	LogFormat       string        `json:"log_format"`
	MetricsAddr     string        `json:"metrics_addr"`
}

// MarshalJSON renders Timeout the way it is written in the config file.
func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	return json.Marshal(struct {
		plain
		Timeout string `json:"timeout"`
	}{plain(c), c.Timeout.String()})
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		CrossrefBaseURL: crossref.BaseURL,
		ChEMBLBaseURL:   chembl.BaseURL,
		Timeout:         upstream.DefaultTimeout,
		LogLevel:        "info",
		LogFormat:       logging.FormatConsole,
	}
}

// Load resolves defaults, then the global file, then the environment.
func Load() (Config, error) {
	file, err := LoadGlobalConfig()
	if err != nil {
		return Config{}, err
	}
	cfg := Defaults()
	if err := cfg.applyFile(file); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyFile(g *GlobalConfig) error {
	setString(&c.Mailto, g.Mailto)
	setString(&c.CrossrefBaseURL, g.CrossrefBaseURL)
	setString(&c.ChEMBLBaseURL, g.ChEMBLBaseURL)
	setString(&c.LogLevel, g.LogLevel)
	setString(&c.LogFormat, g.LogFormat)
	setString(&c.MetricsAddr, g.MetricsAddr)
	if g.RateLimit != 0 {
		c.RateLimit = g.RateLimit
	}
	if g.Timeout != "" {
		d, err := ParseTimeout(g.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %s: timeout: %v", ErrInvalidConfig, GlobalConfigPath(), err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(&c.Mailto, getenv(EnvCrossrefMailto))
	setString(&c.Mailto, getenv(EnvMailto))
	setString(&c.CrossrefBaseURL, getenv(EnvCrossrefURL))
	setString(&c.ChEMBLBaseURL, getenv(EnvChEMBLURL))
	setString(&c.LogLevel, getenv(EnvLogLevel))
	setString(&c.LogFormat, getenv(EnvLogFormat))
	setString(&c.MetricsAddr, getenv(EnvMetricsAddr))

	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(getenv(EnvRateLimit)); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: not a number: %q", ErrInvalidConfig, EnvRateLimit, v)
		}
		c.RateLimit = n
	}
	return nil
}

// ParseTimeout accepts a Go duration ("45s", "2m") or a bare number of seconds.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(n * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative, got %v", ErrInvalidConfig, c.RateLimit)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("%w: log_format must be console or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	for name, raw := range map[string]string{"crossref_base_url": c.CrossrefBaseURL, "chembl_base_url": c.ChEMBLBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidConfig, name, raw)
		}
	}
	if c.Mailto != "" && !strings.Contains(c.Mailto, "@") {
		return fmt.Errorf("%w: mailto must be an email address, got %q", ErrInvalidConfig, c.Mailto)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
