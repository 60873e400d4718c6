package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/scimcp/config.yml.
// Every field is optional; zero values mean "use the default".
type GlobalConfig struct {
	Mailto          string  `yaml:"mailto,omitempty"`
	CrossrefBaseURL string  `yaml:"crossref_base_url,omitempty"`
	ChEMBLBaseURL   string  `yaml:"chembl_base_url,omitempty"`
	Timeout         string  `yaml:"timeout,omitempty"`
	RateLimit       float64 `yaml:"rate_limit,omitempty"`
	LogLevel        string  `yaml:"log_level,omitempty"`
	LogFormat       string  `yaml:"log_format,omitempty"`
	MetricsAddr     string  `yaml:"metrics_addr,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "scimcp"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/scimcp/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config %s: %w", path, err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// HelpfulConfigMessage explains where settings can be put.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Tip: Create %s to set defaults:
  mkdir -p %s
  echo 'mailto: you@example.org' > %s

Environment variables (SCIMCP_MAILTO, SCIMCP_TIMEOUT, ...) and a .env file in
the working directory override the file.`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
