package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/scimcp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after applying defaults, the global config file,
environment variables and flags (in that order of increasing precedence).

Config file: $XDG_CONFIG_HOME/scimcp/config.yml (default ~/.config/scimcp/config.yml)

Keys:
  mailto             Contact address for the Crossref polite pool
  crossref_base_url  Crossref API base URL
  chembl_base_url    ChEMBL API base URL
  timeout            Upstream request timeout (e.g. 30s)
  rate_limit         Requests per second per service (0 = off)
  log_level          debug, info, warn or error
  log_format         console or json
  metrics_addr       Address for /metrics (empty = off)`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig(cmd)

	if !humanOutput {
		outputJSON(ConfigResponse{Path: config.GlobalConfigPath(), Config: cfg})
		return
	}
	fmt.Printf("config file:       %s\n", config.GlobalConfigPath())
	fmt.Printf("mailto:            %s\n", cfg.Mailto)
	fmt.Printf("crossref_base_url: %s\n", cfg.CrossrefBaseURL)
	fmt.Printf("chembl_base_url:   %s\n", cfg.ChEMBLBaseURL)
	fmt.Printf("timeout:           %s\n", cfg.Timeout)
	fmt.Printf("rate_limit:        %v\n", cfg.RateLimit)
	fmt.Printf("log_level:         %s\n", cfg.LogLevel)
	fmt.Printf("log_format:        %s\n", cfg.LogFormat)
	fmt.Printf("metrics_addr:      %s\n", cfg.MetricsAddr)
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path   string        `json:"path"`
	Config config.Config `json:"config"`
}
