// Package main provides the scimcp entry point: an MCP server on stdio and a
// small CLI over the same operations.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags.
var (
	humanOutput bool
	flagMailto  string
	flagTimeout string
	flagLevel   string
	flagMetrics string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scimcp",
	Short: "MCP server for Crossref and ChEMBL",
	Long: `scimcp exposes the Crossref scholarly metadata API and the ChEMBL
bioactivity API as MCP tools and resources, plus local drug-likeness and
ADMET heuristics.

Run without a subcommand (or with 'serve') to speak MCP on stdin/stdout.
The other commands call the same operations directly and print JSON.

Environment Variables:
  SCIMCP_MAILTO        Contact address for the Crossref polite pool
  SCIMCP_TIMEOUT       Upstream request timeout (e.g. 30s)
  SCIMCP_RATE_LIMIT    Client-side request limit per second (0 = off)
  SCIMCP_LOG_LEVEL     debug, info, warn or error
  SCIMCP_METRICS_ADDR  Serve Prometheus metrics on this address`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runServe,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	flags.StringVar(&flagMailto, "mailto", "", "Contact email for Crossref requests")
	flags.StringVar(&flagTimeout, "timeout", "", "Upstream request timeout (e.g. 30s)")
	flags.StringVar(&flagLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&flagMetrics, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9102)")
	rootCmd.Version = Version
}
