package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Run the MCP server, reading JSON-RPC requests from stdin and writing
responses to stdout. Logs go to stderr.

Examples:
  scimcp serve
  scimcp serve --mailto you@example.org --metrics-addr 127.0.0.1:9102`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a := mustBuildApp(cmd)
	defer a.logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, a.cfg.MetricsAddr, a.logger); err != nil {
				a.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	err := a.server.Serve(ctx, os.Stdin, os.Stdout)
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
