package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/scimcp/internal/chembl"
	"github.com/matsen/scimcp/internal/config"
	"github.com/matsen/scimcp/internal/crossref"
	"github.com/matsen/scimcp/internal/logging"
	"github.com/matsen/scimcp/internal/mcpserver"
	"github.com/matsen/scimcp/internal/metrics"
	"github.com/matsen/scimcp/internal/ops"
	"github.com/matsen/scimcp/internal/tools"
	"github.com/matsen/scimcp/internal/upstream"
)

// app holds everything a command needs.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	reg     *ops.Registry
	server  *mcpserver.Server
}

// mustLoadConfig resolves file, environment and flags, exits on error.
func mustLoadConfig(cmd *cobra.Command) config.Config {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v\n\n%s", err, config.HelpfulConfigMessage())
	}
	return cfg
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("mailto") {
		cfg.Mailto = strings.TrimSpace(flagMailto)
	}
	if flags.Changed("timeout") {
		d, err := config.ParseTimeout(flagTimeout)
		if err != nil {
			return cfg, fmt.Errorf("%w: --timeout: %v", config.ErrInvalidConfig, err)
		}
		cfg.Timeout = d
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetrics
	}
	return cfg, cfg.Validate()
}

// mustBuildApp wires clients, registry and server from the configuration.
func mustBuildApp(cmd *cobra.Command) *app {
	cfg := mustLoadConfig(cmd)
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		exitWithError(ExitConfigError, "building logger: %v", err)
	}
	return buildApp(cfg, logger)
}

func buildApp(cfg config.Config, logger *zap.Logger) *app {
	m := metrics.New()
	httpClient := func(service, baseURL string) *upstream.Client {
		return upstream.NewClient(service, baseURL,
			upstream.WithTimeout(cfg.Timeout),
			upstream.WithUserAgent(userAgent(cfg.Mailto)),
			upstream.WithRateLimit(cfg.RateLimit),
			upstream.WithObserver(m),
			upstream.WithLogger(logger.Named(service)),
		)
	}

	reg := tools.NewRegistry(tools.Deps{
		Crossref: crossref.NewClient(httpClient(crossref.ServiceName, cfg.CrossrefBaseURL), cfg.Mailto),
		ChEMBL:   chembl.NewClient(httpClient(chembl.ServiceName, cfg.ChEMBLBaseURL)),
		Logger:   logger,
	})
	srv := mcpserver.New(reg, tools.NewResources(reg), mcpserver.Options{
		Name:     "scimcp",
		Version:  Version,
		Logger:   logger,
		Recorder: m,
	})
	return &app{cfg: cfg, logger: logger, metrics: m, reg: reg, server: srv}
}

func userAgent(mailto string) string {
	ua := "scimcp/" + Version
	if mailto != "" {
		ua += " (mailto:" + mailto + ")"
	}
	return ua
}
