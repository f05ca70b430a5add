// Package commands implements the fortranmap subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortranmap/internal/analyzer"
	"github.com/leapstack-labs/fortranmap/internal/cli/config"
	"github.com/leapstack-labs/fortranmap/internal/cli/output"
)

type configKey struct{}
type rendererKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded configuration in ctx. Called by the root
// command after flag and file resolution.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithRenderer stores the output renderer in ctx.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// WithLogger stores the run logger in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// CommandContext bundles what every subcommand needs.
type CommandContext struct {
	Config   *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
}

// NewCommandContext extracts the command context prepared by the root
// command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	r, _ := ctx.Value(rendererKey{}).(*output.Renderer)
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
	}
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandContext{Config: cfg, Renderer: r, Logger: logger}, nil
}

// runAnalysis runs the full pipeline with the command's configuration.
func runAnalysis(cmd *cobra.Command, cmdCtx *CommandContext) (*analyzer.Report, error) {
	a, err := analyzer.New(cmdCtx.Config.AnalyzerConfig(), cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	report, err := a.Run(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return report, nil
}
