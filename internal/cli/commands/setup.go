package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/booksales/internal/cli/config"
	"github.com/leapstack-labs/booksales/internal/cli/output"
	"github.com/leapstack-labs/booksales/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cctx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmd.Context(), cctx.Cfg, cctx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cctx.Engine = eng

	cleanup := func() {
		_ = eng.Close()
	}
	return cctx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need database access.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	target := &config.TargetConfig{Type: config.DefaultTargetType}
	config.ApplyTargetDefaults(target)
	return &config.Config{
		OutputFormat: config.DefaultOutput,
		Target:       target,
		Fixture:      config.FixtureConfig{Source: config.DefaultFixture},
	}
}

func createEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return engine.New(ctx, engine.Config{
		Adapter: cfg.Target.AdapterConfig(),
		Logger:  logger,
	})
}
