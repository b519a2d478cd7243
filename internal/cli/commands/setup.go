// Package commands implements the kerygma subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/config"
	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/internal/engine"
	"github.com/leapstack-labs/kerygma/internal/quality"
	"github.com/leapstack-labs/kerygma/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Store    *state.SQLiteStore // nil unless the state store was opened
	Checker  *quality.Checker
	Renderer *output.Renderer
}

// setupOptions selects the optional dependencies of a command.
type setupOptions struct {
	// openStore opens the state store even without --record
	openStore bool
	// skipDiscovery leaves the engine empty
	skipDiscovery bool
}

// NewCommandContext loads the templates directory into a fresh engine.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	return newCommandContext(cmd, setupOptions{})
}

func newCommandContext(cmd *cobra.Command, opts setupOptions) (*CommandContext, func(), error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())

	cmdCtx := &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Checker:  cfg.Quality.Checker(),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
	cleanup := func() {
		if cmdCtx.Store != nil {
			_ = cmdCtx.Store.Close()
		}
	}

	if cfg.Record || opts.openStore {
		store, err := openStore(cmd, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		cmdCtx.Store = store
	}

	engCfg := engine.Config{Logger: logger}
	if cfg.Record && cmdCtx.Store != nil {
		engCfg.Store = cmdCtx.Store
	}
	cmdCtx.Engine = engine.New(engCfg)

	if opts.skipDiscovery {
		return cmdCtx, cleanup, nil
	}

	if err := cfg.ValidateDirectories(); err != nil {
		cleanup()
		return nil, nil, err
	}
	result, err := cmdCtx.Engine.Discover(cmd.Context(), engine.DiscoveryOptions{Dir: cfg.TemplatesDir})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}
	for _, e := range result.Errors {
		logger.Warn("discovery problem", "path", e.Path, "type", e.Type, "error", e.Message)
	}
	logger.Debug(result.Summary())

	return cmdCtx, cleanup, nil
}

// getConfig returns the config loaded by the root command, or loads one
// from the working directory when the command runs standalone.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg, ok := config.FromContext(cmd.Context()); ok {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

func openStore(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cmd.Context(), cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return store, nil
}
