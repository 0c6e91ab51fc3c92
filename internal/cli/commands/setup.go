package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/campuslabs/eventtrack/internal/cli/config"
	"github.com/campuslabs/eventtrack/internal/cli/output"
	"github.com/campuslabs/eventtrack/internal/ledger"
	"github.com/campuslabs/eventtrack/internal/registry"
	"github.com/campuslabs/eventtrack/internal/report"
	"github.com/campuslabs/eventtrack/internal/storage"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Gateway  *storage.Gateway
	Students *registry.StudentRegistry
	Events   *registry.EventRegistry
	Ledger   *ledger.Ledger
	Reports  *report.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext wired to the configured
// database. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := newLogger(cfg)

	gw := storage.New(cfg.StorageConfig(), logger)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())

	cleanup := func() {
		_ = gw.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Gateway:  gw,
		Students: registry.NewStudentRegistry(gw, logger),
		Events:   registry.NewEventRegistry(gw, logger),
		Ledger:   ledger.New(gw, logger),
		Reports:  report.NewEngine(gw, logger),
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutGateway creates a CommandContext without a
// database connection. Useful for commands that only touch config.
func NewCommandContextWithoutGateway(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   newLogger(cfg),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}
}

// getConfig returns the loaded configuration, falling back to defaults
// when no Load has run (e.g. in tests).
func getConfig() *config.Config {
	if cfg := config.Current(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Database: config.DatabaseConfig{
			Host: config.DefaultHost,
			Port: config.DefaultPort,
			User: config.DefaultUser,
			Name: config.DefaultDatabase,
		},
		ReportsDir: config.DefaultReportsDir,
	}
}

// newLogger builds the command logger. Without verbose, logs are
// discarded so command output stays clean.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
