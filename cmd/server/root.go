package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/history"
	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/persistence"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "tracker",
		Short: "Task tracker API",
		Long: `tracker keeps tasks, epics and subtasks in memory, rejects overlapping
schedules and persists every change to the configured storage backend.

Without a subcommand it starts the HTTP server.`,
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	d := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	flags.String("addr", d.Server.Addr, "HTTP listen address")
	flags.String("mode", d.Server.Mode, "gin mode (debug, release, test)")
	flags.String("backend", d.Storage.Backend, "Storage backend (csv, sqlite, postgres, memory)")
	flags.String("path", d.Storage.Path, "File used by the csv and sqlite backends")
	flags.String("dsn", d.Storage.DSN, "Postgres connection string")
	flags.Int("history-limit", d.History.Limit, "Maximum history entries, 0 for unlimited")
	flags.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log-format", d.Log.Format, "Log format (text, json)")
}

// Execute runs the root command.
func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig resolves the configuration for cmd and builds the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.NewLogger(cfg.Log, os.Stderr), nil
}

// openStore opens the backend and restores its content into a new manager
// reporting changes to onChange, which may be nil. The caller closes the
// returned backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, onChange func(manager.Change)) (*manager.Manager, persistence.Backend, error) {
	backend, err := persistence.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, nil, err
	}
	snap, err := backend.Load(ctx)
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("load %s store: %w", cfg.Storage.Backend, err)
	}

	m := manager.New(manager.Options{
		History:     history.NewLinkedHistory(history.Options{Limit: cfg.History.Limit}),
		Saver:       backend,
		SaveTimeout: cfg.Storage.SaveTimeout,
		OnChange:    onChange,
		Logger:      logger,
	})
	m.Restore(snap)
	logger.Info("store loaded",
		"backend", cfg.Storage.Backend,
		"tasks", len(snap.Tasks),
		"epics", len(snap.Epics),
		"subtasks", len(snap.SubTasks),
	)
	return m, backend, nil
}
