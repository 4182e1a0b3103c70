package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Rana718/gridbase/internal/config"
	"github.com/Rana718/gridbase/internal/database"
	"github.com/Rana718/gridbase/internal/grid"
	"github.com/spf13/cobra"
)

// loadConfig reads and validates configuration, applying the --db override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if dbURL, _ := cmd.Flags().GetString("db"); dbURL != "" {
		os.Setenv(cfg.Database.URLEnv, dbURL)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func connectStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	store := database.NewStore(cfg.Database.Provider, cfg.Database.MaxConns)
	if err := store.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return store, nil
}

// openService connects to the configured database and builds the grid
// service on top of it. The caller closes the returned store.
func openService(cmd *cobra.Command) (*grid.Service, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)

	store, err := connectStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("connected to database", "dialect", store.Dialect().Name())

	svc, err := grid.NewService(store, cfg, logger)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	return svc, cfg, logger, nil
}

// maskDBURL masks password in database URL for display
func maskDBURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:10] + "***" + url[len(url)-10:]
}
