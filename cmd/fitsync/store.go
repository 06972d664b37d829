package main

import (
	"context"
	"fmt"

	"github.com/tbourn/go-fitness-sync/internal/config"
	"github.com/tbourn/go-fitness-sync/internal/repo"
	"github.com/tbourn/go-fitness-sync/internal/sysutil"
)

// loadConfig reads dotenv files and the environment and installs logging.
// The returned closer flushes the log file sink.
func loadConfig() (config.Config, func(), error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	closer := sysutil.SetupLogging(sysutil.LogOptions{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		File:   cfg.LogFile,
	})
	return cfg, func() { _ = closer.Close() }, nil
}

// openStore builds and initializes the local store described by cfg.
func openStore(ctx context.Context, cfg config.Config) (*repo.Store, error) {
	loc, err := cfg.Store.Location()
	if err != nil {
		return nil, fmt.Errorf("store timezone %q: %w", cfg.Store.TimeZone, err)
	}
	st := repo.NewStore(repo.Options{
		Dir:      cfg.Store.DataDir,
		File:     cfg.Store.DBFile,
		Location: loc,
		Tracing:  cfg.OTEL.Enabled,
	})
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
