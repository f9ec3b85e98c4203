// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/mmynk/inkwell/internal/config"
	"github.com/mmynk/inkwell/internal/storage"
	"github.com/mmynk/inkwell/internal/storage/memory"
	"github.com/mmynk/inkwell/internal/storage/postgres"
	"github.com/mmynk/inkwell/internal/storage/sqlite"
)

// Options selects and locates a store.
type Options struct {
	Driver      string `env:"DB_DRIVER" envDefault:"sqlite"`
	Path        string `env:"DB_PATH" envDefault:"./data/inkwell.db"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// Open connects to the store named by opts.Driver. The schema is created if missing.
func Open(ctx context.Context, opts Options) (storage.Store, error) {
	switch opts.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// Describe returns a log-safe description of where opts points.
func Describe(opts Options) string {
	switch opts.Driver {
	case config.DriverSQLite:
		return opts.Path
	case config.DriverPostgres:
		return "postgres"
	default:
		return opts.Driver
	}
}
