package config

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/record/postgres"
	"github.com/peterkuimelis/forestclash/internal/record/sqlite"
)

// OpenRecorder opens the configured record store. The returned close func is
// never nil.
func OpenRecorder(ctx context.Context, cfg StorageConfig) (record.Recorder, func(), error) {
	switch cfg.Driver {
	case "", "memory":
		return record.NewMemoryRecorder(), func() {}, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		store, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
