package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/config"
	"github.com/MrJamesThe3rd/stash/internal/kv/kvtest"
	"github.com/MrJamesThe3rd/stash/internal/storage"
)

func TestOpen(t *testing.T) {
	type testCase struct {
		name    string
		setup   func(cfg *config.Config)
		wantErr bool
	}

	tests := []testCase{
		{
			name:  "Memory",
			setup: func(cfg *config.Config) { cfg.Storage.Driver = config.DriverMemory },
		},
		{
			name: "SQLite",
			setup: func(cfg *config.Config) {
				cfg.Storage.Driver = config.DriverSQLite
				cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "data", "stash.db")
			},
		},
		{
			name:    "Unknown",
			setup:   func(cfg *config.Config) { cfg.Storage.Driver = "mongo" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			tt.setup(&cfg)

			store, closeFn, err := storage.Open(context.Background(), &cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, closeFn()) })

			kvtest.Run(t, store, "open_")
		})
	}
}
