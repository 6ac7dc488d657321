package sqlstore_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/stash/internal/database"
	"github.com/MrJamesThe3rd/stash/internal/kv/kvtest"
	"github.com/MrJamesThe3rd/stash/internal/kv/sqlstore"
)

func TestStore_SQLite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "stash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))
	// Applying twice must be a no-op.
	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))

	kvtest.Run(t, sqlstore.New(db, database.SQLite), "sqlite:")
}

func TestStore_Postgres(t *testing.T) {
	kvtest.RequireDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "stash",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.New(fmt.Sprintf("postgres://testuser:testpass@%s:%s/stash?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db, database.Postgres))

	kvtest.Run(t, sqlstore.New(db, database.Postgres), "pg:")
}
