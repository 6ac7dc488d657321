package redisstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/stash/internal/kv/kvtest"
	"github.com/MrJamesThe3rd/stash/internal/kv/redisstore"
)

func TestStore_Redis(t *testing.T) {
	kvtest.RequireDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := redisstore.NewClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "", "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	kvtest.Run(t, redisstore.New(client, "stash:test:"), "")
}
