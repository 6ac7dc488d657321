// Package kvtest holds the behaviour every kv.Store backend must share.
package kvtest

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/kv"
)

// Run exercises a store against the kv.Store contract. Keys are prefixed so runs can share a backend.
func Run(t *testing.T, store kv.Store, prefix string) {
	t.Helper()

	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"missing")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("SetGet", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"a", `{"x":1}`))

		got, err := store.Get(ctx, prefix+"a")
		require.NoError(t, err)
		assert.Equal(t, `{"x":1}`, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"b", "first"))
		require.NoError(t, store.Set(ctx, prefix+"b", "second"))

		got, err := store.Get(ctx, prefix+"b")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Unicode", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"c", "GH₵ 2,500"))

		got, err := store.Get(ctx, prefix+"c")
		require.NoError(t, err)
		assert.Equal(t, "GH₵ 2,500", got)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"d", "v"))
		require.NoError(t, store.Delete(ctx, prefix+"d"))
		require.NoError(t, store.Delete(ctx, prefix+"d"))

		_, err := store.Get(ctx, prefix+"d")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})
}

// RequireDocker skips tests that need a container runtime unless STASH_TEST_DOCKER=1.
func RequireDocker(t *testing.T) {
	t.Helper()

	if os.Getenv("STASH_TEST_DOCKER") != "1" {
		t.Skip("set STASH_TEST_DOCKER=1 to run container-backed tests")
	}
}
