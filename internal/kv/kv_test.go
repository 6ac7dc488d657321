package kv_test

import (
	"testing"

	"github.com/MrJamesThe3rd/stash/internal/kv"
	"github.com/MrJamesThe3rd/stash/internal/kv/kvtest"
)

func TestMemory(t *testing.T) {
	kvtest.Run(t, kv.NewMemory(), "mem:")
}
