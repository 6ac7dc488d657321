package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/stash/internal/database"
)

func TestStore_rebind(t *testing.T) {
	query := `INSERT INTO kv_entries (key, value) VALUES (?, ?)`

	pg := &Store{dialect: database.Postgres}
	assert.Equal(t, `INSERT INTO kv_entries (key, value) VALUES ($1, $2)`, pg.rebind(query))

	lite := &Store{dialect: database.SQLite}
	assert.Equal(t, query, lite.rebind(query))
}
