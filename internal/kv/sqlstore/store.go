package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/stash/internal/database"
	"github.com/MrJamesThe3rd/stash/internal/kv"
)

// Store keeps key/value pairs in the kv_entries table.
type Store struct {
	db      *sql.DB
	dialect database.Dialect
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM kv_entries WHERE key = ?`), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", kv.ErrNotFound
		}

		return "", fmt.Errorf("getting key %q: %w", key, err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, s.rebind(query), key, value); err != nil {
		return fmt.Errorf("setting key %q: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM kv_entries WHERE key = ?`), key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}

	return nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != database.Postgres {
		return query
	}

	var (
		sb  strings.Builder
		arg int
	)

	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}

		arg++
		sb.WriteString("$" + strconv.Itoa(arg))
	}

	return sb.String()
}
