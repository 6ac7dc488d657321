package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/identity"
	"github.com/MrJamesThe3rd/stash/internal/kv"
)

const (
	// LegacyKey held the single unkeyed document written before documents were namespaced per user.
	LegacyKey = "stash_app_data"
	keyPrefix = LegacyKey + ":"
)

// Key returns the storage key of the budget document for userKey.
func Key(userKey string) string {
	return keyPrefix + base64.RawURLEncoding.EncodeToString([]byte(identity.NormalizeEmail(userKey)))
}

// Store implements budget.Repository over a kv.Store.
type Store struct {
	kv       kv.Store
	currency string
	legacy   bool
}

type Option func(*Store)

// WithLegacyFallback makes Load fall back to the unkeyed legacy document when a user has none.
// The legacy document is only read, never migrated.
func WithLegacyFallback() Option {
	return func(s *Store) { s.legacy = true }
}

// WithDefaultCurrency sets the currency of documents created from defaults.
func WithDefaultCurrency(currency string) Option {
	return func(s *Store) { s.currency = currency }
}

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:       store,
		currency: budget.DefaultCurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load never fails on unreadable documents: they are logged and replaced by defaults.
// Only backend errors are returned.
func (s *Store) Load(ctx context.Context, userKey string) (*budget.State, error) {
	raw, err := s.read(ctx, Key(userKey))
	if err != nil {
		return nil, err
	}

	if raw == "" && s.legacy {
		if raw, err = s.read(ctx, LegacyKey); err != nil {
			return nil, err
		}
	}

	if raw == "" {
		return budget.NewState(s.currency), nil
	}

	state, err := decode(raw)
	if err != nil {
		slog.WarnContext(ctx, "replacing unreadable budget document with defaults",
			"user", userKey, "error", fmt.Errorf("%w: %w", domain.ErrStorageCorruption, err))

		return budget.NewState(s.currency), nil
	}

	state.Normalize(s.currency)

	return state, nil
}

func (s *Store) Save(ctx context.Context, state *budget.State, userKey string) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding budget: %w", err)
	}

	if err := s.kv.Set(ctx, Key(userKey), string(raw)); err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}

	return nil
}

func (s *Store) read(ctx context.Context, key string) (string, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("loading budget: %w", err)
	}

	return raw, nil
}

// document tolerates an extraIncome of any JSON type; anything but a finite number reads as zero.
type document struct {
	*budget.State
	ExtraIncome json.RawMessage `json:"extraIncome"`
}

func decode(raw string) (*budget.State, error) {
	doc := document{State: &budget.State{}}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}

	doc.State.ExtraIncome = parseExtraIncome(doc.ExtraIncome)

	return doc.State, nil
}

func parseExtraIncome(raw json.RawMessage) float64 {
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0
	}

	return f
}
