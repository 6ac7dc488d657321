package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/identity"
	"github.com/MrJamesThe3rd/stash/internal/kv"
	"github.com/MrJamesThe3rd/stash/internal/matching"
)

const keyPrefix = "stash_rules:"

func Key(userKey string) string {
	return keyPrefix + base64.RawURLEncoding.EncodeToString([]byte(identity.NormalizeEmail(userKey)))
}

// Store keeps each user's rules as one JSON array, oldest first.
type Store struct {
	kv kv.Store
	mu sync.Mutex
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// FindMatch picks the longest pattern contained in description; among equal lengths the newest rule wins.
func (s *Store) FindMatch(ctx context.Context, userKey, description string) (budget.Category, error) {
	rules, err := s.load(ctx, userKey)
	if err != nil {
		return "", fmt.Errorf("finding match: %w", err)
	}

	desc := strings.ToLower(description)

	var best *matching.Rule

	for i := range rules {
		r := &rules[i]
		if !strings.Contains(desc, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || len(r.Pattern) >= len(best.Pattern) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.Category, nil
}

// CreateRule appends rule, replacing an existing rule with the same pattern.
func (s *Store) CreateRule(ctx context.Context, userKey string, rule matching.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load(ctx, userKey)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	kept := rules[:0]
	for _, r := range rules {
		if !strings.EqualFold(r.Pattern, rule.Pattern) {
			kept = append(kept, r)
		}
	}

	raw, err := json.Marshal(append(kept, rule))
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	if err := s.kv.Set(ctx, Key(userKey), string(raw)); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context, userKey string) ([]matching.Rule, error) {
	rules, err := s.load(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}

	return rules, nil
}

func (s *Store) load(ctx context.Context, userKey string) ([]matching.Rule, error) {
	raw, err := s.kv.Get(ctx, Key(userKey))
	if errors.Is(err, kv.ErrNotFound) {
		return []matching.Rule{}, nil
	}

	if err != nil {
		return nil, err
	}

	var rules []matching.Rule
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		slog.WarnContext(ctx, "ignoring unreadable category rules", "user", userKey, "error", domain.ErrStorageCorruption)
		return []matching.Rule{}, nil
	}

	return rules, nil
}
