package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/kv"
)

// Store keeps the users collection and the session record in a kv.Store.
type Store struct {
	kv            kv.Store
	hasher        Hasher
	sessionRecord bool

	// mu serializes read-modify-write cycles on the users collection.
	mu sync.Mutex
}

type Option func(*Store)

// WithoutSessionRecord stops Register and Login from persisting the fixed session record.
// Surfaces that carry the session elsewhere (bearer tokens) use it.
func WithoutSessionRecord() Option {
	return func(s *Store) { s.sessionRecord = false }
}

func NewStore(store kv.Store, hasher Hasher, opts ...Option) *Store {
	s := &Store{
		kv:            store,
		hasher:        hasher,
		sessionRecord: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register creates an account and starts a session for it.
// Returns a *domain.ValidationError for missing fields or a short password and
// domain.ErrDuplicateAccount if the normalized email is taken.
func (s *Store) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	var v domain.Validator
	v.Check(name != "", "name", "required")
	v.Check(email != "", "email", "required")

	switch {
	case password == "":
		v.Add("password", "required")
	case PasswordLength(password) < MinPasswordLength:
		v.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	if _, exists := users[email]; exists {
		return nil, domain.ErrDuplicateAccount
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	users[email] = User{Email: email, Name: name, PasswordHash: hash}
	if err := s.saveUsers(ctx, users); err != nil {
		return nil, err
	}

	session := &Session{Email: email, Name: name}
	if err := s.setSession(ctx, session); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "email", email)

	return session, nil
}

// Login authenticates an existing account and starts a session.
// Returns domain.ErrNotFound for an unknown email and domain.ErrAuthentication for a wrong
// password; in both cases the persisted session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)

	var v domain.Validator
	v.Check(email != "", "email", "required")
	v.Check(password != "", "password", "required")

	if err := v.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}

	match, weak := verifyPassword(user.PasswordHash, password)
	if !match {
		return nil, domain.ErrAuthentication
	}

	if weak {
		s.upgradeHash(ctx, users, user, password)
	}

	session := &Session{Email: user.Email, Name: user.Name}
	if err := s.setSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// upgradeHash replaces a legacy hash after a successful login. Failure is logged, not returned:
// the user is authenticated either way.
func (s *Store) upgradeHash(ctx context.Context, users map[string]User, user User, password string) {
	slog.WarnContext(ctx, "account uses the legacy fallback password hash", "email", user.Email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade password hash", "email", user.Email, "error", err)
		return
	}

	user.PasswordHash = hash
	users[user.Email] = user

	if err := s.saveUsers(ctx, users); err != nil {
		slog.ErrorContext(ctx, "failed to upgrade password hash", "email", user.Email, "error", err)
	}
}

// Logout clears the session record. Clearing an absent record is not an error.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// GetSession returns the persisted session, or nil if it is absent or unreadable.
func (s *Store) GetSession(ctx context.Context) *Session {
	raw, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.WarnContext(ctx, "failed to read session", "error", err)
		}

		return nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.Email == "" {
		slog.WarnContext(ctx, "ignoring unreadable session record", "error", domain.ErrStorageCorruption)
		return nil
	}

	return &session
}

func (s *Store) setSession(ctx context.Context, session *Session) error {
	if !s.sessionRecord {
		return nil
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.kv.Set(ctx, SessionKey, string(raw)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	return nil
}

// loadUsers reads the users collection keyed by email. The JSON array form written by older
// clients is accepted. An unreadable collection is treated as empty.
func (s *Store) loadUsers(ctx context.Context) (map[string]User, error) {
	raw, err := s.kv.Get(ctx, UsersKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return make(map[string]User), nil
		}

		return nil, fmt.Errorf("loading users: %w", err)
	}

	users := make(map[string]User)
	if err := json.Unmarshal([]byte(raw), &users); err == nil {
		return users, nil
	}

	var list []User
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		slog.WarnContext(ctx, "ignoring unreadable users collection", "error", domain.ErrStorageCorruption)
		return make(map[string]User), nil
	}

	for _, u := range list {
		users[NormalizeEmail(u.Email)] = u
	}

	return users, nil
}

func (s *Store) saveUsers(ctx context.Context, users map[string]User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}

	if err := s.kv.Set(ctx, UsersKey, string(raw)); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}

	return nil
}
