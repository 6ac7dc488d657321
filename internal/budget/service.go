package budget

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stash/internal/identity"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	// Load returns the document stored for userKey, or a default document when there is none.
	Load(ctx context.Context, userKey string) (*State, error)
	Save(ctx context.Context, state *State, userKey string) error
}

// Service hands out one Controller per user so writes to a document are serialized.
type Service struct {
	repo Repository
	now  func() time.Time

	mu          sync.Mutex
	controllers map[string]*Controller
}

type ServiceOption func(*Service)

// WithClock replaces time.Now for timestamps on expenses and notifications.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:        repo,
		now:         time.Now,
		controllers: make(map[string]*Controller),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open returns the controller for the session's user, loading the document on first use.
// The profile name follows the session name.
func (s *Service) Open(ctx context.Context, session *identity.Session) (*Controller, error) {
	key := identity.NormalizeEmail(session.Email)
	if key == "" {
		return nil, fmt.Errorf("open budget: empty session email")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[key]; ok {
		return c, nil
	}

	state, err := s.repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open budget: %w", err)
	}

	if session.Name != "" {
		state.Profile.Name = session.Name
	}

	c := &Controller{
		repo:  s.repo,
		key:   key,
		now:   s.now,
		state: state,
	}
	s.controllers[key] = c

	return c, nil
}

// Release forgets the controller of email. The next Open reloads from the repository.
func (s *Service) Release(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.controllers, identity.NormalizeEmail(email))
}

// Controller holds one user's document and persists it after every mutation.
// A mutation is applied to a copy, saved, and only then made visible; a failed save changes nothing.
type Controller struct {
	repo Repository
	key  string
	now  func() time.Time

	mu    sync.Mutex
	state *State
}

func (c *Controller) UserKey() string {
	return c.key
}

// State returns a copy of the current document.
func (c *Controller) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Clone()
}

func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Summary()
}

// mutate applies fn to a copy of the state. fn reports whether anything changed; unchanged copies are not saved.
func (c *Controller) mutate(ctx context.Context, fn func(s *State) (bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()

	changed, err := fn(next)
	if err != nil || !changed {
		return err
	}

	if err := c.repo.Save(ctx, next, c.key); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}

	c.state = next

	return nil
}

func (c *Controller) notification(title, message string, typ NotificationType) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      typ,
		Timestamp: c.timestamp(),
	}
}

func (c *Controller) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

func blankTo(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}

	return s
}
