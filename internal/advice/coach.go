package advice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/stash/internal/budget"
)

// Coach keeps the latest advice per user. Concurrent asks for one user share a single request, and a
// response is dropped if the user's advice was discarded while it was in flight.
type Coach struct {
	advisor Advisor
	group   singleflight.Group

	mu    sync.Mutex
	users map[string]*session
}

type session struct {
	generation uint64
	inFlight   int
	latest     *Advice
}

func NewCoach(advisor Advisor) *Coach {
	return &Coach{
		advisor: advisor,
		users:   make(map[string]*session),
	}
}

// Ask requests advice for state and returns it, or nil when none is available. Failures are logged only.
func (c *Coach) Ask(ctx context.Context, userKey string, state *budget.State) *Advice {
	snapshot := NewSnapshot(state)
	gen := c.generation(userKey)

	// Asks after a Discard start a new call instead of joining the invalidated one.
	v, _, _ := c.group.Do(fmt.Sprintf("%s#%d", userKey, gen), func() (any, error) {
		c.begin(userKey)

		advice, err := c.advisor.Advise(context.WithoutCancel(ctx), snapshot)
		if err != nil {
			slog.WarnContext(ctx, "advice unavailable", "user", userKey, "error", err)
		}

		if !c.finish(userKey, gen, advice) {
			return nil, nil
		}

		return advice, nil
	})

	advice, _ := v.(*Advice)

	return advice
}

// Latest returns the most recent advice for userKey, or nil.
func (c *Coach) Latest(userKey string) *Advice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.users[userKey]; ok {
		return s.latest
	}

	return nil
}

// Busy reports whether a request for userKey is in flight.
func (c *Coach) Busy(userKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.users[userKey]

	return ok && s.inFlight > 0
}

// Discard forgets the advice for userKey and invalidates any request in flight.
func (c *Coach) Discard(userKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.user(userKey)
	s.generation++
	s.latest = nil
}

func (c *Coach) generation(userKey string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.user(userKey).generation
}

func (c *Coach) begin(userKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user(userKey).inFlight++
}

// finish records advice if gen is still current and reports whether it was.
func (c *Coach) finish(userKey string, gen uint64, advice *Advice) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.user(userKey)
	s.inFlight--

	if s.generation != gen {
		return false
	}

	s.latest = advice

	return true
}

func (c *Coach) user(userKey string) *session {
	s, ok := c.users[userKey]
	if !ok {
		s = &session{}
		c.users[userKey] = s
	}

	return s
}
