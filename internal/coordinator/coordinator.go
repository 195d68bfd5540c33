// Package coordinator keeps the live matches in memory and serializes
// all access to each one. Every read or mutation of a match's state
// runs inside WithMatch, which holds that match's exclusive section;
// different matches proceed in parallel.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jvera71/MiniRisk/pkg/risk"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrLockTimeout   = errors.New("timed out waiting for the match lock")
)

type entry struct {
	game *risk.Game
	sem  *semaphore.Weighted
}

// Coordinator is the registry of live matches.
type Coordinator struct {
	mu       sync.RWMutex
	matches  map[string]*entry
	lockWait time.Duration
}

// New creates an empty Coordinator. lockWait bounds how long WithMatch
// waits for a match's exclusive section; zero means the caller's
// context is the only bound.
func New(lockWait time.Duration) *Coordinator {
	return &Coordinator{
		matches:  make(map[string]*entry),
		lockWait: lockWait,
	}
}

// Add registers a match. Re-adding an id replaces the previous entry.
func (c *Coordinator) Add(g *risk.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matches[g.ID] = &entry{game: g, sem: semaphore.NewWeighted(1)}
}

// Remove drops a match from the registry. Callers already inside the
// match's exclusive section may call this; removal does not interrupt
// them.
func (c *Coordinator) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.matches, id)
}

// Len returns the number of live matches.
func (c *Coordinator) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// IDs returns the ids of all live matches.
func (c *Coordinator) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.matches))
	for id := range c.matches {
		ids = append(ids, id)
	}
	return ids
}

// Get returns a live match's state without holding its exclusive
// section. Use WithMatch for anything that reads mutable state.
func (c *Coordinator) Get(id string) (*risk.Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.matches[id]
	if !ok {
		return nil, false
	}
	return e.game, true
}

// WithMatch runs fn while holding the match's exclusive section. The
// wait for the section is bounded by the configured lockWait and the
// caller's context; exceeding either returns ErrLockTimeout or the
// context's error without running fn.
func (c *Coordinator) WithMatch(ctx context.Context, id string, fn func(*risk.Game) error) error {
	c.mu.RLock()
	e, ok := c.matches[id]
	c.mu.RUnlock()
	if !ok {
		return ErrMatchNotFound
	}

	acquireCtx := ctx
	if c.lockWait > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, c.lockWait)
		defer cancel()
	}
	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		if errors.Is(acquireCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrLockTimeout
		}
		return err
	}
	defer e.sem.Release(1)

	// The match may have been removed while we waited.
	c.mu.RLock()
	_, ok = c.matches[id]
	c.mu.RUnlock()
	if !ok {
		return ErrMatchNotFound
	}

	return fn(e.game)
}
