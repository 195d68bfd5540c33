package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jvera71/MiniRisk/internal/model"
)

// mockCache implements repository.StateCache for testing.
type mockCache struct {
	mu     sync.Mutex
	states map[string]json.RawMessage
	sets   int
}

func newMockCache() *mockCache {
	return &mockCache{states: make(map[string]json.RawMessage)}
}

func (c *mockCache) SetMatchState(_ context.Context, matchID string, state json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[matchID] = state
	c.sets++
	return nil
}

func (c *mockCache) GetMatchState(_ context.Context, matchID string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[matchID], nil
}

func (c *mockCache) DeleteMatchState(_ context.Context, matchID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, matchID)
	return nil
}

func (c *mockCache) ListMatchIDs(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.states))
	for id := range c.states {
		ids = append(ids, id)
	}
	return ids, nil
}

// mockArchive implements repository.MatchArchive for testing.
type mockArchive struct {
	mu   sync.Mutex
	recs map[string]*model.MatchRecord
}

func newMockArchive() *mockArchive {
	return &mockArchive{recs: make(map[string]*model.MatchRecord)}
}

func (a *mockArchive) InsertFinished(_ context.Context, rec *model.MatchRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.recs[rec.ID]; ok {
		return nil
	}
	a.recs[rec.ID] = rec
	return nil
}

func (a *mockArchive) FindByID(_ context.Context, id string) (*model.MatchRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recs[id], nil
}

func (a *mockArchive) ListRecent(_ context.Context, _ int) ([]model.MatchRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var recs []model.MatchRecord
	for _, r := range a.recs {
		recs = append(recs, *r)
	}
	return recs, nil
}
