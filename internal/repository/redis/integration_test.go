//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jvera71/MiniRisk/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return &Client{rdb: testRDB}
}

func TestMatchStateRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	matchID := "test-match-1"

	state := json.RawMessage(`{"id":"test-match-1","turn":3,"phase":"attack"}`)

	if err := c.SetMatchState(ctx, matchID, state); err != nil {
		t.Fatalf("set match state: %v", err)
	}

	got, err := c.GetMatchState(ctx, matchID)
	if err != nil {
		t.Fatalf("get match state: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil state")
	}

	var fetched map[string]any
	json.Unmarshal(got, &fetched)
	if fetched["turn"].(float64) != 3 {
		t.Fatalf("state round-trip failed: %s", string(got))
	}
}

func TestMatchStateNotFound(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	got, err := c.GetMatchState(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("get missing state: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing match state")
	}
}

func TestMatchIndexLifecycle(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	c.SetMatchState(ctx, "m1", json.RawMessage(`{}`))
	c.SetMatchState(ctx, "m2", json.RawMessage(`{}`))

	ids, err := c.ListMatchIDs(ctx)
	if err != nil {
		t.Fatalf("list match ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 live matches, got %d", len(ids))
	}

	// Re-setting the same match is idempotent in the index.
	c.SetMatchState(ctx, "m1", json.RawMessage(`{"turn":2}`))
	ids, _ = c.ListMatchIDs(ctx)
	if len(ids) != 2 {
		t.Fatalf("expected 2 live matches after update, got %d", len(ids))
	}

	if err := c.DeleteMatchState(ctx, "m1"); err != nil {
		t.Fatalf("delete match state: %v", err)
	}
	state, _ := c.GetMatchState(ctx, "m1")
	if state != nil {
		t.Fatal("expected state deleted")
	}
	ids, _ = c.ListMatchIDs(ctx)
	if len(ids) != 1 || ids[0] != "m2" {
		t.Fatalf("expected only m2 live, got %v", ids)
	}
}
