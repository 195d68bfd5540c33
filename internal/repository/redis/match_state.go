package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key patterns for live match state.
func stateKey(matchID string) string { return "match:" + matchID + ":state" }

const indexKey = "matches:live"

// SetMatchState stores the latest match state snapshot and indexes the
// match as live.
func (c *Client) SetMatchState(ctx context.Context, matchID string, state json.RawMessage) error {
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, stateKey(matchID), []byte(state), 0)
	pipe.SAdd(ctx, indexKey, matchID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set match state: %w", err)
	}
	return nil
}

// GetMatchState retrieves the latest snapshot, or nil if none exists.
func (c *Client) GetMatchState(ctx context.Context, matchID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match state: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteMatchState removes a match's snapshot and index entry, called
// when the match finishes and moves to the archive.
func (c *Client) DeleteMatchState(ctx context.Context, matchID string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, stateKey(matchID))
	pipe.SRem(ctx, indexKey, matchID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete match state: %w", err)
	}
	return nil
}

// ListMatchIDs returns the ids of all matches with a live snapshot.
func (c *Client) ListMatchIDs(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list match ids: %w", err)
	}
	return ids, nil
}
