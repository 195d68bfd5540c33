package repository

import (
	"context"
	"encoding/json"

	"github.com/jvera71/MiniRisk/internal/model"
)

// MatchArchive defines durable storage for finished matches (Postgres).
type MatchArchive interface {
	InsertFinished(ctx context.Context, rec *model.MatchRecord) error
	FindByID(ctx context.Context, id string) (*model.MatchRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.MatchRecord, error)
}

// StateCache defines live match state snapshot operations (Redis).
// Snapshots let a restarted process or an external reader observe the
// last broadcast state; the in-memory registry remains authoritative.
type StateCache interface {
	SetMatchState(ctx context.Context, matchID string, state json.RawMessage) error
	GetMatchState(ctx context.Context, matchID string) (json.RawMessage, error)
	DeleteMatchState(ctx context.Context, matchID string) error
	ListMatchIDs(ctx context.Context) ([]string, error)
}
