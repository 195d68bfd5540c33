package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jvera71/MiniRisk/internal/model"
)

// MatchRepo archives finished matches.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// InsertFinished stores a finished match. Re-inserting the same id is a
// no-op so a retried archival cannot fail.
func (r *MatchRepo) InsertFinished(ctx context.Context, rec *model.MatchRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (id, name, creator_id, winner_id, players, turns, final_state, created_at, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Name, rec.CreatorID, nullString(rec.WinnerID), rec.Players, rec.Turns,
		[]byte(rec.FinalState), rec.CreatedAt, rec.StartedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert finished match: %w", err)
	}
	return nil
}

// FindByID returns an archived match, or nil if not found.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	var winner sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, winner_id, players, turns, final_state, created_at, started_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Name, &rec.CreatorID, &winner, &rec.Players, &rec.Turns,
		(*[]byte)(&rec.FinalState), &rec.CreatedAt, &rec.StartedAt, &rec.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	rec.WinnerID = winner.String
	return &rec, nil
}

// ListRecent returns the most recently finished matches.
func (r *MatchRepo) ListRecent(ctx context.Context, limit int) ([]model.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, creator_id, winner_id, players, turns, created_at, started_at, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}
	defer rows.Close()

	var recs []model.MatchRecord
	for rows.Next() {
		var rec model.MatchRecord
		var winner sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatorID, &winner, &rec.Players, &rec.Turns,
			&rec.CreatedAt, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		rec.WinnerID = winner.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
