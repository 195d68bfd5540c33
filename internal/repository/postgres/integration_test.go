//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/jvera71/MiniRisk/internal/model"
	"github.com/jvera71/MiniRisk/internal/testutil"
)

var testDB *sql.DB

func setup(t *testing.T) {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
}

func testRecord(id string) *model.MatchRecord {
	created := time.Now().UTC().Add(-time.Hour)
	started := created.Add(time.Minute)
	return &model.MatchRecord{
		ID:         id,
		Name:       "archived match",
		CreatorID:  "creator-1",
		WinnerID:   "winner-1",
		Players:    3,
		Turns:      42,
		FinalState: json.RawMessage(`{"Turn":42}`),
		CreatedAt:  created,
		StartedAt:  &started,
		FinishedAt: time.Now().UTC(),
	}
}

func TestInsertAndFindFinished(t *testing.T) {
	setup(t)
	repo := NewMatchRepo(testDB)
	ctx := context.Background()

	rec := testRecord("11111111-1111-1111-1111-111111111111")
	if err := repo.InsertFinished(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("expected archived match")
	}
	if got.WinnerID != "winner-1" || got.Turns != 42 || got.Players != 3 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.FinalState) == 0 {
		t.Fatal("expected final state blob")
	}
}

func TestInsertFinishedIdempotent(t *testing.T) {
	setup(t)
	repo := NewMatchRepo(testDB)
	ctx := context.Background()

	rec := testRecord("22222222-2222-2222-2222-222222222222")
	if err := repo.InsertFinished(ctx, rec); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := repo.InsertFinished(ctx, rec); err != nil {
		t.Fatalf("retried insert: %v", err)
	}
}

func TestFindMissingMatch(t *testing.T) {
	setup(t)
	repo := NewMatchRepo(testDB)

	got, err := repo.FindByID(context.Background(), "33333333-3333-3333-3333-333333333333")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing match")
	}
}

func TestListRecentOrdersByFinish(t *testing.T) {
	setup(t)
	repo := NewMatchRepo(testDB)
	ctx := context.Background()

	older := testRecord("44444444-4444-4444-4444-444444444444")
	older.FinishedAt = time.Now().UTC().Add(-time.Hour)
	newer := testRecord("55555555-5555-5555-5555-555555555555")
	newer.FinishedAt = time.Now().UTC()

	repo.InsertFinished(ctx, older)
	repo.InsertFinished(ctx, newer)

	recs, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(recs))
	}
	if recs[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %s", recs[0].ID)
	}
}
