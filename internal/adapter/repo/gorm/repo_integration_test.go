package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("FROSTBOT_DB_DSN")
	if dsn == "" {
		t.Skip("FROSTBOT_DB_DSN is required for integration test")
	}
	return dsn
}

func TestRunRepo_UpsertAndGet(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	runID := "it-run-upsert"
	ctx := context.Background()
	_ = db.Exec("DELETE FROM runs WHERE run_id = ?", runID).Error

	repo := NewRunRepo(db)
	started := time.Now().UTC().Truncate(time.Second)
	if err := repo.Save(ctx, ports.RunRecord{RunID: runID, StartedAt: started, Outcome: "running"}); err != nil {
		t.Fatalf("initial save: %v", err)
	}
	if err := repo.Save(ctx, ports.RunRecord{
		RunID:           runID,
		StartedAt:       started,
		EndedAt:         started.Add(90 * time.Minute),
		RoundsCompleted: 12,
		DosesConsumed:   9,
		Outcome:         "completed",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, runID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RoundsCompleted != 12 || got.Outcome != "completed" {
		t.Fatalf("upsert did not stick: %+v", got)
	}
	if got.EndedAt.IsZero() {
		t.Fatalf("ended_at not persisted")
	}
}

func TestRunRepo_GetMissing(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := NewRunRepo(db).Get(context.Background(), "it-run-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRoundEventRepo_AppendAndList(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	runID := "it-round-events"
	ctx := context.Background()
	_ = db.Exec("DELETE FROM round_events WHERE run_id = ?", runID).Error

	repo := NewRoundEventRepo(db)
	base := time.Now().UTC().Truncate(time.Second)
	events := []minigame.RoundEvent{
		{Type: "round_end", OccurredAt: base, Detail: map[string]any{"rounds_completed": 1}},
		{Type: "round_end", OccurredAt: base.Add(5 * time.Minute), Detail: map[string]any{"rounds_completed": 2}},
	}
	if err := repo.Append(ctx, runID, events); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.ListByRunID(ctx, runID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	// Newest first.
	if !got[0].OccurredAt.After(got[1].OccurredAt) {
		t.Fatalf("expected descending order: %v then %v", got[0].OccurredAt, got[1].OccurredAt)
	}
}
