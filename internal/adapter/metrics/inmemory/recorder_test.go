package inmemory

import (
	"testing"

	"frostbot/internal/domain/minigame"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordDecision(minigame.DecideChop)
	r.RecordDecision(minigame.DecideChop)
	r.RecordDecision(minigame.DecideFeed)
	r.RecordRoundCompleted()
	r.RecordDoseConsumed()
	r.RecordDoseConsumed()
	r.RecordPerceptionMiss(minigame.TagBrazier)

	s := r.Snapshot()
	if s.DecisionTotal != 3 {
		t.Fatalf("expected decision total 3, got %d", s.DecisionTotal)
	}
	if s.ByDecision[string(minigame.DecideChop)] != 2 {
		t.Fatalf("expected 2 chop decisions, got %d", s.ByDecision[string(minigame.DecideChop)])
	}
	if s.RoundsCompleted != 1 {
		t.Fatalf("expected 1 round, got %d", s.RoundsCompleted)
	}
	if s.DosesConsumed != 2 {
		t.Fatalf("expected 2 doses, got %d", s.DosesConsumed)
	}
	if s.PerceptionMiss[string(minigame.TagBrazier)] != 1 {
		t.Fatalf("expected 1 brazier miss")
	}
}
