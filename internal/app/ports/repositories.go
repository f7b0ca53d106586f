package ports

import (
	"context"
	"time"

	"frostbot/internal/domain/minigame"
)

// RunRecord summarizes one bot run. Saved at start and updated as the
// run progresses; persistence is optional and nil-safe in the engine.
type RunRecord struct {
	RunID           string
	StartedAt       time.Time
	EndedAt         time.Time
	RoundsCompleted int
	DosesConsumed   int
	Outcome         string
}

type RunRepository interface {
	Save(ctx context.Context, record RunRecord) error
	Get(ctx context.Context, runID string) (RunRecord, error)
}

type RoundEventRepository interface {
	Append(ctx context.Context, runID string, events []minigame.RoundEvent) error
	ListByRunID(ctx context.Context, runID string, limit int) ([]minigame.RoundEvent, error)
}
