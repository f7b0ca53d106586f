package ports

import "frostbot/internal/domain/minigame"

// RunMetrics collects per-run counters for the ops surface.
type RunMetrics interface {
	RecordDecision(kind minigame.DecisionKind)
	RecordRoundCompleted()
	RecordDoseConsumed()
	RecordPerceptionMiss(category minigame.TagCategory)
}
