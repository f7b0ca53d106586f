package memory

import (
	"context"

	"frostbot/internal/domain/minigame"
)

type RoundEventRepo struct {
	store *Store
}

func NewRoundEventRepo(store *Store) RoundEventRepo {
	return RoundEventRepo{store: store}
}

func (r RoundEventRepo) Append(_ context.Context, runID string, events []minigame.RoundEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[runID] = append(r.store.events[runID], events...)
	return nil
}

// ListByRunID returns newest first, matching the persistent adapter.
func (r RoundEventRepo) ListByRunID(_ context.Context, runID string, limit int) ([]minigame.RoundEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored := r.store.events[runID]
	out := make([]minigame.RoundEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
