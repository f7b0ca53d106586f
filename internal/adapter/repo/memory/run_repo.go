package memory

import (
	"context"

	"frostbot/internal/app/ports"
)

type RunRepo struct {
	store *Store
}

func NewRunRepo(store *Store) RunRepo {
	return RunRepo{store: store}
}

func (r RunRepo) Save(_ context.Context, record ports.RunRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.runs[record.RunID] = record
	return nil
}

func (r RunRepo) Get(_ context.Context, runID string) (ports.RunRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.runs[runID]
	if !ok {
		return ports.RunRecord{}, ports.ErrNotFound
	}
	return record, nil
}
