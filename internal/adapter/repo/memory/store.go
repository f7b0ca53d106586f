package memory

import (
	"sync"

	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

// Store backs the in-memory repositories used in tests and DSN-less
// deployments.
type Store struct {
	mu     sync.RWMutex
	runs   map[string]ports.RunRecord
	events map[string][]minigame.RoundEvent
}

func NewStore() *Store {
	return &Store{
		runs:   make(map[string]ports.RunRecord),
		events: make(map[string][]minigame.RoundEvent),
	}
}
