package minigame

import "time"

// RoundEvent is one entry in the run journal, persisted when a repository
// is wired and otherwise only logged.
type RoundEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Detail     map[string]any `json:"detail,omitempty"`
}
