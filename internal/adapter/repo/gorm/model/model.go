package model

import "time"

type Run struct {
	RunID           string     `gorm:"primaryKey"`
	StartedAt       time.Time
	EndedAt         *time.Time
	RoundsCompleted int
	DosesConsumed   int
	Outcome         string
}

type RoundEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	RunID      string    `gorm:"index"`
	Type       string
	OccurredAt time.Time
	Detail     []byte    `gorm:"type:jsonb"`
}
