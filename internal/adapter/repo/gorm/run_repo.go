package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"frostbot/internal/adapter/repo/gorm/model"
	"frostbot/internal/app/ports"
)

type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) RunRepo {
	return RunRepo{db: db}
}

// Save upserts on run id: the engine writes the same record at start,
// after every round, and once more at the end.
func (r RunRepo) Save(ctx context.Context, record ports.RunRecord) error {
	row := model.Run{
		RunID:           record.RunID,
		StartedAt:       record.StartedAt,
		RoundsCompleted: record.RoundsCompleted,
		DosesConsumed:   record.DosesConsumed,
		Outcome:         record.Outcome,
	}
	if !record.EndedAt.IsZero() {
		ended := record.EndedAt
		row.EndedAt = &ended
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (r RunRepo) Get(ctx context.Context, runID string) (ports.RunRecord, error) {
	var row model.Run
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RunRecord{}, ports.ErrNotFound
		}
		return ports.RunRecord{}, err
	}
	record := ports.RunRecord{
		RunID:           row.RunID,
		StartedAt:       row.StartedAt,
		RoundsCompleted: row.RoundsCompleted,
		DosesConsumed:   row.DosesConsumed,
		Outcome:         row.Outcome,
	}
	if row.EndedAt != nil {
		record.EndedAt = *row.EndedAt
	}
	return record, nil
}
