package gormrepo

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"frostbot/internal/adapter/repo/gorm/model"
	"frostbot/internal/domain/minigame"
)

type RoundEventRepo struct {
	db *gorm.DB
}

func NewRoundEventRepo(db *gorm.DB) RoundEventRepo {
	return RoundEventRepo{db: db}
}

func (r RoundEventRepo) Append(ctx context.Context, runID string, events []minigame.RoundEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.RoundEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Detail)
		rows = append(rows, model.RoundEvent{
			RunID:      runID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Detail:     b,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r RoundEventRepo) ListByRunID(ctx context.Context, runID string, limit int) ([]minigame.RoundEvent, error) {
	rows := []model.RoundEvent{}
	query := r.db.WithContext(ctx).
		Where(&model.RoundEvent{RunID: runID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]minigame.RoundEvent, 0, len(rows))
	for _, row := range rows {
		var detail map[string]any
		if len(row.Detail) > 0 {
			_ = json.Unmarshal(row.Detail, &detail)
		}
		out = append(out, minigame.RoundEvent{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Detail:     detail,
		})
	}
	return out, nil
}
