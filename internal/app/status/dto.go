package status

import (
	"frostbot/internal/app/engine"
	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

type Response struct {
	Live engine.StatusView `json:"live"`
}

type HistoryRequest struct {
	RunID string
	Limit int
}

type HistoryResponse struct {
	Run    ports.RunRecord       `json:"run"`
	Events []minigame.RoundEvent `json:"events"`
}
