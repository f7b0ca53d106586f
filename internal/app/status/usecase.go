package status

import (
	"context"
	"errors"
	"strings"

	"frostbot/internal/app/engine"
	"frostbot/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid status request")

const defaultEventLimit = 100

// LiveProvider exposes the engine's point-in-time run view.
type LiveProvider interface {
	Status() engine.StatusView
}

type UseCase struct {
	Live   LiveProvider
	Runs   ports.RunRepository
	Events ports.RoundEventRepository
}

// Execute returns the live view of the current run.
func (u UseCase) Execute(_ context.Context) (Response, error) {
	if u.Live == nil {
		return Response{}, ErrInvalidRequest
	}
	return Response{Live: u.Live.Status()}, nil
}

// History returns the persisted record and round events of a past run.
func (u UseCase) History(ctx context.Context, req HistoryRequest) (HistoryResponse, error) {
	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		return HistoryResponse{}, ErrInvalidRequest
	}
	if u.Runs == nil {
		return HistoryResponse{}, ports.ErrNotFound
	}
	run, err := u.Runs.Get(ctx, runID)
	if err != nil {
		return HistoryResponse{}, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	resp := HistoryResponse{Run: run}
	if u.Events != nil {
		events, err := u.Events.ListByRunID(ctx, runID, limit)
		if err != nil {
			return HistoryResponse{}, err
		}
		resp.Events = events
	}
	return resp, nil
}
