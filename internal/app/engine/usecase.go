package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"frostbot/internal/app/ports"
	"frostbot/internal/config"
	"frostbot/internal/domain/minigame"
)

// ErrOutOfSupplies is fatal: the survival resource ran out with no
// recovery path left (outside the arena, bank empty).
var ErrOutOfSupplies = errors.New("survival supplies exhausted")

const (
	pollInterval = 600 * time.Millisecond
	idleWait     = 2 * time.Second
	busyWait     = time.Second
	missBackoff  = 2 * time.Second
	settleDelay  = 3 * time.Second

	chopTimeout   = 15 * time.Second
	fletchTimeout = 30 * time.Second
	feedTimeout   = 30 * time.Second

	passageAttempts = 10
	passageInterval = time.Second
)

// Brewer refills the potion supply in-arena. Nil when the banked
// strategy is selected.
type Brewer interface {
	Refill(ctx context.Context) error
}

// Engine is the single driver of the game client: one decision per
// tick, all actuation serialized through its loop. Repositories and
// metrics are optional and skipped when nil.
type Engine struct {
	Client  ports.GameClient
	Cfg     config.Config
	Brewer  Brewer
	Runs    ports.RunRepository
	Events  ports.RoundEventRepository
	Metrics ports.RunMetrics
	Logger  *slog.Logger
	Now     func() time.Time
	Sleep   SleepFunc

	mu   sync.Mutex
	view StatusView
}

// StatusView is a point-in-time copy of the run for the ops surface.
// The engine mutates it under its own lock; readers always get a copy.
type StatusView struct {
	RunID           string                `json:"run_id"`
	StartedAt       time.Time             `json:"started_at"`
	Zone            minigame.Zone         `json:"zone"`
	Phase           minigame.RoundPhase   `json:"phase"`
	RoundsCompleted int                   `json:"rounds_completed"`
	DamageCount     int                   `json:"damage_count"`
	DosesLeft       int                   `json:"doses_left"`
	DosesConsumed   int                   `json:"doses_consumed"`
	LastSipAt       time.Time             `json:"last_sip_at"`
	LastDecision    minigame.DecisionKind `json:"last_decision"`
}

func (e *Engine) Status() StatusView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

func (e *Engine) setDefaults() {
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Sleep == nil {
		e.Sleep = sleepCtx
	}
}

// Run drives the loop until the wall-clock budget elapses, the context
// is cancelled, or supplies run out with no recovery path.
func (e *Engine) Run(ctx context.Context) error {
	e.setDefaults()

	start := e.Now()
	runID := fmt.Sprintf("run-%d", start.Unix())
	deadline := start.Add(e.Cfg.RunBudget())
	state := minigame.NewRunState()

	e.mu.Lock()
	e.view = StatusView{RunID: runID, StartedAt: start, Zone: minigame.ZoneUnknown, Phase: state.Phase}
	e.mu.Unlock()
	e.saveRun(ctx, runID, start, time.Time{}, state, "running")

	e.Logger.Info("run started", "run_id", runID, "budget_minutes", e.Cfg.RunMinutes, "strategy", string(e.Cfg.Strategy))

	var runErr error
	for e.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		next, err := e.tick(ctx, runID, state)
		state = next
		if err != nil {
			if errors.Is(err, ErrOutOfSupplies) || ctx.Err() != nil {
				runErr = err
				break
			}
			// Everything else is a transient: log, back off, repeat the
			// same goal next tick.
			e.Logger.Warn("tick recovered", "error", err)
			if serr := e.Sleep(ctx, missBackoff); serr != nil {
				runErr = serr
				break
			}
		}
	}

	outcome := "completed"
	if runErr != nil {
		outcome = runErr.Error()
	}
	e.saveRun(ctx, runID, start, e.Now(), state, outcome)
	e.Logger.Info("run finished", "run_id", runID, "rounds_completed", state.RoundsCompleted, "outcome", outcome)
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		return nil
	}
	return runErr
}

func (e *Engine) tick(ctx context.Context, runID string, state minigame.RunState) (minigame.RunState, error) {
	zone := e.locate(ctx)
	e.updateView(func(v *StatusView) {
		v.Zone = zone
		v.Phase = state.Phase
		v.RoundsCompleted = state.RoundsCompleted
		v.DamageCount = state.DamageCount
	})

	if !zone.InArena() {
		return state, e.handleSafeArea(ctx)
	}

	obs, err := e.observe(ctx, state)
	if err != nil {
		return state, err
	}
	e.updateView(func(v *StatusView) { v.DosesLeft = obs.DosesLeft })

	next, decision := minigame.Advance(state, obs, e.Now(), e.transitionCfg())
	if e.Metrics != nil {
		e.Metrics.RecordDecision(decision.Kind)
	}
	e.updateView(func(v *StatusView) {
		v.Phase = next.Phase
		v.DamageCount = next.DamageCount
		v.RoundsCompleted = next.RoundsCompleted
		v.LastDecision = decision.Kind
	})

	if err := e.execute(ctx, runID, &next, decision, obs); err != nil {
		return next, err
	}

	if e.Cfg.TakeBreaks && next.Phase != minigame.PhaseRoundActive && rand.Float64() < 0.02 {
		pause := time.Duration(5+rand.IntN(10)) * time.Second
		e.Logger.Info("taking a short break", "seconds", int(pause.Seconds()))
		if err := e.Sleep(ctx, pause); err != nil {
			return next, err
		}
	}
	return next, nil
}

// locate never errors: a failed region read is ZoneUnknown, which the
// caller treats as not-in-arena.
func (e *Engine) locate(ctx context.Context) minigame.Zone {
	regionID, err := e.Client.RegionID(ctx)
	if err != nil {
		e.Logger.Debug("region query failed", "error", err)
		return minigame.ZoneUnknown
	}
	return minigame.ZoneForRegion(regionID)
}

func (e *Engine) observe(ctx context.Context, state minigame.RunState) (minigame.Observation, error) {
	counts, err := e.Client.InventoryCounts(ctx)
	if err != nil {
		// One bad inventory sample must never corrupt phase; skip the tick.
		return minigame.Observation{}, fmt.Errorf("inventory query: %w", err)
	}

	obs := minigame.Observation{
		DosesLeft:   e.dosesLeft(counts),
		HasRoot:     counts[minigame.ItemBrumaRoot] > 0,
		HasKindling: counts[minigame.ItemBrumaKindling] > 0,
	}

	if line, err := e.Client.LatestChatLine(ctx); err == nil {
		obs.ChatLine = line
	}
	if full, err := e.Client.InventoryFull(ctx); err == nil {
		obs.InventoryFull = full
	}
	if idle, err := e.Client.Idle(ctx); err == nil {
		obs.Idle = idle
	} else {
		obs.Idle = true
	}

	// Visual round-start fallback is only consulted while waiting.
	if state.Phase == minigame.PhaseAwaitingRound {
		obs.HazardVisible = e.anyTagged(ctx, minigame.TagBrazier) || e.anyTagged(ctx, minigame.TagRoots)
	}
	return obs, nil
}

func (e *Engine) anyTagged(ctx context.Context, category minigame.TagCategory) bool {
	objs, err := e.Client.TaggedObjects(ctx, category)
	return err == nil && len(objs) > 0
}

func (e *Engine) dosesLeft(counts map[int]int) int {
	if e.Cfg.Strategy == config.StrategyBanked {
		total := 0
		for _, id := range minigame.FoodItems {
			total += counts[id]
		}
		return total
	}
	return minigame.TotalDoses(counts)
}

func (e *Engine) transitionCfg() minigame.TransitionConfig {
	return minigame.TransitionConfig{
		DamageThreshold: e.Cfg.DamageThreshold,
		DoseLowWater:    e.Cfg.DoseLowWater,
		RespawnInterval: e.Cfg.RespawnInterval(),
		RespawnMargin:   e.Cfg.RespawnMargin(),
		FletchRoots:     e.Cfg.FletchRoots,
		ResupplyInArena: e.Cfg.Strategy == config.StrategyBrewed,
	}
}

func (e *Engine) updateView(mutate func(*StatusView)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate(&e.view)
}

func (e *Engine) saveRun(ctx context.Context, runID string, started, ended time.Time, state minigame.RunState, outcome string) {
	if e.Runs == nil {
		return
	}
	e.mu.Lock()
	consumed := e.view.DosesConsumed
	e.mu.Unlock()
	record := ports.RunRecord{
		RunID:           runID,
		StartedAt:       started,
		EndedAt:         ended,
		RoundsCompleted: state.RoundsCompleted,
		DosesConsumed:   consumed,
		Outcome:         outcome,
	}
	if err := e.Runs.Save(ctx, record); err != nil {
		e.Logger.Warn("run record save failed", "error", err)
	}
}

func (e *Engine) appendEvent(ctx context.Context, runID string, event minigame.RoundEvent) {
	if e.Events == nil {
		return
	}
	if err := e.Events.Append(ctx, runID, []minigame.RoundEvent{event}); err != nil {
		e.Logger.Warn("round event append failed", "error", err)
	}
}
