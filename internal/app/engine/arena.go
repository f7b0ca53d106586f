package engine

import (
	"context"
	"errors"
	"time"

	"frostbot/internal/app/ports"
	"frostbot/internal/config"
	"frostbot/internal/domain/minigame"
)

func (e *Engine) execute(ctx context.Context, runID string, state *minigame.RunState, decision minigame.Decision, obs minigame.Observation) error {
	switch decision.Kind {
	case minigame.DecideIdle:
		return e.Sleep(ctx, idleWait)

	case minigame.DecideWaitBusy:
		return e.Sleep(ctx, busyWait)

	case minigame.DecideChop:
		clicked, err := e.interact(ctx, minigame.TagRoots, "Chop")
		if err != nil || !clicked {
			return err
		}
		return e.waitWhileBusy(ctx, state.LastChatLine, chopTimeout)

	case minigame.DecideFletch:
		if err := e.Client.UseItemOnItem(ctx, minigame.ItemKnife, minigame.ItemBrumaRoot); err != nil {
			return err
		}
		return e.waitWhileBusy(ctx, state.LastChatLine, fletchTimeout)

	case minigame.DecideFeed:
		clicked, err := e.interact(ctx, minigame.TagBrazier, "Feed")
		if err != nil || !clicked {
			return err
		}
		return e.waitWhileBusy(ctx, state.LastChatLine, feedTimeout)

	case minigame.DecideRelight:
		e.Logger.Info("brazier went out, relighting")
		clicked, err := e.interact(ctx, minigame.TagBrazier, "Light")
		if err != nil {
			return err
		}
		if !clicked {
			// Another player may have beaten us to it; feed instead.
			clicked, err = e.interact(ctx, minigame.TagBrazier, "Feed")
			if err != nil || !clicked {
				return err
			}
		}
		return e.Sleep(ctx, settleDelay)

	case minigame.DecideRepair:
		e.Logger.Info("brazier broken, repairing")
		clicked, err := e.interact(ctx, minigame.TagBrazier, "Fix")
		if err != nil || !clicked {
			return err
		}
		return e.Sleep(ctx, missBackoff)

	case minigame.DecideSip:
		return e.consumeDose(ctx, obs)

	case minigame.DecideBrew:
		if e.Brewer == nil {
			e.Logger.Warn("resupply requested with no brewer wired, exiting instead")
			return e.exitArena(ctx)
		}
		e.Logger.Info("doses exhausted, brewing in arena")
		return e.Brewer.Refill(ctx)

	case minigame.DecideExitArena:
		return e.exitArena(ctx)

	case minigame.DecideRoundSettle:
		return e.settleRound(ctx, runID, state)
	}
	return nil
}

// interact wraps a tagged-object click with the perception-miss policy:
// log, back off, report not-clicked, and let the next tick retry the
// same goal.
func (e *Engine) interact(ctx context.Context, category minigame.TagCategory, action string) (bool, error) {
	err := e.Client.InteractObject(ctx, category, action)
	if errors.Is(err, ports.ErrNoTaggedObject) {
		e.Logger.Warn("no tagged object, re-tag needed", "category", string(category), "action", action)
		if e.Metrics != nil {
			e.Metrics.RecordPerceptionMiss(category)
		}
		return false, e.Sleep(ctx, missBackoff)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// waitWhileBusy blocks until the player goes idle, the timeout elapses,
// or a relevant chat event appears. Events are only peeked here, never
// committed to LastChatLine, so the next Advance classifies them once.
func (e *Engine) waitWhileBusy(ctx context.Context, lastSeen string, timeout time.Duration) error {
	deadline := e.Now().Add(timeout)
	for e.Now().Before(deadline) {
		if idle, err := e.Client.Idle(ctx); err == nil && idle {
			return nil
		}
		if line, err := e.Client.LatestChatLine(ctx); err == nil {
			if event, _ := minigame.ClassifyChat(line, lastSeen); event != minigame.ChatNone {
				return nil
			}
		}
		if err := e.Sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) consumeDose(ctx context.Context, obs minigame.Observation) error {
	counts, err := e.Client.InventoryCounts(ctx)
	if err != nil {
		return err
	}

	var item int
	var ok bool
	if e.Cfg.Strategy == config.StrategyBanked {
		for _, id := range minigame.FoodItems {
			if counts[id] > 0 {
				item, ok = id, true
				break
			}
		}
	} else {
		item, ok = minigame.BestDoseItem(counts)
	}
	if !ok {
		// The snapshot that triggered the sip is already stale.
		e.Logger.Warn("no consumable found at sip time")
		return e.Sleep(ctx, missBackoff)
	}

	e.Logger.Info("consuming to restore warmth", "item", item, "doses_left", obs.DosesLeft)
	if err := e.Client.ClickItem(ctx, item); err != nil {
		return err
	}
	if e.Metrics != nil {
		e.Metrics.RecordDoseConsumed()
	}
	sippedAt := e.Now()
	e.updateView(func(v *StatusView) {
		v.DosesConsumed++
		v.LastSipAt = sippedAt
	})
	return e.Sleep(ctx, 1500*time.Millisecond)
}

func (e *Engine) settleRound(ctx context.Context, runID string, state *minigame.RunState) error {
	e.Logger.Info("round complete", "rounds_completed", state.RoundsCompleted)
	if e.Metrics != nil {
		e.Metrics.RecordRoundCompleted()
	}
	e.appendEvent(ctx, runID, minigame.RoundEvent{
		Type:       "round_end",
		OccurredAt: e.Now(),
		Detail: map[string]any{
			"rounds_completed": state.RoundsCompleted,
			"damage_count":     state.DamageCount,
		},
	})
	e.saveRun(ctx, runID, e.Status().StartedAt, time.Time{}, *state, "running")

	// Let the reward crate resolve before anything else.
	if err := e.Sleep(ctx, settleDelay); err != nil {
		return err
	}

	// Proactive top-up between rounds keeps the next round fully dosed.
	if e.Brewer != nil {
		counts, err := e.Client.InventoryCounts(ctx)
		if err == nil && minigame.PotionShortfall(counts, e.Cfg.TargetPotions) > 0 {
			if err := e.Brewer.Refill(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// exitArena walks through the doors and waits for the zone to flip.
// Exceeding the bounded wait is reported but non-fatal; the next tick
// retries.
func (e *Engine) exitArena(ctx context.Context) error {
	e.Logger.Info("leaving arena")
	clicked, err := e.interact(ctx, minigame.TagDoor, "Enter")
	if err != nil || !clicked {
		return err
	}
	flipped, err := Until(ctx, passageAttempts, passageInterval, e.Sleep, func(ctx context.Context) (bool, error) {
		return !e.locate(ctx).InArena(), nil
	})
	if err != nil {
		return err
	}
	if !flipped {
		e.Logger.Warn("zone never left arena after passage click")
	}
	return nil
}
