package engine

import (
	"context"
	"errors"
	"fmt"

	"frostbot/internal/app/ports"
	"frostbot/internal/config"
	"frostbot/internal/domain/minigame"
)

// handleSafeArea runs one staging-area tick: clear loot first, then
// restock the banked consumable, then head back through the doors.
func (e *Engine) handleSafeArea(ctx context.Context) error {
	counts, err := e.Client.InventoryCounts(ctx)
	if err != nil {
		return fmt.Errorf("inventory query: %w", err)
	}

	if hasLoot(counts, minigame.ProtectedItems(e.Cfg.FletchRoots)) {
		return e.depositLoot(ctx)
	}

	if e.Cfg.Strategy == config.StrategyBanked {
		if held := e.dosesLeft(counts); held < e.Cfg.FoodCount {
			return e.restockFood(ctx, e.Cfg.FoodCount-held)
		}
	}

	return e.enterArena(ctx)
}

func hasLoot(counts map[int]int, protected map[int]bool) bool {
	for item, count := range counts {
		if count > 0 && !protected[item] {
			return true
		}
	}
	return false
}

func (e *Engine) depositLoot(ctx context.Context) error {
	e.Logger.Info("depositing loot")
	opened, err := e.openBank(ctx)
	if err != nil || !opened {
		return err
	}
	if err := e.Client.DepositInventory(ctx); err != nil {
		return err
	}
	if err := e.Client.CloseBank(ctx); err != nil {
		return err
	}
	return e.Sleep(ctx, busyWait)
}

// restockFood withdraws the configured consumable. An empty search
// result means the bank has nothing left to give: that is the one
// unrecoverable exhaustion, and it stops the run.
func (e *Engine) restockFood(ctx context.Context, needed int) error {
	e.Logger.Info("restocking food", "name", e.Cfg.FoodName, "count", needed)
	opened, err := e.openBank(ctx)
	if err != nil || !opened {
		return err
	}
	rows, err := e.Client.SearchBank(ctx, e.Cfg.FoodName)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_ = e.Client.CloseBank(ctx)
		return fmt.Errorf("%w: no %q in bank", ErrOutOfSupplies, e.Cfg.FoodName)
	}
	if err := e.Client.WithdrawSlot(ctx, rows[0].Slot, needed); err != nil {
		return err
	}
	if err := e.Client.CloseBank(ctx); err != nil {
		return err
	}

	counts, err := e.Client.InventoryCounts(ctx)
	if err == nil && e.dosesLeft(counts) == 0 {
		e.Logger.Warn("could not verify food was withdrawn")
	}
	return e.Sleep(ctx, busyWait)
}

func (e *Engine) openBank(ctx context.Context) (bool, error) {
	err := e.Client.OpenBank(ctx)
	if errors.Is(err, ports.ErrNoTaggedObject) {
		e.Logger.Warn("no tagged bank chest, re-tag needed")
		if e.Metrics != nil {
			e.Metrics.RecordPerceptionMiss(minigame.TagBank)
		}
		return false, e.Sleep(ctx, missBackoff)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// enterArena clicks the doors and waits for the zone to flip to arena,
// bounded. Failure is logged and retried on the next tick.
func (e *Engine) enterArena(ctx context.Context) error {
	e.Logger.Info("entering arena")
	clicked, err := e.interact(ctx, minigame.TagDoor, "Enter")
	if err != nil || !clicked {
		return err
	}
	flipped, err := Until(ctx, passageAttempts, passageInterval, e.Sleep, func(ctx context.Context) (bool, error) {
		return e.locate(ctx).InArena(), nil
	})
	if err != nil {
		return err
	}
	if !flipped {
		e.Logger.Warn("zone never flipped to arena after passage click")
	}
	return nil
}
