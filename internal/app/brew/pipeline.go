package brew

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"frostbot/internal/app/engine"
	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

const (
	settleAttempts = 5
	settleInterval = 600 * time.Millisecond

	// The combine action auto-pairs the whole batch; the wait scales
	// with how many pairs it has to work through.
	combinePerUnit = 1200 * time.Millisecond
)

// Pipeline restores the potion supply without leaving the arena: pull
// unfinished containers from the supply crate, pick herbs from the
// sprouting roots, combine, re-count. Each stage is a no-op when its
// precondition is already met, so a partially completed refill resumes
// where it stopped.
type Pipeline struct {
	Client        ports.GameClient
	Logger        *slog.Logger
	TargetPotions int
	Sleep         engine.SleepFunc
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Pipeline) sleep() engine.SleepFunc {
	if p.Sleep == nil {
		return func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		}
	}
	return p.Sleep
}

// Refill tops the supply up to the configured potion target. Safe to
// call with a full supply; it returns immediately.
func (p *Pipeline) Refill(ctx context.Context) error {
	counts, err := p.Client.InventoryCounts(ctx)
	if err != nil {
		return fmt.Errorf("inventory query: %w", err)
	}
	shortfall := minigame.PotionShortfall(counts, p.TargetPotions)
	if shortfall == 0 {
		return nil
	}
	p.logger().Info("refilling potion supply", "shortfall", shortfall, "target", p.TargetPotions)

	containers, err := p.acquireContainers(ctx, shortfall)
	if err != nil {
		return err
	}
	if err := p.harvestHerbs(ctx, min(containers, shortfall)); err != nil {
		return err
	}
	return p.combine(ctx)
}

// acquireContainers takes unfinished potions from the crate until the
// shortfall is covered. Returns how many are on hand afterwards.
func (p *Pipeline) acquireContainers(ctx context.Context, shortfall int) (int, error) {
	for attempt := 0; attempt < shortfall+2; attempt++ {
		counts, err := p.Client.InventoryCounts(ctx)
		if err != nil {
			return 0, fmt.Errorf("inventory query: %w", err)
		}
		held := counts[minigame.ItemPotionUnfinished]
		if held >= shortfall {
			return held, nil
		}
		if err := p.Client.InteractObject(ctx, minigame.TagCrate, "Take"); err != nil {
			return held, fmt.Errorf("take container: %w", err)
		}
		if err := p.waitSettled(ctx); err != nil {
			return held, err
		}
	}
	counts, err := p.Client.InventoryCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("inventory query: %w", err)
	}
	return counts[minigame.ItemPotionUnfinished], nil
}

// harvestHerbs picks one herb per attempt until needed are held. The
// sprouting roots despawn mid-round, so a miss aborts this refill and
// the next invocation picks up the slack.
func (p *Pipeline) harvestHerbs(ctx context.Context, needed int) error {
	if needed <= 0 {
		return nil
	}
	for attempt := 0; attempt < needed+2; attempt++ {
		counts, err := p.Client.InventoryCounts(ctx)
		if err != nil {
			return fmt.Errorf("inventory query: %w", err)
		}
		if counts[minigame.ItemBrumaHerb] >= needed {
			return nil
		}
		if err := p.Client.InteractObject(ctx, minigame.TagSprouting, "Pick"); err != nil {
			return fmt.Errorf("pick herb: %w", err)
		}
		if err := p.waitSettled(ctx); err != nil {
			return err
		}
	}
	return nil
}

// combine pairs herbs with containers. One click covers the batch; the
// client auto-pairs every matching unit.
func (p *Pipeline) combine(ctx context.Context) error {
	counts, err := p.Client.InventoryCounts(ctx)
	if err != nil {
		return fmt.Errorf("inventory query: %w", err)
	}
	batch := min(counts[minigame.ItemBrumaHerb], counts[minigame.ItemPotionUnfinished])
	if batch == 0 {
		return nil
	}
	if err := p.Client.UseItemOnItem(ctx, minigame.ItemBrumaHerb, minigame.ItemPotionUnfinished); err != nil {
		return fmt.Errorf("combine: %w", err)
	}
	if err := p.sleep()(ctx, time.Duration(batch)*combinePerUnit); err != nil {
		return err
	}

	counts, err = p.Client.InventoryCounts(ctx)
	if err != nil {
		return fmt.Errorf("inventory query: %w", err)
	}
	p.logger().Info("brew batch complete", "batch", batch, "doses", minigame.TotalDoses(counts))
	return nil
}

func (p *Pipeline) waitSettled(ctx context.Context) error {
	_, err := engine.Until(ctx, settleAttempts, settleInterval, p.sleep(), func(ctx context.Context) (bool, error) {
		return p.Client.Idle(ctx)
	})
	return err
}
