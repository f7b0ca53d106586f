package brew

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"frostbot/internal/adapter/client/mock"
	"frostbot/internal/domain/minigame"
)

func noSleep(context.Context, time.Duration) error { return nil }

func testPipeline(c *mock.Client, target int) *Pipeline {
	return &Pipeline{
		Client:        c,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		TargetPotions: target,
		Sleep:         noSleep,
	}
}

func countCalls(calls []string, prefix string) int {
	n := 0
	for _, call := range calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func TestRefill_NoopAtTarget(t *testing.T) {
	c := mock.New()
	c.Inventory[minigame.ItemPotion4] = 2

	if err := testPipeline(c, 2).Refill(context.Background()); err != nil {
		t.Fatalf("Refill: %v", err)
	}
	if len(c.Calls) != 0 {
		t.Fatalf("full supply must be a no-op, calls: %v", c.Calls)
	}
}

func TestRefill_BrewsFullBatch(t *testing.T) {
	c := mock.New()
	c.OnInteract = func(category minigame.TagCategory, _ string) error {
		switch category {
		case minigame.TagCrate:
			c.Inventory[minigame.ItemPotionUnfinished]++
		case minigame.TagSprouting:
			c.Inventory[minigame.ItemBrumaHerb]++
		}
		return nil
	}

	if err := testPipeline(c, 2).Refill(context.Background()); err != nil {
		t.Fatalf("Refill: %v", err)
	}
	if got := countCalls(c.Calls, "interact:crate"); got != 2 {
		t.Fatalf("expected 2 container takes, got %d (%v)", got, c.Calls)
	}
	if got := countCalls(c.Calls, "interact:sprouting_roots"); got != 2 {
		t.Fatalf("expected 2 herb picks, got %d (%v)", got, c.Calls)
	}
	if got := countCalls(c.Calls, "use:"); got != 1 {
		t.Fatalf("combine must be invoked once per batch, got %d", got)
	}
}

func TestRefill_PartialDosesReduceBatch(t *testing.T) {
	c := mock.New()
	c.Inventory[minigame.ItemPotion2] = 1 // 2 doses on hand, target is 4
	c.OnInteract = func(category minigame.TagCategory, _ string) error {
		switch category {
		case minigame.TagCrate:
			c.Inventory[minigame.ItemPotionUnfinished]++
		case minigame.TagSprouting:
			c.Inventory[minigame.ItemBrumaHerb]++
		}
		return nil
	}

	if err := testPipeline(c, 1).Refill(context.Background()); err != nil {
		t.Fatalf("Refill: %v", err)
	}
	// 2 missing doses round up to one whole new container.
	if got := countCalls(c.Calls, "interact:crate"); got != 1 {
		t.Fatalf("expected 1 container take, got %d (%v)", got, c.Calls)
	}
}

func TestRefill_ResumesWithContainersOnHand(t *testing.T) {
	c := mock.New()
	c.Inventory[minigame.ItemPotionUnfinished] = 2 // earlier refill got this far
	c.OnInteract = func(category minigame.TagCategory, _ string) error {
		if category == minigame.TagSprouting {
			c.Inventory[minigame.ItemBrumaHerb]++
		}
		return nil
	}

	if err := testPipeline(c, 2).Refill(context.Background()); err != nil {
		t.Fatalf("Refill: %v", err)
	}
	if got := countCalls(c.Calls, "interact:crate"); got != 0 {
		t.Fatalf("containers already on hand, no takes expected: %v", c.Calls)
	}
	if got := countCalls(c.Calls, "use:"); got != 1 {
		t.Fatalf("expected one combine, got %d", got)
	}
}

func TestRefill_MissSurfacesError(t *testing.T) {
	c := mock.New() // nothing tagged: crate click fails
	if err := testPipeline(c, 1).Refill(context.Background()); err == nil {
		t.Fatalf("expected an error when the crate is not tagged")
	}
}
