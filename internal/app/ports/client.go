package ports

import (
	"context"

	"frostbot/internal/domain/minigame"
)

// TaggedObject is one on-screen candidate for an operator-tagged
// category, rankable by proximity.
type TaggedObject struct {
	ID       string               `json:"id"`
	Category minigame.TagCategory `json:"category"`
	Distance float64              `json:"distance"`
}

// BankEntry is one search result row inside the open bank interface.
type BankEntry struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

// Perception is the read side of the game client. Every query may fail;
// callers substitute a safe default (not-in-arena, busy, empty) and
// retry next tick rather than propagate.
type Perception interface {
	// RegionID reports the map region the player currently occupies.
	RegionID(ctx context.Context) (int, error)
	// LatestChatLine returns the newest visible chat line, or "".
	LatestChatLine(ctx context.Context) (string, error)
	// InventoryCounts returns item id -> held count for the whole pack.
	InventoryCounts(ctx context.Context) (map[int]int, error)
	InventoryFull(ctx context.Context) (bool, error)
	IsEquipped(ctx context.Context, itemID int) (bool, error)
	// Idle reports whether the player is currently mid-action.
	Idle(ctx context.Context) (bool, error)
	// TaggedObjects lists on-screen candidates for a category, nearest
	// first. An empty slice is a valid answer, not an error.
	TaggedObjects(ctx context.Context, category minigame.TagCategory) ([]TaggedObject, error)
}

// Actuator is the write side. All actions are fire-and-forget; success
// is only ever confirmed indirectly through subsequent perception.
type Actuator interface {
	// InteractObject moves to the nearest candidate of category, verifies
	// the hover action text, and clicks. Returns ErrNoTaggedObject when
	// nothing tagged is on screen.
	InteractObject(ctx context.Context, category minigame.TagCategory, action string) error
	// UseItemOnItem clicks the first inventory item then the second.
	UseItemOnItem(ctx context.Context, firstItemID, secondItemID int) error
	// ClickItem clicks an inventory item (eat, sip).
	ClickItem(ctx context.Context, itemID int) error
	PressKey(ctx context.Context, key string) error
}

// Bank drives the bank interface while it is open near the staging area.
type Bank interface {
	OpenBank(ctx context.Context) error
	DepositInventory(ctx context.Context) error
	// SearchBank types a query into the bank search and returns the
	// matching rows as displayed.
	SearchBank(ctx context.Context, query string) ([]BankEntry, error)
	WithdrawSlot(ctx context.Context, slot, count int) error
	CloseBank(ctx context.Context) error
}

// GameClient is the full collaborator surface the engine drives. One
// logical action at a time; all calls are serialized by the single
// driver loop.
type GameClient interface {
	Perception
	Actuator
	Bank
}
