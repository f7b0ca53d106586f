package mock

import (
	"context"
	"fmt"

	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

// Client is a scripted in-memory stand-in for the game client. Chat
// lines are played back one per poll with the newest line sticking, the
// way the real transient chat box behaves. Every actuation is recorded
// in Calls and may be intercepted through OnInteract to mutate state.
type Client struct {
	Region    int
	RegionErr error

	Chat    []string
	chatIdx int

	Inventory map[int]int
	Full      bool
	Equipped  map[int]bool
	IdleState bool
	IdleErr   error

	Tagged map[minigame.TagCategory][]ports.TaggedObject

	BankRows    []ports.BankEntry
	BankErr     error
	OnWithdraw  func(slot, count int)
	OnInteract  func(category minigame.TagCategory, action string) error
	OnClickItem func(itemID int)

	Calls []string
}

func New() *Client {
	return &Client{
		Inventory: map[int]int{},
		Equipped:  map[int]bool{},
		Tagged:    map[minigame.TagCategory][]ports.TaggedObject{},
		IdleState: true,
	}
}

func (c *Client) record(format string, args ...any) {
	c.Calls = append(c.Calls, fmt.Sprintf(format, args...))
}

func (c *Client) RegionID(context.Context) (int, error) {
	if c.RegionErr != nil {
		return 0, c.RegionErr
	}
	return c.Region, nil
}

func (c *Client) LatestChatLine(context.Context) (string, error) {
	if len(c.Chat) == 0 {
		return "", nil
	}
	line := c.Chat[c.chatIdx]
	if c.chatIdx < len(c.Chat)-1 {
		c.chatIdx++
	}
	return line, nil
}

func (c *Client) InventoryCounts(context.Context) (map[int]int, error) {
	out := make(map[int]int, len(c.Inventory))
	for k, v := range c.Inventory {
		out[k] = v
	}
	return out, nil
}

func (c *Client) InventoryFull(context.Context) (bool, error) {
	return c.Full, nil
}

func (c *Client) IsEquipped(_ context.Context, itemID int) (bool, error) {
	return c.Equipped[itemID], nil
}

func (c *Client) Idle(context.Context) (bool, error) {
	if c.IdleErr != nil {
		return false, c.IdleErr
	}
	return c.IdleState, nil
}

func (c *Client) TaggedObjects(_ context.Context, category minigame.TagCategory) ([]ports.TaggedObject, error) {
	return c.Tagged[category], nil
}

func (c *Client) InteractObject(_ context.Context, category minigame.TagCategory, action string) error {
	c.record("interact:%s:%s", category, action)
	if c.OnInteract != nil {
		return c.OnInteract(category, action)
	}
	if len(c.Tagged[category]) == 0 {
		return ports.ErrNoTaggedObject
	}
	return nil
}

func (c *Client) UseItemOnItem(_ context.Context, firstItemID, secondItemID int) error {
	c.record("use:%d:%d", firstItemID, secondItemID)
	return nil
}

func (c *Client) ClickItem(_ context.Context, itemID int) error {
	c.record("click:%d", itemID)
	if c.OnClickItem != nil {
		c.OnClickItem(itemID)
	}
	return nil
}

func (c *Client) PressKey(_ context.Context, key string) error {
	c.record("key:%s", key)
	return nil
}

func (c *Client) OpenBank(context.Context) error {
	c.record("bank:open")
	return c.BankErr
}

func (c *Client) DepositInventory(context.Context) error {
	c.record("bank:deposit")
	return nil
}

func (c *Client) SearchBank(_ context.Context, query string) ([]ports.BankEntry, error) {
	c.record("bank:search:%s", query)
	return c.BankRows, nil
}

func (c *Client) WithdrawSlot(_ context.Context, slot, count int) error {
	c.record("bank:withdraw:%d:%d", slot, count)
	if c.OnWithdraw != nil {
		c.OnWithdraw(slot, count)
	}
	return nil
}

func (c *Client) CloseBank(context.Context) error {
	c.record("bank:close")
	return nil
}
