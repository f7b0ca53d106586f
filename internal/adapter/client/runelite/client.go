package runelite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

const commandTimeout = 15 * time.Second

// Vars so tests can shrink the reconnect timing.
var (
	keepAliveInterval = 15 * time.Second
	reconnectDelay    = 5 * time.Second
)

var ErrNotConnected = errors.New("not connected to game client")

type request struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Action string         `json:"action,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

type response struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	OK      bool            `json:"ok"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client speaks the JSON command protocol of the plugin sidecar over a
// websocket. One in-flight command per id; responses are matched back
// to their waiting caller. The connection re-dials itself after a read
// failure.
type Client struct {
	url    string
	logger *slog.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool

	responsesMu sync.Mutex
	responses   map[string]chan *response

	seq atomic.Uint64
}

// Dial connects and starts the read/keep-alive loops.
func Dial(url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		url:       url,
		logger:    logger,
		responses: make(map[string]chan *response),
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial game client: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.listen(conn)
	go c.keepAlive(conn)
	return c, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) listen(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("websocket read failed", "error", err)
			go c.reconnect()
			return
		}

		var resp response
		if err := json.Unmarshal(message, &resp); err != nil {
			c.logger.Warn("unparseable frame from game client", "error", err)
			continue
		}
		switch resp.Type {
		case "response":
			c.deliver(&resp)
		case "pong":
		default:
			c.logger.Debug("unhandled frame type", "type", resp.Type)
		}
	}
}

func (c *Client) deliver(resp *response) {
	if resp.ID == "" {
		return
	}
	c.responsesMu.Lock()
	ch, ok := c.responses[resp.ID]
	if ok {
		delete(c.responses, resp.ID)
	}
	c.responsesMu.Unlock()
	if ok {
		ch <- resp
	}
}

// keepAlive pings for exactly one connection and exits once the client
// has moved on to another, so reconnects never stack ping loops.
func (c *Client) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.RLock()
		current, connected := c.conn, c.connected
		c.mu.RUnlock()
		if !connected || current != conn {
			return
		}
		if err := c.write(request{ID: c.nextID(), Type: "ping"}); err != nil {
			c.logger.Warn("ping failed", "error", err)
			return
		}
	}
}

func (c *Client) reconnect() {
	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
	if !wasConnected {
		return
	}

	for {
		c.logger.Info("reconnecting to game client", "url", c.url)
		time.Sleep(reconnectDelay)

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			c.logger.Warn("reconnect failed", "error", err)
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.connected = true
		c.mu.Unlock()

		c.logger.Info("reconnected to game client", "url", c.url)
		go c.listen(conn)
		go c.keepAlive(conn)
		return
	}
}

func (c *Client) nextID() string {
	return strconv.FormatUint(c.seq.Add(1), 10)
}

func (c *Client) write(req request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) command(ctx context.Context, action string, params map[string]any) (*response, error) {
	id := c.nextID()
	ch := make(chan *response, 1)
	c.responsesMu.Lock()
	c.responses[id] = ch
	c.responsesMu.Unlock()

	forget := func() {
		c.responsesMu.Lock()
		delete(c.responses, id)
		c.responsesMu.Unlock()
	}

	if err := c.write(request{ID: id, Type: "command", Action: action, Params: params}); err != nil {
		forget()
		return nil, err
	}

	timer := time.NewTimer(commandTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		forget()
		return nil, ctx.Err()
	case <-timer.C:
		forget()
		return nil, fmt.Errorf("command %q timed out", action)
	case resp := <-ch:
		if !resp.OK {
			if resp.Code == "no_tagged_object" {
				return nil, ports.ErrNoTaggedObject
			}
			return nil, fmt.Errorf("command %q rejected: %s", action, resp.Message)
		}
		return resp, nil
	}
}

func (c *Client) query(ctx context.Context, action string, params map[string]any, out any) error {
	resp, err := c.command(ctx, action, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %q response: %w", action, err)
	}
	return nil
}

func (c *Client) RegionID(ctx context.Context) (int, error) {
	var regionID int
	err := c.query(ctx, "region_id", nil, &regionID)
	return regionID, err
}

func (c *Client) LatestChatLine(ctx context.Context) (string, error) {
	var line string
	err := c.query(ctx, "latest_chat", nil, &line)
	return line, err
}

func (c *Client) InventoryCounts(ctx context.Context) (map[int]int, error) {
	// JSON object keys are strings; the wire carries item ids as text.
	raw := map[string]int{}
	if err := c.query(ctx, "inventory", nil, &raw); err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(raw))
	for key, count := range raw {
		itemID, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("bad item id %q in inventory response", key)
		}
		counts[itemID] = count
	}
	return counts, nil
}

func (c *Client) InventoryFull(ctx context.Context) (bool, error) {
	var full bool
	err := c.query(ctx, "inventory_full", nil, &full)
	return full, err
}

func (c *Client) IsEquipped(ctx context.Context, itemID int) (bool, error) {
	var equipped bool
	err := c.query(ctx, "is_equipped", map[string]any{"item_id": itemID}, &equipped)
	return equipped, err
}

func (c *Client) Idle(ctx context.Context) (bool, error) {
	var idle bool
	err := c.query(ctx, "idle", nil, &idle)
	return idle, err
}

func (c *Client) TaggedObjects(ctx context.Context, category minigame.TagCategory) ([]ports.TaggedObject, error) {
	var objs []ports.TaggedObject
	err := c.query(ctx, "tagged_objects", map[string]any{"category": string(category)}, &objs)
	return objs, err
}

func (c *Client) InteractObject(ctx context.Context, category minigame.TagCategory, action string) error {
	_, err := c.command(ctx, "interact_object", map[string]any{
		"category": string(category),
		"action":   action,
	})
	return err
}

func (c *Client) UseItemOnItem(ctx context.Context, firstItemID, secondItemID int) error {
	_, err := c.command(ctx, "use_item_on_item", map[string]any{
		"first_item_id":  firstItemID,
		"second_item_id": secondItemID,
	})
	return err
}

func (c *Client) ClickItem(ctx context.Context, itemID int) error {
	_, err := c.command(ctx, "click_item", map[string]any{"item_id": itemID})
	return err
}

func (c *Client) PressKey(ctx context.Context, key string) error {
	_, err := c.command(ctx, "press_key", map[string]any{"key": key})
	return err
}

func (c *Client) OpenBank(ctx context.Context) error {
	_, err := c.command(ctx, "bank_open", nil)
	return err
}

func (c *Client) DepositInventory(ctx context.Context) error {
	_, err := c.command(ctx, "bank_deposit_all", nil)
	return err
}

func (c *Client) SearchBank(ctx context.Context, query string) ([]ports.BankEntry, error) {
	var rows []ports.BankEntry
	err := c.query(ctx, "bank_search", map[string]any{"query": query}, &rows)
	return rows, err
}

func (c *Client) WithdrawSlot(ctx context.Context, slot, count int) error {
	_, err := c.command(ctx, "bank_withdraw", map[string]any{"slot": slot, "count": count})
	return err
}

func (c *Client) CloseBank(ctx context.Context) error {
	_, err := c.command(ctx, "bank_close", nil)
	return err
}

var _ ports.GameClient = (*Client)(nil)
