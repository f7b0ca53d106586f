package runelite

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

// fakeSidecar answers the command protocol the way the plugin does.
func fakeSidecar(t *testing.T, handle func(req request) response) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req request
			if err := json.Unmarshal(msg, &req); err != nil {
				t.Errorf("bad request frame: %v", err)
				return
			}
			if req.Type == "ping" {
				_ = conn.WriteJSON(response{ID: req.ID, Type: "pong"})
				continue
			}
			resp := handle(req)
			resp.ID = req.ID
			resp.Type = "response"
			_ = conn.WriteJSON(resp)
		}
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func dialTest(t *testing.T, s *httptest.Server) *Client {
	t.Helper()
	// Shrink the ping interval so keepAlive loops exit shortly after
	// Close instead of lingering on a 15s ticker into later tests,
	// which would skew livePingLoops counts.
	oldPing := keepAliveInterval
	keepAliveInterval = 20 * time.Millisecond
	t.Cleanup(func() { keepAliveInterval = oldPing })
	c, err := Dial(wsURL(s), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestQueries_DecodeTypedResponses(t *testing.T) {
	s := fakeSidecar(t, func(req request) response {
		switch req.Action {
		case "region_id":
			return response{OK: true, Data: json.RawMessage(`6462`)}
		case "inventory":
			return response{OK: true, Data: json.RawMessage(`{"20695":12,"590":1}`)}
		case "tagged_objects":
			if req.Params["category"] != "brazier" {
				return response{Code: "bad_category", Message: "unexpected category"}
			}
			return response{OK: true, Data: json.RawMessage(`[{"id":"b1","category":"brazier","distance":2.5}]`)}
		}
		return response{Code: "unknown_action", Message: req.Action}
	})
	defer s.Close()
	c := dialTest(t, s)
	ctx := context.Background()

	regionID, err := c.RegionID(ctx)
	if err != nil || regionID != 6462 {
		t.Fatalf("RegionID = %d, %v", regionID, err)
	}

	counts, err := c.InventoryCounts(ctx)
	if err != nil {
		t.Fatalf("InventoryCounts: %v", err)
	}
	if counts[minigame.ItemBrumaRoot] != 12 || counts[minigame.ItemTinderbox] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	objs, err := c.TaggedObjects(ctx, minigame.TagBrazier)
	if err != nil || len(objs) != 1 || objs[0].ID != "b1" {
		t.Fatalf("TaggedObjects = %v, %v", objs, err)
	}
}

func TestInteract_MapsNoTaggedObject(t *testing.T) {
	s := fakeSidecar(t, func(req request) response {
		return response{Code: "no_tagged_object", Message: "nothing tagged on screen"}
	})
	defer s.Close()
	c := dialTest(t, s)

	err := c.InteractObject(context.Background(), minigame.TagRoots, "Chop")
	if !errors.Is(err, ports.ErrNoTaggedObject) {
		t.Fatalf("expected ErrNoTaggedObject, got %v", err)
	}
}

func TestCommand_RejectionCarriesMessage(t *testing.T) {
	s := fakeSidecar(t, func(req request) response {
		return response{Code: "busy", Message: "interface open"}
	})
	defer s.Close()
	c := dialTest(t, s)

	err := c.ClickItem(context.Background(), minigame.ItemPotion4)
	if err == nil || !strings.Contains(err.Error(), "interface open") {
		t.Fatalf("expected rejection message, got %v", err)
	}
}

func TestReconnect_DoesNotStackPingLoops(t *testing.T) {
	oldPing, oldDelay := keepAliveInterval, reconnectDelay
	keepAliveInterval, reconnectDelay = 20*time.Millisecond, 10*time.Millisecond
	defer func() { keepAliveInterval, reconnectDelay = oldPing, oldDelay }()

	var mu sync.Mutex
	conns := 0
	upgrader := websocket.Upgrader{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		conns++
		n := conns
		mu.Unlock()
		// Drop the first two connections to force reconnects.
		if n <= 2 {
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req request
			if json.Unmarshal(msg, &req) == nil && req.Type == "ping" {
				_ = conn.WriteJSON(response{ID: req.ID, Type: "pong"})
			}
		}
	}))
	defer s.Close()

	c := dialTest(t, s)
	_ = c

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := conns
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("client never reached the third connection, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Give loops bound to the dropped connections a few ticks to exit.
	time.Sleep(200 * time.Millisecond)
	if got := livePingLoops(); got != 1 {
		t.Fatalf("expected 1 keep-alive loop after reconnects, got %d", got)
	}
}

func livePingLoops() int {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	return strings.Count(string(buf[:n]), "(*Client).keepAlive")
}

func TestCommand_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	s := fakeSidecar(t, func(req request) response {
		<-block
		return response{OK: true}
	})
	defer s.Close()
	defer close(block)
	c := dialTest(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.RegionID(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
