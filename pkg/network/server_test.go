package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-gridwar/pkg/config"
	"github.com/opd-ai/go-gridwar/pkg/engine"
	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
	"github.com/opd-ai/go-gridwar/pkg/logging"
)

func testWorld(t *testing.T) *engine.World {
	t.Helper()
	cfg := &config.GameConfig{
		GridWidth:  16,
		GridHeight: 16,
		Factions: []config.FactionConfig{
			{Name: "blue", BaseX: 0, BaseZ: 0, StartingResources: 1000},
			{Name: "red", BaseX: 15, BaseZ: 15, StartingResources: 1000},
		},
		Rules: config.DefaultRules(),
	}
	w, err := engine.NewWorld(cfg, event.NewEventBus())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func testServer(t *testing.T) *Server {
	t.Helper()
	netCfg := config.NetworkConfig{
		ServerAddr: "localhost",
		ServerPort: 0,
		SnapshotHz: 10,
		MaxClients: 4,
	}
	return NewServer(testWorld(t), netCfg, logging.NewLogger())
}

func TestSnapshotCompression_RoundTrip(t *testing.T) {
	w := testWorld(t)
	u := entity.NewUnit(entity.FactionBlue, entity.Rifleman, grid.TileCoord{X: 3, Z: 3})
	w.Units[u.ID] = u

	data, err := compressSnapshot(w.Snapshot())
	if err != nil {
		t.Fatalf("compressSnapshot: %v", err)
	}

	state, err := decompressSnapshot(data)
	if err != nil {
		t.Fatalf("decompressSnapshot: %v", err)
	}
	if len(state.Units) != 1 {
		t.Fatalf("units: got %d, want 1", len(state.Units))
	}
	if state.Units[0].ID != uint64(u.ID) {
		t.Errorf("unit id: got %d, want %d", state.Units[0].ID, u.ID)
	}
	if _, ok := state.Teams["blue"]; !ok {
		t.Error("snapshot missing blue team stats")
	}
}

func TestDecompressSnapshot_RejectsGarbage(t *testing.T) {
	if _, err := decompressSnapshot([]byte("not gzip at all")); err == nil {
		t.Error("expected error for non-gzip payload")
	}
}

func TestDispatchCommand(t *testing.T) {
	s := testServer(t)
	u := entity.NewUnit(entity.FactionBlue, entity.Rifleman, grid.TileCoord{X: 3, Z: 3})
	s.world.Units[u.ID] = u

	t.Run("move reaches the world", func(t *testing.T) {
		err := s.dispatchCommand(&Command{
			Type:    "move",
			Faction: "blue",
			UnitIDs: []uint64{uint64(u.ID)},
			Tile:    &TileRef{X: 8, Z: 3},
		})
		if err != nil {
			t.Fatalf("dispatch move: %v", err)
		}
		if len(u.Path) == 0 {
			t.Error("move command should set a path")
		}
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name string
			cmd  Command
		}{
			{"unknown type", Command{Type: "teleport", Faction: "blue"}},
			{"unknown faction", Command{Type: "move", Faction: "green", UnitIDs: []uint64{1}, Tile: &TileRef{X: 1, Z: 1}}},
			{"missing tile", Command{Type: "move", Faction: "blue", UnitIDs: []uint64{uint64(u.ID)}}},
			{"tile out of bounds", Command{Type: "move", Faction: "blue", UnitIDs: []uint64{uint64(u.ID)}, Tile: &TileRef{X: 99, Z: 0}}},
			{"no unit ids", Command{Type: "move", Faction: "blue", Tile: &TileRef{X: 1, Z: 1}}},
			{"unknown structure", Command{Type: "build", Faction: "blue", Structure: "castle", Tile: &TileRef{X: 5, Z: 5}}},
			{"unknown ability", Command{Type: "ability", Faction: "blue", UnitID: uint64(u.ID), Ability: "teleport"}},
			{"debug disabled", Command{Type: "set_resources", Faction: "blue", Amount: 500}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := s.dispatchCommand(&tt.cmd); err == nil {
					t.Error("expected rejection, got nil")
				}
			})
		}
	})

	t.Run("build places a blueprint", func(t *testing.T) {
		err := s.dispatchCommand(&Command{
			Type:      "build",
			Faction:   "blue",
			Structure: "depot",
			Tile:      &TileRef{X: 10, Z: 10},
		})
		if err != nil {
			t.Fatalf("dispatch build: %v", err)
		}
		found := false
		for _, st := range s.world.Structures {
			if st.Type == entity.StructureDepot && st.Pos == (grid.TileCoord{X: 10, Z: 10}) {
				found = true
			}
		}
		if !found {
			t.Error("build command should place a depot blueprint")
		}
	})
}

// dialTest connects a websocket client to a test server around serveWs
func dialTest(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	go s.hub.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(s.serveWs))
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		cancel()
		ts.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		cancel()
		ts.Close()
	}
}

func TestServeWs_SendsStaticMapOnConnect(t *testing.T) {
	s := testServer(t)
	conn, cleanup := dialTest(t, s)
	defer cleanup()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if messageType != websocket.TextMessage {
		t.Fatalf("first frame type: got %d, want text", messageType)
	}

	var raw struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if raw.Type != MsgStaticMap {
		t.Fatalf("envelope type: got %q, want %q", raw.Type, MsgStaticMap)
	}

	var m engine.StaticMap
	if err := json.Unmarshal(raw.Payload, &m); err != nil {
		t.Fatalf("decode static map: %v", err)
	}
	if m.Width != 16 || m.Height != 16 {
		t.Errorf("map size: got %dx%d, want 16x16", m.Width, m.Height)
	}
	if len(m.Bases) != 2 {
		t.Errorf("bases: got %d, want 2", len(m.Bases))
	}
}

func TestServeWs_RejectedCommandGetsErrorEnvelope(t *testing.T) {
	s := testServer(t)
	conn, cleanup := dialTest(t, s)
	defer cleanup()

	// Drain the static map frame first.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read static map: %v", err)
	}

	cmd := Command{Type: "move", Faction: "green", UnitIDs: []uint64{1}, Tile: &TileRef{X: 1, Z: 1}}
	data, _ := json.Marshal(cmd)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write command: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	var env struct {
		Type    string       `json:"type"`
		Payload CommandError `json:"payload"`
	}
	if err := json.Unmarshal(reply, &env); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if env.Type != MsgError {
		t.Errorf("reply type: got %q, want %q", env.Type, MsgError)
	}
	if env.Payload.Command != "move" {
		t.Errorf("rejected command: got %q, want move", env.Payload.Command)
	}
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	s := testServer(t)
	conn, cleanup := dialTest(t, s)
	defer cleanup()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read static map: %v", err)
	}

	frame, err := compressSnapshot(s.world.Snapshot())
	if err != nil {
		t.Fatalf("compressSnapshot: %v", err)
	}
	s.hub.Broadcast(websocket.BinaryMessage, frame)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if messageType != websocket.BinaryMessage {
		t.Fatalf("snapshot frame type: got %d, want binary", messageType)
	}
	state, err := decompressSnapshot(data)
	if err != nil {
		t.Fatalf("decompressSnapshot: %v", err)
	}
	if len(state.Teams) != 2 {
		t.Errorf("teams in snapshot: got %d, want 2", len(state.Teams))
	}
}
