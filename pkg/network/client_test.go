package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-gridwar/pkg/engine"
)

func TestObserverClient_ReceivesStaticMapAndSnapshots(t *testing.T) {
	s := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(s.serveWs))
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	client := NewObserverClient(breakerConfig())
	staticCh := make(chan engine.StaticMap, 1)
	snapshotCh := make(chan engine.GameState, 1)
	client.OnStaticMap = func(m engine.StaticMap) {
		select {
		case staticCh <- m:
		default:
		}
	}
	client.OnSnapshot = func(state engine.GameState) {
		select {
		case snapshotCh <- state:
		default:
		}
	}

	if err := client.Connect(ctx, url); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	listenDone := make(chan error, 1)
	go func() { listenDone <- client.Listen(ctx) }()

	select {
	case m := <-staticCh:
		if m.Width != 16 || m.Height != 16 {
			t.Errorf("static map size: got %dx%d, want 16x16", m.Width, m.Height)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for static map")
	}

	frame, err := compressSnapshot(s.world.Snapshot())
	if err != nil {
		t.Fatalf("compressSnapshot: %v", err)
	}
	s.hub.Broadcast(websocket.BinaryMessage, frame)

	select {
	case state := <-snapshotCh:
		if len(state.Teams) != 2 {
			t.Errorf("snapshot teams: got %d, want 2", len(state.Teams))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot frame")
	}

	cancel()
	select {
	case <-listenDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not stop on context cancellation")
	}
}

func TestObserverClient_SendCommandRoundTrip(t *testing.T) {
	s := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(s.serveWs))
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	client := NewObserverClient(breakerConfig())
	if err := client.Connect(ctx, url); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	go client.Listen(ctx)

	err := client.SendCommand(ctx, Command{
		Type:    "move",
		Faction: "green",
		UnitIDs: []uint64{1},
		Tile:    &TileRef{X: 1, Z: 1},
	})
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
}

func TestObserverClient_ListenRequiresConnection(t *testing.T) {
	client := NewObserverClient(breakerConfig())
	if err := client.Listen(context.Background()); err == nil {
		t.Error("Listen without Connect should fail")
	}
}

func TestObserverClient_ConnectFailureReturnsError(t *testing.T) {
	client := NewObserverClient(breakerConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is never listening; every dial attempt fails fast.
	if err := client.Connect(ctx, "ws://127.0.0.1:1/ws"); err == nil {
		t.Error("expected connect failure against a closed port")
	}
}
