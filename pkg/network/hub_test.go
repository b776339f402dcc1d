package network

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-gridwar/pkg/logging"
)

// waitClosed polls for the hub to shut the client down, without touching
// the send queue so a pending broadcast cannot sneak into a freed slot.
func waitClosed(t *testing.T, c *Client) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("send queue was never closed")
}

func TestHub_SendEnvelopeAfterDrop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(logging.NewLogger(), 4)
	go h.Run(ctx)

	// A client whose single-slot queue is already full cannot accept the
	// broadcast, so the hub drops it and closes the queue.
	c := &Client{ID: "stalled", hub: h, send: make(chan frame, 1)}
	c.send <- frame{messageType: websocket.BinaryMessage, data: []byte("filler")}
	h.register <- c

	h.Broadcast(websocket.BinaryMessage, []byte("snapshot"))
	waitClosed(t, c)

	// A reply racing the drop must be discarded, not crash the server.
	c.sendEnvelope([]byte(`{"type":"error"}`))
	c.sendEnvelope([]byte(`{"type":"notice"}`))
}

func TestClient_ShutdownIsIdempotent(t *testing.T) {
	c := &Client{ID: "once", send: make(chan frame, 1)}
	c.shutdown()
	c.shutdown()
	if _, ok := <-c.send; ok {
		t.Fatal("expected closed send queue")
	}
}

func TestClient_DropAfterHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(logging.NewLogger(), 4)
	go h.Run(ctx)

	c := &Client{ID: "straggler", hub: h, send: make(chan frame, 1)}
	h.register <- c

	cancel()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// The read pump's deferred unregister arrives after the loop has
	// exited; it must return instead of blocking forever.
	released := make(chan struct{})
	go func() {
		c.drop()
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("drop blocked after hub shutdown")
	}
}
