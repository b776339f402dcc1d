package network

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-gridwar/pkg/logging"
)

const (
	// sendBufferSize is the per-client outbound queue; a client that
	// cannot drain it is dropped rather than stalling the broadcast.
	sendBufferSize = 32

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// frame pairs a websocket message type with its payload so the hub can
// carry compressed binary snapshots and JSON text notices on one channel.
type frame struct {
	messageType int
	data        []byte
}

// Client represents one connected observer session
type Client struct {
	// ID is the session identifier, also the rate limiter key.
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan frame

	// mu guards closed so sends racing a hub-side drop see the closed
	// queue instead of panicking on it.
	mu     sync.Mutex
	closed bool
}

// Hub maintains the set of active clients and fans frames out to them.
// All registry mutation happens on the Run goroutine, and only the hub
// ever closes a client's send queue.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan frame
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *logging.Logger
	maxClients int
}

// NewHub creates a hub; call Run in a goroutine before accepting clients
func NewHub(logger *logging.Logger, maxClients int) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan frame, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
		maxClients: maxClients,
	}
}

// Run is the hub's event loop. It exits when ctx is cancelled, closing
// every client queue.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.shutdown()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			if h.maxClients > 0 && len(h.clients) >= h.maxClients {
				h.logger.Warn(ctx, "rejecting client, hub full",
					"client_id", client.ID,
					"max_clients", h.maxClients,
				)
				client.shutdown()
				client.conn.Close()
				continue
			}
			h.clients[client] = true
			h.logger.Info(ctx, "client registered",
				"client_id", client.ID,
				"clients", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.shutdown()
				h.logger.Info(ctx, "client unregistered",
					"client_id", client.ID,
					"clients", len(h.clients),
				)
			}

		case f := <-h.broadcast:
			for client := range h.clients {
				if !client.enqueue(f) {
					// Full queue means a hung or dead client.
					client.shutdown()
					delete(h.clients, client)
				}
			}
		}
	}
}

// Broadcast queues a frame for every connected client. Frames are dropped
// when the hub itself is saturated; the next snapshot supersedes them.
func (h *Hub) Broadcast(messageType int, data []byte) {
	select {
	case h.broadcast <- frame{messageType: messageType, data: data}:
	default:
	}
}

// newClient wraps an upgraded connection in a session
func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan frame, sendBufferSize),
	}
}

// sendEnvelope queues a JSON text frame for this client only
func (c *Client) sendEnvelope(data []byte) {
	c.enqueue(frame{messageType: websocket.TextMessage, data: data})
}

// enqueue attempts a non-blocking send on the client's queue. It returns
// false when the queue is full, and silently drops the frame once the
// client has been shut down.
func (c *Client) enqueue(f frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// shutdown closes the client's send queue exactly once. Only the hub
// calls this; enqueue holds the same lock, so no send can race the close.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// drop hands the client back to the hub for unregistration. It does not
// block when the hub loop has already exited.
func (c *Client) drop() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// writePump flushes the client's send queue to the socket and keeps the
// connection alive with pings. One writePump runs per client; the
// websocket connection permits a single concurrent writer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(f.messageType, f.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound messages and hands them to the server's
// command handler until the connection drops.
func (c *Client) readPump(handle func(*Client, []byte)) {
	defer func() {
		c.drop()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(c, data)
	}
}
