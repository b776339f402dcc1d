package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzip"

	"github.com/opd-ai/go-gridwar/pkg/config"
	"github.com/opd-ai/go-gridwar/pkg/engine"
	"github.com/opd-ai/go-gridwar/pkg/logging"
)

// ObserverClient consumes the snapshot feed. Dial and send operations run
// through the circuit breaker; a feed that keeps failing trips the breaker
// and the client backs off instead of reconnect-storming the server.
type ObserverClient struct {
	service *NetworkService
	logger  *logging.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	// OnSnapshot receives every decoded state frame. Optional.
	OnSnapshot func(engine.GameState)
	// OnStaticMap receives the terrain sent once at connect. Optional.
	OnStaticMap func(engine.StaticMap)
	// OnNotice receives push notifications. Optional.
	OnNotice func(Notice)
}

// NewObserverClient creates a client with breaker settings from the
// environment configuration.
func NewObserverClient(envConfig *config.EnvironmentConfig) *ObserverClient {
	return &ObserverClient{
		service: NewNetworkService(envConfig),
		logger:  logging.NewLogger(),
	}
}

// Connect dials the feed with retry and backoff
func (c *ObserverClient) Connect(ctx context.Context, url string) error {
	return c.service.ExecuteWithRetry(ctx, func() error {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return fmt.Errorf("dial %s: %w", url, err)
		}
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.logger.Info(ctx, "connected to snapshot feed", "url", url)
		return nil
	})
}

// Listen reads frames until the connection drops or ctx is cancelled.
// Binary frames are gzip snapshots; text frames are JSON envelopes.
func (c *ObserverClient) Listen(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("listen: not connected")
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read frame: %w", err)
		}

		switch messageType {
		case websocket.BinaryMessage:
			state, err := decompressSnapshot(data)
			if err != nil {
				c.logger.Warn(ctx, "dropping undecodable snapshot", "error", err)
				continue
			}
			if c.OnSnapshot != nil {
				c.OnSnapshot(state)
			}

		case websocket.TextMessage:
			c.handleEnvelope(ctx, data)
		}
	}
}

// SendCommand writes one command through the circuit breaker
func (c *ObserverClient) SendCommand(ctx context.Context, cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	return c.service.Execute(ctx, func() error {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return fmt.Errorf("not connected")
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	})
}

// Close tears down the connection
func (c *ObserverClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// handleEnvelope decodes a text frame and routes it to the matching hook
func (c *ObserverClient) handleEnvelope(ctx context.Context, data []byte) {
	var raw struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn(ctx, "dropping malformed envelope", "error", err)
		return
	}

	switch raw.Type {
	case MsgStaticMap:
		var m engine.StaticMap
		if err := json.Unmarshal(raw.Payload, &m); err == nil && c.OnStaticMap != nil {
			c.OnStaticMap(m)
		}
	case MsgNotice:
		var n Notice
		if err := json.Unmarshal(raw.Payload, &n); err == nil && c.OnNotice != nil {
			c.OnNotice(n)
		}
	case MsgError:
		var ce CommandError
		if err := json.Unmarshal(raw.Payload, &ce); err == nil {
			c.logger.Warn(ctx, "server rejected command",
				"command", ce.Command,
				"reason", ce.Reason,
			)
		}
	}
}

// decompressSnapshot decodes a gzip JSON state frame
func decompressSnapshot(data []byte) (engine.GameState, error) {
	var state engine.GameState

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return state, fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return state, fmt.Errorf("decompress snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("decode snapshot: %w", err)
	}
	return state, nil
}
