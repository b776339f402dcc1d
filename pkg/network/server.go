package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzip"

	"github.com/opd-ai/go-gridwar/pkg/config"
	"github.com/opd-ai/go-gridwar/pkg/engine"
	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
	"github.com/opd-ai/go-gridwar/pkg/logging"
	"github.com/opd-ai/go-gridwar/pkg/validation"
)

// maxInboundBytes caps a single inbound websocket message
const maxInboundBytes = validation.MaxMessageSize

// Server exposes the simulation over websocket: a gzip JSON snapshot feed
// broadcast at a fixed cadence, push notices derived from the event bus,
// and a command vocabulary ingested per client with validation and rate
// limiting.
type Server struct {
	world     *engine.World
	hub       *Hub
	validator *validation.MessageValidator
	logger    *logging.Logger
	netCfg    config.NetworkConfig

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer wires a server around a world. Call Start to serve.
func NewServer(world *engine.World, netCfg config.NetworkConfig, logger *logging.Logger) *Server {
	s := &Server{
		world:     world,
		hub:       NewHub(logger, netCfg.MaxClients),
		validator: validation.NewMessageValidator(),
		logger:    logger,
		netCfg:    netCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.subscribeEvents()
	return s
}

// Start runs the hub, the snapshot loop, and the HTTP listener. It blocks
// until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.snapshotLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/healthz", s.serveHealth)

	addr := fmt.Sprintf("%s:%d", s.netCfg.ServerAddr, s.netCfg.ServerPort)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "snapshot server started",
		"addr", addr,
		"snapshot_hz", s.netCfg.SnapshotHz,
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.validator.Close()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	}
}

// serveWs upgrades an HTTP request, registers the session, and sends the
// static map so the observer can render terrain before the first snapshot.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := newClient(s.hub, conn)
	s.hub.register <- client

	if data, err := json.Marshal(Envelope{Type: MsgStaticMap, Payload: s.world.StaticSnapshot()}); err == nil {
		client.sendEnvelope(data)
	}

	go client.writePump()
	go client.readPump(s.handleMessage)
}

// serveHealth reports liveness plus the current simulation tick
func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"tick":   s.world.CurrentTick(),
	})
}

// snapshotLoop broadcasts a compressed snapshot frame at the configured
// cadence, independent of the simulation tick rates.
func (s *Server) snapshotLoop(ctx context.Context) {
	hz := s.netCfg.SnapshotHz
	if hz <= 0 {
		hz = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data, err := compressSnapshot(s.world.Snapshot())
			if err != nil {
				s.logger.Error(ctx, "snapshot encode failed", err)
				continue
			}
			s.hub.Broadcast(websocket.BinaryMessage, data)
		}
	}
}

// compressSnapshot encodes a game state as gzip JSON
func compressSnapshot(state engine.GameState) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	if err := json.NewEncoder(gz).Encode(state); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("flush snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// handleMessage validates and dispatches one inbound command. Rejected
// commands are reported back to the issuing client and never reach the
// simulation.
func (s *Server) handleMessage(c *Client, data []byte) {
	ctx := context.Background()

	if err := s.validator.ValidateMessage(data, c.ID); err != nil {
		s.rejectCommand(c, "", err)
		return
	}

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.rejectCommand(c, "", fmt.Errorf("malformed command: %w", err))
		return
	}

	if err := s.dispatchCommand(&cmd); err != nil {
		s.logger.Debug(ctx, "command rejected",
			"client_id", c.ID,
			"command", cmd.Type,
			"error", err,
		)
		s.rejectCommand(c, cmd.Type, err)
	}
}

// dispatchCommand routes a validated command to the world's command API
func (s *Server) dispatchCommand(cmd *Command) error {
	if err := validation.ValidateCommandType(cmd.Type); err != nil {
		return err
	}
	if err := validation.ValidateFaction(cmd.Faction); err != nil {
		return err
	}
	faction := entity.FactionFromString(cmd.Faction)

	switch cmd.Type {
	case "move":
		if err := validation.ValidateUnitIDs(cmd.UnitIDs); err != nil {
			return err
		}
		tile, err := s.commandTile(cmd)
		if err != nil {
			return err
		}
		return s.world.IssueMove(faction, unitIDs(cmd.UnitIDs), tile)

	case "ability":
		if err := validation.ValidateAbilityName(cmd.Ability); err != nil {
			return err
		}
		var target *grid.TileCoord
		if cmd.Tile != nil {
			tile, err := s.commandTile(cmd)
			if err != nil {
				return err
			}
			target = &tile
		}
		return s.world.IssueAbility(faction, entity.ID(cmd.UnitID), cmd.Ability, target, entity.ID(cmd.TargetUnit))

	case "build":
		structureType, ok := entity.StructureTypeFromString(cmd.Structure)
		if !ok {
			return fmt.Errorf("unknown structure type %q", cmd.Structure)
		}
		tile, err := s.commandTile(cmd)
		if err != nil {
			return err
		}
		return s.world.IssueBuild(faction, structureType, tile)

	case "produce":
		return s.world.IssueProduction(faction, entity.ID(cmd.StructureID), cmd.Item)

	case "set_resources":
		if err := validation.ValidateAmount(cmd.Amount); err != nil {
			return err
		}
		return s.world.SetResources(faction, float64(cmd.Amount))

	case "set_compute":
		if err := validation.ValidateAmount(cmd.Amount); err != nil {
			return err
		}
		return s.world.SetCompute(faction, cmd.Amount)
	}

	return fmt.Errorf("unhandled command type %q", cmd.Type)
}

// commandTile extracts and bounds-checks the tile payload of a command
func (s *Server) commandTile(cmd *Command) (grid.TileCoord, error) {
	if cmd.Tile == nil {
		return grid.TileCoord{}, fmt.Errorf("command %q requires a tile", cmd.Type)
	}
	if err := validation.ValidateTile(cmd.Tile.X, cmd.Tile.Z, s.world.Grid.Width, s.world.Grid.Height); err != nil {
		return grid.TileCoord{}, err
	}
	return grid.TileCoord{X: cmd.Tile.X, Z: cmd.Tile.Z}, nil
}

// rejectCommand pushes an error envelope to the issuing client only
func (s *Server) rejectCommand(c *Client, command string, err error) {
	data, marshalErr := json.Marshal(Envelope{
		Type:    MsgError,
		Payload: CommandError{Command: command, Reason: err.Error()},
	})
	if marshalErr != nil {
		return
	}
	c.sendEnvelope(data)
}

// subscribeEvents forwards simulation events to connected observers as
// small notice envelopes.
func (s *Server) subscribeEvents() {
	bus := s.world.Events

	bus.Subscribe(event.BuildingCaptured, func(e event.Event) {
		if be, ok := e.(*event.BuildingEvent); ok {
			s.broadcastNotice(Notice{
				Event:      string(event.BuildingCaptured),
				EntityID:   be.BuildingID,
				Faction:    be.NewOwner,
				OldFaction: be.OldOwner,
			})
		}
	})
	bus.Subscribe(event.UnitDestroyed, func(e event.Event) {
		if ue, ok := e.(*event.UnitEvent); ok {
			s.broadcastNotice(Notice{
				Event:    string(event.UnitDestroyed),
				EntityID: ue.UnitID,
				Faction:  ue.Faction,
			})
		}
	})
	bus.Subscribe(event.StructureCompleted, func(e event.Event) {
		if se, ok := e.(*event.StructureEvent); ok {
			s.broadcastNotice(Notice{
				Event:    string(event.StructureCompleted),
				EntityID: se.StructureID,
				Faction:  se.Faction,
			})
		}
	})
}

// broadcastNotice fans a notice envelope out to every client
func (s *Server) broadcastNotice(n Notice) {
	data, err := json.Marshal(Envelope{Type: MsgNotice, Payload: n})
	if err != nil {
		return
	}
	s.hub.Broadcast(websocket.TextMessage, data)
}

// unitIDs converts wire ids to entity ids
func unitIDs(raw []uint64) []entity.ID {
	ids := make([]entity.ID, len(raw))
	for i, id := range raw {
		ids[i] = entity.ID(id)
	}
	return ids
}
