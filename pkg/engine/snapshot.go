package engine

import (
	"sort"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// GameState is the read-only per-snapshot view of the simulation handed to
// the presentation layer. It is built under the read lock and never
// aliases live entity state.
type GameState struct {
	Tick        uint64               `json:"tick"`
	Units       []UnitState          `json:"units"`
	Buildings   []BuildingState      `json:"buildings"`
	Structures  []StructureState     `json:"structures"`
	Projectiles []ProjectileState    `json:"projectiles"`
	Clouds      []CloudState         `json:"clouds"`
	Teams       map[string]TeamStats `json:"teams"`
}

// UnitState is the wire view of one unit
type UnitState struct {
	ID        uint64  `json:"id"`
	Faction   string  `json:"faction"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Z         float64 `json:"z"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Battery   float64 `json:"battery"`
	Jammed    bool    `json:"jammed,omitempty"`
	Deployed  bool    `json:"deployed,omitempty"`
	Ammo      string  `json:"ammo,omitempty"`
}

// BuildingState is the wire view of one capturable building
type BuildingState struct {
	ID              uint64  `json:"id"`
	X               int     `json:"x"`
	Z               int     `json:"z"`
	Tier            string  `json:"tier"`
	Owner           string  `json:"owner"`
	CapturingTeam   string  `json:"capturingTeam,omitempty"`
	CaptureProgress float64 `json:"captureProgress"`
}

// StructureState is the wire view of one faction structure
type StructureState struct {
	ID          uint64  `json:"id"`
	Faction     string  `json:"faction"`
	Type        string  `json:"type"`
	X           int     `json:"x"`
	Z           int     `json:"z"`
	IsBlueprint bool    `json:"isBlueprint"`
	Progress    float64 `json:"progress"`
	Health      float64 `json:"health"`
}

// ProjectileState is the wire view of one round in flight
type ProjectileState struct {
	ID        uint64  `json:"id"`
	Faction   string  `json:"faction"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Ballistic bool    `json:"ballistic,omitempty"`
	Phase     string  `json:"phase,omitempty"`
}

// CloudState is the wire view of one area effect
type CloudState struct {
	ID     uint64  `json:"id"`
	Gas    bool    `json:"gas"`
	X      int     `json:"x"`
	Z      int     `json:"z"`
	Radius float64 `json:"radius"`
}

// TeamStats is the per-faction summary recomputed each economy tick and
// reported alongside every snapshot.
type TeamStats struct {
	Resources      float64        `json:"resources"`
	Income         float64        `json:"income"`
	Compute        int            `json:"compute"`
	UnitCount      int            `json:"unitCount"`
	BuildingCounts map[string]int `json:"buildingCounts"`
	Stockpile      int            `json:"stockpile"`
}

// StaticMap is the immutable map description emitted once at connect:
// tile classes and base positions. Road layout never changes mid-match.
type StaticMap struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Classes []string     `json:"classes"` // row-major, len Width*Height
	Bases   []BaseMarker `json:"bases"`
}

// BaseMarker locates one faction base
type BaseMarker struct {
	Faction string `json:"faction"`
	X       int    `json:"x"`
	Z       int    `json:"z"`
}

// Snapshot builds a fully-resolved post-tick view of the world. Safe to
// call concurrently with the tick loop; never blocks it beyond the read
// lock.
func (w *World) Snapshot() GameState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	state := GameState{
		Tick:  w.Tick,
		Teams: make(map[string]TeamStats, len(w.Teams)),
	}

	for _, u := range w.Units {
		us := UnitState{
			ID:        uint64(u.ID),
			Faction:   u.Faction.String(),
			Type:      u.Type.String(),
			X:         u.Position.X,
			Z:         u.Position.Z,
			Health:    u.Health,
			MaxHealth: u.MaxHealth,
			Battery:   u.Battery,
			Jammed:    u.Jammed,
			Deployed:  u.Deployed,
		}
		if u.Type == entity.Lancer {
			us.Ammo = u.Ammo.String()
		}
		state.Units = append(state.Units, us)
	}

	for _, b := range w.Buildings {
		bs := BuildingState{
			ID:              uint64(b.ID),
			X:               b.GridX,
			Z:               b.GridZ,
			Tier:            b.Tier.String(),
			Owner:           b.Owner.String(),
			CaptureProgress: b.CaptureProgress,
		}
		if b.CapturingTeam != entity.FactionNeutral {
			bs.CapturingTeam = b.CapturingTeam.String()
		}
		state.Buildings = append(state.Buildings, bs)
	}

	for _, s := range w.Structures {
		state.Structures = append(state.Structures, StructureState{
			ID:          uint64(s.ID),
			Faction:     s.Faction.String(),
			Type:        s.Type.String(),
			X:           s.Pos.X,
			Z:           s.Pos.Z,
			IsBlueprint: s.IsBlueprint,
			Progress:    s.Progress,
			Health:      s.Health,
		})
	}

	for _, p := range w.Projectiles {
		ps := ProjectileState{
			ID:        uint64(p.ID),
			Faction:   p.Faction.String(),
			X:         p.Position.X,
			Y:         p.Position.Y,
			Z:         p.Position.Z,
			Ballistic: p.Ballistic,
		}
		if p.Ballistic {
			ps.Phase = p.Phase.String()
		}
		state.Projectiles = append(state.Projectiles, ps)
	}

	for _, c := range w.Clouds {
		state.Clouds = append(state.Clouds, CloudState{
			ID:     uint64(c.ID),
			Gas:    c.Type == entity.CloudGas,
			X:      c.Center.X,
			Z:      c.Center.Z,
			Radius: c.Radius,
		})
	}

	for faction, team := range w.Teams {
		state.Teams[faction.String()] = w.teamStats(team)
	}

	// Stable ordering keeps snapshots diffable and tests reproducible.
	sort.Slice(state.Units, func(i, j int) bool { return state.Units[i].ID < state.Units[j].ID })
	sort.Slice(state.Buildings, func(i, j int) bool { return state.Buildings[i].ID < state.Buildings[j].ID })
	sort.Slice(state.Structures, func(i, j int) bool { return state.Structures[i].ID < state.Structures[j].ID })
	sort.Slice(state.Projectiles, func(i, j int) bool { return state.Projectiles[i].ID < state.Projectiles[j].ID })
	sort.Slice(state.Clouds, func(i, j int) bool { return state.Clouds[i].ID < state.Clouds[j].ID })

	return state
}

// teamStats summarizes one faction. Caller holds at least the read lock.
func (w *World) teamStats(team *Team) TeamStats {
	stats := TeamStats{
		Resources:      team.Resources,
		Income:         team.Income,
		Compute:        team.Compute,
		Stockpile:      team.Ordnance,
		BuildingCounts: make(map[string]int),
	}
	for _, u := range w.Units {
		if u.Faction == team.Faction {
			stats.UnitCount++
		}
	}
	for _, b := range w.Buildings {
		if b.Owner == team.Faction {
			stats.BuildingCounts[b.Tier.String()]++
		}
	}
	return stats
}

// StaticSnapshot builds the immutable map description
func (w *World) StaticSnapshot() StaticMap {
	w.mu.RLock()
	defer w.mu.RUnlock()

	sm := StaticMap{
		Width:   w.Grid.Width,
		Height:  w.Grid.Height,
		Classes: make([]string, 0, w.Grid.Width*w.Grid.Height),
	}
	for z := 0; z < w.Grid.Height; z++ {
		for x := 0; x < w.Grid.Width; x++ {
			sm.Classes = append(sm.Classes, w.Grid.ClassAt(grid.TileCoord{X: x, Z: z}).String())
		}
	}
	for faction, team := range w.Teams {
		sm.Bases = append(sm.Bases, BaseMarker{Faction: faction.String(), X: team.Base.X, Z: team.Base.Z})
	}
	sort.Slice(sm.Bases, func(i, j int) bool { return sm.Bases[i].Faction < sm.Bases[j].Faction })
	return sm
}
