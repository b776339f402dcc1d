// Package engine contains the server-authoritative simulation: the World
// entity store, the tick systems that advance it, the command surface the
// presentation layer drives it with, and read-only snapshots.
package engine

import (
	"fmt"
	"sync"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/config"
	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// Team is the mutable per-faction state: resource pool, derived compute,
// ordnance stockpile, and base location.
type Team struct {
	Faction   entity.Faction
	Resources float64
	Income    float64
	Compute   int
	// ComputeBonus is an externally injected additive term, set through
	// the debug command surface.
	ComputeBonus int
	Ordnance     int
	Base         grid.TileCoord
}

// guardDrone is the automated defense attached to an owned server node.
// It lives and dies with the building's ownership.
type guardDrone struct {
	BuildingID entity.ID
	Health     float64
}

// World owns every entity collection behind controlled mutation methods.
// The tick systems are its single writers; commands mutate between ticks
// under the same lock; snapshot readers take the read lock.
type World struct {
	mu sync.RWMutex

	Grid        *grid.Grid
	Units       map[entity.ID]*entity.Unit
	Buildings   map[entity.ID]*entity.Building
	Blocks      map[entity.ID]*entity.BuildingBlock
	Structures  map[entity.ID]*entity.Structure
	Projectiles map[entity.ID]*entity.Projectile
	Clouds      map[entity.ID]*entity.Cloud
	Explosions  map[entity.ID]*entity.Explosion
	Teams       map[entity.Faction]*Team

	Rules  config.GameRules
	Events *event.Bus

	// Tick counts fast ticks since the match started.
	Tick uint64

	drones map[entity.ID]*guardDrone
	// announced tracks structures whose completion side effects ran.
	announced      map[entity.ID]bool
	turretLastFire map[entity.ID]uint64

	fast    *ecs.World
	slow    *ecs.World
	economy *ecs.World
}

// NewWorld builds a world from a match configuration: grid classes from
// the road layout, bases blocked, city buildings grouped into blocks, and
// each faction's starting units placed.
func NewWorld(cfg *config.GameConfig, bus *event.Bus) (*World, error) {
	if cfg.GridWidth <= 0 || cfg.GridHeight <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", cfg.GridWidth, cfg.GridHeight)
	}

	w := &World{
		Grid:           grid.NewGrid(cfg.GridWidth, cfg.GridHeight),
		Units:          make(map[entity.ID]*entity.Unit),
		Buildings:      make(map[entity.ID]*entity.Building),
		Blocks:         make(map[entity.ID]*entity.BuildingBlock),
		Structures:     make(map[entity.ID]*entity.Structure),
		Projectiles:    make(map[entity.ID]*entity.Projectile),
		Clouds:         make(map[entity.ID]*entity.Cloud),
		Explosions:     make(map[entity.ID]*entity.Explosion),
		Teams:          make(map[entity.Faction]*Team),
		Rules:          cfg.Rules,
		Events:         bus,
		drones:         make(map[entity.ID]*guardDrone),
		announced:      make(map[entity.ID]bool),
		turretLastFire: make(map[entity.ID]uint64),
	}

	for _, road := range cfg.Roads {
		if err := w.applyRoad(road); err != nil {
			return nil, err
		}
	}

	for _, fc := range cfg.Factions {
		faction := entity.FactionFromString(fc.Name)
		if faction == entity.FactionNeutral {
			return nil, fmt.Errorf("unknown faction %q", fc.Name)
		}
		base := grid.TileCoord{X: fc.BaseX, Z: fc.BaseZ}
		if !w.Grid.InBounds(base) {
			return nil, fmt.Errorf("faction %s base (%d,%d) out of bounds", fc.Name, fc.BaseX, fc.BaseZ)
		}
		w.Grid.SetBlocked(base, true)
		w.Teams[faction] = &Team{
			Faction:   faction,
			Resources: fc.StartingResources,
			Base:      base,
		}
		for _, su := range fc.StartingUnits {
			unitType, ok := entity.UnitTypeFromString(su.Type)
			if !ok {
				return nil, fmt.Errorf("unknown starting unit type %q", su.Type)
			}
			u := entity.NewUnit(faction, unitType, grid.TileCoord{X: su.X, Z: su.Z})
			w.Units[u.ID] = u
		}
	}

	if err := w.placeBuildings(cfg.Buildings); err != nil {
		return nil, err
	}

	w.fast = &ecs.World{}
	w.slow = &ecs.World{}
	w.economy = &ecs.World{}

	w.fast.AddSystem(&MovementSystem{world: w})
	w.fast.AddSystem(&CombatSystem{world: w})
	w.fast.AddSystem(&CaptureSystem{world: w})
	w.fast.AddSystem(&ConstructionSystem{world: w})
	w.fast.AddSystem(&ProductionSystem{world: w})

	w.slow.AddSystem(&DecaySystem{world: w})
	w.slow.AddSystem(&BuilderSystem{world: w})

	w.economy.AddSystem(&EconomySystem{world: w})

	return w, nil
}

// applyRoad classifies a full row or column of tiles
func (w *World) applyRoad(road config.RoadConfig) error {
	var class grid.TileClass
	switch road.Class {
	case "main":
		class = grid.ClassMain
	case "street":
		class = grid.ClassStreet
	default:
		return fmt.Errorf("unknown road class %q", road.Class)
	}

	switch road.Axis {
	case "x":
		for x := 0; x < w.Grid.Width; x++ {
			w.Grid.SetClass(grid.TileCoord{X: x, Z: road.Index}, class)
		}
	case "z":
		for z := 0; z < w.Grid.Height; z++ {
			w.Grid.SetClass(grid.TileCoord{X: road.Index, Z: z}, class)
		}
	default:
		return fmt.Errorf("unknown road axis %q", road.Axis)
	}
	return nil
}

// placeBuildings creates the capturable city buildings and groups those
// sharing a block number into building blocks.
func (w *World) placeBuildings(configs []config.BuildingConfig) error {
	members := make(map[int][]entity.ID)
	tiers := make(map[int]entity.BuildingTier)

	for _, bc := range configs {
		tier, ok := buildingTierFromString(bc.Tier)
		if !ok {
			return fmt.Errorf("unknown building tier %q", bc.Tier)
		}
		at := grid.TileCoord{X: bc.X, Z: bc.Z}
		if !w.Grid.InBounds(at) {
			return fmt.Errorf("building at (%d,%d) out of bounds", bc.X, bc.Z)
		}
		b := entity.NewBuilding(tier, at)
		w.Buildings[b.ID] = b
		if bc.Block > 0 {
			members[bc.Block] = append(members[bc.Block], b.ID)
			tiers[bc.Block] = tier
		}
	}

	for num, ids := range members {
		block := entity.NewBuildingBlock(tiers[num], ids)
		w.Blocks[block.ID] = block
		for _, id := range ids {
			w.Buildings[id].BlockID = block.ID
		}
	}
	return nil
}

func buildingTierFromString(s string) (entity.BuildingTier, bool) {
	for t := entity.BuildingTier(0); t < entity.TierCount; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return entity.TierResidential, false
}

// RunFast advances one fast tick: movement, combat, capture, construction
// completion, production, in that order.
func (w *World) RunFast(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Tick++
	for _, u := range w.Units {
		u.BeginTick()
	}
	w.fast.Update(float32(dt))
}

// RunSlow advances one slow tick: ephemeral decay and the builder loop.
func (w *World) RunSlow(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.slow.Update(float32(dt))
}

// RunEconomy advances one economy tick.
func (w *World) RunEconomy(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.economy.Update(float32(dt))
}

// CurrentTick returns the fast tick counter
func (w *World) CurrentTick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.Tick
}

// unitAt reports whether any living unit outside the exclusion set
// occupies a tile. Used for group-move allocation and spawn placement.
func (w *World) unitAt(c grid.TileCoord, exclude map[entity.ID]bool) bool {
	for id, u := range w.Units {
		if !u.Alive() || exclude[id] {
			continue
		}
		if u.GridPos() == c {
			return true
		}
	}
	return false
}

// buildingAt returns the building occupying a tile, if any
func (w *World) buildingAt(c grid.TileCoord) *entity.Building {
	for _, b := range w.Buildings {
		if b.Coord() == c {
			return b
		}
	}
	return nil
}

// structureAt returns the structure occupying a tile, if any
func (w *World) structureAt(c grid.TileCoord) *entity.Structure {
	for _, s := range w.Structures {
		if s.Pos == c {
			return s
		}
	}
	return nil
}

// blockWhollyOwned reports whether every building in a block shares one
// non-neutral owner, returning that owner. Ownership is derived from the
// members, never stored on the block.
func (w *World) blockWhollyOwned(block *entity.BuildingBlock) (entity.Faction, bool) {
	owner := entity.FactionNeutral
	for _, id := range block.BuildingIDs {
		b, ok := w.Buildings[id]
		if !ok {
			return entity.FactionNeutral, false
		}
		if b.Owner == entity.FactionNeutral {
			return entity.FactionNeutral, false
		}
		if owner == entity.FactionNeutral {
			owner = b.Owner
		} else if owner != b.Owner {
			return entity.FactionNeutral, false
		}
	}
	return owner, owner != entity.FactionNeutral
}

// removeUnit retires a dead unit from the store and publishes its death
func (w *World) removeUnit(id entity.ID) {
	u, ok := w.Units[id]
	if !ok {
		return
	}
	u.Active = false
	delete(w.Units, id)
	w.Events.Publish(event.NewUnitEvent(event.UnitDestroyed, w, uint64(id), u.Faction.String()))
}
