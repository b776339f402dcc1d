package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// ConstructionSystem runs on the fast tick and applies completion side
// effects for structures whose blueprints finished: the tile joins the
// blocked set so the pathfinder never sees a stale navigable set, and the
// completion event fires exactly once.
type ConstructionSystem struct {
	world *World
}

// Priority orders the system within the fast tick, after capture.
func (c *ConstructionSystem) Priority() int { return 70 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (c *ConstructionSystem) Remove(ecs.BasicEntity) {}

// Update promotes finished blueprints
func (c *ConstructionSystem) Update(dt float32) {
	for id, s := range c.world.Structures {
		if s.IsBlueprint || c.world.announced[id] {
			continue
		}
		c.world.announced[id] = true
		c.world.Grid.SetBlocked(s.Pos, true)
		c.world.Events.Publish(event.NewStructureEvent(event.StructureCompleted, c.world,
			uint64(id), s.Faction.String()))
	}
}

// BuilderSystem runs the builder-cargo loop on the slow tick. An empty
// builder paths to its faction's depot and loads up on arrival; a loaded
// builder paths to the nearest unfinished friendly blueprint and transfers
// a fixed construction amount on arrival. When the exact target tile is
// unreachable the builder falls back to its nearest open neighbor.
type BuilderSystem struct {
	world *World
}

// Priority orders the system within the slow tick, after decay.
func (b *BuilderSystem) Priority() int { return 90 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (b *BuilderSystem) Remove(ecs.BasicEntity) {}

// Update runs one pass of the cargo loop over every builder
func (b *BuilderSystem) Update(dt float32) {
	for _, u := range b.world.Units {
		if !u.Alive() || !u.Stats.Builder {
			continue
		}
		if u.Cargo <= 0 {
			b.runLoadLeg(u)
		} else {
			b.runDeliveryLeg(u)
		}
	}
}

// runLoadLeg sends an empty builder to the depot and fills its cargo on
// arrival.
func (b *BuilderSystem) runLoadLeg(u *entity.Unit) {
	depot := b.nearestDepot(u)
	if depot == nil {
		return
	}

	if u.GridPos() == depot.Pos || arrivedAdjacent(u, depot.Pos) {
		u.Cargo = b.world.Rules.BuilderCargoMax
		u.SetPath(nil)
		return
	}
	b.pathToward(u, depot.Pos)
}

// runDeliveryLeg sends a loaded builder to the nearest friendly blueprint
// and transfers construction work on arrival.
func (b *BuilderSystem) runDeliveryLeg(u *entity.Unit) {
	target := b.nearestBlueprint(u)
	if target == nil {
		return
	}

	if u.GridPos() == target.Pos || arrivedAdjacent(u, target.Pos) {
		amount := b.world.Rules.BuilderTransferAmount
		if amount > u.Cargo {
			amount = u.Cargo
		}
		remaining := target.MaxProgress - target.Progress
		if amount > remaining {
			amount = remaining
		}
		target.AddProgress(amount)
		u.Cargo -= amount
		u.SetPath(nil)
		return
	}
	b.pathToward(u, target.Pos)
}

// pathToward reserves a path to a goal tile, falling back to the nearest
// open neighbor when the exact tile is occupied or unreachable.
func (b *BuilderSystem) pathToward(u *entity.Unit, goal grid.TileCoord) {
	if len(u.Path) > 0 {
		// Already en route from a previous slow tick.
		return
	}
	path, err := b.world.Grid.FindPath(u.GridPos(), goal)
	if err != nil || len(path) == 0 {
		open, ok := b.world.Grid.NearestOpenNeighbor(goal, func(c grid.TileCoord) bool {
			return b.world.unitAt(c, map[entity.ID]bool{u.ID: true})
		})
		if !ok {
			return
		}
		path, err = b.world.Grid.FindPath(u.GridPos(), open)
		if err != nil || len(path) == 0 {
			return
		}
	}
	u.SetPath(path)
}

// nearestDepot returns the closest completed friendly depot
func (b *BuilderSystem) nearestDepot(u *entity.Unit) *entity.Structure {
	var best *entity.Structure
	bestDist := 0.0
	for _, s := range b.world.Structures {
		if s.Faction != u.Faction || s.Type != entity.StructureDepot || s.IsBlueprint {
			continue
		}
		d := u.Position.Distance(s.Pos.Center())
		if best == nil || d < bestDist || (d == bestDist && s.ID < best.ID) {
			best = s
			bestDist = d
		}
	}
	return best
}

// nearestBlueprint returns the closest friendly blueprint below max progress
func (b *BuilderSystem) nearestBlueprint(u *entity.Unit) *entity.Structure {
	var best *entity.Structure
	bestDist := 0.0
	for _, s := range b.world.Structures {
		if s.Faction != u.Faction || !s.IsBlueprint || s.Progress >= s.MaxProgress {
			continue
		}
		d := u.Position.Distance(s.Pos.Center())
		if best == nil || d < bestDist || (d == bestDist && s.ID < best.ID) {
			best = s
			bestDist = d
		}
	}
	return best
}

// arrivedAdjacent reports whether a unit stands next to a tile, which
// counts as arrival for transfer purposes when the tile itself is blocked.
func arrivedAdjacent(u *entity.Unit, c grid.TileCoord) bool {
	return c.Center().ChebyshevDistance(u.Position) <= 1.0
}
