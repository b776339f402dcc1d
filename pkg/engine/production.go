package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// ammoLoadKey tracks the tick a missile round started loading into a unit
const ammoLoadKey = "ammo_load"

// ProductionSystem advances structure fabrication and the loaded-ammo
// state machine each fast tick. Finished units spawn on the nearest open
// tile next to their factory; finished ordnance raises the faction
// stockpile, which feeds missile-capable units.
type ProductionSystem struct {
	world *World
}

// Priority orders the system last within the fast tick.
func (p *ProductionSystem) Priority() int { return 60 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (p *ProductionSystem) Remove(ecs.BasicEntity) {}

// Update runs one production tick
func (p *ProductionSystem) Update(dt float32) {
	step := float64(dt)

	for _, s := range p.world.Structures {
		done, finished := s.AdvanceProduction(step)
		if !finished {
			continue
		}
		if done.Ordnance {
			if team, ok := p.world.Teams[s.Faction]; ok {
				team.Ordnance++
			}
			continue
		}
		p.spawnUnit(s, done.UnitItem)
	}

	p.advanceAmmo()
}

// spawnUnit places a freshly produced unit on the nearest open tile around
// its factory.
func (p *ProductionSystem) spawnUnit(s *entity.Structure, unitType entity.UnitType) {
	at, ok := p.world.Grid.NearestOpenNeighbor(s.Pos, func(c grid.TileCoord) bool {
		return p.world.unitAt(c, nil)
	})
	if !ok {
		// No open tile anywhere near the factory; the unit is lost.
		return
	}
	u := entity.NewUnit(s.Faction, unitType, at)
	p.world.Units[u.ID] = u
	p.world.Events.Publish(event.NewUnitEvent(event.UnitCreated, p.world, uint64(u.ID), u.Faction.String()))
}

// advanceAmmo walks every missile-capable unit through empty → loading →
// armed, drawing rounds from the faction stockpile. A loading unit cannot
// move until the round is seated.
func (p *ProductionSystem) advanceAmmo() {
	rules := p.world.Rules
	loadTicks := secondsToFastTicks(rules.AmmoLoadSeconds, rules.FastTickMs)

	for _, u := range p.world.Units {
		if !u.Alive() || u.Type != entity.Lancer {
			continue
		}

		switch u.Ammo {
		case entity.AmmoEmpty, entity.AmmoAwaitingDelivery:
			team, ok := p.world.Teams[u.Faction]
			if !ok {
				continue
			}
			if team.Ordnance <= 0 {
				u.Ammo = entity.AmmoAwaitingDelivery
				continue
			}
			team.Ordnance--
			u.Ammo = entity.AmmoLoading
			u.Cooldowns[ammoLoadKey] = p.world.Tick

		case entity.AmmoLoading:
			if p.world.Tick-u.Cooldowns[ammoLoadKey] >= uint64(loadTicks) {
				u.Ammo = entity.AmmoArmed
			}
		}
	}
}

// secondsToFastTicks converts a duration in seconds to fast-tick counts,
// never below one tick.
func secondsToFastTicks(seconds float64, fastTickMs int) int {
	ticks := int(seconds * 1000 / float64(fastTickMs))
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}
