package engine

import (
	"fmt"
	"time"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// abilityBatteryCost maps ability name to its battery price
var abilityBatteryCost = map[string]float64{
	"surveillance": 10,
	"deploy":       5,
	"dampener":     5,
	"jammer":       10,
	"launch":       20,
	"smoke":        15,
	"decoy":        25,
}

// abilityCooldownTicks maps ability name to fast ticks between uses.
// Mode toggles carry no cooldown.
var abilityCooldownTicks = map[string]int{
	"launch": 50,
	"smoke":  30,
	"decoy":  100,
}

// IssueMove orders a group of units to a shared destination. Each unit is
// allocated its own nearby free tile; units whose allocation or path fails
// stay put. Issuing a new move atomically replaces any previous path or
// surveillance state.
func (w *World) IssueMove(faction entity.Faction, unitIDs []entity.ID, dest grid.TileCoord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.Grid.InBounds(dest) {
		return fmt.Errorf("destination (%d,%d): %w", dest.X, dest.Z, ErrInvalidTarget)
	}

	group := make(map[entity.ID]bool, len(unitIDs))
	var movers []*entity.Unit
	for _, id := range unitIDs {
		u, ok := w.Units[id]
		if !ok || !u.Alive() || u.Faction != faction {
			continue
		}
		group[id] = true
		movers = append(movers, u)
	}
	if len(movers) == 0 {
		return ErrInvalidTarget
	}

	targets := w.Grid.AllocateGroupDestinations(dest, len(movers), func(c grid.TileCoord) bool {
		return w.unitAt(c, group)
	})

	moved := 0
	budgetHit := false
	for i, u := range movers {
		if i >= len(targets) {
			break
		}
		target := targets[i]
		if u.Stats.Airborne {
			// Air units fly straight; the path is just the destination.
			u.SetPath([]grid.TileCoord{target})
			moved++
			continue
		}
		path, err := w.Grid.FindPath(u.GridPos(), target)
		if err != nil {
			budgetHit = true
			continue
		}
		if len(path) == 0 && u.GridPos() != target {
			continue
		}
		u.SetPath(path)
		moved++
	}

	if moved == 0 {
		if budgetHit {
			return ErrBudgetExceeded
		}
		return ErrNoPathFound
	}
	return nil
}

// IssueAbility triggers a unit ability, validated against ownership,
// archetype capability, battery cost, and cooldown. Invalid commands are
// rejected without side effects.
func (w *World) IssueAbility(faction entity.Faction, unitID entity.ID, ability string, targetTile *grid.TileCoord, targetUnit entity.ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	u, ok := w.Units[unitID]
	if !ok || !u.Alive() || u.Faction != faction {
		return ErrInvalidTarget
	}

	// A unit target stands in for a tile target.
	if targetUnit != 0 {
		tu, ok := w.Units[targetUnit]
		if !ok || !tu.Alive() {
			return ErrInvalidTarget
		}
		pos := tu.GridPos()
		targetTile = &pos
	}
	if targetTile != nil && !w.Grid.InBounds(*targetTile) {
		return fmt.Errorf("target (%d,%d): %w", targetTile.X, targetTile.Z, ErrInvalidTarget)
	}

	if cd, gated := abilityCooldownTicks[ability]; gated && !u.AbilityReady(ability, w.Tick, cd) {
		return fmt.Errorf("ability %q on cooldown: %w", ability, ErrInvalidTarget)
	}
	cost := abilityBatteryCost[ability]
	if u.Battery < cost {
		return fmt.Errorf("ability %q needs %.0f battery: %w", ability, cost, ErrInsufficientResources)
	}

	if err := w.dispatchAbility(u, ability, targetTile); err != nil {
		return err
	}

	u.DrainBattery(cost)
	if _, gated := abilityCooldownTicks[ability]; gated {
		u.MarkAbilityUsed(ability, w.Tick)
	}
	return nil
}

// dispatchAbility routes an ability to its archetype behavior. Battery and
// cooldown are already checked; this validates capability and targets.
func (w *World) dispatchAbility(u *entity.Unit, ability string, targetTile *grid.TileCoord) error {
	rules := w.Rules

	switch ability {
	case "surveillance":
		if !u.Stats.Airborne {
			return ErrInvalidTarget
		}
		if targetTile == nil {
			return ErrInvalidTarget
		}
		center := targetTile.Center()
		u.SetPath(nil)
		u.Surveillance = &entity.Orbit{Center: center, Radius: rules.SurveillanceRadius}

	case "deploy":
		if u.Stats.Class != entity.ClassArmor {
			return ErrInvalidTarget
		}
		u.Deployed = !u.Deployed
		if u.Deployed {
			u.SetPath(nil)
		}

	case "dampener":
		if u.Type != entity.Shade {
			return ErrInvalidTarget
		}
		u.DampenerActive = !u.DampenerActive

	case "jammer":
		if u.Type != entity.Jammer {
			return ErrInvalidTarget
		}
		u.JammerActive = !u.JammerActive

	case "launch":
		if u.Type != entity.Lancer {
			return ErrInvalidTarget
		}
		if targetTile == nil {
			return ErrInvalidTarget
		}
		if u.Ammo != entity.AmmoArmed {
			return fmt.Errorf("no armed round: %w", ErrInsufficientResources)
		}
		p := entity.NewBallistic(u.ID, u.Faction, u.GridPos(), *targetTile, rules.MissileDamage)
		w.Projectiles[p.ID] = p
		u.Ammo = entity.AmmoEmpty
		w.Events.Publish(event.NewUnitEvent(event.ProjectileFired, w, uint64(p.ID), u.Faction.String()))

	case "smoke":
		if u.Type != entity.Breacher {
			return ErrInvalidTarget
		}
		if targetTile == nil {
			return ErrInvalidTarget
		}
		cloud := entity.NewCloud(entity.CloudSmoke, *targetTile, rules.CloudRadius,
			time.Duration(rules.CloudSeconds*float64(time.Second)), 0)
		w.Clouds[cloud.ID] = cloud
		w.Events.Publish(event.NewUnitEvent(event.CloudSpawned, w, uint64(cloud.ID), u.Faction.String()))

	case "decoy":
		if u.Type != entity.Shade {
			return ErrInvalidTarget
		}
		at, ok := w.Grid.NearestOpenNeighbor(u.GridPos(), func(c grid.TileCoord) bool {
			return w.unitAt(c, nil)
		})
		if !ok {
			return ErrInvalidTarget
		}
		decoy := entity.NewUnit(u.Faction, entity.Decoy, at)
		w.Units[decoy.ID] = decoy
		w.Events.Publish(event.NewUnitEvent(event.UnitCreated, w, uint64(decoy.ID), decoy.Faction.String()))

	default:
		return fmt.Errorf("unknown ability %q: %w", ability, ErrInvalidTarget)
	}
	return nil
}

// IssueBuild places a structure blueprint, deducting the full cost up
// front. Walls and turrets block pathing immediately; other types block on
// completion.
func (w *World) IssueBuild(faction entity.Faction, structureType entity.StructureType, tile grid.TileCoord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	team, ok := w.Teams[faction]
	if !ok {
		return ErrInvalidTarget
	}
	if !w.Grid.InBounds(tile) || w.Grid.IsBlocked(tile) {
		return fmt.Errorf("tile (%d,%d) occupied: %w", tile.X, tile.Z, ErrInvalidTarget)
	}
	if w.buildingAt(tile) != nil || w.structureAt(tile) != nil {
		return fmt.Errorf("tile (%d,%d) occupied: %w", tile.X, tile.Z, ErrInvalidTarget)
	}

	cost := float64(structureType.Stats().Cost)
	if team.Resources < cost {
		return fmt.Errorf("%s costs %.0f: %w", structureType, cost, ErrInsufficientResources)
	}
	team.Resources -= cost

	s := entity.NewStructure(faction, structureType, tile)
	w.Structures[s.ID] = s
	if s.Blocks() {
		w.Grid.SetBlocked(tile, true)
	}
	w.Events.Publish(event.NewStructureEvent(event.StructurePlaced, w, uint64(s.ID), faction.String()))
	return nil
}

// IssueProduction starts fabricating a unit at a factory, or an ordnance
// round at a launch site when item is "ordnance". The full cost is
// deducted up front; a busy or unfinished structure rejects the order.
func (w *World) IssueProduction(faction entity.Faction, structureID entity.ID, item string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	team, ok := w.Teams[faction]
	if !ok {
		return ErrInvalidTarget
	}
	s, ok := w.Structures[structureID]
	if !ok || s.Faction != faction || s.IsBlueprint {
		return ErrInvalidTarget
	}

	rules := w.Rules
	if item == "ordnance" {
		if s.Type != entity.StructureLaunchSite {
			return ErrInvalidTarget
		}
		cost := float64(rules.OrdnanceCost)
		if team.Resources < cost {
			return fmt.Errorf("ordnance costs %.0f: %w", cost, ErrInsufficientResources)
		}
		if !s.StartProduction(entity.Rifleman, true, rules.OrdnanceProductionSeconds) {
			return ErrInvalidTarget
		}
		team.Resources -= cost
		return nil
	}

	unitType, ok := entity.UnitTypeFromString(item)
	if !ok || s.Type != entity.StructureFactory {
		return ErrInvalidTarget
	}
	cost := float64(entity.Stats(unitType).Cost)
	if team.Resources < cost {
		return fmt.Errorf("%s costs %.0f: %w", item, cost, ErrInsufficientResources)
	}
	if !s.StartProduction(unitType, false, rules.UnitProductionSeconds) {
		return ErrInvalidTarget
	}
	team.Resources -= cost
	return nil
}

// SetResources overrides a faction's resource pool. Debug only.
func (w *World) SetResources(faction entity.Faction, amount float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.Rules.EnableDebugCommands {
		return ErrDebugDisabled
	}
	team, ok := w.Teams[faction]
	if !ok {
		return ErrInvalidTarget
	}
	team.Resources = amount
	return nil
}

// SetCompute overrides a faction's injected compute bonus. Debug only.
func (w *World) SetCompute(faction entity.Faction, amount int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.Rules.EnableDebugCommands {
		return ErrDebugDisabled
	}
	team, ok := w.Teams[faction]
	if !ok {
		return ErrInvalidTarget
	}
	team.ComputeBonus = amount
	return nil
}
