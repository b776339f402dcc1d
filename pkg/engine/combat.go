package engine

import (
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

// buildingHeight is the vertical extent of the city-building hit envelope
const buildingHeight = 3.0

// Turret fire control
const (
	turretRange         = 5.0
	turretDamage        = 12.0
	turretCooldownTicks = 10
	turretMuzzleSpeed   = 50.0 // tiles per second
)

// CombatSystem resolves projectiles, automated defenses, auto-attacks, and
// lingering cloud damage each fast tick, then removes the dead. It runs
// after movement and before capture, so a unit killed this tick exerts no
// capture power this tick.
type CombatSystem struct {
	world *World
}

// Priority orders the system within the fast tick, after movement.
func (c *CombatSystem) Priority() int { return 90 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (c *CombatSystem) Remove(ecs.BasicEntity) {}

// Update runs one combat tick
func (c *CombatSystem) Update(dt float32) {
	step := float64(dt)

	c.runTurrets()
	c.advanceDirectFire(step)
	c.advanceBallistics(step)
	c.runGuardDrones()
	c.runAutoAttacks()
	c.applyCloudDamage()
	c.removeDead()

	for id, p := range c.world.Projectiles {
		if !p.Active {
			delete(c.world.Projectiles, id)
		}
	}
}

// runTurrets makes each completed turret fire a direct round at the
// nearest enemy unit in range, lowest id on ties.
func (c *CombatSystem) runTurrets() {
	for _, s := range c.world.Structures {
		if s.Type != entity.StructureTurret || s.IsBlueprint {
			continue
		}
		last := c.world.turretLastFire[s.ID]
		if last != 0 && c.world.Tick-last < turretCooldownTicks {
			continue
		}

		center := s.Pos.Center()
		var target *entity.Unit
		bestDist := turretRange
		for _, u := range c.world.Units {
			if !u.Alive() || u.Faction == s.Faction {
				continue
			}
			d := center.Distance(u.Position)
			if d > bestDist {
				continue
			}
			if d < bestDist || target == nil || u.ID < target.ID {
				target = u
				bestDist = d
			}
		}
		if target == nil {
			continue
		}

		origin := physics.Vector3{X: center.X, Y: 1, Z: center.Z}
		dir := target.Position.Sub(center).Normalize()
		vel := physics.Vector3{X: dir.X * turretMuzzleSpeed, Y: 0, Z: dir.Z * turretMuzzleSpeed}
		p := entity.NewDirectFire(s.ID, s.Faction, origin, vel, turretDamage,
			c.world.Rules.UnitHitRadius, turretRange)
		c.world.Projectiles[p.ID] = p
		c.world.turretLastFire[s.ID] = c.world.Tick
	}
}

// advanceDirectFire steps each direct-fire round in fixed sub-steps,
// checking range exhaustion, building envelopes, and unit proximity at
// every sub-step.
func (c *CombatSystem) advanceDirectFire(dt float64) {
	rules := c.world.Rules

	for _, p := range c.world.Projectiles {
		if !p.Active || p.Ballistic {
			continue
		}

		remaining := p.Velocity.Length() * dt
		for remaining > 0 && p.Active {
			stepLen := rules.DirectFireStep
			if stepLen > remaining {
				stepLen = remaining
			}
			remaining -= stepLen

			if p.AdvanceDirect(stepLen) {
				// Travel budget exhausted: a clean miss, no detonation.
				break
			}
			if s, hit := c.solidImpact(p); hit {
				c.detonate(p, p.Position)
				if s != nil {
					c.damageStructure(s, p.Damage)
				}
			} else if c.impactsUnit(p) {
				c.detonate(p, p.Position)
			}
		}
	}
}

// solidImpact checks the projectile position against building and
// completed-structure hit envelopes. A structure hit also returns the
// struck structure so the round can damage it.
func (c *CombatSystem) solidImpact(p *entity.Projectile) (*entity.Structure, bool) {
	for _, b := range c.world.Buildings {
		box := physics.Box{Center: b.Coord().Center(), Half: 0.5, Height: buildingHeight}
		if box.ContainsPoint(p.Position) {
			return nil, true
		}
	}
	for _, s := range c.world.Structures {
		if s.IsBlueprint || s.ID == p.OwnerID {
			continue
		}
		box := physics.Box{Center: s.Pos.Center(), Half: 0.5, Height: s.Type.Stats().Height}
		if box.ContainsPoint(p.Position) {
			return s, true
		}
	}
	return nil, false
}

// damageStructure applies a direct hit to a completed structure, tearing
// it down and unblocking its tile when the health pool is exhausted.
func (c *CombatSystem) damageStructure(s *entity.Structure, damage float64) {
	if !s.TakeDamage(damage) {
		return
	}
	if s.Blocks() {
		c.world.Grid.SetBlocked(s.Pos, false)
	}
	delete(c.world.Structures, s.ID)
	delete(c.world.announced, s.ID)
	delete(c.world.turretLastFire, s.ID)
	c.world.Events.Publish(event.NewStructureEvent(event.StructureDestroyed, c.world,
		uint64(s.ID), s.Faction.String()))
}

// impactsUnit checks planar proximity to any living enemy unit
func (c *CombatSystem) impactsUnit(p *entity.Projectile) bool {
	for _, u := range c.world.Units {
		if !u.Alive() || u.Faction == p.Faction {
			continue
		}
		if p.Position.Planar().Distance(u.Position) < c.world.Rules.UnitHitRadius {
			return true
		}
	}
	return false
}

// advanceBallistics flies each missile through its phase machine; a
// detonation spawns a gas cloud at the target tile plus the damage event.
func (c *CombatSystem) advanceBallistics(dt float64) {
	rules := c.world.Rules

	for _, p := range c.world.Projectiles {
		if !p.Active || !p.Ballistic {
			continue
		}
		if !p.AdvanceBallistic(dt) {
			continue
		}

		cloud := entity.NewCloud(entity.CloudGas, p.Target, rules.CloudRadius,
			time.Duration(rules.CloudSeconds*float64(time.Second)), rules.CloudTickDamage)
		c.world.Clouds[cloud.ID] = cloud
		c.world.Events.Publish(event.NewUnitEvent(event.CloudSpawned, c.world, uint64(cloud.ID), p.Faction.String()))

		impact := physics.Vector3{X: float64(p.Target.X), Y: 0, Z: float64(p.Target.Z)}
		c.detonate(p, impact)
	}
}

// detonate ends a projectile's flight: explosion marker, linear-falloff
// area damage excluding the owning faction, and an impact event.
func (c *CombatSystem) detonate(p *entity.Projectile, at physics.Vector3) {
	rules := c.world.Rules
	p.Active = false

	exp := entity.NewExplosion(at, rules.BlastRadius,
		time.Duration(rules.ExplosionSeconds*float64(time.Second)))
	c.world.Explosions[exp.ID] = exp

	c.applyAreaDamage(at.Planar(), p.Damage, rules.BlastRadius, p.Faction)
	c.world.Events.Publish(event.NewImpactEvent(c.world, uint64(p.ID), at.X, at.Z))
}

// applyAreaDamage damages every enemy unit within the blast radius, scaled
// linearly from full at the center to zero at the boundary.
func (c *CombatSystem) applyAreaDamage(center physics.Vector2D, damage, radius float64, owner entity.Faction) {
	for _, u := range c.world.Units {
		if !u.Alive() || u.Faction == owner {
			continue
		}
		d := center.Distance(u.Position)
		if d >= radius {
			continue
		}
		u.TakeDamage(damage * (1 - d/radius))
	}
}

// runGuardDrones operates the automated defense on each owned server node.
// A drone engages the lowest-id enemy unit inside its range that is
// contesting the guarded building; close-combat classes fight back with a
// flat retaliation hit even though the drone never aims at them.
func (c *CombatSystem) runGuardDrones() {
	rules := c.world.Rules

	for _, b := range c.world.Buildings {
		if b.Tier != entity.TierServerNode {
			continue
		}
		if b.Owner == entity.FactionNeutral {
			delete(c.world.drones, b.ID)
			continue
		}
		drone, ok := c.world.drones[b.ID]
		if !ok {
			drone = &guardDrone{BuildingID: b.ID, Health: rules.DroneHealth}
			c.world.drones[b.ID] = drone
		}
		if drone.Health <= 0 {
			// A downed drone stays down until ownership changes.
			continue
		}

		target := c.droneTarget(b)
		if target == nil {
			continue
		}
		target.TakeDamage(rules.DroneDamage)
		if target.Stats.Class.RetaliatesAgainstDrones() {
			drone.Health -= rules.DroneRetaliation
		}
	}
}

// droneTarget picks the lowest-id enemy unit within drone range that is
// contesting the building's capture.
func (c *CombatSystem) droneTarget(b *entity.Building) *entity.Unit {
	center := b.Coord().Center()
	var best *entity.Unit
	for _, u := range c.world.Units {
		if !u.Alive() || u.Faction != b.Owner.Opponent() {
			continue
		}
		if u.CapturePower() <= 0 {
			continue
		}
		if center.ChebyshevDistance(u.Position) > captureAdjacency {
			continue
		}
		if center.Distance(u.Position) > c.world.Rules.DroneRange {
			continue
		}
		if best == nil || u.ID < best.ID {
			best = u
		}
	}
	return best
}

// runAutoAttacks fires every armed archetype whose cooldown has elapsed at
// its nearest living enemy. Target selection is deterministic: nearest by
// Euclidean distance, lowest id on ties.
func (c *CombatSystem) runAutoAttacks() {
	for _, u := range c.world.Units {
		if !u.Alive() || u.Stats.AttackDamage <= 0 {
			continue
		}
		if u.LastAttackTick != 0 && c.world.Tick-u.LastAttackTick < uint64(u.Stats.AttackCooldown) {
			continue
		}

		attackRange := u.Stats.AttackRange
		if u.Deployed {
			attackRange += 1
		}

		target := c.nearestEnemy(u, attackRange)
		if target == nil {
			continue
		}
		target.TakeDamage(u.Stats.AttackDamage)
		u.LastAttackTick = c.world.Tick
	}
}

// nearestEnemy returns the closest living enemy within range, breaking
// distance ties by lowest unit id.
func (c *CombatSystem) nearestEnemy(u *entity.Unit, attackRange float64) *entity.Unit {
	var best *entity.Unit
	bestDist := attackRange
	for _, other := range c.world.Units {
		if !other.Alive() || other.Faction == u.Faction || other.ID == u.ID {
			continue
		}
		d := u.Position.Distance(other.Position)
		if d > bestDist {
			continue
		}
		if d < bestDist || best == nil || other.ID < best.ID {
			best = other
			bestDist = d
		}
	}
	return best
}

// applyCloudDamage ticks gas damage on every unit standing inside a cloud
func (c *CombatSystem) applyCloudDamage() {
	for _, cloud := range c.world.Clouds {
		if cloud.Type != entity.CloudGas {
			continue
		}
		for _, u := range c.world.Units {
			if !u.Alive() {
				continue
			}
			if cloud.Contains(u.Position) {
				u.TakeDamage(cloud.TickDamage)
			}
		}
	}
}

// removeDead retires every unit whose health reached zero after all damage
// for the tick was applied, before capture resolves.
func (c *CombatSystem) removeDead() {
	for id, u := range c.world.Units {
		if u.Health <= 0 {
			c.world.removeUnit(id)
		}
	}
}
