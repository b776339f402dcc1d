package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

// jammerUpkeep is the battery drain per fast tick while a jam field is up
const jammerUpkeep = 1.0

// MovementSystem advances every unit along its reserved path each fast
// tick. It runs before combat so positions are settled when targeting
// resolves.
type MovementSystem struct {
	world *World
}

// Priority orders the system within the fast tick. Movement runs first.
func (m *MovementSystem) Priority() int { return 100 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (m *MovementSystem) Remove(ecs.BasicEntity) {}

// Update runs one movement tick
func (m *MovementSystem) Update(dt float32) {
	step := float64(dt)
	m.applySupportFields()

	for _, u := range m.world.Units {
		if !u.Alive() {
			continue
		}
		if u.Surveillance != nil {
			m.advanceSurveillance(u, step)
			continue
		}
		m.advanceAlongPath(u, step)
	}
}

// applySupportFields recomputes jam status from scratch and runs battery
// chargers. Jam status is never sticky across ticks: a unit leaving the
// field recovers immediately.
func (m *MovementSystem) applySupportFields() {
	for _, u := range m.world.Units {
		u.Jammed = false
	}

	for _, support := range m.world.Units {
		if !support.Alive() || support.Stats.SupportRadius <= 0 {
			continue
		}

		switch {
		case support.JammerActive:
			if !support.DrainBattery(jammerUpkeep) {
				support.JammerActive = false
				continue
			}
			for _, target := range m.world.Units {
				if !target.Alive() || target.Faction == support.Faction {
					continue
				}
				if support.Position.Distance(target.Position) <= support.Stats.SupportRadius {
					target.Jammed = true
				}
			}

		case support.Type == entity.FieldCharger:
			for _, target := range m.world.Units {
				if !target.Alive() || target.Faction != support.Faction || target.ID == support.ID {
					continue
				}
				if support.Position.Distance(target.Position) <= support.Stats.SupportRadius {
					target.ChargeBattery(m.world.Rules.ChargerBatteryPerTick)
				}
			}
		}
	}
}

// advanceSurveillance moves a loitering unit: inbound toward the orbit
// center, then circling it. Orbiting units consume no waypoints.
func (m *MovementSystem) advanceSurveillance(u *entity.Unit, dt float64) {
	orbit := u.Surveillance
	rules := m.world.Rules

	if !orbit.OnPoint {
		speed := m.unitSpeed(u)
		travel := speed * dt
		toCenter := orbit.Center.Sub(u.Position)
		if toCenter.Length() <= travel {
			u.Position = orbit.Center.Add(physics.FromAngle(orbit.Angle, orbit.Radius))
			orbit.OnPoint = true
			return
		}
		u.Position = u.Position.Add(toCenter.Normalize().Scale(travel))
		return
	}

	orbit.Angle += rules.SurveillanceAngularSpeed * dt
	u.Position = orbit.Center.Add(physics.FromAngle(orbit.Angle, orbit.Radius))
}

// advanceAlongPath moves a unit toward its next waypoint, consuming the
// waypoint exactly once when arrival falls within this tick's travel.
func (m *MovementSystem) advanceAlongPath(u *entity.Unit, dt float64) {
	wp, ok := u.NextWaypoint()
	if !ok {
		return
	}

	speed := m.unitSpeed(u)
	if speed <= 0 {
		return
	}

	travel := speed * dt
	target := wp.Center()
	toTarget := target.Sub(u.Position)

	if toTarget.Length() <= travel {
		u.Position = target
		u.ConsumeWaypoint(wp)
		return
	}
	u.Position = u.Position.Add(toTarget.Normalize().Scale(travel))
}

// unitSpeed computes the effective speed in tiles per second: base speed,
// next-tile class multiplier, archetype modifier, then status modifiers.
// Airborne units ignore the tile class and get a flat boost.
func (m *MovementSystem) unitSpeed(u *entity.Unit) float64 {
	rules := m.world.Rules

	if u.Battery <= 0 {
		return 0
	}
	if u.Ammo == entity.AmmoLoading {
		return 0
	}
	if u.Deployed {
		return 0
	}

	speed := rules.BaseUnitSpeed * u.Stats.SpeedMod

	if u.Stats.Airborne {
		speed *= rules.AirSpeedBoost
	} else if wp, ok := u.NextWaypoint(); ok {
		speed *= m.world.Grid.ClassAt(wp).SpeedMultiplier()
	}

	if u.Jammed {
		speed *= rules.JammedSpeedFactor
	}
	if u.DampenerActive {
		speed *= rules.DampenerSlowFactor
	}
	return speed
}
