// pkg/entity/projectile.go
package entity

import (
	"github.com/opd-ai/go-gridwar/pkg/grid"
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

// Ballistic flight constants. World units are tiles.
const (
	MissileLaunchHeight   = 60.0
	MissileAscentSpeed    = 30.0
	MissileCruiseSpeed    = 40.0
	MissileDescentSpeed   = 50.0
	MissileImpactAltitude = 0.5
)

// MissilePhase is the flight phase of a ballistic projectile.
// Transitions are one-way: ascent, then cruise, then terminal.
type MissilePhase int

const (
	PhaseAscent MissilePhase = iota
	PhaseCruise
	PhaseTerminal
)

// String returns a human-readable phase name
func (p MissilePhase) String() string {
	switch p {
	case PhaseAscent:
		return "ascent"
	case PhaseCruise:
		return "cruise"
	default:
		return "terminal"
	}
}

// Projectile is a round in flight: either direct fire with a finite range,
// or a ballistic missile flying the three-phase profile toward a target tile.
type Projectile struct {
	ID       ID
	OwnerID  ID
	Faction  Faction
	Position physics.Vector3
	Velocity physics.Vector3
	Damage   float64
	Radius   float64
	Active   bool

	// Direct fire
	MaxDistance float64
	Travelled   float64

	// Ballistic
	Ballistic bool
	Target    grid.TileCoord
	Phase     MissilePhase
}

// NewDirectFire creates a direct-fire projectile with a travel budget
func NewDirectFire(ownerID ID, faction Faction, origin physics.Vector3, velocity physics.Vector3, damage, radius, maxDistance float64) *Projectile {
	return &Projectile{
		ID:          GenerateID(),
		OwnerID:     ownerID,
		Faction:     faction,
		Position:    origin,
		Velocity:    velocity,
		Damage:      damage,
		Radius:      radius,
		MaxDistance: maxDistance,
		Active:      true,
	}
}

// NewBallistic creates a missile at its launch tile, starting in ascent
func NewBallistic(ownerID ID, faction Faction, launch, target grid.TileCoord, damage float64) *Projectile {
	origin := launch.Center()
	return &Projectile{
		ID:        GenerateID(),
		OwnerID:   ownerID,
		Faction:   faction,
		Position:  physics.Vector3{X: origin.X, Y: 0, Z: origin.Z},
		Damage:    damage,
		Ballistic: true,
		Target:    target,
		Phase:     PhaseAscent,
		Active:    true,
	}
}

// AdvanceBallistic steps the missile's flight by dt seconds and reports
// whether it detonated this step. Phase transitions are irreversible.
func (p *Projectile) AdvanceBallistic(dt float64) bool {
	switch p.Phase {
	case PhaseAscent:
		p.Position.Y += MissileAscentSpeed * dt
		if p.Position.Y >= MissileLaunchHeight {
			p.Position.Y = MissileLaunchHeight
			p.Phase = PhaseCruise
		}

	case PhaseCruise:
		target := p.Target.Center()
		toTarget := target.Sub(p.Position.Planar())
		step := MissileCruiseSpeed * dt
		if toTarget.Length() < step {
			p.Position.X = target.X
			p.Position.Z = target.Z
			p.Phase = PhaseTerminal
			return false
		}
		move := toTarget.Normalize().Scale(step)
		p.Position.X += move.X
		p.Position.Z += move.Z

	case PhaseTerminal:
		p.Position.Y -= MissileDescentSpeed * dt
		if p.Position.Y <= MissileImpactAltitude {
			p.Active = false
			return true
		}
	}
	return false
}

// AdvanceDirect moves a direct-fire projectile by one sub-step and reports
// whether it exhausted its travel budget.
func (p *Projectile) AdvanceDirect(stepLen float64) bool {
	dir := p.Velocity.Normalize()
	p.Position = p.Position.Add(dir.Scale(stepLen))
	p.Travelled += stepLen
	if p.Travelled >= p.MaxDistance {
		p.Active = false
		return true
	}
	return false
}
