// pkg/entity/unit.go
package entity

import (
	"time"

	"github.com/opd-ai/go-gridwar/pkg/grid"
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

// AmmoState is the loaded-ordnance state machine for missile-capable units
type AmmoState int

const (
	AmmoEmpty AmmoState = iota
	AmmoAwaitingDelivery
	AmmoLoading
	AmmoArmed
)

// String returns a human-readable ammo state name
func (a AmmoState) String() string {
	switch a {
	case AmmoAwaitingDelivery:
		return "awaiting_delivery"
	case AmmoLoading:
		return "loading"
	case AmmoArmed:
		return "armed"
	default:
		return "empty"
	}
}

// Orbit is the loitering state for a unit in surveillance mode
type Orbit struct {
	Center  physics.Vector2D
	Radius  float64
	Angle   float64
	OnPoint bool // true once the unit has reached the center and circles it
}

// Unit is a mobile entity on the city grid
type Unit struct {
	ID      ID
	Faction Faction
	Type    UnitType
	Stats   UnitStats

	Position  physics.Vector2D
	Path      []grid.TileCoord
	Health    float64
	MaxHealth float64

	Battery float64

	// Cooldowns maps ability name to the fast tick it was last used.
	Cooldowns map[string]uint64

	Deployed       bool
	DampenerActive bool
	JammerActive   bool
	Jammed         bool

	Cargo float64
	Ammo  AmmoState

	Surveillance *Orbit

	LastAttackTick uint64
	Created        time.Time
	Active         bool

	// consumedWaypoint guards against re-consuming the same waypoint when
	// the arrival check passes on consecutive sub-steps of one tick.
	consumedWaypoint *grid.TileCoord
}

// NewUnit creates a unit of the given archetype at a tile
func NewUnit(faction Faction, unitType UnitType, at grid.TileCoord) *Unit {
	stats := Stats(unitType)
	return &Unit{
		ID:        GenerateID(),
		Faction:   faction,
		Type:      unitType,
		Stats:     stats,
		Position:  at.Center(),
		Health:    stats.MaxHealth,
		MaxHealth: stats.MaxHealth,
		Battery:   stats.MaxBattery,
		Cooldowns: make(map[string]uint64),
		Created:   time.Now(),
		Active:    true,
	}
}

// Alive reports whether the unit still participates in the simulation
func (u *Unit) Alive() bool {
	return u.Active && u.Health > 0
}

// TakeDamage reduces health and reports whether the unit was destroyed
func (u *Unit) TakeDamage(amount float64) bool {
	u.Health -= amount
	return u.Health <= 0
}

// CapturePower returns the unit's contribution to contesting an adjacent
// building. Dead units contribute nothing.
func (u *Unit) CapturePower() float64 {
	if !u.Alive() {
		return 0
	}
	return u.Stats.CaptureMultiplier
}

// GridPos returns the tile the unit currently occupies
func (u *Unit) GridPos() grid.TileCoord {
	return grid.CoordFromPosition(u.Position)
}

// SetPath atomically replaces the unit's reserved path and discards any
// surveillance or waypoint-consumption state from the previous order.
func (u *Unit) SetPath(path []grid.TileCoord) {
	u.Path = path
	u.Surveillance = nil
	u.consumedWaypoint = nil
}

// NextWaypoint returns the head of the reserved path
func (u *Unit) NextWaypoint() (grid.TileCoord, bool) {
	if len(u.Path) == 0 {
		return grid.TileCoord{}, false
	}
	return u.Path[0], true
}

// ConsumeWaypoint pops the head waypoint. Consumption is idempotent per
// waypoint: a second call for the same coordinate within a tick is a no-op.
func (u *Unit) ConsumeWaypoint(wp grid.TileCoord) bool {
	if len(u.Path) == 0 || u.Path[0] != wp {
		return false
	}
	if u.consumedWaypoint != nil && *u.consumedWaypoint == wp {
		return false
	}
	consumed := wp
	u.consumedWaypoint = &consumed
	u.Path = u.Path[1:]
	return true
}

// BeginTick clears per-tick movement bookkeeping
func (u *Unit) BeginTick() {
	u.consumedWaypoint = nil
}

// AbilityReady reports whether an ability's cooldown has elapsed
func (u *Unit) AbilityReady(name string, currentTick uint64, cooldownTicks int) bool {
	last, used := u.Cooldowns[name]
	if !used {
		return true
	}
	return currentTick-last >= uint64(cooldownTicks)
}

// MarkAbilityUsed records the tick an ability fired
func (u *Unit) MarkAbilityUsed(name string, currentTick uint64) {
	u.Cooldowns[name] = currentTick
}

// DrainBattery consumes battery charge and reports whether the full
// amount was available. A failed drain leaves the charge untouched.
func (u *Unit) DrainBattery(amount float64) bool {
	if u.Battery < amount {
		return false
	}
	u.Battery -= amount
	return true
}

// ChargeBattery restores battery up to the archetype maximum
func (u *Unit) ChargeBattery(amount float64) {
	u.Battery += amount
	if u.Battery > u.Stats.MaxBattery {
		u.Battery = u.Stats.MaxBattery
	}
}
