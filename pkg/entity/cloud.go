// pkg/entity/cloud.go
package entity

import (
	"time"

	"github.com/opd-ai/go-gridwar/pkg/grid"
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

// CloudType distinguishes damaging gas from concealing smoke
type CloudType int

const (
	CloudGas CloudType = iota
	CloudSmoke
)

// Cloud is a persistent area effect centered on a tile. Gas clouds damage
// units inside each fast tick; smoke conceals them. Clouds age out by
// wall-clock time on the slow tick.
type Cloud struct {
	ID       ID
	Type     CloudType
	Center   grid.TileCoord
	Radius   float64
	Duration time.Duration
	Created  time.Time
	// TickDamage applies to each unit inside a gas cloud per fast tick.
	TickDamage float64
}

// NewCloud creates a cloud at a tile
func NewCloud(cloudType CloudType, center grid.TileCoord, radius float64, duration time.Duration, tickDamage float64) *Cloud {
	return &Cloud{
		ID:         GenerateID(),
		Type:       cloudType,
		Center:     center,
		Radius:     radius,
		Duration:   duration,
		Created:    time.Now(),
		TickDamage: tickDamage,
	}
}

// Expired reports whether the cloud has aged out
func (c *Cloud) Expired(now time.Time) bool {
	return now.Sub(c.Created) >= c.Duration
}

// Contains reports whether a planar position lies inside the cloud.
// The position is treated as a zero-radius footprint against the cloud's
// circle, so a unit exactly on the boundary is outside.
func (c *Cloud) Contains(p physics.Vector2D) bool {
	footprint := physics.Circle{Center: c.Center.Center(), Radius: c.Radius}
	return footprint.Collides(physics.Circle{Center: p})
}

// Explosion is an ephemeral impact marker. Damage is applied once when the
// explosion is created; the entity exists only so collaborators can render
// and expire it.
type Explosion struct {
	ID       ID
	Position physics.Vector3
	Radius   float64
	Duration time.Duration
	Created  time.Time
}

// NewExplosion creates an explosion marker at an impact point
func NewExplosion(at physics.Vector3, radius float64, duration time.Duration) *Explosion {
	return &Explosion{
		ID:       GenerateID(),
		Position: at,
		Radius:   radius,
		Duration: duration,
		Created:  time.Now(),
	}
}

// Expired reports whether the explosion marker has aged out
func (e *Explosion) Expired(now time.Time) bool {
	return now.Sub(e.Created) >= e.Duration
}
