package engine

import (
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
)

// DecaySystem ages out the ephemeral entities on the slow tick: clouds,
// explosion markers, and decoy units past their lifetime.
type DecaySystem struct {
	world *World
}

// Priority orders the system first within the slow tick.
func (d *DecaySystem) Priority() int { return 100 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (d *DecaySystem) Remove(ecs.BasicEntity) {}

// Update expires ephemeral entities
func (d *DecaySystem) Update(dt float32) {
	now := time.Now()

	for id, cloud := range d.world.Clouds {
		if cloud.Expired(now) {
			delete(d.world.Clouds, id)
		}
	}

	for id, exp := range d.world.Explosions {
		if exp.Expired(now) {
			delete(d.world.Explosions, id)
		}
	}

	lifetime := time.Duration(d.world.Rules.DecoyLifetimeSeconds * float64(time.Second))
	for id, u := range d.world.Units {
		if u.Type != entity.Decoy {
			continue
		}
		if now.Sub(u.Created) >= lifetime {
			d.world.removeUnit(id)
		}
	}
}
