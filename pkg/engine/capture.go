package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
)

// captureAdjacency is the Chebyshev distance within which a unit contests
// a building.
const captureAdjacency = 1.5

// CaptureSystem resolves building ownership each fast tick. It runs after
// combat so the dead contribute no capture power.
type CaptureSystem struct {
	world *World
}

// Priority orders the system within the fast tick, after combat.
func (c *CaptureSystem) Priority() int { return 80 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (c *CaptureSystem) Remove(ecs.BasicEntity) {}

// Update runs one capture tick over every building
func (c *CaptureSystem) Update(dt float32) {
	for _, b := range c.world.Buildings {
		c.resolveBuilding(b)
	}
}

// resolveBuilding sums adjacent capture power per faction, derives the
// dominant side, applies the block fortification divisor when the
// building sits in a wholly owned block, and advances the state machine.
func (c *CaptureSystem) resolveBuilding(b *entity.Building) {
	center := b.Coord().Center()

	var bluePower, redPower float64
	for _, u := range c.world.Units {
		if !u.Alive() {
			continue
		}
		power := u.CapturePower()
		if power <= 0 {
			continue
		}
		if center.ChebyshevDistance(u.Position) > captureAdjacency {
			continue
		}
		switch u.Faction {
		case entity.FactionBlue:
			bluePower += power
		case entity.FactionRed:
			redPower += power
		}
	}

	dominant := entity.FactionNeutral
	net := bluePower - redPower
	switch {
	case net > 0:
		dominant = entity.FactionBlue
	case net < 0:
		dominant = entity.FactionRed
		net = -net
	}

	// Fortification: an attacker against a wholly owned block faces the
	// block's defense divisor.
	if dominant != entity.FactionNeutral && dominant != b.Owner && b.BlockID != 0 {
		if block, ok := c.world.Blocks[b.BlockID]; ok {
			if owner, whole := c.world.blockWhollyOwned(block); whole && owner == b.Owner {
				net /= entity.BlockDefenseMultiplier(block.Size())
			}
		}
	}

	anyPower := bluePower > 0 || redPower > 0
	result := b.AdvanceCapture(dominant, net, anyPower, c.world.Rules.IdleCaptureDecay)
	if !result.OwnerChanged {
		return
	}

	// Ownership change resets the guard drone on server nodes.
	if b.Tier == entity.TierServerNode {
		delete(c.world.drones, b.ID)
	}
	c.world.Events.Publish(event.NewBuildingEvent(event.BuildingCaptured, c.world,
		uint64(b.ID), result.NewOwner.String(), result.OldOwner.String()))
}
