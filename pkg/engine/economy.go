package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gridwar/pkg/entity"
)

// EconomySystem runs once per economy tick: building income with the
// wholly-owned-block multiplier, compute counting from owned server nodes,
// and the per-tier ownership counts reported to the presentation layer.
type EconomySystem struct {
	world *World
}

// Priority implements ecs ordering; the economy world has one system.
func (e *EconomySystem) Priority() int { return 100 }

// Remove implements ecs.System; the world owns entity lifecycle.
func (e *EconomySystem) Remove(ecs.BasicEntity) {}

// Update runs one economy tick
func (e *EconomySystem) Update(dt float32) {
	for _, team := range e.world.Teams {
		income := 0.0
		compute := 0

		for _, b := range e.world.Buildings {
			if b.Owner != team.Faction {
				continue
			}
			income += b.Tier.Stats().BaseIncome * e.incomeMultiplier(b)
			if b.Tier == entity.TierServerNode {
				compute++
			}
		}

		team.Income = income
		team.Resources += income
		team.Compute = compute + team.ComputeBonus
	}
}

// incomeMultiplier returns the block income bonus for a building sitting
// in a wholly owned block, 1.0 otherwise.
func (e *EconomySystem) incomeMultiplier(b *entity.Building) float64 {
	if b.BlockID == 0 {
		return 1.0
	}
	block, ok := e.world.Blocks[b.BlockID]
	if !ok {
		return 1.0
	}
	owner, whole := e.world.blockWhollyOwned(block)
	if !whole || owner != b.Owner {
		return 1.0
	}
	return entity.BlockIncomeMultiplier(block.Size())
}
