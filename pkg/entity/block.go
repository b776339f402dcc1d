// pkg/entity/block.go
package entity

// BuildingBlock groups a contiguous cluster of same-tier buildings.
// Ownership is derived from the member buildings, never stored here.
type BuildingBlock struct {
	ID          ID
	Tier        BuildingTier
	BuildingIDs []ID
}

// NewBuildingBlock creates a block over the given building ids
func NewBuildingBlock(tier BuildingTier, buildingIDs []ID) *BuildingBlock {
	return &BuildingBlock{
		ID:          GenerateID(),
		Tier:        tier,
		BuildingIDs: buildingIDs,
	}
}

// Size returns the number of member buildings
func (b *BuildingBlock) Size() int {
	return len(b.BuildingIDs)
}

// minBlockSize is the smallest cluster that counts as a fortified block
const minBlockSize = 3

// BlockDefenseMultiplier returns the fortification divisor applied to
// enemy net capture power when a block is wholly owned. Pure function of
// block size.
func BlockDefenseMultiplier(size int) float64 {
	if size < minBlockSize {
		return 1.0
	}
	return 1.0 + 0.25*float64(size-minBlockSize+1)
}

// BlockIncomeMultiplier returns the income bonus for a wholly owned block.
// Pure function of block size.
func BlockIncomeMultiplier(size int) float64 {
	if size < minBlockSize {
		return 1.0
	}
	return 1.5
}
