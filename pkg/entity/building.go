// pkg/entity/building.go
package entity

import (
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// BuildingTier is the economic classification of a city building
type BuildingTier int

const (
	TierResidential BuildingTier = iota
	TierCommercial
	TierIndustrial
	TierTower
	TierServerNode

	TierCount
)

// TierStats contains the fixed economics for a building tier
type TierStats struct {
	Name string
	// BaseIncome is resources granted per economy tick while owned.
	BaseIncome float64
	// CaptureSpeed is progress gained per unit of net capture power per
	// tick. Cheaper tiers flip faster.
	CaptureSpeed float64
}

var tierStats = [TierCount]TierStats{
	TierResidential: {Name: "residential", BaseIncome: 2, CaptureSpeed: 20},
	TierCommercial:  {Name: "commercial", BaseIncome: 4, CaptureSpeed: 12},
	TierIndustrial:  {Name: "industrial", BaseIncome: 6, CaptureSpeed: 8},
	TierTower:       {Name: "tower", BaseIncome: 10, CaptureSpeed: 5},
	TierServerNode:  {Name: "server_node", BaseIncome: 8, CaptureSpeed: 4},
}

// Stats returns the tier table entry
func (t BuildingTier) Stats() TierStats {
	if t < 0 || t >= TierCount {
		return tierStats[TierResidential]
	}
	return tierStats[t]
}

// String returns the tier's canonical name
func (t BuildingTier) String() string {
	return t.Stats().Name
}

// maxCaptureProgress is the progress value at which ownership flips
const maxCaptureProgress = 100.0

// Building is a capturable city building
type Building struct {
	ID              ID
	GridX           int
	GridZ           int
	Tier            BuildingTier
	Owner           Faction
	CapturingTeam   Faction
	CaptureProgress float64
	BlockID         ID
}

// NewBuilding creates an unowned building at a tile
func NewBuilding(tier BuildingTier, at grid.TileCoord) *Building {
	return &Building{
		ID:    GenerateID(),
		GridX: at.X,
		GridZ: at.Z,
		Tier:  tier,
		Owner: FactionNeutral,
	}
}

// Coord returns the building's tile
func (b *Building) Coord() grid.TileCoord {
	return grid.TileCoord{X: b.GridX, Z: b.GridZ}
}

// CaptureResult describes the outcome of one capture tick
type CaptureResult struct {
	OwnerChanged bool
	NewOwner     Faction
	OldOwner     Faction
}

// AdvanceCapture runs one tick of the capture state machine. dominant is
// the faction with strictly greater adjacent capture power this tick
// (FactionNeutral when tied or nobody is adjacent), netPower the absolute
// power difference, anyAdjacentPower whether any nonzero capture power was
// adjacent at all, and idleDecay the fixed per-tick decay applied when the
// building sits uncontested with partial progress.
func (b *Building) AdvanceCapture(dominant Faction, netPower float64, anyAdjacentPower bool, idleDecay float64) CaptureResult {
	switch {
	case dominant == FactionNeutral:
		// Tied or empty. Progress only bleeds off when nobody is adjacent.
		if !anyAdjacentPower && b.CaptureProgress > 0 && b.CapturingTeam != FactionNeutral {
			b.reduceProgress(idleDecay)
		}

	case dominant == b.Owner:
		// The owner pushing back an earlier contest.
		if b.CaptureProgress > 0 {
			b.reduceProgress(netPower * b.Tier.Stats().CaptureSpeed)
		}

	case b.CapturingTeam == FactionNeutral || b.CapturingTeam == dominant:
		// Fresh or continued capture attempt by the dominant side.
		b.CapturingTeam = dominant
		b.CaptureProgress += netPower * b.Tier.Stats().CaptureSpeed
		if b.CaptureProgress >= maxCaptureProgress {
			old := b.Owner
			b.Owner = dominant
			b.CaptureProgress = 0
			b.CapturingTeam = FactionNeutral
			return CaptureResult{OwnerChanged: true, NewOwner: dominant, OldOwner: old}
		}

	default:
		// The other faction had a claim in progress; the contest flips it
		// back toward zero without ever changing ownership.
		b.reduceProgress(netPower * b.Tier.Stats().CaptureSpeed)
	}
	return CaptureResult{}
}

// reduceProgress lowers capture progress toward zero, clearing the
// capturing team at the floor. Ownership never changes on the decay path.
func (b *Building) reduceProgress(amount float64) {
	b.CaptureProgress -= amount
	if b.CaptureProgress <= 0 {
		b.CaptureProgress = 0
		b.CapturingTeam = FactionNeutral
	}
}
