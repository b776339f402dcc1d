// pkg/entity/structure.go
package entity

import (
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// StructureType enumerates the placeable faction structures
type StructureType int

const (
	StructureDepot StructureType = iota
	StructureFactory
	StructureLaunchSite
	StructureWall
	StructureTurret

	structureTypeCount
)

// StructureStats contains the fixed statistics for a structure type
type StructureStats struct {
	Name        string
	Cost        int
	MaxHealth   float64
	MaxProgress float64
	Height      float64
	// BlocksAsBlueprint marks structures that obstruct pathing even
	// before construction completes (walls and turrets).
	BlocksAsBlueprint bool
}

var structureStats = [structureTypeCount]StructureStats{
	StructureDepot:      {Name: "depot", Cost: 200, MaxHealth: 400, MaxProgress: 100, Height: 2},
	StructureFactory:    {Name: "factory", Cost: 300, MaxHealth: 500, MaxProgress: 150, Height: 3},
	StructureLaunchSite: {Name: "launch_site", Cost: 500, MaxHealth: 350, MaxProgress: 200, Height: 2},
	StructureWall:       {Name: "wall", Cost: 40, MaxHealth: 600, MaxProgress: 40, Height: 2, BlocksAsBlueprint: true},
	StructureTurret:     {Name: "turret", Cost: 150, MaxHealth: 300, MaxProgress: 80, Height: 3, BlocksAsBlueprint: true},
}

// Stats returns the structure type's table entry
func (t StructureType) Stats() StructureStats {
	if t < 0 || t >= structureTypeCount {
		return structureStats[StructureDepot]
	}
	return structureStats[t]
}

// String returns the structure type's canonical name
func (t StructureType) String() string {
	return t.Stats().Name
}

// StructureTypeFromString converts a canonical name to a StructureType
func StructureTypeFromString(s string) (StructureType, bool) {
	for i := StructureType(0); i < structureTypeCount; i++ {
		if structureStats[i].Name == s {
			return i, true
		}
	}
	return StructureDepot, false
}

// ProductionState is the ordnance/unit fabrication sub-state of a
// production structure
type ProductionState struct {
	Active    bool
	UnitItem  UnitType
	Ordnance  bool // true when fabricating a missile round instead of a unit
	Progress  float64
	TotalTime float64
}

// Structure is a faction-placed building: production, supply, or defense
type Structure struct {
	ID          ID
	Faction     Faction
	Type        StructureType
	Pos         grid.TileCoord
	IsBlueprint bool
	Progress    float64
	MaxProgress float64
	Health      float64
	MaxHealth   float64
	Production  *ProductionState
}

// NewStructure places a blueprint structure at a tile
func NewStructure(faction Faction, structureType StructureType, at grid.TileCoord) *Structure {
	stats := structureType.Stats()
	return &Structure{
		ID:          GenerateID(),
		Faction:     faction,
		Type:        structureType,
		Pos:         at,
		IsBlueprint: true,
		MaxProgress: stats.MaxProgress,
		Health:      stats.MaxHealth,
		MaxHealth:   stats.MaxHealth,
	}
}

// Blocks reports whether the structure currently obstructs pathfinding.
// Completed structures always block; blueprints block only for the wall
// and turret types.
func (s *Structure) Blocks() bool {
	if !s.IsBlueprint {
		return true
	}
	return s.Type.Stats().BlocksAsBlueprint
}

// AddProgress transfers construction work into the blueprint, clamped to
// the maximum, and reports whether construction completed this call.
func (s *Structure) AddProgress(amount float64) bool {
	if !s.IsBlueprint {
		return false
	}
	s.Progress += amount
	if s.Progress >= s.MaxProgress {
		s.Progress = s.MaxProgress
		s.IsBlueprint = false
		return true
	}
	return false
}

// TakeDamage reduces health and reports whether the structure was destroyed
func (s *Structure) TakeDamage(amount float64) bool {
	s.Health -= amount
	return s.Health <= 0
}

// StartProduction begins fabricating a unit or an ordnance round.
// Returns false if the structure is a blueprint or already producing.
func (s *Structure) StartProduction(item UnitType, ordnance bool, totalTime float64) bool {
	if s.IsBlueprint || (s.Production != nil && s.Production.Active) {
		return false
	}
	s.Production = &ProductionState{
		Active:    true,
		UnitItem:  item,
		Ordnance:  ordnance,
		TotalTime: totalTime,
	}
	return true
}

// AdvanceProduction moves fabrication forward and reports completion.
// The production sub-state clears itself when finished.
func (s *Structure) AdvanceProduction(dt float64) (ProductionState, bool) {
	if s.Production == nil || !s.Production.Active {
		return ProductionState{}, false
	}
	s.Production.Progress += dt
	if s.Production.Progress < s.Production.TotalTime {
		return ProductionState{}, false
	}
	done := *s.Production
	s.Production = nil
	return done, true
}
