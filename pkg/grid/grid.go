// pkg/grid/grid.go
package grid

import (
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

// TileClass categorizes a tile by its base traffic tier
type TileClass int

const (
	ClassMain TileClass = iota
	ClassStreet
	ClassOpen
)

// SpeedMultiplier returns the movement multiplier for the tile class.
// Main roads are fast, streets neutral, open ground slow.
func (c TileClass) SpeedMultiplier() float64 {
	switch c {
	case ClassMain:
		return 2.0
	case ClassStreet:
		return 1.0
	default:
		return 0.5
	}
}

// String returns a human-readable name for the tile class
func (c TileClass) String() string {
	switch c {
	case ClassMain:
		return "main"
	case ClassStreet:
		return "street"
	default:
		return "open"
	}
}

// TileCoord identifies a tile on the city grid. Value semantics give it
// map-key hashing and equality for free; never encode coordinates as strings.
type TileCoord struct {
	X int
	Z int
}

// Center returns the planar position of the tile's center
func (c TileCoord) Center() physics.Vector2D {
	return physics.Vector2D{X: float64(c.X), Z: float64(c.Z)}
}

// CoordFromPosition returns the tile containing a planar position
func CoordFromPosition(p physics.Vector2D) TileCoord {
	round := func(v float64) int {
		if v >= 0 {
			return int(v + 0.5)
		}
		return int(v - 0.5)
	}
	return TileCoord{X: round(p.X), Z: round(p.Z)}
}

// Grid is the city map: one immutable class per coordinate plus a mutable
// blocked set tracking tiles occupied by structures or faction bases.
type Grid struct {
	Width   int
	Height  int
	classes []TileClass
	blocked map[TileCoord]bool
}

// NewGrid creates a grid of the given dimensions with every tile classed
// as open ground.
func NewGrid(width, height int) *Grid {
	classes := make([]TileClass, width*height)
	for i := range classes {
		classes[i] = ClassOpen
	}
	return &Grid{
		Width:   width,
		Height:  height,
		classes: classes,
		blocked: make(map[TileCoord]bool),
	}
}

// InBounds reports whether a coordinate lies on the grid
func (g *Grid) InBounds(c TileCoord) bool {
	return c.X >= 0 && c.X < g.Width && c.Z >= 0 && c.Z < g.Height
}

// SetClass assigns the tile class at a coordinate. Out-of-bounds writes
// are ignored.
func (g *Grid) SetClass(c TileCoord, class TileClass) {
	if !g.InBounds(c) {
		return
	}
	g.classes[c.Z*g.Width+c.X] = class
}

// ClassAt returns the tile class at a coordinate. Out-of-bounds tiles
// report as open ground.
func (g *Grid) ClassAt(c TileCoord) TileClass {
	if !g.InBounds(c) {
		return ClassOpen
	}
	return g.classes[c.Z*g.Width+c.X]
}

// SetBlocked marks or clears a tile as occupied by a structure or base.
// This is the navigable-set re-derivation hook: callers invoke it whenever
// a blocking structure is placed or removed so the pathfinder never sees a
// stale set.
func (g *Grid) SetBlocked(c TileCoord, blocked bool) {
	if blocked {
		g.blocked[c] = true
	} else {
		delete(g.blocked, c)
	}
}

// IsBlocked reports whether a tile is occupied by a blocking structure or base
func (g *Grid) IsBlocked(c TileCoord) bool {
	return g.blocked[c]
}

// IsNavigable reports whether a tile is in the navigable set: on the grid
// and not occupied by a blocking structure or base.
func (g *Grid) IsNavigable(c TileCoord) bool {
	return g.InBounds(c) && !g.blocked[c]
}

// Neighbors4 returns the cardinal neighbors of a coordinate, including
// out-of-bounds ones; callers filter with IsNavigable.
func (c TileCoord) Neighbors4() [4]TileCoord {
	return [4]TileCoord{
		{X: c.X + 1, Z: c.Z},
		{X: c.X - 1, Z: c.Z},
		{X: c.X, Z: c.Z + 1},
		{X: c.X, Z: c.Z - 1},
	}
}
