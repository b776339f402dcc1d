// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"
)

// ID is a unique identifier for an entity
type ID uint64

// GenerateID returns a process-unique entity identifier. Identity is
// delegated to the ecs package's atomic counter so ids are stable and
// monotonic across all entity kinds.
func GenerateID() ID {
	return ID(ecs.NewBasic().ID())
}

// Faction identifies which side an entity belongs to
type Faction int

const (
	FactionNeutral Faction = iota
	FactionBlue
	FactionRed
)

// String returns a human-readable faction name
func (f Faction) String() string {
	switch f {
	case FactionBlue:
		return "blue"
	case FactionRed:
		return "red"
	default:
		return "neutral"
	}
}

// Opponent returns the opposing playable faction. Neutral has no opponent.
func (f Faction) Opponent() Faction {
	switch f {
	case FactionBlue:
		return FactionRed
	case FactionRed:
		return FactionBlue
	default:
		return FactionNeutral
	}
}

// FactionFromString converts a string to a Faction value.
func FactionFromString(s string) Faction {
	switch s {
	case "blue":
		return FactionBlue
	case "red":
		return FactionRed
	default:
		return FactionNeutral
	}
}
