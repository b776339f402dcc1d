// pkg/entity/archetype.go
package entity

// UnitType enumerates the unit archetypes
type UnitType int

const (
	Rifleman UnitType = iota
	Ranger
	Vanguard
	Breacher
	Sentinel
	Goliath
	Engineer
	FieldCharger
	Jammer
	Shade
	Decoy
	Skywatch
	Gunship
	Courier
	Lancer

	unitTypeCount
)

// UnitClass groups archetypes by their combat role. Guard-drone
// retaliation applies to the infantry, melee, and armor classes.
type UnitClass int

const (
	ClassInfantry UnitClass = iota
	ClassMelee
	ClassArmor
	ClassAir
	ClassSupport
	ClassHeavy
)

// UnitStats contains the fixed statistics for a unit archetype
type UnitStats struct {
	Name              string
	Class             UnitClass
	MaxHealth         float64
	VisionRange       float64
	SpeedMod          float64
	CaptureMultiplier float64
	Cost              int
	AttackDamage      float64
	AttackRange       float64
	AttackCooldown    int // fast ticks between attacks
	MaxBattery        float64
	Airborne          bool
	Builder           bool
	SupportRadius     float64 // battery charge / jam radius for support types
}

// archetypes is the enum-indexed stat table. Behavior dispatch goes
// through Class and the boolean capability flags, never string compares.
var archetypes = [unitTypeCount]UnitStats{
	Rifleman:     {Name: "rifleman", Class: ClassInfantry, MaxHealth: 100, VisionRange: 6, SpeedMod: 1.0, CaptureMultiplier: 1.0, Cost: 50, AttackDamage: 8, AttackRange: 3, AttackCooldown: 10, MaxBattery: 100},
	Ranger:       {Name: "ranger", Class: ClassInfantry, MaxHealth: 80, VisionRange: 8, SpeedMod: 1.2, CaptureMultiplier: 1.0, Cost: 60, AttackDamage: 6, AttackRange: 4, AttackCooldown: 8, MaxBattery: 100},
	Vanguard:     {Name: "vanguard", Class: ClassInfantry, MaxHealth: 120, VisionRange: 6, SpeedMod: 1.0, CaptureMultiplier: 1.2, Cost: 90, AttackDamage: 10, AttackRange: 3, AttackCooldown: 10, MaxBattery: 100},
	Breacher:     {Name: "breacher", Class: ClassMelee, MaxHealth: 140, VisionRange: 4, SpeedMod: 1.1, CaptureMultiplier: 1.5, Cost: 80, AttackDamage: 15, AttackRange: 1.2, AttackCooldown: 12, MaxBattery: 100},
	Sentinel:     {Name: "sentinel", Class: ClassArmor, MaxHealth: 220, VisionRange: 7, SpeedMod: 0.8, CaptureMultiplier: 2.0, Cost: 150, AttackDamage: 20, AttackRange: 4, AttackCooldown: 15, MaxBattery: 100},
	Goliath:      {Name: "goliath", Class: ClassArmor, MaxHealth: 300, VisionRange: 6, SpeedMod: 0.6, CaptureMultiplier: 2.5, Cost: 220, AttackDamage: 30, AttackRange: 5, AttackCooldown: 20, MaxBattery: 100},
	Engineer:     {Name: "engineer", Class: ClassSupport, MaxHealth: 70, VisionRange: 5, SpeedMod: 0.9, CaptureMultiplier: 0, Cost: 70, MaxBattery: 100, Builder: true},
	FieldCharger: {Name: "field_charger", Class: ClassSupport, MaxHealth: 60, VisionRange: 5, SpeedMod: 1.0, CaptureMultiplier: 0, Cost: 90, MaxBattery: 100, SupportRadius: 3},
	Jammer:       {Name: "jammer", Class: ClassSupport, MaxHealth: 80, VisionRange: 6, SpeedMod: 0.9, CaptureMultiplier: 0, Cost: 110, MaxBattery: 100, SupportRadius: 4},
	Shade:        {Name: "shade", Class: ClassSupport, MaxHealth: 70, VisionRange: 7, SpeedMod: 1.0, CaptureMultiplier: 0, Cost: 100, MaxBattery: 100},
	Decoy:        {Name: "decoy", Class: ClassSupport, MaxHealth: 40, VisionRange: 3, SpeedMod: 1.2, CaptureMultiplier: 0, Cost: 30, MaxBattery: 100},
	Skywatch:     {Name: "skywatch", Class: ClassAir, MaxHealth: 90, VisionRange: 10, SpeedMod: 1.0, CaptureMultiplier: 0, Cost: 120, MaxBattery: 100, Airborne: true},
	Gunship:      {Name: "gunship", Class: ClassAir, MaxHealth: 150, VisionRange: 8, SpeedMod: 1.0, CaptureMultiplier: 0.5, Cost: 180, AttackDamage: 18, AttackRange: 4, AttackCooldown: 12, MaxBattery: 100, Airborne: true},
	Courier:      {Name: "courier", Class: ClassAir, MaxHealth: 100, VisionRange: 6, SpeedMod: 1.4, CaptureMultiplier: 0, Cost: 100, MaxBattery: 100, Airborne: true},
	Lancer:       {Name: "lancer", Class: ClassHeavy, MaxHealth: 180, VisionRange: 5, SpeedMod: 0.5, CaptureMultiplier: 0, Cost: 300, MaxBattery: 100},
}

// Stats returns the archetype table entry for a unit type
func Stats(t UnitType) UnitStats {
	if t < 0 || t >= unitTypeCount {
		return archetypes[Rifleman]
	}
	return archetypes[t]
}

// OverrideStats replaces an archetype's table entry. Used by the tuning
// loader at startup; not safe to call once the simulation is running.
func OverrideStats(t UnitType, stats UnitStats) {
	if t < 0 || t >= unitTypeCount {
		return
	}
	archetypes[t] = stats
}

// String returns the archetype's canonical name
func (t UnitType) String() string {
	return Stats(t).Name
}

// UnitTypeFromString converts a canonical name to a UnitType.
// Unknown names fall back to Rifleman.
func UnitTypeFromString(s string) (UnitType, bool) {
	for i := UnitType(0); i < unitTypeCount; i++ {
		if archetypes[i].Name == s {
			return i, true
		}
	}
	return Rifleman, false
}

// RetaliatesAgainstDrones reports whether an archetype class fights back
// when hit by a guard drone. The rule is the union of the close-combat
// classes: infantry, melee, and armor.
func (c UnitClass) RetaliatesAgainstDrones() bool {
	return c == ClassInfantry || c == ClassMelee || c == ClassArmor
}
