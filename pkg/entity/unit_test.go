// pkg/entity/unit_test.go
package entity

import (
	"testing"

	"github.com/opd-ai/go-gridwar/pkg/grid"
)

func TestNewUnit_ArchetypeStats(t *testing.T) {
	tests := []struct {
		utype       UnitType
		wantHealth  float64
		wantCapture float64
		wantClass   UnitClass
	}{
		{Rifleman, 100, 1.0, ClassInfantry},
		{Breacher, 140, 1.5, ClassMelee},
		{Goliath, 300, 2.5, ClassArmor},
		{Engineer, 70, 0, ClassSupport},
		{Gunship, 150, 0.5, ClassAir},
		{Lancer, 180, 0, ClassHeavy},
	}
	for _, tt := range tests {
		t.Run(tt.utype.String(), func(t *testing.T) {
			u := NewUnit(FactionBlue, tt.utype, grid.TileCoord{X: 1, Z: 1})
			if u.MaxHealth != tt.wantHealth {
				t.Errorf("MaxHealth: got %f, want %f", u.MaxHealth, tt.wantHealth)
			}
			if u.Stats.CaptureMultiplier != tt.wantCapture {
				t.Errorf("CaptureMultiplier: got %f, want %f", u.Stats.CaptureMultiplier, tt.wantCapture)
			}
			if u.Stats.Class != tt.wantClass {
				t.Errorf("Class: got %v, want %v", u.Stats.Class, tt.wantClass)
			}
		})
	}
}

func TestUnitTypeFromString_RoundTrip(t *testing.T) {
	for i := UnitType(0); i < unitTypeCount; i++ {
		got, ok := UnitTypeFromString(i.String())
		if !ok || got != i {
			t.Errorf("round trip failed for %v: got %v ok=%v", i, got, ok)
		}
	}
	if _, ok := UnitTypeFromString("no_such_type"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestUnit_CapturePower(t *testing.T) {
	u := NewUnit(FactionRed, Sentinel, grid.TileCoord{})
	if got := u.CapturePower(); got != 2.0 {
		t.Errorf("CapturePower: got %f, want 2.0", got)
	}

	u.TakeDamage(u.MaxHealth)
	if got := u.CapturePower(); got != 0 {
		t.Errorf("dead unit capture power: got %f, want 0", got)
	}
}

func TestUnit_WaypointConsumptionIdempotent(t *testing.T) {
	u := NewUnit(FactionBlue, Rifleman, grid.TileCoord{})
	u.SetPath([]grid.TileCoord{{X: 1, Z: 0}, {X: 2, Z: 0}})

	wp, ok := u.NextWaypoint()
	if !ok || wp != (grid.TileCoord{X: 1, Z: 0}) {
		t.Fatalf("NextWaypoint: got %+v ok=%v", wp, ok)
	}

	if !u.ConsumeWaypoint(wp) {
		t.Fatal("first consumption should succeed")
	}
	// A second distance-check pass in the same tick must not advance again.
	if u.ConsumeWaypoint(wp) {
		t.Error("repeat consumption of the same waypoint must be a no-op")
	}
	if len(u.Path) != 1 {
		t.Errorf("path length: got %d, want 1", len(u.Path))
	}

	u.BeginTick()
	next, _ := u.NextWaypoint()
	if !u.ConsumeWaypoint(next) {
		t.Error("next tick should consume the following waypoint")
	}
}

func TestUnit_SetPathDiscardsPriorState(t *testing.T) {
	u := NewUnit(FactionBlue, Skywatch, grid.TileCoord{})
	u.Surveillance = &Orbit{Radius: 2}
	u.SetPath([]grid.TileCoord{{X: 1, Z: 1}})

	if u.Surveillance != nil {
		t.Error("SetPath must cancel surveillance mode")
	}
}

func TestUnit_Battery(t *testing.T) {
	u := NewUnit(FactionBlue, Rifleman, grid.TileCoord{})

	if !u.DrainBattery(30) {
		t.Error("drain within charge should succeed")
	}
	if u.Battery != 70 {
		t.Errorf("Battery: got %f, want 70", u.Battery)
	}

	if u.DrainBattery(100) {
		t.Error("overdrain should report failure")
	}
	if u.Battery != 70 {
		t.Errorf("Battery after failed drain: got %f, want 70", u.Battery)
	}

	u.ChargeBattery(500)
	if u.Battery != u.Stats.MaxBattery {
		t.Errorf("charge should clamp at max, got %f", u.Battery)
	}
}

func TestUnit_AbilityCooldown(t *testing.T) {
	u := NewUnit(FactionBlue, Rifleman, grid.TileCoord{})

	if !u.AbilityReady("fire", 100, 10) {
		t.Error("unused ability should be ready")
	}
	u.MarkAbilityUsed("fire", 100)
	if u.AbilityReady("fire", 105, 10) {
		t.Error("ability should be on cooldown")
	}
	if !u.AbilityReady("fire", 110, 10) {
		t.Error("ability should come off cooldown")
	}
}

func TestRetaliatesAgainstDrones(t *testing.T) {
	tests := []struct {
		class UnitClass
		want  bool
	}{
		{ClassInfantry, true},
		{ClassMelee, true},
		{ClassArmor, true},
		{ClassAir, false},
		{ClassSupport, false},
		{ClassHeavy, false},
	}
	for _, tt := range tests {
		if got := tt.class.RetaliatesAgainstDrones(); got != tt.want {
			t.Errorf("class %v: got %v, want %v", tt.class, got, tt.want)
		}
	}
}
