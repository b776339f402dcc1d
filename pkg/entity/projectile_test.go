// pkg/entity/projectile_test.go
package entity

import (
	"testing"

	"github.com/opd-ai/go-gridwar/pkg/grid"
	"github.com/opd-ai/go-gridwar/pkg/physics"
)

func TestBallistic_PhaseSequence(t *testing.T) {
	p := NewBallistic(1, FactionBlue, grid.TileCoord{X: 0, Z: 0}, grid.TileCoord{X: 5, Z: 5}, 80)

	var observed []MissilePhase
	last := MissilePhase(-1)
	detonated := false

	for step := 0; step < 10000 && !detonated; step++ {
		if p.Phase != last {
			observed = append(observed, p.Phase)
			last = p.Phase
		}
		detonated = p.AdvanceBallistic(0.1)
	}

	if !detonated {
		t.Fatal("missile never detonated")
	}
	want := []MissilePhase{PhaseAscent, PhaseCruise, PhaseTerminal}
	if len(observed) != len(want) {
		t.Fatalf("phases observed: %v, want %v", observed, want)
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Fatalf("phase %d: got %v, want %v", i, observed[i], want[i])
		}
	}
	if p.Active {
		t.Error("detonated missile should be inactive")
	}
}

func TestBallistic_CruiseBeginsAtLaunchHeight(t *testing.T) {
	p := NewBallistic(1, FactionRed, grid.TileCoord{X: 0, Z: 0}, grid.TileCoord{X: 9, Z: 0}, 80)

	for p.Phase == PhaseAscent {
		p.AdvanceBallistic(0.1)
	}
	if p.Position.Y < MissileLaunchHeight {
		t.Errorf("cruise began below launch height: %f", p.Position.Y)
	}
}

func TestBallistic_TerminalOverTarget(t *testing.T) {
	target := grid.TileCoord{X: 5, Z: 5}
	p := NewBallistic(1, FactionBlue, grid.TileCoord{X: 0, Z: 0}, target, 80)

	for p.Phase != PhaseTerminal {
		p.AdvanceBallistic(0.05)
	}
	if got := p.Position.Planar().Distance(target.Center()); got > 1e-9 {
		t.Errorf("terminal phase not over target, off by %f", got)
	}
}

func TestDirectFire_ExpiresAtMaxDistance(t *testing.T) {
	velocity := physics.Vector3{X: 50}
	p := NewDirectFire(1, FactionBlue, physics.Vector3{}, velocity, 30, 0.2, 100)

	// 50 units/sec stepped at 0.25-tile increments: budget exhausts after
	// exactly 2 simulated seconds of travel.
	const stepLen = 0.25
	steps := 0
	for p.Active {
		p.AdvanceDirect(stepLen)
		steps++
		if steps > 10000 {
			t.Fatal("projectile never expired")
		}
	}

	travelTime := float64(steps) * stepLen / 50.0
	if travelTime < 1.99 || travelTime > 2.01 {
		t.Errorf("travel time: got %fs, want 2s", travelTime)
	}
	if p.Travelled < 100 {
		t.Errorf("travelled: got %f, want >= 100", p.Travelled)
	}
}
