// pkg/config/tuning_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/go-gridwar/pkg/entity"
)

func writeTuningFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuning_AppliesOverrides(t *testing.T) {
	original := entity.Stats(entity.Rifleman)
	t.Cleanup(func() { entity.OverrideStats(entity.Rifleman, original) })

	path := writeTuningFile(t, `
archetypes:
  rifleman:
    max_health: 150
    cost: 42
`)

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if err := tuning.Apply(); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	stats := entity.Stats(entity.Rifleman)
	if stats.MaxHealth != 150 {
		t.Errorf("MaxHealth: got %f, want 150", stats.MaxHealth)
	}
	if stats.Cost != 42 {
		t.Errorf("Cost: got %d, want 42", stats.Cost)
	}
	// Unset fields keep their defaults.
	if stats.AttackDamage != original.AttackDamage {
		t.Errorf("AttackDamage changed: got %f, want %f", stats.AttackDamage, original.AttackDamage)
	}
}

func TestTuning_UnknownArchetype(t *testing.T) {
	path := writeTuningFile(t, `
archetypes:
  battlecruiser:
    max_health: 9000
`)

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if err := tuning.Apply(); err == nil {
		t.Error("unknown archetype name should error")
	}
}

func TestLoadTuning_Errors(t *testing.T) {
	if _, err := LoadTuning("/nonexistent/tuning.yaml"); err == nil {
		t.Error("missing file should error")
	}

	path := writeTuningFile(t, "archetypes: [not, a, map]")
	if _, err := LoadTuning(path); err == nil {
		t.Error("malformed file should error")
	}
}
