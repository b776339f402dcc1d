// pkg/config/tuning.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-gridwar/pkg/entity"
)

// Tuning holds optional per-archetype stat overrides loaded from YAML.
// Fields left unset in the file keep the table defaults.
type Tuning struct {
	Archetypes map[string]ArchetypeTuning `yaml:"archetypes"`
}

// ArchetypeTuning overrides selected fields of one archetype's stats
type ArchetypeTuning struct {
	MaxHealth         *float64 `yaml:"max_health"`
	VisionRange       *float64 `yaml:"vision_range"`
	SpeedMod          *float64 `yaml:"speed_mod"`
	CaptureMultiplier *float64 `yaml:"capture_multiplier"`
	Cost              *int     `yaml:"cost"`
	AttackDamage      *float64 `yaml:"attack_damage"`
	AttackRange       *float64 `yaml:"attack_range"`
	AttackCooldown    *int     `yaml:"attack_cooldown"`
	MaxBattery        *float64 `yaml:"max_battery"`
}

// LoadTuning reads an archetype override file
func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

// Apply writes the overrides into the archetype table. Unknown archetype
// names are an error so typos in tuning files surface at startup.
func (t Tuning) Apply() error {
	for name, overrides := range t.Archetypes {
		unitType, ok := entity.UnitTypeFromString(name)
		if !ok {
			return fmt.Errorf("tuning references unknown archetype %q", name)
		}
		stats := entity.Stats(unitType)
		if overrides.MaxHealth != nil {
			stats.MaxHealth = *overrides.MaxHealth
		}
		if overrides.VisionRange != nil {
			stats.VisionRange = *overrides.VisionRange
		}
		if overrides.SpeedMod != nil {
			stats.SpeedMod = *overrides.SpeedMod
		}
		if overrides.CaptureMultiplier != nil {
			stats.CaptureMultiplier = *overrides.CaptureMultiplier
		}
		if overrides.Cost != nil {
			stats.Cost = *overrides.Cost
		}
		if overrides.AttackDamage != nil {
			stats.AttackDamage = *overrides.AttackDamage
		}
		if overrides.AttackRange != nil {
			stats.AttackRange = *overrides.AttackRange
		}
		if overrides.AttackCooldown != nil {
			stats.AttackCooldown = *overrides.AttackCooldown
		}
		if overrides.MaxBattery != nil {
			stats.MaxBattery = *overrides.MaxBattery
		}
		entity.OverrideStats(unitType, stats)
	}
	return nil
}
