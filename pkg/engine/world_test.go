package engine

import (
	"testing"

	"github.com/opd-ai/go-gridwar/pkg/config"
	"github.com/opd-ai/go-gridwar/pkg/entity"
	"github.com/opd-ai/go-gridwar/pkg/event"
	"github.com/opd-ai/go-gridwar/pkg/grid"
)

// testConfig builds a small open map with both factions and no buildings.
func testConfig() *config.GameConfig {
	return &config.GameConfig{
		GridWidth:  16,
		GridHeight: 16,
		Factions: []config.FactionConfig{
			{Name: "blue", BaseX: 0, BaseZ: 0, StartingResources: 1000},
			{Name: "red", BaseX: 15, BaseZ: 15, StartingResources: 1000},
		},
		Rules: config.DefaultRules(),
	}
}

func newTestWorld(t *testing.T, cfg *config.GameConfig) *World {
	t.Helper()
	w, err := NewWorld(cfg, event.NewEventBus())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// addUnit places a unit directly into the store, bypassing production.
func addUnit(w *World, faction entity.Faction, unitType entity.UnitType, at grid.TileCoord) *entity.Unit {
	u := entity.NewUnit(faction, unitType, at)
	w.Units[u.ID] = u
	return u
}

func TestNewWorld_FromDefaultConfig(t *testing.T) {
	w := newTestWorld(t, config.DefaultConfig())

	if len(w.Teams) != 2 {
		t.Errorf("teams: got %d, want 2", len(w.Teams))
	}
	if len(w.Buildings) != 12 {
		t.Errorf("buildings: got %d, want 12", len(w.Buildings))
	}
	if len(w.Blocks) != 3 {
		t.Errorf("blocks: got %d, want 3", len(w.Blocks))
	}
	// Starting units: three per faction.
	if len(w.Units) != 6 {
		t.Errorf("starting units: got %d, want 6", len(w.Units))
	}

	// Main road cross is classed, bases are blocked.
	if w.Grid.ClassAt(grid.TileCoord{X: 3, Z: 12}) != grid.ClassMain {
		t.Error("main road row not applied")
	}
	if !w.Grid.IsBlocked(grid.TileCoord{X: 1, Z: 1}) {
		t.Error("blue base tile should be blocked")
	}
	if w.Grid.IsNavigable(grid.TileCoord{X: 22, Z: 22}) {
		t.Error("red base tile should not be navigable")
	}

	// All buildings start neutral with zero progress.
	for _, b := range w.Buildings {
		if b.Owner != entity.FactionNeutral || b.CaptureProgress != 0 {
			t.Errorf("building %d should start neutral: %+v", b.ID, b)
		}
	}
}

func TestNewWorld_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.GameConfig)
	}{
		{"zero grid", func(c *config.GameConfig) { c.GridWidth = 0 }},
		{"unknown faction", func(c *config.GameConfig) { c.Factions[0].Name = "green" }},
		{"base out of bounds", func(c *config.GameConfig) { c.Factions[0].BaseX = 99 }},
		{"unknown road class", func(c *config.GameConfig) {
			c.Roads = []config.RoadConfig{{Axis: "x", Index: 1, Class: "highway"}}
		}},
		{"unknown tier", func(c *config.GameConfig) {
			c.Buildings = []config.BuildingConfig{{X: 1, Z: 1, Tier: "palace"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := NewWorld(cfg, event.NewEventBus()); err == nil {
				t.Error("expected config error")
			}
		})
	}
}

func TestBlockOwnershipDerived(t *testing.T) {
	cfg := testConfig()
	cfg.Buildings = []config.BuildingConfig{
		{X: 4, Z: 4, Tier: "residential", Block: 1},
		{X: 5, Z: 4, Tier: "residential", Block: 1},
		{X: 4, Z: 5, Tier: "residential", Block: 1},
	}
	w := newTestWorld(t, cfg)

	var block *entity.BuildingBlock
	for _, bl := range w.Blocks {
		block = bl
	}
	if block == nil || block.Size() != 3 {
		t.Fatalf("expected one block of size 3, got %+v", block)
	}

	if _, whole := w.blockWhollyOwned(block); whole {
		t.Error("neutral block should not count as wholly owned")
	}

	for _, id := range block.BuildingIDs {
		w.Buildings[id].Owner = entity.FactionBlue
	}
	owner, whole := w.blockWhollyOwned(block)
	if !whole || owner != entity.FactionBlue {
		t.Errorf("wholly blue block: got owner=%v whole=%v", owner, whole)
	}

	w.Buildings[block.BuildingIDs[0]].Owner = entity.FactionRed
	if _, whole := w.blockWhollyOwned(block); whole {
		t.Error("split block should not count as wholly owned")
	}
}

func TestSnapshot_StableAndComplete(t *testing.T) {
	w := newTestWorld(t, config.DefaultConfig())

	snap := w.Snapshot()
	if len(snap.Units) != len(w.Units) {
		t.Errorf("snapshot units: got %d, want %d", len(snap.Units), len(w.Units))
	}
	if len(snap.Buildings) != len(w.Buildings) {
		t.Errorf("snapshot buildings: got %d, want %d", len(snap.Buildings), len(w.Buildings))
	}
	for i := 1; i < len(snap.Units); i++ {
		if snap.Units[i-1].ID >= snap.Units[i].ID {
			t.Fatal("snapshot units not sorted by id")
		}
	}
	if _, ok := snap.Teams["blue"]; !ok {
		t.Error("snapshot missing blue team stats")
	}

	static := w.StaticSnapshot()
	if len(static.Classes) != static.Width*static.Height {
		t.Errorf("static map classes: got %d, want %d", len(static.Classes), static.Width*static.Height)
	}
	if len(static.Bases) != 2 {
		t.Errorf("static map bases: got %d, want 2", len(static.Bases))
	}
}
