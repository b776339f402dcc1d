// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GameConfig contains configuration for a grid-war match
type GameConfig struct {
	GridWidth  int              `json:"gridWidth"`
	GridHeight int              `json:"gridHeight"`
	Factions   []FactionConfig  `json:"factions"`
	Roads      []RoadConfig     `json:"roads"`
	Buildings  []BuildingConfig `json:"buildings"`
	Rules      GameRules        `json:"rules"`
	Network    NetworkConfig    `json:"network"`
	// TuningPath optionally points at a YAML archetype override file.
	TuningPath string `json:"tuningPath,omitempty"`
}

// FactionConfig contains configuration for one playable faction
type FactionConfig struct {
	Name              string         `json:"name"`
	BaseX             int            `json:"baseX"`
	BaseZ             int            `json:"baseZ"`
	StartingResources float64        `json:"startingResources"`
	StartingUnits     []StartingUnit `json:"startingUnits,omitempty"`
}

// StartingUnit places a unit at map initialization
type StartingUnit struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Z    int    `json:"z"`
}

// RoadConfig classifies a full row or column of tiles as a road
type RoadConfig struct {
	Axis  string `json:"axis"` // "x": a row at Z=index; "z": a column at X=index
	Index int    `json:"index"`
	Class string `json:"class"` // "main" or "street"
}

// BuildingConfig places a capturable city building
type BuildingConfig struct {
	X     int    `json:"x"`
	Z     int    `json:"z"`
	Tier  string `json:"tier"`
	Block int    `json:"block"` // buildings sharing a block number form one block
}

// GameRules contains simulation tunables
type GameRules struct {
	FastTickMs    int `json:"fastTickMs"`
	SlowTickMs    int `json:"slowTickMs"`
	EconomyTickMs int `json:"economyTickMs"`

	BaseUnitSpeed      float64 `json:"baseUnitSpeed"` // tiles per second
	JammedSpeedFactor  float64 `json:"jammedSpeedFactor"`
	DampenerSlowFactor float64 `json:"dampenerSlowFactor"`
	AirSpeedBoost      float64 `json:"airSpeedBoost"`

	SurveillanceRadius       float64 `json:"surveillanceRadius"`
	SurveillanceAngularSpeed float64 `json:"surveillanceAngularSpeed"` // radians per second

	IdleCaptureDecay float64 `json:"idleCaptureDecay"` // progress lost per uncontested tick

	DirectFireStep   float64 `json:"directFireStep"` // sub-step length in tiles
	UnitHitRadius    float64 `json:"unitHitRadius"`
	BlastRadius      float64 `json:"blastRadius"`
	ExplosionSeconds float64 `json:"explosionSeconds"`
	CloudRadius      float64 `json:"cloudRadius"`
	CloudSeconds     float64 `json:"cloudSeconds"`
	CloudTickDamage  float64 `json:"cloudTickDamage"`
	MissileDamage    float64 `json:"missileDamage"`

	DroneRange       float64 `json:"droneRange"`
	DroneDamage      float64 `json:"droneDamage"`
	DroneRetaliation float64 `json:"droneRetaliation"`
	DroneHealth      float64 `json:"droneHealth"`

	BuilderCargoMax       float64 `json:"builderCargoMax"`
	BuilderTransferAmount float64 `json:"builderTransferAmount"`

	ChargerBatteryPerTick float64 `json:"chargerBatteryPerTick"`

	UnitProductionSeconds     float64 `json:"unitProductionSeconds"`
	OrdnanceProductionSeconds float64 `json:"ordnanceProductionSeconds"`
	OrdnanceCost              int     `json:"ordnanceCost"`
	AmmoLoadSeconds           float64 `json:"ammoLoadSeconds"`

	DecoyLifetimeSeconds float64 `json:"decoyLifetimeSeconds"`

	EnableDebugCommands bool `json:"enableDebugCommands"`
}

// NetworkConfig contains the snapshot feed configuration
type NetworkConfig struct {
	ServerAddr string `json:"serverAddr"`
	ServerPort int    `json:"serverPort"`
	SnapshotHz int    `json:"snapshotHz"`
	MaxClients int    `json:"maxClients"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultRules returns the standard simulation tunables
func DefaultRules() GameRules {
	return GameRules{
		FastTickMs:    100,
		SlowTickMs:    500,
		EconomyTickMs: 1000,

		BaseUnitSpeed:      2.0,
		JammedSpeedFactor:  0.5,
		DampenerSlowFactor: 0.7,
		AirSpeedBoost:      1.5,

		SurveillanceRadius:       2.0,
		SurveillanceAngularSpeed: 1.0,

		IdleCaptureDecay: 10,

		DirectFireStep:   0.25,
		UnitHitRadius:    0.8,
		BlastRadius:      5.0,
		ExplosionSeconds: 1.0,
		CloudRadius:      3.0,
		CloudSeconds:     8.0,
		CloudTickDamage:  4.0,
		MissileDamage:    80,

		DroneRange:       3.0,
		DroneDamage:      5.0,
		DroneRetaliation: 2.0,
		DroneHealth:      60,

		BuilderCargoMax:       100,
		BuilderTransferAmount: 20,

		ChargerBatteryPerTick: 5,

		UnitProductionSeconds:     6,
		OrdnanceProductionSeconds: 10,
		OrdnanceCost:              120,
		AmmoLoadSeconds:           3,

		DecoyLifetimeSeconds: 20,

		EnableDebugCommands: false,
	}
}

// DefaultConfig returns a default match configuration: a 24x24 city with a
// main road cross, a street ring, and three building blocks.
func DefaultConfig() *GameConfig {
	cfg := &GameConfig{
		GridWidth:  24,
		GridHeight: 24,
		Factions: []FactionConfig{
			{
				Name:              "blue",
				BaseX:             1,
				BaseZ:             1,
				StartingResources: 500,
				StartingUnits: []StartingUnit{
					{Type: "rifleman", X: 2, Z: 1},
					{Type: "rifleman", X: 1, Z: 2},
					{Type: "engineer", X: 2, Z: 2},
				},
			},
			{
				Name:              "red",
				BaseX:             22,
				BaseZ:             22,
				StartingResources: 500,
				StartingUnits: []StartingUnit{
					{Type: "rifleman", X: 21, Z: 22},
					{Type: "rifleman", X: 22, Z: 21},
					{Type: "engineer", X: 21, Z: 21},
				},
			},
		},
		Roads: []RoadConfig{
			{Axis: "x", Index: 12, Class: "main"},
			{Axis: "z", Index: 12, Class: "main"},
			{Axis: "x", Index: 6, Class: "street"},
			{Axis: "x", Index: 18, Class: "street"},
			{Axis: "z", Index: 6, Class: "street"},
			{Axis: "z", Index: 18, Class: "street"},
		},
		Rules: DefaultRules(),
		Network: NetworkConfig{
			ServerAddr: "localhost",
			ServerPort: 4590,
			SnapshotHz: 10,
			MaxClients: 32,
		},
	}

	// Residential block near blue, commercial block mid-map, a server node
	// cluster near red.
	cfg.Buildings = []BuildingConfig{
		{X: 4, Z: 4, Tier: "residential", Block: 1},
		{X: 5, Z: 4, Tier: "residential", Block: 1},
		{X: 4, Z: 5, Tier: "residential", Block: 1},
		{X: 10, Z: 10, Tier: "commercial", Block: 2},
		{X: 11, Z: 10, Tier: "commercial", Block: 2},
		{X: 10, Z: 11, Tier: "commercial", Block: 2},
		{X: 11, Z: 11, Tier: "commercial", Block: 2},
		{X: 19, Z: 19, Tier: "server_node", Block: 3},
		{X: 20, Z: 19, Tier: "server_node", Block: 3},
		{X: 19, Z: 20, Tier: "server_node", Block: 3},
		{X: 15, Z: 8, Tier: "tower", Block: 0},
		{X: 8, Z: 15, Tier: "industrial", Block: 0},
	}

	return cfg
}
