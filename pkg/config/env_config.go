// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains deployment settings read from environment
// variables. Everything here has a safe default; the environment only
// overrides.
type EnvironmentConfig struct {
	ServerAddr   string
	ServerPort   int
	MaxClients   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SnapshotHz   int

	// Circuit breaker configuration for the observer client
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int
}

// LoadConfigFromEnv builds an EnvironmentConfig from GRIDWAR_* environment
// variables, falling back to defaults for anything unset.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{
		ServerAddr:   getEnvString("GRIDWAR_SERVER_ADDR", "localhost"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            60 * time.Second,
		CircuitBreakerTimeout:             30 * time.Second,
		CircuitBreakerMaxConsecutiveFails: 5,
	}

	var err error
	if cfg.ServerPort, err = getEnvInt("GRIDWAR_SERVER_PORT", 4590); err != nil {
		return nil, err
	}
	if cfg.MaxClients, err = getEnvInt("GRIDWAR_MAX_CLIENTS", 32); err != nil {
		return nil, err
	}
	if cfg.SnapshotHz, err = getEnvInt("GRIDWAR_SNAPSHOT_HZ", 10); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getEnvDuration("GRIDWAR_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("GRIDWAR_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations that cannot serve
func (c *EnvironmentConfig) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server port: %d", c.ServerPort)
	}
	if c.MaxClients <= 0 {
		return fmt.Errorf("invalid max clients: %d", c.MaxClients)
	}
	if c.SnapshotHz <= 0 {
		return fmt.Errorf("invalid snapshot rate: %d", c.SnapshotHz)
	}
	return nil
}

// ApplyEnvironmentOverrides overlays GRIDWAR_* settings onto a loaded game
// configuration so deployments can retarget the network surface without
// editing the match file.
func ApplyEnvironmentOverrides(cfg *GameConfig) error {
	env, err := LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}

	if os.Getenv("GRIDWAR_SERVER_ADDR") != "" {
		cfg.Network.ServerAddr = env.ServerAddr
	}
	if os.Getenv("GRIDWAR_SERVER_PORT") != "" {
		cfg.Network.ServerPort = env.ServerPort
	}
	if os.Getenv("GRIDWAR_MAX_CLIENTS") != "" {
		cfg.Network.MaxClients = env.MaxClients
	}
	if os.Getenv("GRIDWAR_SNAPSHOT_HZ") != "" {
		cfg.Network.SnapshotHz = env.SnapshotHz
	}
	if os.Getenv("GRIDWAR_ENABLE_DEBUG_COMMANDS") == "true" {
		cfg.Rules.EnableDebugCommands = true
	}
	return nil
}

// getEnvString returns an environment variable or a default
func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer environment variable or returns a default
func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, v)
	}
	return parsed, nil
}

// getEnvDuration parses a duration environment variable or returns a default
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, v)
	}
	return parsed, nil
}
