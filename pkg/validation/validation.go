// Package validation provides input validation for network command messages.
package validation

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message size and content limits
const (
	MaxMessageSize    = 64 * 1024 // 64KB max message
	MaxGroupSize      = 64        // units per move command
	MaxCommandsPerMin = 120
)

// validCommandTypes is the full command vocabulary accepted from clients.
var validCommandTypes = map[string]bool{
	"move":          true,
	"ability":       true,
	"build":         true,
	"produce":       true,
	"set_resources": true,
	"set_compute":   true,
}

// validAbilityNames covers every archetype ability the engine dispatches on.
var validAbilityNames = map[string]bool{
	"surveillance": true,
	"deploy":       true,
	"dampener":     true,
	"jammer":       true,
	"launch":       true,
	"smoke":        true,
	"decoy":        true,
}

// MessageValidator provides validation for inbound command messages
type MessageValidator struct {
	rateLimiter *RateLimiter
}

// NewMessageValidator creates a new message validator with rate limiting
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{
		rateLimiter: NewRateLimiter(MaxCommandsPerMin, time.Minute),
	}
}

// Close releases resources used by the message validator
func (v *MessageValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// ValidateMessage validates a raw message against size and format constraints
func (v *MessageValidator) ValidateMessage(data []byte, clientID string) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(data), MaxMessageSize)
	}

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON format")
	}

	if !v.rateLimiter.Allow(clientID) {
		return fmt.Errorf("rate limit exceeded: max %d commands per minute", MaxCommandsPerMin)
	}

	return nil
}

// ValidateCommandType checks a command against the known vocabulary
func ValidateCommandType(cmdType string) error {
	if !validCommandTypes[cmdType] {
		return fmt.Errorf("unknown command type: %q", cmdType)
	}
	return nil
}

// ValidateAbilityName checks an ability name against the known set
func ValidateAbilityName(name string) error {
	if !validAbilityNames[name] {
		return fmt.Errorf("unknown ability: %q", name)
	}
	return nil
}

// ValidateFaction validates a faction name from the wire
func ValidateFaction(faction string) error {
	if faction != "blue" && faction != "red" {
		return fmt.Errorf("invalid faction: %q (must be blue or red)", faction)
	}
	return nil
}

// ValidateTile validates a tile coordinate against grid bounds
func ValidateTile(x, z, width, height int) error {
	if x < 0 || x >= width || z < 0 || z >= height {
		return fmt.Errorf("tile (%d,%d) outside %dx%d grid", x, z, width, height)
	}
	return nil
}

// ValidateUnitIDs validates a move command's unit selection
func ValidateUnitIDs(ids []uint64) error {
	if len(ids) == 0 {
		return fmt.Errorf("move command selects no units")
	}
	if len(ids) > MaxGroupSize {
		return fmt.Errorf("move command selects %d units (max %d)", len(ids), MaxGroupSize)
	}
	return nil
}

// ValidateAmount validates a debug resource/compute amount
func ValidateAmount(amount int) error {
	if amount < 0 {
		return fmt.Errorf("amount cannot be negative: %d", amount)
	}
	if amount > 1_000_000 {
		return fmt.Errorf("amount too large: %d", amount)
	}
	return nil
}
