package validation

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestValidateMessage(t *testing.T) {
	v := NewMessageValidator()
	defer v.Close()

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"valid command", []byte(`{"type":"move","unit_ids":[1],"x":3,"z":4}`), false},
		{"empty object", []byte(`{}`), false},
		{"invalid JSON", []byte(`{"type":"move"`), true},
		{"oversized message", bytes.Repeat([]byte("a"), MaxMessageSize+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMessage(tt.data, "client-1")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessage_RateLimit(t *testing.T) {
	v := NewMessageValidator()
	defer v.Close()

	msg := []byte(`{"type":"move"}`)
	var denied bool
	for i := 0; i < MaxCommandsPerMin+10; i++ {
		if err := v.ValidateMessage(msg, "greedy-client"); err != nil {
			denied = true
			break
		}
	}
	if !denied {
		t.Error("rate limiter never denied a flooding client")
	}

	// A different client is unaffected.
	if err := v.ValidateMessage(msg, "polite-client"); err != nil {
		t.Errorf("separate client should not be rate limited: %v", err)
	}
}

func TestValidateCommandType(t *testing.T) {
	for _, valid := range []string{"move", "ability", "build", "produce", "set_resources", "set_compute"} {
		if err := ValidateCommandType(valid); err != nil {
			t.Errorf("ValidateCommandType(%q) = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "MOVE", "teleport", "move "} {
		if err := ValidateCommandType(invalid); err == nil {
			t.Errorf("ValidateCommandType(%q) should error", invalid)
		}
	}
}

func TestValidateAbilityName(t *testing.T) {
	for _, valid := range []string{"surveillance", "deploy", "dampener", "jammer", "launch", "smoke", "decoy"} {
		if err := ValidateAbilityName(valid); err != nil {
			t.Errorf("ValidateAbilityName(%q) = %v", valid, err)
		}
	}
	if err := ValidateAbilityName("fireball"); err == nil {
		t.Error("unknown ability should error")
	}
}

func TestValidateFaction(t *testing.T) {
	if err := ValidateFaction("blue"); err != nil {
		t.Errorf("blue: %v", err)
	}
	if err := ValidateFaction("red"); err != nil {
		t.Errorf("red: %v", err)
	}
	for _, invalid := range []string{"", "neutral", "green", "Blue"} {
		if err := ValidateFaction(invalid); err == nil {
			t.Errorf("ValidateFaction(%q) should error", invalid)
		}
	}
}

func TestValidateTile(t *testing.T) {
	tests := []struct {
		name    string
		x, z    int
		wantErr bool
	}{
		{"origin", 0, 0, false},
		{"far corner", 23, 23, false},
		{"negative x", -1, 5, true},
		{"x at width", 24, 5, true},
		{"z past height", 5, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTile(tt.x, tt.z, 24, 24)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTile(%d,%d) error = %v, wantErr %v", tt.x, tt.z, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnitIDs(t *testing.T) {
	if err := ValidateUnitIDs([]uint64{1, 2, 3}); err != nil {
		t.Errorf("small group: %v", err)
	}
	if err := ValidateUnitIDs(nil); err == nil {
		t.Error("empty selection should error")
	}
	big := make([]uint64, MaxGroupSize+1)
	if err := ValidateUnitIDs(big); err == nil {
		t.Error("oversized group should error")
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(500); err != nil {
		t.Errorf("ValidateAmount(500) = %v", err)
	}
	if err := ValidateAmount(-1); err == nil {
		t.Error("negative amount should error")
	}
	if err := ValidateAmount(2_000_000); err == nil {
		t.Error("huge amount should error")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	defer rl.Close()

	if !rl.Allow("c") || !rl.Allow("c") {
		t.Fatal("initial tokens should be available")
	}
	if rl.Allow("c") {
		t.Error("third request in window should be denied")
	}

	time.Sleep(150 * time.Millisecond)
	if !rl.Allow("c") {
		t.Error("tokens should refill after the window elapses")
	}
}

func TestRateLimiter_ErrorMessageNamesLimit(t *testing.T) {
	v := NewMessageValidator()
	defer v.Close()

	msg := []byte(`{}`)
	var lastErr error
	for i := 0; i < MaxCommandsPerMin+1; i++ {
		lastErr = v.ValidateMessage(msg, "c")
	}
	if lastErr == nil || !strings.Contains(lastErr.Error(), "rate limit") {
		t.Errorf("expected rate limit error, got %v", lastErr)
	}
}
