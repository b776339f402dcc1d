package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-gridwar/pkg/config"
)

func breakerConfig() *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            60 * time.Second,
		CircuitBreakerTimeout:             30 * time.Second,
		CircuitBreakerMaxConsecutiveFails: 5,
	}
}

func TestNetworkService_Execute(t *testing.T) {
	ns := NewNetworkService(breakerConfig())
	ctx := context.Background()

	t.Run("successful operation", func(t *testing.T) {
		err := ns.Execute(ctx, func() error {
			return nil
		})
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
		if ns.GetState() != gobreaker.StateClosed {
			t.Errorf("Expected circuit breaker to be closed, got %v", ns.GetState())
		}
	})

	t.Run("failed operation", func(t *testing.T) {
		testError := errors.New("test error")
		err := ns.Execute(ctx, func() error {
			return testError
		})
		if err == nil {
			t.Error("Expected error, got nil")
		}
		if !errors.Is(err, testError) {
			t.Errorf("Expected wrapped test error, got %v", err)
		}

		// One failure must not trip the circuit.
		if ns.GetState() != gobreaker.StateClosed {
			t.Errorf("Expected circuit breaker to be closed after one failure, got %v", ns.GetState())
		}
	})
}

func TestNetworkService_CircuitBreakerTrip(t *testing.T) {
	envConfig := breakerConfig()
	envConfig.CircuitBreakerTimeout = 1 * time.Second
	envConfig.CircuitBreakerMaxConsecutiveFails = 3

	ns := NewNetworkService(envConfig)
	ctx := context.Background()
	testError := errors.New("test failure")

	for i := 0; i < 3; i++ {
		err := ns.Execute(ctx, func() error {
			return testError
		})
		if err == nil {
			t.Errorf("Expected error on attempt %d, got nil", i+1)
		}
	}

	if ns.GetState() != gobreaker.StateOpen {
		t.Errorf("Expected circuit breaker to be open, got %v", ns.GetState())
	}

	// An open circuit rejects without invoking the operation.
	invoked := false
	err := ns.Execute(ctx, func() error {
		invoked = true
		return nil
	})
	if err == nil {
		t.Error("Expected rejection from open circuit, got nil")
	}
	if invoked {
		t.Error("Open circuit must not invoke the operation")
	}
}

func TestNetworkService_ExecuteWithRetry(t *testing.T) {
	t.Run("succeeds after transient failure", func(t *testing.T) {
		ns := NewNetworkService(breakerConfig())
		attempts := 0
		err := ns.ExecuteWithRetry(context.Background(), func() error {
			attempts++
			if attempts < 2 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Errorf("Expected success after retry, got %v", err)
		}
		if attempts != 2 {
			t.Errorf("Expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ns := NewNetworkService(breakerConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := ns.ExecuteWithRetry(ctx, func() error {
			return errors.New("always fails")
		})
		if err == nil {
			t.Error("Expected error from cancelled context, got nil")
		}
	})

	t.Run("skips retries once circuit is open", func(t *testing.T) {
		envConfig := breakerConfig()
		envConfig.CircuitBreakerMaxConsecutiveFails = 1
		ns := NewNetworkService(envConfig)

		attempts := 0
		err := ns.ExecuteWithRetry(context.Background(), func() error {
			attempts++
			return errors.New("always fails")
		})
		if err == nil {
			t.Error("Expected error, got nil")
		}
		// The first failure trips the breaker; the retry loop must stop
		// instead of burning through all attempts.
		if attempts != 1 {
			t.Errorf("Expected 1 attempt before open circuit, got %d", attempts)
		}
	})
}
