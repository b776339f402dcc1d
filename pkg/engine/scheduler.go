package engine

import (
	"context"
	"time"

	"github.com/opd-ai/go-gridwar/pkg/logging"
)

// Scheduler drives the world's three independent fixed-period timers: the
// fast tick (movement, combat, capture, construction, production), the
// slow tick (decay, builder loop), and the economy tick.
type Scheduler struct {
	world  *World
	logger *logging.Logger
}

// NewScheduler creates a scheduler over a world
func NewScheduler(world *World, logger *logging.Logger) *Scheduler {
	return &Scheduler{world: world, logger: logger}
}

// Run ticks the simulation until the context is cancelled. It blocks the
// calling goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	rules := s.world.Rules

	fastPeriod := time.Duration(rules.FastTickMs) * time.Millisecond
	slowPeriod := time.Duration(rules.SlowTickMs) * time.Millisecond
	economyPeriod := time.Duration(rules.EconomyTickMs) * time.Millisecond

	fast := time.NewTicker(fastPeriod)
	slow := time.NewTicker(slowPeriod)
	economy := time.NewTicker(economyPeriod)
	defer fast.Stop()
	defer slow.Stop()
	defer economy.Stop()

	s.logger.Info(ctx, "simulation started",
		"fast_ms", rules.FastTickMs,
		"slow_ms", rules.SlowTickMs,
		"economy_ms", rules.EconomyTickMs)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "simulation stopped", "tick", s.world.Tick)
			return
		case <-fast.C:
			s.world.RunFast(fastPeriod.Seconds())
		case <-slow.C:
			s.world.RunSlow(slowPeriod.Seconds())
		case <-economy.C:
			s.world.RunEconomy(economyPeriod.Seconds())
		}
	}
}
