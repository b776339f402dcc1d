package engine

import "errors"

// Command error taxonomy. All of these are recovered locally: the caller
// logs and drops the command, the simulation continues.
var (
	// ErrNoPathFound means the pathfinder exhausted its budget or the
	// target is unreachable. The unit stays stationary.
	ErrNoPathFound = errors.New("no path found")

	// ErrInsufficientResources rejects a build/produce/ability command
	// below cost. No partial deduction occurs.
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrInvalidTarget rejects an ability aimed at a dead or nonexistent
	// entity, or a build on an occupied tile.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrBudgetExceeded means a bounded search hit its iteration cap.
	// Callers treat it like ErrNoPathFound.
	ErrBudgetExceeded = errors.New("search budget exceeded")

	// ErrDebugDisabled rejects debug overrides when the config flag is off.
	ErrDebugDisabled = errors.New("debug commands disabled")
)
