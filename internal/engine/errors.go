package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSwap is returned for swaps that are not between two occupied,
	// 4-adjacent slots. Hosts treat it as a reselect, not a failure.
	ErrInvalidSwap = errors.New("engine: invalid swap")

	// ErrConfiguration wraps every ConfigError.
	ErrConfiguration = errors.New("engine: configuration error")

	// ErrBusy is returned when input arrives while a resolution pass is in flight.
	ErrBusy = errors.New("engine: resolution in progress")

	// ErrGameOver is returned for input after the game was won or lost.
	ErrGameOver = errors.New("engine: game is over")
)

// ConfigError describes a configuration value the engine cannot run with.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// errInvariant marks internal consistency failures. These are logged and
// recovered inside the engine and never returned to callers.
var errInvariant = errors.New("engine: invariant violation")
