package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidQuality indicates a quality level outside 0..3.
	ErrInvalidQuality = errors.New("dynamo: quality level out of range")

	// ErrInvalidMultiplier indicates a time multiplier that is negative, NaN or infinite.
	ErrInvalidMultiplier = errors.New("dynamo: invalid time multiplier")

	// ErrDegenerateGeometry marks a particle sitting exactly on a gravitation point.
	ErrDegenerateGeometry = errors.New("dynamo: particle coincides with gravitation point")

	// ErrClockAnomaly marks a time source that moved backward.
	ErrClockAnomaly = errors.New("dynamo: time source moved backward")

	// ErrUnknownMotion indicates a gravitation point motion kind that is not registered.
	ErrUnknownMotion = errors.New("dynamo: unknown motion kind")
)

// ConfigError wraps a configuration error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%v: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
