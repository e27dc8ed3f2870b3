package coexist

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates input that makes the construction meaningless.
	ErrInvalidConfig = errors.New("coexist: invalid configuration")

	// ErrNilModel indicates a solver built without an equation of state.
	ErrNilModel = errors.New("coexist: nil model")
)

// ConfigError reports the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s=%g", ErrInvalidConfig, e.Field, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidConfig, e.Err}
	}
	return []error{ErrInvalidConfig}
}
