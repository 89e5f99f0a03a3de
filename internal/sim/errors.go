package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a non-positive timestep or duration.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrInvalidInput indicates a NaN or Inf axis sample from the source.
	ErrInvalidInput = errors.New("sim: invalid input sample")
)

// SessionError wraps an error with the step it happened on.
type SessionError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("step %d (t=%.3f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SessionError) Unwrap() error {
	return e.Wrapped
}
