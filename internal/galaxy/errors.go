package galaxy

import (
	"errors"
	"fmt"
)

// Domain errors for the physics core.
var (
	// ErrInvalidMass indicates a star with zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("galaxy: star mass must be positive and finite")

	// ErrNonFinite indicates a NaN or Inf in a position, velocity or force.
	ErrNonFinite = errors.New("galaxy: non-finite value (NaN or Inf detected)")

	// ErrInvalidStep indicates a time step that is not positive and finite.
	ErrInvalidStep = errors.New("galaxy: time step must be positive and finite")

	// ErrInvalidRate indicates a rate multiplier that is not positive and finite.
	ErrInvalidRate = errors.New("galaxy: rate multiplier must be positive and finite")

	// ErrInvalidParams indicates a physical constant outside its allowed range.
	ErrInvalidParams = errors.New("galaxy: invalid parameters")

	// ErrDimensionMismatch indicates a force slice whose length differs from the system.
	ErrDimensionMismatch = errors.New("galaxy: force count does not match star count")
)

// StarError attaches the offending star index to a domain error.
type StarError struct {
	Index int
	Err   error
}

func (e *StarError) Error() string {
	return fmt.Sprintf("star %d: %v", e.Index, e.Err)
}

func (e *StarError) Unwrap() error {
	return e.Err
}
