package dynamo

import "errors"

// Domain errors for sandbox operations.
var (
	// ErrInvalidState indicates a body whose position or velocity went NaN/Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownIntegrator indicates an integrator name with no registered scheme.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownKind indicates a body kind outside the closed set.
	ErrUnknownKind = errors.New("dynamo: unknown body kind")

	// ErrUnknownPreset indicates a scenario preset that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)
