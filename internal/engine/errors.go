package engine

import "errors"

// Configuration errors are reported synchronously at the offending call and
// never corrected silently. Numerical errors get their own sentinels so
// callers can loosen tolerances and retry.
var (
	// ErrIntegratorBound indicates an integrator already driving another context.
	ErrIntegratorBound = errors.New("engine: integrator is already bound to a context")

	// ErrNotSupported indicates the backend has no operation of the requested name.
	ErrNotSupported = errors.New("engine: operation not supported by backend")

	// ErrNoBackend indicates no candidate backend supports every required operation.
	ErrNoBackend = errors.New("engine: no backend supports all required operations")

	// ErrSizeMismatch indicates a supplied array whose length differs from the particle count.
	ErrSizeMismatch = errors.New("engine: array length does not match particle count")

	// ErrUnknownParameter indicates a parameter name no force in the model declares.
	ErrUnknownParameter = errors.New("engine: unknown parameter name")

	// ErrInvalidModel indicates inconsistent model topology.
	ErrInvalidModel = errors.New("engine: invalid model")

	// ErrConstraintConvergence indicates constraint projection exceeded its
	// iteration budget. Distinct from configuration errors by design.
	ErrConstraintConvergence = errors.New("engine: constraint projection failed to converge")
)
