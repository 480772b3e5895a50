// Package integrate provides the built-in integrators. Each one drives the
// generic engine protocol (update state, evaluate forces, execute its step
// operation) and owns only integration parameters; all numeric state lives
// in the backend operation.
package integrate

import (
	"fmt"

	"github.com/san-kum/moldyn/internal/engine"
)

// defaultConstraintTol is the relative distance tolerance used for
// constraint projection unless overridden.
const defaultConstraintTol = 1e-5

// bindGuard implements the one-context-at-a-time rule shared by every
// integrator. It remembers the owning context, not the coordinator, so
// rebinding after Reinitialize of the same context succeeds.
type bindGuard struct {
	owner *engine.Context
}

func (g *bindGuard) bindTo(c *engine.Coordinator) error {
	if g.owner != nil && g.owner != c.Owner() {
		return fmt.Errorf("%w: already driving another context", engine.ErrIntegratorBound)
	}
	g.owner = c.Owner()
	return nil
}

// Unbind releases the integrator for use with a new context. Called by
// Context.Close.
func (g *bindGuard) Unbind() { g.owner = nil }

func (g *bindGuard) bound() bool { return g.owner != nil }

func typedOperation[T engine.Operation](c *engine.Coordinator, name string) (T, error) {
	op, ok := c.Operation(name).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: backend %s has no usable %s", engine.ErrNotSupported, c.Backend().Name(), name)
	}
	return op, nil
}
