package engine

// Integrator advances the simulation by discrete time steps. The
// coordinator is passed explicitly on every call rather than captured at
// bind, so an integrator never extends the coordinator's lifetime; a bound
// guard inside each implementation enforces that an instance drives at most
// one context at a time.
type Integrator interface {
	// OperationNames lists the backend operations this integrator needs.
	// All of them must be supported by the selected backend; a missing one
	// fails the bind, not the first step.
	OperationNames() []string

	// Initialize is called once per bind (and again on reinitialization)
	// with the freshly built coordinator. It must fail with
	// ErrIntegratorBound if the integrator is bound to a different context.
	Initialize(c *Coordinator) error

	// Step performs n elementary step operations. For adaptive variants n
	// counts step operations, not a fixed span of simulated time.
	Step(c *Coordinator, n int) error
}
