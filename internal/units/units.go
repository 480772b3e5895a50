// Package units defines the internal unit system: nanometers, picoseconds,
// atomic mass units, kelvin, and kJ/mol for energies.
package units

const (
	// KB is the Boltzmann constant in kJ/(mol·K).
	KB = 8.31446261815324e-3

	// Hbar is the reduced Planck constant in kJ·ps/(mol).
	Hbar = 6.350779923502592e-2

	// CoulombFactor converts q1*q2/r (elementary charges, nm) to kJ/mol.
	CoulombFactor = 138.935456
)
