// Package problems provides split benchmark systems used by the tests and
// the CLI. Each system implements [phase.SplitField] with exact part flows
// where they exist, [phase.Hamiltonian] where energy is conserved, and
// exposes an exact solution where one is known.
package problems
