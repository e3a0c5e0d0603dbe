// Package phase provides the core phase-space primitives for geometric
// numerical integration.
//
// The package defines the fundamental types every other package builds on:
//
//   - [State]: phase-space point with value semantics
//   - [VectorField]: right-hand side of an ODE (dX/dt = f(X, t))
//   - [Flow]: exact or approximate time-dt solution map of a field
//   - [SplitField]: a field decomposed into named parts whose flows are
//     cheap to compute individually
//
// Splitting is the central idea: a field f = A + B is integrated by
// composing the flows of A and B instead of solving f directly. The
// invariant that the parts sum back to the whole can be verified with
// [CheckSplit].
package phase
