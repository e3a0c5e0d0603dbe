// Package compose builds integrators by operator splitting.
//
// An [Integrator] advances one state by one step and declares its
// consistency order and time-reversal symmetry. Primitive integrators wrap
// a single flow ([FromFlow]) or a vector field with an elementary update
// rule ([FromRule]). Composite integrators are assembled by [Compose] from
// an ordered list of (child, coefficient) terms: a step of size dt applies
// each child with step c*dt in sequence, advancing the local time as it
// goes.
//
// Named constructions produce coefficient [Scheme] values rather than new
// integrator types: [LieTrotter] (first order), [Strang] (second order,
// palindromic), and [TripleJump], which raises any symmetric even-order
// base method by two orders and can be applied recursively ([Yoshida]).
package compose
