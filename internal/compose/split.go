package compose

import (
	"github.com/geonum/gni/internal/phase"
)

// Split binds a scheme to the parts of a split field. Parts carrying an
// exact flow become exact-flow primitives; parts with an inexact supplied
// flow are wrapped at order 1 (the conservative declaration for an unknown
// approximation); parts without any flow get the generic sub-step
// fallback, also inexact.
func Split(field phase.SplitField, scheme Scheme, fallbackSubsteps int) (*Composition, error) {
	parts := field.Parts()
	children := make([]Integrator, len(parts))
	for i, p := range parts {
		switch {
		case p.Flow != nil && p.Exact:
			children[i] = FromExactFlow(p.Flow)
		case p.Flow != nil:
			children[i] = FromFlow(p.Flow, 1, false)
		default:
			children[i] = FromFlow(phase.NewSubstepFlow(p.Field, fallbackSubsteps), 1, false)
		}
	}
	return scheme.Bind(children)
}
