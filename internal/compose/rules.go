package compose

import (
	"github.com/geonum/gni/internal/phase"
)

// Rule is a named elementary update rule with its declared properties.
// The default set is deliberately minimal; anything beyond it is supplied
// by the caller as a StepFunc.
type Rule struct {
	Name      string
	Order     int
	Symmetric bool
	Step      StepFunc
}

// Fixed-point iteration bounds for the implicit midpoint rule.
const (
	midpointMaxIter = 50
	midpointTol     = 1e-14
)

// ExplicitEuler is the forward Euler rule, order 1.
func ExplicitEuler() Rule {
	return Rule{
		Name:  "euler",
		Order: 1,
		Step: func(f phase.VectorField, x phase.State, t, dt float64) phase.State {
			return x.AddScaled(dt, f.Evaluate(x, t))
		},
	}
}

// ImplicitMidpoint is the implicit midpoint rule, order 2 and symmetric.
// The implicit equation y = x + dt*f((x+y)/2, t+dt/2) is solved by
// fixed-point iteration seeded with an Euler step.
func ImplicitMidpoint() Rule {
	return Rule{
		Name:      "midpoint",
		Order:     2,
		Symmetric: true,
		Step: func(f phase.VectorField, x phase.State, t, dt float64) phase.State {
			y := x.AddScaled(dt, f.Evaluate(x, t))
			scale := 1.0 + x.Norm()
			for i := 0; i < midpointMaxIter; i++ {
				mid := x.Add(y).Scale(0.5)
				next := x.AddScaled(dt, f.Evaluate(mid, t+dt/2))
				if next.Dist(y) <= midpointTol*scale {
					return next
				}
				y = next
			}
			return y
		},
	}
}

// DefaultRules enumerates the built-in elementary rules. The slice is
// constructed fresh on each call; callers pass it around explicitly
// rather than reaching for ambient state.
func DefaultRules() []Rule {
	return []Rule{ExplicitEuler(), ImplicitMidpoint()}
}
