package compose

import (
	"math"

	"github.com/geonum/gni/internal/phase"
)

// OrderExact is the declared order of a primitive wrapping an exact flow.
// The conservative min-of-children rule then ignores exact factors, since
// the splitting error dominates a composition containing them.
const OrderExact = math.MaxInt32

// Integrator advances one state by one time step. Implementations are
// immutable after construction, deterministic, and never mutate their
// inputs; negative dt steps backward in time.
type Integrator interface {
	Step(x phase.State, t, dt float64) phase.State

	// Order is the declared consistency order p: local error O(dt^(p+1)).
	Order() int

	// Symmetric reports time-reversal symmetry of the step map.
	Symmetric() bool
}

type flowIntegrator struct {
	flow      phase.Flow
	order     int
	symmetric bool
}

// FromFlow wraps a flow's Advance directly as an integrator with the given
// declared order and symmetry.
func FromFlow(flow phase.Flow, order int, symmetric bool) Integrator {
	return &flowIntegrator{flow: flow, order: order, symmetric: symmetric}
}

// FromExactFlow wraps an exact solution map. Exact flows satisfy the group
// law, which makes them time-reversal symmetric, and report OrderExact.
func FromExactFlow(flow phase.Flow) Integrator {
	return &flowIntegrator{flow: flow, order: OrderExact, symmetric: true}
}

func (f *flowIntegrator) Step(x phase.State, t, dt float64) phase.State {
	return f.flow.Advance(x, t, dt)
}

func (f *flowIntegrator) Order() int      { return f.order }
func (f *flowIntegrator) Symmetric() bool { return f.symmetric }

// StepFunc is an elementary update rule for a field without a usable flow:
// it advances x by dt using evaluations of f only.
type StepFunc func(f phase.VectorField, x phase.State, t, dt float64) phase.State

type ruleIntegrator struct {
	field phase.VectorField
	rule  Rule
}

// FromRule binds an elementary update rule to a vector field.
func FromRule(field phase.VectorField, rule Rule) Integrator {
	return &ruleIntegrator{field: field, rule: rule}
}

func (r *ruleIntegrator) Step(x phase.State, t, dt float64) phase.State {
	return r.rule.Step(r.field, x, t, dt)
}

func (r *ruleIntegrator) Order() int      { return r.rule.Order }
func (r *ruleIntegrator) Symmetric() bool { return r.rule.Symmetric }
