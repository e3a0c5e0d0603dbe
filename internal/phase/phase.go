package phase

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is a point in phase space. Operations return fresh slices so that
// steps never alias or mutate their inputs; trajectories stay safely
// shareable between concurrent runs.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) Add(other State) State {
	r := s.Clone()
	floats.Add(r, other)
	return r
}

func (s State) Sub(other State) State {
	r := s.Clone()
	floats.Sub(r, other)
	return r
}

func (s State) Scale(factor float64) State {
	r := make(State, len(s))
	floats.ScaleTo(r, factor, s)
	return r
}

// AddScaled returns s + factor*other.
func (s State) AddScaled(factor float64, other State) State {
	r := s.Clone()
	floats.AddScaled(r, factor, other)
	return r
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

func (s State) Dist(other State) float64 {
	return floats.Distance(s, other, 2)
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// VectorField is the right-hand side of an ODE: it maps a state and a time
// to the tangent vector dX/dt.
type VectorField interface {
	Evaluate(x State, t float64) State
}

// FieldFunc adapts a plain function to the VectorField interface.
type FieldFunc func(x State, t float64) State

func (f FieldFunc) Evaluate(x State, t float64) State { return f(x, t) }

// Flow is a solution map: Advance returns the state reached by evolving a
// field for a time increment dt starting from x at time t. Exact flows
// satisfy the group law Advance(Advance(x, t, a), t+a, b) == Advance(x, t, a+b).
type Flow interface {
	Advance(x State, t, dt float64) State
}

// FlowFunc adapts a plain function to the Flow interface.
type FlowFunc func(x State, t, dt float64) State

func (f FlowFunc) Advance(x State, t, dt float64) State { return f(x, t, dt) }

// Part is one named term of a split field. Flow is nil when the part has
// no closed-form solution; Exact reports whether the supplied flow is the
// true solution map rather than an approximation, so that order accounting
// downstream is never silently corrupted by a numeric fallback.
type Part struct {
	Name  string
	Field VectorField
	Flow  Flow
	Exact bool
}

// SplitField is a vector field decomposed into ordered named parts. The
// parts must sum to the whole field: for every state and time, adding the
// parts' Evaluate results reproduces Evaluate on the SplitField itself
// (within floating-point tolerance). The invariant is user code's
// responsibility; CheckSplit verifies it on demand.
type SplitField interface {
	VectorField
	Parts() []Part
}

// Hamiltonian is implemented by systems that expose a conserved energy.
type Hamiltonian interface {
	Energy(x State) float64
}

// substepFlow approximates the flow of a field by explicit Euler over a
// fixed number of internal sub-steps. It is the fallback for parts without
// a closed-form flow and is always inexact.
type substepFlow struct {
	field VectorField
	n     int
}

// NewSubstepFlow builds the generic fallback flow for a part lacking a
// closed-form solution. Callers wrapping it into a Part must leave
// Exact false.
func NewSubstepFlow(field VectorField, substeps int) Flow {
	if substeps < 1 {
		substeps = 1
	}
	return &substepFlow{field: field, n: substeps}
}

func (f *substepFlow) Advance(x State, t, dt float64) State {
	h := dt / float64(f.n)
	cur := x.Clone()
	for i := 0; i < f.n; i++ {
		ti := t + float64(i)*h
		dx := f.field.Evaluate(cur, ti)
		floats.AddScaled(cur, h, dx)
	}
	return cur
}
