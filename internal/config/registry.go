package config

import (
	"fmt"

	"github.com/geonum/gni/internal/compose"
	"github.com/geonum/gni/internal/harness"
	"github.com/geonum/gni/internal/phase"
	"github.com/geonum/gni/internal/problems"
)

// Problem bundles a registered split system with its default initial
// state, invariants, and exact solution where one is known.
type Problem struct {
	Name       string
	Field      phase.SplitField
	X0         phase.State
	Invariants []harness.Invariant
	Reference  harness.Reference
}

// Registry maps names to problem and candidate builders.
type Registry struct {
	problems map[string]func() Problem
}

func NewRegistry() *Registry {
	r := &Registry{problems: make(map[string]func() Problem)}

	r.problems["oscillator"] = func() Problem {
		osc := problems.NewHarmonicOscillator(1.0)
		x0 := phase.State{1, 0}
		return Problem{
			Name:       "oscillator",
			Field:      osc,
			X0:         x0,
			Invariants: []harness.Invariant{harness.EnergyOf(osc)},
			Reference:  harness.ReferenceFunc(osc.Solution(x0, 0)),
		}
	}
	r.problems["pendulum"] = func() Problem {
		pend := problems.NewPendulum()
		return Problem{
			Name:       "pendulum",
			Field:      pend,
			X0:         phase.State{1, 0},
			Invariants: []harness.Invariant{harness.EnergyOf(pend)},
		}
	}
	r.problems["kepler"] = func() Problem {
		kep := problems.NewKepler(1.0)
		x0, sol := problems.CircularOrbit()
		return Problem{
			Name:  "kepler",
			Field: kep,
			X0:    x0,
			Invariants: []harness.Invariant{
				harness.EnergyOf(kep),
				{Name: "angular momentum", Fn: kep.AngularMomentum},
			},
			Reference: harness.ReferenceFunc(sol),
		}
	}
	r.problems["dahlquist"] = func() Problem {
		dq := problems.NewDahlquist(-1.0)
		x0 := phase.State{1}
		return Problem{
			Name:      "dahlquist",
			Field:     dq,
			X0:        x0,
			Reference: harness.ReferenceFunc(dq.Solution(x0, 0)),
		}
	}
	return r
}

// Problem resolves a registered problem by name.
func (r *Registry) Problem(name string) (Problem, error) {
	fn, ok := r.problems[name]
	if !ok {
		return Problem{}, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(), nil
}

// Problems lists the registered problem names.
func (r *Registry) Problems() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	return names
}

// Candidate builds a labeled integrator for the given problem from a spec.
// Unknown scheme names and malformed custom schemes fail here, before any
// stepping.
func (r *Registry) Candidate(spec CandidateSpec, prob Problem, substeps int) (harness.Candidate, error) {
	if substeps <= 0 {
		substeps = DefaultSubsteps
	}
	label := spec.Label
	if label == "" {
		label = spec.Scheme
	}
	n := len(prob.Field.Parts())

	var (
		integ compose.Integrator
		err   error
	)
	switch spec.Scheme {
	case "euler":
		integ = compose.FromRule(prob.Field, compose.ExplicitEuler())
	case "midpoint":
		integ = compose.FromRule(prob.Field, compose.ImplicitMidpoint())
	case "lie-trotter":
		integ, err = compose.Split(prob.Field, compose.LieTrotter(n), substeps)
	case "strang":
		integ, err = compose.Split(prob.Field, compose.Strang(n), substeps)
	case "triple-jump":
		levels := spec.Levels
		if levels <= 0 {
			levels = 1
		}
		var base compose.Integrator
		base, err = compose.Split(prob.Field, compose.Strang(n), substeps)
		if err == nil {
			integ, err = compose.Yoshida(base, base.Order()+2*levels)
		}
	case "custom":
		scheme := compose.NewScheme(spec.Entries, spec.Order, spec.Symmetric)
		integ, err = compose.Split(prob.Field, scheme, substeps)
	default:
		return harness.Candidate{}, fmt.Errorf("unknown scheme: %s", spec.Scheme)
	}
	if err != nil {
		return harness.Candidate{}, err
	}
	return harness.Candidate{Label: label, Integrator: integ}, nil
}
