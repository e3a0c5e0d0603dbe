package problems

import (
	"math"

	"github.com/geonum/gni/internal/phase"
)

// HarmonicOscillator is H = p^2/2 + omega^2 q^2/2 with state {q, p}.
// The kinetic and potential parts are both shear maps with exact flows,
// which makes it the canonical splitting benchmark.
type HarmonicOscillator struct {
	Omega float64
}

func NewHarmonicOscillator(omega float64) *HarmonicOscillator {
	return &HarmonicOscillator{Omega: omega}
}

func (h *HarmonicOscillator) Evaluate(x phase.State, t float64) phase.State {
	return phase.State{x[1], -h.Omega * h.Omega * x[0]}
}

func (h *HarmonicOscillator) Parts() []phase.Part {
	w2 := h.Omega * h.Omega
	return []phase.Part{
		{
			Name: "kinetic",
			Field: phase.FieldFunc(func(x phase.State, t float64) phase.State {
				return phase.State{x[1], 0}
			}),
			Flow: phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
				return phase.State{x[0] + dt*x[1], x[1]}
			}),
			Exact: true,
		},
		{
			Name: "potential",
			Field: phase.FieldFunc(func(x phase.State, t float64) phase.State {
				return phase.State{0, -w2 * x[0]}
			}),
			Flow: phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
				return phase.State{x[0], x[1] - dt*w2*x[0]}
			}),
			Exact: true,
		},
	}
}

func (h *HarmonicOscillator) Energy(x phase.State) float64 {
	q, p := x[0], x[1]
	return 0.5*p*p + 0.5*h.Omega*h.Omega*q*q
}

// Solution returns the exact trajectory through x0 at t0: a rotation in
// the (q, omega*p) plane.
func (h *HarmonicOscillator) Solution(x0 phase.State, t0 float64) func(t float64) phase.State {
	q0, p0 := x0[0], x0[1]
	w := h.Omega
	return func(t float64) phase.State {
		dt := t - t0
		c, s := math.Cos(w*dt), math.Sin(w*dt)
		return phase.State{
			q0*c + p0/w*s,
			p0*c - q0*w*s,
		}
	}
}
