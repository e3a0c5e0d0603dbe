package problems

import (
	"math"

	"github.com/geonum/gni/internal/phase"
)

// Pendulum is the undamped planar pendulum H = p^2/2 - k*cos(q) with
// k = g/L and state {q, p}. Both parts have exact flows (a drift and a
// kick) but the whole system has no closed-form solution, so it exercises
// the reference-free paths of the harness.
type Pendulum struct {
	Gravity float64
	Length  float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{Gravity: 9.81, Length: 1.0}
}

func (p *Pendulum) k() float64 { return p.Gravity / p.Length }

func (p *Pendulum) Evaluate(x phase.State, t float64) phase.State {
	return phase.State{x[1], -p.k() * math.Sin(x[0])}
}

func (p *Pendulum) Parts() []phase.Part {
	k := p.k()
	return []phase.Part{
		{
			Name: "drift",
			Field: phase.FieldFunc(func(x phase.State, t float64) phase.State {
				return phase.State{x[1], 0}
			}),
			Flow: phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
				return phase.State{x[0] + dt*x[1], x[1]}
			}),
			Exact: true,
		},
		{
			Name: "kick",
			Field: phase.FieldFunc(func(x phase.State, t float64) phase.State {
				return phase.State{0, -k * math.Sin(x[0])}
			}),
			Flow: phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
				return phase.State{x[0], x[1] - dt*k*math.Sin(x[0])}
			}),
			Exact: true,
		},
	}
}

func (p *Pendulum) Energy(x phase.State) float64 {
	return 0.5*x[1]*x[1] - p.k()*math.Cos(x[0])
}
