package problems

import (
	"math"

	"github.com/geonum/gni/internal/phase"
)

// Dahlquist is the scalar test equation y' = lambda*y with state {y}.
// Its exact flow is multiplication by exp(lambda*dt). Large negative
// lambda makes it stiff, which drives the adaptive underflow scenario.
type Dahlquist struct {
	Lambda float64
}

func NewDahlquist(lambda float64) *Dahlquist {
	return &Dahlquist{Lambda: lambda}
}

func (d *Dahlquist) Evaluate(x phase.State, t float64) phase.State {
	return phase.State{d.Lambda * x[0]}
}

// Parts exposes the equation as a single-part split so it can flow
// through the same scheme machinery as the genuinely split systems.
func (d *Dahlquist) Parts() []phase.Part {
	return []phase.Part{
		{Name: "decay", Field: d, Flow: d.Flow(), Exact: true},
	}
}

// Flow is the exact solution map.
func (d *Dahlquist) Flow() phase.Flow {
	return phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
		return phase.State{x[0] * math.Exp(d.Lambda*dt)}
	})
}

// Solution returns the exact trajectory through x0 at t0.
func (d *Dahlquist) Solution(x0 phase.State, t0 float64) func(t float64) phase.State {
	y0 := x0[0]
	return func(t float64) phase.State {
		return phase.State{y0 * math.Exp(d.Lambda*(t-t0))}
	}
}
