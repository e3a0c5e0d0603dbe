package problems

import (
	"math"

	"github.com/geonum/gni/internal/phase"
)

// Kepler is the planar two-body problem H = |p|^2/2 - mu/|q| with state
// {qx, qy, px, py}. The drift part is exact; the gravitational kick holds
// q fixed, so its flow is exact as well. Energy and angular momentum are
// both conserved, exercising ordered multi-invariant reporting.
type Kepler struct {
	Mu float64
}

func NewKepler(mu float64) *Kepler {
	return &Kepler{Mu: mu}
}

func (k *Kepler) accel(x phase.State) (float64, float64) {
	r := math.Hypot(x[0], x[1])
	r3 := r * r * r
	return -k.Mu * x[0] / r3, -k.Mu * x[1] / r3
}

func (k *Kepler) Evaluate(x phase.State, t float64) phase.State {
	ax, ay := k.accel(x)
	return phase.State{x[2], x[3], ax, ay}
}

func (k *Kepler) Parts() []phase.Part {
	return []phase.Part{
		{
			Name: "drift",
			Field: phase.FieldFunc(func(x phase.State, t float64) phase.State {
				return phase.State{x[2], x[3], 0, 0}
			}),
			Flow: phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
				return phase.State{x[0] + dt*x[2], x[1] + dt*x[3], x[2], x[3]}
			}),
			Exact: true,
		},
		{
			Name: "kick",
			Field: phase.FieldFunc(func(x phase.State, t float64) phase.State {
				ax, ay := k.accel(x)
				return phase.State{0, 0, ax, ay}
			}),
			Flow: phase.FlowFunc(func(x phase.State, t, dt float64) phase.State {
				ax, ay := k.accel(x)
				return phase.State{x[0], x[1], x[2] + dt*ax, x[3] + dt*ay}
			}),
			Exact: true,
		},
	}
}

func (k *Kepler) Energy(x phase.State) float64 {
	r := math.Hypot(x[0], x[1])
	return 0.5*(x[2]*x[2]+x[3]*x[3]) - k.Mu/r
}

// AngularMomentum is the second conserved quantity, L = qx*py - qy*px.
func (k *Kepler) AngularMomentum(x phase.State) float64 {
	return x[0]*x[3] - x[1]*x[2]
}

// CircularOrbit returns the unit circular orbit initial state and exact
// solution for mu=1: q traces the unit circle at unit angular speed.
func CircularOrbit() (phase.State, func(t float64) phase.State) {
	x0 := phase.State{1, 0, 0, 1}
	sol := func(t float64) phase.State {
		c, s := math.Cos(t), math.Sin(t)
		return phase.State{c, s, -s, c}
	}
	return x0, sol
}
