// Package driver advances an integrator over a time horizon, producing a
// trajectory. Stepping is strictly sequential; each trajectory is owned by
// its run and read-only downstream.
package driver

import (
	"fmt"
	"math"

	"github.com/geonum/gni/internal/compose"
	"github.com/geonum/gni/internal/phase"
)

// Trajectory is the ordered (time, state) record of one run.
type Trajectory struct {
	Times    []float64
	States   []phase.State
	Steps    int
	Rejected int
	Event    *EventRecord
}

// EventRecord is a stopping condition hit, refined by bisection.
type EventRecord struct {
	T float64
	X phase.State
}

// Final returns the last recorded sample.
func (tr *Trajectory) Final() (float64, phase.State) {
	n := len(tr.Times)
	return tr.Times[n-1], tr.States[n-1]
}

// Policy selects the stepping mode and its parameters.
type Policy struct {
	// Dt is the step size in fixed mode and the initial step in adaptive
	// mode when InitialDt is zero.
	Dt float64

	Adaptive  bool
	Tol       float64
	InitialDt float64
	MinDt     float64 // magnitude floor; breach is ErrStepSizeUnderflow; <=0 means 1e-9 of the horizon
	MaxDt     float64 // magnitude cap; zero means the whole horizon
	MaxGrowth float64 // growth factor cap per accepted step, default 2
	Safety    float64 // safety factor on growth, default 0.9
}

// FixedStep is the constant-dt policy.
func FixedStep(dt float64) Policy {
	return Policy{Dt: dt}
}

// AdaptiveStep is the step-doubling policy with the given local error
// tolerance.
func AdaptiveStep(tol, initialDt, minDt float64) Policy {
	return Policy{Adaptive: true, Tol: tol, InitialDt: initialDt, MinDt: minDt}
}

type runner struct {
	eventPred func(t float64, x phase.State) bool
	eventTol  float64
}

// Option configures a run.
type Option func(*runner)

// WithEvent installs a stopping predicate checked after each accepted
// step. On trigger the event time is refined by bisection to within tol
// and the trajectory is truncated at the refined point.
func WithEvent(pred func(t float64, x phase.State) bool, tol float64) Option {
	return func(r *runner) {
		r.eventPred = pred
		r.eventTol = tol
	}
}

// Run drives the integrator from x0 at t0 until tEnd. The final step is
// truncated to land exactly on tEnd, never overshooting; tEnd < t0
// integrates backward with a negative step. The integrator and field are
// never mutated.
func Run(integ compose.Integrator, x0 phase.State, t0, tEnd float64, pol Policy, opts ...Option) (*Trajectory, error) {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}

	dt := pol.Dt
	if pol.Adaptive && pol.InitialDt != 0 {
		dt = pol.InitialDt
	}
	if dt == 0 {
		return nil, fmt.Errorf("gni: zero step size")
	}
	span := tEnd - t0
	if span != 0 && dt*span < 0 {
		// Sign convention: the step must move toward tEnd.
		dt = -dt
	}
	if pol.Adaptive && pol.Tol <= 0 {
		return nil, fmt.Errorf("gni: adaptive tolerance must be positive, got %g", pol.Tol)
	}

	tr := &Trajectory{
		Times:  []float64{t0},
		States: []phase.State{x0.Clone()},
	}
	if span == 0 {
		return tr, nil
	}
	if pol.Adaptive {
		return r.runAdaptive(tr, integ, t0, tEnd, dt, pol)
	}
	return r.runFixed(tr, integ, t0, tEnd, dt)
}

func (r *runner) runFixed(tr *Trajectory, integ compose.Integrator, t0, tEnd, dt float64) (*Trajectory, error) {
	dir := math.Copysign(1, tEnd-t0)
	t := t0
	x := tr.States[0]
	for (tEnd-t)*dir > 0 {
		h := dt
		last := false
		if (t+h-tEnd)*dir >= 0 {
			h = tEnd - t
			last = true
		}
		next := integ.Step(x, t, h)
		if last {
			t = tEnd
		} else {
			t += h
		}
		tr.Steps++
		if !next.IsValid() {
			return tr, &phase.DivergenceError{T: t}
		}
		if r.eventPred != nil && r.eventPred(t, next) {
			r.refineEvent(tr, integ, t-h, x, t)
			return tr, nil
		}
		x = next
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)
	}
	return tr, nil
}

func (r *runner) runAdaptive(tr *Trajectory, integ compose.Integrator, t0, tEnd, dt float64, pol Policy) (*Trajectory, error) {
	maxGrowth := pol.MaxGrowth
	if maxGrowth <= 1 {
		maxGrowth = 2
	}
	safety := pol.Safety
	if safety <= 0 || safety >= 1 {
		safety = 0.9
	}
	maxDt := math.Abs(pol.MaxDt)
	if maxDt == 0 {
		maxDt = math.Abs(tEnd - t0)
	}
	// The floor must be positive or halving can reach exactly zero and the
	// loop stops advancing.
	minDt := pol.MinDt
	if minDt <= 0 {
		minDt = math.Abs(tEnd-t0) * 1e-9
	}

	// Richardson denominator 2^p - 1, with the order capped so exact-flow
	// composites don't overflow the exponent.
	p := integ.Order()
	if p > 16 {
		p = 16
	}
	denom := math.Pow(2, float64(p)) - 1

	dir := math.Copysign(1, tEnd-t0)
	t := t0
	x := tr.States[0]
	for (tEnd-t)*dir > 0 {
		h := dt
		last := false
		if (t+h-tEnd)*dir >= 0 {
			h = tEnd - t
			last = true
		}

		full := integ.Step(x, t, h)
		valid := full.IsValid()
		var double phase.State
		errEst := math.Inf(1)
		if valid {
			half := integ.Step(x, t, h/2)
			double = integ.Step(half, t+h/2, h/2)
			valid = double.IsValid()
		}
		if valid {
			errEst = full.Dist(double) / denom
		}

		if errEst > pol.Tol {
			tr.Rejected++
			dt = h / 2
			if math.Abs(dt) < minDt {
				// Trial states that stay non-finite all the way down to the
				// floor are divergence, not a tolerance problem.
				if !valid {
					return tr, &phase.DivergenceError{T: t}
				}
				return tr, fmt.Errorf("gni: cannot meet tolerance %g above dt=%g at t=%g: %w",
					pol.Tol, minDt, t, phase.ErrStepSizeUnderflow)
			}
			continue
		}

		if last {
			t = tEnd
		} else {
			t += h
		}
		x = double
		tr.Steps++
		if r.eventPred != nil && r.eventPred(t, x) {
			r.refineEvent(tr, integ, t-h, tr.States[len(tr.States)-1], t)
			return tr, nil
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)

		// Grow only when the step was comfortably accurate, bounded per
		// attempt to avoid step-size thrashing.
		if errEst <= pol.Tol/10 {
			factor := maxGrowth
			if errEst > 0 {
				factor = math.Min(maxGrowth, safety*math.Pow(pol.Tol/errEst, 1/float64(p+1)))
			}
			if factor > 1 {
				dt *= factor
			}
			if math.Abs(dt) > maxDt {
				dt = math.Copysign(maxDt, dt)
			}
		}
	}
	return tr, nil
}

// refineEvent bisects the bracketing interval [tLo, tHi], re-integrating
// from the last pre-event sample, until the bracket is within the event
// tolerance. The trajectory is truncated at the refined point.
func (r *runner) refineEvent(tr *Trajectory, integ compose.Integrator, tLo float64, xLo phase.State, tHi float64) {
	tol := r.eventTol
	if tol <= 0 {
		tol = 1e-10
	}
	lo, hi := tLo, tHi
	cur := xLo
	for math.Abs(hi-lo) > tol {
		mid := lo + (hi-lo)/2
		if mid == lo || mid == hi {
			// Bracket below the spacing of floats around t; can't refine
			// further no matter the tolerance.
			break
		}
		xm := integ.Step(cur, lo, mid-lo)
		if r.eventPred(mid, xm) {
			hi = mid
		} else {
			lo = mid
			cur = xm
		}
	}
	xe := integ.Step(cur, lo, hi-lo)
	tr.Event = &EventRecord{T: hi, X: xe}
	tr.Times = append(tr.Times, hi)
	tr.States = append(tr.States, xe)
}
