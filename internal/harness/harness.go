// Package harness runs labeled integrators over identical trajectories and
// reports invariant drift, global error, and observed convergence order.
package harness

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/geonum/gni/internal/compose"
	"github.com/geonum/gni/internal/driver"
	"github.com/geonum/gni/internal/phase"
)

// Invariant is a named conserved quantity of the state.
type Invariant struct {
	Name string
	Fn   func(x phase.State) float64
}

// EnergyOf adapts a Hamiltonian system's energy to an Invariant.
func EnergyOf(h phase.Hamiltonian) Invariant {
	return Invariant{Name: "energy", Fn: h.Energy}
}

// Reference supplies the exact solution at a given time, when one exists.
type Reference interface {
	At(t float64) phase.State
}

// ReferenceFunc adapts a plain function to the Reference interface.
type ReferenceFunc func(t float64) phase.State

func (f ReferenceFunc) At(t float64) phase.State { return f(t) }

// Candidate is a labeled integrator entered into a comparison.
type Candidate struct {
	Label      string
	Integrator compose.Integrator
}

// Status classifies the outcome of one run.
type Status int

const (
	StatusOK Status = iota
	StatusUnderflow
	StatusDiverged
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnderflow:
		return "underflow"
	case StatusDiverged:
		return "diverged"
	default:
		return "failed"
	}
}

// Config describes one comparison sweep. In fixed mode every candidate runs
// once per entry of Dts; in adaptive mode (Policy.Adaptive) once per entry
// of Tolerances.
type Config struct {
	T0      float64
	Horizon float64 // duration; runs end at T0+Horizon

	Dts        []float64
	Tolerances []float64
	Policy     driver.Policy

	Invariants []Invariant
	Reference  Reference

	// Workers bounds concurrent runs; <=0 means GOMAXPROCS. Runs are
	// independent tasks sharing no mutable state.
	Workers int
}

// Entry is the result of one (candidate, step size) run.
type Entry struct {
	Label string
	Dt    float64
	Tol   float64 // set in adaptive sweeps

	Times      []float64
	Invariants map[string][]float64 // value series per invariant
	Drift      map[string]float64   // max |I(t)-I(0)| per invariant

	// Error metrics exist only when the sweep has a Reference;
	// ErrAvailable false means unavailable, not zero.
	ErrAvailable bool
	ErrSeries    []float64
	GlobalErr    float64

	Status      Status
	DivergenceT float64 // meaningful when Status is StatusDiverged
	Err         error   // unexpected failure, StatusFailed

	Steps    int
	Rejected int
}

// Report is the structured output of a comparison, sorted by candidate
// label then step size for a deterministic layout.
type Report struct {
	Entries []*Entry
	Orders  []OrderEstimate
}

// Entry returns the entry for a (label, dt) key, or nil.
func (r *Report) Entry(label string, dt float64) *Entry {
	for _, e := range r.Entries {
		if e.Label == label && e.Dt == dt {
			return e
		}
	}
	return nil
}

type job struct {
	cand Candidate
	dt   float64
	tol  float64
}

// Compare runs every candidate over the same initial condition and horizon
// at every requested step size (or tolerance) and assembles the report.
// Run-time failures (underflow, divergence) are recorded per entry; they
// never abort the remaining runs.
func Compare(cands []Candidate, x0 phase.State, cfg Config) (*Report, error) {
	if len(cands) == 0 {
		return nil, fmt.Errorf("gni: no candidates to compare")
	}
	var jobs []job
	if cfg.Policy.Adaptive {
		if len(cfg.Tolerances) == 0 {
			return nil, fmt.Errorf("gni: adaptive sweep needs tolerances")
		}
		for _, c := range cands {
			for _, tol := range cfg.Tolerances {
				jobs = append(jobs, job{cand: c, dt: cfg.Policy.Dt, tol: tol})
			}
		}
	} else {
		if len(cfg.Dts) == 0 {
			return nil, fmt.Errorf("gni: fixed sweep needs step sizes")
		}
		for _, c := range cands {
			for _, dt := range cfg.Dts {
				jobs = append(jobs, job{cand: c, dt: dt})
			}
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	entries := make([]*Entry, len(jobs))
	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				entries[i] = runOne(jobs[i], x0, cfg)
			}
		}()
	}
	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Label != entries[j].Label {
			return entries[i].Label < entries[j].Label
		}
		if entries[i].Dt != entries[j].Dt {
			return entries[i].Dt < entries[j].Dt
		}
		return entries[i].Tol < entries[j].Tol
	})

	rep := &Report{Entries: entries}
	if !cfg.Policy.Adaptive && cfg.Reference != nil {
		rep.Orders = estimateOrders(entries)
	}
	return rep, nil
}

func runOne(jb job, x0 phase.State, cfg Config) *Entry {
	e := &Entry{
		Label:       jb.cand.Label,
		Dt:          jb.dt,
		Tol:         jb.tol,
		Invariants:  make(map[string][]float64),
		Drift:       make(map[string]float64),
		DivergenceT: math.NaN(),
	}

	pol := cfg.Policy
	pol.Dt = jb.dt
	if pol.Adaptive {
		pol.Tol = jb.tol
	}

	tr, err := driver.Run(jb.cand.Integrator, x0, cfg.T0, cfg.T0+cfg.Horizon, pol)
	if err != nil {
		var div *phase.DivergenceError
		switch {
		case errors.Is(err, phase.ErrStepSizeUnderflow):
			e.Status = StatusUnderflow
		case errors.As(err, &div):
			e.Status = StatusDiverged
			e.DivergenceT = div.T
		default:
			e.Status = StatusFailed
			e.Err = err
			return e
		}
	}
	e.Steps = tr.Steps
	e.Rejected = tr.Rejected
	e.Times = tr.Times

	for _, inv := range cfg.Invariants {
		series := make([]float64, len(tr.States))
		for i, x := range tr.States {
			series[i] = inv.Fn(x)
		}
		drift := 0.0
		for _, v := range series {
			if d := math.Abs(v - series[0]); d > drift {
				drift = d
			}
		}
		e.Invariants[inv.Name] = series
		e.Drift[inv.Name] = drift
	}

	if cfg.Reference != nil {
		e.ErrAvailable = true
		e.ErrSeries = make([]float64, len(tr.States))
		for i, x := range tr.States {
			e.ErrSeries[i] = x.Dist(cfg.Reference.At(tr.Times[i]))
		}
		// Global error is meaningful only for runs that reached the
		// horizon.
		if e.Status == StatusOK {
			e.GlobalErr = e.ErrSeries[len(e.ErrSeries)-1]
		} else {
			e.ErrAvailable = false
		}
	}
	return e
}
