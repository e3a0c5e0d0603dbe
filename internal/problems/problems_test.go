package problems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonum/gni/internal/phase"
)

func TestPartsSumToWholeField(t *testing.T) {
	tests := []struct {
		name    string
		field   phase.SplitField
		samples []phase.State
	}{
		{"oscillator", NewHarmonicOscillator(1.3), []phase.State{{1, 0}, {-0.4, 2.1}}},
		{"pendulum", NewPendulum(), []phase.State{{0.5, 0}, {2.9, -1.2}}},
		{"kepler", NewKepler(1.0), []phase.State{{1, 0, 0, 1}, {0.3, -0.8, 1.1, 0.2}}},
		{"dahlquist", NewDahlquist(-2.5), []phase.State{{1}, {-3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, phase.CheckSplit(tt.field, tt.samples, nil, 1e-12))
		})
	}
}

func TestExactFlowsSatisfyGroupLaw(t *testing.T) {
	fields := map[string]phase.SplitField{
		"oscillator": NewHarmonicOscillator(0.7),
		"pendulum":   NewPendulum(),
		"kepler":     NewKepler(1.0),
		"dahlquist":  NewDahlquist(-1.5),
	}
	starts := map[string]phase.State{
		"oscillator": {1, 0.5},
		"pendulum":   {1, 0.5},
		"kepler":     {1, 0, 0, 1},
		"dahlquist":  {2},
	}
	for name, f := range fields {
		t.Run(name, func(t *testing.T) {
			x := starts[name]
			for _, p := range f.Parts() {
				require.True(t, p.Exact, "part %s", p.Name)
				dt1, dt2 := 0.3, 0.45
				two := p.Flow.Advance(p.Flow.Advance(x, 0, dt1), dt1, dt2)
				one := p.Flow.Advance(x, 0, dt1+dt2)
				assert.InDelta(t, 0, two.Dist(one), 1e-12, "part %s", p.Name)
			}
		})
	}
}

func TestOscillatorSolutionMatchesField(t *testing.T) {
	osc := NewHarmonicOscillator(2.0)
	x0 := phase.State{0.8, -0.3}
	sol := osc.Solution(x0, 0)

	assert.InDelta(t, 0, sol(0).Dist(x0), 1e-15)

	// Finite-difference check of the solution against the field.
	h := 1e-6
	for _, tm := range []float64{0.5, 2.0, 7.3} {
		x := sol(tm)
		fd := sol(tm + h).Sub(sol(tm - h)).Scale(1 / (2 * h))
		assert.InDelta(t, 0, fd.Dist(osc.Evaluate(x, tm)), 1e-6)
	}

	// Energy is constant along the exact solution.
	e0 := osc.Energy(x0)
	for _, tm := range []float64{1, 10, 100} {
		assert.InDelta(t, e0, osc.Energy(sol(tm)), 1e-10)
	}
}

func TestPendulumEnergy(t *testing.T) {
	p := NewPendulum()
	// Bottom rest state has the minimum energy -g/L.
	assert.InDelta(t, -p.Gravity/p.Length, p.Energy(phase.State{0, 0}), 1e-15)
	assert.Greater(t, p.Energy(phase.State{0, 1}), p.Energy(phase.State{0, 0}))
}

func TestKeplerCircularOrbit(t *testing.T) {
	kep := NewKepler(1.0)
	x0, sol := CircularOrbit()

	assert.InDelta(t, -0.5, kep.Energy(x0), 1e-15)
	assert.InDelta(t, 1.0, kep.AngularMomentum(x0), 1e-15)

	// The orbit stays on the unit circle with both invariants constant.
	for _, tm := range []float64{0.5, math.Pi, 20} {
		x := sol(tm)
		assert.InDelta(t, 1.0, math.Hypot(x[0], x[1]), 1e-12)
		assert.InDelta(t, -0.5, kep.Energy(x), 1e-12)
		assert.InDelta(t, 1.0, kep.AngularMomentum(x), 1e-12)
	}
}

func TestDahlquistSolution(t *testing.T) {
	d := NewDahlquist(-0.7)
	sol := d.Solution(phase.State{3}, 1)
	assert.InDelta(t, 3*math.Exp(-0.7*2), sol(3)[0], 1e-12)
}
