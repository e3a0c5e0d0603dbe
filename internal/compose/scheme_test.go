package compose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geonum/gni/internal/phase"
)

func TestLieTrotterScheme(t *testing.T) {
	s := LieTrotter(3)
	require.Len(t, s.Entries, 3)
	for i, e := range s.Entries {
		assert.Equal(t, i, e.Part)
		assert.Equal(t, 1.0, e.Coeff)
	}
	assert.Equal(t, 1, s.Order)
	assert.False(t, s.Symmetric)
}

func TestStrangScheme(t *testing.T) {
	s := Strang(2)
	assert.Equal(t, []Entry{{0, 0.5}, {1, 1}, {0, 0.5}}, s.Entries)
	assert.Equal(t, 2, s.Order)
	assert.True(t, s.Symmetric)
	assert.True(t, s.CheckSymmetric())

	// Strang-Marchuk for three parts sweeps half-steps outward.
	s3 := Strang(3)
	assert.Equal(t, []Entry{{0, 0.5}, {1, 0.5}, {2, 1}, {1, 0.5}, {0, 0.5}}, s3.Entries)
	assert.True(t, s3.CheckSymmetric())
}

func TestSchemeBindValidatesPartIndices(t *testing.T) {
	drift, kick := oscillatorParts()
	children := []Integrator{drift, kick}

	tests := []struct {
		name    string
		entries []Entry
	}{
		{"out of range", []Entry{{Part: 0, Coeff: 0.5}, {Part: 5, Coeff: 1}}},
		{"negative", []Entry{{Part: -1, Coeff: 1}}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheme(tt.entries, 0, false).Bind(children)
			var serr *SchemeError
			require.ErrorAs(t, err, &serr)
		})
	}
}

func TestSchemeBindRejectsFalseSymmetryClaim(t *testing.T) {
	drift, kick := oscillatorParts()
	s := NewScheme([]Entry{{0, 1}, {1, 1}}, 1, true)
	_, err := s.Bind([]Integrator{drift, kick})
	var serr *SchemeError
	require.ErrorAs(t, err, &serr)
}

func TestSchemeScaled(t *testing.T) {
	s := Strang(2).Scaled(0.5)
	assert.Equal(t, []Entry{{0, 0.25}, {1, 0.5}, {0, 0.25}}, s.Entries)
}

func TestTripleJumpCoefficients(t *testing.T) {
	drift, kick := oscillatorParts()
	strang, err := Strang(2).Bind([]Integrator{drift, kick})
	require.NoError(t, err)

	tj, err := TripleJump(strang)
	require.NoError(t, err)

	g1 := 1.0 / (2.0 - math.Pow(2, 1.0/3.0))
	g0 := 1.0 - 2.0*g1
	terms := tj.Terms()
	require.Len(t, terms, 3)
	assert.InDelta(t, g1, terms[0].Coeff, 1e-15)
	assert.InDelta(t, g0, terms[1].Coeff, 1e-15)
	assert.InDelta(t, g1, terms[2].Coeff, 1e-15)
	assert.Equal(t, 4, tj.Order())
	assert.True(t, tj.Symmetric())
}

func TestTripleJumpRejectsAsymmetricBase(t *testing.T) {
	drift, kick := oscillatorParts()
	lt, err := LieTrotter(2).Bind([]Integrator{drift, kick})
	require.NoError(t, err)

	_, err = TripleJump(lt)
	var serr *SchemeError
	require.ErrorAs(t, err, &serr)
}

func TestTripleJumpRejectsExactFlow(t *testing.T) {
	drift, _ := oscillatorParts()
	_, err := TripleJump(drift)
	var serr *SchemeError
	require.ErrorAs(t, err, &serr)
}

func TestYoshidaRaisesOrderRecursively(t *testing.T) {
	drift, kick := oscillatorParts()
	strang, err := Strang(2).Bind([]Integrator{drift, kick})
	require.NoError(t, err)

	sixth, err := Yoshida(strang, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, sixth.Order())
	assert.True(t, sixth.Symmetric())

	// Two jump levels: 3x3 scaled copies of the base.
	comp, ok := sixth.(*Composition)
	require.True(t, ok)
	assert.Len(t, comp.Terms(), 3)

	_, err = Yoshida(strang, 5)
	assert.Error(t, err)
}

func TestSplitUsesExactFlowsAndFallback(t *testing.T) {
	field := &mixedSplit{}
	comp, err := Split(field, Strang(2), 64)
	require.NoError(t, err)

	// The first-order fallback caps Strang's declared order and demotes
	// the symmetry claim; inexact flows are never silently promoted.
	assert.Equal(t, 1, comp.Order())
	assert.False(t, comp.Symmetric())
}

// mixedSplit has one exact part and one without a flow.
type mixedSplit struct{}

func (mixedSplit) Evaluate(x phase.State, t float64) phase.State {
	return phase.State{x[1], -x[0]}
}

func (mixedSplit) Parts() []phase.Part {
	return []phase.Part{
		{
			Name:  "drift",
			Field: phase.FieldFunc(func(x phase.State, _ float64) phase.State { return phase.State{x[1], 0} }),
			Flow: phase.FlowFunc(func(x phase.State, _, dt float64) phase.State {
				return phase.State{x[0] + dt*x[1], x[1]}
			}),
			Exact: true,
		},
		{
			Name:  "kick",
			Field: phase.FieldFunc(func(x phase.State, _ float64) phase.State { return phase.State{0, -x[0]} }),
		},
	}
}
