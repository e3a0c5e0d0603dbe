package phase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitOscillator is a correct two-part split of q'=p, p'=-q.
type splitOscillator struct{}

func (splitOscillator) Evaluate(x State, t float64) State {
	return State{x[1], -x[0]}
}

func (splitOscillator) Parts() []Part {
	return []Part{
		{Name: "A", Field: FieldFunc(func(x State, _ float64) State { return State{x[1], 0} })},
		{Name: "B", Field: FieldFunc(func(x State, _ float64) State { return State{0, -x[0]} })},
	}
}

// brokenSplit drops the second part's contribution.
type brokenSplit struct{ splitOscillator }

func (brokenSplit) Parts() []Part {
	return []Part{
		{Name: "A", Field: FieldFunc(func(x State, _ float64) State { return State{x[1], 0} })},
	}
}

func TestCheckSplitPasses(t *testing.T) {
	samples := []State{{1, 0}, {0.3, -2}, {-1.5, 0.7}}
	assert.NoError(t, CheckSplit(splitOscillator{}, samples, nil, 1e-14))
}

func TestCheckSplitReportsConsistencyError(t *testing.T) {
	samples := []State{{1, 0}, {0.3, -2}}
	err := CheckSplit(brokenSplit{}, samples, []float64{0, 1.5}, 1e-12)
	require.Error(t, err)

	var cerr *ConsistencyError
	require.True(t, errors.As(err, &cerr))
	assert.Greater(t, cerr.Deviation, 1e-12)
	assert.Equal(t, State{1, 0}, cerr.Sample)
}

func TestCheckSplitMismatchedTimes(t *testing.T) {
	err := CheckSplit(splitOscillator{}, []State{{1, 0}}, []float64{0, 1}, 1e-12)
	assert.Error(t, err)
}
