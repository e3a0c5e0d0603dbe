package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geonum/gni/internal/harness"
)

func TestWorstDriftBreaksTiesDeterministically(t *testing.T) {
	e := &harness.Entry{Drift: map[string]float64{
		"energy":           2.5e-3,
		"angular momentum": 2.5e-3,
	}}
	// Map iteration order varies; the rendered column must not.
	for i := 0; i < 50; i++ {
		name, d, ok := worstDrift(e)
		assert.True(t, ok)
		assert.Equal(t, "angular momentum", name)
		assert.Equal(t, 2.5e-3, d)
	}
}

func TestWorstDriftEmpty(t *testing.T) {
	_, _, ok := worstDrift(&harness.Entry{Drift: map[string]float64{}})
	assert.False(t, ok)
}
