package phase

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CheckSplit verifies that the parts of a split field sum to the whole on
// the given sample states. ts supplies the evaluation time per sample; nil
// means t=0 everywhere. Returns a *ConsistencyError for the first sample
// whose deviation exceeds tol.
//
// The check is opt-in diagnostics: it costs one whole-field and one
// per-part evaluation per sample, so it is never run implicitly while
// stepping.
func CheckSplit(f SplitField, samples []State, ts []float64, tol float64) error {
	if ts != nil && len(ts) != len(samples) {
		return fmt.Errorf("gni: %d sample times for %d samples", len(ts), len(samples))
	}
	parts := f.Parts()
	for i, x := range samples {
		t := 0.0
		if ts != nil {
			t = ts[i]
		}
		whole := f.Evaluate(x, t)
		sum := make(State, len(whole))
		for _, p := range parts {
			floats.Add(sum, p.Field.Evaluate(x, t))
		}
		dev := sum.Dist(whole)
		if dev > tol {
			return &ConsistencyError{T: t, Sample: x.Clone(), Deviation: dev, Tol: tol}
		}
	}
	return nil
}
