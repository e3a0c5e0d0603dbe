package harness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OrderEstimate is the observed convergence order of one candidate across
// its step-size refinement family.
type OrderEstimate struct {
	Label  string
	Dts    []float64 // descending (coarse to fine)
	Errors []float64 // global errors matching Dts

	// Pairwise holds log(err_i/err_{i+1}) / log(dt_i/dt_{i+1}) per
	// refinement pair. A non-finite ratio (zero or non-finite error) is
	// recorded as NaN: undetermined, never guessed.
	Pairwise []float64

	// Fitted is the slope of log(err) against log(dt) over the finite
	// points; NaN when fewer than two remain.
	Fitted float64

	// Erratic flags a pairwise spread above 0.5: the step sizes are not
	// yet in the asymptotic regime and the values should not be averaged.
	Erratic bool
}

// Undetermined reports whether no finite order could be observed.
func (o OrderEstimate) Undetermined() bool {
	return math.IsNaN(o.Fitted)
}

func estimateOrders(entries []*Entry) []OrderEstimate {
	byLabel := make(map[string][]*Entry)
	var labels []string
	for _, e := range entries {
		if e.Status != StatusOK || !e.ErrAvailable {
			continue
		}
		if _, ok := byLabel[e.Label]; !ok {
			labels = append(labels, e.Label)
		}
		byLabel[e.Label] = append(byLabel[e.Label], e)
	}
	sort.Strings(labels)

	out := make([]OrderEstimate, 0, len(labels))
	for _, label := range labels {
		group := byLabel[label]
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Dt > group[j].Dt })

		est := OrderEstimate{Label: label, Fitted: math.NaN()}
		for _, e := range group {
			est.Dts = append(est.Dts, e.Dt)
			est.Errors = append(est.Errors, e.GlobalErr)
		}

		for i := 0; i+1 < len(group); i++ {
			e0, e1 := group[i].GlobalErr, group[i+1].GlobalErr
			ratio := math.NaN()
			if e0 > 0 && e1 > 0 {
				ratio = math.Log(e0/e1) / math.Log(group[i].Dt/group[i+1].Dt)
			}
			if !isFinite(ratio) {
				ratio = math.NaN()
			}
			est.Pairwise = append(est.Pairwise, ratio)
		}

		var lo, hi = math.Inf(1), math.Inf(-1)
		for _, r := range est.Pairwise {
			if !math.IsNaN(r) {
				lo = math.Min(lo, r)
				hi = math.Max(hi, r)
			}
		}
		if hi > lo && hi-lo > 0.5 {
			est.Erratic = true
		}

		var xs, ys []float64
		for i, e := range group {
			if est.Errors[i] > 0 && isFinite(est.Errors[i]) {
				xs = append(xs, math.Log(e.Dt))
				ys = append(ys, math.Log(est.Errors[i]))
			}
		}
		if len(xs) >= 2 {
			_, slope := stat.LinearRegression(xs, ys, nil, false)
			if isFinite(slope) {
				est.Fitted = slope
			}
		}
		out = append(out, est)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
