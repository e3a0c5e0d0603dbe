package phase

import (
	"errors"
	"fmt"
)

// ErrStepSizeUnderflow indicates the adaptive driver could not satisfy the
// tolerance above the configured minimum step size.
var ErrStepSizeUnderflow = errors.New("gni: adaptive step size below minimum")

// ConsistencyError reports a split field whose parts do not sum back to
// the whole. Raised only by CheckSplit, never during stepping.
type ConsistencyError struct {
	T         float64
	Sample    State
	Deviation float64
	Tol       float64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("gni: split parts deviate from whole field by %.3e (tol %.3e) at t=%.6g", e.Deviation, e.Tol, e.T)
}

// DivergenceError reports a non-finite state encountered mid-trajectory.
// T is the time of first occurrence.
type DivergenceError struct {
	T float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("gni: state diverged (NaN or Inf) at t=%.6g", e.T)
}
