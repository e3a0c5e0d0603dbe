package compose

import (
	"github.com/geonum/gni/internal/phase"
)

// Term is one factor of a composition: the child integrator and the
// coefficient scaling its effective step size.
type Term struct {
	Child Integrator
	Coeff float64
}

// Composition is an integrator whose single step is an ordered sequence of
// scaled child steps. New schemes are data (coefficient lists), not new
// types.
type Composition struct {
	terms     []Term
	order     int
	symmetric bool
}

// Option adjusts the declared properties of a composition at construction.
type Option func(*Composition)

// WithOrder declares the composition's consistency order, overriding the
// conservative minimum over children. Named constructions of known order
// use this.
func WithOrder(p int) Option {
	return func(c *Composition) { c.order = p }
}

// WithSymmetric declares time-reversal symmetry, overriding structural
// detection.
func WithSymmetric(sym bool) Option {
	return func(c *Composition) { c.symmetric = sym }
}

// Compose builds a composite integrator from ordered (child, coefficient)
// terms. Without an explicit WithOrder the declared order is the minimum
// over the children, which never overstates; symmetry defaults to
// structural palindrome detection over the term list.
func Compose(terms []Term, opts ...Option) (*Composition, error) {
	if len(terms) == 0 {
		return nil, &SchemeError{Reason: "empty composition"}
	}
	c := &Composition{terms: make([]Term, len(terms))}
	copy(c.terms, terms)

	c.order = terms[0].Child.Order()
	for _, tm := range terms[1:] {
		if p := tm.Child.Order(); p < c.order {
			c.order = p
		}
	}
	c.symmetric = palindromic(c.terms)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Step applies the terms in order. Each sub-step advances the running
// local time by its scaled increment so time-dependent fields see the
// correct local time.
func (c *Composition) Step(x phase.State, t, dt float64) phase.State {
	s := x
	tr := t
	for _, tm := range c.terms {
		h := tm.Coeff * dt
		s = tm.Child.Step(s, tr, h)
		tr += h
	}
	return s
}

func (c *Composition) Order() int      { return c.order }
func (c *Composition) Symmetric() bool { return c.symmetric }

// Terms returns a copy of the term list.
func (c *Composition) Terms() []Term {
	out := make([]Term, len(c.terms))
	copy(out, c.terms)
	return out
}

// Scaled returns a new composition with every coefficient multiplied by
// factor, leaving the receiver untouched.
func (c *Composition) Scaled(factor float64) *Composition {
	terms := make([]Term, len(c.terms))
	for i, tm := range c.terms {
		terms[i] = Term{Child: tm.Child, Coeff: factor * tm.Coeff}
	}
	return &Composition{terms: terms, order: c.order, symmetric: c.symmetric}
}

// palindromic reports whether the term list reads the same backward
// (mirrored entries bind the same child with the same coefficient) and
// every child is itself time-reversal symmetric. This is the structural
// condition for guaranteed even order and reversibility of the composite.
func palindromic(terms []Term) bool {
	n := len(terms)
	for i := 0; i < n/2; i++ {
		a, b := terms[i], terms[n-1-i]
		if a.Child != b.Child || a.Coeff != b.Coeff {
			return false
		}
	}
	for _, tm := range terms {
		if !tm.Child.Symmetric() {
			return false
		}
	}
	return true
}
