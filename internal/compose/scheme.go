package compose

import (
	"fmt"
	"math"
)

// SchemeError reports a malformed composition scheme. It is raised at
// construction time, before any stepping occurs.
type SchemeError struct {
	Index  int // position in the entry list, -1 when not positional
	Part   int
	Parts  int
	Reason string
}

func (e *SchemeError) Error() string {
	if e.Reason != "" {
		return "gni: invalid scheme: " + e.Reason
	}
	return fmt.Sprintf("gni: invalid scheme: entry %d references part %d of %d", e.Index, e.Part, e.Parts)
}

// Entry binds a part index to a step-size coefficient.
type Entry struct {
	Part  int     `yaml:"part"`
	Coeff float64 `yaml:"coeff"`
}

// Scheme is an ordered coefficient list over the parts of a split field.
// Order 0 means undeclared: binding then falls back to the conservative
// minimum over the bound children.
type Scheme struct {
	Entries   []Entry
	Order     int
	Symmetric bool
}

// NewScheme wraps a user-supplied entry list verbatim with its declared
// order and symmetry. Validation happens in Bind.
func NewScheme(entries []Entry, order int, symmetric bool) Scheme {
	es := make([]Entry, len(entries))
	copy(es, entries)
	return Scheme{Entries: es, Order: order, Symmetric: symmetric}
}

// CheckSymmetric reports whether the entry list is palindromic: read
// backward it reproduces the same (part, coefficient) sequence. Symmetric
// schemes bound to symmetric children yield time-reversible integrators of
// even order.
func (s Scheme) CheckSymmetric() bool {
	n := len(s.Entries)
	for i := 0; i < n/2; i++ {
		a, b := s.Entries[i], s.Entries[n-1-i]
		if a.Part != b.Part || a.Coeff != b.Coeff {
			return false
		}
	}
	return n > 0
}

// Scaled returns a copy of the scheme with every coefficient multiplied by
// factor.
func (s Scheme) Scaled(factor float64) Scheme {
	es := make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		es[i] = Entry{Part: e.Part, Coeff: factor * e.Coeff}
	}
	return Scheme{Entries: es, Order: s.Order, Symmetric: s.Symmetric}
}

// Bind resolves part indices against the given children and produces the
// composite integrator. Out-of-range indices and empty schemes fail here,
// fast, with a *SchemeError. A declared-symmetric scheme whose entry list
// is not palindromic is rejected rather than silently trusted.
func (s Scheme) Bind(children []Integrator) (*Composition, error) {
	if len(s.Entries) == 0 {
		return nil, &SchemeError{Index: -1, Parts: len(children), Reason: "empty scheme"}
	}
	if s.Symmetric && !s.CheckSymmetric() {
		return nil, &SchemeError{Index: -1, Parts: len(children), Reason: "declared symmetric but entries are not palindromic"}
	}
	terms := make([]Term, len(s.Entries))
	for i, e := range s.Entries {
		if e.Part < 0 || e.Part >= len(children) {
			return nil, &SchemeError{Index: i, Part: e.Part, Parts: len(children)}
		}
		terms[i] = Term{Child: children[e.Part], Coeff: e.Coeff}
	}
	// Declared properties are validated, never trusted to overstate.
	// Symmetry is detected structurally from the bound terms, so an
	// asymmetric child (a fallback flow, say) demotes a palindromic
	// scheme. Likewise the declared order is capped by the children's
	// conservative order: Strang over a first-order fallback is first
	// order, not second.
	opts := []Option{}
	if s.Order > 0 {
		order := s.Order
		for _, tm := range terms {
			if p := tm.Child.Order(); p < order {
				order = p
			}
		}
		opts = append(opts, WithOrder(order))
	}
	return Compose(terms, opts...)
}

// LieTrotter is the first-order splitting: each of n parts applied once,
// in listed order, with the full step.
func LieTrotter(n int) Scheme {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Part: i, Coeff: 1}
	}
	order := 1
	if n == 1 {
		order = 0 // single part: the scheme reduces to the part itself
	}
	return Scheme{Entries: entries, Order: order}
}

// Strang is the second-order symmetric splitting. For parts [A, B] the
// sequence is A(dt/2) B(dt) A(dt/2); for n parts the Strang–Marchuk
// generalization sweeps half-steps outward around a full step on the last
// listed part.
func Strang(n int) Scheme {
	if n == 1 {
		return LieTrotter(1)
	}
	entries := make([]Entry, 0, 2*n-1)
	for i := 0; i < n-1; i++ {
		entries = append(entries, Entry{Part: i, Coeff: 0.5})
	}
	entries = append(entries, Entry{Part: n - 1, Coeff: 1})
	for i := n - 2; i >= 0; i-- {
		entries = append(entries, Entry{Part: i, Coeff: 0.5})
	}
	return Scheme{Entries: entries, Order: 2, Symmetric: true}
}

// TripleJump raises a symmetric base method of even order p to order p+2
// by composing three scaled copies: S(g1*dt) S(g0*dt) S(g1*dt) with
// g1 = 1/(2 - 2^(1/(p+1))) and g0 = 1 - 2*g1. The construction is pure
// and can be applied to its own result for orders 6, 8, and beyond.
func TripleJump(base Integrator) (*Composition, error) {
	if !base.Symmetric() {
		return nil, &SchemeError{Index: -1, Reason: "triple jump requires a symmetric base method"}
	}
	p := base.Order()
	if p >= OrderExact {
		return nil, &SchemeError{Index: -1, Reason: "triple jump over an exact flow is redundant"}
	}
	if p%2 != 0 {
		return nil, &SchemeError{Index: -1, Reason: fmt.Sprintf("triple jump requires even base order, got %d", p)}
	}
	g1 := 1.0 / (2.0 - math.Pow(2, 1.0/float64(p+1)))
	g0 := 1.0 - 2.0*g1
	terms := []Term{
		{Child: base, Coeff: g1},
		{Child: base, Coeff: g0},
		{Child: base, Coeff: g1},
	}
	return Compose(terms, WithOrder(p+2), WithSymmetric(true))
}

// Yoshida applies TripleJump repeatedly until the declared order reaches
// target. The base must be symmetric of even order.
func Yoshida(base Integrator, target int) (Integrator, error) {
	if target%2 != 0 {
		return nil, &SchemeError{Index: -1, Reason: fmt.Sprintf("target order must be even, got %d", target)}
	}
	cur := base
	for cur.Order() < target {
		next, err := TripleJump(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
