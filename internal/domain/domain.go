// Package domain implements the abstract-domain protocol of spec.md §4.3
// as a single generic interface every domain satisfies, and the six
// concrete domains of spec.md §4.4. Generic code is parameterized by the
// domain type and its concrete element type; there is no reflection or
// duck typing, per spec.md §9.
package domain

// Comparison is the refinement-aware comparator tag set used by Compare.
type Comparison string

const (
	CmpEQ Comparison = "eq"
	CmpNE Comparison = "ne"
	CmpLT Comparison = "lt"
	CmpLE Comparison = "le"
	CmpGT Comparison = "gt"
	CmpGE Comparison = "ge"
)

// Refinement is one entry of the map compare(op,a,b) returns: the operand
// pair narrowed to exactly the concrete pairs producing a given boolean
// outcome.
type Refinement[A any] struct {
	Left, Right A
}

// DivOutcome is the union type integer Div/Rem return: a value, the
// divide-by-zero token, or both when the divisor may or may not be zero.
type DivOutcome[A any] struct {
	Value     A
	HasValue  bool
	DivByZero bool
}

// Lattice is the self-referential ("curiously recurring") interface every
// domain implements: A is the domain's own type, T is the concrete element
// type it abstracts over (int64 for the integer domains, float64 for
// DoubleInterval, string for StringSet, []float64 for Box).
type Lattice[A any, T any] interface {
	Join(other A) A
	Meet(other A) A
	Equal(other A) bool
	LessEq(other A) bool // self ⊑ other

	Add(other A) A
	Sub(other A) A
	Mul(other A) A
	Div(other A) DivOutcome[A]
	Rem(other A) DivOutcome[A]
	Neg() A

	Compare(op Comparison, other A) map[bool]Refinement[A]

	Contains(v T) bool
	Widen(other A, thresholds []T) A

	IsBottom() bool
	String() string
}

// Ops bundles the constructor "classmethods" Go cannot express as instance
// methods: Bot/Top/Abstract build a domain element without one already in
// hand. The abstract interpreter (internal/abstract) takes one of these
// alongside the Lattice type parameter to stay fully generic over domain
// choice, mirroring the Python reference's abstraction_cls parameter.
type Ops[A any, T any] struct {
	Bot      func() A
	Top      func() A
	Abstract func(values []T) A
}
