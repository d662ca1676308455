package domain

import (
	"fmt"
	"math"
	"strings"
)

// BoxDefaultDimension is the dimension assumed when bottom/top values are
// constructed without one already in hand, matching
// PolyhedralDomain.DEFAULT_DIMENSION in
// original_source/project/abstractions/polyhedral.py.
const BoxDefaultDimension = 1

// Box is the axis-aligned polyhedral domain: a per-dimension interval
// hull. Grounded on polyhedral.py, with one deliberate divergence recorded
// in DESIGN.md decision 2: Mul collapses to top unconditionally, rather
// than aliasing to Sub's pairwise-apply the way the Python reference does,
// per spec.md §4.4's explicit statement that multiplication is not
// modeled for this domain.
type Box struct {
	Dimension int
	Bottom    bool
	Top       bool
	Bounds    []BoxBound
}

type BoxBound struct {
	Lo, Hi float64
}

func BoxBot(dim int) Box { return Box{Dimension: dim, Bottom: true} }
func BoxTop(dim int) Box { return Box{Dimension: dim, Top: true} }

// BoxAbstract builds a box from a set of points, all of which must share
// the same dimension.
func BoxAbstract(points [][]float64) (Box, error) {
	if len(points) == 0 {
		return BoxBot(BoxDefaultDimension), nil
	}
	dim := len(points[0])
	mins := make([]float64, dim)
	maxs := make([]float64, dim)
	for i := range mins {
		mins[i] = math.Inf(1)
		maxs[i] = math.Inf(-1)
	}
	for _, p := range points {
		if len(p) != dim {
			return Box{}, fmt.Errorf("box points must share dimension, got %d and %d", dim, len(p))
		}
		for i, v := range p {
			mins[i] = math.Min(mins[i], v)
			maxs[i] = math.Max(maxs[i], v)
		}
	}
	bounds := make([]BoxBound, dim)
	for i := range bounds {
		bounds[i] = BoxBound{Lo: mins[i], Hi: maxs[i]}
	}
	return Box{Dimension: dim, Bounds: bounds}, nil
}

// BoxFromInt casts an int to a 1-D point box [v,v].
func BoxFromInt(v int64) Box {
	b, _ := BoxAbstract([][]float64{{float64(v)}})
	return b
}

func (b Box) IsBottom() bool { return b.Bottom }

func (b Box) String() string {
	if b.Bottom {
		return "⊥poly"
	}
	if b.Top {
		return "⊤poly"
	}
	parts := make([]string, len(b.Bounds))
	for i, bound := range b.Bounds {
		parts[i] = fmt.Sprintf("%g≤x%d≤%g", bound.Lo, i, bound.Hi)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (b Box) Contains(v []float64) bool {
	if b.Bottom {
		return false
	}
	if b.Top {
		return true
	}
	if len(v) != b.Dimension {
		return false
	}
	for i, x := range v {
		if x < b.Bounds[i].Lo || x > b.Bounds[i].Hi {
			return false
		}
	}
	return true
}

func (b Box) preferDimension(o Box) int {
	if !b.Bottom && !b.Top {
		return b.Dimension
	}
	if !o.Bottom && !o.Top {
		return o.Dimension
	}
	if b.Dimension > o.Dimension {
		return b.Dimension
	}
	return o.Dimension
}

func (b Box) applyPairwise(o Box, f func(a, c BoxBound) BoxBound) Box {
	if b.Bottom || o.Bottom {
		return BoxBot(b.preferDimension(o))
	}
	if b.Top || o.Top {
		return BoxTop(b.preferDimension(o))
	}
	if b.Dimension != o.Dimension {
		return BoxTop(maxInt(b.Dimension, o.Dimension))
	}
	bounds := make([]BoxBound, b.Dimension)
	for i := range bounds {
		bounds[i] = f(b.Bounds[i], o.Bounds[i])
	}
	return Box{Dimension: b.Dimension, Bounds: bounds}
}

func maxInt(a, c int) int {
	if a > c {
		return a
	}
	return c
}

func (b Box) Add(o Box) Box {
	return b.applyPairwise(o, func(a, c BoxBound) BoxBound {
		return BoxBound{Lo: a.Lo + c.Lo, Hi: a.Hi + c.Hi}
	})
}

func (b Box) Sub(o Box) Box {
	return b.applyPairwise(o, func(a, c BoxBound) BoxBound {
		return BoxBound{Lo: a.Lo - c.Hi, Hi: a.Hi - c.Lo}
	})
}

// Mul is unmodeled: it always collapses to top at the operands' preferred
// dimension (see the divergence note on Box).
func (b Box) Mul(o Box) Box {
	if b.Bottom || o.Bottom {
		return BoxBot(b.preferDimension(o))
	}
	return BoxTop(b.preferDimension(o))
}

func (b Box) Neg() Box {
	if b.Bottom {
		return b
	}
	if b.Top {
		return b
	}
	bounds := make([]BoxBound, b.Dimension)
	for i, bound := range b.Bounds {
		bounds[i] = BoxBound{Lo: -bound.Hi, Hi: -bound.Lo}
	}
	return Box{Dimension: b.Dimension, Bounds: bounds}
}

// Div and Rem are unmodeled for Box, like Mul: division has no natural
// per-dimension interval semantics here, so both collapse to top.
func (b Box) Div(o Box) DivOutcome[Box] {
	if b.Bottom || o.Bottom {
		return DivOutcome[Box]{}
	}
	return DivOutcome[Box]{Value: BoxTop(b.preferDimension(o)), HasValue: true}
}

func (b Box) Rem(o Box) DivOutcome[Box] {
	if b.Bottom || o.Bottom {
		return DivOutcome[Box]{}
	}
	return DivOutcome[Box]{Value: BoxTop(b.preferDimension(o)), HasValue: true}
}

func (b Box) Equal(o Box) bool {
	if b.Bottom && o.Bottom {
		return true
	}
	if b.Top && o.Top {
		return true
	}
	if b.Bottom != o.Bottom || b.Top != o.Top {
		return false
	}
	if b.Dimension != o.Dimension || len(b.Bounds) != len(o.Bounds) {
		return false
	}
	for i, bound := range b.Bounds {
		if bound != o.Bounds[i] {
			return false
		}
	}
	return true
}

func (b Box) LessEq(o Box) bool {
	if b.Bottom {
		return true
	}
	if o.Top {
		return true
	}
	if b.Top {
		return o.Top
	}
	if b.Dimension != o.Dimension {
		return false
	}
	for i, bound := range b.Bounds {
		ob := o.Bounds[i]
		if bound.Lo < ob.Lo || bound.Hi > ob.Hi {
			return false
		}
	}
	return true
}

// Meet implements the dimension-mismatch rule decided in DESIGN.md
// decision 2: same-dimension boxes intersect coordinate-wise; mismatched
// boxes intersect on the overlapping prefix and return the lower-dimension
// box exactly when that projected intersection matches it verbatim,
// otherwise collapse to top at the higher dimension.
func (b Box) Meet(o Box) Box {
	maxDim := maxInt(b.Dimension, o.Dimension)
	if b.Bottom || o.Bottom {
		return BoxBot(maxDim)
	}
	if b.Top && o.Top {
		return BoxTop(maxDim)
	}
	if b.Top {
		return o
	}
	if o.Top {
		return b
	}
	if b.Dimension == o.Dimension {
		bounds := make([]BoxBound, b.Dimension)
		for i, bound := range b.Bounds {
			ob := o.Bounds[i]
			lo, hi := math.Max(bound.Lo, ob.Lo), math.Min(bound.Hi, ob.Hi)
			if lo > hi {
				return BoxBot(b.Dimension)
			}
			bounds[i] = BoxBound{Lo: lo, Hi: hi}
		}
		return Box{Dimension: b.Dimension, Bounds: bounds}
	}

	common := minInt(b.Dimension, o.Dimension)
	intersection := make([]BoxBound, common)
	for i := 0; i < common; i++ {
		lo := math.Max(b.Bounds[i].Lo, o.Bounds[i].Lo)
		hi := math.Min(b.Bounds[i].Hi, o.Bounds[i].Hi)
		if lo > hi {
			return BoxBot(maxDim)
		}
		intersection[i] = BoxBound{Lo: lo, Hi: hi}
	}
	small := b
	if o.Dimension < b.Dimension {
		small = o
	}
	sameAsSmall := true
	for i := 0; i < common; i++ {
		if intersection[i] != small.Bounds[i] {
			sameAsSmall = false
			break
		}
	}
	if sameAsSmall {
		bounds := make([]BoxBound, len(small.Bounds))
		copy(bounds, small.Bounds)
		return Box{Dimension: small.Dimension, Bounds: bounds}
	}
	return BoxTop(maxDim)
}

// Join is the coordinate-wise hull; dimension mismatches between two
// proper boxes collapse to top, bottom is neutral.
func (b Box) Join(o Box) Box {
	if b.Bottom {
		return o
	}
	if o.Bottom {
		return b
	}
	if b.Dimension != o.Dimension {
		return BoxTop(maxInt(b.Dimension, o.Dimension))
	}
	if b.Top || o.Top {
		return BoxTop(b.Dimension)
	}
	bounds := make([]BoxBound, b.Dimension)
	for i, bound := range b.Bounds {
		ob := o.Bounds[i]
		bounds[i] = BoxBound{Lo: math.Min(bound.Lo, ob.Lo), Hi: math.Max(bound.Hi, ob.Hi)}
	}
	return Box{Dimension: b.Dimension, Bounds: bounds}
}

// Widen is join, matching the Python reference's deliberately simple
// widening (bounding-box hull, no threshold set).
func (b Box) Widen(o Box, _ [][]float64) Box { return b.Join(o) }

func (b Box) Compare(op Comparison, o Box) map[bool]Refinement[Box] {
	if b.Bottom || o.Bottom {
		return map[bool]Refinement[Box]{}
	}
	switch op {
	case CmpLE:
		if b.LessEq(o) {
			return map[bool]Refinement[Box]{true: {Left: b, Right: o}}
		}
		return map[bool]Refinement[Box]{true: {Left: b, Right: o}, false: {Left: b, Right: o}}
	case CmpGE:
		return o.Compare(CmpLE, b)
	case CmpEQ:
		if b.Equal(o) {
			return map[bool]Refinement[Box]{true: {Left: b, Right: o}}
		}
		return map[bool]Refinement[Box]{true: {Left: b, Right: o}, false: {Left: b, Right: o}}
	case CmpNE:
		eq := b.Compare(CmpEQ, o)
		if _, ok := eq[true]; ok && len(eq) == 1 {
			return map[bool]Refinement[Box]{false: eq[true]}
		}
		return map[bool]Refinement[Box]{true: {Left: b, Right: o}, false: {Left: b, Right: o}}
	default:
		// LT/GT have no precise refinement in this domain: conservatively
		// both outcomes remain possible, matching the Python reference's
		// "very conservative" lt/gt.
		return map[bool]Refinement[Box]{true: {Left: b, Right: o}, false: {Left: b, Right: o}}
	}
}

func minInt(a, c int) int {
	if a < c {
		return a
	}
	return c
}

var _ Lattice[Box, []float64] = Box{}
