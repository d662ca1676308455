package domain

import (
	"fmt"
	"math"
	"math/big"
)

// NegInf and PosInf are the sentinel endpoints standing for the interval
// domain's unbounded ends.
const (
	NegInf = math.MinInt64
	PosInf = math.MaxInt64
)

// Interval is the infinite-height domain over integer ranges. Grounded on
// original_source/project/abstractions/interval.py: corner arithmetic,
// JVM-sign remainder, and K-threshold widening.
type Interval struct {
	Bottom bool
	Lo, Hi int64
}

func IntervalBot() Interval { return Interval{Bottom: true} }
func IntervalTop() Interval { return Interval{Lo: NegInf, Hi: PosInf} }

func IntervalAbstract(vs []int64) Interval {
	if len(vs) == 0 {
		return IntervalBot()
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return Interval{Lo: lo, Hi: hi}
}

func IntervalSingleton(v int64) Interval { return Interval{Lo: v, Hi: v} }

func (iv Interval) IsBottom() bool { return iv.Bottom }

func (iv Interval) String() string {
	if iv.Bottom {
		return "⊥"
	}
	lo, hi := "-inf", "+inf"
	if iv.Lo != NegInf {
		lo = fmt.Sprintf("%d", iv.Lo)
	}
	if iv.Hi != PosInf {
		hi = fmt.Sprintf("%d", iv.Hi)
	}
	return fmt.Sprintf("[%s,%s]", lo, hi)
}

func (iv Interval) Join(o Interval) Interval {
	if iv.Bottom {
		return o
	}
	if o.Bottom {
		return iv
	}
	lo := iv.Lo
	if o.Lo < lo {
		lo = o.Lo
	}
	hi := iv.Hi
	if o.Hi > hi {
		hi = o.Hi
	}
	return Interval{Lo: lo, Hi: hi}
}

func (iv Interval) Meet(o Interval) Interval {
	if iv.Bottom || o.Bottom {
		return IntervalBot()
	}
	lo := iv.Lo
	if o.Lo > lo {
		lo = o.Lo
	}
	hi := iv.Hi
	if o.Hi < hi {
		hi = o.Hi
	}
	if lo > hi {
		return IntervalBot()
	}
	return Interval{Lo: lo, Hi: hi}
}

func (iv Interval) Equal(o Interval) bool {
	if iv.Bottom || o.Bottom {
		return iv.Bottom == o.Bottom
	}
	return iv.Lo == o.Lo && iv.Hi == o.Hi
}

func (iv Interval) LessEq(o Interval) bool {
	if iv.Bottom {
		return true
	}
	if o.Bottom {
		return false
	}
	return iv.Lo >= o.Lo && iv.Hi <= o.Hi
}

func (iv Interval) Contains(v int64) bool {
	if iv.Bottom {
		return false
	}
	return v >= iv.Lo && v <= iv.Hi
}

func isSingleton(iv Interval) bool { return !iv.Bottom && iv.Lo == iv.Hi }

func addLo(a, b int64) int64 {
	if a == NegInf || b == NegInf {
		return NegInf
	}
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return PosInf
		}
		return NegInf
	}
	return sum
}

func addHi(a, b int64) int64 {
	if a == PosInf || b == PosInf {
		return PosInf
	}
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return PosInf
		}
		return NegInf
	}
	return sum
}

func addSat(a, b int64) int64 {
	if a == NegInf || b == NegInf {
		return NegInf
	}
	if a == PosInf || b == PosInf {
		return PosInf
	}
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return PosInf
		}
		return NegInf
	}
	return sum
}

func subSat(a, b int64) int64 {
	if b == PosInf {
		return NegInf
	}
	if b == NegInf {
		return PosInf
	}
	return addSat(a, -b)
}

func negEndpoint(a int64) int64 {
	switch a {
	case PosInf:
		return NegInf
	case NegInf:
		return PosInf
	default:
		return -a
	}
}

func (iv Interval) Neg() Interval {
	if iv.Bottom {
		return iv
	}
	return Interval{Lo: negEndpoint(iv.Hi), Hi: negEndpoint(iv.Lo)}
}

func (iv Interval) Add(o Interval) Interval {
	if iv.Bottom || o.Bottom {
		return IntervalBot()
	}
	return Interval{Lo: addLo(iv.Lo, o.Lo), Hi: addHi(iv.Hi, o.Hi)}
}

func (iv Interval) Sub(o Interval) Interval { return iv.Add(o.Neg()) }

func mulEndpoint(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	aInf := a == NegInf || a == PosInf
	bInf := b == NegInf || b == PosInf
	if aInf || bInf {
		if (a < 0) != (b < 0) {
			return NegInf
		}
		return PosInf
	}
	prod := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	if prod.Cmp(big.NewInt(PosInf)) > 0 {
		return PosInf
	}
	if prod.Cmp(big.NewInt(NegInf)) < 0 {
		return NegInf
	}
	return prod.Int64()
}

func minMax(vs []int64) (int64, int64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (iv Interval) Mul(o Interval) Interval {
	if iv.Bottom || o.Bottom {
		return IntervalBot()
	}
	corners := []int64{
		mulEndpoint(iv.Lo, o.Lo), mulEndpoint(iv.Lo, o.Hi),
		mulEndpoint(iv.Hi, o.Lo), mulEndpoint(iv.Hi, o.Hi),
	}
	lo, hi := minMax(corners)
	return Interval{Lo: lo, Hi: hi}
}

func divEndpoint(a, b int64) int64 {
	if b == PosInf || b == NegInf {
		if a == PosInf || a == NegInf {
			if (a < 0) != (b < 0) {
				return -1
			}
			return 1
		}
		return 0
	}
	if a == PosInf || a == NegInf {
		if (a < 0) != (b < 0) {
			return NegInf
		}
		return PosInf
	}
	return a / b
}

// splitNonZero divides o into its strictly-negative and strictly-positive
// sub-intervals, dropping any portion that is exactly zero.
func splitNonZero(o Interval) []Interval {
	var parts []Interval
	if o.Lo < 0 {
		hi := o.Hi
		if hi > -1 {
			hi = -1
		}
		if hi >= o.Lo {
			parts = append(parts, Interval{Lo: o.Lo, Hi: hi})
		}
	}
	if o.Hi > 0 {
		lo := o.Lo
		if lo < 1 {
			lo = 1
		}
		if lo <= o.Hi {
			parts = append(parts, Interval{Lo: lo, Hi: o.Hi})
		}
	}
	return parts
}

func (iv Interval) Div(o Interval) DivOutcome[Interval] {
	if iv.Bottom || o.Bottom {
		return DivOutcome[Interval]{}
	}
	divByZero := o.Lo <= 0 && o.Hi >= 0
	parts := splitNonZero(o)
	if len(parts) == 0 {
		return DivOutcome[Interval]{DivByZero: true}
	}
	var lo, hi int64
	first := true
	for _, p := range parts {
		corners := []int64{
			divEndpoint(iv.Lo, p.Lo), divEndpoint(iv.Lo, p.Hi),
			divEndpoint(iv.Hi, p.Lo), divEndpoint(iv.Hi, p.Hi),
		}
		clo, chi := minMax(corners)
		if first {
			lo, hi = clo, chi
			first = false
		} else {
			if clo < lo {
				lo = clo
			}
			if chi > hi {
				hi = chi
			}
		}
	}
	return DivOutcome[Interval]{Value: Interval{Lo: lo, Hi: hi}, HasValue: true, DivByZero: divByZero}
}

func absEndpoint(a int64) int64 {
	if a == NegInf || a == PosInf {
		return PosInf
	}
	if a < 0 {
		return -a
	}
	return a
}

// Rem implements the JVM sign rule: the remainder carries the dividend's
// sign and has magnitude strictly less than the divisor's maximum absolute
// value.
func (iv Interval) Rem(o Interval) DivOutcome[Interval] {
	if iv.Bottom || o.Bottom {
		return DivOutcome[Interval]{}
	}
	divByZero := o.Lo <= 0 && o.Hi >= 0
	parts := splitNonZero(o)
	if len(parts) == 0 {
		return DivOutcome[Interval]{DivByZero: true}
	}
	var maxAbs int64
	for _, p := range parts {
		if a := absEndpoint(p.Lo); a > maxAbs {
			maxAbs = a
		}
		if a := absEndpoint(p.Hi); a > maxAbs {
			maxAbs = a
		}
	}
	bound := subSat(maxAbs, 1)

	var lo, hi int64
	first := true
	consider := func(a, b int64) {
		if first {
			lo, hi = a, b
			first = false
			return
		}
		if a < lo {
			lo = a
		}
		if b > hi {
			hi = b
		}
	}
	if iv.Hi > 0 {
		consider(0, bound)
	}
	if iv.Lo < 0 {
		consider(negEndpoint(bound), 0)
	}
	if iv.Lo <= 0 && iv.Hi >= 0 && iv.Lo == 0 && iv.Hi == 0 {
		consider(0, 0)
	}
	return DivOutcome[Interval]{Value: Interval{Lo: lo, Hi: hi}, HasValue: true, DivByZero: divByZero}
}

func ltRefine(a, b Interval) (trueRef, falseRef *Refinement[Interval]) {
	if a.Bottom || b.Bottom {
		return nil, nil
	}
	if a.Lo < b.Hi {
		ta := a.Meet(Interval{Lo: NegInf, Hi: subSat(b.Hi, 1)})
		tb := b.Meet(Interval{Lo: addSat(a.Lo, 1), Hi: PosInf})
		trueRef = &Refinement[Interval]{Left: ta, Right: tb}
	}
	if a.Hi >= b.Lo {
		fa := a.Meet(Interval{Lo: b.Lo, Hi: PosInf})
		fb := b.Meet(Interval{Lo: NegInf, Hi: a.Hi})
		falseRef = &Refinement[Interval]{Left: fa, Right: fb}
	}
	return
}

func swapRef(r *Refinement[Interval]) *Refinement[Interval] {
	if r == nil {
		return nil
	}
	return &Refinement[Interval]{Left: r.Right, Right: r.Left}
}

func (iv Interval) Compare(op Comparison, o Interval) map[bool]Refinement[Interval] {
	out := make(map[bool]Refinement[Interval], 2)
	set := func(v bool, r *Refinement[Interval]) {
		if r != nil {
			out[v] = *r
		}
	}
	switch op {
	case CmpLT:
		tr, fr := ltRefine(iv, o)
		set(true, tr)
		set(false, fr)
	case CmpGT:
		tr, fr := ltRefine(o, iv)
		set(true, swapRef(tr))
		set(false, swapRef(fr))
	case CmpGE:
		tr, fr := ltRefine(iv, o)
		set(true, fr)
		set(false, tr)
	case CmpLE:
		tr, fr := ltRefine(o, iv)
		set(true, swapRef(fr))
		set(false, swapRef(tr))
	case CmpEQ, CmpNE:
		if iv.Bottom || o.Bottom {
			return out
		}
		meet := iv.Meet(o)
		canEqual := !meet.IsBottom()
		bothSingletonEqual := isSingleton(iv) && isSingleton(o) && iv.Lo == o.Lo
		eqTrue := &Refinement[Interval]{Left: meet, Right: meet}
		eqFalse := &Refinement[Interval]{Left: iv, Right: o}
		if op == CmpEQ {
			if canEqual {
				set(true, eqTrue)
			}
			if !bothSingletonEqual {
				set(false, eqFalse)
			}
		} else {
			if !bothSingletonEqual {
				set(true, eqFalse)
			}
			if canEqual {
				set(false, eqTrue)
			}
		}
	}
	return out
}

func nextThresholdBelow(v int64, thresholds []int64) int64 {
	best := int64(NegInf)
	found := false
	for _, t := range thresholds {
		if t <= v && (!found || t > best) {
			best, found = t, true
		}
	}
	if !found {
		return NegInf
	}
	return best
}

func nextThresholdAbove(v int64, thresholds []int64) int64 {
	best := int64(PosInf)
	found := false
	for _, t := range thresholds {
		if t >= v && (!found || t < best) {
			best, found = t, true
		}
	}
	if !found {
		return PosInf
	}
	return best
}

// Widen jumps any growing bound to the nearest threshold in K, defaulting
// to ±∞ when no threshold bounds the growth (spec.md §4.3, §4.4).
func (iv Interval) Widen(o Interval, thresholds []int64) Interval {
	if iv.Bottom {
		return o
	}
	if o.Bottom {
		return iv
	}
	j := iv.Join(o)
	lo := iv.Lo
	if j.Lo < iv.Lo {
		lo = nextThresholdBelow(j.Lo, thresholds)
	}
	hi := iv.Hi
	if j.Hi > iv.Hi {
		hi = nextThresholdAbove(j.Hi, thresholds)
	}
	return Interval{Lo: lo, Hi: hi}
}

var _ Lattice[Interval, int64] = Interval{}
