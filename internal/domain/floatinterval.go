package domain

import (
	"fmt"
	"math"
)

// DoubleInterval is the infinite-height interval domain over floats.
// Grounded on original_source/project/abstractions/interval_double.py: a
// simpler widen than Interval (no K-threshold, straight to ±∞ on growth),
// division by a zero-straddling interval yields top, remainder is always
// top.
type DoubleInterval struct {
	Bottom bool
	Lo, Hi float64
}

func DoubleBot() DoubleInterval { return DoubleInterval{Bottom: true} }
func DoubleTop() DoubleInterval {
	return DoubleInterval{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

func DoubleAbstract(vs []float64) DoubleInterval {
	if len(vs) == 0 {
		return DoubleBot()
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
	return DoubleInterval{Lo: lo, Hi: hi}
}

func DoubleSingleton(v float64) DoubleInterval { return DoubleInterval{Lo: v, Hi: v} }

func (d DoubleInterval) IsBottom() bool { return d.Bottom }

func (d DoubleInterval) String() string {
	if d.Bottom {
		return "⊥"
	}
	return fmt.Sprintf("[%g,%g]", d.Lo, d.Hi)
}

func (d DoubleInterval) Contains(v float64) bool {
	if d.Bottom {
		return false
	}
	return v >= d.Lo && v <= d.Hi
}

func (d DoubleInterval) Join(o DoubleInterval) DoubleInterval {
	if d.Bottom {
		return o
	}
	if o.Bottom {
		return d
	}
	return DoubleInterval{Lo: math.Min(d.Lo, o.Lo), Hi: math.Max(d.Hi, o.Hi)}
}

func (d DoubleInterval) Meet(o DoubleInterval) DoubleInterval {
	if d.Bottom || o.Bottom {
		return DoubleBot()
	}
	lo, hi := math.Max(d.Lo, o.Lo), math.Min(d.Hi, o.Hi)
	if lo > hi {
		return DoubleBot()
	}
	return DoubleInterval{Lo: lo, Hi: hi}
}

func (d DoubleInterval) Equal(o DoubleInterval) bool {
	if d.Bottom || o.Bottom {
		return d.Bottom == o.Bottom
	}
	return d.Lo == o.Lo && d.Hi == o.Hi
}

func (d DoubleInterval) LessEq(o DoubleInterval) bool {
	if d.Bottom {
		return true
	}
	if o.Bottom {
		return false
	}
	return d.Lo >= o.Lo && d.Hi <= o.Hi
}

func (d DoubleInterval) Neg() DoubleInterval {
	if d.Bottom {
		return d
	}
	return DoubleInterval{Lo: -d.Hi, Hi: -d.Lo}
}

func (d DoubleInterval) Add(o DoubleInterval) DoubleInterval {
	if d.Bottom || o.Bottom {
		return DoubleBot()
	}
	return DoubleInterval{Lo: d.Lo + o.Lo, Hi: d.Hi + o.Hi}
}

func (d DoubleInterval) Sub(o DoubleInterval) DoubleInterval { return d.Add(o.Neg()) }

func (d DoubleInterval) Mul(o DoubleInterval) DoubleInterval {
	if d.Bottom || o.Bottom {
		return DoubleBot()
	}
	corners := []float64{d.Lo * o.Lo, d.Lo * o.Hi, d.Hi * o.Lo, d.Hi * o.Hi}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return DoubleInterval{Lo: lo, Hi: hi}
}

// Div yields top whenever the divisor interval contains zero, per
// spec.md §4.4; the zero-straddling case is reported as the simultaneous
// divide-by-zero-and-value outcome like the integer domains, using top as
// the over-approximate value half.
func (d DoubleInterval) Div(o DoubleInterval) DivOutcome[DoubleInterval] {
	if d.Bottom || o.Bottom {
		return DivOutcome[DoubleInterval]{}
	}
	straddles := o.Lo <= 0 && o.Hi >= 0
	if straddles {
		return DivOutcome[DoubleInterval]{Value: DoubleTop(), HasValue: true, DivByZero: true}
	}
	corners := []float64{d.Lo / o.Lo, d.Lo / o.Hi, d.Hi / o.Lo, d.Hi / o.Hi}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return DivOutcome[DoubleInterval]{Value: DoubleInterval{Lo: lo, Hi: hi}, HasValue: true}
}

// Rem is always top: spec.md §4.4 states float remainder is not modeled
// precisely by this domain.
func (d DoubleInterval) Rem(o DoubleInterval) DivOutcome[DoubleInterval] {
	if d.Bottom || o.Bottom {
		return DivOutcome[DoubleInterval]{}
	}
	return DivOutcome[DoubleInterval]{Value: DoubleTop(), HasValue: true, DivByZero: o.Lo <= 0 && o.Hi >= 0}
}

func (d DoubleInterval) Compare(op Comparison, o DoubleInterval) map[bool]Refinement[DoubleInterval] {
	out := make(map[bool]Refinement[DoubleInterval], 2)
	if d.Bottom || o.Bottom {
		return out
	}
	switch op {
	case CmpLT:
		if d.Lo < o.Hi {
			out[true] = Refinement[DoubleInterval]{Left: d.Meet(DoubleInterval{Lo: math.Inf(-1), Hi: o.Hi}), Right: o.Meet(DoubleInterval{Lo: d.Lo, Hi: math.Inf(1)})}
		}
		if d.Hi >= o.Lo {
			out[false] = Refinement[DoubleInterval]{Left: d.Meet(DoubleInterval{Lo: o.Lo, Hi: math.Inf(1)}), Right: o.Meet(DoubleInterval{Lo: math.Inf(-1), Hi: d.Hi})}
		}
	case CmpGE:
		lt := d.Compare(CmpLT, o)
		if r, ok := lt[false]; ok {
			out[true] = r
		}
		if r, ok := lt[true]; ok {
			out[false] = r
		}
	case CmpGT:
		lt := o.Compare(CmpLT, d)
		if r, ok := lt[true]; ok {
			out[true] = Refinement[DoubleInterval]{Left: r.Right, Right: r.Left}
		}
		if r, ok := lt[false]; ok {
			out[false] = Refinement[DoubleInterval]{Left: r.Right, Right: r.Left}
		}
	case CmpLE:
		gt := o.Compare(CmpLT, d)
		if r, ok := gt[false]; ok {
			out[true] = Refinement[DoubleInterval]{Left: r.Right, Right: r.Left}
		}
		if r, ok := gt[true]; ok {
			out[false] = Refinement[DoubleInterval]{Left: r.Right, Right: r.Left}
		}
	case CmpEQ, CmpNE:
		meet := d.Meet(o)
		canEqual := !meet.IsBottom()
		bothSingletonEqual := d.Lo == d.Hi && o.Lo == o.Hi && d.Lo == o.Lo
		if op == CmpEQ {
			if canEqual {
				out[true] = Refinement[DoubleInterval]{Left: meet, Right: meet}
			}
			if !bothSingletonEqual {
				out[false] = Refinement[DoubleInterval]{Left: d, Right: o}
			}
		} else {
			if !bothSingletonEqual {
				out[true] = Refinement[DoubleInterval]{Left: d, Right: o}
			}
			if canEqual {
				out[false] = Refinement[DoubleInterval]{Left: meet, Right: meet}
			}
		}
	}
	return out
}

// Widen has no K-threshold, unlike Interval: any growth jumps straight to
// the corresponding infinity.
func (d DoubleInterval) Widen(o DoubleInterval, _ []float64) DoubleInterval {
	if d.Bottom {
		return o
	}
	if o.Bottom {
		return d
	}
	lo, hi := d.Lo, d.Hi
	if o.Lo < d.Lo {
		lo = math.Inf(-1)
	}
	if o.Hi > d.Hi {
		hi = math.Inf(1)
	}
	return DoubleInterval{Lo: lo, Hi: hi}
}

var _ Lattice[DoubleInterval, float64] = DoubleInterval{}
