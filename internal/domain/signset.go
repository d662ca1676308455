package domain

import "strings"

// SignSet is the finite-height domain over subsets of {-, 0, +}. Grounded
// on original_source/project/abstractions/signset.py; arithmetic and
// comparison are exhaustive tables over the three signs rather than
// magnitude reasoning.
type SignSet uint8

const (
	signNeg SignSet = 1 << iota
	signZero
	signPos
)

func SignSetBot() SignSet { return 0 }
func SignSetTop() SignSet { return signNeg | signZero | signPos }

func signOf(v int64) SignSet {
	switch {
	case v < 0:
		return signNeg
	case v > 0:
		return signPos
	default:
		return signZero
	}
}

// SignSetAbstract returns the least SignSet containing every value in vs.
func SignSetAbstract(vs []int64) SignSet {
	var s SignSet
	for _, v := range vs {
		s |= signOf(v)
	}
	return s
}

func (s SignSet) IsBottom() bool { return s == 0 }

func (s SignSet) Join(o SignSet) SignSet { return s | o }
func (s SignSet) Meet(o SignSet) SignSet { return s & o }
func (s SignSet) Equal(o SignSet) bool   { return s == o }
func (s SignSet) LessEq(o SignSet) bool  { return s&^o == 0 }

// Widen is join: SignSet has finite height (spec.md §4.3).
func (s SignSet) Widen(o SignSet, _ []int64) SignSet { return s.Join(o) }

func (s SignSet) Contains(v int64) bool { return s&signOf(v) != 0 }

func (s SignSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	if s&signNeg != 0 {
		b.WriteByte('-')
		first = false
	}
	if s&signZero != 0 {
		if !first {
			b.WriteByte(',')
		}
		b.WriteByte('0')
		first = false
	}
	if s&signPos != 0 {
		if !first {
			b.WriteByte(',')
		}
		b.WriteByte('+')
	}
	b.WriteByte('}')
	return b.String()
}

var addSignTable = [3][3]SignSet{
	{signNeg, signNeg, signNeg | signZero | signPos},
	{signNeg, signZero, signPos},
	{signNeg | signZero | signPos, signPos, signPos},
}

var mulSignTable = [3][3]SignSet{
	{signPos, signZero, signNeg},
	{signZero, signZero, signZero},
	{signNeg, signZero, signPos},
}

func signIndex(s SignSet) int {
	switch s {
	case signNeg:
		return 0
	case signZero:
		return 1
	default:
		return 2
	}
}

func eachSign(s SignSet, f func(SignSet)) {
	if s&signNeg != 0 {
		f(signNeg)
	}
	if s&signZero != 0 {
		f(signZero)
	}
	if s&signPos != 0 {
		f(signPos)
	}
}

func (s SignSet) Add(o SignSet) SignSet {
	var out SignSet
	eachSign(s, func(a SignSet) {
		eachSign(o, func(b SignSet) {
			out |= addSignTable[signIndex(a)][signIndex(b)]
		})
	})
	return out
}

func (s SignSet) Neg() SignSet {
	var out SignSet
	if s&signNeg != 0 {
		out |= signPos
	}
	if s&signZero != 0 {
		out |= signZero
	}
	if s&signPos != 0 {
		out |= signNeg
	}
	return out
}

func (s SignSet) Sub(o SignSet) SignSet { return s.Add(o.Neg()) }

func (s SignSet) Mul(o SignSet) SignSet {
	var out SignSet
	eachSign(s, func(a SignSet) {
		eachSign(o, func(b SignSet) {
			out |= mulSignTable[signIndex(a)][signIndex(b)]
		})
	})
	return out
}

func (s SignSet) Div(o SignSet) DivOutcome[SignSet] {
	divByZero := o&signZero != 0
	nonZero := o &^ signZero
	if nonZero == 0 {
		return DivOutcome[SignSet]{DivByZero: true}
	}
	var out SignSet
	eachSign(s, func(a SignSet) {
		eachSign(nonZero, func(b SignSet) {
			out |= mulSignTable[signIndex(a)][signIndex(b)]
		})
	})
	return DivOutcome[SignSet]{Value: out, HasValue: true, DivByZero: divByZero}
}

// Rem follows the JVM rule that the remainder's sign matches the
// dividend's; the divisor's sign (beyond zero/non-zero) is irrelevant.
func (s SignSet) Rem(o SignSet) DivOutcome[SignSet] {
	divByZero := o&signZero != 0
	nonZero := o &^ signZero
	if nonZero == 0 {
		return DivOutcome[SignSet]{DivByZero: true}
	}
	return DivOutcome[SignSet]{Value: s, HasValue: true, DivByZero: divByZero}
}

// outcome reports, for one sign pair, whether true and/or false are
// reachable under op.
func signOutcome(op Comparison, a, b SignSet) (canTrue, canFalse bool) {
	ai, bi := signIndex(a), signIndex(b)
	lt := func(i, j int) (bool, bool) {
		table := [3][3][2]bool{
			{{true, true}, {true, false}, {true, false}},
			{{false, true}, {false, true}, {true, false}},
			{{false, true}, {false, true}, {true, true}},
		}
		return table[i][j][0], table[i][j][1]
	}
	eq := func(i, j int) (bool, bool) {
		table := [3][3][2]bool{
			{{true, true}, {false, true}, {false, true}},
			{{false, true}, {true, false}, {false, true}},
			{{false, true}, {false, true}, {true, true}},
		}
		return table[i][j][0], table[i][j][1]
	}
	le := func(i, j int) (bool, bool) {
		table := [3][3][2]bool{
			{{true, true}, {true, false}, {true, false}},
			{{false, true}, {true, false}, {true, false}},
			{{false, true}, {false, true}, {true, true}},
		}
		return table[i][j][0], table[i][j][1]
	}
	switch op {
	case CmpLT:
		return lt(ai, bi)
	case CmpEQ:
		return eq(ai, bi)
	case CmpLE:
		return le(ai, bi)
	case CmpNE:
		t, f := eq(ai, bi)
		return f, t
	case CmpGT:
		return lt(bi, ai)
	case CmpGE:
		return le(bi, ai)
	default:
		return true, true
	}
}

func (s SignSet) Compare(op Comparison, o SignSet) map[bool]Refinement[SignSet] {
	var trueLeft, trueRight, falseLeft, falseRight SignSet
	eachSign(s, func(a SignSet) {
		eachSign(o, func(b SignSet) {
			canTrue, canFalse := signOutcome(op, a, b)
			if canTrue {
				trueLeft |= a
				trueRight |= b
			}
			if canFalse {
				falseLeft |= a
				falseRight |= b
			}
		})
	})
	out := make(map[bool]Refinement[SignSet], 2)
	if trueLeft != 0 {
		out[true] = Refinement[SignSet]{Left: trueLeft, Right: trueRight}
	}
	if falseLeft != 0 {
		out[false] = Refinement[SignSet]{Left: falseLeft, Right: falseRight}
	}
	return out
}

var _ Lattice[SignSet, int64] = SignSet(0)
