package domain

// MachineWord is the finite-height domain tracking a bounded-size set of
// residues modulo 2^32, collapsing to top above a configured cardinality.
// Grounded on original_source/project/abstractions/machine_word.py.
type MachineWord struct {
	Top        bool
	Values     map[uint32]struct{}
	MaxTracked int
}

func MachineWordBot(maxTracked int) MachineWord {
	return MachineWord{Values: map[uint32]struct{}{}, MaxTracked: maxTracked}
}

func MachineWordTop(maxTracked int) MachineWord {
	return MachineWord{Top: true, MaxTracked: maxTracked}
}

func MachineWordAbstract(maxTracked int, vs []int64) MachineWord {
	m := MachineWordBot(maxTracked)
	for _, v := range vs {
		m.Values[uint32(v)] = struct{}{}
	}
	return m.normalized()
}

func (m MachineWord) normalized() MachineWord {
	if m.Top {
		return MachineWord{Top: true, MaxTracked: m.MaxTracked}
	}
	if len(m.Values) > m.MaxTracked {
		return MachineWordTop(m.MaxTracked)
	}
	return m
}

func (m MachineWord) IsBottom() bool { return !m.Top && len(m.Values) == 0 }

func (m MachineWord) String() string {
	if m.Top {
		return "⊤"
	}
	return "machineword"
}

func (m MachineWord) Contains(v int64) bool {
	if m.Top {
		return true
	}
	_, ok := m.Values[uint32(v)]
	return ok
}

func (m MachineWord) Join(o MachineWord) MachineWord {
	if m.Top || o.Top {
		return MachineWordTop(m.MaxTracked)
	}
	out := MachineWordBot(m.MaxTracked)
	for v := range m.Values {
		out.Values[v] = struct{}{}
	}
	for v := range o.Values {
		out.Values[v] = struct{}{}
	}
	return out.normalized()
}

func (m MachineWord) Meet(o MachineWord) MachineWord {
	if m.Top {
		return o
	}
	if o.Top {
		return m
	}
	out := MachineWordBot(m.MaxTracked)
	for v := range m.Values {
		if _, ok := o.Values[v]; ok {
			out.Values[v] = struct{}{}
		}
	}
	return out
}

func (m MachineWord) Equal(o MachineWord) bool {
	if m.Top != o.Top {
		return false
	}
	if m.Top {
		return true
	}
	if len(m.Values) != len(o.Values) {
		return false
	}
	for v := range m.Values {
		if _, ok := o.Values[v]; !ok {
			return false
		}
	}
	return true
}

func (m MachineWord) LessEq(o MachineWord) bool {
	if o.Top {
		return true
	}
	if m.Top {
		return false
	}
	for v := range m.Values {
		if _, ok := o.Values[v]; !ok {
			return false
		}
	}
	return true
}

// Widen is join: MachineWord has finite height bounded by the residue
// space and the cardinality cap.
func (m MachineWord) Widen(o MachineWord, _ []int64) MachineWord { return m.Join(o) }

func crossApply(m, o MachineWord, f func(a, b uint32) uint32) MachineWord {
	if m.Top || o.Top {
		return MachineWordTop(m.MaxTracked)
	}
	out := MachineWordBot(m.MaxTracked)
	for a := range m.Values {
		for b := range o.Values {
			out.Values[f(a, b)] = struct{}{}
		}
	}
	return out.normalized()
}

func (m MachineWord) Add(o MachineWord) MachineWord { return crossApply(m, o, func(a, b uint32) uint32 { return a + b }) }
func (m MachineWord) Sub(o MachineWord) MachineWord { return crossApply(m, o, func(a, b uint32) uint32 { return a - b }) }
func (m MachineWord) Mul(o MachineWord) MachineWord { return crossApply(m, o, func(a, b uint32) uint32 { return a * b }) }

func (m MachineWord) Neg() MachineWord {
	if m.Top {
		return m
	}
	out := MachineWordBot(m.MaxTracked)
	for v := range m.Values {
		out.Values[uint32(-int32(v))] = struct{}{}
	}
	return out.normalized()
}

func (m MachineWord) hasZero() bool {
	if m.Top {
		return true
	}
	_, ok := m.Values[0]
	return ok
}

func (m MachineWord) nonZero() MachineWord {
	if m.Top {
		return m
	}
	out := MachineWordBot(m.MaxTracked)
	for v := range m.Values {
		if v != 0 {
			out.Values[v] = struct{}{}
		}
	}
	return out
}

// Div and Rem both collapse to top on any possible zero divisor, matching
// the Python reference's __div__/__floordiv__/__mod__ aliasing (decision 3
// in DESIGN.md). A divisor that is definitely zero yields only the
// divide-by-zero outcome, with no value.
func (m MachineWord) Div(o MachineWord) DivOutcome[MachineWord] {
	divByZero := o.hasZero()
	nz := o.nonZero()
	if nz.IsBottom() {
		return DivOutcome[MachineWord]{DivByZero: true}
	}
	if divByZero {
		return DivOutcome[MachineWord]{Value: MachineWordTop(m.MaxTracked), HasValue: true, DivByZero: true}
	}
	value := crossApply(m, nz, func(a, b uint32) uint32 { return uint32(int32(a) / int32(b)) })
	return DivOutcome[MachineWord]{Value: value, HasValue: true, DivByZero: divByZero}
}

func (m MachineWord) Rem(o MachineWord) DivOutcome[MachineWord] {
	divByZero := o.hasZero()
	nz := o.nonZero()
	if nz.IsBottom() {
		return DivOutcome[MachineWord]{DivByZero: true}
	}
	if divByZero {
		return DivOutcome[MachineWord]{Value: MachineWordTop(m.MaxTracked), HasValue: true, DivByZero: true}
	}
	value := crossApply(m, nz, func(a, b uint32) uint32 { return uint32(int32(a) % int32(b)) })
	return DivOutcome[MachineWord]{Value: value, HasValue: true, DivByZero: divByZero}
}

func (m MachineWord) Compare(op Comparison, o MachineWord) map[bool]Refinement[MachineWord] {
	out := make(map[bool]Refinement[MachineWord], 2)
	if m.Top || o.Top {
		out[true] = Refinement[MachineWord]{Left: MachineWordTop(m.MaxTracked), Right: MachineWordTop(m.MaxTracked)}
		out[false] = out[true]
		return out
	}
	trueM, trueO := MachineWordBot(m.MaxTracked), MachineWordBot(m.MaxTracked)
	falseM, falseO := MachineWordBot(m.MaxTracked), MachineWordBot(m.MaxTracked)
	for a := range m.Values {
		for b := range o.Values {
			if compareWords(op, a, b) {
				trueM.Values[a] = struct{}{}
				trueO.Values[b] = struct{}{}
			} else {
				falseM.Values[a] = struct{}{}
				falseO.Values[b] = struct{}{}
			}
		}
	}
	if len(trueM.Values) > 0 {
		out[true] = Refinement[MachineWord]{Left: trueM.normalized(), Right: trueO.normalized()}
	}
	if len(falseM.Values) > 0 {
		out[false] = Refinement[MachineWord]{Left: falseM.normalized(), Right: falseO.normalized()}
	}
	return out
}

func compareWords(op Comparison, a, b uint32) bool {
	ia, ib := int32(a), int32(b)
	switch op {
	case CmpEQ:
		return a == b
	case CmpNE:
		return a != b
	case CmpLT:
		return ia < ib
	case CmpLE:
		return ia <= ib
	case CmpGT:
		return ia > ib
	case CmpGE:
		return ia >= ib
	default:
		return false
	}
}

var _ Lattice[MachineWord, int64] = MachineWord{}
