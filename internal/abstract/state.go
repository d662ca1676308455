// Package abstract implements the worklist fixpoint abstract interpreter
// of spec.md §4.5, grounded on original_source/project/abstract_interpreter.py
// (PerVarFrame, AState, StateSet, step, manystep). Generic over the
// analysis domain the way internal/domain's Lattice interface is meant to
// be consumed: a self-bound type parameter, no duck typing.
package abstract

import (
	"fmt"

	"github.com/magladko/jpamb-sub000/internal/concrete"
	"github.com/magladko/jpamb-sub000/internal/domain"
	"github.com/magladko/jpamb-sub000/internal/jerr"
)

// PC is shared with the concrete interpreter: both walk the same
// method-id-plus-offset program points, per spec.md §9's note that PCs are
// plain values, not pointers into opcode arrays.
type PC = concrete.PC

// Coverage is shared with the concrete interpreter: both record source
// lines against the same per-method accumulator, so a debloat run can
// merge trivial (concrete) and non-trivial (abstract) coverage into one
// set without a conversion step.
type Coverage = concrete.Coverage

func NewCoverage() *Coverage { return concrete.NewCoverage() }

// Nullity is a tiny three-point lattice over "can this reference be null":
// NeverNull and AlwaysNull are the precise corners, MaybeNull is their
// join. It exists separately from the arithmetic domain because the JVM
// locals this engine tracks are either integers or array references, never
// both, and references need a notion of nullity the integer domains don't.
type Nullity uint8

const (
	NeverNull Nullity = iota
	MaybeNull
	AlwaysNull
)

func (n Nullity) join(o Nullity) Nullity {
	if n == o {
		return n
	}
	return MaybeNull
}

// AbsValue is one local-variable or operand-stack slot: either a scalar
// domain value, or a reference to an array allocation site. A slot's kind
// never changes across the states that can reach the same PC in
// well-typed bytecode, so a kind mismatch at join time is an invariant
// violation, not a modeling choice.
type AbsValue[A any] struct {
	IsRef   bool
	Null    Nullity
	HasSite bool // false once two different-site references have joined
	Site    PC
	Scalar  A
}

func scalarValue[A any](v A) AbsValue[A] { return AbsValue[A]{Scalar: v} }

func refValue[A any](null Nullity) AbsValue[A] { return AbsValue[A]{IsRef: true, Null: null} }

func siteRefValue[A any](site PC) AbsValue[A] {
	return AbsValue[A]{IsRef: true, Null: NeverNull, HasSite: true, Site: site}
}

func (v AbsValue[A]) String() string {
	if v.IsRef {
		if v.HasSite {
			return fmt.Sprintf("ref@%s(null=%d)", v.Site, v.Null)
		}
		return fmt.Sprintf("ref@?(null=%d)", v.Null)
	}
	return fmt.Sprintf("%v", v.Scalar)
}

func equalAbsValue[A domain.Lattice[A, int64]](a, b AbsValue[A]) bool {
	if a.IsRef != b.IsRef {
		return false
	}
	if a.IsRef {
		return a.Null == b.Null && a.HasSite == b.HasSite && (!a.HasSite || a.Site == b.Site)
	}
	return a.Scalar.Equal(b.Scalar)
}

// combineAbsValue pointwise-joins (or, past the revisit threshold, widens)
// two slots of the same kind.
func combineAbsValue[A domain.Lattice[A, int64]](a, b AbsValue[A], widen bool, thresholds []int64) AbsValue[A] {
	if a.IsRef != b.IsRef {
		jerr.Fatal("abstract.join", "reference/scalar type mismatch joining abstract values")
	}
	if a.IsRef {
		out := AbsValue[A]{IsRef: true, Null: a.Null.join(b.Null)}
		if a.HasSite && b.HasSite && a.Site == b.Site {
			out.HasSite = true
			out.Site = a.Site
		}
		return out
	}
	if widen {
		return AbsValue[A]{Scalar: a.Scalar.Widen(b.Scalar, thresholds)}
	}
	return AbsValue[A]{Scalar: a.Scalar.Join(b.Scalar)}
}

// PerVarFrame is the abstract analogue of concrete.Frame: a per-variable
// map of locals, an abstract operand stack, and the program point the
// frame is paused at.
type PerVarFrame[A any] struct {
	Locals map[int]AbsValue[A]
	Stack  []AbsValue[A]
	PC     PC
}

func newFrame[A any](method PC) *PerVarFrame[A] {
	return &PerVarFrame[A]{Locals: map[int]AbsValue[A]{}, PC: method}
}

func (f *PerVarFrame[A]) clone() *PerVarFrame[A] {
	locals := make(map[int]AbsValue[A], len(f.Locals))
	for k, v := range f.Locals {
		locals[k] = v
	}
	stack := make([]AbsValue[A], len(f.Stack))
	copy(stack, f.Stack)
	return &PerVarFrame[A]{Locals: locals, Stack: stack, PC: f.PC}
}

func (f *PerVarFrame[A]) push(v AbsValue[A]) { f.Stack = append(f.Stack, v) }

func (f *PerVarFrame[A]) pop() AbsValue[A] {
	n := len(f.Stack)
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v
}

func (f *PerVarFrame[A]) String() string {
	return fmt.Sprintf("<%v, %v, %s>", f.Locals, f.Stack, f.PC)
}

// AState is the complete abstract state at one program point: an abstract
// heap (one joined element value per allocation site) plus the call-frame
// stack, the innermost frame's PC naming the program point.
type AState[A any] struct {
	Heap   map[PC]A
	Frames []*PerVarFrame[A]
}

func (s *AState[A]) pc() PC { return s.Frames[len(s.Frames)-1].PC }

func (s *AState[A]) clone() *AState[A] {
	heap := make(map[PC]A, len(s.Heap))
	for k, v := range s.Heap {
		heap[k] = v
	}
	frames := make([]*PerVarFrame[A], len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = f.clone()
	}
	return &AState[A]{Heap: heap, Frames: frames}
}

func (s *AState[A]) String() string {
	return fmt.Sprintf("%v %v", s.Heap, s.Frames)
}

// joinInto pointwise-combines src into dst in place (spec.md §4.5 step 3's
// AState.__ior__), using Widen instead of Join once widen is true. Frame
// stacks at the same PC disagreeing in shape is an invariant violation:
// well-typed bytecode guarantees identical stack depth at a given PC
// regardless of path.
func joinInto[A domain.Lattice[A, int64]](dst, src *AState[A], widen bool, thresholds []int64) bool {
	changed := false
	for site, v := range src.Heap {
		cur, ok := dst.Heap[site]
		if !ok {
			dst.Heap[site] = v
			changed = true
			continue
		}
		var joined A
		if widen {
			joined = cur.Widen(v, thresholds)
		} else {
			joined = cur.Join(v)
		}
		if !joined.Equal(cur) {
			changed = true
		}
		dst.Heap[site] = joined
	}

	if len(dst.Frames) != len(src.Frames) {
		jerr.Fatal("abstract.join", "frame stack depth differs: %d vs %d", len(dst.Frames), len(src.Frames))
	}
	for i := range dst.Frames {
		fd, fs := dst.Frames[i], src.Frames[i]
		if fd.PC != fs.PC {
			jerr.Fatal("abstract.join", "program counters differ at frame %d: %s vs %s", i, fd.PC, fs.PC)
		}
		if len(fd.Stack) != len(fs.Stack) {
			jerr.Fatal("abstract.join", "operand stack depth differs at %s: %d vs %d", fd.PC, len(fd.Stack), len(fs.Stack))
		}
		for idx, sv := range fs.Locals {
			dv, ok := fd.Locals[idx]
			if !ok {
				fd.Locals[idx] = sv
				changed = true
				continue
			}
			combined := combineAbsValue(dv, sv, widen, thresholds)
			if !equalAbsValue[A](combined, dv) {
				changed = true
			}
			fd.Locals[idx] = combined
		}
		for idx := range fd.Stack {
			combined := combineAbsValue(fd.Stack[idx], fs.Stack[idx], widen, thresholds)
			if !equalAbsValue[A](combined, fd.Stack[idx]) {
				changed = true
			}
			fd.Stack[idx] = combined
		}
	}
	return changed
}

// StateSet is the worklist container of spec.md §4.5: one abstract state
// per program point reached so far, plus the set of points still needing
// reprocessing and how many times each has been revisited (to trigger
// widening).
type StateSet[A domain.Lattice[A, int64]] struct {
	PerInst   map[PC]*AState[A]
	needsWork map[PC]bool
	revisits  map[PC]int
}

func newStateSet[A domain.Lattice[A, int64]]() *StateSet[A] {
	return &StateSet[A]{
		PerInst:   map[PC]*AState[A]{},
		needsWork: map[PC]bool{},
		revisits:  map[PC]int{},
	}
}

// merge joins (or widens) astate into the state set at its top-frame PC,
// re-marking that PC for work if anything changed.
func (ss *StateSet[A]) merge(astate *AState[A], widenThreshold int, thresholds []int64) {
	pc := astate.pc()
	old, ok := ss.PerInst[pc]
	if !ok {
		ss.PerInst[pc] = astate.clone()
		ss.needsWork[pc] = true
		return
	}
	ss.revisits[pc]++
	widen := ss.revisits[pc] > widenThreshold
	merged := old.clone()
	if joinInto(merged, astate, widen, thresholds) {
		ss.PerInst[pc] = merged
		ss.needsWork[pc] = true
	}
}
