package abstract

import (
	"sort"

	"github.com/magladko/jpamb-sub000/internal/bytecode"
	"github.com/magladko/jpamb-sub000/internal/config"
	"github.com/magladko/jpamb-sub000/internal/domain"
	"github.com/magladko/jpamb-sub000/internal/jerr"
	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/opcode"
	"github.com/magladko/jpamb-sub000/internal/verdict"
)

// stepResult is everything advancing one abstract state by one opcode
// yields: successor states still needing further work, plus verdicts
// reached directly on this path (a path that emits a verdict needs no
// successor of its own unless the opcode is genuinely ambiguous, e.g.
// possible-but-not-certain divide by zero).
type stepResult[A any] struct {
	Successors []*AState[A]
	Verdicts   []verdict.Verdict
}

func onlyVerdict[A any](v verdict.Verdict) stepResult[A] {
	return stepResult[A]{Verdicts: []verdict.Verdict{v}}
}

func onlySuccessor[A any](s *AState[A]) stepResult[A] {
	return stepResult[A]{Successors: []*AState[A]{s}}
}

// cannotAnalyze reports a verdict.Unknown for opcodes this interpreter
// does not model soundly, per spec.md §9's redesign flag: "surface any
// opcode the abstract interpreter does not yet handle as a cannot-analyze
// verdict (*) rather than a hard failure."
func cannotAnalyze[A any]() stepResult[A] { return onlyVerdict[A](verdict.Unknown) }

// step executes one opcode against st, which is NOT mutated — step clones
// before writing, matching the Python reference's "clone before branching"
// discipline (spec.md §9's deep-copy-at-every-branch note).
func step[A domain.Lattice[A, int64]](store *bytecode.Store, ops domain.Ops[A, int64], st *AState[A], cov *Coverage) stepResult[A] {
	frame := st.Frames[len(st.Frames)-1]
	op := store.At(frame.PC.Method, frame.PC.Offset)
	if cov != nil {
		cov.Record(frame.PC.Method, op.Line())
	}

	switch o := op.(type) {
	case opcode.Push:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		if o.Value.Type.Kind == jvm.Array || o.Value.Type.Kind == jvm.Reference || o.Value.Type.Kind == jvm.Object {
			null := NeverNull
			if o.Value.IsNull {
				null = AlwaysNull
			}
			nf.push(refValue[A](null))
		} else if o.Value.Type.IsFloating() {
			jerr.Fatal("abstract.step", "floating-point push not supported by this domain")
		} else {
			nf.push(scalarValue(ops.Abstract([]int64{o.Value.I})))
		}
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.Load:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		v, ok := nf.Locals[o.Index]
		if !ok {
			jerr.Fatal("abstract.step", "local variable %d not initialized", o.Index)
		}
		nf.push(v)
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.Store:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		nf.Locals[o.Index] = nf.pop()
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.Dup:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		if len(nf.Stack) == 0 {
			jerr.Fatal("abstract.step", "dup on empty stack")
		}
		top := nf.Stack[len(nf.Stack)-1]
		for i := 0; i < o.Words; i++ {
			nf.push(top)
		}
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.Incr:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		v, ok := nf.Locals[o.Index]
		if !ok || v.IsRef {
			jerr.Fatal("abstract.step", "local variable %d not an initialized scalar", o.Index)
		}
		nf.Locals[o.Index] = scalarValue(v.Scalar.Add(ops.Abstract([]int64{int64(o.Amount)})))
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.Binary:
		if o.Type.IsFloating() {
			return cannotAnalyze[A]()
		}
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		v2, v1 := nf.pop(), nf.pop()
		if v1.IsRef || v2.IsRef {
			jerr.Fatal("abstract.step", "binary operands must be scalar")
		}
		res := stepResult[A]{}
		switch o.Op {
		case opcode.OpAdd:
			nf.push(scalarValue(v1.Scalar.Add(v2.Scalar)))
		case opcode.OpSub:
			nf.push(scalarValue(v1.Scalar.Sub(v2.Scalar)))
		case opcode.OpMul:
			nf.push(scalarValue(v1.Scalar.Mul(v2.Scalar)))
		case opcode.OpDiv:
			out := v1.Scalar.Div(v2.Scalar)
			if out.DivByZero {
				res.Verdicts = append(res.Verdicts, verdict.DivideByZero)
			}
			if !out.HasValue {
				return res
			}
			nf.push(scalarValue(out.Value))
		case opcode.OpRem:
			out := v1.Scalar.Rem(v2.Scalar)
			if out.DivByZero {
				res.Verdicts = append(res.Verdicts, verdict.DivideByZero)
			}
			if !out.HasValue {
				return res
			}
			nf.push(scalarValue(out.Value))
		default:
			return cannotAnalyze[A]()
		}
		nf.PC.Offset++
		res.Successors = append(res.Successors, next)
		return res

	case opcode.Ifz:
		popped := st.clone()
		pf := popped.Frames[len(popped.Frames)-1]
		v := pf.pop()
		if v.IsRef {
			jerr.Fatal("abstract.step", "ifz operand must be scalar")
		}
		zero := ops.Abstract([]int64{0})
		return branch(popped, v.Scalar, zero, toComparison(o.Cond), o.Target)

	case opcode.If:
		popped := st.clone()
		pf := popped.Frames[len(popped.Frames)-1]
		v2, v1 := pf.pop(), pf.pop()
		if v1.IsRef || v2.IsRef {
			jerr.Fatal("abstract.step", "if operands must be scalar")
		}
		return branch(popped, v1.Scalar, v2.Scalar, toComparison(o.Cond), o.Target)

	case opcode.Goto:
		next := st.clone()
		next.Frames[len(next.Frames)-1].PC.Offset = o.Target
		return onlySuccessor(next)

	case opcode.Return:
		next := st.clone()
		popped := next.Frames[len(next.Frames)-1]
		next.Frames = next.Frames[:len(next.Frames)-1]
		if len(next.Frames) == 0 {
			return onlyVerdict[A](verdict.OK)
		}
		if o.Type != nil {
			v := popped.pop()
			caller := next.Frames[len(next.Frames)-1]
			caller.push(v)
		}
		return onlySuccessor(next)

	case opcode.New:
		if o.Class == "java/lang/AssertionError" {
			return onlyVerdict[A](verdict.AssertionError)
		}
		return cannotAnalyze[A]()

	case opcode.NewArray:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		nf.pop() // dimension count: not tracked, the heap is length-insensitive
		site := frame.PC
		next.Heap[site] = ops.Top()
		nf.push(siteRefValue[A](site))
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.ArrayLength:
		return withArrayRef(st, func(next *AState[A], nf *PerVarFrame[A], ref AbsValue[A]) stepResult[A] {
			nf.push(scalarValue(ops.Top()))
			nf.PC.Offset++
			return onlySuccessor(next)
		})

	case opcode.ArrayLoad:
		return withArrayRef(st, func(next *AState[A], nf *PerVarFrame[A], ref AbsValue[A]) stepResult[A] {
			nf.pop() // index: not tracked precisely, so bounds can never be ruled out
			elem := ops.Top()
			if ref.HasSite {
				if v, ok := next.Heap[ref.Site]; ok {
					elem = v
				}
			}
			nf.push(scalarValue(elem))
			nf.PC.Offset++
			res := onlySuccessor(next)
			res.Verdicts = append(res.Verdicts, verdict.OutOfBounds)
			return res
		})

	case opcode.ArrayStore:
		return withArrayRef(st, func(next *AState[A], nf *PerVarFrame[A], ref AbsValue[A]) stepResult[A] {
			val := nf.pop()
			nf.pop() // index
			if val.IsRef {
				jerr.Fatal("abstract.step", "arraystore value must be scalar")
			}
			if ref.HasSite {
				cur, ok := next.Heap[ref.Site]
				if ok {
					next.Heap[ref.Site] = cur.Join(val.Scalar)
				} else {
					next.Heap[ref.Site] = val.Scalar
				}
			}
			nf.PC.Offset++
			res := onlySuccessor(next)
			res.Verdicts = append(res.Verdicts, verdict.OutOfBounds)
			return res
		})

	case opcode.Throw:
		// spec.md §9: throw's abstract semantics are left undefined by the
		// source; this engine reports * for consistency with the concrete
		// interpreter's treatment (DESIGN.md decision 1).
		return onlyVerdict[A](verdict.Unknown)

	case opcode.Get:
		if o.Static && o.Field.Field.Name == "$assertionsDisabled" && o.Field.Field.Type.Kind == jvm.Boolean {
			next := st.clone()
			nf := next.Frames[len(next.Frames)-1]
			nf.push(scalarValue(ops.Abstract([]int64{0})))
			nf.PC.Offset++
			return onlySuccessor(next)
		}
		return cannotAnalyze[A]()

	case opcode.Cast:
		next := st.clone()
		nf := next.Frames[len(next.Frames)-1]
		v := nf.pop()
		if v.IsRef {
			jerr.Fatal("abstract.step", "cast operand must be scalar")
		}
		if o.To.IsFloating() || o.From.IsFloating() {
			return cannotAnalyze[A]()
		}
		// A narrowing cast can change the concrete value in ways the
		// integer domains don't model bit-for-bit (DESIGN.md decision 7
		// keeps truncation a concrete-only concern); soundly collapse to
		// top rather than claim a precision this engine doesn't have.
		nf.push(scalarValue(ops.Top()))
		nf.PC.Offset++
		return onlySuccessor(next)

	case opcode.Invoke:
		if o.Kind != opcode.InvokeStatic {
			return cannotAnalyze[A]()
		}
		next := st.clone()
		caller := next.Frames[len(next.Frames)-1]
		args := make([]AbsValue[A], o.StackSize)
		for i := o.StackSize - 1; i >= 0; i-- {
			args[i] = caller.pop()
		}
		caller.PC.Offset++
		callee := newFrame[A](PC{Method: o.Method, Offset: 0})
		for i, a := range args {
			callee.Locals[i] = a
		}
		next.Frames = append(next.Frames, callee)
		return onlySuccessor(next)
	}

	return cannotAnalyze[A]()
}

// branch implements the Ifz/If comparison pattern of spec.md §4.5: a
// successor is emitted for every outcome compare did not rule out, at the
// branch-appropriate PC. base already has both operands popped off its
// stack; the original Python reference never writes a refined value back
// to the stack or locals for these purely control-flow opcodes, so neither
// does this port — refinement here narrows reachability, not state.
func branch[A domain.Lattice[A, int64]](base *AState[A], v1, v2 A, cond domain.Comparison, target int) stepResult[A] {
	outcomes := v1.Compare(cond, v2)
	res := stepResult[A]{}
	if _, ok := outcomes[true]; ok {
		taken := base.clone()
		taken.Frames[len(taken.Frames)-1].PC.Offset = target
		res.Successors = append(res.Successors, taken)
	}
	if _, ok := outcomes[false]; ok {
		fall := base.clone()
		fall.Frames[len(fall.Frames)-1].PC.Offset++
		res.Successors = append(res.Successors, fall)
	}
	return res
}

func toComparison(c opcode.Cond) domain.Comparison {
	switch c {
	case opcode.CondEQ:
		return domain.CmpEQ
	case opcode.CondNE:
		return domain.CmpNE
	case opcode.CondLT:
		return domain.CmpLT
	case opcode.CondLE:
		return domain.CmpLE
	case opcode.CondGT:
		return domain.CmpGT
	case opcode.CondGE:
		return domain.CmpGE
	default:
		jerr.Fatal("abstract.step", "unsupported comparison %q on reference-free operands", c)
		return domain.CmpEQ
	}
}

// withArrayRef pops a reference operand and splits on its nullity before
// handing control to fn for the non-null path, per spec.md §4.5: "Array
// length, bounds, and null checks apply the same pattern (split
// successors; emit verdicts for the failing side)."
func withArrayRef[A domain.Lattice[A, int64]](st *AState[A], fn func(*AState[A], *PerVarFrame[A], AbsValue[A]) stepResult[A]) stepResult[A] {
	probe := st.clone()
	pf := probe.Frames[len(probe.Frames)-1]
	ref := pf.pop()
	if !ref.IsRef {
		jerr.Fatal("abstract.step", "array opcode operand must be a reference")
	}
	res := stepResult[A]{}
	if ref.Null != NeverNull {
		res.Verdicts = append(res.Verdicts, verdict.NullPointer)
	}
	if ref.Null == AlwaysNull {
		return res
	}
	inner := fn(probe, pf, ref)
	res.Successors = append(res.Successors, inner.Successors...)
	res.Verdicts = append(res.Verdicts, inner.Verdicts...)
	return res
}

// Analyze runs the worklist fixpoint of spec.md §4.5 for method, seeding
// integer parameters to the domain's top and reference parameters to
// "maybe null, unknown site". Only integer-family and reference-typed
// parameters are supported; floating-point parameters are rejected the
// same way the Python reference does (DESIGN.md: this entry point is
// int64-specialized). cov is optional: when non-nil, every opcode the
// worklist retires records its source line, the abstract-interpretation
// side of the debloater's coverage analysis (spec.md §4.7).
func Analyze[A domain.Lattice[A, int64]](store *bytecode.Store, method jvm.AbsMethodID, ops domain.Ops[A, int64], thresholds []int64, cfg config.Config, cov *Coverage) (verdict.Set, error) {
	result := verdict.NewSet()
	var runErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = jerr.Recover(r)
			}
		}()

		ss := newStateSet[A]()
		entry := newFrame[A](PC{Method: method, Offset: 0})
		for i, p := range method.Method.Params.Types() {
			switch {
			case p.IsFloating():
				jerr.Fatal("abstract.init", "floating-point parameters are not supported")
			case p.Kind == jvm.Array || p.Kind == jvm.Reference || p.Kind == jvm.Object:
				entry.Locals[i] = refValue[A](MaybeNull)
			default:
				entry.Locals[i] = scalarValue(ops.Top())
			}
		}
		initial := &AState[A]{Heap: map[PC]A{}, Frames: []*PerVarFrame[A]{entry}}
		ss.PerInst[entry.PC] = initial
		ss.needsWork[entry.PC] = true

		iterations := 0
		for {
			pc, ok := popNext(ss)
			if !ok {
				break
			}
			iterations++
			if iterations > cfg.WorklistIterationBudget {
				result.Add(verdict.Unknown)
				break
			}
			state := ss.PerInst[pc]
			out := step(store, ops, state, cov)
			for _, v := range out.Verdicts {
				result.Add(v)
			}
			for _, succ := range out.Successors {
				ss.merge(succ, cfg.WorklistRevisitThreshold, thresholds)
			}
		}
	}()

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// popNext removes and returns the lowest-(method,offset) PC still needing
// work, per DESIGN.md decision 5's deterministic ordering.
func popNext[A domain.Lattice[A, int64]](ss *StateSet[A]) (PC, bool) {
	if len(ss.needsWork) == 0 {
		return PC{}, false
	}
	pcs := make([]PC, 0, len(ss.needsWork))
	for pc := range ss.needsWork {
		pcs = append(pcs, pc)
	}
	sort.Slice(pcs, func(i, j int) bool {
		mi, mj := pcs[i].Method.Encode(), pcs[j].Method.Encode()
		if mi != mj {
			return mi < mj
		}
		return pcs[i].Offset < pcs[j].Offset
	})
	pc := pcs[0]
	delete(ss.needsWork, pc)
	return pc, true
}
