package concrete

import (
	"math"

	"github.com/magladko/jpamb-sub000/internal/bytecode"
	"github.com/magladko/jpamb-sub000/internal/jerr"
	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/opcode"
	"github.com/magladko/jpamb-sub000/internal/verdict"
)

// Step executes one opcode against st, mutating it in place and returning
// the terminal verdict once one is reached. A nil verdict and nil error
// means the state advanced and the caller should step again.
func Step(store *bytecode.Store, st *State, cov *Coverage) (*verdict.Verdict, error) {
	frame := st.CurrentFrame()
	op := store.At(frame.PC.Method, frame.PC.Offset)
	if cov != nil {
		cov.Record(frame.PC.Method, op.Line())
	}

	switch o := op.(type) {
	case opcode.Push:
		v := o.Value
		if v.Type.Kind == jvm.Array {
			addr := st.AllocArray(*v.Type.Elem, nil)
			v = jvm.Addr(jvm.TReference(), addr)
		}
		frame.Push(v)
		frame.PC.Offset++
		return nil, nil

	case opcode.Load:
		v, ok := frame.Locals[o.Index]
		if !ok {
			jerr.Fatal("concrete.step", "local variable %d not initialized", o.Index)
		}
		frame.Push(v)
		frame.PC.Offset++
		return nil, nil

	case opcode.Store:
		frame.Locals[o.Index] = frame.Pop()
		frame.PC.Offset++
		return nil, nil

	case opcode.Dup:
		if len(frame.Stack) == 0 {
			jerr.Fatal("concrete.step", "dup on empty stack")
		}
		for i := 0; i < o.Words; i++ {
			frame.Push(frame.Peek())
		}
		frame.PC.Offset++
		return nil, nil

	case opcode.Binary:
		v2, v1 := frame.Pop(), frame.Pop()
		if !v1.Type.Equal(o.Type) || !v2.Type.Equal(o.Type) {
			jerr.Fatal("concrete.step", "binary operand type mismatch: expected %s, got %s/%s", o.Type, v1.Type, v2.Type)
		}
		result, divByZero := evalBinary(o.Type, o.Op, v1, v2)
		if divByZero {
			v := verdict.DivideByZero
			return &v, nil
		}
		frame.Push(result)
		frame.PC.Offset++
		return nil, nil

	case opcode.Incr:
		local, ok := frame.Locals[o.Index]
		if !ok {
			jerr.Fatal("concrete.step", "local variable %d not initialized", o.Index)
		}
		frame.Locals[o.Index] = jvm.Int(local.I + int64(o.Amount))
		frame.PC.Offset++
		return nil, nil

	case opcode.Ifz:
		v := frame.Pop()
		if compareValues(o.Cond, v, zeroOf(v.Type)) {
			frame.PC.Offset = o.Target
		} else {
			frame.PC.Offset++
		}
		return nil, nil

	case opcode.If:
		v2, v1 := frame.Pop(), frame.Pop()
		if compareValues(o.Cond, v1, v2) {
			frame.PC.Offset = o.Target
		} else {
			frame.PC.Offset++
		}
		return nil, nil

	case opcode.Goto:
		frame.PC.Offset = o.Target
		return nil, nil

	case opcode.Return:
		st.PopFrame()
		if len(st.Frames) == 0 {
			v := verdict.OK
			return &v, nil
		}
		if o.Type != nil {
			rv := frame.Pop()
			st.CurrentFrame().Push(rv)
		}
		return nil, nil

	case opcode.New:
		if o.Class == "java/lang/AssertionError" {
			v := verdict.AssertionError
			return &v, nil
		}
		jerr.Fatal("concrete.step", "object construction not modeled for class %q", o.Class)

	case opcode.NewArray:
		count := frame.Pop()
		if count.Type.Kind != jvm.Int {
			jerr.Fatal("concrete.step", "newarray count must be int, got %s", count.Type)
		}
		if count.I < 0 {
			// spec.md §4.2: negative array size is a special marker the
			// harness maps to a verdict; there is no canonical outcome for
			// it among the six, so it is conservatively reported as *.
			v := verdict.Unknown
			return &v, nil
		}
		elems := make([]jvm.Value, count.I)
		for i := range elems {
			elems[i] = jvm.ToHeapForm(o.Type, zeroOf(o.Type))
		}
		addr := st.AllocArray(o.Type, elems)
		frame.Push(jvm.Addr(jvm.TReference(), addr))
		frame.PC.Offset++
		return nil, nil

	case opcode.ArrayLength:
		ref := frame.Pop()
		if ref.Type.Kind != jvm.Reference {
			jerr.Fatal("concrete.step", "arraylength expects reference, got %s", ref.Type)
		}
		if ref.IsNull {
			v := verdict.NullPointer
			return &v, nil
		}
		obj, ok := st.Heap[ref.Ref]
		if !ok {
			jerr.Fatal("concrete.step", "dangling heap reference %d", ref.Ref)
		}
		frame.Push(jvm.Int(int64(len(obj.Elements))))
		frame.PC.Offset++
		return nil, nil

	case opcode.ArrayStore:
		val, idx, ref := frame.Pop(), frame.Pop(), frame.Pop()
		if ref.Type.Kind != jvm.Reference {
			jerr.Fatal("concrete.step", "arraystore expects reference, got %s", ref.Type)
		}
		if ref.IsNull {
			v := verdict.NullPointer
			return &v, nil
		}
		obj, ok := st.Heap[ref.Ref]
		if !ok {
			jerr.Fatal("concrete.step", "dangling heap reference %d", ref.Ref)
		}
		if idx.I < 0 || idx.I >= int64(len(obj.Elements)) {
			v := verdict.OutOfBounds
			return &v, nil
		}
		obj.Elements[idx.I] = jvm.ToHeapForm(o.Type, val)
		frame.PC.Offset++
		return nil, nil

	case opcode.ArrayLoad:
		idx, ref := frame.Pop(), frame.Pop()
		if ref.Type.Kind != jvm.Reference {
			jerr.Fatal("concrete.step", "arrayload expects reference, got %s", ref.Type)
		}
		if ref.IsNull {
			v := verdict.NullPointer
			return &v, nil
		}
		obj, ok := st.Heap[ref.Ref]
		if !ok {
			jerr.Fatal("concrete.step", "dangling heap reference %d", ref.Ref)
		}
		if idx.I < 0 || idx.I >= int64(len(obj.Elements)) {
			v := verdict.OutOfBounds
			return &v, nil
		}
		frame.Push(jvm.ToStackForm(o.Type, obj.Elements[idx.I]))
		frame.PC.Offset++
		return nil, nil

	case opcode.Throw:
		// spec.md §9 leaves throw's semantics undefined; reported as *,
		// mirroring the treatment chosen for abstract interpretation.
		v := verdict.Unknown
		return &v, nil

	case opcode.Get:
		if o.Static && o.Field.Field.Name == "$assertionsDisabled" && o.Field.Field.Type.Kind == jvm.Boolean {
			frame.Push(jvm.ToStackForm(jvm.TBoolean(), jvm.Bool(false)))
			frame.PC.Offset++
			return nil, nil
		}
		jerr.Fatal("concrete.step", "field access not modeled: %s", o.Field)

	case opcode.Invoke:
		if o.Kind != opcode.InvokeStatic {
			jerr.Fatal("concrete.step", "invoke kind %q not modeled", o.Kind)
		}
		nargs := o.StackSize
		args := make([]jvm.Value, nargs)
		for i := nargs - 1; i >= 0; i-- {
			args[i] = frame.Pop()
		}
		frame.PC.Offset++
		callee := NewFrame(o.Method)
		for i, a := range args {
			callee.Locals[i] = a
		}
		st.PushFrame(callee)
		return nil, nil

	case opcode.Cast:
		v := frame.Pop()
		if !v.Type.Equal(o.From) {
			jerr.Fatal("concrete.step", "cast source type mismatch: expected %s, got %s", o.From, v.Type)
		}
		frame.Push(castValue(o.From, o.To, v))
		frame.PC.Offset++
		return nil, nil
	}

	jerr.Fatal("concrete.step", "unhandled opcode %T", op)
	return nil, nil
}

// Run drives Step until a verdict is reached or maxSteps is exhausted,
// recovering any jerr.Fatal invariant violation into the error return per
// spec.md §7 category 3. Exhausting the step budget yields *, not an error.
// Arguments bind directly to locals 0..n-1; a case whose input carries
// array literals needs its heap populated before the frame starts, so
// those callers build a *State themselves (AllocArray, then bind the
// resulting reference into a local) and call RunState instead.
func Run(store *bytecode.Store, method jvm.AbsMethodID, args []jvm.Value, maxSteps int, cov *Coverage) (verdict.Verdict, error) {
	return RunState(store, NewState(method, args), maxSteps, cov)
}

// RunState drives Step over an already-constructed State, for callers that
// need to populate the heap (array-typed case arguments) before execution
// starts. Run is the common case built on top of this.
func RunState(store *bytecode.Store, st *State, maxSteps int, cov *Coverage) (result verdict.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = jerr.Recover(r)
			result = verdict.Unknown
		}
	}()

	for i := 0; i < maxSteps; i++ {
		v, stepErr := Step(store, st, cov)
		if stepErr != nil {
			return verdict.Unknown, stepErr
		}
		if v != nil {
			return *v, nil
		}
	}
	return verdict.Unknown, nil
}

func zeroOf(t jvm.Type) jvm.Value {
	if t.IsFloating() {
		return jvm.Value{Type: t}
	}
	if t.Kind == jvm.Reference || t.Kind == jvm.Array || t.Kind == jvm.Object {
		return jvm.Null(t)
	}
	return jvm.Value{Type: t}
}

func evalBinary(t jvm.Type, op opcode.BinOp, v1, v2 jvm.Value) (jvm.Value, bool) {
	if t.IsFloating() {
		a, b := v1.F, v2.F
		var r float64
		switch op {
		case opcode.OpAdd:
			r = a + b
		case opcode.OpSub:
			r = a - b
		case opcode.OpMul:
			r = a * b
		case opcode.OpDiv:
			r = a / b
		case opcode.OpRem:
			r = math.Mod(a, b)
		default:
			jerr.Fatal("concrete.step", "binary operator %q not implemented for %s", op, t)
		}
		if t.Kind == jvm.Float {
			r = float64(float32(r))
		}
		return jvm.Value{Type: t, F: r}, false
	}

	a, b := v1.I, v2.I
	switch op {
	case opcode.OpAdd:
		return wrapInt(t, a+b), false
	case opcode.OpSub:
		return wrapInt(t, a-b), false
	case opcode.OpMul:
		return wrapInt(t, a*b), false
	case opcode.OpDiv:
		if b == 0 {
			return jvm.Value{}, true
		}
		return wrapInt(t, a/b), false
	case opcode.OpRem:
		if b == 0 {
			return jvm.Value{}, true
		}
		return wrapInt(t, a%b), false
	default:
		jerr.Fatal("concrete.step", "binary operator %q not implemented for %s", op, t)
		return jvm.Value{}, false
	}
}

func wrapInt(t jvm.Type, v int64) jvm.Value {
	if t.Kind == jvm.Long {
		return jvm.Value{Type: t, I: v}
	}
	return jvm.Value{Type: t, I: int64(int32(v))}
}

func compareValues(cond opcode.Cond, v1, v2 jvm.Value) bool {
	if cond == opcode.CondIs || cond == opcode.CondIsNot {
		same := v1.IsNull == v2.IsNull && (v1.IsNull || v1.Ref == v2.Ref)
		if cond == opcode.CondIs {
			return same
		}
		return !same
	}
	if v1.Type.IsFloating() || v2.Type.IsFloating() {
		a, b := v1.F, v2.F
		switch cond {
		case opcode.CondEQ:
			return a == b
		case opcode.CondNE:
			return a != b
		case opcode.CondLT:
			return a < b
		case opcode.CondLE:
			return a <= b
		case opcode.CondGT:
			return a > b
		case opcode.CondGE:
			return a >= b
		}
	}
	a, b := v1.I, v2.I
	switch cond {
	case opcode.CondEQ:
		return a == b
	case opcode.CondNE:
		return a != b
	case opcode.CondLT:
		return a < b
	case opcode.CondLE:
		return a <= b
	case opcode.CondGT:
		return a > b
	case opcode.CondGE:
		return a >= b
	}
	jerr.Fatal("concrete.step", "comparison %q not implemented", cond)
	return false
}

// castValue implements the narrowing/widening numeric conversions Cast can
// express: int-family truncation (byte/short/char/int/long) and the
// integral<->floating conversions, per spec.md §4.3's truncating-cast
// bullet (DESIGN.md decision 7: kept as a free function, not a Lattice
// method, since only the integer domains need it).
func castValue(from, to jvm.Type, v jvm.Value) jvm.Value {
	switch {
	case to.IsFloating():
		var f float64
		if from.IsFloating() {
			f = v.F
		} else {
			f = float64(v.I)
		}
		if to.Kind == jvm.Float {
			f = float64(float32(f))
		}
		return jvm.Value{Type: to, F: f}
	case from.IsFloating():
		return truncateInt(to, int64(v.F))
	default:
		return truncateInt(to, v.I)
	}
}

func truncateInt(to jvm.Type, n int64) jvm.Value {
	switch to.Kind {
	case jvm.Byte:
		return jvm.Value{Type: to, I: int64(int8(n))}
	case jvm.Short:
		return jvm.Value{Type: to, I: int64(int16(n))}
	case jvm.Char:
		return jvm.Value{Type: to, I: int64(uint16(n))}
	case jvm.Int:
		return jvm.Value{Type: to, I: int64(int32(n))}
	default:
		return jvm.Value{Type: to, I: n}
	}
}
