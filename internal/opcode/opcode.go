// Package opcode decodes the JSON intermediate representation of JVM
// bytecode (spec.md §6) into a tagged-variant instruction set. Dispatch is
// an exhaustive Go type switch over the Opcode interface rather than a
// class hierarchy with virtual methods, per spec.md §9.
package opcode

import "github.com/magladko/jpamb-sub000/internal/jvm"

// Cond is the comparison-tag set used by If/Ifz: the six ordering
// comparisons plus the two reference-nullity comparisons.
type Cond string

const (
	CondEQ    Cond = "eq"
	CondNE    Cond = "ne"
	CondLT    Cond = "lt"
	CondLE    Cond = "le"
	CondGT    Cond = "gt"
	CondGE    Cond = "ge"
	CondIs    Cond = "is"
	CondIsNot Cond = "isnot"
)

// BinOp is the binary arithmetic operator set.
type BinOp string

const (
	OpAdd BinOp = "add"
	OpSub BinOp = "sub"
	OpMul BinOp = "mul"
	OpDiv BinOp = "div"
	OpRem BinOp = "rem"
)

// InvokeKind is the method-dispatch kind.
type InvokeKind string

const (
	InvokeVirtual   InvokeKind = "virtual"
	InvokeStatic    InvokeKind = "static"
	InvokeInterface InvokeKind = "interface"
	InvokeSpecial   InvokeKind = "special"
)

// Opcode is implemented by every instruction variant. Offset is the
// instruction's position within its method's opcode sequence; Line is the
// source line the instruction was compiled from, 0 when the decompiled
// bytecode carries no line-table entry for it. Both are set by the decoder,
// not by the opcode's own JSON payload interpretation.
type Opcode interface {
	Offset() int
	Line() int
	opcode()
}

type base struct {
	offset int
	line   int
}

func (b base) Offset() int { return b.offset }
func (b base) Line() int   { return b.line }
func (base) opcode()       {}

type Push struct {
	base
	Value jvm.Value
}

type Load struct {
	base
	Type  jvm.Type
	Index int
}

type Store struct {
	base
	Type  jvm.Type
	Index int
}

type Dup struct {
	base
	Words int
}

type Binary struct {
	base
	Type jvm.Type
	Op   BinOp
}

type Cast struct {
	base
	From, To jvm.Type
}

type Incr struct {
	base
	Index  int
	Amount int
}

type Ifz struct {
	base
	Cond   Cond
	Target int
}

type If struct {
	base
	Cond   Cond
	Target int
}

type Goto struct {
	base
	Target int
}

// Return pops the current frame. Type is nil for a void return.
type Return struct {
	base
	Type *jvm.Type
}

type New struct {
	base
	Class jvm.ClassName
}

type NewArray struct {
	base
	Type jvm.Type
	Dim  int
}

type ArrayStore struct {
	base
	Type jvm.Type
}

type ArrayLoad struct {
	base
	Type jvm.Type
}

type ArrayLength struct{ base }

type Throw struct{ base }

type Get struct {
	base
	Static bool
	Field  jvm.AbsFieldID
}

type Invoke struct {
	base
	Kind      InvokeKind
	Method    jvm.AbsMethodID
	StackSize int // number of stack-passed args, including receiver for non-static kinds
}

var (
	_ Opcode = Push{}
	_ Opcode = Load{}
	_ Opcode = Store{}
	_ Opcode = Dup{}
	_ Opcode = Binary{}
	_ Opcode = Cast{}
	_ Opcode = Incr{}
	_ Opcode = Ifz{}
	_ Opcode = If{}
	_ Opcode = Goto{}
	_ Opcode = Return{}
	_ Opcode = New{}
	_ Opcode = NewArray{}
	_ Opcode = ArrayStore{}
	_ Opcode = ArrayLoad{}
	_ Opcode = ArrayLength{}
	_ Opcode = Throw{}
	_ Opcode = Get{}
	_ Opcode = Invoke{}
)
