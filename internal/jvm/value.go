package jvm

import (
	"fmt"
	"strconv"
	"strings"
)

// Value pairs a Type with its payload. Integer-family payloads (including
// booleans and chars, which occupy the 32-bit integer stack slot) live in I;
// floating payloads live in F; Reference/Array/Object payloads are heap
// addresses in Ref, with IsNull true standing for the null reference.
type Value struct {
	Type   Type
	I      int64
	F      float64
	Ref    int64
	IsNull bool
}

func Int(v int64) Value    { return Value{Type: TInt(), I: v} }
func Long(v int64) Value   { return Value{Type: TLong(), I: v} }
func Byte(v int64) Value   { return Value{Type: TByte(), I: v} }
func Short(v int64) Value  { return Value{Type: TShort(), I: v} }
func Char(v int64) Value   { return Value{Type: TChar(), I: v} }
func Bool(v bool) Value {
	if v {
		return Value{Type: TBoolean(), I: 1}
	}
	return Value{Type: TBoolean(), I: 0}
}
func Float(v float64) Value  { return Value{Type: TFloat(), F: v} }
func Double(v float64) Value { return Value{Type: TDouble(), F: v} }

// Null constructs the null reference of the given reference-family type.
func Null(t Type) Value { return Value{Type: t, IsNull: true} }

// Addr constructs a non-null reference to a heap address.
func Addr(t Type, addr int64) Value { return Value{Type: t, Ref: addr} }

func (v Value) IsTrue() bool { return v.I != 0 }

func (v Value) String() string {
	switch {
	case v.Type.IsFloating():
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case v.Type.Kind == Boolean:
		return strconv.FormatBool(v.I != 0)
	case v.Type.Kind == Reference || v.Type.Kind == Array || v.Type.Kind == Object:
		if v.IsNull {
			return "null"
		}
		return fmt.Sprintf("ref(%d)", v.Ref)
	default:
		return strconv.FormatInt(v.I, 10)
	}
}

// ToStackForm widens a heap-form scalar (bool as bool, char as rune) up to
// the 32-bit integer stack slot the JVM uses for sub-int types.
func ToStackForm(t Type, heapForm Value) Value {
	switch t.Kind {
	case Boolean, Byte, Short, Char:
		return Value{Type: TInt(), I: heapForm.I}
	default:
		return heapForm
	}
}

// ToHeapForm narrows a stack-form integer back into its declared element
// type for storage in an array.
func ToHeapForm(t Type, stackForm Value) Value {
	switch t.Kind {
	case Boolean:
		if stackForm.I != 0 {
			return Bool(true)
		}
		return Bool(false)
	case Byte:
		return Value{Type: t, I: int64(int8(stackForm.I))}
	case Short:
		return Value{Type: t, I: int64(int16(stackForm.I))}
	case Char:
		return Value{Type: t, I: int64(uint16(stackForm.I))}
	default:
		return Value{Type: t, I: stackForm.I, F: stackForm.F, Ref: stackForm.Ref, IsNull: stackForm.IsNull}
	}
}

// DecodeLiteral parses one element of the case-input grammar (spec.md §6):
// an integer literal, true/false, a single-quoted char, or an [I:...] /
// [C:...] array literal (returned as a slice of element Values; the caller
// is responsible for allocating it on a heap).
func DecodeLiteral(s string) (Value, []Value, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "true":
		return Bool(true), nil, nil
	case s == "false":
		return Bool(false), nil, nil
	case s == "null":
		return Null(TReference()), nil, nil
	case strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") && len(s) >= 3:
		inner := s[1 : len(s)-1]
		r := []rune(inner)
		if len(r) != 1 {
			return Value{}, nil, fmt.Errorf("invalid input: malformed char literal %q", s)
		}
		return Char(int64(r[0])), nil, nil
	case strings.HasPrefix(s, "[I:"):
		elems, err := decodeArrayElems(s[len("[I:") : len(s)-1])
		if err != nil {
			return Value{}, nil, err
		}
		vals := make([]Value, len(elems))
		for i, e := range elems {
			n, err := strconv.ParseInt(strings.TrimSpace(e), 10, 32)
			if err != nil {
				return Value{}, nil, fmt.Errorf("invalid input: malformed int array element %q", e)
			}
			vals[i] = Int(n)
		}
		return Value{Type: TArray(TInt())}, vals, nil
	case strings.HasPrefix(s, "[C:"):
		elems, err := decodeArrayElems(s[len("[C:") : len(s)-1])
		if err != nil {
			return Value{}, nil, err
		}
		vals := make([]Value, len(elems))
		for i, e := range elems {
			cv, _, err := DecodeLiteral(strings.TrimSpace(e))
			if err != nil {
				return Value{}, nil, err
			}
			vals[i] = cv
		}
		return Value{Type: TArray(TChar())}, vals, nil
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, nil, fmt.Errorf("invalid input: malformed literal %q", s)
		}
		return Int(n), nil, nil
	}
}

func decodeArrayElems(body string) ([]string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	var elems []string
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '\'':
			depth ^= 1 // toggle inside-quote so commas inside a char literal don't split
		case ',':
			if depth == 0 {
				elems = append(elems, body[start:i])
				start = i + 1
			}
		}
	}
	elems = append(elems, body[start:])
	return elems, nil
}
