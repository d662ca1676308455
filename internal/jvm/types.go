// Package jvm models the JVM value and identifier surface the analysis
// engine reasons about: types, values, class/field/method identifiers, and
// the descriptor grammar that encodes them on the wire.
package jvm

import (
	"fmt"
	"strings"
)

// Kind tags the variant of a Type. Kept as a small closed enum rather than
// a class hierarchy: callers switch on Kind exhaustively instead of relying
// on virtual dispatch.
type Kind uint8

const (
	Boolean Kind = iota
	Byte
	Short
	Char
	Int
	Long
	Float
	Double
	Reference
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Char:
		return "char"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Reference:
		return "reference"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// Type is a value-equal tagged variant over the JVM type surface. Elem is
// populated only for Array, Class only for Object.
type Type struct {
	Kind  Kind
	Elem  *Type
	Class ClassName
}

func TBoolean() Type   { return Type{Kind: Boolean} }
func TByte() Type      { return Type{Kind: Byte} }
func TShort() Type     { return Type{Kind: Short} }
func TChar() Type      { return Type{Kind: Char} }
func TInt() Type       { return Type{Kind: Int} }
func TLong() Type      { return Type{Kind: Long} }
func TFloat() Type     { return Type{Kind: Float} }
func TDouble() Type    { return Type{Kind: Double} }
func TReference() Type { return Type{Kind: Reference} }

func TArray(elem Type) Type        { return Type{Kind: Array, Elem: &elem} }
func TObject(class ClassName) Type { return Type{Kind: Object, Class: class} }

// IsIntegral reports whether the type occupies the integer-family stack
// slot (booleans and chars included, per JVM stack-form rules).
func (t Type) IsIntegral() bool {
	switch t.Kind {
	case Boolean, Byte, Short, Char, Int, Long:
		return true
	default:
		return false
	}
}

func (t Type) IsFloating() bool {
	return t.Kind == Float || t.Kind == Double
}

// Equal performs structural value comparison, recursing through Array
// element types.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Array:
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == o.Elem
		}
		return t.Elem.Equal(*o.Elem)
	case Object:
		return t.Class == o.Class
	default:
		return true
	}
}

// Descriptor renders the type using the standard JVM descriptor grammar:
// Z B S C I J F D, [T for arrays, LClassName; for objects.
func (t Type) Descriptor() string {
	switch t.Kind {
	case Boolean:
		return "Z"
	case Byte:
		return "B"
	case Short:
		return "S"
	case Char:
		return "C"
	case Int:
		return "I"
	case Long:
		return "J"
	case Float:
		return "F"
	case Double:
		return "D"
	case Reference:
		return "Ljava/lang/Object;"
	case Array:
		return "[" + t.Elem.Descriptor()
	case Object:
		return "L" + string(t.Class) + ";"
	default:
		return ""
	}
}

func (t Type) String() string { return t.Descriptor() }

// DecodeType parses a single type descriptor starting at s[0], returning
// the remainder of the string after the consumed descriptor.
func DecodeType(s string) (Type, string, error) {
	if s == "" {
		return Type{}, s, fmt.Errorf("invalid input: empty type descriptor")
	}
	switch s[0] {
	case 'Z':
		return TBoolean(), s[1:], nil
	case 'B':
		return TByte(), s[1:], nil
	case 'S':
		return TShort(), s[1:], nil
	case 'C':
		return TChar(), s[1:], nil
	case 'I':
		return TInt(), s[1:], nil
	case 'J':
		return TLong(), s[1:], nil
	case 'F':
		return TFloat(), s[1:], nil
	case 'D':
		return TDouble(), s[1:], nil
	case '[':
		elem, rest, err := DecodeType(s[1:])
		if err != nil {
			return Type{}, s, err
		}
		return TArray(elem), rest, nil
	case 'L':
		idx := strings.IndexByte(s, ';')
		if idx < 0 {
			return Type{}, s, fmt.Errorf("invalid input: unterminated class descriptor %q", s)
		}
		return TObject(ClassName(s[1:idx])), s[idx+1:], nil
	default:
		return Type{}, s, fmt.Errorf("invalid input: unknown type tag %q", s[0])
	}
}

// DecodeTypeFull decodes exactly one type descriptor, failing if trailing
// input remains.
func DecodeTypeFull(s string) (Type, error) {
	t, rest, err := DecodeType(s)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, fmt.Errorf("invalid input: trailing data in type descriptor %q", s)
	}
	return t, nil
}
