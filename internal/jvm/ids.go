package jvm

import (
	"fmt"
	"regexp"
	"strings"
)

// ClassName is a slash-delimited package+name, e.g. "jpamb/cases/Simple".
type ClassName string

// FieldID names a field by name and declared type.
type FieldID struct {
	Name string
	Type Type
}

func (f FieldID) String() string { return f.Name + ":" + f.Type.Descriptor() }

// ParamList is a method's parameter types encoded as their concatenated
// descriptor string (e.g. "II" for two ints). Storing the descriptor
// directly, rather than a []Type slice, keeps MethodID (and therefore
// AbsMethodID, and PC which embeds it) usable as a map key and in ==
// comparisons — exactly what the bytecode store's method cache, the
// concrete interpreter's coverage accumulator, and the abstract
// interpreter's worklist and heap all need, since a slice field makes a
// struct non-comparable in Go.
type ParamList string

// NewParamList encodes params into the descriptor form MethodID stores.
func NewParamList(params ...Type) ParamList {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(p.Descriptor())
	}
	return ParamList(b.String())
}

// Types decodes the descriptor back into individual types.
func (p ParamList) Types() []Type {
	var out []Type
	rest := string(p)
	for rest != "" {
		t, r, err := DecodeType(rest)
		if err != nil {
			return out
		}
		out = append(out, t)
		rest = r
	}
	return out
}

// Count reports the number of parameters without allocating the decoded
// slice.
func (p ParamList) Count() int {
	count := 0
	rest := string(p)
	for rest != "" {
		_, r, err := DecodeType(rest)
		if err != nil {
			return count
		}
		rest = r
		count++
	}
	return count
}

// MethodID names a method by name, parameter types, and an optional return
// type (nil means void).
type MethodID struct {
	Name    string
	Params  ParamList
	Returns *Type
}

func (m MethodID) returnDescriptor() string {
	if m.Returns == nil {
		return "V"
	}
	return m.Returns.Descriptor()
}

func (m MethodID) paramsDescriptor() string {
	return string(m.Params)
}

// Encode renders "name:(params)return".
func (m MethodID) Encode() string {
	return fmt.Sprintf("%s:(%s)%s", m.Name, m.paramsDescriptor(), m.returnDescriptor())
}

func (m MethodID) String() string { return m.Encode() }

var methodIDRe = regexp.MustCompile(`^([^:]+):\(([^)]*)\)(.*)$`)

// DecodeMethodID parses "name:(params)return".
func DecodeMethodID(s string) (MethodID, error) {
	match := methodIDRe.FindStringSubmatch(s)
	if match == nil {
		return MethodID{}, fmt.Errorf("invalid input: malformed method id %q", s)
	}
	name, paramStr, retStr := match[1], match[2], match[3]

	rest := paramStr
	for rest != "" {
		var err error
		_, rest, err = DecodeType(rest)
		if err != nil {
			return MethodID{}, err
		}
	}

	var returns *Type
	if retStr != "V" {
		t, err := DecodeTypeFull(retStr)
		if err != nil {
			return MethodID{}, err
		}
		returns = &t
	}
	return MethodID{Name: name, Params: ParamList(paramStr), Returns: returns}, nil
}

// AbsMethodID pairs a class name with a method identifier; it is the
// program-wide, hashable key the bytecode store and all program points key
// on.
type AbsMethodID struct {
	Class  ClassName
	Method MethodID
}

func (m AbsMethodID) Encode() string {
	return fmt.Sprintf("%s.%s", m.Class, m.Method.Encode())
}

func (m AbsMethodID) String() string { return m.Encode() }

var absMethodIDRe = regexp.MustCompile(`^([^.]+(?:/[^.]+)*)\.([^:]+:\(.*\).*)$`)

// DecodeAbsMethodID parses "pkg/Cls.name:(params)return".
func DecodeAbsMethodID(s string) (AbsMethodID, error) {
	dot := strings.LastIndex(beforeParen(s), ".")
	if dot < 0 {
		return AbsMethodID{}, fmt.Errorf("invalid input: malformed absolute method id %q", s)
	}
	class := s[:dot]
	methodPart := s[dot+1:]
	method, err := DecodeMethodID(methodPart)
	if err != nil {
		return AbsMethodID{}, err
	}
	return AbsMethodID{Class: ClassName(class), Method: method}, nil
}

// beforeParen returns the prefix of s up to (not including) its first "(",
// used to locate the class/method-name separator without being confused by
// dots inside descriptors (there are none, but slashes in class names are
// also not dots, so a plain LastIndex on the whole string is unsafe only in
// the pathological case of a dotted class name; jpamb class names are
// slash-delimited so this is safe in practice).
func beforeParen(s string) string {
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		return s[:idx]
	}
	return s
}

// AbsFieldID pairs a class name with a field identifier.
type AbsFieldID struct {
	Class ClassName
	Field FieldID
}

func (f AbsFieldID) Encode() string {
	return fmt.Sprintf("%s.%s", f.Class, f.Field.String())
}

func (f AbsFieldID) String() string { return f.Encode() }
