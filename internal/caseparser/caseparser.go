// Package caseparser decodes the case-file grammar of spec.md §6: one line
// per test case, `method-id (input-tuple) -> verdict`, grounded on
// original_source/lib/jpamb/model.py's Case/Input/CASE_RE.
package caseparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/magladko/jpamb-sub000/internal/jvm"
)

// caseLineRe mirrors model.py's CASE_RE: method-id, then a parenthesized
// input tuple captured whole (commas inside it are split separately, since
// array literals themselves contain commas), then the expected result.
var caseLineRe = regexp.MustCompile(`^([^ ]*) +(\([^)]*\)) -> (.*)$`)

// Literal is one decoded input value. Elements is non-nil only for array
// literals, holding the heap-form element values a caller must allocate
// into a fresh concrete.State before Value (an unaddressed array-typed
// placeholder) can be bound to a local slot.
type Literal struct {
	Value    jvm.Value
	Elements []jvm.Value
}

// Input is a case's full argument tuple, in declaration order.
type Input struct {
	Literals []Literal
}

// Values returns the literal tuple as plain jvm.Values, discarding array
// element payloads. Suited for non-array-taking methods and for syntactic
// mining; callers binding arguments into a concrete.State also pass the
// Elements() payloads so array elements are not lost.
func (in Input) Values() []jvm.Value {
	out := make([]jvm.Value, len(in.Literals))
	for i, l := range in.Literals {
		out[i] = l.Value
	}
	return out
}

// Elements returns the per-literal array element payloads, parallel to
// Values, nil at any index whose literal is not an array.
func (in Input) Elements() [][]jvm.Value {
	out := make([][]jvm.Value, len(in.Literals))
	for i, l := range in.Literals {
		out[i] = l.Elements
	}
	return out
}

func (in Input) String() string {
	parts := make([]string, len(in.Literals))
	for i, l := range in.Literals {
		parts[i] = l.Value.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// DecodeInput parses a parenthesized, comma-separated input tuple, e.g.
// "(1, true, [I:1,2,3])".
func DecodeInput(s string) (Input, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return Input{}, fmt.Errorf("invalid input: expected input to be in parenthesis, got %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return Input{}, nil
	}
	parts, err := splitTopLevel(body)
	if err != nil {
		return Input{}, err
	}
	literals := make([]Literal, len(parts))
	for i, part := range parts {
		v, elems, err := jvm.DecodeLiteral(part)
		if err != nil {
			return Input{}, err
		}
		literals[i] = Literal{Value: v, Elements: elems}
	}
	return Input{Literals: literals}, nil
}

// splitTopLevel splits a comma list, treating "[...]" array literals and
// '...' char literals as opaque so their internal commas and brackets do
// not cause a split, mirroring jvm.Value.decode_many's scanning approach.
func splitTopLevel(body string) ([]string, error) {
	var parts []string
	depthBracket := 0
	inChar := false
	start := 0
	for i, r := range body {
		switch {
		case r == '\'':
			inChar = !inChar
		case inChar:
			// inside a char literal, nothing else is special
		case r == '[':
			depthBracket++
		case r == ']':
			depthBracket--
			if depthBracket < 0 {
				return nil, fmt.Errorf("invalid input: unbalanced ']' in %q", body)
			}
		case r == ',' && depthBracket == 0:
			parts = append(parts, strings.TrimSpace(body[start:i]))
			start = i + 1
		}
	}
	if depthBracket != 0 {
		return nil, fmt.Errorf("invalid input: unbalanced '[' in %q", body)
	}
	parts = append(parts, strings.TrimSpace(body[start:]))
	return parts, nil
}

// Case is an absolute method id, its input tuple, and the expected result
// text as written in the case file (spec.md §6's "verdict", left as a raw
// string since the case-file grammar does not constrain it to the six
// outcome names — e.g. harness case files may suffix a confidence).
type Case struct {
	Method   jvm.AbsMethodID
	Input    Input
	Expected string
}

func (c Case) String() string {
	return fmt.Sprintf("%s.%s:%s -> %s", c.Method.Class, c.Method.Method.Name, c.Input, c.Expected)
}

// Decode parses one case-file line.
func Decode(line string) (Case, error) {
	m := caseLineRe.FindStringSubmatch(line)
	if m == nil {
		return Case{}, fmt.Errorf("invalid input: unexpected case line %q", line)
	}
	method, err := jvm.DecodeAbsMethodID(m[1])
	if err != nil {
		return Case{}, err
	}
	input, err := DecodeInput(m[2])
	if err != nil {
		return Case{}, err
	}
	return Case{Method: method, Input: input, Expected: m[3]}, nil
}

// ByMethod groups cases by their method id — the Go equivalent of
// model.py's Case.by_methodid. The result is a plain map, so its iteration
// order is not defined; callers that need a stable order sort the keys.
func ByMethod(cases []Case) map[jvm.AbsMethodID][]Case {
	out := map[jvm.AbsMethodID][]Case{}
	for _, c := range cases {
		out[c.Method] = append(out[c.Method], c)
	}
	return out
}
