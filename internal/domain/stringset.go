package domain

import (
	"sort"
	"strconv"
	"strings"
)

// StringSetMaxTracked is the default cardinality cap before a StringSet
// collapses to top, matching StringDomain.MAX_TRACKED in
// original_source/project/abstractions/string_set.py.
const StringSetMaxTracked = 5

// StringSet is the bounded finite-set domain over string values. Only
// concatenation (Add) is non-trivial; every other arithmetic operation
// collapses to top, per spec.md §4.4 and the Python reference's
// __sub__/__mul__/__div__/__mod__ aliasing.
type StringSet struct {
	Top    bool
	Values map[string]struct{}
}

func StringSetBot() StringSet { return StringSet{Values: map[string]struct{}{}} }
func StringSetTop() StringSet { return StringSet{Top: true} }

func StringSetAbstract(vs []string) StringSet {
	s := StringSetBot()
	for _, v := range vs {
		s.Values[v] = struct{}{}
	}
	return s.normalized()
}

// StringSetFromInt mirrors i2s_cast: an int value cast to string.
func StringSetFromInt(v int64) StringSet {
	return StringSetAbstract([]string{strconv.FormatInt(v, 10)})
}

func (s StringSet) normalized() StringSet {
	if s.Top {
		return StringSetTop()
	}
	if len(s.Values) > StringSetMaxTracked {
		return StringSetTop()
	}
	return s
}

func (s StringSet) IsBottom() bool { return !s.Top && len(s.Values) == 0 }

func (s StringSet) String() string {
	if s.Top {
		return "⊤str"
	}
	if s.IsBottom() {
		return "⊥str"
	}
	vs := make([]string, 0, len(s.Values))
	for v := range s.Values {
		vs = append(vs, v)
	}
	sort.Strings(vs)
	return "{" + strings.Join(vs, ",") + "}"
}

func (s StringSet) Contains(v string) bool {
	if s.Top {
		return true
	}
	_, ok := s.Values[v]
	return ok
}

func (s StringSet) Join(o StringSet) StringSet {
	if s.Top || o.Top {
		return StringSetTop()
	}
	out := StringSetBot()
	for v := range s.Values {
		out.Values[v] = struct{}{}
	}
	for v := range o.Values {
		out.Values[v] = struct{}{}
	}
	return out.normalized()
}

func (s StringSet) Meet(o StringSet) StringSet {
	if s.Top {
		return o
	}
	if o.Top {
		return s
	}
	out := StringSetBot()
	for v := range s.Values {
		if _, ok := o.Values[v]; ok {
			out.Values[v] = struct{}{}
		}
	}
	return out
}

func (s StringSet) Equal(o StringSet) bool {
	if s.Top != o.Top {
		return false
	}
	if s.Top {
		return true
	}
	if len(s.Values) != len(o.Values) {
		return false
	}
	for v := range s.Values {
		if _, ok := o.Values[v]; !ok {
			return false
		}
	}
	return true
}

func (s StringSet) LessEq(o StringSet) bool {
	if s.IsBottom() {
		return true
	}
	if o.Top {
		return true
	}
	if s.Top {
		return false
	}
	for v := range s.Values {
		if _, ok := o.Values[v]; !ok {
			return false
		}
	}
	return true
}

// Widen is join: StringSet has finite height bounded by MAX_TRACKED.
func (s StringSet) Widen(o StringSet, _ []string) StringSet { return s.Join(o) }

func (s StringSet) Add(o StringSet) StringSet {
	if s.IsBottom() || o.IsBottom() {
		return StringSetBot()
	}
	if s.Top || o.Top {
		return StringSetTop()
	}
	out := StringSetBot()
	for a := range s.Values {
		for b := range o.Values {
			out.Values[a+b] = struct{}{}
		}
	}
	return out.normalized()
}

// Sub, Mul, Div, Rem and Neg are all unmodeled for strings: they collapse
// to top (Neg is identity, since string negation has no meaning).
func (s StringSet) Sub(StringSet) StringSet { return StringSetTop() }
func (s StringSet) Mul(StringSet) StringSet { return StringSetTop() }
func (s StringSet) Neg() StringSet          { return s }

func (s StringSet) Div(StringSet) DivOutcome[StringSet] {
	return DivOutcome[StringSet]{Value: StringSetTop(), HasValue: true}
}

func (s StringSet) Rem(StringSet) DivOutcome[StringSet] {
	return DivOutcome[StringSet]{Value: StringSetTop(), HasValue: true}
}

func (s StringSet) compareLiterals(o StringSet, cmp func(a, b string) bool) map[bool]Refinement[StringSet] {
	if s.Top || o.Top {
		return map[bool]Refinement[StringSet]{
			true:  {Left: s, Right: o},
			false: {Left: s, Right: o},
		}
	}
	lhs := map[bool]map[string]struct{}{true: {}, false: {}}
	rhs := map[bool]map[string]struct{}{true: {}, false: {}}
	matched := false
	for a := range s.Values {
		for b := range o.Values {
			truth := cmp(a, b)
			lhs[truth][a] = struct{}{}
			rhs[truth][b] = struct{}{}
			matched = true
		}
	}
	if !matched {
		return map[bool]Refinement[StringSet]{
			true:  {Left: s, Right: o},
			false: {Left: s, Right: o},
		}
	}
	out := make(map[bool]Refinement[StringSet], 2)
	for _, truth := range []bool{true, false} {
		if len(lhs[truth]) == 0 {
			continue
		}
		out[truth] = Refinement[StringSet]{Left: StringSet{Values: lhs[truth]}, Right: StringSet{Values: rhs[truth]}}
	}
	return out
}

func (s StringSet) Compare(op Comparison, o StringSet) map[bool]Refinement[StringSet] {
	switch op {
	case CmpEQ:
		return s.compareLiterals(o, func(a, b string) bool { return a == b })
	case CmpNE:
		return s.compareLiterals(o, func(a, b string) bool { return a != b })
	case CmpLT:
		return s.compareLiterals(o, func(a, b string) bool { return a < b })
	case CmpLE:
		return s.compareLiterals(o, func(a, b string) bool { return a <= b })
	case CmpGT:
		return s.compareLiterals(o, func(a, b string) bool { return a > b })
	case CmpGE:
		return s.compareLiterals(o, func(a, b string) bool { return a >= b })
	default:
		return map[bool]Refinement[StringSet]{}
	}
}

var _ Lattice[StringSet, string] = StringSet{}
