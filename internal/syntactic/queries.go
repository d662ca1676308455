package syntactic

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/magladko/jpamb-sub000/internal/jvm"
)

func mustQuery(pattern string) *sitter.Query {
	q, err := sitter.NewQuery([]byte(pattern), javaLanguage)
	if err != nil {
		panic("syntactic: malformed query: " + err.Error())
	}
	return q
}

var (
	classQuery = mustQuery(`(class_declaration name: (identifier) @class-name) @class`)

	methodQuery = mustQuery(`(method_declaration name: (identifier) @method-name) @method`)

	loopQuery = mustQuery(`[
		(while_statement) @loop
		(for_statement) @loop
		(do_statement) @loop
		(enhanced_for_statement) @loop
	]`)

	callNameQuery = mustQuery(`(method_invocation name: (identifier) @method_name)`)

	numericLiteralQuery = mustQuery(`[
		(decimal_integer_literal) @number
		(hex_integer_literal) @number
		(octal_integer_literal) @number
		(binary_integer_literal) @number
		(decimal_floating_point_literal) @number
		(hex_floating_point_literal) @number
	]`)
)

// captureNodes runs query over node and returns every node bound to the
// given capture name, across all matches.
func captureNodes(query *sitter.Query, node *sitter.Node, source []byte, captureName string) []*sitter.Node {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, node)

	var out []*sitter.Node
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m = cursor.FilterPredicates(m, source)
		for _, c := range m.Captures {
			if query.CaptureNameForId(c.Index) == captureName {
				out = append(out, c.Node)
			}
		}
	}
	return out
}

// parseNumericLiteral parses a Java numeric literal's source text into a
// jvm.Value, following the same suffix/prefix rules as
// syntactic_helper.py's _gather_numeric_values: "f"/"d" (and any decimal
// point or exponent) means floating, a trailing "l" is a long suffix to
// strip, and "0x"/"0b"/leading-zero select the integer base.
func parseNumericLiteral(text string) (jvm.Value, bool) {
	lower := strings.ToLower(text)
	hexInt := strings.HasPrefix(lower, "0x") && !strings.ContainsAny(lower, ".p")
	if !hexInt && strings.ContainsAny(lower, ".efd") {
		clean := strings.TrimRight(lower, "fd")
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return jvm.Value{}, false
		}
		if strings.Contains(lower, "f") {
			return jvm.Float(f), true
		}
		return jvm.Double(f), true
	}

	clean := strings.TrimSuffix(lower, "l")
	var (
		n   int64
		err error
	)
	switch {
	case strings.HasPrefix(clean, "0x"):
		n, err = strconv.ParseInt(clean[2:], 16, 64)
	case strings.HasPrefix(clean, "0b"):
		n, err = strconv.ParseInt(clean[2:], 2, 64)
	case strings.HasPrefix(clean, "0") && len(clean) > 1:
		n, err = strconv.ParseInt(clean[1:], 8, 64)
	default:
		n, err = strconv.ParseInt(clean, 10, 64)
	}
	if err != nil {
		return jvm.Value{}, false
	}
	return jvm.Int(n), true
}
