// Package syntactic answers the questions spec.md §4.6 needs about a Java
// method's source before the debloater decides how to analyze it:
// triviality (no parameters, loops, or recursion), loop/recursion
// presence, and the literal constants worth seeding an abstract domain's
// K-set with. Grounded on
// original_source/project/syntactic_helper.py, ported from its
// tree-sitter queries to github.com/smacker/go-tree-sitter's Go API.
package syntactic

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/magladko/jpamb-sub000/internal/bytecode"
	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/opcode"
)

// SourceLoader fetches the Java source text a class was compiled from. The
// suite package supplies the disk-backed implementation; tests supply an
// in-memory one.
type SourceLoader interface {
	LoadSource(class jvm.ClassName) ([]byte, error)
}

var javaLanguage = java.GetLanguage()

// Helper parses and queries Java source files on behalf of the debloat
// orchestrator. Parsed trees are cached per class, since a source file is
// typically queried once per method it declares.
type Helper struct {
	loader SourceLoader
	store  *bytecode.Store

	mu    sync.Mutex
	trees map[jvm.ClassName]*parsedSource
}

type parsedSource struct {
	tree   *sitter.Tree
	source []byte
}

func New(loader SourceLoader, store *bytecode.Store) *Helper {
	return &Helper{loader: loader, store: store, trees: map[jvm.ClassName]*parsedSource{}}
}

func (h *Helper) parse(class jvm.ClassName) (*parsedSource, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ps, ok := h.trees[class]; ok {
		return ps, nil
	}
	src, err := h.loader.LoadSource(class)
	if err != nil {
		return nil, fmt.Errorf("invalid input: cannot load source for %s: %w", class, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(javaLanguage)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("invalid input: cannot parse source for %s: %w", class, err)
	}
	ps := &parsedSource{tree: tree, source: src}
	h.trees[class] = ps
	return ps, nil
}

// simpleClassName strips any package prefix from a slash-delimited
// ClassName, since the AST only ever names the class by its simple
// identifier.
func simpleClassName(class jvm.ClassName) string {
	s := string(class)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[i+1:]
		}
	}
	return s
}

// FindClassNode locates the class_declaration node for methodID's class
// within the parsed tree.
func (h *Helper) FindClassNode(tree *sitter.Tree, source []byte, class jvm.ClassName) (*sitter.Node, error) {
	matches := captureNodes(classQuery, tree.RootNode(), source, "class")
	name := simpleClassName(class)
	for _, n := range matches {
		nameNode := n.ChildByFieldName("name")
		if nameNode != nil && nameNode.Content(source) == name {
			return n, nil
		}
	}
	return nil, fmt.Errorf("invalid input: class %s not found in source file", class)
}

// FindMethodNode locates the method_declaration node matching methodID's
// name and parameter count within classNode. Signature matching is
// parameter-count-only, not type-checked, mirroring
// syntactic_helper.py's _method_matches_signature (its own TODO notes
// fuller type checking was never implemented there either).
func (h *Helper) FindMethodNode(classNode *sitter.Node, source []byte, method jvm.MethodID) (*sitter.Node, error) {
	matches := captureNodes(methodQuery, classNode, source, "method")
	for _, n := range matches {
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil || nameNode.Content(source) != method.Name {
			continue
		}
		params := n.ChildByFieldName("parameters")
		if params == nil {
			continue
		}
		if countFormalParameters(params) == method.Params.Count() {
			return n, nil
		}
	}
	return nil, fmt.Errorf("invalid input: method %s not found with %d parameter(s)", method.Name, method.Params.Count())
}

func countFormalParameters(parameters *sitter.Node) int {
	count := 0
	for i := 0; i < int(parameters.NamedChildCount()); i++ {
		if parameters.NamedChild(i).Type() == "formal_parameter" {
			count++
		}
	}
	return count
}

// methodNode resolves methodID all the way down to its AST node, for the
// helpers below that all start from the same place.
func (h *Helper) methodNode(method jvm.AbsMethodID) (*sitter.Node, []byte, error) {
	ps, err := h.parse(method.Class)
	if err != nil {
		return nil, nil, err
	}
	classNode, err := h.FindClassNode(ps.tree, ps.source, method.Class)
	if err != nil {
		return nil, nil, err
	}
	methodNode, err := h.FindMethodNode(classNode, ps.source, method.Method)
	if err != nil {
		return nil, nil, err
	}
	return methodNode, ps.source, nil
}

// MethodBody resolves method all the way to its body block node, plus the
// full source bytes it was parsed from. Exported for internal/debloat,
// which needs to walk a method's statement tree directly rather than
// through one of the query-based helpers below.
func (h *Helper) MethodBody(method jvm.AbsMethodID) (*sitter.Node, []byte, error) {
	node, source, err := h.methodNode(method)
	if err != nil {
		return nil, nil, err
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil, nil, fmt.Errorf("invalid input: method %s has no body", method)
	}
	return body, source, nil
}

// Triviality is the structured result of IsTrivial, mirroring
// syntactic_helper.py's check_triviality dict.
type Triviality struct {
	IsTrivial     bool
	HasParameters bool
	HasLoops      bool
	HasRecursion  bool
	Justification string
}

// IsTrivial reports whether method needs nothing but the concrete
// interpreter to analyze exhaustively: no parameters, no loops, no
// recursion (spec.md §4.6 step 1).
func (h *Helper) IsTrivial(method jvm.AbsMethodID) (Triviality, error) {
	hasParams := method.Method.Params.Count() > 0

	hasLoops, err := h.HasLoops(method)
	if err != nil {
		return Triviality{}, err
	}
	hasRecursion, err := h.HasRecursion(method)
	if err != nil {
		return Triviality{}, err
	}

	t := Triviality{
		IsTrivial:     !hasParams && !hasLoops && !hasRecursion,
		HasParameters: hasParams,
		HasLoops:      hasLoops,
		HasRecursion:  hasRecursion,
	}
	if t.IsTrivial {
		t.Justification = "trivial: no parameters, loops, or recursion"
	} else {
		var reasons []string
		if hasParams {
			reasons = append(reasons, "has parameters")
		}
		if hasLoops {
			reasons = append(reasons, "contains loops")
		}
		if hasRecursion {
			reasons = append(reasons, "has recursive calls")
		}
		t.Justification = "non-trivial: " + joinReasons(reasons)
	}
	return t, nil
}

func joinReasons(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += ", "
		}
		out += r
	}
	return out
}

// HasLoops detects loops two ways, either of which is sufficient: a
// backward goto in the decoded bytecode, or a loop construct in the AST.
// The bytecode side is authoritative when available; the AST side catches
// source-level loops whose compiled form this engine's opcode set doesn't
// yet decode as a plain backward jump.
func (h *Helper) HasLoops(method jvm.AbsMethodID) (bool, error) {
	if h.store != nil {
		if hasBackwardGoto(h.store, method) {
			return true, nil
		}
	}
	node, source, err := h.methodNode(method)
	if err != nil {
		return false, err
	}
	return len(captureNodes(loopQuery, node, source, "loop")) > 0, nil
}

func hasBackwardGoto(store *bytecode.Store, method jvm.AbsMethodID) bool {
	ops, err := store.Method(method)
	if err != nil {
		return false
	}
	for i, op := range ops {
		if g, ok := op.(opcode.Goto); ok && g.Target < i {
			return true
		}
	}
	return false
}

// HasRecursion reports whether method's body contains a call to a method
// of the same name.
func (h *Helper) HasRecursion(method jvm.AbsMethodID) (bool, error) {
	node, source, err := h.methodNode(method)
	if err != nil {
		return false, err
	}
	for _, n := range captureNodes(callNameQuery, node, source, "method_name") {
		if n.Content(source) == method.Method.Name {
			return true, nil
		}
	}
	return false, nil
}

// InterestingValues mines the numeric literals in method's source for a
// K-set seed (spec.md §4.6 step 2): every literal, its negation, and zero,
// matching syntactic_helper.py's ExtraValues.ALL default. Results are
// deduplicated but otherwise unordered; callers that need determinism
// should sort the returned slice themselves.
func (h *Helper) InterestingValues(method jvm.AbsMethodID) ([]jvm.Value, error) {
	node, source, err := h.methodNode(method)
	if err != nil {
		return nil, err
	}
	seen := map[jvm.Value]struct{}{}
	for _, n := range captureNodes(numericLiteralQuery, node, source, "number") {
		v, ok := parseNumericLiteral(n.Content(source))
		if !ok {
			continue
		}
		add := func(val jvm.Value) { seen[val] = struct{}{} }
		add(v)
		add(negate(v))
		add(zeroOf(v))
	}
	out := make([]jvm.Value, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	return out, nil
}

func negate(v jvm.Value) jvm.Value {
	if v.Type.IsFloating() {
		return jvm.Value{Type: v.Type, F: -v.F}
	}
	return jvm.Value{Type: v.Type, I: -v.I}
}

func zeroOf(v jvm.Value) jvm.Value {
	return jvm.Value{Type: v.Type}
}
