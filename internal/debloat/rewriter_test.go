package debloat

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/stretchr/testify/require"

	"github.com/magladko/jpamb-sub000/internal/jvm"
)

func parseMethodBody(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)

	root := tree.RootNode()
	var body *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if body != nil {
			return
		}
		if n.Type() == "method_declaration" {
			body = n.ChildByFieldName("body")
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	require.NotNil(t, body, "no method body found in fixture source")
	return body, []byte(src)
}

const ifElseSource = `class C {
    static int m(int n) {
        if (n > 0) {
            return 1;
        } else {
            return -1;
        }
    }
}
`

func TestExtractStatementsDescendsIntoIfElse(t *testing.T) {
	body, _ := parseMethodBody(t, ifElseSource)
	stmts := extractStatements(body)

	// the if_statement itself, plus its two nested return statements.
	require.Len(t, stmts, 3)
}

func TestDeadLinesForPrunesUntakenBranch(t *testing.T) {
	body, _ := parseMethodBody(t, ifElseSource)
	stmts := extractStatements(body)

	// only the "then" return (line 4) executed.
	executed := map[int]struct{}{3: {}, 4: {}}
	dead, allDead := deadLinesFor(stmts, executed)

	require.False(t, allDead)
	require.Contains(t, dead, 6)
	require.NotContains(t, dead, 4)
}

func TestDeadLinesForReportsAllDeadWhenNothingExecuted(t *testing.T) {
	body, _ := parseMethodBody(t, ifElseSource)
	stmts := extractStatements(body)

	_, allDead := deadLinesFor(stmts, map[int]struct{}{})
	require.True(t, allDead)
}

func TestMinimalReturnTextPerType(t *testing.T) {
	voidRet := minimalReturnText(nil)
	require.Equal(t, "return;", voidRet)

	intT := jvm.TInt()
	require.Equal(t, "return 0;", minimalReturnText(&intT))

	boolT := jvm.TBoolean()
	require.Equal(t, "return false;", minimalReturnText(&boolT))

	refT := jvm.Type{Kind: jvm.Reference, Class: "java/lang/String"}
	require.Equal(t, "return null;", minimalReturnText(&refT))
}

func TestApplyLineEditsDropsAndInserts(t *testing.T) {
	src := []byte("a\nb\nc\nd\n")
	dead := map[int]struct{}{2: {}, 3: {}}
	insertAfter := map[int]string{1: "INSERTED"}

	out := applyLineEdits(src, dead, insertAfter)
	require.Equal(t, "a\nINSERTED\nd\n", string(out))
}
