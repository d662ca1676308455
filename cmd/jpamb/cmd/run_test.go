package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func setupSimpleSuite(t *testing.T) string {
	t.Helper()
	root := withWorkdir(t)

	mustWriteFile(t, filepath.Join(root, "decompiled", "jpamb", "cases", "Simple.json"), `{
		"divide:(II)I": [
			{"opr":"load","offset":0,"type":"int","index":0},
			{"opr":"load","offset":1,"type":"int","index":1},
			{"opr":"binary","offset":2,"type":"int","operant":"div"},
			{"opr":"return","offset":3,"type":"int"}
		],
		"array:([I)I": [
			{"opr":"load","offset":0,"type":"reference","index":0},
			{"opr":"push","offset":1,"value":{"type":"int","value":0}},
			{"opr":"arrayload","offset":2,"type":"int"},
			{"opr":"return","offset":3,"type":"int"}
		]
	}`)
	mustWriteFile(t, filepath.Join(root, "src", "main", "java", "jpamb", "cases", "Simple.java"),
		"package jpamb.cases;\nclass Simple {\n    static int divide(int a, int b) { return a / b; }\n    static int array(int[] xs) { return xs[0]; }\n}\n")
	return root
}

func TestRunDivideOk(t *testing.T) {
	setupSimpleSuite(t)

	out, err := captureStdout(t, func() error {
		return runRun(runCmd, []string{"jpamb/cases/Simple.divide:(II)I", "(6, 2)"})
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out); got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
}

func TestRunDivideByZero(t *testing.T) {
	setupSimpleSuite(t)

	out, err := captureStdout(t, func() error {
		return runRun(runCmd, []string{"jpamb/cases/Simple.divide:(II)I", "(1, 0)"})
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out); got != "divide by zero" {
		t.Fatalf("got %q, want divide by zero", got)
	}
}

func TestRunArrayLiteralBindsThroughHeap(t *testing.T) {
	setupSimpleSuite(t)

	out, err := captureStdout(t, func() error {
		return runRun(runCmd, []string{"jpamb/cases/Simple.array:([I)I", "([I:10,20])"})
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out); got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
}

func TestRunRejectsMalformedMethodID(t *testing.T) {
	setupSimpleSuite(t)
	if err := runRun(runCmd, []string{"not a method id", "()"}); err == nil {
		t.Fatalf("expected error for malformed method id")
	}
}
