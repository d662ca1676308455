package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebloatRewritesSourceTree(t *testing.T) {
	root := setupSimpleSuite(t)
	mustWriteFile(t, filepath.Join(root, "stats", "cases.txt"),
		"jpamb/cases/Simple.divide:(II)I (6, 2) -> ok\n"+
			"jpamb/cases/Simple.divide:(II)I (6, 0) -> divide by zero\n")

	out, err := captureStdout(t, func() error {
		return runDebloat(debloatCmd, nil)
	})
	if err != nil {
		t.Fatalf("debloat: %v", err)
	}
	if !strings.Contains(out, "analyzed 2 case(s)") {
		t.Fatalf("unexpected summary line: %q", out)
	}

	written, err := os.ReadFile(filepath.Join(root, "debloated", "jpamb", "cases", "Simple.java"))
	if err != nil {
		t.Fatalf("expected debloated source to be written: %v", err)
	}
	if len(written) == 0 {
		t.Fatalf("expected non-empty debloated source")
	}
}

func TestDebloatAcceptsPositionalSourceRoot(t *testing.T) {
	root := setupSimpleSuite(t)
	mustWriteFile(t, filepath.Join(root, "stats", "cases.txt"),
		"jpamb/cases/Simple.divide:(II)I (6, 2) -> ok\n")

	// Point the --workdir default somewhere empty, then pass the real root
	// positionally to confirm the argument actually takes effect.
	oldWorkdir := workdir
	workdir = t.TempDir()
	t.Cleanup(func() { workdir = oldWorkdir })

	out, err := captureStdout(t, func() error {
		return runDebloat(debloatCmd, []string{root})
	})
	if err != nil {
		t.Fatalf("debloat: %v", err)
	}
	if !strings.Contains(out, "analyzed 1 case(s)") {
		t.Fatalf("unexpected summary line: %q", out)
	}
	if workdir != root {
		t.Fatalf("expected workdir to be updated to positional arg, got %q", workdir)
	}
}

func TestDebloatReportsFailedCasesWithoutAborting(t *testing.T) {
	root := setupSimpleSuite(t)
	mustWriteFile(t, filepath.Join(root, "stats", "cases.txt"),
		"jpamb/cases/Simple.divide:(II)I (6, 2) -> ok\n"+
			"jpamb/cases/Simple.missing:(I)I (1) -> ok\n")

	out, err := captureStdout(t, func() error {
		return runDebloat(debloatCmd, nil)
	})
	if err != nil {
		t.Fatalf("debloat: %v", err)
	}
	if !strings.Contains(out, "analyzed 2 case(s), 1 failed") {
		t.Fatalf("unexpected summary line: %q", out)
	}
}
