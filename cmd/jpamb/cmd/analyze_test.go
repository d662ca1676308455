package cmd

import (
	"strings"
	"testing"
)

func TestAnalyzeDivideSignSet(t *testing.T) {
	setupSimpleSuite(t)
	old := analyzeDomain
	t.Cleanup(func() { analyzeDomain = old })
	analyzeDomain = ""

	out, err := captureStdout(t, func() error {
		return runAnalyze(analyzeCmd, []string{"jpamb/cases/Simple.divide:(II)I"})
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatalf("expected at least one prediction line, got %q", out)
	}
	sawDivideByZero := false
	for _, l := range lines {
		if strings.HasPrefix(l, "divide by zero;") {
			sawDivideByZero = true
		}
	}
	if !sawDivideByZero {
		t.Fatalf("expected divide by zero to be a reachable verdict, got %q", out)
	}
}

func TestAnalyzeIntervalDomain(t *testing.T) {
	setupSimpleSuite(t)
	old := analyzeDomain
	t.Cleanup(func() { analyzeDomain = old })
	analyzeDomain = "interval"

	out, err := captureStdout(t, func() error {
		return runAnalyze(analyzeCmd, []string{"jpamb/cases/Simple.divide:(II)I"})
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected output, got empty string")
	}
}

func TestAnalyzeRejectsUnknownMethod(t *testing.T) {
	setupSimpleSuite(t)
	if err := runAnalyze(analyzeCmd, []string{"jpamb/cases/Simple.missing:(II)I"}); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
