package cmd

import (
	"strings"
	"testing"
)

func TestInfoLineFormat(t *testing.T) {
	withWorkdir(t)

	out, err := captureStdout(t, func() error {
		return infoCmd.RunE(infoCmd, nil)
	})
	if err != nil {
		t.Fatalf("info: %v", err)
	}

	parts := strings.Split(strings.TrimSpace(out), ";")
	if len(parts) != 4 {
		t.Fatalf("expected 4 semicolon-delimited fields, got %q", out)
	}
	if parts[0] != analysisName {
		t.Errorf("name: got %q, want %q", parts[0], analysisName)
	}
	if parts[2] != analysisGroup {
		t.Errorf("group: got %q, want %q", parts[2], analysisGroup)
	}
	for _, tag := range strings.Split(parts[3], ",") {
		found := false
		for _, want := range analysisTags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("unexpected tag %q not in %v", tag, analysisTags)
		}
	}
}
