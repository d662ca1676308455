package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// withWorkdir points the package-level workdir/configPath flags at a fresh
// temp directory for the duration of the test, restoring their prior
// values afterward — the same save/restore-globals pattern
// go-dws/cmd/dwscript/cmd/run_unit_test.go uses around its own
// package-level flag variables.
func withWorkdir(t *testing.T) string {
	t.Helper()
	oldWorkdir, oldConfig := workdir, configPath
	t.Cleanup(func() { workdir, configPath = oldWorkdir, oldConfig })

	root := t.TempDir()
	workdir = root
	configPath = filepath.Join(root, "does-not-exist.yml")
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return root
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// whatever it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return buf.String(), fnErr
}
