package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magladko/jpamb-sub000/internal/jvm"
)

func TestPathResolution(t *testing.T) {
	s := New("/work/jpamb")

	class := jvm.ClassName("jpamb/cases/Simple")
	if got, want := s.Classfile(class), filepath.Join("/work/jpamb", "target", "classes", "jpamb", "cases", "Simple.class"); got != want {
		t.Errorf("Classfile: got %q, want %q", got, want)
	}
	if got, want := s.Sourcefile(class), filepath.Join("/work/jpamb", "src", "main", "java", "jpamb", "cases", "Simple.java"); got != want {
		t.Errorf("Sourcefile: got %q, want %q", got, want)
	}
	if got, want := s.Decompiledfile(class), filepath.Join("/work/jpamb", "decompiled", "jpamb", "cases", "Simple.json"); got != want {
		t.Errorf("Decompiledfile: got %q, want %q", got, want)
	}
}

func TestSourcefileUsesOuterClassForNestedName(t *testing.T) {
	s := New("/work/jpamb")
	inner := jvm.ClassName("jpamb/cases/Simple$Helper")
	want := filepath.Join("/work/jpamb", "src", "main", "java", "jpamb", "cases", "Simple.java")
	if got := s.Sourcefile(inner); got != want {
		t.Errorf("Sourcefile: got %q, want %q", got, want)
	}
}

func setupWorkdir(t *testing.T) Suite {
	t.Helper()
	root := t.TempDir()
	s := New(root)

	class := jvm.ClassName("jpamb/cases/Simple")
	mustWrite(t, s.Decompiledfile(class), `{
		"divide:(II)I": [
			{"opr":"load","offset":0,"type":"int","index":0},
			{"opr":"load","offset":1,"type":"int","index":1},
			{"opr":"binary","offset":2,"type":"int","operant":"div"},
			{"opr":"return","offset":3,"type":"int"}
		]
	}`)
	mustWrite(t, s.Sourcefile(class), "package jpamb.cases;\nclass Simple {\n    static int divide(int a, int b) { return a / b; }\n}\n")
	mustWrite(t, s.CaseFile(), "jpamb/cases/Simple.divide:(II)I (6, 2) -> ok\n# a comment line\njpamb/cases/Simple.divide:(II)I (1, 0) -> divide by zero\n")
	mustWrite(t, s.Classfile(class), "")
	return s
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadOpcodesExtractsOneMethod(t *testing.T) {
	s := setupWorkdir(t)
	method := jvm.AbsMethodID{
		Class:  "jpamb/cases/Simple",
		Method: jvm.MethodID{Name: "divide", Params: jvm.NewParamList(jvm.TInt(), jvm.TInt()), Returns: func() *jvm.Type { tp := jvm.TInt(); return &tp }()},
	}
	raw, err := s.LoadOpcodes(method)
	if err != nil {
		t.Fatalf("LoadOpcodes: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected non-empty opcode JSON")
	}
}

func TestLoadOpcodesMissingMethod(t *testing.T) {
	s := setupWorkdir(t)
	missing := jvm.AbsMethodID{
		Class:  "jpamb/cases/Simple",
		Method: jvm.MethodID{Name: "doesNotExist"},
	}
	if _, err := s.LoadOpcodes(missing); err == nil {
		t.Fatalf("expected error for missing method")
	}
}

func TestLoadSource(t *testing.T) {
	s := setupWorkdir(t)
	src, err := s.LoadSource("jpamb/cases/Simple")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if len(src) == 0 {
		t.Fatalf("expected non-empty source")
	}
}

func TestWriteSourceMirrorsLayout(t *testing.T) {
	s := setupWorkdir(t)
	if err := s.WriteSource("jpamb/cases/Simple", []byte("rewritten")); err != nil {
		t.Fatalf("WriteSource: %v", err)
	}
	got, err := os.ReadFile(s.Debloatedfile("jpamb/cases/Simple"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "rewritten" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestClassfilesListsAndSorts(t *testing.T) {
	s := setupWorkdir(t)
	mustWrite(t, s.Classfile("jpamb/cases/Loops"), "")
	mustWrite(t, s.Classfile("jpamb/cases/Simple2"), "")

	classes, err := s.Classfiles()
	if err != nil {
		t.Fatalf("Classfiles: %v", err)
	}
	if len(classes) != 3 {
		t.Fatalf("expected 3 classes, got %d: %v", len(classes), classes)
	}
	if classes[0] != "jpamb/cases/Loops" {
		t.Fatalf("expected natural sort to place Loops first, got %v", classes)
	}
}

func TestCasesSkipsCommentsAndBlankLines(t *testing.T) {
	s := setupWorkdir(t)
	cases, err := s.Cases()
	if err != nil {
		t.Fatalf("Cases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
}
