package domain

import "testing"

func TestStringSetAbstractSoundness(t *testing.T) {
	s := StringSetAbstract([]string{"a", "b"})
	if !s.Contains("a") || !s.Contains("b") || s.Contains("c") {
		t.Fatalf("StringSet %v unsound", s)
	}
}

func TestStringSetCollapsesAboveMaxTracked(t *testing.T) {
	s := StringSetAbstract([]string{"a", "b", "c", "d", "e", "f"})
	if !s.Top {
		t.Fatal("expected collapse to top above MAX_TRACKED")
	}
}

func TestStringSetConcatenation(t *testing.T) {
	a := StringSetAbstract([]string{"x", "y"})
	b := StringSetAbstract([]string{"1"})
	c := a.Add(b)
	if !c.Contains("x1") || !c.Contains("y1") {
		t.Fatalf("concatenation = %v, want {x1,y1}", c)
	}
}

func TestStringSetArithmeticCollapsesToTop(t *testing.T) {
	a := StringSetAbstract([]string{"x"})
	b := StringSetAbstract([]string{"y"})
	if !a.Sub(b).Top {
		t.Fatal("Sub must collapse to top")
	}
	if !a.Mul(b).Top {
		t.Fatal("Mul must collapse to top")
	}
	if out := a.Div(b); !out.HasValue || !out.Value.Top {
		t.Fatal("Div must collapse to top")
	}
}

func TestStringSetJoinAbsorption(t *testing.T) {
	a := StringSetAbstract([]string{"a"})
	if !a.Join(StringSetBot()).Equal(a) {
		t.Fatal("join with bottom must be identity")
	}
	if !a.Join(StringSetTop()).Equal(StringSetTop()) {
		t.Fatal("join with top must be top")
	}
}

func TestStringSetCompareRefines(t *testing.T) {
	a := StringSetAbstract([]string{"apple", "zebra"})
	b := StringSetAbstract([]string{"mango"})
	refs := a.Compare(CmpLT, b)
	tr, ok := refs[true]
	if !ok || !tr.Left.Contains("apple") || tr.Left.Contains("zebra") {
		t.Fatalf("expected true refinement to keep only apple, got %+v", tr)
	}
}

func TestStringSetFromInt(t *testing.T) {
	s := StringSetFromInt(42)
	if !s.Contains("42") {
		t.Fatalf("StringSetFromInt(42) = %v, want {42}", s)
	}
}
