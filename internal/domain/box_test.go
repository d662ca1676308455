package domain

import "testing"

func TestBoxAbstractSoundness(t *testing.T) {
	b, err := BoxAbstract([][]float64{{1, 2}, {3, 4}, {0, 5}})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range [][]float64{{1, 2}, {3, 4}, {0, 5}} {
		if !b.Contains(p) {
			t.Fatalf("box %v does not contain %v", b, p)
		}
	}
}

func TestBoxAbstractRejectsDimensionMismatch(t *testing.T) {
	_, err := BoxAbstract([][]float64{{1, 2}, {3}})
	if err == nil {
		t.Fatal("expected error for mismatched point dimensions")
	}
}

func TestBoxJoinAbsorption(t *testing.T) {
	a, _ := BoxAbstract([][]float64{{1}, {2}})
	if !a.Join(BoxBot(1)).Equal(a) {
		t.Fatal("join with bottom must be identity")
	}
	if !a.Join(BoxTop(1)).Equal(BoxTop(1)) {
		t.Fatal("join with top must be top")
	}
}

func TestBoxMulCollapsesToTop(t *testing.T) {
	a, _ := BoxAbstract([][]float64{{1}, {2}})
	b, _ := BoxAbstract([][]float64{{3}, {4}})
	if !a.Mul(b).Top {
		t.Fatal("Mul must collapse to top, not alias to Sub")
	}
}

func TestBoxMeetSameDimension(t *testing.T) {
	a, _ := BoxAbstract([][]float64{{0}, {10}})
	b, _ := BoxAbstract([][]float64{{5}, {15}})
	m := a.Meet(b)
	if m.Bottom || m.Bounds[0].Lo != 5 || m.Bounds[0].Hi != 10 {
		t.Fatalf("Meet = %v, want [5,10]", m)
	}
}

func TestBoxMeetDimensionMismatchExactSmallerMatch(t *testing.T) {
	bigBox := Box{Dimension: 2, Bounds: []BoxBound{{Lo: 0, Hi: 10}, {Lo: -5, Hi: 5}}}
	small, _ := BoxAbstract([][]float64{{0}, {10}})
	m := bigBox.Meet(small)
	if m.Top || m.Dimension != 1 {
		t.Fatalf("Meet with exact smaller-box match should return the smaller box, got %v", m)
	}
}

func TestBoxMeetDimensionMismatchLosesPrecision(t *testing.T) {
	bigBox := Box{Dimension: 2, Bounds: []BoxBound{{Lo: 0, Hi: 3}, {Lo: -5, Hi: 5}}}
	small, _ := BoxAbstract([][]float64{{0}, {10}})
	m := bigBox.Meet(small)
	if !m.Top || m.Dimension != 2 {
		t.Fatalf("Meet with non-matching projection should collapse to top at max dimension, got %v", m)
	}
}

func TestBoxMonotoneAdd(t *testing.T) {
	small, _ := BoxAbstract([][]float64{{2}})
	big, _ := BoxAbstract([][]float64{{1}, {3}})
	if !small.LessEq(big) {
		t.Fatal("small must be <= big")
	}
	if !small.Add(small).LessEq(big.Add(big)) {
		t.Fatal("Add must be monotone")
	}
}
