package domain

import (
	"math"
	"testing"
)

func TestDoubleIntervalAbstractSoundness(t *testing.T) {
	iv := DoubleAbstract([]float64{3.5, 1.0, 7.25})
	for _, v := range []float64{1.0, 3.5, 7.25} {
		if !iv.Contains(v) {
			t.Fatalf("interval %v does not contain %v", iv, v)
		}
	}
	if iv.Lo != 1.0 || iv.Hi != 7.25 {
		t.Fatalf("abstract = %v, want [1,7.25]", iv)
	}
}

func TestDoubleIntervalJoinAbsorption(t *testing.T) {
	a := DoubleAbstract([]float64{1, 2})
	if !a.Join(DoubleBot()).Equal(a) {
		t.Fatal("join with bottom must be identity")
	}
	if !a.Join(DoubleTop()).Equal(DoubleTop()) {
		t.Fatal("join with top must be top")
	}
}

func TestDoubleIntervalDivStraddlingZeroYieldsTop(t *testing.T) {
	dividend := DoubleSingleton(10)
	divisor := DoubleInterval{Lo: -2, Hi: 2}
	out := dividend.Div(divisor)
	if !out.DivByZero || !out.HasValue {
		t.Fatalf("Div straddling zero = %+v", out)
	}
	if out.Value.Lo != math.Inf(-1) || out.Value.Hi != math.Inf(1) {
		t.Fatalf("Div value = %v, want top", out.Value)
	}
}

func TestDoubleIntervalDivByDefiniteNonZero(t *testing.T) {
	dividend := DoubleSingleton(10)
	divisor := DoubleSingleton(2)
	out := dividend.Div(divisor)
	if out.DivByZero || !out.HasValue {
		t.Fatalf("Div = %+v", out)
	}
	if out.Value.Lo != 5 || out.Value.Hi != 5 {
		t.Fatalf("Div value = %v, want [5,5]", out.Value)
	}
}

func TestDoubleIntervalRemAlwaysTop(t *testing.T) {
	dividend := DoubleAbstract([]float64{1, 2})
	divisor := DoubleSingleton(3)
	out := dividend.Rem(divisor)
	if !out.HasValue || !out.Value.Equal(DoubleTop()) {
		t.Fatalf("Rem = %+v, want top", out)
	}
}

func TestDoubleIntervalWidenJumpsStraightToInfinity(t *testing.T) {
	x := DoubleInterval{Lo: 0, Hi: 1}
	y := DoubleInterval{Lo: 0, Hi: 2}
	widened := x.Widen(y, nil)
	if widened.Hi != math.Inf(1) {
		t.Fatalf("Widen = %v, want +inf with no K-threshold", widened)
	}
	if widened.Lo != 0 {
		t.Fatalf("Widen lower bound should be unchanged, got %v", widened.Lo)
	}
}

func TestDoubleIntervalMonotoneArithmetic(t *testing.T) {
	small := DoubleSingleton(2)
	big := DoubleInterval{Lo: 1, Hi: 3}
	if !small.LessEq(big) {
		t.Fatal("small must be <= big")
	}
	if !small.Add(small).LessEq(big.Add(big)) {
		t.Fatal("Add must be monotone")
	}
	if !small.Mul(small).LessEq(big.Mul(big)) {
		t.Fatal("Mul must be monotone")
	}
}

func TestDoubleIntervalCompareRefinesOverlap(t *testing.T) {
	a := DoubleInterval{Lo: 0, Hi: 10}
	b := DoubleInterval{Lo: 5, Hi: 20}
	refs := a.Compare(CmpLT, b)
	if _, ok := refs[true]; !ok {
		t.Fatal("expected true outcome for overlapping ranges")
	}
	if _, ok := refs[false]; !ok {
		t.Fatal("expected false outcome to remain possible")
	}
}
