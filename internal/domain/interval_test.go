package domain

import "testing"

func TestIntervalAbstractSoundness(t *testing.T) {
	iv := IntervalAbstract([]int64{3, 1, 7})
	for _, v := range []int64{1, 3, 7} {
		if !iv.Contains(v) {
			t.Fatalf("interval %v does not contain %d", iv, v)
		}
	}
	if iv.Lo != 1 || iv.Hi != 7 {
		t.Fatalf("abstract = %v, want [1,7]", iv)
	}
}

func TestIntervalJoinAbsorption(t *testing.T) {
	a := IntervalAbstract([]int64{1, 2})
	if !a.Join(IntervalBot()).Equal(a) {
		t.Fatal("join with bottom must be identity")
	}
	if !a.Join(IntervalTop()).Equal(IntervalTop()) {
		t.Fatal("join with top must be top")
	}
}

func TestIntervalDivStraddlingZero(t *testing.T) {
	dividend := IntervalSingleton(10)
	divisor := Interval{Lo: -2, Hi: 2}
	out := dividend.Div(divisor)
	if !out.DivByZero || !out.HasValue {
		t.Fatalf("Div straddling zero = %+v", out)
	}
	// divisor splits into [-2,-1] and [1,2]; 10/-2..10/-1 = -10..-5, 10/1..10/2 = 5..10
	if out.Value.Lo != -10 || out.Value.Hi != 10 {
		t.Fatalf("Div value = %v, want [-10,10]", out.Value)
	}
}

func TestIntervalDivDefiniteZero(t *testing.T) {
	dividend := IntervalSingleton(10)
	divisor := IntervalSingleton(0)
	out := dividend.Div(divisor)
	if !out.DivByZero || out.HasValue {
		t.Fatalf("Div by definite zero = %+v", out)
	}
}

func TestIntervalRemMagnitudeBound(t *testing.T) {
	dividend := Interval{Lo: 0, Hi: 100}
	divisor := IntervalSingleton(3)
	out := dividend.Rem(divisor)
	if out.DivByZero || !out.HasValue {
		t.Fatalf("Rem = %+v", out)
	}
	if out.Value.Lo != 0 || out.Value.Hi != 2 {
		t.Fatalf("Rem range = %v, want [0,2]", out.Value)
	}
}

func TestIntervalCompareLessThanRefinement(t *testing.T) {
	a := Interval{Lo: 0, Hi: 10}
	b := Interval{Lo: 5, Hi: 20}
	refs := a.Compare(CmpLT, b)
	tr, ok := refs[true]
	if !ok {
		t.Fatal("expected true outcome for overlapping ranges")
	}
	if tr.Left.Hi > 19 {
		t.Fatalf("true refinement of left must tighten upper bound, got %v", tr.Left)
	}
	fr, ok := refs[false]
	if !ok {
		t.Fatal("expected false outcome to remain possible")
	}
	if fr.Left.Lo < 5 {
		t.Fatalf("false refinement of left must tighten lower bound, got %v", fr.Left)
	}
}

func TestIntervalCompareDefiniteLessThan(t *testing.T) {
	a := Interval{Lo: 0, Hi: 2}
	b := Interval{Lo: 5, Hi: 10}
	refs := a.Compare(CmpLT, b)
	if _, ok := refs[false]; ok {
		t.Fatalf("definite less-than must not have a false outcome, got %+v", refs)
	}
}

func TestIntervalWidenJumpsToThreshold(t *testing.T) {
	x := Interval{Lo: 0, Hi: 1}
	y := Interval{Lo: 0, Hi: 2}
	widened := x.Widen(y, []int64{0, 3, 10})
	if widened.Hi != 3 {
		t.Fatalf("Widen = %v, want hi jumping to threshold 3", widened)
	}
}

func TestIntervalWidenDefaultsToInfinity(t *testing.T) {
	x := Interval{Lo: 0, Hi: 1}
	y := Interval{Lo: 0, Hi: 2}
	widened := x.Widen(y, nil)
	if widened.Hi != PosInf {
		t.Fatalf("Widen with no thresholds = %v, want +inf", widened)
	}
}

func TestIntervalWidenStabilizes(t *testing.T) {
	cur := IntervalSingleton(0)
	thresholds := []int64{0, 10}
	for i := 0; i < 50; i++ {
		next := cur.Add(IntervalSingleton(1))
		widened := cur.Widen(cur.Join(next), thresholds)
		if widened.Equal(cur) {
			return
		}
		cur = widened
	}
	t.Fatal("widening did not stabilize within 50 iterations")
}

func TestIntervalMonotoneArithmetic(t *testing.T) {
	small := IntervalSingleton(2)
	big := Interval{Lo: 1, Hi: 3}
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
