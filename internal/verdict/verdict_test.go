package verdict

import "testing"

func TestSetSortedOrder(t *testing.T) {
	s := NewSet(NullPointer, OK, DivideByZero)
	got := s.Sorted()
	want := []Verdict{OK, DivideByZero, NullPointer}
	if len(got) != len(want) {
		t.Fatalf("Sorted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEvenWagerEmptySetDefaultsOK(t *testing.T) {
	preds := EvenWager(NewSet())
	if len(preds) != 1 || preds[0].Verdict != OK || preds[0].Percent != 100 {
		t.Fatalf("EvenWager(empty) = %+v", preds)
	}
}

func TestEvenWagerSumsTo100(t *testing.T) {
	preds := EvenWager(NewSet(OK, DivideByZero, Unknown))
	total := 0
	for _, p := range preds {
		total += p.Percent
	}
	if total != 100 {
		t.Fatalf("total percent = %d, want 100", total)
	}
}

func TestPredictionString(t *testing.T) {
	p := Prediction{Verdict: OK, Percent: 42}
	if got := p.String(); got != "ok;percent42" {
		t.Fatalf("String() = %q", got)
	}
}
