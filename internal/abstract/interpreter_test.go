package abstract

import (
	"testing"

	"github.com/magladko/jpamb-sub000/internal/bytecode"
	"github.com/magladko/jpamb-sub000/internal/config"
	"github.com/magladko/jpamb-sub000/internal/domain"
	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/verdict"
)

type fixtureLoader struct {
	byMethod map[string][]byte
}

func (f *fixtureLoader) LoadOpcodes(method jvm.AbsMethodID) ([]byte, error) {
	raw, ok := f.byMethod[method.Encode()]
	if !ok {
		return nil, errNoFixture(method)
	}
	return raw, nil
}

type errNoFixture jvm.AbsMethodID

func (e errNoFixture) Error() string { return "no opcodes for " + jvm.AbsMethodID(e).Encode() }

var signSetOps = domain.Ops[domain.SignSet, int64]{
	Bot:      domain.SignSetBot,
	Top:      domain.SignSetTop,
	Abstract: domain.SignSetAbstract,
}

var intervalOps = domain.Ops[domain.Interval, int64]{
	Bot:      domain.IntervalBot,
	Top:      domain.IntervalTop,
	Abstract: domain.IntervalAbstract,
}

func divideMethod() jvm.AbsMethodID {
	ret := jvm.TInt()
	return jvm.AbsMethodID{
		Class:  "jpamb/cases/Simple",
		Method: jvm.MethodID{Name: "divide", Params: jvm.NewParamList(jvm.TInt(), jvm.TInt()), Returns: &ret},
	}
}

func assertPositiveMethod() jvm.AbsMethodID {
	return jvm.AbsMethodID{
		Class:  "jpamb/cases/Simple",
		Method: jvm.MethodID{Name: "assertPositive", Params: jvm.NewParamList(jvm.TInt())},
	}
}

func countdownMethod() jvm.AbsMethodID {
	return jvm.AbsMethodID{
		Class:  "jpamb/cases/Loops",
		Method: jvm.MethodID{Name: "countdown", Params: jvm.NewParamList(jvm.TInt())},
	}
}

func arrayMethod() jvm.AbsMethodID {
	ret := jvm.TInt()
	return jvm.AbsMethodID{
		Class:  "jpamb/cases/Simple",
		Method: jvm.MethodID{Name: "array", Params: jvm.NewParamList(jvm.TArray(jvm.TInt())), Returns: &ret},
	}
}

func newFixtureStore() *bytecode.Store {
	loader := &fixtureLoader{byMethod: map[string][]byte{
		divideMethod().Encode(): []byte(`[
			{"opr":"load","offset":0,"type":"int","index":0},
			{"opr":"load","offset":1,"type":"int","index":1},
			{"opr":"binary","offset":2,"type":"int","operant":"div"},
			{"opr":"return","offset":3,"type":"int"}
		]`),
		assertPositiveMethod().Encode(): []byte(`[
			{"opr":"get","offset":0,"static":true,"field":{"class":"jpamb/cases/Simple","name":"$assertionsDisabled","type":"boolean"}},
			{"opr":"ifz","offset":1,"condition":"ne","target":6},
			{"opr":"load","offset":2,"type":"int","index":0},
			{"opr":"ifz","offset":3,"condition":"ge","target":6},
			{"opr":"new","offset":4,"class":"java/lang/AssertionError"},
			{"opr":"throw","offset":5},
			{"opr":"return","offset":6}
		]`),
		countdownMethod().Encode(): []byte(`[
			{"opr":"load","offset":0,"type":"int","index":0},
			{"opr":"ifz","offset":1,"condition":"le","target":4},
			{"opr":"incr","offset":2,"index":0,"amount":-1},
			{"opr":"goto","offset":3,"target":0},
			{"opr":"return","offset":4}
		]`),
		arrayMethod().Encode(): []byte(`[
			{"opr":"load","offset":0,"type":"reference","index":0},
			{"opr":"push","offset":1,"value":{"type":"int","value":0}},
			{"opr":"arrayload","offset":2,"type":"int"},
			{"opr":"return","offset":3,"type":"int"}
		]`),
	}}
	return bytecode.New(loader)
}

func TestAnalyzeDivideSeesBothOkAndDivideByZero(t *testing.T) {
	store := newFixtureStore()
	cfg := config.Default()
	result, err := Analyze(store, divideMethod(), signSetOps, nil, cfg, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Contains(verdict.OK) {
		t.Errorf("expected ok to be reachable with unconstrained operands, got %v", result.Sorted())
	}
	if !result.Contains(verdict.DivideByZero) {
		t.Errorf("expected divide by zero to be reachable with unconstrained operands, got %v", result.Sorted())
	}
}

func TestAnalyzeAssertPositiveReachesBothBranches(t *testing.T) {
	store := newFixtureStore()
	cfg := config.Default()
	result, err := Analyze(store, assertPositiveMethod(), signSetOps, nil, cfg, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Contains(verdict.OK) {
		t.Errorf("expected ok reachable (non-negative operand), got %v", result.Sorted())
	}
	if !result.Contains(verdict.AssertionError) {
		t.Errorf("expected assertion error reachable (negative operand), got %v", result.Sorted())
	}
}

// TestAnalyzeCountdownTerminatesUnderWidening exercises the worklist
// fixpoint loop of spec.md §4.5 on a method whose back edge revisits the
// same PCs: with a per-PC revisit threshold of 1 the analysis converges and
// reaches ok through the loop exit within the iteration budget.
func TestAnalyzeCountdownTerminatesUnderWidening(t *testing.T) {
	store := newFixtureStore()
	cfg := config.Default()
	cfg.WorklistRevisitThreshold = 1
	cfg.WorklistIterationBudget = 1000
	result, err := Analyze(store, countdownMethod(), intervalOps, []int64{0}, cfg, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Contains(verdict.OK) {
		t.Errorf("expected ok reachable via the loop exit, got %v", result.Sorted())
	}
	if result.Contains(verdict.Unknown) {
		t.Errorf("expected the fixpoint to converge within the iteration budget, got %v", result.Sorted())
	}
}

func TestAnalyzeArrayNullReference(t *testing.T) {
	store := newFixtureStore()
	cfg := config.Default()
	// Analyze seeds reference-typed parameters to "maybe null, unknown
	// site" (spec.md §4.5), so an array parameter should always surface
	// both a possible null pointer and a possible out-of-bounds access
	// since neither nullity nor length is known.
	result, err := Analyze(store, arrayMethod(), signSetOps, nil, cfg, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Contains(verdict.NullPointer) {
		t.Errorf("expected null pointer reachable for a maybe-null array parameter, got %v", result.Sorted())
	}
	if !result.Contains(verdict.OutOfBounds) {
		t.Errorf("expected out of bounds reachable since element count isn't tracked, got %v", result.Sorted())
	}
}

func TestAnalyzeStepBudgetExhaustionAddsUnknown(t *testing.T) {
	store := newFixtureStore()
	cfg := config.Default()
	cfg.WorklistIterationBudget = 1
	result, err := Analyze(store, divideMethod(), signSetOps, nil, cfg, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Contains(verdict.Unknown) {
		t.Errorf("expected the exhausted budget to surface as unknown, got %v", result.Sorted())
	}
}

func TestPopNextIsDeterministic(t *testing.T) {
	ss := newStateSet[domain.SignSet]()
	entryA := &AState[domain.SignSet]{Heap: map[PC]domain.SignSet{}, Frames: []*PerVarFrame[domain.SignSet]{
		{Locals: map[int]AbsValue[domain.SignSet]{}, PC: PC{Method: divideMethod(), Offset: 3}},
	}}
	entryB := &AState[domain.SignSet]{Heap: map[PC]domain.SignSet{}, Frames: []*PerVarFrame[domain.SignSet]{
		{Locals: map[int]AbsValue[domain.SignSet]{}, PC: PC{Method: divideMethod(), Offset: 0}},
	}}
	ss.merge(entryA, 3, nil)
	ss.merge(entryB, 3, nil)

	pc, ok := popNext(ss)
	if !ok {
		t.Fatal("expected a PC to pop")
	}
	if pc.Offset != 0 {
		t.Errorf("expected the lowest offset to pop first, got %d", pc.Offset)
	}
}
