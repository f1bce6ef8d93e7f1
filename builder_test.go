package smtkit

import (
	"testing"
)

func TestSymbolIdentity(t *testing.T) {
	eb := NewFormulaBuilder()
	a, _ := eb.Symbol("a", IntType())
	b, _ := eb.Symbol("a", IntType())
	if a != b {
		t.Errorf("same name should give the same node")
	}
}

func TestSymbolTypeClash(t *testing.T) {
	eb := NewFormulaBuilder()
	eb.Symbol("a", IntType())
	_, err := eb.Symbol("a", RealType())
	if err == nil {
		t.Errorf("redeclaring a symbol at another type should fail")
	}
}

func TestGetSymbolUndefined(t *testing.T) {
	eb := NewFormulaBuilder()
	_, err := eb.GetSymbol("ghost")
	if _, ok := err.(*UndefinedSymbolError); !ok {
		t.Errorf("expected UndefinedSymbolError, got %v", err)
	}
}

func TestFreshSymbolsDistinct(t *testing.T) {
	eb := NewFormulaBuilder()
	a := eb.FreshSymbol(BoolType(), "_assertion_%d")
	b := eb.FreshSymbol(BoolType(), "_assertion_%d")
	if a == b || a.SymbolName() == b.SymbolName() {
		t.Errorf("fresh symbols should not collide")
	}
}

func TestHashConsing(t *testing.T) {
	eb := NewFormulaBuilder()
	x, _ := eb.Symbol("x", IntType())
	l1, _ := eb.LT(x, eb.Int(10))
	l2, _ := eb.LT(x, eb.Int(10))
	if l1 != l2 {
		t.Errorf("structurally equal nodes should be shared")
	}
	if l1.Id() != l2.Id() {
		t.Errorf("shared nodes should share an id")
	}
}

func TestGreaterThanNormalizes(t *testing.T) {
	eb := NewFormulaBuilder()
	x, _ := eb.Symbol("x", IntType())
	y, _ := eb.Symbol("y", IntType())
	gt, _ := eb.GT(x, y)
	lt, _ := eb.LT(y, x)
	if gt != lt {
		t.Errorf("GT should normalize to the swapped LT")
	}
	ge, _ := eb.GE(x, y)
	le, _ := eb.LE(y, x)
	if ge != le {
		t.Errorf("GE should normalize to the swapped LE")
	}
}

func TestBVGreaterThanNormalizes(t *testing.T) {
	eb := NewFormulaBuilder()
	x, _ := eb.Symbol("x", BVType(32))
	y, _ := eb.Symbol("y", BVType(32))
	ugt, _ := eb.BVUGT(x, y)
	ult, _ := eb.BVULT(y, x)
	if ugt != ult {
		t.Errorf("BVUGT should normalize to the swapped BVULT")
	}
	sge, _ := eb.BVSGE(x, y)
	sle, _ := eb.BVSLE(y, x)
	if sge != sle {
		t.Errorf("BVSGE should normalize to the swapped BVSLE")
	}
}

func TestEqualsRejectsBool(t *testing.T) {
	eb := NewFormulaBuilder()
	p, _ := eb.Symbol("p", BoolType())
	q, _ := eb.Symbol("q", BoolType())
	if _, err := eb.Equals(p, q); err == nil {
		t.Errorf("boolean equality should be spelled Iff")
	}
	if _, err := eb.Iff(p, q); err != nil {
		t.Errorf("Iff on booleans should work: %v", err)
	}
}

func TestBVWidthMismatch(t *testing.T) {
	eb := NewFormulaBuilder()
	a, _ := eb.Symbol("a", BVType(32))
	b, _ := eb.Symbol("b", BVType(16))
	if _, err := eb.BVAdd(a, b); err == nil {
		t.Errorf("mixed widths should be rejected")
	}
}

func TestBVConstMasked(t *testing.T) {
	eb := NewFormulaBuilder()
	bv := eb.BV(-1, 8)
	if bv.BVValue().Uint64() != 255 {
		t.Errorf("negative constants should wrap to the width")
	}
}

func TestBVExtractBounds(t *testing.T) {
	eb := NewFormulaBuilder()
	a, _ := eb.Symbol("a", BVType(8))
	if _, err := eb.BVExtract(a, 9, 0); err == nil {
		t.Errorf("extract past the width should be rejected")
	}
	ex, err := eb.BVExtract(a, 3, 0)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	ty, _ := eb.TypeOf(ex)
	if ty.BVWidth() != 4 {
		t.Errorf("extract [3:0] should have width 4, got %d", ty.BVWidth())
	}
}

func TestConcatWidth(t *testing.T) {
	eb := NewFormulaBuilder()
	a, _ := eb.Symbol("a", BVType(8))
	b, _ := eb.Symbol("b", BVType(24))
	c, _ := eb.BVConcat(a, b)
	ty, _ := eb.TypeOf(c)
	if ty.BVWidth() != 32 {
		t.Errorf("concat width should be 32, got %d", ty.BVWidth())
	}
}

func TestIteBranchTypes(t *testing.T) {
	eb := NewFormulaBuilder()
	p, _ := eb.Symbol("p", BoolType())
	x, _ := eb.Symbol("x", IntType())
	r, _ := eb.Symbol("r", RealType())
	if _, err := eb.Ite(p, x, r); err == nil {
		t.Errorf("branches of different types should be rejected")
	}
}

func TestFunctionArity(t *testing.T) {
	eb := NewFormulaBuilder()
	f, _ := eb.Symbol("f", FunctionType(IntType(), IntType(), IntType()))
	x, _ := eb.Symbol("x", IntType())
	if _, err := eb.Function(f, x); err == nil {
		t.Errorf("wrong arity should be rejected")
	}
	app, err := eb.Function(f, x, eb.Int(1))
	if err != nil {
		t.Fatalf("application failed: %v", err)
	}
	ty, _ := eb.TypeOf(app)
	if !ty.IsInt() {
		t.Errorf("application should have the return type")
	}
}

func TestStoreTypeCheck(t *testing.T) {
	eb := NewFormulaBuilder()
	arr, _ := eb.Symbol("m", ArrayType(IntType(), IntType()))
	r, _ := eb.Symbol("r", RealType())
	x, _ := eb.Symbol("x", IntType())
	if _, err := eb.Store(arr, x, r); err == nil {
		t.Errorf("storing a value of the wrong type should be rejected")
	}
	if _, err := eb.Select(arr, r); err == nil {
		t.Errorf("selecting at the wrong index type should be rejected")
	}
}

func TestIsLiteral(t *testing.T) {
	eb := NewFormulaBuilder()
	p, _ := eb.Symbol("p", BoolType())
	np, _ := eb.Not(p)
	x, _ := eb.Symbol("x", IntType())
	lt, _ := eb.LT(x, eb.Int(1))
	if !p.IsLiteral() || !np.IsLiteral() {
		t.Errorf("boolean symbols and their negations are literals")
	}
	if lt.IsLiteral() {
		t.Errorf("a relation is not a literal")
	}
}

func TestLogicOf(t *testing.T) {
	eb := NewFormulaBuilder()
	x, _ := eb.Symbol("x", IntType())
	lin, _ := eb.LT(eb.Int(2), x)
	logic, err := eb.LogicOf(lin)
	if err != nil {
		t.Fatalf("LogicOf failed: %v", err)
	}
	if !logic.IsLinearInt() {
		t.Errorf("2 < x should be linear integer arithmetic")
	}

	sq, _ := eb.Times(x, x)
	nl, _ := eb.LT(sq, eb.Int(4))
	logic, _ = eb.LogicOf(nl)
	if !logic.NonLinear {
		t.Errorf("x*x should be flagged non-linear")
	}

	p, _ := eb.Symbol("p", BoolType())
	logic, _ = eb.LogicOf(p)
	if !logic.IsLinearInt() || !logic.IsLinearReal() {
		t.Errorf("a propositional formula sits inside both linear fragments")
	}
}
