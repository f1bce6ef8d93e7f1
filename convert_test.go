package smtkit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smtkit/smtkit/z3"
)

func newTestConverter(t *testing.T, eb *FormulaBuilder) (*Converter, func()) {
	cfg := z3.NewConfig()
	ctx := z3.NewContext(cfg)
	c := NewConverter(eb, ctx)
	return c, func() {
		c.Close()
		ctx.Close()
		cfg.Close()
	}
}

func TestRoundTrip(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	p, err := eb.Symbol("p", BoolType())
	require.NoError(t, err)
	lt, err := eb.LT(x, eb.Int(10))
	require.NoError(t, err)
	np, err := eb.Not(p)
	require.NoError(t, err)
	f, err := eb.And(lt, np)
	require.NoError(t, err)

	term, err := c.Convert(f)
	require.NoError(t, err)
	back, err := c.Back(term, nil)
	require.NoError(t, err)

	// Hash consing makes round-trip equivalence a pointer check.
	require.Same(t, f, back)
}

func TestRoundTripBV(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	a, err := eb.Symbol("a", BVType(32))
	require.NoError(t, err)
	b, err := eb.Symbol("b", BVType(32))
	require.NoError(t, err)
	sum, err := eb.BVAdd(a, b)
	require.NoError(t, err)
	f, err := eb.BVULT(sum, eb.BV(1024, 32))
	require.NoError(t, err)

	term, err := c.Convert(f)
	require.NoError(t, err)
	back, err := c.Back(term, nil)
	require.NoError(t, err)
	require.Same(t, f, back)

	signed, err := eb.BVSLE(a, b)
	require.NoError(t, err)
	term, err = c.Convert(signed)
	require.NoError(t, err)
	back, err = c.Back(term, nil)
	require.NoError(t, err)
	require.Same(t, signed, back)
}

func TestRoundTripSelectStore(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	arr, err := eb.Symbol("m", ArrayType(IntType(), IntType()))
	require.NoError(t, err)
	i, err := eb.Symbol("i", IntType())
	require.NoError(t, err)
	st, err := eb.Store(arr, i, eb.Int(5))
	require.NoError(t, err)
	sel, err := eb.Select(st, i)
	require.NoError(t, err)
	f, err := eb.Equals(sel, eb.Int(5))
	require.NoError(t, err)

	term, err := c.Convert(f)
	require.NoError(t, err)
	back, err := c.Back(term, nil)
	require.NoError(t, err)
	require.Same(t, f, back)
}

func TestRoundTripExtract(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	a, err := eb.Symbol("a", BVType(32))
	require.NoError(t, err)
	ex, err := eb.BVExtract(a, 15, 8)
	require.NoError(t, err)

	term, err := c.Convert(ex)
	require.NoError(t, err)
	back, err := c.Back(term, nil)
	require.NoError(t, err)
	require.Same(t, ex, back)
}

func TestConvertMemoized(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	f, err := eb.LT(x, eb.Int(1))
	require.NoError(t, err)

	t1, err := c.Convert(f)
	require.NoError(t, err)
	t2, err := c.Convert(f)
	require.NoError(t, err)
	require.Equal(t, t1.ID(), t2.ID())
}

func TestBoolIteRewritten(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	p, err := eb.Symbol("p", BoolType())
	require.NoError(t, err)
	q, err := eb.Symbol("q", BoolType())
	require.NoError(t, err)
	r, err := eb.Symbol("r", BoolType())
	require.NoError(t, err)
	ite, err := eb.Ite(p, q, r)
	require.NoError(t, err)

	term, err := c.Convert(ite)
	require.NoError(t, err)
	require.Equal(t, z3.OpAnd, term.Decl().Kind())
}

func TestStringSortRejected(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	s, err := eb.Symbol("s", StringType())
	require.NoError(t, err)
	_, err = c.Convert(s)
	var cerr *ConversionError
	require.ErrorAs(t, err, &cerr)
}

func TestAlgebraicForwardRejected(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	a := eb.Algebraic("1.4142135623?", RealType())
	_, err := c.Convert(a)
	var cerr *ConversionError
	require.ErrorAs(t, err, &cerr)
}

func TestBackMintsUnknownSymbol(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	// A term the engine invented on its own: no prior declaration.
	term := c.ctx.Const("skolem!0", c.ctx.IntSort())
	term.IncRef()
	defer term.DecRef()

	f, err := c.Back(term, nil)
	require.NoError(t, err)
	require.True(t, f.IsSymbol())
	require.Equal(t, "skolem!0", f.SymbolName())

	// The minted symbol is now part of the builder's vocabulary.
	again, err := eb.GetSymbol("skolem!0")
	require.NoError(t, err)
	require.Same(t, f, again)
}

func TestBackUninterpretedFunction(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	fn, err := eb.Symbol("g", FunctionType(IntType(), IntType()))
	require.NoError(t, err)
	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	app, err := eb.Function(fn, x)
	require.NoError(t, err)

	term, err := c.Convert(app)
	require.NoError(t, err)
	back, err := c.Back(term, nil)
	require.NoError(t, err)
	require.Same(t, app, back)
}

func TestBackRational(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	half := eb.Real(1, 2)
	term, err := c.Convert(half)
	require.NoError(t, err)
	back, err := c.Back(term, nil)
	require.NoError(t, err)
	require.Same(t, half, back)
}

func TestQuantifierRoundTripRejected(t *testing.T) {
	eb := NewFormulaBuilder()
	c, done := newTestConverter(t, eb)
	defer done()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	body, err := eb.LT(x, eb.Int(1))
	require.NoError(t, err)
	q, err := eb.Exists([]*Formula{x}, body)
	require.NoError(t, err)

	term, err := c.Convert(q)
	require.NoError(t, err)
	_, err = c.Back(term, nil)
	var cerr *ConversionError
	require.ErrorAs(t, err, &cerr)
}
