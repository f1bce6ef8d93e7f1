package smtkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func hasQuantifier(f *Formula) bool {
	if f.IsQuantifier() {
		return true
	}
	for _, a := range f.Args() {
		if hasQuantifier(a) {
			return true
		}
	}
	return false
}

func TestEliminateLinearReal(t *testing.T) {
	eb := NewFormulaBuilder()
	qe := NewQuantifierEliminator(eb)
	defer qe.Close()

	x, err := eb.Symbol("x", RealType())
	require.NoError(t, err)
	y, err := eb.Symbol("y", RealType())
	require.NoError(t, err)
	below, err := eb.LT(x, y)
	require.NoError(t, err)
	bounded, err := eb.LT(y, eb.Real(2, 1))
	require.NoError(t, err)
	body, err := eb.And(below, bounded)
	require.NoError(t, err)
	q, err := eb.Exists([]*Formula{y}, body)
	require.NoError(t, err)

	res, err := qe.Eliminate(q)
	require.NoError(t, err)
	require.False(t, hasQuantifier(res))
}

func TestEliminateIdempotent(t *testing.T) {
	eb := NewFormulaBuilder()
	qe := NewQuantifierEliminator(eb)
	defer qe.Close()

	x, err := eb.Symbol("x", RealType())
	require.NoError(t, err)
	y, err := eb.Symbol("y", RealType())
	require.NoError(t, err)
	below, err := eb.LT(x, y)
	require.NoError(t, err)
	q, err := eb.Exists([]*Formula{y}, below)
	require.NoError(t, err)

	once, err := qe.Eliminate(q)
	require.NoError(t, err)
	twice, err := qe.Eliminate(once)
	require.NoError(t, err)
	require.Same(t, once, twice)
}

func TestEliminatePropositional(t *testing.T) {
	eb := NewFormulaBuilder()
	qe := NewQuantifierEliminator(eb)
	defer qe.Close()

	// No arithmetic at all; elimination over ∃y. x<y produces exactly this
	// shape, so it must be accepted.
	res, err := qe.Eliminate(eb.TRUE())
	require.NoError(t, err)
	require.Same(t, eb.TRUE(), res)
}

func TestEliminateRejectsBitvectors(t *testing.T) {
	eb := NewFormulaBuilder()
	qe := NewQuantifierEliminator(eb)
	defer qe.Close()

	a, err := eb.Symbol("a", BVType(8))
	require.NoError(t, err)
	b, err := eb.Symbol("b", BVType(8))
	require.NoError(t, err)
	rel, err := eb.BVULT(a, b)
	require.NoError(t, err)
	q, err := eb.Exists([]*Formula{b}, rel)
	require.NoError(t, err)

	_, err = qe.Eliminate(q)
	var cerr *ConversionError
	require.ErrorAs(t, err, &cerr)
}

func TestEliminateRejectsNonLinear(t *testing.T) {
	eb := NewFormulaBuilder()
	qe := NewQuantifierEliminator(eb)
	defer qe.Close()

	x, err := eb.Symbol("x", RealType())
	require.NoError(t, err)
	y, err := eb.Symbol("y", RealType())
	require.NoError(t, err)
	prod, err := eb.Times(x, y)
	require.NoError(t, err)
	rel, err := eb.LT(prod, eb.Real(1, 1))
	require.NoError(t, err)
	q, err := eb.Exists([]*Formula{y}, rel)
	require.NoError(t, err)

	_, err = qe.Eliminate(q)
	var cerr *ConversionError
	require.ErrorAs(t, err, &cerr)
}
