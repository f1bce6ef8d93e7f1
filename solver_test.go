package smtkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveSimpleRange(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	lower, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	upper, err := eb.LT(x, eb.Int(2))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(lower))
	require.NoError(t, s.AddAssertion(upper))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.True(t, sat)

	// The only integer strictly between 0 and 2.
	v, err := s.GetValue(x)
	require.NoError(t, err)
	require.Equal(t, int64(1), v.IntValue().Int64())
}

func TestSolveUnsat(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(pos))
	require.NoError(t, s.AddAssertion(neg))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.False(t, sat)

	_, err = s.GetModel()
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
}

func TestPushPop(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(pos))

	s.Push(1)
	require.NoError(t, s.AddAssertion(neg))
	sat, err := s.Solve()
	require.NoError(t, err)
	require.False(t, sat)

	require.NoError(t, s.Pop(1))
	sat, err = s.Solve()
	require.NoError(t, err)
	require.True(t, sat)
}

func TestPopUnderflow(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	var serr *StatusError
	require.ErrorAs(t, s.Pop(1), &serr)

	s.Push(2)
	require.ErrorAs(t, s.Pop(3), &serr)
	require.NoError(t, s.Pop(2))
}

func TestCompositeAssumptionDeferredPop(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(pos))

	// Non-literal assumption, so it goes through a scratch scope.
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	sat, err := s.Solve(neg)
	require.NoError(t, err)
	require.False(t, sat)

	// The scratch scope is popped before the next check, so the
	// assumption must not linger.
	sat, err = s.Solve()
	require.NoError(t, err)
	require.True(t, sat)
}

func TestCompositeAssumptionModelVisible(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	bound, err := eb.LT(x, eb.Int(5))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(bound))

	// x in (2, 5): the assumption is composite, yet the model produced
	// under it must remain readable.
	above, err := eb.GT(x, eb.Int(2))
	require.NoError(t, err)
	tight, err := eb.LT(x, eb.Int(4))
	require.NoError(t, err)
	conj, err := eb.And(above, tight)
	require.NoError(t, err)

	sat, err := s.Solve(conj)
	require.NoError(t, err)
	require.True(t, sat)

	v, err := s.GetValue(x)
	require.NoError(t, err)
	require.Equal(t, int64(3), v.IntValue().Int64())
}

func TestLiteralAssumptions(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	p, err := eb.Symbol("p", BoolType())
	require.NoError(t, err)
	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	guard, err := eb.Implies(p, neg)
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(pos))
	require.NoError(t, s.AddAssertion(guard))

	sat, err := s.Solve(p)
	require.NoError(t, err)
	require.False(t, sat)

	np, err := eb.Not(p)
	require.NoError(t, err)
	sat, err = s.Solve(np)
	require.NoError(t, err)
	require.True(t, sat)
}

func TestNamedUnsatCore(t *testing.T) {
	eb := NewFormulaBuilder()
	opts := DefaultOptions()
	opts.UnsatCores = true
	s, err := NewSolver(eb, opts)
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	big, err := eb.GT(x, eb.Int(100))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertionNamed("positive", pos))
	require.NoError(t, s.AddAssertionNamed("negative", neg))
	require.NoError(t, s.AddAssertionNamed("large", big))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.False(t, sat)

	core, err := s.GetNamedUnsatCore()
	require.NoError(t, err)
	require.NotEmpty(t, core)
	for name, f := range core {
		require.Contains(t, []string{"positive", "negative", "large"}, name)
		require.Contains(t, []*Formula{pos, neg, big}, f)
	}
}

func TestAssumptionInCoreGetsSynthesizedName(t *testing.T) {
	eb := NewFormulaBuilder()
	opts := DefaultOptions()
	opts.UnsatCores = true
	s, err := NewSolver(eb, opts)
	require.NoError(t, err)
	defer s.Close()

	p, err := eb.Symbol("p", BoolType())
	require.NoError(t, err)
	np, err := eb.Not(p)
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(np))

	sat, err := s.Solve(p)
	require.NoError(t, err)
	require.False(t, sat)

	core, err := s.GetNamedUnsatCore()
	require.NoError(t, err)
	require.Len(t, core, 2)
	require.Contains(t, core, "_a_0")
	require.Contains(t, core, "_a_1")

	var got []*Formula
	for _, f := range core {
		got = append(got, f)
	}
	require.Contains(t, got, p)
	require.Contains(t, got, np)
}

func TestUnsatCoreConflictPair(t *testing.T) {
	eb := NewFormulaBuilder()
	opts := DefaultOptions()
	opts.UnsatCores = true
	s, err := NewSolver(eb, opts)
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	lower, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	upper, err := eb.LT(x, eb.Int(2))
	require.NoError(t, err)
	window, err := eb.And(lower, upper)
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(window))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.True(t, sat)

	tight, err := eb.LT(x, eb.Int(1))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(tight))

	sat, err = s.Solve()
	require.NoError(t, err)
	require.False(t, sat)

	core, err := s.GetUnsatCore()
	require.NoError(t, err)
	require.Len(t, core, 2)
	require.Contains(t, core, window)
	require.Contains(t, core, tight)
}

func TestCoreInvalidAfterMutation(t *testing.T) {
	eb := NewFormulaBuilder()
	opts := DefaultOptions()
	opts.UnsatCores = true
	s, err := NewSolver(eb, opts)
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertionNamed("positive", pos))
	require.NoError(t, s.AddAssertionNamed("negative", neg))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.False(t, sat)

	// Changing the assertion set invalidates the unsat result; the core
	// must no longer be served.
	wide, err := eb.LT(x, eb.Int(100))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(wide))

	_, err = s.GetNamedUnsatCore()
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
}

func TestModelInvalidAfterMutation(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(pos))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.True(t, sat)

	s.Push(1)
	_, err = s.GetModel()
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
}

func TestUnsatCoreRequiresOption(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetNamedUnsatCore()
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
}

func TestReset(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	pos, err := eb.GT(x, eb.Int(0))
	require.NoError(t, err)
	neg, err := eb.LT(x, eb.Int(0))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(pos))
	require.NoError(t, s.AddAssertion(neg))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.False(t, sat)

	require.NoError(t, s.Reset())
	sat, err = s.Solve()
	require.NoError(t, err)
	require.True(t, sat)
}

func TestModelAssignments(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	eq, err := eb.Equals(x, eb.Int(7))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(eq))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.True(t, sat)

	m, err := s.GetModel()
	require.NoError(t, err)
	defer m.Close()

	require.True(t, m.Contains(x))
	assigns := m.Assignments()
	require.Len(t, assigns, 1)
	require.Same(t, x, assigns[0].Symbol)
	require.Equal(t, int64(7), assigns[0].Value.IntValue().Int64())
}

func TestArrayModelValue(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	arr, err := eb.Symbol("m", ArrayType(IntType(), IntType()))
	require.NoError(t, err)
	sel1, err := eb.Select(arr, eb.Int(1))
	require.NoError(t, err)
	sel2, err := eb.Select(arr, eb.Int(2))
	require.NoError(t, err)
	at1, err := eb.Equals(sel1, eb.Int(10))
	require.NoError(t, err)
	at2, err := eb.Equals(sel2, eb.Int(20))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(at1))
	require.NoError(t, s.AddAssertion(at2))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.True(t, sat)

	m, err := s.GetModel()
	require.NoError(t, err)
	defer m.Close()

	// The whole interpretation lifts back as an array-typed formula.
	v, err := m.GetValue(arr)
	require.NoError(t, err)
	ty, err := eb.TypeOf(v)
	require.NoError(t, err)
	require.True(t, ty.IsArray())

	// And point reads through the model agree with the constraints.
	v1, err := m.GetValue(sel1)
	require.NoError(t, err)
	require.Equal(t, int64(10), v1.IntValue().Int64())
	v2, err := m.GetValue(sel2)
	require.NoError(t, err)
	require.Equal(t, int64(20), v2.IntValue().Int64())
}

func TestGetValueCompletion(t *testing.T) {
	eb := NewFormulaBuilder()
	s, err := NewSolver(eb, DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	x, err := eb.Symbol("x", IntType())
	require.NoError(t, err)
	y, err := eb.Symbol("y", IntType())
	require.NoError(t, err)
	eq, err := eb.Equals(x, eb.Int(7))
	require.NoError(t, err)
	require.NoError(t, s.AddAssertion(eq))

	sat, err := s.Solve()
	require.NoError(t, err)
	require.True(t, sat)

	// y is unconstrained; completion still yields a constant.
	v, err := s.GetValue(y)
	require.NoError(t, err)
	require.Equal(t, TY_INT_CONST, v.Kind())

	// Without completion the unconstrained symbol survives evaluation.
	m, err := s.GetModel()
	require.NoError(t, err)
	defer m.Close()
	raw, err := m.Eval(y, false)
	require.NoError(t, err)
	require.Same(t, y, raw)
	bound, err := m.Eval(x, false)
	require.NoError(t, err)
	require.Equal(t, int64(7), bound.IntValue().Int64())
}
