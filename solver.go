package smtkit

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/smtkit/smtkit/z3"
)

const (
	statusNone = iota
	statusSat
	statusUnsat
)

// namedAssertion ties a tracked assertion to the indicator literal that
// stands for it inside the engine.
type namedAssertion struct {
	name      string
	indicator *Formula
	formula   *Formula
}

// Solver is an incremental session against one engine context. It owns the
// context, its converter and the native solver, and is confined to one
// goroutine at a time.
//
// An assumption-based Solve that has to materialize composite assumptions
// does so in a scratch scope; the matching pop is deferred until the next
// mutating call so that the model stays readable in between.
type Solver struct {
	eb   *FormulaBuilder
	opts Options

	cfg        *z3.Config
	ctx        *z3.Context
	converter  *Converter
	native     *z3.Solver
	named      []namedAssertion
	pendingPop bool
	lastStatus int
	closed     bool
}

func NewSolver(eb *FormulaBuilder, opts Options) (*Solver, error) {
	cfg := z3.NewConfig()
	ctx := z3.NewContext(cfg)
	s := &Solver{
		eb:        eb,
		opts:      opts,
		cfg:       cfg,
		ctx:       ctx,
		converter: NewConverter(eb, ctx),
		native:    ctx.NewSolver(),
	}
	if err := opts.apply(s.native); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewSolverForLogic is NewSolver with a logic hint. The engine picks a
// specialized tactic when it knows the hinted logic and silently falls
// back to the generic solver when it does not.
func NewSolverForLogic(eb *FormulaBuilder, opts Options, logic string) (*Solver, error) {
	cfg := z3.NewConfig()
	ctx := z3.NewContext(cfg)
	s := &Solver{
		eb:        eb,
		opts:      opts,
		cfg:       cfg,
		ctx:       ctx,
		converter: NewConverter(eb, ctx),
		native:    ctx.NewSolverForLogic(logic),
	}
	if err := opts.apply(s.native); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Solver) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.native.Close()
	s.converter.Close()
	s.ctx.Close()
	s.cfg.Close()
}

// mutating marks the start of a state-changing command: the scratch scope
// left behind by a previous assumption solve is popped, and the previous
// check result is invalidated so that models and cores cannot be read
// across a mutation. Every mutating entry point calls this first.
func (s *Solver) mutating() {
	s.lastStatus = statusNone
	if s.pendingPop {
		s.pendingPop = false
		s.native.Pop(1)
	}
}

func (s *Solver) AddAssertion(f *Formula) error {
	return s.AddAssertionNamed("", f)
}

// AddAssertionNamed asserts f under a name. With unsat cores enabled every
// assertion is tracked through a fresh indicator literal; the name, when
// given, is how the assertion is reported back in the core, and unnamed
// entries get synthesized names there.
func (s *Solver) AddAssertionNamed(name string, f *Formula) error {
	s.mutating()
	t, err := s.converter.Convert(f)
	if err != nil {
		return err
	}
	if s.opts.UnsatCores {
		indicator := s.eb.FreshSymbol(BoolType(), "_assertion_%d")
		it, err := s.converter.Convert(indicator)
		if err != nil {
			return err
		}
		s.native.AssertAndTrack(t, it)
		s.named = append(s.named, namedAssertion{name: name, indicator: indicator, formula: f})
		return nil
	}
	s.native.Assert(t)
	return nil
}

func (s *Solver) Push(n uint) {
	s.mutating()
	for i := uint(0); i < n; i++ {
		s.native.Push()
	}
}

// Pop removes n scopes. Popping more scopes than were pushed is a usage
// error, not a no-op.
func (s *Solver) Pop(n uint) error {
	s.mutating()
	if s.native.NumScopes() < n {
		return &StatusError{Msg: fmt.Sprintf("pop(%d) with %d scopes", n, s.native.NumScopes())}
	}
	s.native.Pop(n)
	return nil
}

// Solve checks satisfiability of the asserted formulas under the given
// assumptions. Boolean literals among the assumptions go to the engine
// natively; anything else is conjoined inside a scratch scope whose pop is
// deferred so that a model query can still see it.
func (s *Solver) Solve(assumptions ...*Formula) (bool, error) {
	s.mutating()

	var literals []z3.Term
	var composite []*Formula
	for _, a := range assumptions {
		if a.IsLiteral() {
			t, err := s.converter.Convert(a)
			if err != nil {
				return false, err
			}
			literals = append(literals, t)
		} else {
			composite = append(composite, a)
		}
	}

	if len(composite) > 0 {
		conj, err := s.eb.And(composite...)
		if err != nil {
			return false, err
		}
		t, err := s.converter.Convert(conj)
		if err != nil {
			return false, err
		}
		s.native.Push()
		s.native.Assert(t)
		s.pendingPop = true
	}

	var res z3.Status
	if len(literals) > 0 {
		res = s.native.CheckAssumptions(literals...)
	} else {
		res = s.native.Check()
	}

	log.Debugf("check: %d assumptions, result %v", len(assumptions), res)
	switch res {
	case z3.Sat:
		s.lastStatus = statusSat
		return true, nil
	case z3.Unsat:
		s.lastStatus = statusUnsat
		return false, nil
	}
	reason := s.native.ReasonUnknown()
	log.WithField("reason", reason).Debug("engine returned unknown")
	return false, &UnknownResultError{Reason: reason}
}

// GetModel returns a view over the model of the last Solve. The view
// shares the session's converter and context and must be closed before
// the session.
func (s *Solver) GetModel() (*ModelView, error) {
	if s.lastStatus != statusSat {
		return nil, &StatusError{Msg: "no model: last check was not satisfiable"}
	}
	m, err := s.native.Model()
	if err != nil {
		return nil, &StatusError{Msg: fmt.Sprintf("model unavailable: %v", err)}
	}
	return &ModelView{eb: s.eb, converter: s.converter, native: m}, nil
}

// GetValue evaluates f in the model of the last Solve, completing
// unconstrained symbols with arbitrary values.
func (s *Solver) GetValue(f *Formula) (*Formula, error) {
	m, err := s.GetModel()
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return m.GetValue(f)
}

// GetUnsatCore returns the subset of tracked assertions and assumptions
// that the engine found jointly unsatisfiable.
func (s *Solver) GetUnsatCore() ([]*Formula, error) {
	named, err := s.GetNamedUnsatCore()
	if err != nil {
		return nil, err
	}
	core := make([]*Formula, 0, len(named))
	for _, f := range named {
		core = append(core, f)
	}
	return core, nil
}

// GetNamedUnsatCore returns the unsat core keyed by assertion name.
// Assumption literals passed to Solve can land in the core too; they were
// never tracked and so never named. They are deliberately kept, under
// synthesized names, instead of being filtered out of the named view:
// dropping them would hide part of the conflict.
func (s *Solver) GetNamedUnsatCore() (map[string]*Formula, error) {
	if !s.opts.UnsatCores {
		return nil, &StatusError{Msg: "unsat cores were not enabled for this session"}
	}
	if s.lastStatus != statusUnsat {
		return nil, &StatusError{Msg: "no unsat core: last check was not unsatisfiable"}
	}

	res := map[string]*Formula{}
	synth := 0
	for _, t := range s.native.UnsatCore() {
		f, err := s.converter.Back(t, nil)
		if err != nil {
			return nil, err
		}
		if na, ok := s.lookupNamed(f); ok {
			name := na.name
			if name == "" {
				name = fmt.Sprintf("_a_%d", synth)
				synth++
			}
			res[name] = na.formula
			continue
		}
		// Assumption literal passed to Solve; it was never tracked, so it
		// never had a name either.
		res[fmt.Sprintf("_a_%d", synth)] = f
		synth++
	}
	return res, nil
}

func (s *Solver) lookupNamed(indicator *Formula) (namedAssertion, bool) {
	for _, na := range s.named {
		if na.indicator == indicator {
			return na, true
		}
	}
	return namedAssertion{}, false
}

// Reset drops every assertion and scope, keeping the session options.
func (s *Solver) Reset() error {
	s.pendingPop = false
	s.lastStatus = statusNone
	s.named = nil
	s.native.Reset()
	return s.opts.apply(s.native)
}
