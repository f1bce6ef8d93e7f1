package smtkit

import (
	log "github.com/sirupsen/logrus"

	"github.com/smtkit/smtkit/z3"
)

// QuantifierEliminator rewrites quantified linear-arithmetic formulas into
// equivalent quantifier-free ones. It owns a context of its own, separate
// from any solver session.
//
// Only linear integer and linear real arithmetic are supported. Over the
// integers the engine can produce constructs with no counterpart in the
// formula vocabulary; that surfaces as an IncompletenessError carrying the
// native rendering.
type QuantifierEliminator struct {
	eb        *FormulaBuilder
	cfg       *z3.Config
	ctx       *z3.Context
	converter *Converter
	closed    bool
}

func NewQuantifierEliminator(eb *FormulaBuilder) *QuantifierEliminator {
	cfg := z3.NewConfig()
	ctx := z3.NewContext(cfg)
	return &QuantifierEliminator{
		eb:        eb,
		cfg:       cfg,
		ctx:       ctx,
		converter: NewConverter(eb, ctx),
	}
}

func (qe *QuantifierEliminator) Close() {
	if qe.closed {
		return
	}
	qe.closed = true
	qe.converter.Close()
	qe.ctx.Close()
	qe.cfg.Close()
}

func (qe *QuantifierEliminator) checkLogic(f *Formula) error {
	logic, err := qe.eb.LogicOf(f)
	if err != nil {
		return err
	}
	if logic.IsLinearReal() || logic.IsLinearInt() {
		return nil
	}
	return &ConversionError{
		Msg:  "quantifier elimination supports only linear integer and real arithmetic",
		Expr: f.String(),
	}
}

// runTactic applies the named tactic to a single-formula goal and hands
// back the resulting term, referenced for the caller.
func (qe *QuantifierEliminator) runTactic(name string, params *z3.Params, t z3.Term) (z3.Term, error) {
	tactic, err := qe.ctx.NewTactic(name)
	if err != nil {
		return z3.Term{}, err
	}
	defer tactic.Close()

	goal := qe.ctx.NewGoal()
	defer goal.Close()
	goal.Assert(t)

	res, err := tactic.Apply(goal, params)
	if err != nil {
		return z3.Term{}, err
	}
	defer res.Close()

	out := res.AsTerm()
	out.IncRef()
	return out, nil
}

// Eliminate returns a quantifier-free formula equivalent to f. The input
// is simplified first so that cheap propositional structure does not leak
// into the elimination itself.
func (qe *QuantifierEliminator) Eliminate(f *Formula) (*Formula, error) {
	if err := qe.checkLogic(f); err != nil {
		return nil, err
	}
	logic, err := qe.eb.LogicOf(f)
	if err != nil {
		return nil, err
	}

	t, err := qe.converter.Convert(f)
	if err != nil {
		return nil, err
	}

	params := qe.ctx.NewParams()
	defer params.Close()
	params.SetBool("elim_and", true)
	params.SetBool("pull_cheap_ite", true)
	params.SetBool("ite_extra_rules", true)

	simplified, err := qe.runTactic("simplify", params, t)
	if err != nil {
		return nil, err
	}
	defer simplified.DecRef()
	log.Debugf("qe: simplified to %s", simplified)

	eliminated, err := qe.runTactic("qe", nil, simplified)
	if err != nil {
		return nil, err
	}
	defer eliminated.DecRef()
	log.Debugf("qe: eliminated to %s", eliminated)

	res, err := qe.converter.Back(eliminated, nil)
	if err != nil {
		// Integer elimination can emit divisibility constructs that have
		// no formula counterpart.
		if logic.Ints {
			return nil, &IncompletenessError{Result: eliminated.String()}
		}
		return nil, err
	}
	return res, nil
}
