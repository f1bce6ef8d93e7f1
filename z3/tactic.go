package z3

/*
#include <z3.h>
*/
import "C"

// Tactic wraps Z3_tactic. The wrapper holds one reference until Close.
type Tactic struct {
	ctx *Context
	c   C.Z3_tactic
}

// NewTactic looks a tactic up by name ("simplify", "qe", ...).
func (ctx *Context) NewTactic(name string) (*Tactic, error) {
	n := C.CString(name)
	t := C.Z3_mk_tactic(ctx.c, n)
	cfree(n)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	C.Z3_tactic_inc_ref(ctx.c, t)
	return &Tactic{ctx: ctx, c: t}, nil
}

func (t *Tactic) Close() {
	if t.c != nil {
		C.Z3_tactic_dec_ref(t.ctx.c, t.c)
		t.c = nil
	}
}

// Params carries tactic parameters. The wrapper holds one reference until
// Close.
type Params struct {
	ctx *Context
	c   C.Z3_params
}

func (ctx *Context) NewParams() *Params {
	p := C.Z3_mk_params(ctx.c)
	C.Z3_params_inc_ref(ctx.c, p)
	return &Params{ctx: ctx, c: p}
}

func (p *Params) SetBool(name string, value bool) {
	C.Z3_params_set_bool(p.ctx.c, p.c, p.ctx.symbol(name), C.bool(value))
}

func (p *Params) Close() {
	if p.c != nil {
		C.Z3_params_dec_ref(p.ctx.c, p.c)
		p.c = nil
	}
}

// Goal is a set of formulas a tactic is applied to. The wrapper holds one
// reference until Close.
type Goal struct {
	ctx *Context
	c   C.Z3_goal
}

func (ctx *Context) NewGoal() *Goal {
	g := C.Z3_mk_goal(ctx.c, C.bool(false), C.bool(false), C.bool(false))
	C.Z3_goal_inc_ref(ctx.c, g)
	return &Goal{ctx: ctx, c: g}
}

func (g *Goal) Assert(t Term) {
	C.Z3_goal_assert(g.ctx.c, g.c, t.c)
}

func (g *Goal) Close() {
	if g.c != nil {
		C.Z3_goal_dec_ref(g.ctx.c, g.c)
		g.c = nil
	}
}

// Apply runs the tactic on the goal, with optional parameters.
func (t *Tactic) Apply(g *Goal, params *Params) (*ApplyResult, error) {
	var r C.Z3_apply_result
	if params != nil {
		r = C.Z3_tactic_apply_ex(t.ctx.c, t.c, g.c, params.c)
	} else {
		r = C.Z3_tactic_apply(t.ctx.c, t.c, g.c)
	}
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}
	C.Z3_apply_result_inc_ref(t.ctx.c, r)
	return &ApplyResult{ctx: t.ctx, c: r}, nil
}

// ApplyResult is the list of subgoals a tactic produced. The wrapper holds
// one reference until Close.
type ApplyResult struct {
	ctx *Context
	c   C.Z3_apply_result
}

func (r *ApplyResult) Close() {
	if r.c != nil {
		C.Z3_apply_result_dec_ref(r.ctx.c, r.c)
		r.c = nil
	}
}

func (r *ApplyResult) NumSubgoals() int {
	return int(C.Z3_apply_result_get_num_subgoals(r.ctx.c, r.c))
}

func (r *ApplyResult) subgoalTerm(i int) Term {
	g := C.Z3_apply_result_get_subgoal(r.ctx.c, r.c, C.uint(i))
	C.Z3_goal_inc_ref(r.ctx.c, g)
	defer C.Z3_goal_dec_ref(r.ctx.c, g)

	n := int(C.Z3_goal_size(r.ctx.c, g))
	if n == 0 {
		return r.ctx.True()
	}
	fs := make([]Term, n)
	for j := 0; j < n; j++ {
		fs[j] = Term{r.ctx, C.Z3_goal_formula(r.ctx.c, g, C.uint(j))}
	}
	if n == 1 {
		return fs[0]
	}
	return r.ctx.And(fs...)
}

// AsTerm folds the subgoals back into a single formula: the conjunction
// of each subgoal's formulas, disjoined across subgoals.
func (r *ApplyResult) AsTerm() Term {
	n := r.NumSubgoals()
	if n == 0 {
		return r.ctx.False()
	}
	if n == 1 {
		return r.subgoalTerm(0)
	}
	gs := make([]Term, n)
	for i := 0; i < n; i++ {
		gs[i] = r.subgoalTerm(i)
	}
	return r.ctx.Or(gs...)
}
