package z3

/*
#include <z3.h>
*/
import "C"

import "fmt"

// Status is the outcome of a satisfiability check.
type Status int

const (
	Unsat   Status = C.Z3_L_FALSE
	Unknown Status = C.Z3_L_UNDEF
	Sat     Status = C.Z3_L_TRUE
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// Solver wraps Z3_solver. The wrapper holds one solver reference from
// creation until Close.
type Solver struct {
	ctx *Context
	c   C.Z3_solver
}

func (ctx *Context) NewSolver() *Solver {
	s := C.Z3_mk_solver(ctx.c)
	C.Z3_solver_inc_ref(ctx.c, s)
	return &Solver{ctx: ctx, c: s}
}

// NewSolverForLogic creates a solver specialized for an SMT-LIB logic
// name. Unrecognized names fall back to the generic solver.
func (ctx *Context) NewSolverForLogic(logic string) *Solver {
	s := C.Z3_mk_solver_for_logic(ctx.c, ctx.symbol(logic))
	if err := ctx.Err(); err != nil {
		return ctx.NewSolver()
	}
	C.Z3_solver_inc_ref(ctx.c, s)
	return &Solver{ctx: ctx, c: s}
}

func (s *Solver) Close() {
	if s.c != nil {
		C.Z3_solver_dec_ref(s.ctx.c, s.c)
		s.c = nil
	}
}

// SetOption sets a solver parameter, reporting the engine's rejection as
// an error instead of aborting.
func (s *Solver) SetOption(name string, value interface{}) error {
	params := C.Z3_mk_params(s.ctx.c)
	C.Z3_params_inc_ref(s.ctx.c, params)
	defer C.Z3_params_dec_ref(s.ctx.c, params)

	sym := s.ctx.symbol(name)
	switch v := value.(type) {
	case bool:
		C.Z3_params_set_bool(s.ctx.c, params, sym, C.bool(v))
	case int:
		C.Z3_params_set_uint(s.ctx.c, params, sym, C.uint(v))
	case uint:
		C.Z3_params_set_uint(s.ctx.c, params, sym, C.uint(v))
	case uint32:
		C.Z3_params_set_uint(s.ctx.c, params, sym, C.uint(v))
	case float64:
		C.Z3_params_set_double(s.ctx.c, params, sym, C.double(v))
	case string:
		C.Z3_params_set_symbol(s.ctx.c, params, sym, s.ctx.symbol(v))
	default:
		return fmt.Errorf("unsupported option value %v", value)
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}
	C.Z3_solver_set_params(s.ctx.c, s.c, params)
	return s.ctx.Err()
}

func (s *Solver) Assert(t Term) {
	C.Z3_solver_assert(s.ctx.c, s.c, t.c)
}

// AssertAndTrack asserts t tracked under the given indicator constant, so
// that unsat cores can refer to it.
func (s *Solver) AssertAndTrack(t, indicator Term) {
	C.Z3_solver_assert_and_track(s.ctx.c, s.c, t.c, indicator.c)
}

func (s *Solver) Push() {
	C.Z3_solver_push(s.ctx.c, s.c)
}

func (s *Solver) Pop(n uint) {
	C.Z3_solver_pop(s.ctx.c, s.c, C.uint(n))
}

func (s *Solver) NumScopes() uint {
	return uint(C.Z3_solver_get_num_scopes(s.ctx.c, s.c))
}

func (s *Solver) Reset() {
	C.Z3_solver_reset(s.ctx.c, s.c)
}

func (s *Solver) Check() Status {
	return Status(C.Z3_solver_check(s.ctx.c, s.c))
}

// CheckAssumptions checks satisfiability under the given literal
// assumptions without asserting them.
func (s *Solver) CheckAssumptions(assumptions ...Term) Status {
	if len(assumptions) == 0 {
		return s.Check()
	}
	raw := termArray(assumptions)
	return Status(C.Z3_solver_check_assumptions(s.ctx.c, s.c,
		C.uint(len(raw)), &raw[0]))
}

// ReasonUnknown describes why the last check returned Unknown.
func (s *Solver) ReasonUnknown() string {
	return C.GoString(C.Z3_solver_get_reason_unknown(s.ctx.c, s.c))
}

// UnsatCore returns the subset of tracked indicators (or assumptions)
// responsible for the last Unsat answer.
func (s *Solver) UnsatCore() []Term {
	vec := C.Z3_solver_get_unsat_core(s.ctx.c, s.c)
	C.Z3_ast_vector_inc_ref(s.ctx.c, vec)
	defer C.Z3_ast_vector_dec_ref(s.ctx.c, vec)

	n := int(C.Z3_ast_vector_size(s.ctx.c, vec))
	core := make([]Term, n)
	for i := 0; i < n; i++ {
		core[i] = Term{s.ctx, C.Z3_ast_vector_get(s.ctx.c, vec, C.uint(i))}
	}
	return core
}

// Model returns the satisfying assignment of the last Sat answer. The
// returned model holds one reference, released by Model.Close.
func (s *Solver) Model() (*Model, error) {
	m := C.Z3_solver_get_model(s.ctx.c, s.c)
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("no model available")
	}
	C.Z3_model_inc_ref(s.ctx.c, m)
	return &Model{ctx: s.ctx, c: m}, nil
}

func (s *Solver) String() string {
	return C.GoString(C.Z3_solver_to_string(s.ctx.c, s.c))
}
