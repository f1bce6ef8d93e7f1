package z3

/*
#include <z3.h>
*/
import "C"

import "unsafe"

// Model wraps Z3_model. The wrapper holds one model reference from
// creation until Close.
type Model struct {
	ctx *Context
	c   C.Z3_model
}

func (m *Model) Close() {
	if m.c != nil {
		C.Z3_model_dec_ref(m.ctx.c, m.c)
		m.c = nil
	}
}

// ID identifies the native model snapshot; distinct snapshots have
// distinct ids for the lifetime of both.
func (m *Model) ID() uintptr {
	return uintptr(unsafe.Pointer(m.c))
}

// Eval evaluates t under the model. With completion, symbols the model
// does not constrain are given an arbitrary fixed value instead of
// failing.
func (m *Model) Eval(t Term, completion bool) (Term, bool) {
	var out C.Z3_ast
	ok := C.Z3_model_eval(m.ctx.c, m.c, t.c, C.bool(completion), &out)
	if !bool(ok) {
		return Term{}, false
	}
	return Term{m.ctx, out}, true
}

// NumConsts returns the number of zero-arity declarations the model
// assigns a value to.
func (m *Model) NumConsts() int {
	return int(C.Z3_model_get_num_consts(m.ctx.c, m.c))
}

func (m *Model) ConstDecl(i int) FuncDecl {
	return FuncDecl{m.ctx, C.Z3_model_get_const_decl(m.ctx.c, m.c, C.uint(i))}
}

// ConstInterp returns the interpretation of a zero-arity declaration, if
// the model has one.
func (m *Model) ConstInterp(d FuncDecl) (Term, bool) {
	t := C.Z3_model_get_const_interp(m.ctx.c, m.c, d.c)
	if t == nil {
		return Term{}, false
	}
	return Term{m.ctx, t}, true
}

// FuncInterp returns the interpretation of a function declaration, if the
// model has one. The interpretation holds one reference, released by
// FuncInterp.Close.
func (m *Model) FuncInterp(d FuncDecl) (*FuncInterp, bool) {
	fi := C.Z3_model_get_func_interp(m.ctx.c, m.c, d.c)
	if fi == nil {
		return nil, false
	}
	C.Z3_func_interp_inc_ref(m.ctx.c, fi)
	return &FuncInterp{ctx: m.ctx, c: fi}, true
}

func (m *Model) String() string {
	return C.GoString(C.Z3_model_to_string(m.ctx.c, m.c))
}

// FuncInterp is a function interpretation: a finite list of entries plus
// a default value.
type FuncInterp struct {
	ctx *Context
	c   C.Z3_func_interp
}

func (fi *FuncInterp) Close() {
	if fi.c != nil {
		C.Z3_func_interp_dec_ref(fi.ctx.c, fi.c)
		fi.c = nil
	}
}

func (fi *FuncInterp) NumEntries() int {
	return int(C.Z3_func_interp_get_num_entries(fi.ctx.c, fi.c))
}

// Entry returns the argument tuple and the value of the i-th explicit
// entry.
func (fi *FuncInterp) Entry(i int) ([]Term, Term) {
	e := C.Z3_func_interp_get_entry(fi.ctx.c, fi.c, C.uint(i))
	C.Z3_func_entry_inc_ref(fi.ctx.c, e)
	defer C.Z3_func_entry_dec_ref(fi.ctx.c, e)

	n := int(C.Z3_func_entry_get_num_args(fi.ctx.c, e))
	args := make([]Term, n)
	for j := 0; j < n; j++ {
		args[j] = Term{fi.ctx, C.Z3_func_entry_get_arg(fi.ctx.c, e, C.uint(j))}
	}
	return args, Term{fi.ctx, C.Z3_func_entry_get_value(fi.ctx.c, e)}
}

// ElseValue returns the value of every argument tuple not listed as an
// explicit entry.
func (fi *FuncInterp) ElseValue() Term {
	return Term{fi.ctx, C.Z3_func_interp_get_else(fi.ctx.c, fi.c)}
}
