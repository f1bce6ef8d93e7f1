package z3

/*
#include <z3.h>
*/
import "C"

type SortKind int

const (
	SortBool          SortKind = C.Z3_BOOL_SORT
	SortInt           SortKind = C.Z3_INT_SORT
	SortReal          SortKind = C.Z3_REAL_SORT
	SortBV            SortKind = C.Z3_BV_SORT
	SortArray         SortKind = C.Z3_ARRAY_SORT
	SortUninterpreted SortKind = C.Z3_UNINTERPRETED_SORT
)

// Sort wraps Z3_sort. Like terms, sorts are reference counted through
// their AST view; IncRef/DecRef are the caller's responsibility.
type Sort struct {
	ctx *Context
	c   C.Z3_sort
}

func (s Sort) IncRef() {
	C.Z3_inc_ref(s.ctx.c, C.Z3_sort_to_ast(s.ctx.c, s.c))
}

func (s Sort) DecRef() {
	C.Z3_dec_ref(s.ctx.c, C.Z3_sort_to_ast(s.ctx.c, s.c))
}

func (s Sort) Kind() SortKind {
	return SortKind(C.Z3_get_sort_kind(s.ctx.c, s.c))
}

// BVSize returns the width of a bitvector sort.
func (s Sort) BVSize() uint {
	return uint(C.Z3_get_bv_sort_size(s.ctx.c, s.c))
}

// Domain returns the index sort of an array sort.
func (s Sort) Domain() Sort {
	return Sort{s.ctx, C.Z3_get_array_sort_domain(s.ctx.c, s.c)}
}

// Range returns the value sort of an array sort.
func (s Sort) Range() Sort {
	return Sort{s.ctx, C.Z3_get_array_sort_range(s.ctx.c, s.c)}
}

func (s Sort) Name() string {
	return s.ctx.symbolString(C.Z3_get_sort_name(s.ctx.c, s.c))
}

func (s Sort) String() string {
	return C.GoString(C.Z3_sort_to_string(s.ctx.c, s.c))
}

func (ctx *Context) BoolSort() Sort {
	return Sort{ctx, C.Z3_mk_bool_sort(ctx.c)}
}

func (ctx *Context) IntSort() Sort {
	return Sort{ctx, C.Z3_mk_int_sort(ctx.c)}
}

func (ctx *Context) RealSort() Sort {
	return Sort{ctx, C.Z3_mk_real_sort(ctx.c)}
}

func (ctx *Context) BVSort(width uint) Sort {
	return Sort{ctx, C.Z3_mk_bv_sort(ctx.c, C.uint(width))}
}

func (ctx *Context) ArraySort(index, value Sort) Sort {
	return Sort{ctx, C.Z3_mk_array_sort(ctx.c, index.c, value.c)}
}

// UninterpretedSort declares a named custom sort.
func (ctx *Context) UninterpretedSort(name string) Sort {
	return Sort{ctx, C.Z3_mk_uninterpreted_sort(ctx.c, ctx.symbol(name))}
}
