package z3

/*
#include <z3.h>
*/
import "C"

type ASTKind int

const (
	ASTNumeral    ASTKind = C.Z3_NUMERAL_AST
	ASTApp        ASTKind = C.Z3_APP_AST
	ASTVar        ASTKind = C.Z3_VAR_AST
	ASTQuantifier ASTKind = C.Z3_QUANTIFIER_AST
	ASTSort       ASTKind = C.Z3_SORT_AST
	ASTFuncDecl   ASTKind = C.Z3_FUNC_DECL_AST
)

// DeclKind identifies the operator of an application term. The values
// mirror Z3_decl_kind; only the kinds the bridge dispatches on are named.
type DeclKind int

const (
	OpTrue     DeclKind = C.Z3_OP_TRUE
	OpFalse    DeclKind = C.Z3_OP_FALSE
	OpEq       DeclKind = C.Z3_OP_EQ
	OpDistinct DeclKind = C.Z3_OP_DISTINCT
	OpITE      DeclKind = C.Z3_OP_ITE
	OpAnd      DeclKind = C.Z3_OP_AND
	OpOr       DeclKind = C.Z3_OP_OR
	OpIff      DeclKind = C.Z3_OP_IFF
	OpXor      DeclKind = C.Z3_OP_XOR
	OpNot      DeclKind = C.Z3_OP_NOT
	OpImplies  DeclKind = C.Z3_OP_IMPLIES

	OpAdd    DeclKind = C.Z3_OP_ADD
	OpSub    DeclKind = C.Z3_OP_SUB
	OpUminus DeclKind = C.Z3_OP_UMINUS
	OpMul    DeclKind = C.Z3_OP_MUL
	OpDiv    DeclKind = C.Z3_OP_DIV
	OpIDiv   DeclKind = C.Z3_OP_IDIV
	OpMod    DeclKind = C.Z3_OP_MOD
	OpPower  DeclKind = C.Z3_OP_POWER
	OpLE     DeclKind = C.Z3_OP_LE
	OpLT     DeclKind = C.Z3_OP_LT
	OpGE     DeclKind = C.Z3_OP_GE
	OpGT     DeclKind = C.Z3_OP_GT
	OpToReal DeclKind = C.Z3_OP_TO_REAL

	OpBNot  DeclKind = C.Z3_OP_BNOT
	OpBNeg  DeclKind = C.Z3_OP_BNEG
	OpBAnd  DeclKind = C.Z3_OP_BAND
	OpBOr   DeclKind = C.Z3_OP_BOR
	OpBXor  DeclKind = C.Z3_OP_BXOR
	OpBAdd  DeclKind = C.Z3_OP_BADD
	OpBSub  DeclKind = C.Z3_OP_BSUB
	OpBMul  DeclKind = C.Z3_OP_BMUL
	OpBUDiv DeclKind = C.Z3_OP_BUDIV
	OpBSDiv DeclKind = C.Z3_OP_BSDIV
	OpBURem DeclKind = C.Z3_OP_BUREM
	OpBSRem DeclKind = C.Z3_OP_BSREM
	OpBShl  DeclKind = C.Z3_OP_BSHL
	OpBLShr DeclKind = C.Z3_OP_BLSHR
	OpBAShr DeclKind = C.Z3_OP_BASHR

	OpConcat         DeclKind = C.Z3_OP_CONCAT
	OpExtract        DeclKind = C.Z3_OP_EXTRACT
	OpZeroExt        DeclKind = C.Z3_OP_ZERO_EXT
	OpSignExt        DeclKind = C.Z3_OP_SIGN_EXT
	OpRotateLeft     DeclKind = C.Z3_OP_ROTATE_LEFT
	OpRotateRight    DeclKind = C.Z3_OP_ROTATE_RIGHT
	OpExtRotateLeft  DeclKind = C.Z3_OP_EXT_ROTATE_LEFT
	OpExtRotateRight DeclKind = C.Z3_OP_EXT_ROTATE_RIGHT
	OpBV2Int         DeclKind = C.Z3_OP_BV2INT

	OpULT DeclKind = C.Z3_OP_ULT
	OpULE DeclKind = C.Z3_OP_ULEQ
	OpUGT DeclKind = C.Z3_OP_UGT
	OpUGE DeclKind = C.Z3_OP_UGEQ
	OpSLT DeclKind = C.Z3_OP_SLT
	OpSLE DeclKind = C.Z3_OP_SLEQ
	OpSGT DeclKind = C.Z3_OP_SGT
	OpSGE DeclKind = C.Z3_OP_SGEQ

	OpSelect     DeclKind = C.Z3_OP_SELECT
	OpStore      DeclKind = C.Z3_OP_STORE
	OpConstArray DeclKind = C.Z3_OP_CONST_ARRAY
	OpAsArray    DeclKind = C.Z3_OP_AS_ARRAY

	OpUninterpreted DeclKind = C.Z3_OP_UNINTERPRETED
)

// Term wraps Z3_ast. Terms are created with a zero reference count: a
// caller that stores one must IncRef it before the next call into Z3 and
// pair that with exactly one DecRef.
type Term struct {
	ctx *Context
	c   C.Z3_ast
}

func (t Term) IncRef() {
	C.Z3_inc_ref(t.ctx.c, t.c)
}

func (t Term) DecRef() {
	C.Z3_dec_ref(t.ctx.c, t.c)
}

// ID returns the unique identifier of the AST node within its context.
// Structurally equal terms share the id, which makes it a usable memo key.
func (t Term) ID() uint64 {
	return uint64(C.Z3_get_ast_id(t.ctx.c, t.c))
}

func (t Term) String() string {
	return C.GoString(C.Z3_ast_to_string(t.ctx.c, t.c))
}

func (t Term) Kind() ASTKind {
	return ASTKind(C.Z3_get_ast_kind(t.ctx.c, t.c))
}

func (t Term) Sort() Sort {
	return Sort{t.ctx, C.Z3_get_sort(t.ctx.c, t.c)}
}

func (t Term) IsApp() bool {
	return t.Kind() == ASTApp
}

func (t Term) IsQuantifier() bool {
	return t.Kind() == ASTQuantifier
}

func (t Term) IsNumeral() bool {
	return t.Kind() == ASTNumeral
}

// IsAlgebraic reports whether the term is an irrational algebraic numeral.
func (t Term) IsAlgebraic() bool {
	return bool(C.Z3_is_algebraic_number(t.ctx.c, t.c))
}

// NumArgs returns the argument count of an application term.
func (t Term) NumArgs() int {
	if !t.IsApp() {
		return 0
	}
	app := C.Z3_to_app(t.ctx.c, t.c)
	return int(C.Z3_get_app_num_args(t.ctx.c, app))
}

func (t Term) Arg(i int) Term {
	app := C.Z3_to_app(t.ctx.c, t.c)
	return Term{t.ctx, C.Z3_get_app_arg(t.ctx.c, app, C.uint(i))}
}

func (t Term) Args() []Term {
	n := t.NumArgs()
	args := make([]Term, n)
	for i := 0; i < n; i++ {
		args[i] = t.Arg(i)
	}
	return args
}

// Decl returns the declaration of an application term.
func (t Term) Decl() FuncDecl {
	app := C.Z3_to_app(t.ctx.c, t.c)
	return FuncDecl{t.ctx, C.Z3_get_app_decl(t.ctx.c, app)}
}

// NumeralString returns the textual value of a numeral term.
func (t Term) NumeralString() string {
	return C.GoString(C.Z3_get_numeral_string(t.ctx.c, t.c))
}

// Numerator and Denominator decompose a rational numeral exactly.
func (t Term) Numerator() Term {
	return Term{t.ctx, C.Z3_get_numerator(t.ctx.c, t.c)}
}

func (t Term) Denominator() Term {
	return Term{t.ctx, C.Z3_get_denominator(t.ctx.c, t.c)}
}

// AlgebraicString returns a decimal approximation of an algebraic numeral
// with the given precision.
func (t Term) AlgebraicString(precision uint) string {
	return C.GoString(C.Z3_get_numeral_decimal_string(t.ctx.c, t.c, C.uint(precision)))
}

// IsAsArray reports whether the term is a function interpretation packaged
// as an array value. Such terms only make sense relative to a model.
func (t Term) IsAsArray() bool {
	return t.IsApp() && t.Decl().Kind() == OpAsArray
}

// AsArrayDecl returns the function declaration an as-array term refers to.
func (t Term) AsArrayDecl() FuncDecl {
	return FuncDecl{t.ctx, C.Z3_get_as_array_func_decl(t.ctx.c, t.c)}
}

// QuantifierBody returns the body of a quantified term.
func (t Term) QuantifierBody() Term {
	return Term{t.ctx, C.Z3_get_quantifier_body(t.ctx.c, t.c)}
}

// FuncDecl wraps Z3_func_decl.
type FuncDecl struct {
	ctx *Context
	c   C.Z3_func_decl
}

func (d FuncDecl) IncRef() {
	C.Z3_inc_ref(d.ctx.c, C.Z3_func_decl_to_ast(d.ctx.c, d.c))
}

func (d FuncDecl) DecRef() {
	C.Z3_dec_ref(d.ctx.c, C.Z3_func_decl_to_ast(d.ctx.c, d.c))
}

func (d FuncDecl) Kind() DeclKind {
	return DeclKind(C.Z3_get_decl_kind(d.ctx.c, d.c))
}

func (d FuncDecl) Name() string {
	return d.ctx.symbolString(C.Z3_get_decl_name(d.ctx.c, d.c))
}

func (d FuncDecl) Arity() int {
	return int(C.Z3_get_arity(d.ctx.c, d.c))
}

func (d FuncDecl) Range() Sort {
	return Sort{d.ctx, C.Z3_get_range(d.ctx.c, d.c)}
}

// IntParameter returns the i-th integer parameter of a parametric operator
// (extraction bounds, extension widths, rotation steps).
func (d FuncDecl) IntParameter(i int) int {
	return int(C.Z3_get_decl_int_parameter(d.ctx.c, d.c, C.uint(i)))
}

func (d FuncDecl) String() string {
	return C.GoString(C.Z3_func_decl_to_string(d.ctx.c, d.c))
}

// Apply builds an application of the declaration to the given arguments.
func (d FuncDecl) Apply(args ...Term) Term {
	raw := termArray(args)
	var p *C.Z3_ast
	if len(raw) > 0 {
		p = &raw[0]
	}
	return Term{d.ctx, C.Z3_mk_app(d.ctx.c, d.c, C.uint(len(raw)), p)}
}

func termArray(args []Term) []C.Z3_ast {
	raw := make([]C.Z3_ast, len(args))
	for i, a := range args {
		raw[i] = a.c
	}
	return raw
}

/*
 *  Constructors
 */

func (ctx *Context) True() Term {
	return Term{ctx, C.Z3_mk_true(ctx.c)}
}

func (ctx *Context) False() Term {
	return Term{ctx, C.Z3_mk_false(ctx.c)}
}

func (ctx *Context) Bool(v bool) Term {
	if v {
		return ctx.True()
	}
	return ctx.False()
}

// Numeral builds a numeral of the given sort from its textual form.
func (ctx *Context) Numeral(repr string, sort Sort) Term {
	r := C.CString(repr)
	t := Term{ctx, C.Z3_mk_numeral(ctx.c, r, sort.c)}
	cfree(r)
	return t
}

// Const declares (or retrieves) the constant with the given name and sort.
func (ctx *Context) Const(name string, sort Sort) Term {
	return Term{ctx, C.Z3_mk_const(ctx.c, ctx.symbol(name), sort.c)}
}

// FuncDecl declares a function with the given domain and range.
func (ctx *Context) FuncDecl(name string, domain []Sort, rng Sort) FuncDecl {
	raw := make([]C.Z3_sort, len(domain))
	for i, s := range domain {
		raw[i] = s.c
	}
	var p *C.Z3_sort
	if len(raw) > 0 {
		p = &raw[0]
	}
	return FuncDecl{ctx, C.Z3_mk_func_decl(ctx.c, ctx.symbol(name),
		C.uint(len(raw)), p, rng.c)}
}

func (ctx *Context) nary(mk func(C.Z3_context, C.uint, *C.Z3_ast) C.Z3_ast, args []Term) Term {
	raw := termArray(args)
	return Term{ctx, mk(ctx.c, C.uint(len(raw)), &raw[0])}
}

func (ctx *Context) And(args ...Term) Term {
	return ctx.nary(func(c C.Z3_context, n C.uint, a *C.Z3_ast) C.Z3_ast {
		return C.Z3_mk_and(c, n, a)
	}, args)
}

func (ctx *Context) Or(args ...Term) Term {
	return ctx.nary(func(c C.Z3_context, n C.uint, a *C.Z3_ast) C.Z3_ast {
		return C.Z3_mk_or(c, n, a)
	}, args)
}

func (ctx *Context) Not(t Term) Term {
	return Term{ctx, C.Z3_mk_not(ctx.c, t.c)}
}

func (ctx *Context) Implies(l, r Term) Term {
	return Term{ctx, C.Z3_mk_implies(ctx.c, l.c, r.c)}
}

func (ctx *Context) Iff(l, r Term) Term {
	return Term{ctx, C.Z3_mk_iff(ctx.c, l.c, r.c)}
}

func (ctx *Context) Xor(l, r Term) Term {
	return Term{ctx, C.Z3_mk_xor(ctx.c, l.c, r.c)}
}

func (ctx *Context) Eq(l, r Term) Term {
	return Term{ctx, C.Z3_mk_eq(ctx.c, l.c, r.c)}
}

func (ctx *Context) Ite(i, t, e Term) Term {
	return Term{ctx, C.Z3_mk_ite(ctx.c, i.c, t.c, e.c)}
}

func (ctx *Context) Add(args ...Term) Term {
	return ctx.nary(func(c C.Z3_context, n C.uint, a *C.Z3_ast) C.Z3_ast {
		return C.Z3_mk_add(c, n, a)
	}, args)
}

func (ctx *Context) Sub(args ...Term) Term {
	return ctx.nary(func(c C.Z3_context, n C.uint, a *C.Z3_ast) C.Z3_ast {
		return C.Z3_mk_sub(c, n, a)
	}, args)
}

func (ctx *Context) Mul(args ...Term) Term {
	return ctx.nary(func(c C.Z3_context, n C.uint, a *C.Z3_ast) C.Z3_ast {
		return C.Z3_mk_mul(c, n, a)
	}, args)
}

func (ctx *Context) Div(l, r Term) Term {
	return Term{ctx, C.Z3_mk_div(ctx.c, l.c, r.c)}
}

func (ctx *Context) Power(l, r Term) Term {
	return Term{ctx, C.Z3_mk_power(ctx.c, l.c, r.c)}
}

func (ctx *Context) LE(l, r Term) Term {
	return Term{ctx, C.Z3_mk_le(ctx.c, l.c, r.c)}
}

func (ctx *Context) LT(l, r Term) Term {
	return Term{ctx, C.Z3_mk_lt(ctx.c, l.c, r.c)}
}

func (ctx *Context) Int2Real(t Term) Term {
	return Term{ctx, C.Z3_mk_int2real(ctx.c, t.c)}
}

/*
 *  Bitvectors
 */

func (ctx *Context) BVNot(t Term) Term { return Term{ctx, C.Z3_mk_bvnot(ctx.c, t.c)} }
func (ctx *Context) BVNeg(t Term) Term { return Term{ctx, C.Z3_mk_bvneg(ctx.c, t.c)} }
func (ctx *Context) BVAnd(l, r Term) Term { return Term{ctx, C.Z3_mk_bvand(ctx.c, l.c, r.c)} }
func (ctx *Context) BVOr(l, r Term) Term { return Term{ctx, C.Z3_mk_bvor(ctx.c, l.c, r.c)} }
func (ctx *Context) BVXor(l, r Term) Term { return Term{ctx, C.Z3_mk_bvxor(ctx.c, l.c, r.c)} }
func (ctx *Context) BVAdd(l, r Term) Term { return Term{ctx, C.Z3_mk_bvadd(ctx.c, l.c, r.c)} }
func (ctx *Context) BVSub(l, r Term) Term { return Term{ctx, C.Z3_mk_bvsub(ctx.c, l.c, r.c)} }
func (ctx *Context) BVMul(l, r Term) Term { return Term{ctx, C.Z3_mk_bvmul(ctx.c, l.c, r.c)} }
func (ctx *Context) BVUDiv(l, r Term) Term { return Term{ctx, C.Z3_mk_bvudiv(ctx.c, l.c, r.c)} }
func (ctx *Context) BVSDiv(l, r Term) Term { return Term{ctx, C.Z3_mk_bvsdiv(ctx.c, l.c, r.c)} }
func (ctx *Context) BVURem(l, r Term) Term { return Term{ctx, C.Z3_mk_bvurem(ctx.c, l.c, r.c)} }
func (ctx *Context) BVSRem(l, r Term) Term { return Term{ctx, C.Z3_mk_bvsrem(ctx.c, l.c, r.c)} }
func (ctx *Context) BVShl(l, r Term) Term { return Term{ctx, C.Z3_mk_bvshl(ctx.c, l.c, r.c)} }
func (ctx *Context) BVLShr(l, r Term) Term { return Term{ctx, C.Z3_mk_bvlshr(ctx.c, l.c, r.c)} }
func (ctx *Context) BVAShr(l, r Term) Term { return Term{ctx, C.Z3_mk_bvashr(ctx.c, l.c, r.c)} }
func (ctx *Context) BVULT(l, r Term) Term { return Term{ctx, C.Z3_mk_bvult(ctx.c, l.c, r.c)} }
func (ctx *Context) BVULE(l, r Term) Term { return Term{ctx, C.Z3_mk_bvule(ctx.c, l.c, r.c)} }
func (ctx *Context) BVSLT(l, r Term) Term { return Term{ctx, C.Z3_mk_bvslt(ctx.c, l.c, r.c)} }
func (ctx *Context) BVSLE(l, r Term) Term { return Term{ctx, C.Z3_mk_bvsle(ctx.c, l.c, r.c)} }

func (ctx *Context) Concat(l, r Term) Term {
	return Term{ctx, C.Z3_mk_concat(ctx.c, l.c, r.c)}
}

func (ctx *Context) Extract(high, low uint, t Term) Term {
	return Term{ctx, C.Z3_mk_extract(ctx.c, C.uint(high), C.uint(low), t.c)}
}

func (ctx *Context) ZeroExt(n uint, t Term) Term {
	return Term{ctx, C.Z3_mk_zero_ext(ctx.c, C.uint(n), t.c)}
}

func (ctx *Context) SignExt(n uint, t Term) Term {
	return Term{ctx, C.Z3_mk_sign_ext(ctx.c, C.uint(n), t.c)}
}

// ExtRotateLeft rotates t left by the amount denoted by the step term.
func (ctx *Context) ExtRotateLeft(t, step Term) Term {
	return Term{ctx, C.Z3_mk_ext_rotate_left(ctx.c, t.c, step.c)}
}

func (ctx *Context) ExtRotateRight(t, step Term) Term {
	return Term{ctx, C.Z3_mk_ext_rotate_right(ctx.c, t.c, step.c)}
}

// BV2Int converts a vector to the (unsigned) integer it denotes.
func (ctx *Context) BV2Int(t Term) Term {
	return Term{ctx, C.Z3_mk_bv2int(ctx.c, t.c, C.bool(false))}
}

/*
 *  Arrays
 */

func (ctx *Context) Select(arr, idx Term) Term {
	return Term{ctx, C.Z3_mk_select(ctx.c, arr.c, idx.c)}
}

func (ctx *Context) Store(arr, idx, val Term) Term {
	return Term{ctx, C.Z3_mk_store(ctx.c, arr.c, idx.c, val.c)}
}

// ConstArray builds the array with the given index sort mapping every
// index to value.
func (ctx *Context) ConstArray(index Sort, value Term) Term {
	return Term{ctx, C.Z3_mk_const_array(ctx.c, index.c, value.c)}
}

/*
 *  Quantifiers
 */

// Quantifier builds a universally or existentially quantified term over
// the given bound constants.
func (ctx *Context) Quantifier(forall bool, bound []Term, body Term) Term {
	raw := make([]C.Z3_app, len(bound))
	for i, b := range bound {
		raw[i] = C.Z3_to_app(ctx.c, b.c)
	}
	return Term{ctx, C.Z3_mk_quantifier_const(ctx.c, C.bool(forall), 1,
		C.uint(len(raw)), &raw[0], 0, nil, body.c)}
}
