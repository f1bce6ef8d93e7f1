package smtkit

import (
	"fmt"

	"github.com/smtkit/smtkit/z3"
)

// Converter translates between the formula DAG and the native term algebra
// of one Z3 context. It owns the sort and declaration caches and the two
// memo tables, and with them every native reference count it ever took:
// Close releases them all exactly once.
//
// A Converter is private to the session that created it and follows its
// single-goroutine confinement.
type Converter struct {
	eb  *FormulaBuilder
	ctx *z3.Context

	boolSort z3.Sort
	intSort  z3.Sort
	realSort z3.Sort

	bvSorts     map[uint]z3.Sort
	arraySorts  map[string]z3.Sort
	customSorts map[string]z3.Sort
	decls       map[string]z3.FuncDecl

	memo     map[uint64]z3.Term
	backMemo map[backKey]*Formula

	backFun map[z3.DeclKind]backRule

	closed bool
}

func NewConverter(eb *FormulaBuilder, ctx *z3.Context) *Converter {
	c := &Converter{
		eb:          eb,
		ctx:         ctx,
		boolSort:    ctx.BoolSort(),
		intSort:     ctx.IntSort(),
		realSort:    ctx.RealSort(),
		bvSorts:     map[uint]z3.Sort{},
		arraySorts:  map[string]z3.Sort{},
		customSorts: map[string]z3.Sort{},
		decls:       map[string]z3.FuncDecl{},
		memo:        map[uint64]z3.Term{},
		backMemo:    map[backKey]*Formula{},
	}
	c.boolSort.IncRef()
	c.intSort.IncRef()
	c.realSort.IncRef()
	c.initBackTable()
	return c
}

// Close releases every native reference the converter holds. The converter
// must not be used afterwards.
func (c *Converter) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, t := range c.memo {
		t.DecRef()
	}
	for _, s := range c.bvSorts {
		s.DecRef()
	}
	for _, s := range c.arraySorts {
		s.DecRef()
	}
	for _, s := range c.customSorts {
		s.DecRef()
	}
	for _, d := range c.decls {
		d.DecRef()
	}
	c.boolSort.DecRef()
	c.intSort.DecRef()
	c.realSort.DecRef()
	c.memo = nil
	c.bvSorts = nil
	c.arraySorts = nil
	c.customSorts = nil
	c.decls = nil
	c.backMemo = nil
}

/*
 *  Sort and declaration caches
 */

// bvSort returns the native bitvector sort for the given width, one cache
// entry per width for the converter's lifetime.
func (c *Converter) bvSort(width uint) z3.Sort {
	if s, ok := c.bvSorts[width]; ok {
		return s
	}
	s := c.ctx.BVSort(width)
	s.IncRef()
	c.bvSorts[width] = s
	return s
}

func (c *Converter) sortOf(t *Type) (z3.Sort, error) {
	switch {
	case t.IsBool():
		return c.boolSort, nil
	case t.IsInt():
		return c.intSort, nil
	case t.IsReal():
		return c.realSort, nil
	case t.IsBV():
		return c.bvSort(t.BVWidth()), nil
	case t.IsArray():
		if s, ok := c.arraySorts[t.key()]; ok {
			return s, nil
		}
		idx, err := c.sortOf(t.IndexType())
		if err != nil {
			return z3.Sort{}, err
		}
		elem, err := c.sortOf(t.ElemType())
		if err != nil {
			return z3.Sort{}, err
		}
		s := c.ctx.ArraySort(idx, elem)
		s.IncRef()
		c.arraySorts[t.key()] = s
		return s, nil
	case t.IsCustom():
		if s, ok := c.customSorts[t.Name()]; ok {
			return s, nil
		}
		s := c.ctx.UninterpretedSort(t.Name())
		s.IncRef()
		c.customSorts[t.Name()] = s
		return s, nil
	case t.IsString():
		return z3.Sort{}, &ConversionError{Msg: "unsupported string sort"}
	}
	return z3.Sort{}, &ConversionError{Msg: fmt.Sprintf("unsupported type %s", t)}
}

// funcDecl returns the native declaration for a function symbol, cached by
// name for the converter's lifetime.
func (c *Converter) funcDecl(sym *Formula) (z3.FuncDecl, error) {
	if d, ok := c.decls[sym.name]; ok {
		return d, nil
	}
	tp := sym.symType
	domain := make([]z3.Sort, len(tp.ParamTypes()))
	for i, pt := range tp.ParamTypes() {
		s, err := c.sortOf(pt)
		if err != nil {
			return z3.FuncDecl{}, err
		}
		domain[i] = s
	}
	rng, err := c.sortOf(tp.ReturnType())
	if err != nil {
		return z3.FuncDecl{}, err
	}
	d := c.ctx.FuncDecl(sym.name, domain, rng)
	d.IncRef()
	c.decls[sym.name] = d
	return d, nil
}

/*
 *  Forward conversion
 */

// Convert lowers a formula into a native term. The traversal is an
// explicit post-order walk over the DAG: every node is converted exactly
// once and the resulting term is kept, referenced, in the memo table.
func (c *Converter) Convert(f *Formula) (z3.Term, error) {
	stack := []*Formula{f}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		if _, ok := c.memo[cur.id]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		ready := true
		for _, ch := range c.children(cur) {
			if _, ok := c.memo[ch.id]; !ok {
				stack = append(stack, ch)
				ready = false
			}
		}
		if !ready {
			continue
		}

		// convertNode hands back a term carrying one reference, which
		// the memo table now owns.
		t, err := c.convertNode(cur)
		if err != nil {
			return z3.Term{}, err
		}
		c.memo[cur.id] = t
		stack = stack[:len(stack)-1]
	}
	return c.memo[f.id], nil
}

// children lists the sub-nodes that must be converted before cur. Bound
// variables of a quantifier count: they lower to plain constants.
func (c *Converter) children(cur *Formula) []*Formula {
	if len(cur.vars) == 0 {
		return cur.args
	}
	deps := make([]*Formula, 0, len(cur.args)+len(cur.vars))
	deps = append(deps, cur.args...)
	deps = append(deps, cur.vars...)
	return deps
}

func (c *Converter) childTerms(cur *Formula) []z3.Term {
	args := make([]z3.Term, len(cur.args))
	for i, a := range cur.args {
		args[i] = c.memo[a.id]
	}
	return args
}

func (c *Converter) convertNode(cur *Formula) (z3.Term, error) {
	ctx := c.ctx
	args := c.childTerms(cur)

	switch cur.knd {
	case TY_SYM:
		if cur.symType.IsFunction() {
			return z3.Term{}, &ConversionError{
				Msg:  "a function symbol is not a term",
				Expr: cur.name,
			}
		}
		sort, err := c.sortOf(cur.symType)
		if err != nil {
			return z3.Term{}, err
		}
		return c.own(ctx.Const(cur.name, sort)), nil

	case TY_BOOL_CONST:
		return c.own(ctx.Bool(cur.bval)), nil
	case TY_INT_CONST:
		return c.own(ctx.Numeral(cur.ival.String(), c.intSort)), nil
	case TY_REAL_CONST:
		repr := cur.rval.Num().String() + "/" + cur.rval.Denom().String()
		return c.own(ctx.Numeral(repr, c.realSort)), nil
	case TY_BV_CONST:
		return c.own(ctx.Numeral(cur.bvVal.String(), c.bvSort(cur.bvWidth))), nil
	case TY_ALGEBRAIC_CONST:
		return z3.Term{}, &ConversionError{
			Msg:  "algebraic constants cannot be lowered",
			Expr: cur.algval,
		}

	case TY_NOT:
		return c.own(ctx.Not(args[0])), nil
	case TY_AND:
		return c.own(ctx.And(args...)), nil
	case TY_OR:
		return c.own(ctx.Or(args...)), nil
	case TY_IMPLIES:
		return c.own(ctx.Implies(args[0], args[1])), nil
	case TY_IFF:
		return c.own(ctx.Iff(args[0], args[1])), nil
	case TY_XOR:
		return c.own(ctx.Xor(args[0], args[1])), nil

	case TY_ITE:
		t, err := c.eb.TypeOf(cur)
		if err != nil {
			return z3.Term{}, err
		}
		if t.IsBool() {
			return c.convertBoolIte(args[0], args[1], args[2]), nil
		}
		return c.own(ctx.Ite(args[0], args[1], args[2])), nil

	case TY_EQ:
		return c.own(ctx.Eq(args[0], args[1])), nil
	case TY_LT:
		return c.own(ctx.LT(args[0], args[1])), nil
	case TY_LE:
		return c.own(ctx.LE(args[0], args[1])), nil

	case TY_PLUS:
		return c.own(ctx.Add(args...)), nil
	case TY_MINUS:
		return c.own(ctx.Sub(args...)), nil
	case TY_TIMES:
		return c.own(ctx.Mul(args...)), nil
	case TY_DIV:
		return c.own(ctx.Div(args[0], args[1])), nil
	case TY_POW:
		return c.own(ctx.Power(args[0], args[1])), nil
	case TY_TOREAL:
		return c.own(ctx.Int2Real(args[0])), nil

	case TY_BV_NOT:
		return c.own(ctx.BVNot(args[0])), nil
	case TY_BV_NEG:
		return c.own(ctx.BVNeg(args[0])), nil
	case TY_BV_AND:
		return c.own(ctx.BVAnd(args[0], args[1])), nil
	case TY_BV_OR:
		return c.own(ctx.BVOr(args[0], args[1])), nil
	case TY_BV_XOR:
		return c.own(ctx.BVXor(args[0], args[1])), nil
	case TY_BV_ADD:
		return c.own(ctx.BVAdd(args[0], args[1])), nil
	case TY_BV_SUB:
		return c.own(ctx.BVSub(args[0], args[1])), nil
	case TY_BV_MUL:
		return c.own(ctx.BVMul(args[0], args[1])), nil
	case TY_BV_UDIV:
		return c.own(ctx.BVUDiv(args[0], args[1])), nil
	case TY_BV_SDIV:
		return c.own(ctx.BVSDiv(args[0], args[1])), nil
	case TY_BV_UREM:
		return c.own(ctx.BVURem(args[0], args[1])), nil
	case TY_BV_SREM:
		return c.own(ctx.BVSRem(args[0], args[1])), nil
	case TY_BV_SHL:
		return c.own(ctx.BVShl(args[0], args[1])), nil
	case TY_BV_LSHR:
		return c.own(ctx.BVLShr(args[0], args[1])), nil
	case TY_BV_ASHR:
		return c.own(ctx.BVAShr(args[0], args[1])), nil
	case TY_BV_CONCAT:
		return c.own(ctx.Concat(args[0], args[1])), nil

	case TY_BV_ULT:
		return c.own(ctx.BVULT(args[0], args[1])), nil
	case TY_BV_ULE:
		return c.own(ctx.BVULE(args[0], args[1])), nil
	case TY_BV_SLT:
		return c.own(ctx.BVSLT(args[0], args[1])), nil
	case TY_BV_SLE:
		return c.own(ctx.BVSLE(args[0], args[1])), nil

	case TY_BV_EXTRACT:
		return c.own(ctx.Extract(cur.params[0], cur.params[1], args[0])), nil
	case TY_BV_ZEXT:
		return c.own(ctx.ZeroExt(cur.params[0], args[0])), nil
	case TY_BV_SEXT:
		return c.own(ctx.SignExt(cur.params[0], args[0])), nil

	case TY_BV_ROL, TY_BV_ROR:
		// The rotation step travels as a same-width vector so the native
		// operator keeps the explicit parameter.
		w, err := c.eb.bvWidthOf(cur.args[0])
		if err != nil {
			return z3.Term{}, err
		}
		step := ctx.Numeral(fmt.Sprintf("%d", cur.params[0]), c.bvSort(w))
		step.IncRef()
		var res z3.Term
		if cur.knd == TY_BV_ROL {
			res = ctx.ExtRotateLeft(args[0], step)
		} else {
			res = ctx.ExtRotateRight(args[0], step)
		}
		res.IncRef()
		step.DecRef()
		return res, nil

	case TY_BV_COMP:
		cond := ctx.Eq(args[0], args[1])
		cond.IncRef()
		one := ctx.Numeral("1", c.bvSort(1))
		one.IncRef()
		zero := ctx.Numeral("0", c.bvSort(1))
		zero.IncRef()
		res := ctx.Ite(cond, one, zero)
		res.IncRef()
		cond.DecRef()
		one.DecRef()
		zero.DecRef()
		return res, nil

	case TY_BV_TONATURAL:
		return c.own(ctx.BV2Int(args[0])), nil

	case TY_SELECT:
		return c.own(ctx.Select(args[0], args[1])), nil
	case TY_STORE:
		return c.own(ctx.Store(args[0], args[1], args[2])), nil

	case TY_ARRAY_VALUE:
		idxSort, err := c.sortOf(cur.idxType)
		if err != nil {
			return z3.Term{}, err
		}
		// Nested stores over a constant-array base.
		res := ctx.ConstArray(idxSort, args[0])
		res.IncRef()
		for i := 1; i < len(args); i += 2 {
			next := ctx.Store(res, args[i], args[i+1])
			next.IncRef()
			res.DecRef()
			res = next
		}
		return res, nil

	case TY_FUNCTION:
		decl, err := c.funcDecl(cur.fn)
		if err != nil {
			return z3.Term{}, err
		}
		return c.own(decl.Apply(args...)), nil

	case TY_FORALL, TY_EXISTS:
		bound := make([]z3.Term, len(cur.vars))
		for i, v := range cur.vars {
			bound[i] = c.memo[v.id]
		}
		return c.own(ctx.Quantifier(cur.knd == TY_FORALL, bound, args[0])), nil
	}

	return z3.Term{}, &ConversionError{
		Msg:  fmt.Sprintf("no lowering for kind %d", cur.knd),
		Expr: cur.String(),
	}
}

// own takes the reference that the memo table will hold for a freshly
// built term.
func (c *Converter) own(t z3.Term) z3.Term {
	t.IncRef()
	return t
}

// convertBoolIte rewrites a boolean if-then-else as (!i \/ t) /\ (i \/ e)
// so it never depends on a native ternary over booleans. The returned
// term already carries the memo table's reference.
func (c *Converter) convertBoolIte(i, t, e z3.Term) z3.Term {
	ni := c.ctx.Not(i)
	ni.IncRef()
	or1 := c.ctx.Or(ni, t)
	or1.IncRef()
	or2 := c.ctx.Or(i, e)
	or2.IncRef()
	res := c.ctx.And(or1, or2)
	res.IncRef()
	ni.DecRef()
	or1.DecRef()
	or2.DecRef()
	return res
}
