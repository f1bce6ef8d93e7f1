package smtkit

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/smtkit/smtkit/z3"
)

// backKey memoizes reconstruction per native term and per model, since the
// same term can resolve differently under different models (as-array).
type backKey struct {
	ast   uint64
	model uintptr
}

type backRule func(t z3.Term, args []*Formula) (*Formula, error)

func (c *Converter) initBackTable() {
	eb := c.eb
	c.backFun = map[z3.DeclKind]backRule{
		z3.OpTrue:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.TRUE(), nil },
		z3.OpFalse: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.FALSE(), nil },

		z3.OpEq:      c.backEq,
		z3.OpITE:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Ite(a[0], a[1], a[2]) },
		z3.OpAnd:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.And(a...) },
		z3.OpOr:      func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Or(a...) },
		z3.OpIff:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Iff(a[0], a[1]) },
		z3.OpXor:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Xor(a[0], a[1]) },
		z3.OpNot:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Not(a[0]) },
		z3.OpImplies: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Implies(a[0], a[1]) },

		z3.OpAdd:    func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Plus(a...) },
		z3.OpSub:    func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Minus(a[0], a[1]) },
		z3.OpUminus: c.backUminus,
		z3.OpMul:    func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Times(a...) },
		z3.OpDiv:    func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Div(a[0], a[1]) },
		z3.OpPower:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Pow(a[0], a[1]) },
		z3.OpLE:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.LE(a[0], a[1]) },
		z3.OpLT:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.LT(a[0], a[1]) },
		z3.OpGE:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.GE(a[0], a[1]) },
		z3.OpGT:     func(t z3.Term, a []*Formula) (*Formula, error) { return eb.GT(a[0], a[1]) },
		z3.OpToReal: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.ToReal(a[0]) },

		z3.OpBNot:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVNot(a[0]) },
		z3.OpBNeg:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVNeg(a[0]) },
		z3.OpBAnd:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVAnd(a[0], a[1]) },
		z3.OpBOr:   func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVOr(a[0], a[1]) },
		z3.OpBXor:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVXor(a[0], a[1]) },
		z3.OpBAdd:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVAdd(a[0], a[1]) },
		z3.OpBSub:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSub(a[0], a[1]) },
		z3.OpBMul:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVMul(a[0], a[1]) },
		z3.OpBUDiv: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVUDiv(a[0], a[1]) },
		z3.OpBSDiv: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSDiv(a[0], a[1]) },
		z3.OpBURem: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVURem(a[0], a[1]) },
		z3.OpBSRem: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSRem(a[0], a[1]) },
		z3.OpBShl:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVShl(a[0], a[1]) },
		z3.OpBLShr: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVLShr(a[0], a[1]) },
		z3.OpBAShr: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVAShr(a[0], a[1]) },

		z3.OpULT: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVULT(a[0], a[1]) },
		z3.OpULE: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVULE(a[0], a[1]) },
		z3.OpUGT: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVUGT(a[0], a[1]) },
		z3.OpUGE: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVUGE(a[0], a[1]) },
		z3.OpSLT: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSLT(a[0], a[1]) },
		z3.OpSLE: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSLE(a[0], a[1]) },
		z3.OpSGT: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSGT(a[0], a[1]) },
		z3.OpSGE: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVSGE(a[0], a[1]) },

		z3.OpConcat: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.BVConcat(a[0], a[1]) },
		z3.OpExtract: func(t z3.Term, a []*Formula) (*Formula, error) {
			d := t.Decl()
			return eb.BVExtract(a[0], uint(d.IntParameter(0)), uint(d.IntParameter(1)))
		},
		z3.OpZeroExt: func(t z3.Term, a []*Formula) (*Formula, error) {
			return eb.BVZExt(a[0], uint(t.Decl().IntParameter(0)))
		},
		z3.OpSignExt: func(t z3.Term, a []*Formula) (*Formula, error) {
			return eb.BVSExt(a[0], uint(t.Decl().IntParameter(0)))
		},
		z3.OpRotateLeft: func(t z3.Term, a []*Formula) (*Formula, error) {
			return eb.BVRol(a[0], uint(t.Decl().IntParameter(0)))
		},
		z3.OpRotateRight: func(t z3.Term, a []*Formula) (*Formula, error) {
			return eb.BVRor(a[0], uint(t.Decl().IntParameter(0)))
		},
		z3.OpExtRotateLeft:  c.backExtRotate(true),
		z3.OpExtRotateRight: c.backExtRotate(false),
		z3.OpBV2Int: func(t z3.Term, a []*Formula) (*Formula, error) {
			return eb.BVToNatural(a[0])
		},

		z3.OpSelect: func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Select(a[0], a[1]) },
		z3.OpStore:  func(t z3.Term, a []*Formula) (*Formula, error) { return eb.Store(a[0], a[1], a[2]) },

		z3.OpConstArray: c.backConstArray,
	}
}

// backEq turns a native equality between booleans into Iff, since the
// builder keeps the two relations distinct.
func (c *Converter) backEq(t z3.Term, a []*Formula) (*Formula, error) {
	lt, err := c.eb.TypeOf(a[0])
	if err != nil {
		return nil, err
	}
	if lt.IsBool() {
		return c.eb.Iff(a[0], a[1])
	}
	return c.eb.Equals(a[0], a[1])
}

// backUminus rewrites unary minus as a multiplication by the typed
// constant -1.
func (c *Converter) backUminus(t z3.Term, a []*Formula) (*Formula, error) {
	ty, err := c.eb.TypeOf(a[0])
	if err != nil {
		return nil, err
	}
	var minusOne *Formula
	if ty.IsInt() {
		minusOne = c.eb.Int(-1)
	} else {
		minusOne = c.eb.Real(-1, 1)
	}
	return c.eb.Times(minusOne, a[0])
}

func (c *Converter) backExtRotate(left bool) backRule {
	return func(t z3.Term, a []*Formula) (*Formula, error) {
		if a[1].Kind() != TY_BV_CONST {
			return nil, &ConversionError{
				Msg:  "rotation by a non-constant step",
				Expr: t.String(),
			}
		}
		step := uint(a[1].bvVal.Uint64())
		if left {
			return c.eb.BVRol(a[0], step)
		}
		return c.eb.BVRor(a[0], step)
	}
}

func (c *Converter) backConstArray(t z3.Term, a []*Formula) (*Formula, error) {
	idxType, err := c.typeFromSort(t.Sort().Domain())
	if err != nil {
		return nil, err
	}
	return c.eb.Array(idxType, a[0])
}

/*
 *  Backward conversion
 */

// Back reconstructs a formula from a native term. A model may be supplied
// so that as-array values can be expanded; pass nil when no model is in
// play. Reconstruction is memoized per (term, model) pair.
func (c *Converter) Back(t z3.Term, model *z3.Model) (*Formula, error) {
	var mid uintptr
	if model != nil {
		mid = model.ID()
	}

	stack := []z3.Term{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		key := backKey{cur.ID(), mid}

		if f, ok := c.backMemo[key]; ok && f != nil {
			stack = stack[:len(stack)-1]
			continue
		}
		if _, visited := c.backMemo[key]; !visited {
			// First visit: schedule the unresolved children, then come
			// back once they carry entries.
			c.backMemo[key] = nil
			if cur.IsApp() {
				for _, a := range cur.Args() {
					ck := backKey{a.ID(), mid}
					if f, ok := c.backMemo[ck]; !ok || f == nil {
						stack = append(stack, a)
					}
				}
			}
			continue
		}

		f, err := c.backNode(cur, model, mid)
		if err != nil {
			c.dropPending()
			return nil, err
		}
		c.backMemo[key] = f
		stack = stack[:len(stack)-1]
	}
	return c.backMemo[backKey{t.ID(), mid}], nil
}

// dropPending clears the in-flight markers a failed reconstruction left
// behind, so a later call does not mistake them for finished entries.
func (c *Converter) dropPending() {
	for k, f := range c.backMemo {
		if f == nil {
			delete(c.backMemo, k)
		}
	}
}

func (c *Converter) backNode(cur z3.Term, model *z3.Model, mid uintptr) (*Formula, error) {
	if cur.IsQuantifier() {
		return nil, &ConversionError{
			Msg:  "quantified terms cannot be reconstructed",
			Expr: cur.String(),
		}
	}
	if cur.IsNumeral() {
		return c.backNumeral(cur)
	}
	if cur.IsAsArray() {
		return c.backAsArray(cur, model)
	}
	if !cur.IsApp() {
		return nil, &ConversionError{
			Msg:  "unsupported term shape",
			Expr: cur.String(),
		}
	}

	args := make([]*Formula, cur.NumArgs())
	for i := range args {
		args[i] = c.backMemo[backKey{cur.Arg(i).ID(), mid}]
	}

	decl := cur.Decl()
	if rule, ok := c.backFun[decl.Kind()]; ok {
		return rule(cur, args)
	}
	if decl.Kind() == z3.OpUninterpreted {
		if len(args) == 0 {
			return c.backSymbol(cur)
		}
		fn, err := c.eb.GetSymbol(decl.Name())
		if err != nil {
			return nil, err
		}
		return c.eb.Function(fn, args...)
	}
	return nil, &ConversionError{
		Msg:  fmt.Sprintf("unsupported operator %d", decl.Kind()),
		Expr: cur.String(),
	}
}

// algebraicPrecision bounds the decimal expansion used when an algebraic
// number has to be rendered as text.
const algebraicPrecision = 10

func (c *Converter) backNumeral(cur z3.Term) (*Formula, error) {
	sort := cur.Sort()
	switch sort.Kind() {
	case z3.SortInt:
		v, ok := new(big.Int).SetString(cur.NumeralString(), 10)
		if !ok {
			return nil, &ConversionError{Msg: "malformed integer literal", Expr: cur.String()}
		}
		return c.eb.IntBig(v), nil

	case z3.SortReal:
		// Algebraic roots have no exact rational rendering; they survive
		// only as annotated text.
		if cur.IsAlgebraic() {
			ty, err := c.typeFromSort(sort)
			if err != nil {
				return nil, err
			}
			return c.eb.Algebraic(cur.AlgebraicString(algebraicPrecision), ty), nil
		}
		num, ok := new(big.Int).SetString(cur.Numerator().NumeralString(), 10)
		if !ok {
			return nil, &ConversionError{Msg: "malformed rational numerator", Expr: cur.String()}
		}
		den, ok := new(big.Int).SetString(cur.Denominator().NumeralString(), 10)
		if !ok {
			return nil, &ConversionError{Msg: "malformed rational denominator", Expr: cur.String()}
		}
		return c.eb.RealRat(new(big.Rat).SetFrac(num, den)), nil

	case z3.SortBV:
		v, ok := new(big.Int).SetString(cur.NumeralString(), 10)
		if !ok {
			return nil, &ConversionError{Msg: "malformed bitvector literal", Expr: cur.String()}
		}
		return c.eb.BVBig(v, sort.BVSize()), nil
	}
	return nil, &ConversionError{
		Msg:  fmt.Sprintf("numeral of unsupported sort %s", sort),
		Expr: cur.String(),
	}
}

// backAsArray expands a function-graph array value through the model that
// produced it.
func (c *Converter) backAsArray(cur z3.Term, model *z3.Model) (*Formula, error) {
	if model == nil {
		return nil, &ConversionError{
			Msg:  "array value requires a model",
			Expr: cur.String(),
		}
	}
	decl := cur.AsArrayDecl()
	interp, ok := model.FuncInterp(decl)
	if !ok {
		return nil, &ConversionError{
			Msg:  "no interpretation for array value",
			Expr: cur.String(),
		}
	}
	defer interp.Close()

	deflt, err := c.Back(interp.ElseValue(), model)
	if err != nil {
		return nil, err
	}
	idxType, err := c.typeFromSort(cur.Sort().Domain())
	if err != nil {
		return nil, err
	}
	entries := make([]ArrayEntry, 0, interp.NumEntries())
	for i := 0; i < interp.NumEntries(); i++ {
		eargs, eval := interp.Entry(i)
		idx, err := c.Back(eargs[0], model)
		if err != nil {
			return nil, err
		}
		val, err := c.Back(eval, model)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ArrayEntry{Index: idx, Value: val})
	}
	return c.eb.Array(idxType, deflt, entries...)
}

// backSymbol resolves an uninterpreted constant against the builder's
// symbol table, minting the symbol when the name is unknown. Minting
// happens when the engine invents names of its own (skolemization,
// quantifier elimination), and is worth flagging.
func (c *Converter) backSymbol(cur z3.Term) (*Formula, error) {
	name := cur.Decl().Name()
	if sym, err := c.eb.GetSymbol(name); err == nil {
		return sym, nil
	}
	ty, err := c.typeFromSort(cur.Sort())
	if err != nil {
		return nil, err
	}
	log.Warnf("defining previously unknown symbol: %s", name)
	return c.eb.Symbol(name, ty)
}

func (c *Converter) typeFromSort(s z3.Sort) (*Type, error) {
	switch s.Kind() {
	case z3.SortBool:
		return BoolType(), nil
	case z3.SortInt:
		return IntType(), nil
	case z3.SortReal:
		return RealType(), nil
	case z3.SortBV:
		return BVType(s.BVSize()), nil
	case z3.SortArray:
		idx, err := c.typeFromSort(s.Domain())
		if err != nil {
			return nil, err
		}
		elem, err := c.typeFromSort(s.Range())
		if err != nil {
			return nil, err
		}
		return ArrayType(idx, elem), nil
	case z3.SortUninterpreted:
		return CustomType(s.Name()), nil
	}
	return nil, &ConversionError{Msg: fmt.Sprintf("unsupported sort %s", s)}
}
