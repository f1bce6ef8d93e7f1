package smtkit

import "fmt"

// TypeOf computes the static type of a formula. Results are memoized per
// node id, so repeated queries over a shared DAG are cheap. The builder's
// constructors already reject ill-typed combinations; TypeOf only has to
// propagate types upwards.
func (eb *FormulaBuilder) TypeOf(f *Formula) (*Type, error) {
	eb.lock.Lock()
	if t, ok := eb.typeMemo[f.id]; ok {
		eb.lock.Unlock()
		return t, nil
	}
	eb.lock.Unlock()

	t, err := eb.computeType(f)
	if err != nil {
		return nil, err
	}
	eb.lock.Lock()
	eb.typeMemo[f.id] = t
	eb.lock.Unlock()
	return t, nil
}

func (eb *FormulaBuilder) computeType(f *Formula) (*Type, error) {
	switch f.knd {
	case TY_SYM:
		return f.symType, nil
	case TY_BOOL_CONST:
		return BoolType(), nil
	case TY_INT_CONST:
		return IntType(), nil
	case TY_REAL_CONST:
		return RealType(), nil
	case TY_BV_CONST:
		return BVType(f.bvWidth), nil
	case TY_ALGEBRAIC_CONST:
		return f.algTyp, nil

	case TY_NOT, TY_AND, TY_OR, TY_IMPLIES, TY_IFF, TY_XOR,
		TY_EQ, TY_LT, TY_LE,
		TY_BV_ULT, TY_BV_ULE, TY_BV_SLT, TY_BV_SLE,
		TY_FORALL, TY_EXISTS:
		return BoolType(), nil

	case TY_ITE:
		return eb.TypeOf(f.args[1])

	case TY_PLUS, TY_MINUS, TY_TIMES, TY_DIV, TY_POW:
		return eb.TypeOf(f.args[0])

	case TY_TOREAL:
		return RealType(), nil
	case TY_BV_TONATURAL:
		return IntType(), nil

	case TY_BV_NOT, TY_BV_NEG, TY_BV_AND, TY_BV_OR, TY_BV_XOR,
		TY_BV_ADD, TY_BV_SUB, TY_BV_MUL,
		TY_BV_UDIV, TY_BV_SDIV, TY_BV_UREM, TY_BV_SREM,
		TY_BV_SHL, TY_BV_LSHR, TY_BV_ASHR:
		return eb.TypeOf(f.args[0])

	case TY_BV_CONCAT:
		tl, err := eb.TypeOf(f.args[0])
		if err != nil {
			return nil, err
		}
		tr, err := eb.TypeOf(f.args[1])
		if err != nil {
			return nil, err
		}
		return BVType(tl.BVWidth() + tr.BVWidth()), nil

	case TY_BV_EXTRACT:
		return BVType(f.params[0] - f.params[1] + 1), nil

	case TY_BV_ZEXT, TY_BV_SEXT:
		t, err := eb.TypeOf(f.args[0])
		if err != nil {
			return nil, err
		}
		return BVType(t.BVWidth() + f.params[0]), nil

	case TY_BV_ROL, TY_BV_ROR:
		return eb.TypeOf(f.args[0])

	case TY_BV_COMP:
		return BVType(1), nil

	case TY_SELECT:
		t, err := eb.TypeOf(f.args[0])
		if err != nil {
			return nil, err
		}
		return t.ElemType(), nil

	case TY_STORE:
		return eb.TypeOf(f.args[0])

	case TY_ARRAY_VALUE:
		td, err := eb.TypeOf(f.args[0])
		if err != nil {
			return nil, err
		}
		return ArrayType(f.idxType, td), nil

	case TY_FUNCTION:
		return f.fn.symType.ReturnType(), nil
	}
	return nil, fmt.Errorf("cannot type formula of kind %d", f.knd)
}
