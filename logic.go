package smtkit

// Logic is a coarse classification of the theories a formula touches. It is
// only as fine grained as the quantifier eliminator needs.
type Logic struct {
	Quantified bool
	Ints       bool
	Reals      bool
	BVs        bool
	Arrays     bool
	Functions  bool
	Custom     bool
	NonLinear  bool
}

// IsLinearReal reports containment in linear real arithmetic (possibly
// quantified). Formulas touching no arithmetic at all qualify: the
// propositional fragment sits inside it.
func (l Logic) IsLinearReal() bool {
	return !l.Ints && !l.BVs && !l.Arrays && !l.Functions &&
		!l.Custom && !l.NonLinear
}

// IsLinearInt reports containment in linear integer arithmetic (possibly
// quantified), with the same propositional floor as IsLinearReal.
func (l Logic) IsLinearInt() bool {
	return !l.Reals && !l.BVs && !l.Arrays && !l.Functions &&
		!l.Custom && !l.NonLinear
}

// LogicOf walks the DAG once and accumulates the touched theories.
func (eb *FormulaBuilder) LogicOf(f *Formula) (Logic, error) {
	var l Logic
	seen := map[uint64]bool{}
	stack := []*Formula{f}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur.id] {
			continue
		}
		seen[cur.id] = true

		t, err := eb.TypeOf(cur)
		if err != nil {
			return Logic{}, err
		}
		l.noteType(t)

		switch cur.knd {
		case TY_FORALL, TY_EXISTS:
			l.Quantified = true
		case TY_FUNCTION:
			l.Functions = true
		case TY_TIMES:
			nonConst := 0
			for _, a := range cur.args {
				if !a.IsConst() {
					nonConst += 1
				}
			}
			if nonConst > 1 {
				l.NonLinear = true
			}
		case TY_DIV:
			if !cur.args[1].IsConst() {
				l.NonLinear = true
			}
		case TY_POW:
			l.NonLinear = true
		case TY_SYM:
			l.noteType(cur.symType)
		}

		stack = append(stack, cur.args...)
		stack = append(stack, cur.vars...)
	}
	return l, nil
}

func (l *Logic) noteType(t *Type) {
	switch {
	case t.IsInt():
		l.Ints = true
	case t.IsReal():
		l.Reals = true
	case t.IsBV():
		l.BVs = true
	case t.IsArray():
		l.Arrays = true
	case t.IsCustom():
		l.Custom = true
	case t.IsFunction():
		l.Functions = true
	}
}
