package smtkit

import (
	"fmt"
	"math/big"
	"sync"
)

type BuilderStats struct {
	CacheHits    uint
	CacheLookups uint
	CachedNodes  uint
}

// FormulaBuilder owns the intern table and the symbol table of an
// environment. All formulas built by the same builder share structure: the
// builder is the only way to create Formula nodes.
type FormulaBuilder struct {
	lock     sync.Mutex
	cache    map[uint64][]*Formula
	symbols  map[string]*Formula
	typeMemo map[uint64]*Type
	nextID   uint64
	freshCnt uint

	Stats BuilderStats
}

func NewFormulaBuilder() *FormulaBuilder {
	return &FormulaBuilder{
		cache:    map[uint64][]*Formula{},
		symbols:  map[string]*Formula{},
		typeMemo: map[uint64]*Type{},
	}
}

func (eb *FormulaBuilder) PrintStats() {
	eb.lock.Lock()
	defer eb.lock.Unlock()

	fmt.Println("=======================")
	fmt.Println("  FormulaBuilder Stats")
	fmt.Println("=======================")
	fmt.Printf("hits:       %d\n", eb.Stats.CacheHits)
	fmt.Printf("hit ratio:  %.03f %%\n", float64(eb.Stats.CacheHits)/float64(eb.Stats.CacheLookups)*100)
	fmt.Printf("num cached: %d\n", eb.Stats.CachedNodes)
	fmt.Println("=======================")
}

func (eb *FormulaBuilder) getOrCreate(e *Formula) *Formula {
	eb.lock.Lock()
	defer eb.lock.Unlock()
	eb.Stats.CacheLookups += 1

	h := e.hash()
	bucket := eb.cache[h]
	for i := 0; i < len(bucket); i++ {
		if bucket[i].shallowEq(e) {
			eb.Stats.CacheHits += 1
			return bucket[i]
		}
	}
	eb.Stats.CachedNodes += 1
	eb.nextID += 1
	e.id = eb.nextID
	eb.cache[h] = append(bucket, e)
	return e
}

/*
 *  Symbols
 */

// Symbol returns the symbol with the given name, declaring it on first use.
// The same name always resolves to the same node; redeclaring a name at a
// different type is an error.
func (eb *FormulaBuilder) Symbol(name string, typ *Type) (*Formula, error) {
	eb.lock.Lock()
	if s, ok := eb.symbols[name]; ok {
		eb.lock.Unlock()
		if !s.symType.Equal(typ) {
			return nil, fmt.Errorf("symbol '%s' already declared with type %s", name, s.symType)
		}
		return s, nil
	}
	eb.lock.Unlock()

	s := eb.getOrCreate(&Formula{knd: TY_SYM, name: name, symType: typ})
	eb.lock.Lock()
	eb.symbols[name] = s
	eb.lock.Unlock()
	return s, nil
}

// GetSymbol resolves a previously declared name.
func (eb *FormulaBuilder) GetSymbol(name string) (*Formula, error) {
	eb.lock.Lock()
	defer eb.lock.Unlock()
	if s, ok := eb.symbols[name]; ok {
		return s, nil
	}
	return nil, &UndefinedSymbolError{Name: name}
}

// FreshSymbol declares a new symbol with a name derived from template,
// which must contain exactly one %d verb.
func (eb *FormulaBuilder) FreshSymbol(typ *Type, template string) *Formula {
	for {
		eb.lock.Lock()
		name := fmt.Sprintf(template, eb.freshCnt)
		eb.freshCnt += 1
		_, taken := eb.symbols[name]
		eb.lock.Unlock()
		if taken {
			continue
		}
		s, err := eb.Symbol(name, typ)
		if err != nil {
			continue
		}
		return s
	}
}

/*
 *  Constants
 */

func (eb *FormulaBuilder) BoolVal(v bool) *Formula {
	return eb.getOrCreate(&Formula{knd: TY_BOOL_CONST, bval: v})
}

func (eb *FormulaBuilder) TRUE() *Formula {
	return eb.BoolVal(true)
}

func (eb *FormulaBuilder) FALSE() *Formula {
	return eb.BoolVal(false)
}

func (eb *FormulaBuilder) Int(v int64) *Formula {
	return eb.IntBig(big.NewInt(v))
}

func (eb *FormulaBuilder) IntBig(v *big.Int) *Formula {
	return eb.getOrCreate(&Formula{knd: TY_INT_CONST, ival: new(big.Int).Set(v)})
}

func (eb *FormulaBuilder) Real(num, den int64) *Formula {
	return eb.RealRat(big.NewRat(num, den))
}

func (eb *FormulaBuilder) RealRat(v *big.Rat) *Formula {
	return eb.getOrCreate(&Formula{knd: TY_REAL_CONST, rval: new(big.Rat).Set(v)})
}

// BV builds a bitvector constant, truncating the value to the given width.
func (eb *FormulaBuilder) BV(v int64, width uint) *Formula {
	return eb.BVBig(big.NewInt(v), width)
}

func (eb *FormulaBuilder) BVBig(v *big.Int, width uint) *Formula {
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	val := new(big.Int).And(new(big.Int).Set(v), mask)
	return eb.getOrCreate(&Formula{knd: TY_BV_CONST, bvVal: val, bvWidth: width})
}

// Algebraic wraps an irrational value that only exists symbolically. The
// textual form comes from the engine's decimal printer.
func (eb *FormulaBuilder) Algebraic(text string, typ *Type) *Formula {
	return eb.getOrCreate(&Formula{knd: TY_ALGEBRAIC_CONST, algval: text, algTyp: typ})
}

/*
 *  Boolean connectives
 */

func (eb *FormulaBuilder) allBool(args []*Formula) error {
	for _, a := range args {
		t, err := eb.TypeOf(a)
		if err != nil {
			return err
		}
		if !t.IsBool() {
			return fmt.Errorf("expected Bool, got %s in '%s'", t, a)
		}
	}
	return nil
}

func (eb *FormulaBuilder) Not(f *Formula) (*Formula, error) {
	if err := eb.allBool([]*Formula{f}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_NOT, args: []*Formula{f}}), nil
}

func (eb *FormulaBuilder) And(args ...*Formula) (*Formula, error) {
	if len(args) == 0 {
		return eb.TRUE(), nil
	}
	if err := eb.allBool(args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return eb.getOrCreate(&Formula{knd: TY_AND, args: args}), nil
}

func (eb *FormulaBuilder) Or(args ...*Formula) (*Formula, error) {
	if len(args) == 0 {
		return eb.FALSE(), nil
	}
	if err := eb.allBool(args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return eb.getOrCreate(&Formula{knd: TY_OR, args: args}), nil
}

func (eb *FormulaBuilder) Implies(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.allBool([]*Formula{lhs, rhs}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_IMPLIES, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) Iff(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.allBool([]*Formula{lhs, rhs}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_IFF, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) Xor(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.allBool([]*Formula{lhs, rhs}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_XOR, args: []*Formula{lhs, rhs}}), nil
}

// Ite builds an if-then-else over any sort: the guard must be Bool and the
// two branches must agree on their type.
func (eb *FormulaBuilder) Ite(i, t, e *Formula) (*Formula, error) {
	if err := eb.allBool([]*Formula{i}); err != nil {
		return nil, err
	}
	tt, err := eb.TypeOf(t)
	if err != nil {
		return nil, err
	}
	te, err := eb.TypeOf(e)
	if err != nil {
		return nil, err
	}
	if !tt.Equal(te) {
		return nil, fmt.Errorf("ite branches with different types: %s and %s", tt, te)
	}
	return eb.getOrCreate(&Formula{knd: TY_ITE, args: []*Formula{i, t, e}}), nil
}

/*
 *  Relations
 */

// Equals builds a theory equality. Boolean operands must use Iff instead.
func (eb *FormulaBuilder) Equals(lhs, rhs *Formula) (*Formula, error) {
	tl, err := eb.TypeOf(lhs)
	if err != nil {
		return nil, err
	}
	tr, err := eb.TypeOf(rhs)
	if err != nil {
		return nil, err
	}
	if tl.IsBool() {
		return nil, fmt.Errorf("cannot use Equals on Bool operands, use Iff")
	}
	if !tl.Equal(tr) {
		return nil, fmt.Errorf("equality between different types: %s and %s", tl, tr)
	}
	return eb.getOrCreate(&Formula{knd: TY_EQ, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) sameArith(lhs, rhs *Formula) error {
	tl, err := eb.TypeOf(lhs)
	if err != nil {
		return err
	}
	tr, err := eb.TypeOf(rhs)
	if err != nil {
		return err
	}
	if !tl.IsArith() || !tl.Equal(tr) {
		return fmt.Errorf("arithmetic relation between %s and %s", tl, tr)
	}
	return nil
}

func (eb *FormulaBuilder) LT(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.sameArith(lhs, rhs); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_LT, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) LE(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.sameArith(lhs, rhs); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_LE, args: []*Formula{lhs, rhs}}), nil
}

// GT and GE normalize to the swapped strict/non-strict forms, so the node
// set only carries LT and LE.
func (eb *FormulaBuilder) GT(lhs, rhs *Formula) (*Formula, error) {
	return eb.LT(rhs, lhs)
}

func (eb *FormulaBuilder) GE(lhs, rhs *Formula) (*Formula, error) {
	return eb.LE(rhs, lhs)
}

/*
 *  Arithmetic
 */

func (eb *FormulaBuilder) allSameArith(args []*Formula) error {
	if len(args) < 2 {
		return fmt.Errorf("not enough operands")
	}
	t0, err := eb.TypeOf(args[0])
	if err != nil {
		return err
	}
	if !t0.IsArith() {
		return fmt.Errorf("expected arithmetic operand, got %s", t0)
	}
	for _, a := range args[1:] {
		t, err := eb.TypeOf(a)
		if err != nil {
			return err
		}
		if !t.Equal(t0) {
			return fmt.Errorf("mixed operand types %s and %s", t0, t)
		}
	}
	return nil
}

func (eb *FormulaBuilder) Plus(args ...*Formula) (*Formula, error) {
	if err := eb.allSameArith(args); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_PLUS, args: args}), nil
}

func (eb *FormulaBuilder) Minus(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.allSameArith([]*Formula{lhs, rhs}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_MINUS, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) Times(args ...*Formula) (*Formula, error) {
	if err := eb.allSameArith(args); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_TIMES, args: args}), nil
}

func (eb *FormulaBuilder) Div(lhs, rhs *Formula) (*Formula, error) {
	if err := eb.allSameArith([]*Formula{lhs, rhs}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_DIV, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) Pow(base, exp *Formula) (*Formula, error) {
	if err := eb.allSameArith([]*Formula{base, exp}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_POW, args: []*Formula{base, exp}}), nil
}

func (eb *FormulaBuilder) ToReal(f *Formula) (*Formula, error) {
	t, err := eb.TypeOf(f)
	if err != nil {
		return nil, err
	}
	if t.IsReal() {
		return f, nil
	}
	if !t.IsInt() {
		return nil, fmt.Errorf("to_real expects an Int operand, got %s", t)
	}
	return eb.getOrCreate(&Formula{knd: TY_TOREAL, args: []*Formula{f}}), nil
}

/*
 *  Bitvectors
 */

func (eb *FormulaBuilder) bvWidthOf(f *Formula) (uint, error) {
	t, err := eb.TypeOf(f)
	if err != nil {
		return 0, err
	}
	if !t.IsBV() {
		return 0, fmt.Errorf("expected a bitvector, got %s in '%s'", t, f)
	}
	return t.BVWidth(), nil
}

func (eb *FormulaBuilder) sameWidth(args ...*Formula) (uint, error) {
	w0, err := eb.bvWidthOf(args[0])
	if err != nil {
		return 0, err
	}
	for _, a := range args[1:] {
		w, err := eb.bvWidthOf(a)
		if err != nil {
			return 0, err
		}
		if w != w0 {
			return 0, fmt.Errorf("bitvector width mismatch: %d and %d", w0, w)
		}
	}
	return w0, nil
}

func (eb *FormulaBuilder) bvUnary(kind int, f *Formula) (*Formula, error) {
	if _, err := eb.bvWidthOf(f); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: kind, args: []*Formula{f}}), nil
}

func (eb *FormulaBuilder) bvBinary(kind int, lhs, rhs *Formula) (*Formula, error) {
	if _, err := eb.sameWidth(lhs, rhs); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: kind, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) BVNot(f *Formula) (*Formula, error) { return eb.bvUnary(TY_BV_NOT, f) }
func (eb *FormulaBuilder) BVNeg(f *Formula) (*Formula, error) { return eb.bvUnary(TY_BV_NEG, f) }

func (eb *FormulaBuilder) BVAnd(l, r *Formula) (*Formula, error)  { return eb.bvBinary(TY_BV_AND, l, r) }
func (eb *FormulaBuilder) BVOr(l, r *Formula) (*Formula, error)   { return eb.bvBinary(TY_BV_OR, l, r) }
func (eb *FormulaBuilder) BVXor(l, r *Formula) (*Formula, error)  { return eb.bvBinary(TY_BV_XOR, l, r) }
func (eb *FormulaBuilder) BVAdd(l, r *Formula) (*Formula, error)  { return eb.bvBinary(TY_BV_ADD, l, r) }
func (eb *FormulaBuilder) BVSub(l, r *Formula) (*Formula, error)  { return eb.bvBinary(TY_BV_SUB, l, r) }
func (eb *FormulaBuilder) BVMul(l, r *Formula) (*Formula, error)  { return eb.bvBinary(TY_BV_MUL, l, r) }
func (eb *FormulaBuilder) BVUDiv(l, r *Formula) (*Formula, error) { return eb.bvBinary(TY_BV_UDIV, l, r) }
func (eb *FormulaBuilder) BVSDiv(l, r *Formula) (*Formula, error) { return eb.bvBinary(TY_BV_SDIV, l, r) }
func (eb *FormulaBuilder) BVURem(l, r *Formula) (*Formula, error) { return eb.bvBinary(TY_BV_UREM, l, r) }
func (eb *FormulaBuilder) BVSRem(l, r *Formula) (*Formula, error) { return eb.bvBinary(TY_BV_SREM, l, r) }
func (eb *FormulaBuilder) BVShl(l, r *Formula) (*Formula, error)  { return eb.bvBinary(TY_BV_SHL, l, r) }
func (eb *FormulaBuilder) BVLShr(l, r *Formula) (*Formula, error) { return eb.bvBinary(TY_BV_LSHR, l, r) }
func (eb *FormulaBuilder) BVAShr(l, r *Formula) (*Formula, error) { return eb.bvBinary(TY_BV_ASHR, l, r) }

func (eb *FormulaBuilder) BVConcat(lhs, rhs *Formula) (*Formula, error) {
	if _, err := eb.bvWidthOf(lhs); err != nil {
		return nil, err
	}
	if _, err := eb.bvWidthOf(rhs); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_BV_CONCAT, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) BVExtract(f *Formula, high, low uint) (*Formula, error) {
	w, err := eb.bvWidthOf(f)
	if err != nil {
		return nil, err
	}
	if low > high || high >= w {
		return nil, fmt.Errorf("invalid extract bounds [%d:%d] on BV%d", high, low, w)
	}
	return eb.getOrCreate(&Formula{knd: TY_BV_EXTRACT, args: []*Formula{f}, params: []uint{high, low}}), nil
}

func (eb *FormulaBuilder) bvParam(kind int, f *Formula, n uint) (*Formula, error) {
	if _, err := eb.bvWidthOf(f); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: kind, args: []*Formula{f}, params: []uint{n}}), nil
}

// BVZExt extends f with n fresh zero bits.
func (eb *FormulaBuilder) BVZExt(f *Formula, n uint) (*Formula, error) {
	return eb.bvParam(TY_BV_ZEXT, f, n)
}

// BVSExt extends f with n copies of its sign bit.
func (eb *FormulaBuilder) BVSExt(f *Formula, n uint) (*Formula, error) {
	return eb.bvParam(TY_BV_SEXT, f, n)
}

func (eb *FormulaBuilder) BVRol(f *Formula, step uint) (*Formula, error) {
	return eb.bvParam(TY_BV_ROL, f, step)
}

func (eb *FormulaBuilder) BVRor(f *Formula, step uint) (*Formula, error) {
	return eb.bvParam(TY_BV_ROR, f, step)
}

// BVComp compares two equally sized vectors into a single bit.
func (eb *FormulaBuilder) BVComp(lhs, rhs *Formula) (*Formula, error) {
	return eb.bvBinary(TY_BV_COMP, lhs, rhs)
}

func (eb *FormulaBuilder) bvRelation(kind int, lhs, rhs *Formula) (*Formula, error) {
	if _, err := eb.sameWidth(lhs, rhs); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: kind, args: []*Formula{lhs, rhs}}), nil
}

func (eb *FormulaBuilder) BVULT(l, r *Formula) (*Formula, error) { return eb.bvRelation(TY_BV_ULT, l, r) }
func (eb *FormulaBuilder) BVULE(l, r *Formula) (*Formula, error) { return eb.bvRelation(TY_BV_ULE, l, r) }
func (eb *FormulaBuilder) BVSLT(l, r *Formula) (*Formula, error) { return eb.bvRelation(TY_BV_SLT, l, r) }
func (eb *FormulaBuilder) BVSLE(l, r *Formula) (*Formula, error) { return eb.bvRelation(TY_BV_SLE, l, r) }

// The greater-than family normalizes to swapped less-than nodes.
func (eb *FormulaBuilder) BVUGT(l, r *Formula) (*Formula, error) { return eb.BVULT(r, l) }
func (eb *FormulaBuilder) BVUGE(l, r *Formula) (*Formula, error) { return eb.BVULE(r, l) }
func (eb *FormulaBuilder) BVSGT(l, r *Formula) (*Formula, error) { return eb.BVSLT(r, l) }
func (eb *FormulaBuilder) BVSGE(l, r *Formula) (*Formula, error) { return eb.BVSLE(r, l) }

// BVToNatural converts a vector to the unsigned integer it denotes.
func (eb *FormulaBuilder) BVToNatural(f *Formula) (*Formula, error) {
	if _, err := eb.bvWidthOf(f); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: TY_BV_TONATURAL, args: []*Formula{f}}), nil
}

/*
 *  Arrays
 */

func (eb *FormulaBuilder) Select(arr, idx *Formula) (*Formula, error) {
	ta, err := eb.TypeOf(arr)
	if err != nil {
		return nil, err
	}
	if !ta.IsArray() {
		return nil, fmt.Errorf("select on a non-array of type %s", ta)
	}
	ti, err := eb.TypeOf(idx)
	if err != nil {
		return nil, err
	}
	if !ti.Equal(ta.IndexType()) {
		return nil, fmt.Errorf("select index of type %s on %s", ti, ta)
	}
	return eb.getOrCreate(&Formula{knd: TY_SELECT, args: []*Formula{arr, idx}}), nil
}

func (eb *FormulaBuilder) Store(arr, idx, val *Formula) (*Formula, error) {
	ta, err := eb.TypeOf(arr)
	if err != nil {
		return nil, err
	}
	if !ta.IsArray() {
		return nil, fmt.Errorf("store on a non-array of type %s", ta)
	}
	ti, err := eb.TypeOf(idx)
	if err != nil {
		return nil, err
	}
	tv, err := eb.TypeOf(val)
	if err != nil {
		return nil, err
	}
	if !ti.Equal(ta.IndexType()) || !tv.Equal(ta.ElemType()) {
		return nil, fmt.Errorf("store of (%s, %s) on %s", ti, tv, ta)
	}
	return eb.getOrCreate(&Formula{knd: TY_STORE, args: []*Formula{arr, idx, val}}), nil
}

// ArrayEntry is one explicit index/value pair of an array literal.
type ArrayEntry struct {
	Index *Formula
	Value *Formula
}

// Array builds an array literal mapping every index to deflt except for the
// explicit entries. The node stores the default followed by alternating
// index/value arguments.
func (eb *FormulaBuilder) Array(idxType *Type, deflt *Formula, entries ...ArrayEntry) (*Formula, error) {
	td, err := eb.TypeOf(deflt)
	if err != nil {
		return nil, err
	}
	args := make([]*Formula, 0, 1+2*len(entries))
	args = append(args, deflt)
	for _, e := range entries {
		ti, err := eb.TypeOf(e.Index)
		if err != nil {
			return nil, err
		}
		if !ti.Equal(idxType) {
			return nil, fmt.Errorf("array entry index of type %s, want %s", ti, idxType)
		}
		tv, err := eb.TypeOf(e.Value)
		if err != nil {
			return nil, err
		}
		if !tv.Equal(td) {
			return nil, fmt.Errorf("array entry value of type %s, want %s", tv, td)
		}
		args = append(args, e.Index, e.Value)
	}
	return eb.getOrCreate(&Formula{knd: TY_ARRAY_VALUE, args: args, idxType: idxType}), nil
}

/*
 *  Uninterpreted functions
 */

// Function applies a function-typed symbol to the given arguments.
func (eb *FormulaBuilder) Function(fn *Formula, args ...*Formula) (*Formula, error) {
	if !fn.IsSymbol() || !fn.symType.IsFunction() {
		return nil, fmt.Errorf("'%s' is not a function symbol", fn)
	}
	params := fn.symType.ParamTypes()
	if len(args) != len(params) {
		return nil, fmt.Errorf("function '%s' applied to %d arguments, want %d",
			fn.name, len(args), len(params))
	}
	for i, a := range args {
		t, err := eb.TypeOf(a)
		if err != nil {
			return nil, err
		}
		if !t.Equal(params[i]) {
			return nil, fmt.Errorf("argument %d of '%s' has type %s, want %s",
				i, fn.name, t, params[i])
		}
	}
	return eb.getOrCreate(&Formula{knd: TY_FUNCTION, fn: fn, args: args}), nil
}

/*
 *  Quantifiers
 */

func (eb *FormulaBuilder) quantifier(kind int, vars []*Formula, body *Formula) (*Formula, error) {
	if len(vars) == 0 {
		return body, nil
	}
	for _, v := range vars {
		if !v.IsSymbol() {
			return nil, fmt.Errorf("quantified variable '%s' is not a symbol", v)
		}
	}
	if err := eb.allBool([]*Formula{body}); err != nil {
		return nil, err
	}
	return eb.getOrCreate(&Formula{knd: kind, args: []*Formula{body}, vars: vars}), nil
}

func (eb *FormulaBuilder) ForAll(vars []*Formula, body *Formula) (*Formula, error) {
	return eb.quantifier(TY_FORALL, vars, body)
}

func (eb *FormulaBuilder) Exists(vars []*Formula, body *Formula) (*Formula, error) {
	return eb.quantifier(TY_EXISTS, vars, body)
}
