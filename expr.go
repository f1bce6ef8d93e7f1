package smtkit

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	TY_SYM = 1 + iota
	TY_BOOL_CONST
	TY_INT_CONST
	TY_REAL_CONST
	TY_BV_CONST
	TY_ALGEBRAIC_CONST

	TY_NOT
	TY_AND
	TY_OR
	TY_IMPLIES
	TY_IFF
	TY_XOR
	TY_ITE

	TY_EQ
	TY_LT
	TY_LE

	TY_PLUS
	TY_MINUS
	TY_TIMES
	TY_DIV
	TY_POW
	TY_TOREAL

	TY_BV_NOT
	TY_BV_NEG
	TY_BV_AND
	TY_BV_OR
	TY_BV_XOR
	TY_BV_ADD
	TY_BV_SUB
	TY_BV_MUL
	TY_BV_UDIV
	TY_BV_SDIV
	TY_BV_UREM
	TY_BV_SREM
	TY_BV_SHL
	TY_BV_LSHR
	TY_BV_ASHR
	TY_BV_CONCAT
	TY_BV_EXTRACT
	TY_BV_ZEXT
	TY_BV_SEXT
	TY_BV_ROL
	TY_BV_ROR
	TY_BV_COMP
	TY_BV_ULT
	TY_BV_ULE
	TY_BV_SLT
	TY_BV_SLE
	TY_BV_TONATURAL

	TY_SELECT
	TY_STORE
	TY_ARRAY_VALUE

	TY_FUNCTION

	TY_FORALL
	TY_EXISTS
)

var kindNames = map[int]string{
	TY_NOT:          "not",
	TY_AND:          "and",
	TY_OR:           "or",
	TY_IMPLIES:      "=>",
	TY_IFF:          "<->",
	TY_XOR:          "xor",
	TY_ITE:          "ite",
	TY_EQ:           "=",
	TY_LT:           "<",
	TY_LE:           "<=",
	TY_PLUS:         "+",
	TY_MINUS:        "-",
	TY_TIMES:        "*",
	TY_DIV:          "/",
	TY_POW:          "pow",
	TY_TOREAL:       "to_real",
	TY_BV_NOT:       "bvnot",
	TY_BV_NEG:       "bvneg",
	TY_BV_AND:       "bvand",
	TY_BV_OR:        "bvor",
	TY_BV_XOR:       "bvxor",
	TY_BV_ADD:       "bvadd",
	TY_BV_SUB:       "bvsub",
	TY_BV_MUL:       "bvmul",
	TY_BV_UDIV:      "bvudiv",
	TY_BV_SDIV:      "bvsdiv",
	TY_BV_UREM:      "bvurem",
	TY_BV_SREM:      "bvsrem",
	TY_BV_SHL:       "bvshl",
	TY_BV_LSHR:      "bvlshr",
	TY_BV_ASHR:      "bvashr",
	TY_BV_CONCAT:    "concat",
	TY_BV_EXTRACT:   "extract",
	TY_BV_ZEXT:      "zero_extend",
	TY_BV_SEXT:      "sign_extend",
	TY_BV_ROL:       "rotate_left",
	TY_BV_ROR:       "rotate_right",
	TY_BV_COMP:      "bvcomp",
	TY_BV_ULT:       "bvult",
	TY_BV_ULE:       "bvule",
	TY_BV_SLT:       "bvslt",
	TY_BV_SLE:       "bvsle",
	TY_BV_TONATURAL: "bv2nat",
	TY_SELECT:       "select",
	TY_STORE:        "store",
	TY_ARRAY_VALUE:  "array",
	TY_FUNCTION:     "apply",
	TY_FORALL:       "forall",
	TY_EXISTS:       "exists",
}

// Formula is one node of a hash-consed DAG. Nodes are immutable and unique
// per builder: two structurally identical constructions return the same
// pointer, so subterm sharing and identity comparisons are free.
type Formula struct {
	knd int
	id  uint64

	args []*Formula

	// payloads, populated depending on the kind
	name    string     // TY_SYM
	symType *Type      // TY_SYM
	bval    bool       // TY_BOOL_CONST
	ival    *big.Int   // TY_INT_CONST
	rval    *big.Rat   // TY_REAL_CONST
	bvVal   *big.Int   // TY_BV_CONST
	bvWidth uint       // TY_BV_CONST
	algval  string     // TY_ALGEBRAIC_CONST, decimal approximation
	algTyp  *Type      // TY_ALGEBRAIC_CONST
	params  []uint     // TY_BV_EXTRACT: high,low; TY_BV_{ZEXT,SEXT,ROL,ROR}: n
	idxType *Type      // TY_ARRAY_VALUE
	fn      *Formula   // TY_FUNCTION: the applied function symbol
	vars    []*Formula // TY_FORALL, TY_EXISTS: bound symbols
}

func (f *Formula) Kind() int {
	return f.knd
}

// Id is the node's identity within its builder. Structurally equal nodes
// share the same id.
func (f *Formula) Id() uint64 {
	return f.id
}

func (f *Formula) Args() []*Formula {
	return f.args
}

func (f *Formula) Arg(i int) *Formula {
	return f.args[i]
}

func (f *Formula) IsSymbol() bool {
	return f.knd == TY_SYM
}

func (f *Formula) IsConst() bool {
	switch f.knd {
	case TY_BOOL_CONST, TY_INT_CONST, TY_REAL_CONST, TY_BV_CONST, TY_ALGEBRAIC_CONST:
		return true
	}
	return false
}

func (f *Formula) IsQuantifier() bool {
	return f.knd == TY_FORALL || f.knd == TY_EXISTS
}

// IsLiteral reports whether the formula is a boolean symbol or the negation
// of one. Literals can be passed to the engine directly as assumptions.
func (f *Formula) IsLiteral() bool {
	if f.knd == TY_SYM {
		return f.symType.IsBool()
	}
	if f.knd == TY_NOT {
		return f.args[0].IsLiteral()
	}
	return false
}

func (f *Formula) SymbolName() string {
	return f.name
}

func (f *Formula) SymbolType() *Type {
	return f.symType
}

func (f *Formula) BoolValue() bool {
	return f.bval
}

func (f *Formula) IntValue() *big.Int {
	return f.ival
}

func (f *Formula) RealValue() *big.Rat {
	return f.rval
}

func (f *Formula) BVValue() *big.Int {
	return f.bvVal
}

func (f *Formula) BVWidth() uint {
	return f.bvWidth
}

// AlgebraicValue returns the textual form of an irrational constant.
func (f *Formula) AlgebraicValue() string {
	return f.algval
}

// Params returns the integer parameters of the node: high and low bounds
// for an extraction, the step for extensions and rotations.
func (f *Formula) Params() []uint {
	return f.params
}

// ArrayIndexType returns the index sort of a TY_ARRAY_VALUE node.
func (f *Formula) ArrayIndexType() *Type {
	return f.idxType
}

// Function returns the applied symbol of a TY_FUNCTION node.
func (f *Formula) Function() *Formula {
	return f.fn
}

// QuantifiedVars returns the bound symbols of a quantifier node.
func (f *Formula) QuantifiedVars() []*Formula {
	return f.vars
}

func (f *Formula) String() string {
	switch f.knd {
	case TY_SYM:
		return f.name
	case TY_BOOL_CONST:
		if f.bval {
			return "true"
		}
		return "false"
	case TY_INT_CONST:
		return f.ival.String()
	case TY_REAL_CONST:
		if f.rval.IsInt() {
			return f.rval.Num().String() + ".0"
		}
		return fmt.Sprintf("(/ %s %s)", f.rval.Num(), f.rval.Denom())
	case TY_BV_CONST:
		return fmt.Sprintf("0x%s:%d", f.bvVal.Text(16), f.bvWidth)
	case TY_ALGEBRAIC_CONST:
		return f.algval
	}

	b := strings.Builder{}
	b.WriteString("(")
	switch f.knd {
	case TY_BV_EXTRACT:
		b.WriteString(fmt.Sprintf("extract[%d:%d]", f.params[0], f.params[1]))
	case TY_BV_ZEXT, TY_BV_SEXT, TY_BV_ROL, TY_BV_ROR:
		b.WriteString(fmt.Sprintf("%s[%d]", kindNames[f.knd], f.params[0]))
	case TY_FUNCTION:
		b.WriteString(f.fn.name)
	case TY_FORALL, TY_EXISTS:
		b.WriteString(kindNames[f.knd])
		b.WriteString(" (")
		for i, v := range f.vars {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(v.name)
		}
		b.WriteString(")")
	case TY_ARRAY_VALUE:
		b.WriteString(fmt.Sprintf("array[%s]", f.idxType))
	default:
		b.WriteString(kindNames[f.knd])
	}
	for _, a := range f.args {
		b.WriteString(" ")
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}

// hash computes the structural hash used by the builder's intern table. The
// children contribute through their ids, which is sound because they are
// already hash-consed.
func (f *Formula) hash() uint64 {
	h := xxhash.New()
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(f.knd))
	h.Write(raw)
	switch f.knd {
	case TY_SYM:
		h.Write([]byte(f.name))
	case TY_BOOL_CONST:
		if f.bval {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case TY_INT_CONST:
		h.Write(f.ival.Bytes())
		if f.ival.Sign() < 0 {
			h.Write([]byte{0xff})
		}
	case TY_REAL_CONST:
		h.Write([]byte(f.rval.RatString()))
	case TY_BV_CONST:
		h.Write(f.bvVal.Bytes())
		binary.BigEndian.PutUint64(raw, uint64(f.bvWidth))
		h.Write(raw)
	case TY_ALGEBRAIC_CONST:
		h.Write([]byte(f.algval))
	case TY_ARRAY_VALUE:
		h.Write([]byte(f.idxType.key()))
	case TY_FUNCTION:
		binary.BigEndian.PutUint64(raw, f.fn.id)
		h.Write(raw)
	case TY_FORALL, TY_EXISTS:
		for _, v := range f.vars {
			binary.BigEndian.PutUint64(raw, v.id)
			h.Write(raw)
		}
	}
	for _, p := range f.params {
		binary.BigEndian.PutUint64(raw, uint64(p))
		h.Write(raw)
	}
	for _, a := range f.args {
		binary.BigEndian.PutUint64(raw, a.id)
		h.Write(raw)
	}
	return h.Sum64()
}

// shallowEq compares two nodes assuming hash-consed children, so child
// comparison is by pointer.
func (f *Formula) shallowEq(o *Formula) bool {
	if f.knd != o.knd || len(f.args) != len(o.args) {
		return false
	}
	for i := range f.args {
		if f.args[i] != o.args[i] {
			return false
		}
	}
	if len(f.params) != len(o.params) {
		return false
	}
	for i := range f.params {
		if f.params[i] != o.params[i] {
			return false
		}
	}
	switch f.knd {
	case TY_SYM:
		return f.name == o.name && f.symType.Equal(o.symType)
	case TY_BOOL_CONST:
		return f.bval == o.bval
	case TY_INT_CONST:
		return f.ival.Cmp(o.ival) == 0
	case TY_REAL_CONST:
		return f.rval.Cmp(o.rval) == 0
	case TY_BV_CONST:
		return f.bvWidth == o.bvWidth && f.bvVal.Cmp(o.bvVal) == 0
	case TY_ALGEBRAIC_CONST:
		return f.algval == o.algval && f.algTyp.Equal(o.algTyp)
	case TY_ARRAY_VALUE:
		return f.idxType.Equal(o.idxType)
	case TY_FUNCTION:
		return f.fn == o.fn
	case TY_FORALL, TY_EXISTS:
		if len(f.vars) != len(o.vars) {
			return false
		}
		for i := range f.vars {
			if f.vars[i] != o.vars[i] {
				return false
			}
		}
		return true
	}
	return true
}
