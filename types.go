package smtkit

import (
	"fmt"
	"strings"
)

type TypeKind int

const (
	KindBoolType TypeKind = iota + 1
	KindIntType
	KindRealType
	KindBVType
	KindArrayType
	KindFunctionType
	KindCustomType
	KindStringType
)

// Type describes the sort of a formula node. Types are plain values built
// through the constructors below; Equal compares them structurally.
type Type struct {
	knd   TypeKind
	width uint
	index *Type
	elem  *Type
	name  string
	args  []*Type
	ret   *Type
}

var (
	boolType = &Type{knd: KindBoolType}
	intType  = &Type{knd: KindIntType}
	realType = &Type{knd: KindRealType}
)

func BoolType() *Type {
	return boolType
}

func IntType() *Type {
	return intType
}

func RealType() *Type {
	return realType
}

var stringType = &Type{knd: KindStringType}

// StringType exists so that string-sorted symbols can be represented and
// rejected with a precise error by the converter; the string theory itself
// is not bridged.
func StringType() *Type {
	return stringType
}

func BVType(width uint) *Type {
	if width == 0 {
		panic("BVType(): zero width")
	}
	return &Type{knd: KindBVType, width: width}
}

func ArrayType(index, elem *Type) *Type {
	return &Type{knd: KindArrayType, index: index, elem: elem}
}

func FunctionType(ret *Type, args ...*Type) *Type {
	return &Type{knd: KindFunctionType, args: args, ret: ret}
}

func CustomType(name string) *Type {
	return &Type{knd: KindCustomType, name: name}
}

func (t *Type) Kind() TypeKind {
	return t.knd
}

func (t *Type) IsBool() bool {
	return t.knd == KindBoolType
}

func (t *Type) IsInt() bool {
	return t.knd == KindIntType
}

func (t *Type) IsReal() bool {
	return t.knd == KindRealType
}

func (t *Type) IsArith() bool {
	return t.knd == KindIntType || t.knd == KindRealType
}

func (t *Type) IsBV() bool {
	return t.knd == KindBVType
}

func (t *Type) IsArray() bool {
	return t.knd == KindArrayType
}

func (t *Type) IsFunction() bool {
	return t.knd == KindFunctionType
}

func (t *Type) IsCustom() bool {
	return t.knd == KindCustomType
}

func (t *Type) IsString() bool {
	return t.knd == KindStringType
}

// BVWidth returns the width of a bitvector type, zero otherwise.
func (t *Type) BVWidth() uint {
	return t.width
}

// IndexType returns the index sort of an array type.
func (t *Type) IndexType() *Type {
	return t.index
}

// ElemType returns the value sort of an array type.
func (t *Type) ElemType() *Type {
	return t.elem
}

// Name returns the name of a custom type.
func (t *Type) Name() string {
	return t.name
}

// ParamTypes returns the domain of a function type.
func (t *Type) ParamTypes() []*Type {
	return t.args
}

// ReturnType returns the range of a function type.
func (t *Type) ReturnType() *Type {
	return t.ret
}

func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.knd != o.knd {
		return false
	}
	switch t.knd {
	case KindBoolType, KindIntType, KindRealType, KindStringType:
		return true
	case KindBVType:
		return t.width == o.width
	case KindArrayType:
		return t.index.Equal(o.index) && t.elem.Equal(o.elem)
	case KindCustomType:
		return t.name == o.name
	case KindFunctionType:
		if len(t.args) != len(o.args) || !t.ret.Equal(o.ret) {
			return false
		}
		for i := 0; i < len(t.args); i++ {
			if !t.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (t *Type) String() string {
	switch t.knd {
	case KindBoolType:
		return "Bool"
	case KindIntType:
		return "Int"
	case KindRealType:
		return "Real"
	case KindStringType:
		return "String"
	case KindBVType:
		return fmt.Sprintf("BV%d", t.width)
	case KindArrayType:
		return fmt.Sprintf("Array{%s, %s}", t.index, t.elem)
	case KindCustomType:
		return t.name
	case KindFunctionType:
		b := strings.Builder{}
		b.WriteString("(")
		for i, a := range t.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(") -> ")
		b.WriteString(t.ret.String())
		return b.String()
	}
	return "?"
}

// key returns a canonical representation used to index the sort caches.
func (t *Type) key() string {
	return t.String()
}
