package smtkit

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/smtkit/smtkit/z3"
)

// Assignment is one symbol binding in a model.
type Assignment struct {
	Symbol *Formula
	Value  *Formula
}

// ModelView exposes a satisfying assignment through the formula
// vocabulary. It borrows the session's converter and context, so it must
// be closed before the session that produced it.
type ModelView struct {
	eb        *FormulaBuilder
	converter *Converter
	native    *z3.Model
	closed    bool
}

func (m *ModelView) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.native.Close()
}

// GetValue evaluates f in the model with completion on: symbols the model
// leaves unconstrained are completed with arbitrary values of the right
// type, so the result is always a constant when f is quantifier-free.
func (m *ModelView) GetValue(f *Formula) (*Formula, error) {
	return m.Eval(f, true)
}

// Eval evaluates f in the model. Without completion, unconstrained symbols
// survive into the result instead of being assigned a value.
func (m *ModelView) Eval(f *Formula, completion bool) (*Formula, error) {
	t, err := m.converter.Convert(f)
	if err != nil {
		return nil, err
	}
	ev, ok := m.native.Eval(t, completion)
	if !ok {
		return nil, &ConversionError{
			Msg:  "evaluation failed",
			Expr: f.String(),
		}
	}
	ev.IncRef()
	defer ev.DecRef()
	return m.converter.Back(ev, m.native)
}

// Contains reports whether the model constrains the given symbol.
func (m *ModelView) Contains(sym *Formula) bool {
	for i := 0; i < m.native.NumConsts(); i++ {
		if m.native.ConstDecl(i).Name() == sym.SymbolName() {
			return true
		}
	}
	return false
}

// Assignments lists the model's constant bindings. Bindings whose value
// cannot be expressed as a formula (internal engine constructs) are
// skipped with a warning rather than failing the whole iteration.
func (m *ModelView) Assignments() []Assignment {
	var out []Assignment
	for i := 0; i < m.native.NumConsts(); i++ {
		decl := m.native.ConstDecl(i)
		interp, ok := m.native.ConstInterp(decl)
		if !ok {
			continue
		}
		app := decl.Apply()
		app.IncRef()
		sym, err := m.converter.backSymbol(app)
		app.DecRef()
		if err != nil {
			log.Warnf("skipping model binding for %s: %v", decl.Name(), err)
			continue
		}
		interp.IncRef()
		val, err := m.converter.Back(interp, m.native)
		interp.DecRef()
		if err != nil {
			log.Warnf("skipping model binding for %s: %v", decl.Name(), err)
			continue
		}
		out = append(out, Assignment{Symbol: sym, Value: val})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol.SymbolName() < out[j].Symbol.SymbolName()
	})
	return out
}

func (m *ModelView) String() string {
	var sb strings.Builder
	for _, a := range m.Assignments() {
		sb.WriteString(a.Symbol.SymbolName())
		sb.WriteString(" := ")
		sb.WriteString(a.Value.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
