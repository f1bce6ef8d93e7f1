package smtkit

import "fmt"

// ConversionError reports that a formula or native term has no counterpart
// on the other side of the bridge (unsupported theory, quantified term met
// during back conversion, self-referential as-array without a model).
type ConversionError struct {
	Msg string
	// Expr holds a printable form of the offending term, when available.
	Expr string
}

func (e *ConversionError) Error() string {
	if e.Expr == "" {
		return fmt.Sprintf("conversion error: %s", e.Msg)
	}
	return fmt.Sprintf("conversion error: %s: %s", e.Msg, e.Expr)
}

// UndefinedSymbolError reports a lookup of a name that was never declared.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol '%s'", e.Name)
}

// UnknownResultError reports that the engine returned an indeterminate
// satisfiability answer. It is always fatal for the call that triggered it.
type UnknownResultError struct {
	Reason string
}

func (e *UnknownResultError) Error() string {
	if e.Reason == "" {
		return "solver returned unknown"
	}
	return fmt.Sprintf("solver returned unknown: %s", e.Reason)
}

// StatusError reports an API misuse, e.g. asking for an unsat core without
// a preceding unsat result or after an intervening mutating command.
type StatusError struct {
	Msg string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status error: %s", e.Msg)
}

// ConfigurationError wraps an engine rejection of an option key/value pair.
type ConfigurationError struct {
	Key   string
	Value interface{}
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("error setting the option '%s=%v': %v", e.Key, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IncompletenessError reports that integer quantifier elimination produced a
// result with no representation in the formula language (it would require
// modulus constraints). Result carries the untranslated native form for
// diagnostic inspection.
type IncompletenessError struct {
	Result string
}

func (e *IncompletenessError) Error() string {
	return fmt.Sprintf("quantifier elimination over integers is incomplete: "+
		"the result requires the modulus and cannot be represented (native form: %s)", e.Result)
}
