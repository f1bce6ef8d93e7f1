// Package z3 is a thin cgo shim over the Z3 C API, exposing just the
// surface the term bridge needs: sorts, term construction and inspection,
// an incremental solver, models and the two tactics used by quantifier
// elimination.
//
// Handles are plain values wrapping raw pointers. The package installs no
// finalizers: contexts are created in manual reference-counting mode and
// the caller owns every count. Whoever keeps a Term alive across API calls
// must IncRef it and pair that with exactly one DecRef.
package z3

/*
#cgo LDFLAGS: -lz3
#include <stdlib.h>
#include <z3.h>

// A no-op error handler keeps Z3 from aborting the process; errors are
// queried from Go through Z3_get_error_code instead.
static void smtkit_noop_error_handler(Z3_context c, Z3_error_code e) {}

static void smtkit_install_error_handler(Z3_context c) {
	Z3_set_error_handler(c, smtkit_noop_error_handler);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Config wraps Z3_config. It only matters before NewContext consumes it.
type Config struct {
	c C.Z3_config
}

func NewConfig() *Config {
	return &Config{c: C.Z3_mk_config()}
}

func (cfg *Config) SetParam(key, value string) {
	k := C.CString(key)
	v := C.CString(value)
	C.Z3_set_param_value(cfg.c, k, v)
	C.free(unsafe.Pointer(k))
	C.free(unsafe.Pointer(v))
}

func (cfg *Config) Close() {
	if cfg.c != nil {
		C.Z3_del_config(cfg.c)
		cfg.c = nil
	}
}

// Context wraps Z3_context in manual reference-counting mode.
type Context struct {
	c C.Z3_context
}

func NewContext(cfg *Config) *Context {
	var c C.Z3_context
	if cfg != nil {
		c = C.Z3_mk_context_rc(cfg.c)
	} else {
		tmp := C.Z3_mk_config()
		c = C.Z3_mk_context_rc(tmp)
		C.Z3_del_config(tmp)
	}
	C.smtkit_install_error_handler(c)
	return &Context{c: c}
}

// Close deletes the context. Every count handed out by this context must
// have been released first.
func (ctx *Context) Close() {
	if ctx.c != nil {
		C.Z3_del_context(ctx.c)
		ctx.c = nil
	}
}

// Err returns the pending error of the context, if any, and clears it.
func (ctx *Context) Err() error {
	code := C.Z3_get_error_code(ctx.c)
	if code == C.Z3_OK {
		return nil
	}
	msg := C.GoString(C.Z3_get_error_msg(ctx.c, code))
	C.Z3_set_error(ctx.c, C.Z3_OK)
	return fmt.Errorf("z3: %s", msg)
}

// GlobalParam sets a process-wide Z3 parameter.
func GlobalParam(key, value string) {
	k := C.CString(key)
	v := C.CString(value)
	C.Z3_global_param_set(k, v)
	C.free(unsafe.Pointer(k))
	C.free(unsafe.Pointer(v))
}

func cfree(p *C.char) {
	C.free(unsafe.Pointer(p))
}

func (ctx *Context) symbol(name string) C.Z3_symbol {
	n := C.CString(name)
	s := C.Z3_mk_string_symbol(ctx.c, n)
	C.free(unsafe.Pointer(n))
	return s
}

func (ctx *Context) symbolString(s C.Z3_symbol) string {
	if C.Z3_get_symbol_kind(ctx.c, s) == C.Z3_INT_SYMBOL {
		return fmt.Sprintf("k!%d", int(C.Z3_get_symbol_int(ctx.c, s)))
	}
	return C.GoString(C.Z3_get_symbol_string(ctx.c, s))
}
