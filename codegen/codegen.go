/*
File    : yqlang/codegen/codegen.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package codegen lowers a parsed AST (package parser) into a flat
// bytecode.Program against a memory.Memory's static area and symbol table
// (spec.md §4.4). Dispatch over parser.Node is by type switch, never by
// methods on the node types, so that parser never has to import codegen.
package codegen

import (
	"fmt"

	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/builtin"
	"github.com/akashmaji946/yqlang/lexer"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/parser"
	"github.com/akashmaji946/yqlang/value"
)

// CompileError reports a semantic error caught at compile time: an
// undeclared identifier read, an assignment to a non-l-value expression, or
// a break/continue outside any loop.
type CompileError struct {
	Message  string
	Position string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at %s: %s", e.Position, e.Message)
}

type loopCtx struct {
	startLabel, endLabel int32
}

// pendingClosure is a closure/function body queued for emission after the
// enclosing flow finishes, so call sites only ever need the entry label up
// front (spec.md §4.4's closure-capture protocol).
type pendingClosure struct {
	entryLabel int32
	params     []parser.ClosureParam
	body       *parser.Block
	scope      *scope
}

// Compiler is yqlang's single-pass code generator.
type Compiler struct {
	mem    *memory.Memory
	text   []bytecode.ByteCode
	labels []int32
	scope  *scope
	loops  []loopCtx

	pending []pendingClosure

	// internedStrings caches one static String Reference per distinct field
	// or method name used in a `.` access, to avoid duplicate statics.
	internedStrings map[string]int32
	// internedBuiltins caches one static BoundProcedure constant per free
	// builtin name read as a bare identifier (e.g. `abs` in `abs(x)`), so
	// repeated uses of the same builtin don't each get their own static.
	internedBuiltins map[string]int32

	tmpCounter int
}

// freshTempName returns a name that can never collide with a source
// identifier (the lexer never produces "$tmp...": a '$' is followed only by
// digits), for compiler-synthesized hidden locals such as short-circuit
// scratch slots.
func (c *Compiler) freshTempName() string {
	c.tmpCounter++
	return fmt.Sprintf("$tmp%d", c.tmpCounter)
}

// Compile lowers prog into a bytecode.Program, defining globals and literal
// constants in mem as it goes.
func Compile(prog *parser.Program, mem *memory.Memory) (bytecode.Program, error) {
	c := &Compiler{mem: mem, scope: newScope(nil), internedStrings: map[string]int32{}, internedBuiltins: map[string]int32{}}
	for _, s := range prog.Stmts {
		if err := c.compileStmt(s); err != nil {
			return bytecode.Program{}, err
		}
	}
	c.emit(bytecode.EXIT)
	for len(c.pending) > 0 {
		pc := c.pending[0]
		c.pending = c.pending[1:]
		if err := c.compileFuncBody(pc); err != nil {
			return bytecode.Program{}, err
		}
	}
	return bytecode.Program{Text: c.text, Labels: c.labels}, nil
}

// ---- low-level emission ----

func (c *Compiler) newLabel() int32 {
	id := int32(len(c.labels))
	c.labels = append(c.labels, -1)
	return id
}

func (c *Compiler) markLabel(id int32) {
	c.labels[id] = int32(len(c.text))
}

func (c *Compiler) emit(op bytecode.Op, operand ...int32) {
	c.text = append(c.text, bytecode.New(op, operand...))
}

func (c *Compiler) internString(s string) int32 {
	if off, ok := c.internedStrings[s]; ok {
		return off
	}
	id := c.mem.PutCollection(memory.NewStringCollection(s))
	ptr := c.mem.DefineStatic("", value.Ref(id))
	off := int32(ptr)
	c.internedStrings[s] = off
	return off
}

func (c *Compiler) internConst(v value.Value) int32 {
	return int32(c.mem.DefineStatic("", v))
}

// internBuiltin caches one static BoundProcedure constant per free-function
// builtin name (spec.md §4.9): pushing it behaves exactly like pushing a
// user closure value, so the VM's ordinary CALL dispatch handles both.
func (c *Compiler) internBuiltin(name string) int32 {
	if off, ok := c.internedBuiltins[name]; ok {
		return off
	}
	off := c.internConst(value.BoundProcedureValue(name, value.Null))
	c.internedBuiltins[name] = off
	return off
}

// isBuiltinName reports whether name is registered in the standard library,
// for emitIdentRead's fallback when no local/capture/global binding exists.
func isBuiltinName(name string) bool {
	_, ok := builtin.Lookup(name)
	return ok
}

func errAt(tok lexer.Token, format string, args ...interface{}) error {
	return &CompileError{Message: fmt.Sprintf(format, args...), Position: tok.Position()}
}
