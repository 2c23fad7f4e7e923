/*
File    : yqlang/codegen/closures.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package codegen

import (
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/parser"
)

// emitClosureLit lowers both ClosureLit spellings (`func(params) body` and
// the `{ a, b -> … }` / `{ $0 * $0 }` shorthand forms, already normalized to
// a uniform *Block body by the parser).
func (c *Compiler) emitClosureLit(n *parser.ClosureLit) error {
	return c.emitClosureValue(n.Params, n.Body)
}

// emitClosureValue implements the closure-capture protocol (spec.md §4.4):
// for each free variable the body reads that resolves to an enclosing
// local or capture (a true free variable needing a shared box — plain
// globals need no capture at all, they're addressable from anywhere via
// the static area), push the enclosing box's Pointer as-is (LOAD_*_REF, not
// a copy, so the closure aliases the exact same cell), CONS_PUSH them into
// one captures list, then CREATE_CLOSURE the entry label. The body itself
// is queued onto c.pending and compiled after the enclosing flow, since its
// entry label is all a call site ever needs up front.
func (c *Compiler) emitClosureValue(params []parser.ClosureParam, body *parser.Block) error {
	free := freeVariables(params, body)
	var captured []string
	for _, name := range free {
		if _, _, ok := c.scope.resolve(name); ok {
			captured = append(captured, name)
		}
	}
	for _, name := range captured {
		if err := c.emitCaptureRef(name); err != nil {
			return err
		}
	}
	c.emit(bytecode.CONS_PUSH, int32(len(captured)))

	closureScope := newScope(c.scope)
	for _, name := range captured {
		closureScope.addCapture(name)
	}
	for _, p := range params {
		closureScope.declareLocal(p.Name)
	}

	entry := c.newLabel()
	c.emit(bytecode.CREATE_CLOSURE, entry)
	c.pending = append(c.pending, pendingClosure{entryLabel: entry, params: params, body: body, scope: closureScope})
	return nil
}

// emitCaptureRef pushes the exact Pointer backing an enclosing local or
// capture, without copying, so the new closure shares the box.
func (c *Compiler) emitCaptureRef(name string) error {
	kind, off, ok := c.scope.resolve(name)
	if !ok {
		return nil // a plain global: nothing to capture
	}
	_ = kind
	c.emit(bytecode.LOAD_LOCAL_PUSH_REF, int32(off))
	return nil
}

// compileFuncBody emits one queued closure/function body: PREPARE_FRAME
// (patched with the final local count once known), the parameter-binding
// prologue (GET_NTH_ARG_REF i / POP_SAVE_LOCAL, placed right after the
// capture slots PREPARE_FRAME expands at offsets [0, nCaptures)), the body
// itself, and a fallthrough CLEAR_REG/RETURN for paths that never hit an
// explicit `return`.
func (c *Compiler) compileFuncBody(pc pendingClosure) error {
	outerScope, outerLoops := c.scope, c.loops
	c.scope, c.loops = pc.scope, nil
	defer func() { c.scope, c.loops = outerScope, outerLoops }()

	c.markLabel(pc.entryLabel)
	frameIdx := len(c.text)
	c.emit(bytecode.PREPARE_FRAME, 0)

	nCaptures := len(pc.scope.captures)
	for i, p := range pc.params {
		off := pc.scope.locals[p.Name]
		_ = off
		c.emit(bytecode.GET_NTH_ARG_REF, int32(i))
		c.emit(bytecode.POP_SAVE_LOCAL, int32(nCaptures+i))
	}

	for _, st := range pc.body.Stmts {
		if err := c.compileStmt(st); err != nil {
			return err
		}
	}
	c.emit(bytecode.CLEAR_REG)
	c.emit(bytecode.RETURN)

	c.text[frameIdx].Operand = int32(pc.scope.nextLocal)
	return nil
}
