/*
File    : yqlang/codegen/access.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package codegen

import (
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/parser"
)

// compileAccessChain lowers a primary expression followed by `.field`,
// `[index]`/`[slice]` and `(args)` postfix steps (spec.md grammar rule
// `postfix`). Field and subscript steps accumulate onto a single access
// view (PUSH_ACCESS_VIEW/EXTEND_ACCESS_VIEW) resolved by one ACCESS_GET;
// a Call step flushes any open view first, since a call result starts a
// fresh chain.
//
// When asLValue is true the chain must end in a Field or Subscript step:
// the final view is left open (ACCESS_GET is not emitted) so the caller can
// follow up with ACCESS_SET (see assign.go).
func (c *Compiler) compileAccessChain(chain *parser.AccessChain, asLValue bool) error {
	if err := c.emitExpr(chain.Target); err != nil {
		return err
	}
	viewOpen := false
	for i, step := range chain.Steps {
		last := i == len(chain.Steps)-1
		switch st := step.(type) {
		case parser.FieldAccess:
			if !viewOpen {
				c.emit(bytecode.PUSH_ACCESS_VIEW)
				viewOpen = true
			}
			c.emit(bytecode.LOAD_PUSH, c.internString(st.Name))
			c.emit(bytecode.EXTEND_ACCESS_VIEW, int32(bytecode.SubscriptIndex))
			if last && !asLValue {
				c.emit(bytecode.ACCESS_GET)
				viewOpen = false
			}
		case parser.Subscript:
			if !viewOpen {
				c.emit(bytecode.PUSH_ACCESS_VIEW)
				viewOpen = true
			}
			if err := c.emitSubscriptDescriptor(st); err != nil {
				return err
			}
			kind := bytecode.SubscriptIndex
			if st.IsSlice {
				kind = bytecode.SubscriptClosedSlice
			}
			c.emit(bytecode.EXTEND_ACCESS_VIEW, int32(kind))
			if last && !asLValue {
				c.emit(bytecode.ACCESS_GET)
				viewOpen = false
			}
		case parser.Call:
			if viewOpen {
				c.emit(bytecode.ACCESS_GET)
				viewOpen = false
			}
			if asLValue && last {
				return errAt(chain.Tok, "a call result is not assignable")
			}
			if err := c.emitCallArgs(st.Args); err != nil {
				return err
			}
			retLabel := c.newLabel()
			c.emit(bytecode.CALL, retLabel)
			c.markLabel(retLabel)
		}
	}
	return nil
}

func (c *Compiler) emitSubscriptDescriptor(s parser.Subscript) error {
	if !s.IsSlice {
		return c.emitExpr(s.Index)
	}
	if s.Begin.Present {
		if err := c.emitExpr(s.Begin.Value); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.PUSH_IMM, int32(bytecode.ImmNull))
	}
	if s.End.Present {
		if err := c.emitExpr(s.End.Value); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.PUSH_IMM, int32(bytecode.ImmNull))
	}
	return nil
}

// emitCallArgs pushes every argument then CONS_PUSHes them into one args
// list, per the CALL protocol (spec.md §4.8: "push closure, push args
// list, CALL retaddr").
func (c *Compiler) emitCallArgs(args []parser.Expr) error {
	for _, a := range args {
		if err := c.emitExpr(a); err != nil {
			return err
		}
	}
	c.emit(bytecode.CONS_PUSH, int32(len(args)))
	return nil
}
