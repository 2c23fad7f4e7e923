/*
File    : yqlang/codegen/pattern.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package codegen

import (
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/parser"
	"github.com/akashmaji946/yqlang/value"
)

// emitBindPattern consumes the Pointer currently on top of the operand
// stack, binding it (or its destructured pieces) against pat. Used by plain
// `=` assignment and by `for pattern in seq` loop-variable binding
// (spec.md §4.3's pattern grammar).
func (c *Compiler) emitBindPattern(pat parser.Pattern) error {
	switch p := pat.(type) {
	case *parser.IdentPattern:
		return c.emitBindName(p.Name, p.Tok)
	case *parser.ListPattern:
		c.emit(bytecode.EXTRACT_LIST, int32(len(p.Elems)))
		for _, elem := range p.Elems {
			if err := c.emitBindPattern(elem); err != nil {
				return err
			}
		}
		return nil
	case *parser.ConstPattern:
		return c.emitAssertConst(p)
	case *parser.AccessPattern:
		return errAt(p.Tok, "an access path is only assignable at the top level of an assignment")
	default:
		return errAt(pat.Pos(), "unsupported pattern %T", pat)
	}
}

// emitBindName is the IdentPattern leaf case: pop the top-of-stack Pointer
// into an existing binding (mutating its box in place so captures keep
// seeing updates) or declare a fresh one.
func (c *Compiler) emitBindName(name string, tok interface{ Position() string }) error {
	if kind, off, ok := c.scope.resolve(name); ok {
		_ = kind
		c.emit(bytecode.POP_SAVE_LOCAL, int32(off))
		return nil
	}
	if ptr, ok := c.mem.LookupSymbol(name); ok {
		c.emit(bytecode.POP_SAVE, int32(ptr))
		return nil
	}
	if c.scope.isTop() {
		ptr := c.mem.DefineStatic(name, value.Null)
		c.emit(bytecode.POP_SAVE, int32(ptr))
		return nil
	}
	off := c.scope.declareLocal(name)
	c.emit(bytecode.POP_SAVE_LOCAL, int32(off))
	return nil
}

func (c *Compiler) emitAssertConst(p *parser.ConstPattern) error {
	switch lit := p.Literal.(type) {
	case *parser.BoolLit:
		imm := bytecode.ImmFalse
		if lit.Value {
			imm = bytecode.ImmTrue
		}
		c.emit(bytecode.POP_ASSERT_EQ_IMM, int32(imm))
	case *parser.NullLit:
		c.emit(bytecode.POP_ASSERT_EQ_IMM, int32(bytecode.ImmNull))
	case *parser.IntLit:
		c.emit(bytecode.POP_ASSERT_EQ, c.internConst(value.Int(lit.Value)))
	case *parser.StringLit:
		id := c.mem.PutCollection(memory.NewStringCollection(lit.Value))
		c.emit(bytecode.POP_ASSERT_EQ, int32(c.mem.DefineStatic("", value.Ref(id))))
	default:
		return errAt(p.Tok, "unsupported constant pattern literal %T", lit)
	}
	return nil
}
