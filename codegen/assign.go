/*
File    : yqlang/codegen/assign.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package codegen

import (
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/parser"
)

// compileAssign lowers an Assign statement, both plain (`=`, which binds or
// destructures a pattern) and compound (`+= -= *= /= %=`, which only ever
// targets a name or an access path, per spec.md §4.3).
func (c *Compiler) compileAssign(a *parser.Assign) error {
	if a.Op == "" {
		if ap, ok := a.Target.(*parser.AccessPattern); ok {
			if err := c.compileAccessChain(&ap.Chain, true); err != nil {
				return err
			}
			if err := c.emitExpr(a.Value); err != nil {
				return err
			}
			c.emit(bytecode.ACCESS_SET)
			return nil
		}
		if err := c.emitExpr(a.Value); err != nil {
			return err
		}
		return c.emitBindPattern(a.Target)
	}

	assignOp, ok := assignOpCodes[a.Op]
	if !ok {
		return errAt(a.Tok, "unknown compound assignment operator %q", a.Op)
	}

	switch t := a.Target.(type) {
	case *parser.IdentPattern:
		ident := &parser.Ident{Name: t.Name}
		ident.Tok = t.Tok
		if err := c.emitIdentRead(ident); err != nil {
			return err
		}
		if err := c.emitExpr(a.Value); err != nil {
			return err
		}
		c.emit(bytecode.OP_ASSIGN, int32(assignOp))
		return c.emitBindName(t.Name, t.Tok)
	case *parser.AccessPattern:
		if err := c.compileAccessChain(&t.Chain, false); err != nil {
			return err
		}
		if err := c.emitExpr(a.Value); err != nil {
			return err
		}
		c.emit(bytecode.OP_ASSIGN, int32(assignOp))
		if err := c.compileAccessChain(&t.Chain, true); err != nil {
			return err
		}
		c.emit(bytecode.ACCESS_SET)
		return nil
	default:
		return errAt(a.Tok, "compound assignment target must be a name or access path")
	}
}
