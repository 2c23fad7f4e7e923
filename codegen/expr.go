/*
File    : yqlang/codegen/expr.go
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

var binaryOpCodes = map[string]bytecode.BinaryOp{
	"+": bytecode.BinAdd, "-": bytecode.BinSub, "*": bytecode.BinMul, "/": bytecode.BinDiv, "%": bytecode.BinMod,
	"==": bytecode.BinEq, "!=": bytecode.BinNe, ">": bytecode.BinGt, "<": bytecode.BinLt,
	">=": bytecode.BinGe, "<=": bytecode.BinLe, "in": bytecode.BinIn,
}

var assignOpCodes = map[string]bytecode.AssignOp{
	"+=": bytecode.AssignAdd, "-=": bytecode.AssignSub, "*=": bytecode.AssignMul,
	"/=": bytecode.AssignDiv, "%=": bytecode.AssignMod,
}

// emitExpr lowers an r-value expression: after it runs, exactly one new
// Pointer sits on top of the operand stack.
func (c *Compiler) emitExpr(e parser.Expr) error {
	switch n := e.(type) {
	case *parser.IntLit:
		c.emit(bytecode.LOAD_PUSH, c.internConst(value.Int(n.Value)))
	case *parser.StringLit:
		id := c.mem.PutCollection(memory.NewStringCollection(n.Value))
		c.emit(bytecode.LOAD_PUSH, int32(c.mem.DefineStatic("", value.Ref(id))))
	case *parser.BoolLit:
		if n.Value {
			c.emit(bytecode.PUSH_IMM, int32(bytecode.ImmTrue))
		} else {
			c.emit(bytecode.PUSH_IMM, int32(bytecode.ImmFalse))
		}
	case *parser.NullLit:
		c.emit(bytecode.PUSH_IMM, int32(bytecode.ImmNull))
	case *parser.Ident:
		return c.emitIdentRead(n)
	case *parser.ListLit:
		return c.emitListLit(n)
	case *parser.ObjectLit:
		return c.emitObjectLit(n)
	case *parser.ClosureLit:
		return c.emitClosureLit(n)
	case *parser.UnaryExpr:
		return c.emitUnary(n)
	case *parser.BinaryExpr:
		return c.emitBinary(n)
	case *parser.AccessChain:
		return c.compileAccessChain(n, false)
	default:
		return errAt(e.Pos(), "cannot compile expression of type %T", e)
	}
	return nil
}

func (c *Compiler) emitIdentRead(id *parser.Ident) error {
	if kind, off, ok := c.scope.resolve(id.Name); ok {
		_ = kind
		c.emit(bytecode.LOAD_LOCAL_PUSH, int32(off))
		return nil
	}
	if ptr, ok := c.mem.LookupSymbol(id.Name); ok {
		c.emit(bytecode.LOAD_PUSH, int32(ptr))
		return nil
	}
	if isBuiltinName(id.Name) {
		c.emit(bytecode.LOAD_PUSH, c.internBuiltin(id.Name))
		return nil
	}
	return errAt(id.Tok, "undeclared identifier %q", id.Name)
}

func (c *Compiler) emitListLit(n *parser.ListLit) error {
	for _, el := range n.Elems {
		if err := c.emitExpr(el); err != nil {
			return err
		}
	}
	c.emit(bytecode.CONS_PUSH, int32(len(n.Elems)))
	return nil
}

func (c *Compiler) emitObjectLit(n *parser.ObjectLit) error {
	for _, entry := range n.Entries {
		id := c.mem.PutCollection(memory.NewStringCollection(entry.Key))
		c.emit(bytecode.LOAD_PUSH, int32(c.mem.DefineStatic("", value.Ref(id))))
		if err := c.emitExpr(entry.Value); err != nil {
			return err
		}
	}
	c.emit(bytecode.CONS_OBJ_PUSH, int32(len(n.Entries)))
	return nil
}

func (c *Compiler) emitUnary(n *parser.UnaryExpr) error {
	if err := c.emitExpr(n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case "-":
		c.emit(bytecode.UNARY_OP, int32(bytecode.UnaryMinus))
	case "!":
		c.emit(bytecode.UNARY_OP, int32(bytecode.UnaryNot))
	default:
		return errAt(n.Tok, "unknown unary operator %q", n.Op)
	}
	return nil
}

// emitBinary lowers && and || with short-circuit jumps (spec.md §4.4); every
// other binary operator just evaluates both sides and emits BINARY_OP.
func (c *Compiler) emitBinary(n *parser.BinaryExpr) error {
	switch n.Op {
	case "&&":
		return c.emitShortCircuit(n, true)
	case "||":
		return c.emitShortCircuit(n, false)
	}
	if err := c.emitExpr(n.Left); err != nil {
		return err
	}
	if err := c.emitExpr(n.Right); err != nil {
		return err
	}
	op, ok := binaryOpCodes[n.Op]
	if !ok {
		return errAt(n.Tok, "unknown binary operator %q", n.Op)
	}
	c.emit(bytecode.BINARY_OP, int32(op))
	return nil
}

// emitShortCircuit implements `a && b` / `a || b` with the result always
// coerced to a boxed Boolean (spec.md §4.4): evaluating the RHS is skipped
// once the LHS already decides the outcome, but either way the pushed
// result goes through TO_BOOL, never the raw deciding operand. Since the
// instruction set has no dup opcode, the left operand is stashed in a
// hidden local so its value can be tested for truthiness and still be
// reloaded for the short-circuit branch.
func (c *Compiler) emitShortCircuit(n *parser.BinaryExpr, isAnd bool) error {
	if err := c.emitExpr(n.Left); err != nil {
		return err
	}
	tmp := c.scope.declareLocal(c.freshTempName())
	c.emit(bytecode.POP_SAVE_LOCAL, int32(tmp))
	c.emit(bytecode.LOAD_LOCAL_PUSH, int32(tmp))

	shortCircuit := c.newLabel()
	if isAnd {
		c.emit(bytecode.JUMP_ZERO, shortCircuit)
	} else {
		c.emit(bytecode.JUMP_NOT_ZERO, shortCircuit)
	}
	if err := c.emitExpr(n.Right); err != nil {
		return err
	}
	c.emit(bytecode.TO_BOOL, 0)
	done := c.newLabel()
	c.emit(bytecode.JUMP, done)
	c.markLabel(shortCircuit)
	c.emit(bytecode.LOAD_LOCAL_PUSH, int32(tmp))
	c.emit(bytecode.TO_BOOL, 0)
	c.markLabel(done)
	return nil
}
