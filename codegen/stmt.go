/*
File    : yqlang/codegen/stmt.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package codegen

import (
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/parser"
	"github.com/akashmaji946/yqlang/value"
)

var actionOpCodes = map[parser.ActionKind]bytecode.ActionKind{
	parser.ActionSay:     bytecode.ActionSay,
	parser.ActionNudge:   bytecode.ActionNudge,
	parser.ActionPicsave: bytecode.ActionPicsave,
	parser.ActionPicsend: bytecode.ActionPicsend,
}

func (c *Compiler) compileStmt(n parser.Node) error {
	switch s := n.(type) {
	case *parser.Block:
		for _, st := range s.Stmts {
			if err := c.compileStmt(st); err != nil {
				return err
			}
		}
		return nil
	case *parser.If:
		return c.compileIf(s)
	case *parser.While:
		return c.compileWhile(s)
	case *parser.ForIn:
		return c.compileForIn(s)
	case *parser.Break:
		return c.compileBreak(s)
	case *parser.Continue:
		return c.compileContinue(s)
	case *parser.Return:
		return c.compileReturn(s)
	case *parser.Init:
		return c.compileInit(s)
	case *parser.FuncDecl:
		return c.compileFuncDecl(s)
	case *parser.Action:
		return c.compileAction(s)
	case *parser.Assign:
		return c.compileAssign(s)
	case *parser.ExprStmt:
		if err := c.emitExpr(s.X); err != nil {
			return err
		}
		c.emit(bytecode.POP)
		return nil
	default:
		return errAt(n.Pos(), "cannot compile statement of type %T", n)
	}
}

func (c *Compiler) compileAction(a *parser.Action) error {
	if err := c.emitExpr(a.Arg); err != nil {
		return err
	}
	kind, ok := actionOpCodes[a.Kind]
	if !ok {
		return errAt(a.Tok, "unknown action kind")
	}
	c.emit(bytecode.ACTION, int32(kind))
	c.emit(bytecode.POP)
	return nil
}

// compileIf lowers `if cond then [else other]` with the usual two-jump
// pattern: JUMP_ZERO to the else branch (or end), an unconditional JUMP past
// the else branch at the end of the then branch.
func (c *Compiler) compileIf(n *parser.If) error {
	if err := c.emitExpr(n.Cond); err != nil {
		return err
	}
	elseLabel := c.newLabel()
	c.emit(bytecode.JUMP_ZERO, elseLabel)
	if err := c.compileStmt(n.Then); err != nil {
		return err
	}
	if n.Else == nil {
		c.markLabel(elseLabel)
		return nil
	}
	endLabel := c.newLabel()
	c.emit(bytecode.JUMP, endLabel)
	c.markLabel(elseLabel)
	if err := c.compileStmt(n.Else); err != nil {
		return err
	}
	c.markLabel(endLabel)
	return nil
}

func (c *Compiler) compileWhile(n *parser.While) error {
	start := c.newLabel()
	end := c.newLabel()
	c.markLabel(start)
	if err := c.emitExpr(n.Cond); err != nil {
		return err
	}
	c.emit(bytecode.JUMP_ZERO, end)
	c.loops = append(c.loops, loopCtx{startLabel: start, endLabel: end})
	err := c.compileStmt(n.Body)
	c.loops = c.loops[:len(c.loops)-1]
	if err != nil {
		return err
	}
	c.emit(bytecode.JUMP, start)
	c.markLabel(end)
	return nil
}

// compileForIn lowers `for pattern in seq { body }` using the VM's iterator
// stack (spec.md §4.8): PUSH_ITERATOR consumes the sequence value and opens
// a new iterator frame; JUMP_IF_ITER_DONE ends the loop; ITER_NEXT_PUSH
// pushes the next element (consumed by the loop pattern); POP_ITERATOR
// closes the frame on the way out, including on break.
func (c *Compiler) compileForIn(n *parser.ForIn) error {
	if err := c.emitExpr(n.Seq); err != nil {
		return err
	}
	c.emit(bytecode.PUSH_ITERATOR)
	start := c.newLabel()
	end := c.newLabel()
	c.markLabel(start)
	c.emit(bytecode.JUMP_IF_ITER_DONE, end)
	c.emit(bytecode.ITER_NEXT_PUSH)
	if err := c.emitBindPattern(n.Pat); err != nil {
		return err
	}
	c.loops = append(c.loops, loopCtx{startLabel: start, endLabel: end})
	err := c.compileStmt(n.Body)
	c.loops = c.loops[:len(c.loops)-1]
	if err != nil {
		return err
	}
	c.emit(bytecode.JUMP, start)
	c.markLabel(end)
	c.emit(bytecode.POP_ITERATOR)
	return nil
}

func (c *Compiler) compileBreak(n *parser.Break) error {
	if len(c.loops) == 0 {
		return errAt(n.Tok, "break outside of a loop")
	}
	top := c.loops[len(c.loops)-1]
	c.emit(bytecode.JUMP, top.endLabel)
	return nil
}

func (c *Compiler) compileContinue(n *parser.Continue) error {
	if len(c.loops) == 0 {
		return errAt(n.Tok, "continue outside of a loop")
	}
	top := c.loops[len(c.loops)-1]
	c.emit(bytecode.JUMP, top.startLabel)
	return nil
}

// compileReturn lowers `return expr` as "evaluate expr, POP_RETURN", and
// bare `return` as "CLEAR_REG, RETURN" — the same sequence a function body
// falling off its end uses, see compileFuncBody.
func (c *Compiler) compileReturn(n *parser.Return) error {
	if n.Value == nil {
		c.emit(bytecode.CLEAR_REG)
		c.emit(bytecode.RETURN)
		return nil
	}
	if err := c.emitExpr(n.Value); err != nil {
		return err
	}
	c.emit(bytecode.POP_RETURN)
	return nil
}

// compileInit lowers `init stmt` to a JUMP_NOT_FIRST_RUN guard around stmt
// (spec.md §4.4): on every run after the first, the guarded statement is
// skipped entirely.
func (c *Compiler) compileInit(n *parser.Init) error {
	skip := c.newLabel()
	c.emit(bytecode.JUMP_NOT_FIRST_RUN, skip)
	if err := c.compileStmt(n.Stmt); err != nil {
		return err
	}
	c.markLabel(skip)
	return nil
}

// compileFuncDecl binds `func NAME(params) body` to NAME exactly like
// `NAME = func(params) body` would, except the name is declared before the
// closure is built so a recursive call to NAME from inside body resolves.
func (c *Compiler) compileFuncDecl(n *parser.FuncDecl) error {
	if err := c.declareBeforeInit(n.Name, n.Tok); err != nil {
		return err
	}
	if err := c.emitClosureValue(n.Params, n.Body); err != nil {
		return err
	}
	return c.emitBindName(n.Name, n.Tok)
}

// declareBeforeInit makes sure name already has a binding (local or global)
// before its initializer is compiled, so self-reference inside the
// initializer resolves as a capture/global read instead of a CompileError.
func (c *Compiler) declareBeforeInit(name string, tok interface{ Position() string }) error {
	if _, _, ok := c.scope.resolve(name); ok {
		return nil
	}
	if c.scope.isTop() {
		c.mem.DefineStatic(name, value.Null)
		return nil
	}
	c.scope.declareLocal(name)
	return nil
}
