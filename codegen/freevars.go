/*
File    : yqlang/codegen/freevars.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package codegen

import "github.com/akashmaji946/yqlang/parser"

// freeVariables is a pure AST scan (no bytecode, no Memory interaction)
// collecting, in first-use order, every identifier a closure body reads
// that isn't one of its own parameters or locally assigned within it.
// Nested closures' own free variables (minus their parameters) bubble up
// too, since a variable two levels of nesting away still has to be
// threaded through the middle closure's captures.
func freeVariables(params []parser.ClosureParam, body *parser.Block) []string {
	bound := map[string]bool{}
	for _, p := range params {
		bound[p.Name] = true
	}
	seen := map[string]bool{}
	var order []string
	addFree := func(name string) {
		if bound[name] || seen[name] {
			return
		}
		seen[name] = true
		order = append(order, name)
	}

	var scanPattern func(p parser.Pattern)
	var scanExpr func(e parser.Expr)
	var scanChain func(ch *parser.AccessChain)
	var scanStmt func(n parser.Node)

	scanPattern = func(p parser.Pattern) {
		switch t := p.(type) {
		case *parser.IdentPattern:
			bound[t.Name] = true
		case *parser.ListPattern:
			for _, e := range t.Elems {
				scanPattern(e)
			}
		case *parser.AccessPattern:
			scanChain(&t.Chain)
		case *parser.ConstPattern:
			scanExpr(t.Literal)
		}
	}

	scanChain = func(ch *parser.AccessChain) {
		scanExpr(ch.Target)
		for _, step := range ch.Steps {
			switch s := step.(type) {
			case parser.Subscript:
				if s.IsSlice {
					if s.Begin.Present {
						scanExpr(s.Begin.Value)
					}
					if s.End.Present {
						scanExpr(s.End.Value)
					}
				} else {
					scanExpr(s.Index)
				}
			case parser.Call:
				for _, a := range s.Args {
					scanExpr(a)
				}
			case parser.FieldAccess:
				// no sub-expression
			}
		}
	}

	scanExpr = func(e parser.Expr) {
		switch n := e.(type) {
		case *parser.Ident:
			addFree(n.Name)
		case *parser.ListLit:
			for _, el := range n.Elems {
				scanExpr(el)
			}
		case *parser.ObjectLit:
			for _, entry := range n.Entries {
				scanExpr(entry.Value)
			}
		case *parser.ClosureLit:
			for _, name := range freeVariables(n.Params, n.Body) {
				addFree(name)
			}
		case *parser.UnaryExpr:
			scanExpr(n.Operand)
		case *parser.BinaryExpr:
			scanExpr(n.Left)
			scanExpr(n.Right)
		case *parser.AccessChain:
			scanChain(n)
		}
	}

	scanStmt = func(n parser.Node) {
		switch s := n.(type) {
		case *parser.Block:
			for _, st := range s.Stmts {
				scanStmt(st)
			}
		case *parser.If:
			scanExpr(s.Cond)
			scanStmt(s.Then)
			if s.Else != nil {
				scanStmt(s.Else)
			}
		case *parser.While:
			scanExpr(s.Cond)
			scanStmt(s.Body)
		case *parser.ForIn:
			scanExpr(s.Seq)
			scanPattern(s.Pat)
			scanStmt(s.Body)
		case *parser.Return:
			if s.Value != nil {
				scanExpr(s.Value)
			}
		case *parser.Init:
			scanStmt(s.Stmt)
		case *parser.FuncDecl:
			bound[s.Name] = true
			for _, name := range freeVariables(s.Params, s.Body) {
				addFree(name)
			}
		case *parser.Action:
			scanExpr(s.Arg)
		case *parser.Assign:
			scanExpr(s.Value)
			if ap, ok := s.Target.(*parser.AccessPattern); ok {
				scanChain(&ap.Chain)
			} else {
				scanPattern(s.Target)
			}
		case *parser.ExprStmt:
			scanExpr(s.X)
		}
	}

	for _, st := range body.Stmts {
		scanStmt(st)
	}
	return order
}
