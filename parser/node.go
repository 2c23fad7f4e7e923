/*
File    : yqlang/parser/node.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package parser

import "github.com/akashmaji946/yqlang/lexer"

// Node is the AST sum type (spec.md §3 "AST node"): every concrete
// statement/expression/pattern type in this file implements it. Dispatch is
// by type switch in package codegen, a visitor-style pattern that avoids
// emit methods on the node types themselves, which would otherwise force an
// import cycle between parser and codegen.
type Node interface {
	// Pos reports the token position the node starts at, for diagnostics.
	Pos() lexer.Token
}

// Expr is any Node that can occur in an expression position. It's a marker
// only — codegen tells expressions apart by type switch, same as Node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is the sub-language used on the LHS of assignments and in
// `for … in` bindings (spec.md grammar rule `pattern`).
type Pattern interface {
	Node
	patternNode()
}

type base struct{ Tok lexer.Token }

func (b base) Pos() lexer.Token { return b.Tok }

// ---- Expressions ----

type IntLit struct {
	base
	Value int64
}

type StringLit struct {
	base
	Value string
}

type BoolLit struct {
	base
	Value bool
}

type NullLit struct{ base }

// Ident is a variable reference, including the `$`/`$0`/`$1`/… shorthand
// closure-parameter identifiers (spec.md §4.1).
type Ident struct {
	base
	Name string
}

type ListLit struct {
	base
	Elems []Expr
}

// ObjectEntry is one `key: value` pair of an object literal.
type ObjectEntry struct {
	Key   string
	Value Expr
}

type ObjectLit struct {
	base
	Entries []ObjectEntry
}

// ClosureParam is one formal parameter of a closure literal.
type ClosureParam struct {
	Name string
}

// ClosureLit covers both spellings: `func(params) body` and the shorthand
// `{ $0, $1 }` / `{ a, b -> … }` forms (spec.md §4.2 disambiguation rule).
// For the bare-`$`-expression shorthand (no arrow, no named params),
// Params is empty and Body is a single implicit return of the expression.
type ClosureLit struct {
	base
	Params []ClosureParam
	Body   *Block
}

// SliceBound is one side of a `[begin:end]` subscript; Present distinguishes
// an omitted bound (open slice) from an explicit one.
type SliceBound struct {
	Value   Expr
	Present bool
}

// Subscript is a single `[...]` step of a postfix chain: either an index
// (IsSlice=false, Index set) or a slice (IsSlice=true, Begin/End set).
type Subscript struct {
	base
	IsSlice bool
	Index   Expr
	Begin   SliceBound
	End     SliceBound
}

// FieldAccess is a single `.IDENT` step of a postfix chain.
type FieldAccess struct {
	base
	Name string
}

// Call is a single `(args)` step of a postfix chain.
type Call struct {
	base
	Args []Expr
}

// postfixStep is implemented by Subscript, FieldAccess and Call so that
// AccessChain can hold a uniform slice of them.
type postfixStep interface {
	isPostfixStep()
}

func (Subscript) isPostfixStep()   {}
func (FieldAccess) isPostfixStep() {}
func (Call) isPostfixStep()        {}

// AccessChain is a primary expression followed by zero or more postfix
// steps (spec.md grammar rule `postfix`). A chain containing at least one
// Subscript or FieldAccess step is also a valid l-value/pattern target (see
// codegen's compileAccessChain with asLValue set); one ending in Call never is.
type AccessChain struct {
	base
	Target Expr
	Steps  []postfixStep
}

type UnaryExpr struct {
	base
	Op      string // "!" or "-"
	Operand Expr
}

type BinaryExpr struct {
	base
	Op    string // one of the operators in the equality/comparison/term/factor/logic tiers
	Left  Expr
	Right Expr
}

func (IntLit) exprNode()      {}
func (StringLit) exprNode()   {}
func (BoolLit) exprNode()     {}
func (NullLit) exprNode()     {}
func (Ident) exprNode()       {}
func (ListLit) exprNode()     {}
func (ObjectLit) exprNode()   {}
func (ClosureLit) exprNode()  {}
func (AccessChain) exprNode() {}
func (UnaryExpr) exprNode()   {}
func (BinaryExpr) exprNode()  {}

// ---- Patterns ----

// IdentPattern binds a single plain identifier. A literal in pattern
// position is a ConstPattern instead.
type IdentPattern struct {
	base
	Name string
}

// ConstPattern is a literal appearing in pattern position: POP_ASSERT_EQ /
// POP_ASSERT_EQ_IMM, per spec.md §4.3.
type ConstPattern struct {
	base
	Literal Expr
}

// ListPattern destructures a list value element-wise.
type ListPattern struct {
	base
	Elems []Pattern
}

// AccessPattern is an existing l-value (e.g. `a.b[3]`) appearing on the LHS
// of an assignment — not a binding, a target.
type AccessPattern struct {
	base
	Chain AccessChain
}

func (IdentPattern) patternNode()  {}
func (ConstPattern) patternNode()  {}
func (ListPattern) patternNode()   {}
func (AccessPattern) patternNode() {}

// ---- Statements ----

type Block struct {
	base
	Stmts []Node
}

type If struct {
	base
	Cond Expr
	Then Node
	Else Node // nil if no else clause
}

type While struct {
	base
	Cond Expr
	Body Node
}

type ForIn struct {
	base
	Pat  Pattern
	Seq  Expr
	Body Node
}

type Break struct{ base }
type Continue struct{ base }

type Return struct {
	base
	Value Expr // nil for bare `return`
}

// Init wraps a statement that only executes on a program's first run
// (spec.md §4.4 "init stmt lowers to JUMP_NOT_FIRST_RUN").
type Init struct {
	base
	Stmt Node
}

// FuncDecl is `func IDENT(params) body`, sugar for binding a ClosureLit to
// a name.
type FuncDecl struct {
	base
	Name   string
	Params []ClosureParam
	Body   *Block
}

// ActionKind names which of say/nudge/picsave/picsend an Action statement
// performs (spec.md §4.7 ACTION opcode).
type ActionKind int

const (
	ActionSay ActionKind = iota
	ActionNudge
	ActionPicsave
	ActionPicsend
)

type Action struct {
	base
	Kind ActionKind
	Arg  Expr
}

// Assign covers both plain `=` and compound `+= -= *= /= %=` forms; Op is
// "" for plain assignment.
type Assign struct {
	base
	Target Pattern
	Op     string
	Value  Expr
}

// ExprStmt is a bare expression used as a statement (e.g. a call for its
// side effects).
type ExprStmt struct {
	base
	X Expr
}

// Program is the top-level statement list (spec.md grammar rule
// `program`).
type Program struct {
	base
	Stmts []Node
}
