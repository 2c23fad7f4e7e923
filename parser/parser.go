/*
File    : yqlang/parser/parser.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package parser implements yqlang's recursive-descent parser (spec.md
// §4.2): it turns a lexer.Token stream into the AST sum type defined in
// node.go, following the grammar's precedence ladder
// (logic_or→logic_and→equality→comparison→term→factor→unary→postfix→primary)
// explicitly, one method per tier, rather than a Pratt/precedence-climbing
// table; this grammar is small and fixed enough that an explicit ladder
// reads more directly off spec.md than a generalized precedence table
// would.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akashmaji946/yqlang/lexer"
)

// ParseError reports a grammar violation: the token kinds/literal that
// would have been accepted, what was actually found, and where (spec.md
// §7's ParseError{expected, found, position}).
type ParseError struct {
	Expected string
	Found    string
	Position string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s, found %s", e.Position, e.Expected, e.Found)
}

// Parser holds the token buffer and a read cursor; it carries no
// environment or const-tracking fields, since yqlang has no
// constant-folding or static typing at parse time.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses src in one step, the entry point used by
// package console (cmd/yqlang runs lexer.Tokenize and ParseProgram as
// separate stages).
func Parse(src string) (*Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

// New builds a Parser over an already-tokenized stream.
func New(toks []lexer.Token) *Parser { return &Parser{toks: toks} }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF, Lexeme: "EOF"}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF, Lexeme: "EOF"}
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	p.pos++
	return t
}

func (p *Parser) at(kind lexer.TokenKind) bool { return p.cur().Kind == kind }

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if !p.at(kind) {
		t := p.cur()
		return t, &ParseError{Expected: string(kind), Found: string(t.Kind), Position: t.Position()}
	}
	return p.advance(), nil
}

// skipLineBreaks consumes any run of LineBreak tokens, matching the
// grammar's "newlines and semicolons are optional statement terminators"
// rule.
func (p *Parser) skipLineBreaks() {
	for p.at(lexer.LineBreak) {
		p.advance()
	}
}

// ParseProgram parses the full token stream as a top-level statement list.
func (p *Parser) ParseProgram() (*Program, error) {
	tok := p.cur()
	prog := &Program{base: base{Tok: tok}}
	p.skipLineBreaks()
	for !p.at(lexer.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		p.skipLineBreaks()
	}
	return prog, nil
}

// ---- Statements ----

func (p *Parser) parseStmt() (Node, error) {
	switch p.cur().Kind {
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwFor:
		return p.parseForIn()
	case lexer.KwInit:
		return p.parseInit()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwBreak:
		t := p.advance()
		return &Break{base{t}}, nil
	case lexer.KwContinue:
		t := p.advance()
		return &Continue{base{t}}, nil
	case lexer.KwSay, lexer.KwNudge, lexer.KwPicsave, lexer.KwPicsend:
		return p.parseAction()
	case lexer.KwFunc:
		if p.peekAt(1).Kind == lexer.Ident {
			return p.parseFuncDecl()
		}
	case lexer.LBrace:
		if p.braceIsBlock() {
			return p.parseBlock()
		}
	}
	return p.parseAssignmentOrExpr()
}

func (p *Parser) parseBlock() (*Block, error) {
	open, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	blk := &Block{base: base{open}}
	p.skipLineBreaks()
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, stmt)
		p.skipLineBreaks()
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return blk, nil
}

// blockify wraps a single statement in a one-statement Block, for stmt
// forms whose body grammar rule is just `stmt` (if/while/for without
// braces).
func blockify(n Node) *Block {
	if b, ok := n.(*Block); ok {
		return b
	}
	return &Block{base: base{n.Pos()}, Stmts: []Node{n}}
}

func (p *Parser) parseIf() (Node, error) {
	tok := p.advance() // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	n := &If{base: base{tok}, Cond: cond, Then: then}
	save := p.pos
	p.skipLineBreaks()
	if p.at(lexer.KwElse) {
		p.advance()
		elseStmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		n.Else = elseStmt
	} else {
		p.pos = save
	}
	return n, nil
}

func (p *Parser) parseWhile() (Node, error) {
	tok := p.advance() // "while"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &While{base: base{tok}, Cond: cond, Body: body}, nil
}

func (p *Parser) parseForIn() (Node, error) {
	tok := p.advance() // "for"
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwIn); err != nil {
		return nil, err
	}
	seq, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ForIn{base: base{tok}, Pat: pat, Seq: seq, Body: body}, nil
}

func (p *Parser) parseInit() (Node, error) {
	tok := p.advance() // "init"
	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &Init{base: base{tok}, Stmt: stmt}, nil
}

func (p *Parser) parseReturn() (Node, error) {
	tok := p.advance() // "return"
	n := &Return{base: base{tok}}
	if p.at(lexer.LineBreak) || p.at(lexer.EOF) || p.at(lexer.RBrace) {
		return n, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n.Value = val
	return n, nil
}

func (p *Parser) parseAction() (Node, error) {
	tok := p.advance()
	var kind ActionKind
	switch tok.Kind {
	case lexer.KwSay:
		kind = ActionSay
	case lexer.KwNudge:
		kind = ActionNudge
	case lexer.KwPicsave:
		kind = ActionPicsave
	case lexer.KwPicsend:
		kind = ActionPicsend
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Action{base: base{tok}, Kind: kind, Arg: arg}, nil
}

func (p *Parser) parseFuncDecl() (Node, error) {
	tok := p.advance() // "func"
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	bodyStmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{base: base{tok}, Name: name.Lexeme, Params: params, Body: blockify(bodyStmt)}, nil
}

func (p *Parser) parseParams() ([]ClosureParam, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []ClosureParam
	for !p.at(lexer.RParen) {
		if len(params) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
		}
		id, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, ClosureParam{Name: id.Lexeme})
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

// assignOps maps an assignment-operator token to the '+=' etc. spelling
// Assign.Op records; Assign carries "" for plain '='.
var assignOps = map[lexer.TokenKind]string{
	lexer.Assign:      "",
	lexer.PlusAssign:  "+=",
	lexer.MinusAssign: "-=",
	lexer.StarAssign:  "*=",
	lexer.SlashAssign: "/=",
	lexer.PctAssign:   "%=",
}

func (p *Parser) parseAssignmentOrExpr() (Node, error) {
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOps[p.cur().Kind]; ok {
		tok := p.advance()
		pat, err := exprToPattern(lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Assign{base: base{tok}, Target: pat, Op: op, Value: rhs}, nil
	}
	return &ExprStmt{base: base{lhs.Pos()}, X: lhs}, nil
}

// exprToPattern converts an already-parsed expression into the pattern it
// denotes as an assignment target: identifiers bind, list literals
// destructure element-wise, access chains with at least one subscript/field
// step are existing l-values.
func exprToPattern(e Expr) (Pattern, error) {
	switch n := e.(type) {
	case *Ident:
		return &IdentPattern{base: n.base, Name: n.Name}, nil
	case *ListLit:
		lp := &ListPattern{base: n.base}
		for _, el := range n.Elems {
			sub, err := exprToPattern(el)
			if err != nil {
				return nil, err
			}
			lp.Elems = append(lp.Elems, sub)
		}
		return lp, nil
	case *AccessChain:
		if len(n.Steps) == 0 {
			return exprToPattern(n.Target)
		}
		return &AccessPattern{base: n.base, Chain: *n}, nil
	case *IntLit, *StringLit, *BoolLit, *NullLit:
		return &ConstPattern{base: base{e.Pos()}, Literal: e}, nil
	default:
		t := e.Pos()
		return nil, &ParseError{Expected: "assignable pattern", Found: string(t.Kind), Position: t.Position()}
	}
}

// parsePattern parses the grammar's standalone `pattern` production, used
// by `for pattern in expr`.
func (p *Parser) parsePattern() (Pattern, error) {
	if p.at(lexer.LBracket) {
		tok := p.advance()
		lp := &ListPattern{base: base{tok}}
		for !p.at(lexer.RBracket) {
			if len(lp.Elems) > 0 {
				if _, err := p.expect(lexer.Comma); err != nil {
					return nil, err
				}
			}
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			lp.Elems = append(lp.Elems, sub)
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return lp, nil
	}
	id, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	return &IdentPattern{base: base{id}, Name: id.Lexeme}, nil
}

// ---- Expressions: precedence ladder ----

func (p *Parser) parseExpr() (Expr, error) { return p.parseLogicOr() }

func (p *Parser) parseLogicOr() (Expr, error) {
	left, err := p.parseLogicAnd()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.OrOr) {
		tok := p.advance()
		right, err := p.parseLogicAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{tok}, Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.AndAnd) {
		tok := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{tok}, Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.EqEq) || p.at(lexer.NotEq) || p.at(lexer.KwIn) {
		tok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Less) || p.at(lexer.LessEq) || p.at(lexer.Gtr) || p.at(lexer.GtrEq) {
		tok := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		tok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Star) || p.at(lexer.Slash) || p.at(lexer.Percent) {
		tok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.at(lexer.Bang) || p.at(lexer.Minus) {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{base: base{tok}, Op: tok.Lexeme, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	var steps []postfixStep
	tok := prim.Pos()
	for {
		switch {
		case p.at(lexer.Dot):
			p.advance()
			name, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			steps = append(steps, FieldAccess{base: base{name}, Name: name.Lexeme})
		case p.at(lexer.LBracket):
			sub, err := p.parseSubscript()
			if err != nil {
				return nil, err
			}
			steps = append(steps, *sub)
		case p.at(lexer.LParen):
			call, err := p.parseCall()
			if err != nil {
				return nil, err
			}
			steps = append(steps, *call)
		default:
			if len(steps) == 0 {
				return prim, nil
			}
			return &AccessChain{base: base{tok}, Target: prim, Steps: steps}, nil
		}
	}
}

func (p *Parser) parseSubscript() (*Subscript, error) {
	open := p.advance() // "["
	sub := &Subscript{base: base{open}}
	if p.at(lexer.Colon) {
		p.advance()
		sub.IsSlice = true
		if !p.at(lexer.RBracket) {
			end, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			sub.End = SliceBound{Value: end, Present: true}
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return sub, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.Colon) {
		p.advance()
		sub.IsSlice = true
		sub.Begin = SliceBound{Value: first, Present: true}
		if !p.at(lexer.RBracket) {
			end, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			sub.End = SliceBound{Value: end, Present: true}
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return sub, nil
	}
	sub.Index = first
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return sub, nil
}

func (p *Parser) parseCall() (*Call, error) {
	open := p.advance() // "("
	call := &Call{base: base{open}}
	for !p.at(lexer.RParen) {
		if len(call.Args) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IntLit:
		p.advance()
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, &ParseError{Expected: "integer literal", Found: tok.Lexeme, Position: tok.Position()}
		}
		return &IntLit{base: base{tok}, Value: n}, nil
	case lexer.StringLit:
		p.advance()
		return &StringLit{base: base{tok}, Value: tok.Lexeme}, nil
	case lexer.KwTrue:
		p.advance()
		return &BoolLit{base: base{tok}, Value: true}, nil
	case lexer.KwFalse:
		p.advance()
		return &BoolLit{base: base{tok}, Value: false}, nil
	case lexer.KwNull:
		p.advance()
		return &NullLit{base: base{tok}}, nil
	case lexer.Ident:
		p.advance()
		return &Ident{base: base{tok}, Name: tok.Lexeme}, nil
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LBracket:
		return p.parseListLit()
	case lexer.LBrace:
		return p.parseBraceExpr()
	case lexer.KwFunc:
		return p.parseFuncExpr()
	}
	return nil, &ParseError{Expected: "expression", Found: string(tok.Kind), Position: tok.Position()}
}

func (p *Parser) parseListLit() (Expr, error) {
	open := p.advance() // "["
	lit := &ListLit{base: base{open}}
	for !p.at(lexer.RBracket) {
		if len(lit.Elems) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
		}
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, el)
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseFuncExpr() (Expr, error) {
	tok := p.advance() // "func"
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	bodyStmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ClosureLit{base: base{tok}, Params: params, Body: blockify(bodyStmt)}, nil
}

// braceIsBlock implements spec.md §4.2's disambiguation peek: an
// IDENT "->", an IDENT ",", or a leading "$" identifier signal a closure
// literal, and an IDENT or STRING followed by ":" an object literal;
// anything else at statement position is a block.
func (p *Parser) braceIsBlock() bool {
	return p.braceKind() == braceBlock
}

type braceKind int

const (
	braceBlock braceKind = iota
	braceClosureNamed
	braceClosureShorthand
	braceObject
)

func (p *Parser) braceKind() braceKind {
	t1 := p.peekAt(1)
	t2 := p.peekAt(2)
	switch {
	case t1.Kind == lexer.Ident && (t2.Kind == lexer.Arrow || t2.Kind == lexer.Comma):
		return braceClosureNamed
	case t1.Kind == lexer.Ident && strings.HasPrefix(t1.Lexeme, "$"):
		return braceClosureShorthand
	case (t1.Kind == lexer.Ident || t1.Kind == lexer.StringLit) && t2.Kind == lexer.Colon:
		return braceObject
	default:
		return braceBlock
	}
}

// parseBraceExpr parses `{ ... }` in expression position: an object
// literal or a named-parameter or shorthand closure literal. Any other
// brace form is a ParseError; a block is not accepted as an expression.
func (p *Parser) parseBraceExpr() (Expr, error) {
	switch p.braceKind() {
	case braceClosureNamed:
		return p.parseClosureNamed()
	case braceClosureShorthand:
		return p.parseClosureShorthand()
	case braceObject:
		return p.parseObjectLit()
	default:
		tok := p.cur()
		return nil, &ParseError{Expected: "object or closure literal", Found: string(tok.Kind), Position: tok.Position()}
	}
}

func (p *Parser) parseObjectLit() (Expr, error) {
	open := p.advance() // "{"
	lit := &ObjectLit{base: base{open}}
	p.skipLineBreaks()
	for !p.at(lexer.RBrace) {
		if len(lit.Entries) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
			p.skipLineBreaks()
		}
		key := p.advance() // IDENT or STRING
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Entries = append(lit.Entries, ObjectEntry{Key: key.Lexeme, Value: val})
		p.skipLineBreaks()
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseClosureNamed parses `{ a, b -> body }`.
func (p *Parser) parseClosureNamed() (Expr, error) {
	open := p.advance() // "{"
	var params []ClosureParam
	for {
		id, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, ClosureParam{Name: id.Lexeme})
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.Arrow); err != nil {
		return nil, err
	}
	body, err := p.parseClosureBodyExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ClosureLit{base: base{open}, Params: params, Body: body}, nil
}

// parseClosureShorthand parses `{ $0 * $0 }`: the whole brace body is a
// single expression referring to $0, $1, ... (and bare $ for the whole
// argument list), with no declared parameter list.
func (p *Parser) parseClosureShorthand() (Expr, error) {
	open := p.advance() // "{"
	body, err := p.parseClosureBodyExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ClosureLit{base: base{open}, Body: body}, nil
}

// parseClosureBodyExpr parses a closure literal's body as a single
// expression, implicitly returned.
func (p *Parser) parseClosureBodyExpr() (*Block, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Block{base: base{expr.Pos()}, Stmts: []Node{&Return{base: base{expr.Pos()}, Value: expr}}}, nil
}
