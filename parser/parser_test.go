/*
File    : yqlang/parser/parser_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	prog, err := Parse("say 1 + 2 * 3")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	action := prog.Stmts[0].(*Action)
	assert.Equal(t, ActionSay, action.Kind)
	bin := action.Arg.(*BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	assert.Equal(t, int64(1), bin.Left.(*IntLit).Value)
	mul := bin.Right.(*BinaryExpr)
	assert.Equal(t, "*", mul.Op)
}

func TestParseAssignmentPlainAndCompound(t *testing.T) {
	prog, err := Parse("a = 1\na += 2")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)
	first := prog.Stmts[0].(*Assign)
	assert.Equal(t, "", first.Op)
	assert.Equal(t, "a", first.Target.(*IdentPattern).Name)
	second := prog.Stmts[1].(*Assign)
	assert.Equal(t, "+=", second.Op)
}

func TestParseListPatternDestructure(t *testing.T) {
	prog, err := Parse("[a, b] = [1, 2]")
	require.NoError(t, err)
	assign := prog.Stmts[0].(*Assign)
	lp := assign.Target.(*ListPattern)
	require.Len(t, lp.Elems, 2)
	assert.Equal(t, "a", lp.Elems[0].(*IdentPattern).Name)
	assert.Equal(t, "b", lp.Elems[1].(*IdentPattern).Name)
}

func TestParseIfElse(t *testing.T) {
	prog, err := Parse("if x { say 1 } else { say 2 }")
	require.NoError(t, err)
	ifNode := prog.Stmts[0].(*If)
	require.NotNil(t, ifNode.Else)
	_, ok := ifNode.Cond.(*Ident)
	assert.True(t, ok)
}

func TestParseForIn(t *testing.T) {
	prog, err := Parse("for x in range(1, 5) { say x }")
	require.NoError(t, err)
	forIn := prog.Stmts[0].(*ForIn)
	assert.Equal(t, "x", forIn.Pat.(*IdentPattern).Name)
	chain := forIn.Seq.(*AccessChain)
	require.Len(t, chain.Steps, 1)
	_, ok := chain.Steps[0].(Call)
	assert.True(t, ok)
}

func TestParseInit(t *testing.T) {
	prog, err := Parse("init s = 0")
	require.NoError(t, err)
	init := prog.Stmts[0].(*Init)
	assign := init.Stmt.(*Assign)
	assert.Equal(t, "s", assign.Target.(*IdentPattern).Name)
}

func TestParseShorthandClosure(t *testing.T) {
	prog, err := Parse("say range(1, 5).map({ $0 * $0 }).reduce(0, { $0 + $1 })")
	require.NoError(t, err)
	action := prog.Stmts[0].(*Action)
	chain := action.Arg.(*AccessChain)
	// range(1, 5).map(...).reduce(...) => three Call steps, the last two
	// interleaved with FieldAccess.
	var calls int
	for _, s := range chain.Steps {
		if _, ok := s.(Call); ok {
			calls++
		}
	}
	assert.Equal(t, 3, calls)
}

func TestParseNamedParamClosure(t *testing.T) {
	prog, err := Parse("f = { a, b -> a + b }")
	require.NoError(t, err)
	assign := prog.Stmts[0].(*Assign)
	closure := assign.Value.(*ClosureLit)
	require.Len(t, closure.Params, 2)
	assert.Equal(t, "a", closure.Params[0].Name)
	assert.Equal(t, "b", closure.Params[1].Name)
	require.Len(t, closure.Body.Stmts, 1)
	_, ok := closure.Body.Stmts[0].(*Return)
	assert.True(t, ok)
}

func TestParseObjectLiteral(t *testing.T) {
	prog, err := Parse(`o = { x: 1, y: 2 }`)
	require.NoError(t, err)
	assign := prog.Stmts[0].(*Assign)
	obj := assign.Value.(*ObjectLit)
	require.Len(t, obj.Entries, 2)
	assert.Equal(t, "x", obj.Entries[0].Key)
}

func TestParseBlockVsClosureDisambiguation(t *testing.T) {
	prog, err := Parse("{ say 1 }")
	require.NoError(t, err)
	_, ok := prog.Stmts[0].(*Block)
	assert.True(t, ok)
}

func TestParseFuncDecl(t *testing.T) {
	prog, err := Parse("func add(a, b) { return a + b }")
	require.NoError(t, err)
	fn := prog.Stmts[0].(*FuncDecl)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
}

func TestParseSliceSubscript(t *testing.T) {
	prog, err := Parse("a[1:2] = [9, 9]")
	require.NoError(t, err)
	assign := prog.Stmts[0].(*Assign)
	ap := assign.Target.(*AccessPattern)
	require.Len(t, ap.Chain.Steps, 1)
	sub := ap.Chain.Steps[0].(Subscript)
	assert.True(t, sub.IsSlice)
}

func TestParseErrorUnexpectedToken(t *testing.T) {
	_, err := Parse("a = )")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseNestedListPattern(t *testing.T) {
	prog, err := Parse("for [a, [b, c]] in items { say a }")
	require.NoError(t, err)
	forIn := prog.Stmts[0].(*ForIn)
	lp := forIn.Pat.(*ListPattern)
	require.Len(t, lp.Elems, 2)
	inner := lp.Elems[1].(*ListPattern)
	require.Len(t, inner.Elems, 2)
}
