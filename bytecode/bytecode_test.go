/*
File    : yqlang/bytecode/bytecode_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package bytecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "BINARY_OP", BINARY_OP.String())
	assert.Equal(t, "UNKNOWN_OP", Op(999).String())
}

func TestDisassembleRendersOperandNames(t *testing.T) {
	p := Program{Text: []ByteCode{
		New(PUSH_IMM, int32(ImmTrue)),
		New(BINARY_OP, int32(BinAdd)),
		New(ACTION, int32(ActionSay)),
		New(EXIT),
	}}
	out := Disassemble(p)
	assert.True(t, strings.Contains(out, "true"))
	assert.True(t, strings.Contains(out, "ADD"))
	assert.True(t, strings.Contains(out, "say"))
	assert.True(t, strings.Contains(out, "EXIT"))
}

func TestNewDefaultsOperandToZero(t *testing.T) {
	bc := New(NOP)
	assert.Equal(t, int32(0), bc.Operand)
}
