/*
File    : yqlang/bytecode/disassemble.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package bytecode

import (
	"fmt"
	"strings"
)

// operandName renders an instruction's operand using the opcode-specific
// sub-enum it carries, falling back to a plain decimal for opcodes whose
// operand is just a count or a label id.
func operandName(bc ByteCode) string {
	switch bc.Op {
	case SUBSCRIPT_PUSH:
		switch SubscriptKind(bc.Operand) {
		case SubscriptIndex:
			return "index"
		case SubscriptOpenSlice:
			return "open_slice"
		case SubscriptClosedSlice:
			return "closed_slice"
		}
	case PUSH_IMM, POP_ASSERT_EQ_IMM:
		switch ImmCode(bc.Operand) {
		case ImmNull:
			return "null"
		case ImmFalse:
			return "false"
		case ImmTrue:
			return "true"
		}
	case ACTION:
		switch ActionKind(bc.Operand) {
		case ActionSay:
			return "say"
		case ActionNudge:
			return "nudge"
		case ActionPicsave:
			return "picsave"
		case ActionPicsend:
			return "picsend"
		}
	case BINARY_OP:
		names := []string{"ADD", "SUB", "MUL", "DIV", "MOD", "EQ", "NE", "GT", "LT", "GE", "LE", "LAND", "LOR", "IN"}
		if int(bc.Operand) < len(names) {
			return names[bc.Operand]
		}
	case UNARY_OP:
		names := []string{"MINUS", "NOT"}
		if int(bc.Operand) < len(names) {
			return names[bc.Operand]
		}
	case OP_ASSIGN:
		names := []string{"+=", "-=", "*=", "/=", "%="}
		if int(bc.Operand) < len(names) {
			return names[bc.Operand]
		}
	}
	return fmt.Sprintf("%d", bc.Operand)
}

// Disassemble renders a Program as one line per instruction:
// "<index>\t<OPCODE>\t<operand>".
func Disassemble(p Program) string {
	var b strings.Builder
	for i, bc := range p.Text {
		fmt.Fprintf(&b, "%4d\t%-22s\t%s\n", i, bc.Op, operandName(bc))
	}
	return b.String()
}
