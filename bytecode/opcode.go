/*
File    : yqlang/bytecode/opcode.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package bytecode defines yqlang's instruction format (spec.md §4.7): a
// flat opcode enumeration, the {opcode, operand} instruction encoding, and
// a disassembler.
package bytecode

// Op is one opcode of the complete list in spec.md §4.7.
type Op int32

const (
	NOP Op = iota
	POP

	LOAD_LOCAL_PUSH
	LOAD_LOCAL_PUSH_REF
	LOAD_PUSH
	LOAD_PUSH_REF
	POP_SAVE_LOCAL
	POP_SAVE
	POP_ASSERT_EQ

	CONS_PUSH
	EXTRACT_LIST
	SUBSCRIPT_PUSH
	CONS_OBJ_PUSH

	PUSH_IMM
	POP_ASSERT_EQ_IMM

	ACTION

	JUMP
	JUMP_ZERO
	JUMP_NOT_ZERO
	JUMP_IF_ITER_DONE
	JUMP_NOT_FIRST_RUN

	CREATE_CLOSURE
	PREPARE_FRAME
	GET_NTH_ARG
	GET_NTH_ARG_REF
	POP_RETURN
	CALL
	RETURN

	POP_SAVE_TO_REG
	CLEAR_REG

	PUSH_ITERATOR
	POP_ITERATOR
	ITER_NEXT_PUSH

	PUSH_ACCESS_VIEW
	EXTEND_ACCESS_VIEW
	ACCESS_GET
	ACCESS_GET_REF
	ACCESS_SET

	BINARY_OP
	UNARY_OP
	TO_BOOL
	OP_ASSIGN

	EXIT
)

var opNames = map[Op]string{
	NOP: "NOP", POP: "POP",
	LOAD_LOCAL_PUSH: "LOAD_LOCAL_PUSH", LOAD_LOCAL_PUSH_REF: "LOAD_LOCAL_PUSH_REF",
	LOAD_PUSH: "LOAD_PUSH", LOAD_PUSH_REF: "LOAD_PUSH_REF",
	POP_SAVE_LOCAL: "POP_SAVE_LOCAL", POP_SAVE: "POP_SAVE", POP_ASSERT_EQ: "POP_ASSERT_EQ",
	CONS_PUSH: "CONS_PUSH", EXTRACT_LIST: "EXTRACT_LIST",
	SUBSCRIPT_PUSH: "SUBSCRIPT_PUSH", CONS_OBJ_PUSH: "CONS_OBJ_PUSH",
	PUSH_IMM: "PUSH_IMM", POP_ASSERT_EQ_IMM: "POP_ASSERT_EQ_IMM",
	ACTION: "ACTION",
	JUMP:    "JUMP", JUMP_ZERO: "JUMP_ZERO", JUMP_NOT_ZERO: "JUMP_NOT_ZERO",
	JUMP_IF_ITER_DONE: "JUMP_IF_ITER_DONE", JUMP_NOT_FIRST_RUN: "JUMP_NOT_FIRST_RUN",
	CREATE_CLOSURE: "CREATE_CLOSURE", PREPARE_FRAME: "PREPARE_FRAME",
	GET_NTH_ARG: "GET_NTH_ARG", GET_NTH_ARG_REF: "GET_NTH_ARG_REF",
	POP_RETURN: "POP_RETURN", CALL: "CALL", RETURN: "RETURN",
	POP_SAVE_TO_REG: "POP_SAVE_TO_REG", CLEAR_REG: "CLEAR_REG",
	PUSH_ITERATOR: "PUSH_ITERATOR", POP_ITERATOR: "POP_ITERATOR", ITER_NEXT_PUSH: "ITER_NEXT_PUSH",
	PUSH_ACCESS_VIEW: "PUSH_ACCESS_VIEW", EXTEND_ACCESS_VIEW: "EXTEND_ACCESS_VIEW",
	ACCESS_GET: "ACCESS_GET", ACCESS_GET_REF: "ACCESS_GET_REF", ACCESS_SET: "ACCESS_SET",
	BINARY_OP: "BINARY_OP", UNARY_OP: "UNARY_OP", TO_BOOL: "TO_BOOL", OP_ASSIGN: "OP_ASSIGN",
	EXIT: "EXIT",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "UNKNOWN_OP"
}

// SubscriptKind is the operand of SUBSCRIPT_PUSH.
type SubscriptKind int32

const (
	SubscriptIndex SubscriptKind = iota
	SubscriptOpenSlice
	SubscriptClosedSlice
)

// ImmCode is the operand of PUSH_IMM / POP_ASSERT_EQ_IMM.
type ImmCode int32

const (
	ImmNull ImmCode = iota
	ImmFalse
	ImmTrue
)

// ActionKind is the operand of ACTION.
type ActionKind int32

const (
	ActionSay ActionKind = iota
	ActionNudge
	ActionPicsave
	ActionPicsend
)

// BinaryOp is the operand of BINARY_OP.
type BinaryOp int32

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinGt
	BinLt
	BinGe
	BinLe
	BinLand
	BinLor
	BinIn
)

// UnaryOp is the operand of UNARY_OP.
type UnaryOp int32

const (
	UnaryMinus UnaryOp = iota
	UnaryNot
)

// AssignOp is the operand of OP_ASSIGN.
type AssignOp int32

const (
	AssignAdd AssignOp = iota
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)
