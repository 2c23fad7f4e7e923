/*
File    : yqlang/vm/arith.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// BINARY_OP, UNARY_OP, and OP_ASSIGN dispatch (spec.md §4.5): arithmetic
// proper is delegated to value/arith.go's coercion ladder; string
// concatenation, structural equality, and membership are VM-level concerns
// since they need access to the collection pool.
package vm

import (
	"strings"

	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/value"
)

func (v *VM) stringText(val value.Value) (string, bool) {
	if val.Kind != value.KindReference {
		return "", false
	}
	c := v.mem.GetCollection(val.CollectionId())
	if c.Kind != memory.CollectionString {
		return "", false
	}
	return c.Text, true
}

func (v *VM) concatStrings(a, b string) value.Value {
	id := v.mem.PutCollection(memory.NewStringCollection(a + b))
	return value.Ref(id)
}

// valuesEqual implements yqlang's == (spec.md §8): structural comparison for
// lists and objects (element-wise, key-order-independent for objects),
// arithmetic cross-kind comparison for Bool/Int/Float, and Value.Equal for
// everything else.
func (v *VM) valuesEqual(a, b value.Value) bool {
	if a.Kind == value.KindReference && b.Kind == value.KindReference {
		ca := v.mem.GetCollection(a.CollectionId())
		cb := v.mem.GetCollection(b.CollectionId())
		if ca.Kind != cb.Kind {
			return false
		}
		switch ca.Kind {
		case memory.CollectionString:
			return ca.Text == cb.Text
		case memory.CollectionList:
			if len(ca.List) != len(cb.List) {
				return false
			}
			for i := range ca.List {
				if !v.valuesEqual(v.mem.Deref(ca.List[i]), v.mem.Deref(cb.List[i])) {
					return false
				}
			}
			return true
		case memory.CollectionObject:
			if len(ca.Object) != len(cb.Object) {
				return false
			}
			for k, pa := range ca.Object {
				pb, ok := cb.Object[k]
				if !ok || !v.valuesEqual(v.mem.Deref(pa), v.mem.Deref(pb)) {
					return false
				}
			}
			return true
		}
	}
	return a.Equal(b)
}

func (v *VM) inOp(needle, container value.Value) (value.Value, error) {
	if container.Kind != value.KindReference {
		return value.Value{}, &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: container.Kind.String(), Context: "in"}
	}
	c := v.mem.GetCollection(container.CollectionId())
	switch c.Kind {
	case memory.CollectionList:
		for _, p := range c.List {
			if v.valuesEqual(needle, v.mem.Deref(p)) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case memory.CollectionString:
		needleText, ok := v.stringText(needle)
		if !ok {
			return value.Value{}, &errs.TypeMismatch{Expected: []string{"string"}, Found: needle.Kind.String(), Context: "in"}
		}
		return value.Bool(strings.Contains(c.Text, needleText)), nil
	}
	return value.Value{}, &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: "object", Context: "in"}
}

func (v *VM) compareOrdered(l, r value.Value) (int, error) {
	if l.IsArithmetic() && r.IsArithmetic() {
		return value.CompareArith(l, r), nil
	}
	if ls, ok := v.stringText(l); ok {
		if rs, ok := v.stringText(r); ok {
			return strings.Compare(ls, rs), nil
		}
	}
	return 0, &errs.TypeMismatch{Expected: []string{"int", "float", "string"}, Found: l.Kind.String(), Context: "comparison"}
}

func (v *VM) binaryOp(op bytecode.BinaryOp) error {
	rp := v.mem.Pop()
	lp := v.mem.Pop()
	r := v.mem.Deref(rp)
	l := v.mem.Deref(lp)

	var result value.Value
	switch op {
	case bytecode.BinAdd:
		if ls, ok := v.stringText(l); ok {
			if rs, ok := v.stringText(r); ok {
				result = v.concatStrings(ls, rs)
				break
			}
		}
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"string", "int", "float", "bool"}, Found: l.Kind.String(), Context: "+"}
		}
		result = value.AddArith(l, r)
	case bytecode.BinSub:
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: l.Kind.String(), Context: "-"}
		}
		result = value.SubArith(l, r)
	case bytecode.BinMul:
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: l.Kind.String(), Context: "*"}
		}
		result = value.MulArith(l, r)
	case bytecode.BinDiv:
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: l.Kind.String(), Context: "/"}
		}
		var err error
		result, err = value.DivArith(l, r)
		if err != nil {
			return err
		}
	case bytecode.BinMod:
		var err error
		result, err = value.ModArith(l, r)
		if err != nil {
			return err
		}
	case bytecode.BinEq:
		result = value.Bool(v.valuesEqual(l, r))
	case bytecode.BinNe:
		result = value.Bool(!v.valuesEqual(l, r))
	case bytecode.BinGt, bytecode.BinLt, bytecode.BinGe, bytecode.BinLe:
		cmp, err := v.compareOrdered(l, r)
		if err != nil {
			return err
		}
		switch op {
		case bytecode.BinGt:
			result = value.Bool(cmp > 0)
		case bytecode.BinLt:
			result = value.Bool(cmp < 0)
		case bytecode.BinGe:
			result = value.Bool(cmp >= 0)
		case bytecode.BinLe:
			result = value.Bool(cmp <= 0)
		}
	case bytecode.BinLand:
		result = value.Bool(l.Truthy() && r.Truthy())
	case bytecode.BinLor:
		result = value.Bool(l.Truthy() || r.Truthy())
	case bytecode.BinIn:
		var err error
		result, err = v.inOp(l, r)
		if err != nil {
			return err
		}
	default:
		return &errs.Builtin{Name: "binary_op", Message: "unknown binary operator"}
	}
	v.mem.Push(v.mem.Allocate(result))
	return nil
}

func (v *VM) unaryOp(op bytecode.UnaryOp) error {
	p := v.mem.Pop()
	operand := v.mem.Deref(p)
	var result value.Value
	switch op {
	case bytecode.UnaryMinus:
		if !operand.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: operand.Kind.String(), Context: "-"}
		}
		result = value.NegArith(operand)
	case bytecode.UnaryNot:
		result = value.Bool(!operand.Truthy())
	default:
		return &errs.Builtin{Name: "unary_op", Message: "unknown unary operator"}
	}
	v.mem.Push(v.mem.Allocate(result))
	return nil
}

// opAssign implements the `current OP rhs` half of compound assignment
// (assign.go's compileAssign): both operands arrive already resolved on the
// operand stack, and the result is pushed back for the caller's
// POP_SAVE_LOCAL/POP_SAVE or ACCESS_SET to store.
func (v *VM) opAssign(op bytecode.AssignOp) error {
	rp := v.mem.Pop()
	lp := v.mem.Pop()
	r := v.mem.Deref(rp)
	l := v.mem.Deref(lp)

	var result value.Value
	switch op {
	case bytecode.AssignAdd:
		if ls, ok := v.stringText(l); ok {
			if rs, ok := v.stringText(r); ok {
				result = v.concatStrings(ls, rs)
				break
			}
		}
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"string", "int", "float", "bool"}, Found: l.Kind.String(), Context: "+="}
		}
		result = value.AddArith(l, r)
	case bytecode.AssignSub:
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: l.Kind.String(), Context: "-="}
		}
		result = value.SubArith(l, r)
	case bytecode.AssignMul:
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: l.Kind.String(), Context: "*="}
		}
		result = value.MulArith(l, r)
	case bytecode.AssignDiv:
		if !l.IsArithmetic() || !r.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int", "float", "bool"}, Found: l.Kind.String(), Context: "/="}
		}
		var err error
		result, err = value.DivArith(l, r)
		if err != nil {
			return err
		}
	case bytecode.AssignMod:
		var err error
		result, err = value.ModArith(l, r)
		if err != nil {
			return err
		}
	default:
		return &errs.Builtin{Name: "op_assign", Message: "unknown compound assignment operator"}
	}
	v.mem.Push(v.mem.Allocate(result))
	return nil
}
