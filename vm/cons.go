/*
File    : yqlang/vm/cons.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Collection-construction opcodes: list/object literals, list-pattern
// destructuring, and first-class subscript values (spec.md §4.7).
package vm

import (
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/value"
)

// consPush pops the n elements a ListLit pushed (in source order, so the
// last element is on top) and builds a List collection in source order.
func (v *VM) consPush(n int) {
	elems := make([]memory.Pointer, n)
	for i := n - 1; i >= 0; i-- {
		elems[i] = v.mem.Pop()
	}
	id := v.mem.PutCollection(memory.NewListCollection(elems))
	v.mem.Push(v.mem.Allocate(value.Ref(id)))
}

// consObjPush pops n (key, value) pairs — value pushed last per pair, key
// string pushed first — and builds an Object collection preserving
// insertion order (spec.md's object literal semantics).
func (v *VM) consObjPush(n int) {
	type pair struct{ key, val memory.Pointer }
	pairs := make([]pair, n)
	for i := n - 1; i >= 0; i-- {
		val := v.mem.Pop()
		key := v.mem.Pop()
		pairs[i] = pair{key, val}
	}
	c := memory.NewObjectCollection()
	for _, p := range pairs {
		keyVal := v.mem.Deref(p.key)
		keyCol := v.mem.GetCollection(keyVal.CollectionId())
		c.Set(keyCol.Text, p.val)
	}
	id := v.mem.PutCollection(c)
	v.mem.Push(v.mem.Allocate(value.Ref(id)))
}

// extractList implements list-pattern destructuring's short-list-binds-null
// rule (spec.md §8): it pops the subject list and pushes n Pointers, the
// first destructured element on top, so the pattern's per-element
// POP_SAVE_LOCAL/POP_SAVE sequence binds them left to right.
func (v *VM) extractList(n int) error {
	p := v.mem.Pop()
	subj := v.mem.Deref(p)
	if subj.Kind != value.KindReference {
		return &errs.TypeMismatch{Expected: []string{"list"}, Found: subj.Kind.String(), Context: "list pattern"}
	}
	c := v.mem.GetCollection(subj.CollectionId())
	if c.Kind != memory.CollectionList {
		return &errs.TypeMismatch{Expected: []string{"list"}, Found: subj.Kind.String(), Context: "list pattern"}
	}
	elems := make([]memory.Pointer, n)
	for i := 0; i < n; i++ {
		if i < len(c.List) {
			elems[i] = c.List[i]
		} else {
			elems[i] = v.mem.Allocate(value.Null)
		}
	}
	for i := n - 1; i >= 0; i-- {
		v.mem.Push(elems[i])
	}
	return nil
}

// subscriptPush builds a first-class IntegerSubscript/KeySubscript value
// from the descriptor(s) on the operand stack. Current codegen always
// builds composite l-values via PUSH_ACCESS_VIEW/EXTEND_ACCESS_VIEW instead,
// so this opcode is unreached today but kept complete against the full
// opcode table for future first-class slice-literal support.
func (v *VM) subscriptPush(kind bytecode.SubscriptKind) error {
	switch kind {
	case bytecode.SubscriptIndex:
		idx := v.mem.Deref(v.mem.Pop())
		if idx.Kind == value.KindInteger {
			v.mem.Push(v.mem.Allocate(value.IndexSubscript(idx.Int)))
			return nil
		}
		if idx.Kind == value.KindReference {
			c := v.mem.GetCollection(idx.CollectionId())
			if c.Kind == memory.CollectionString {
				v.mem.Push(v.mem.Allocate(value.KeySubscriptValue(c.Text)))
				return nil
			}
		}
		return &errs.TypeMismatch{Expected: []string{"integer", "string"}, Found: idx.Kind.String(), Context: "subscript"}
	case bytecode.SubscriptOpenSlice, bytecode.SubscriptClosedSlice:
		end := v.mem.Deref(v.mem.Pop())
		begin := v.mem.Deref(v.mem.Pop())
		hasBegin := begin.Kind == value.KindInteger
		hasEnd := end.Kind == value.KindInteger
		var b, e int64
		if hasBegin {
			b = begin.Int
		}
		if hasEnd {
			e = end.Int
		}
		v.mem.Push(v.mem.Allocate(value.SliceSubscript(b, hasBegin, e, hasEnd)))
		return nil
	}
	return &errs.Builtin{Name: "subscript_push", Message: "unknown subscript kind"}
}
