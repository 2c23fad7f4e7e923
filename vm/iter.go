/*
File    : yqlang/vm/iter.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package vm

import (
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/value"
)

// iterFrame is one entry of the VM's iterator stack (spec.md §4.8's state
// machine {Idle, InLoop(cursor), Done}). subject is kept as a Pointer, not a
// dereferenced Value, so GC can relocate it like any other root.
type iterFrame struct {
	subject memory.Pointer
	idx     int64
	done    bool
}

// elemCount/elemAt abstract over the four iterable shapes a `for x in seq`
// can run over: lists, strings (by character), and integer/character
// ranges.
func (v *VM) elemCount(subj value.Value) (int64, error) {
	switch subj.Kind {
	case value.KindReference:
		c := v.mem.GetCollection(subj.CollectionId())
		switch c.Kind {
		case memory.CollectionList:
			return int64(len(c.List)), nil
		case memory.CollectionString:
			return int64(len([]rune(c.Text))), nil
		}
	case value.KindIntegerRange:
		r := subj.AsIntegerRange()
		n := r.Hi - r.Lo
		if r.Inclusive {
			n++
		}
		if n < 0 {
			n = 0
		}
		return n, nil
	case value.KindCharRange:
		r := subj.AsCharRange()
		n := int64(r.Hi - r.Lo)
		if r.Inclusive {
			n++
		}
		if n < 0 {
			n = 0
		}
		return n, nil
	}
	return 0, &errs.TypeMismatch{Expected: []string{"string", "list", "integer_range", "char_range"}, Found: subj.Kind.String(), Context: "for-in"}
}

func (v *VM) elemAt(subj value.Value, idx int64) value.Value {
	switch subj.Kind {
	case value.KindReference:
		c := v.mem.GetCollection(subj.CollectionId())
		switch c.Kind {
		case memory.CollectionList:
			return v.mem.Deref(c.List[idx])
		case memory.CollectionString:
			return value.Value{Kind: value.KindReference, Int: int64(v.mem.PutCollection(memory.NewStringCollection(string([]rune(c.Text)[idx]))))}
		}
	case value.KindIntegerRange:
		r := subj.AsIntegerRange()
		return value.Int(r.Lo + idx)
	case value.KindCharRange:
		r := subj.AsCharRange()
		return value.Value{Kind: value.KindReference, Int: int64(v.mem.PutCollection(memory.NewStringCollection(string(r.Lo + rune(idx)))))}
	}
	return value.Null
}

func (v *VM) pushIterator() error {
	p := v.mem.Pop()
	subj := v.mem.Deref(p)
	n, err := v.elemCount(subj)
	if err != nil {
		return err
	}
	v.iterStack = append(v.iterStack, iterFrame{subject: p, idx: 0, done: n == 0})
	return nil
}

func (v *VM) popIterator() error {
	n := len(v.iterStack)
	if n == 0 {
		return &errs.Resource{Message: "iterator stack underflow"}
	}
	v.iterStack = v.iterStack[:n-1]
	return nil
}

func (v *VM) iterDone() (bool, error) {
	n := len(v.iterStack)
	if n == 0 {
		return false, &errs.Resource{Message: "iterator stack underflow"}
	}
	top := &v.iterStack[n-1]
	if top.done {
		return true, nil
	}
	subj := v.mem.Deref(top.subject)
	count, err := v.elemCount(subj)
	if err != nil {
		return false, err
	}
	if top.idx >= count {
		top.done = true
		return true, nil
	}
	return false, nil
}

func (v *VM) iterNextPush() error {
	n := len(v.iterStack)
	if n == 0 {
		return &errs.Resource{Message: "iterator stack underflow"}
	}
	top := &v.iterStack[n-1]
	subj := v.mem.Deref(top.subject)
	elem := v.elemAt(subj, top.idx)
	top.idx++
	v.mem.Push(v.mem.Allocate(elem))
	return nil
}
