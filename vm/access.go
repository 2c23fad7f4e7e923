/*
File    : yqlang/vm/access.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Access views implement yqlang's composite l-values (spec.md §4.8): `a.b[3:5]
// = …` needs the right reference-vs-value semantics at every step of the
// chain, so the VM accumulates (base, [steps...]) onto its own stack instead
// of resolving each postfix step eagerly.
package vm

import (
	"github.com/akashmaji946/yqlang/builtin"
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/value"
)

type stepKind int

const (
	stepIndex stepKind = iota
	stepSlice
)

// step is one resolved EXTEND_ACCESS_VIEW: either a single descriptor value
// (an integer index or a key-name string) or a begin/end slice bound pair,
// each possibly the Null sentinel for an absent bound.
type step struct {
	kind       stepKind
	descriptor memory.Pointer
	begin, end memory.Pointer
}

type accessView struct {
	root  memory.Pointer
	steps []step
}

func (v *VM) pushAccessView() {
	root := v.mem.Pop()
	v.viewStack = append(v.viewStack, accessView{root: root})
}

func (v *VM) extendAccessView(kind bytecode.SubscriptKind) error {
	n := len(v.viewStack)
	if n == 0 {
		return &errs.Resource{Message: "access-view stack underflow"}
	}
	top := &v.viewStack[n-1]
	switch kind {
	case bytecode.SubscriptIndex:
		top.steps = append(top.steps, step{kind: stepIndex, descriptor: v.mem.Pop()})
	case bytecode.SubscriptOpenSlice:
		top.steps = append(top.steps, step{kind: stepSlice, begin: v.mem.Pop(), end: memory.NilPointer})
	case bytecode.SubscriptClosedSlice:
		end := v.mem.Pop()
		begin := v.mem.Pop()
		top.steps = append(top.steps, step{kind: stepSlice, begin: begin, end: end})
	}
	return nil
}

func (v *VM) popAccessView() (accessView, error) {
	n := len(v.viewStack)
	if n == 0 {
		return accessView{}, &errs.Resource{Message: "access-view stack underflow"}
	}
	top := v.viewStack[n-1]
	v.viewStack = v.viewStack[:n-1]
	return top, nil
}

// resolveStep walks one non-slice step against base. On a missing Object
// key that matches a registered builtin method name it reports isMethod so
// the caller can synthesize a BoundProcedure instead of erroring.
func (v *VM) resolveStep(base value.Value, st step) (p memory.Pointer, isMethod bool, methodName string, err error) {
	desc := v.mem.Deref(st.descriptor)
	switch {
	case desc.Kind == value.KindInteger:
		if base.Kind != value.KindReference {
			return 0, false, "", &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: base.Kind.String(), Context: "index"}
		}
		c := v.mem.GetCollection(base.CollectionId())
		switch c.Kind {
		case memory.CollectionList:
			idx := desc.Int
			if idx < 0 {
				idx += int64(len(c.List))
			}
			if idx < 0 || idx >= int64(len(c.List)) {
				return 0, false, "", &errs.Builtin{Name: "index", Message: "list index out of range"}
			}
			return c.List[idx], false, "", nil
		case memory.CollectionString:
			runes := []rune(c.Text)
			idx := desc.Int
			if idx < 0 {
				idx += int64(len(runes))
			}
			if idx < 0 || idx >= int64(len(runes)) {
				return 0, false, "", &errs.Builtin{Name: "index", Message: "string index out of range"}
			}
			id := v.mem.PutCollection(memory.NewStringCollection(string(runes[idx])))
			return v.mem.Allocate(value.Ref(id)), false, "", nil
		}
		return 0, false, "", &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: base.Kind.String(), Context: "index"}
	case desc.Kind == value.KindReference:
		c := v.mem.GetCollection(desc.CollectionId())
		if c.Kind != memory.CollectionString {
			return 0, false, "", &errs.TypeMismatch{Expected: []string{"string"}, Found: "reference", Context: "field"}
		}
		key := c.Text
		if base.Kind == value.KindReference {
			bc := v.mem.GetCollection(base.CollectionId())
			if bc.Kind == memory.CollectionObject {
				if p, ok := bc.Object[key]; ok {
					return p, false, "", nil
				}
			}
		}
		if builtin.IsMethodName(key) {
			return 0, true, key, nil
		}
		return 0, false, "", &errs.NoSuchMethod{Target: base.Kind.String(), Name: key}
	default:
		return 0, false, "", &errs.TypeMismatch{Expected: []string{"int", "string"}, Found: desc.Kind.String(), Context: "subscript"}
	}
}

// sliceBound reads an optional slice bound, defaulting to lo/hi when the
// Null sentinel was pushed for an absent end.
func (v *VM) sliceBound(p memory.Pointer, fallback int64) int64 {
	val := v.mem.Deref(p)
	if val.Kind != value.KindInteger {
		return fallback
	}
	return val.Int
}

func clampSlice(begin, end, n int64) (int64, int64) {
	if begin < 0 {
		begin += n
	}
	if end < 0 {
		end += n
	}
	if begin < 0 {
		begin = 0
	}
	if end > n {
		end = n
	}
	if begin > n {
		begin = n
	}
	if end < begin {
		end = begin
	}
	return begin, end
}

func (v *VM) resolveSlice(base value.Value, st step) (memory.Pointer, error) {
	if base.Kind != value.KindReference {
		return 0, &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: base.Kind.String(), Context: "slice"}
	}
	c := v.mem.GetCollection(base.CollectionId())
	switch c.Kind {
	case memory.CollectionList:
		begin := v.sliceBound(st.begin, 0)
		end := v.sliceBound(st.end, int64(len(c.List)))
		begin, end = clampSlice(begin, end, int64(len(c.List)))
		sub := append([]memory.Pointer(nil), c.List[begin:end]...)
		id := v.mem.PutCollection(memory.NewListCollection(sub))
		return v.mem.Allocate(value.Ref(id)), nil
	case memory.CollectionString:
		runes := []rune(c.Text)
		begin := v.sliceBound(st.begin, 0)
		end := v.sliceBound(st.end, int64(len(runes)))
		begin, end = clampSlice(begin, end, int64(len(runes)))
		id := v.mem.PutCollection(memory.NewStringCollection(string(runes[begin:end])))
		return v.mem.Allocate(value.Ref(id)), nil
	}
	return 0, &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: base.Kind.String(), Context: "slice"}
}

// resolve walks every step of view from its root, returning either the
// final element Pointer, or (isMethod=true) the receiver value and method
// name for a trailing dict-miss that matched a builtin method.
func (v *VM) resolve(view accessView) (p memory.Pointer, isMethod bool, methodName string, receiver value.Value, err error) {
	curPtr := view.root
	cur := v.mem.Deref(curPtr)
	for i, st := range view.steps {
		last := i == len(view.steps)-1
		if st.kind == stepSlice {
			np, e := v.resolveSlice(cur, st)
			if e != nil {
				return 0, false, "", value.Value{}, e
			}
			curPtr = np
			cur = v.mem.Deref(curPtr)
			continue
		}
		childPtr, term, mname, e := v.resolveStep(cur, st)
		if e != nil {
			return 0, false, "", value.Value{}, e
		}
		if term {
			if !last {
				return 0, false, "", value.Value{}, &errs.NoSuchMethod{Target: cur.Kind.String(), Name: mname}
			}
			return 0, true, mname, cur, nil
		}
		curPtr = childPtr
		cur = v.mem.Deref(curPtr)
	}
	return curPtr, false, "", value.Value{}, nil
}

func (v *VM) accessGet(copyResult bool) error {
	view, err := v.popAccessView()
	if err != nil {
		return err
	}
	p, isMethod, mname, receiver, err := v.resolve(view)
	if err != nil {
		return err
	}
	if isMethod {
		v.mem.Push(v.mem.Allocate(value.BoundProcedureValue(mname, receiver)))
		return nil
	}
	if copyResult {
		v.mem.Push(v.mem.Copy(p))
	} else {
		v.mem.Push(p)
	}
	return nil
}

// accessSet resolves every step but the last to find the base collection,
// then performs the structural mutation the last step names: object-key
// insertion/update, list element replacement, string splicing, or slice
// replacement (spec.md §4.8).
func (v *VM) accessSet() error {
	view, err := v.popAccessView()
	if err != nil {
		return err
	}
	rhsPtr := v.mem.Pop()
	rhs := v.mem.Deref(rhsPtr)

	if len(view.steps) == 0 {
		return &errs.Resource{Message: "access-set with no steps"}
	}
	curPtr := view.root
	cur := v.mem.Deref(curPtr)
	for i := 0; i < len(view.steps)-1; i++ {
		st := view.steps[i]
		if st.kind == stepSlice {
			np, e := v.resolveSlice(cur, st)
			if e != nil {
				return e
			}
			curPtr = np
		} else {
			childPtr, term, mname, e := v.resolveStep(cur, st)
			if e != nil {
				return e
			}
			if term {
				return &errs.NoSuchMethod{Target: cur.Kind.String(), Name: mname}
			}
			curPtr = childPtr
		}
		cur = v.mem.Deref(curPtr)
	}

	last := view.steps[len(view.steps)-1]
	if last.kind == stepSlice {
		return v.spliceSlice(cur, last, rhs)
	}
	return v.setIndex(cur, last, rhsPtr, rhs)
}

func (v *VM) setIndex(base value.Value, st step, rhsPtr memory.Pointer, rhs value.Value) error {
	desc := v.mem.Deref(st.descriptor)
	if base.Kind != value.KindReference {
		return &errs.TypeMismatch{Expected: []string{"string", "list", "object"}, Found: base.Kind.String(), Context: "assignment"}
	}
	c := v.mem.GetCollection(base.CollectionId())
	switch {
	case desc.Kind == value.KindInteger && c.Kind == memory.CollectionList:
		idx := desc.Int
		if idx < 0 {
			idx += int64(len(c.List))
		}
		if idx < 0 || idx >= int64(len(c.List)) {
			return &errs.Builtin{Name: "index", Message: "list index out of range"}
		}
		v.mem.Store(c.List[idx], rhs)
		return nil
	case desc.Kind == value.KindInteger && c.Kind == memory.CollectionString:
		runes := []rune(c.Text)
		idx := desc.Int
		if idx < 0 {
			idx += int64(len(runes))
		}
		if idx < 0 || idx >= int64(len(runes)) {
			return &errs.Builtin{Name: "index", Message: "string index out of range"}
		}
		repl := v.stringOf(rhs)
		c.Text = string(runes[:idx]) + repl + string(runes[idx+1:])
		return nil
	case desc.Kind == value.KindReference && c.Kind == memory.CollectionObject:
		keyCol := v.mem.GetCollection(desc.CollectionId())
		key := keyCol.Text
		if p, ok := c.Object[key]; ok {
			v.mem.Store(p, rhs)
		} else {
			c.Set(key, v.mem.Allocate(rhs))
		}
		return nil
	}
	return &errs.TypeMismatch{Expected: []string{"string", "list", "object"}, Found: base.Kind.String(), Context: "assignment"}
}

func (v *VM) spliceSlice(base value.Value, st step, rhs value.Value) error {
	if base.Kind != value.KindReference || rhs.Kind != value.KindReference {
		return &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: base.Kind.String(), Context: "slice assignment"}
	}
	c := v.mem.GetCollection(base.CollectionId())
	switch c.Kind {
	case memory.CollectionList:
		rc := v.mem.GetCollection(rhs.CollectionId())
		if rc.Kind != memory.CollectionList {
			return &errs.TypeMismatch{Expected: []string{"list"}, Found: "string", Context: "slice assignment"}
		}
		begin := v.sliceBound(st.begin, 0)
		end := v.sliceBound(st.end, int64(len(c.List)))
		begin, end = clampSlice(begin, end, int64(len(c.List)))
		repl := make([]memory.Pointer, len(rc.List))
		for i, p := range rc.List {
			repl[i] = v.mem.Allocate(v.mem.Deref(p))
		}
		merged := append([]memory.Pointer(nil), c.List[:begin]...)
		merged = append(merged, repl...)
		merged = append(merged, c.List[end:]...)
		c.List = merged
		return nil
	case memory.CollectionString:
		runes := []rune(c.Text)
		begin := v.sliceBound(st.begin, 0)
		end := v.sliceBound(st.end, int64(len(runes)))
		begin, end = clampSlice(begin, end, int64(len(runes)))
		c.Text = string(runes[:begin]) + v.stringOf(rhs) + string(runes[end:])
		return nil
	}
	return &errs.TypeMismatch{Expected: []string{"string", "list"}, Found: base.Kind.String(), Context: "slice assignment"}
}

// stringOf renders rhs as the text a string splice should insert: the raw
// text for a string Reference, or the printable form of anything else.
func (v *VM) stringOf(rhs value.Value) string {
	if rhs.Kind == value.KindReference {
		c := v.mem.GetCollection(rhs.CollectionId())
		if c.Kind == memory.CollectionString {
			return c.Text
		}
	}
	return rhs.ToString()
}
