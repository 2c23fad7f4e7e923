/*
File    : yqlang/builtin/helpers.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import (
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/value"
)

// stringText reads the text of a String-collection Reference value.
func stringText(ctx *Context, v value.Value) (string, bool) {
	if v.Kind != value.KindReference {
		return "", false
	}
	c := ctx.Mem.GetCollection(v.CollectionId())
	if c.Kind != memory.CollectionString {
		return "", false
	}
	return c.Text, true
}

// listValues reads a List-collection Reference value out as a plain slice of
// dereferenced Values, leaving the collection itself untouched.
func listValues(ctx *Context, v value.Value) ([]value.Value, bool) {
	if v.Kind != value.KindReference {
		return nil, false
	}
	c := ctx.Mem.GetCollection(v.CollectionId())
	if c.Kind != memory.CollectionList {
		return nil, false
	}
	out := make([]value.Value, len(c.List))
	for i, p := range c.List {
		out[i] = ctx.Mem.Deref(p)
	}
	return out, true
}

func newString(ctx *Context, s string) value.Value {
	id := ctx.Mem.PutCollection(memory.NewStringCollection(s))
	return value.Ref(id)
}

func newList(ctx *Context, elems []value.Value) value.Value {
	ptrs := make([]memory.Pointer, len(elems))
	for i, e := range elems {
		ptrs[i] = ctx.Mem.Allocate(e)
	}
	id := ctx.Mem.PutCollection(memory.NewListCollection(ptrs))
	return value.Ref(id)
}

func newObject(ctx *Context, keys []string, vals []value.Value) value.Value {
	c := memory.NewObjectCollection()
	for i, k := range keys {
		c.Set(k, ctx.Mem.Allocate(vals[i]))
	}
	id := ctx.Mem.PutCollection(c)
	return value.Ref(id)
}

// DisplayString renders v the way say/nudge argument formatting and string
// concatenation need: collections dereferenced through Memory, everything
// else via value.Value.ToString. Self-referential collections (e.g.
// `a[0] = a`, spec.md §9) are detected via a visited-CollectionId set and
// rendered as "<cycle>" instead of recursing forever.
func DisplayString(ctx *Context, v value.Value) string {
	return displayString(ctx, v, map[value.CollectionId]bool{})
}

func displayString(ctx *Context, v value.Value, visited map[value.CollectionId]bool) string {
	if v.Kind == value.KindReference {
		id := v.CollectionId()
		if visited[id] {
			return "<cycle>"
		}
		c := ctx.Mem.GetCollection(id)
		switch c.Kind {
		case memory.CollectionString:
			return c.Text
		case memory.CollectionList:
			visited[id] = true
			defer delete(visited, id)
			s := "["
			for i, p := range c.List {
				if i > 0 {
					s += ", "
				}
				s += displayString(ctx, ctx.Mem.Deref(p), visited)
			}
			return s + "]"
		case memory.CollectionObject:
			visited[id] = true
			defer delete(visited, id)
			s := "{"
			for i, k := range c.Keys {
				if i > 0 {
					s += ", "
				}
				s += k + ": " + displayString(ctx, ctx.Mem.Deref(c.Object[k]), visited)
			}
			return s + "}"
		}
	}
	return v.ToString()
}

// valuesEqual implements structural equality for list/object References
// (non-collection equality is value.Value.Equal, spec.md §4.5). Cyclic
// equality is left undefined by spec.md §9; a visited-pair set keeps a
// self-referential argument (e.g. `a[0] = a`) from recursing forever,
// reporting such a pair unequal rather than stack-overflowing.
func valuesEqual(ctx *Context, a, b value.Value) bool {
	return valuesEqualVisited(ctx, a, b, map[[2]value.CollectionId]bool{})
}

func valuesEqualVisited(ctx *Context, a, b value.Value, visited map[[2]value.CollectionId]bool) bool {
	if a.Kind == value.KindReference && b.Kind == value.KindReference {
		idA, idB := a.CollectionId(), b.CollectionId()
		pair := [2]value.CollectionId{idA, idB}
		if visited[pair] {
			return false
		}
		visited[pair] = true
		defer delete(visited, pair)

		ca, cb := ctx.Mem.GetCollection(idA), ctx.Mem.GetCollection(idB)
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
				if !valuesEqualVisited(ctx, ctx.Mem.Deref(ca.List[i]), ctx.Mem.Deref(cb.List[i]), visited) {
					return false
				}
			}
			return true
		case memory.CollectionObject:
			if len(ca.Keys) != len(cb.Keys) {
				return false
			}
			for _, k := range ca.Keys {
				pb, ok := cb.Object[k]
				if !ok || !valuesEqualVisited(ctx, ctx.Mem.Deref(ca.Object[k]), ctx.Mem.Deref(pb), visited) {
					return false
				}
			}
			return true
		}
	}
	return a.Equal(b)
}
