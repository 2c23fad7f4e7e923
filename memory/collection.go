/*
File    : yqlang/memory/collection.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package memory

// CollectionKind tags which shape a pool entry holds.
type CollectionKind uint8

const (
	CollectionString CollectionKind = iota
	CollectionList
	CollectionObject
)

// Collection is one entry of the collection pool (spec.md §3): a string's
// bytes, a list's element pointers, or an object's key-to-pointer mapping.
// Lists and objects hold Pointers into the heap, never Values directly, so
// that mutation through one alias is visible through every other alias that
// shares the same CollectionId.
type Collection struct {
	Kind   CollectionKind
	Text   string
	List   []Pointer
	Object map[string]Pointer
	// Keys preserves object insertion order for iteration and printing;
	// Object alone (a Go map) does not.
	Keys []string
}

// NewStringCollection builds a string collection.
func NewStringCollection(s string) Collection {
	return Collection{Kind: CollectionString, Text: s}
}

// NewListCollection builds a list collection from element pointers.
func NewListCollection(elems []Pointer) Collection {
	cp := make([]Pointer, len(elems))
	copy(cp, elems)
	return Collection{Kind: CollectionList, List: cp}
}

// NewObjectCollection builds an empty object collection.
func NewObjectCollection() Collection {
	return Collection{Kind: CollectionObject, Object: map[string]Pointer{}}
}

// Set assigns key to p, appending to Keys on first insertion.
func (c *Collection) Set(key string, p Pointer) {
	if _, ok := c.Object[key]; !ok {
		c.Keys = append(c.Keys, key)
	}
	c.Object[key] = p
}

// Clone deep-copies the collection's own structure (but not the heap cells
// its pointers address). Nothing in the module calls it; GC compaction
// moves collections as they are.
func (c Collection) Clone() Collection {
	switch c.Kind {
	case CollectionList:
		return NewListCollection(c.List)
	case CollectionObject:
		out := NewObjectCollection()
		for _, k := range c.Keys {
			out.Set(k, c.Object[k])
		}
		return out
	default:
		return c
	}
}
