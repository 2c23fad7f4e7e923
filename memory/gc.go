/*
File    : yqlang/memory/gc.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package memory

import "github.com/akashmaji946/yqlang/value"

// GC runs a tracing mark-and-compact collection over the heap and the
// collection pool (spec.md §4.6): a stop-the-world pass from the root set —
// the static area, the whole operand stack (which covers every open call
// frame's locals and temporaries), and extraRoots — follows the bipartite
// heap<->pool reference graph, then compacts both the heap and the pool to
// just their reachable entries, rewriting every Pointer and CollectionId
// that survives.
//
// extraRoots lets the VM contribute roots it owns and Memory does not: the
// iterator stack's subject pointers, the access-view stack's base pointers,
// and the register. GC returns extraRoots rewritten to their post-compaction
// addresses, in the same order, so the VM can install them back into its own
// stacks/register.
func (m *Memory) GC(extraRoots []Pointer) []Pointer {
	markedHeap := map[int]bool{}
	markedPool := map[int]bool{}

	var markValue func(v value.Value)
	var markPointer func(p Pointer)

	markPointer = func(p Pointer) {
		if p == NilPointer || p.Region() != RegionHeap {
			return
		}
		idx := p.Offset()
		if markedHeap[idx] {
			return
		}
		markedHeap[idx] = true
		markValue(m.Heap[idx])
	}

	markPool := func(id value.CollectionId) {
		idx := int(id)
		if markedPool[idx] {
			return
		}
		markedPool[idx] = true
		c := m.pool[idx]
		switch c.Kind {
		case CollectionList:
			for _, p := range c.List {
				markPointer(p)
			}
		case CollectionObject:
			for _, p := range c.Object {
				markPointer(p)
			}
		}
	}

	markValue = func(v value.Value) {
		switch v.Kind {
		case value.KindReference:
			markPool(v.CollectionId())
		case value.KindClosure:
			markPool(v.AsClosure().Captures)
		case value.KindBoundProcedure:
			markValue(v.AsBoundProcedure().Receiver)
		}
	}

	for _, v := range m.Statics {
		markValue(v)
	}
	for _, p := range m.Operands {
		markPointer(p)
	}
	for _, p := range extraRoots {
		markPointer(p)
	}
	for _, f := range m.frames {
		markValue(f.caller)
		markValue(f.args)
		markValue(f.captures)
	}

	heapRemap := make(map[int]int, len(markedHeap))
	newHeap := make([]value.Value, 0, len(markedHeap))
	for idx := 0; idx < len(m.Heap); idx++ {
		if !markedHeap[idx] {
			continue
		}
		heapRemap[idx] = len(newHeap)
		newHeap = append(newHeap, m.Heap[idx])
	}

	poolRemap := make(map[int]int, len(markedPool))
	newPool := make([]Collection, 0, len(markedPool))
	for idx := 0; idx < len(m.pool); idx++ {
		if !markedPool[idx] {
			continue
		}
		poolRemap[idx] = len(newPool)
		newPool = append(newPool, m.pool[idx])
	}

	remapPointer := func(p Pointer) Pointer {
		if p == NilPointer || p.Region() != RegionHeap {
			return p
		}
		return NewPointer(RegionHeap, heapRemap[p.Offset()])
	}
	// Closure and BoundProcedure payloads are pointers that Memory.Copy
	// shares between every copy of a Value, so each payload is rewritten
	// once however many heap cells, statics or frames hold it.
	remapped := map[interface{}]bool{}
	var remapValueInPlace func(v value.Value)
	remapValueInPlace = func(v value.Value) {
		if v.Extra == nil || remapped[v.Extra] {
			return
		}
		remapped[v.Extra] = true
		switch v.Kind {
		case value.KindClosure:
			c := v.AsClosure()
			c.Captures = value.CollectionId(poolRemap[int(c.Captures)])
		case value.KindBoundProcedure:
			bp := v.AsBoundProcedure()
			if bp.Receiver.Kind == value.KindReference {
				bp.Receiver.Int = int64(poolRemap[int(bp.Receiver.Int)])
			} else {
				remapValueInPlace(bp.Receiver)
			}
		}
	}

	for i := range newHeap {
		if newHeap[i].Kind == value.KindReference {
			newHeap[i].Int = int64(poolRemap[int(newHeap[i].Int)])
		} else {
			remapValueInPlace(newHeap[i])
		}
	}
	for i := range m.Statics {
		if m.Statics[i].Kind == value.KindReference {
			m.Statics[i].Int = int64(poolRemap[int(m.Statics[i].Int)])
		} else {
			remapValueInPlace(m.Statics[i])
		}
	}
	for i := range m.frames {
		f := &m.frames[i]
		for _, v := range []*value.Value{&f.caller, &f.args, &f.captures} {
			if v.Kind == value.KindReference {
				v.Int = int64(poolRemap[int(v.Int)])
			} else {
				remapValueInPlace(*v)
			}
		}
	}
	for i := range newPool {
		switch newPool[i].Kind {
		case CollectionList:
			for j, p := range newPool[i].List {
				newPool[i].List[j] = remapPointer(p)
			}
		case CollectionObject:
			for _, k := range newPool[i].Keys {
				newPool[i].Object[k] = remapPointer(newPool[i].Object[k])
			}
		}
	}
	for i, p := range m.Operands {
		m.Operands[i] = remapPointer(p)
	}
	remappedExtra := make([]Pointer, len(extraRoots))
	for i, p := range extraRoots {
		remappedExtra[i] = remapPointer(p)
	}

	m.Heap = newHeap
	m.pool = newPool
	m.heapFree = nil
	m.poolFree = nil

	return remappedExtra
}
