/*
File    : yqlang/memory/memory.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package memory

import (
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/value"
)

// frame is one call-frame record (spec.md §4.8): the operand-stack
// base pointer to restore on return, the bytecode label to resume at, and
// the pointer the callee was invoked through (needed by bound-procedure
// receiver lookups).
type frame struct {
	savedBp    int
	retLabel   int32
	caller     value.Value
	args       value.Value
	captures   value.Value
	localCount int
}

// Memory is yqlang's heap, static area and collection pool (spec.md §4.6),
// plus the operand/call-frame stack that every VM instruction manipulates
// through it.
type Memory struct {
	Heap     []value.Value
	heapFree []int

	Statics []value.Value
	// symbols maps a global's declared name to its static offset, so that
	// Merge can carry a global's live value forward across an `update`.
	symbols map[string]int

	pool     []Collection
	poolFree []int

	// Operands is the operand stack: every PUSH/POP instruction and every
	// local-variable slot lives here as a Pointer, per spec.md's "operand
	// stack entries are heap pointers" rule.
	Operands []Pointer
	frames   []frame
	bp       int
}

// New builds an empty Memory with no statics and no globals.
func New() *Memory {
	return &Memory{symbols: map[string]int{}}
}

// Allocate stores v in a fresh (or reclaimed) heap cell and returns its
// Pointer.
func (m *Memory) Allocate(v value.Value) Pointer {
	if n := len(m.heapFree); n > 0 {
		idx := m.heapFree[n-1]
		m.heapFree = m.heapFree[:n-1]
		m.Heap[idx] = v
		return NewPointer(RegionHeap, idx)
	}
	m.Heap = append(m.Heap, v)
	return NewPointer(RegionHeap, len(m.Heap)-1)
}

// Copy allocates a new heap cell holding a copy of the Value currently at p
// (a value-level copy: references inside it still alias the same
// collection, matching yqlang's by-reference collection semantics).
func (m *Memory) Copy(p Pointer) Pointer {
	return m.Allocate(m.Deref(p))
}

// Deref reads the Value stored at p.
func (m *Memory) Deref(p Pointer) value.Value {
	switch p.Region() {
	case RegionStatic:
		return m.Statics[p.Offset()]
	default:
		return m.Heap[p.Offset()]
	}
}

// Store overwrites the Value at p.
func (m *Memory) Store(p Pointer, v value.Value) {
	switch p.Region() {
	case RegionStatic:
		m.Statics[p.Offset()] = v
	default:
		m.Heap[p.Offset()] = v
	}
}

// DefineStatic appends a new static cell (a literal constant or a global's
// storage slot) and returns its Pointer. When name is non-empty the cell is
// also recorded in the symbol table so Merge can find it across a recompile.
func (m *Memory) DefineStatic(name string, v value.Value) Pointer {
	idx := len(m.Statics)
	m.Statics = append(m.Statics, v)
	if name != "" {
		m.symbols[name] = idx
	}
	return NewPointer(RegionStatic, idx)
}

// LookupSymbol returns the static Pointer for a named global, if any.
func (m *Memory) LookupSymbol(name string) (Pointer, bool) {
	idx, ok := m.symbols[name]
	if !ok {
		return 0, false
	}
	return NewPointer(RegionStatic, idx), true
}

// PutCollection inserts c into the collection pool and returns its id.
func (m *Memory) PutCollection(c Collection) value.CollectionId {
	if n := len(m.poolFree); n > 0 {
		idx := m.poolFree[n-1]
		m.poolFree = m.poolFree[:n-1]
		m.pool[idx] = c
		return value.CollectionId(idx)
	}
	m.pool = append(m.pool, c)
	return value.CollectionId(len(m.pool) - 1)
}

// GetCollection returns a pointer to the pool entry for id, for in-place
// mutation (list append, object field assignment, and so on).
func (m *Memory) GetCollection(id value.CollectionId) *Collection {
	return &m.pool[int(id)]
}

// Push pushes p onto the operand stack.
func (m *Memory) Push(p Pointer) { m.Operands = append(m.Operands, p) }

// Pop pops and returns the top of the operand stack.
func (m *Memory) Pop() Pointer {
	n := len(m.Operands) - 1
	p := m.Operands[n]
	m.Operands = m.Operands[:n]
	return p
}

// Top returns the top of the operand stack without popping it.
func (m *Memory) Top() Pointer { return m.Operands[len(m.Operands)-1] }

// Depth reports the current operand-stack height.
func (m *Memory) Depth() int { return len(m.Operands) }

// GetLocal reads the Pointer held in local slot offset of the current
// frame.
func (m *Memory) GetLocal(offset int) Pointer { return m.Operands[m.bp+offset] }

// SetLocal overwrites local slot offset of the current frame.
func (m *Memory) SetLocal(offset int, p Pointer) { m.Operands[m.bp+offset] = p }

// PushFrame opens a new call frame: it records where to restore the operand
// stack on return, the bytecode label to resume at, and the caller receiver
// (for bound-procedure calls), then reserves localCount empty local slots
// addressable via GetLocal/SetLocal starting at offset 0. args defaults to
// value.Null for calls with no arguments.
func (m *Memory) PushFrame(retLabel int32, caller value.Value, localCount int) {
	m.PushFrameArgs(retLabel, caller, value.Null, localCount)
}

// PushFrameArgs is PushFrame plus the args-list value GET_NTH_ARG /
// GET_NTH_ARG_REF read from (spec.md §4.8's call protocol: "push caller,
// push closure, push args list, CALL retaddr"). It's kept separate from
// PushFrame so call sites that don't pass arguments — and the existing
// tests — don't have to spell out value.Null.
func (m *Memory) PushFrameArgs(retLabel int32, caller, args value.Value, localCount int) {
	m.PushFrameFull(retLabel, caller, args, value.Null, localCount)
}

// PushFrameFull is PushFrameArgs plus the callee closure's captures-list
// value, which PREPARE_FRAME reads to seed local slots [0, nCaptures) before
// GrowLocals reserves the rest (spec.md §4.6's push_frame layout
// "[lastBp, retLabel, caller, args, captures...]").
func (m *Memory) PushFrameFull(retLabel int32, caller, args, captures value.Value, localCount int) {
	m.frames = append(m.frames, frame{savedBp: m.bp, retLabel: retLabel, caller: caller, args: args, captures: captures, localCount: localCount})
	m.bp = len(m.Operands)
	for i := 0; i < localCount; i++ {
		m.Operands = append(m.Operands, NilPointer)
	}
}

// PopFrame closes the current frame, discarding its locals and restoring
// the caller's base pointer, and returns the label to resume at.
func (m *Memory) PopFrame() (int32, error) {
	n := len(m.frames) - 1
	if n < 0 {
		return 0, &errs.Resource{Message: "call frame underflow"}
	}
	f := m.frames[n]
	m.Operands = m.Operands[:m.bp]
	m.bp = f.savedBp
	m.frames = m.frames[:n]
	return f.retLabel, nil
}

// Caller returns the receiver the current frame was invoked through.
func (m *Memory) Caller() value.Value {
	if len(m.frames) == 0 {
		return value.Null
	}
	return m.frames[len(m.frames)-1].caller
}

// Args returns the args-list value (a KindReference into a List collection,
// or value.Null for a zero-argument call) the current frame was invoked
// with, for GET_NTH_ARG/GET_NTH_ARG_REF to index into.
func (m *Memory) Args() value.Value {
	if len(m.frames) == 0 {
		return value.Null
	}
	return m.frames[len(m.frames)-1].args
}

// Captures returns the captures-list value (a KindReference into a List
// collection) the current frame's closure carried, for PREPARE_FRAME to
// expand into local slots 0..n-1.
func (m *Memory) Captures() value.Value {
	if len(m.frames) == 0 {
		return value.Null
	}
	return m.frames[len(m.frames)-1].captures
}

// GrowLocals appends extra empty local slots to the current frame, up to a
// total of n. PREPARE_FRAME uses this to resize the frame CALL opened with
// zero reserved locals (the callee's own compiled prologue is the only
// thing that knows how many it needs) up to its real count — captures and
// parameters included.
func (m *Memory) GrowLocals(n int) {
	have := len(m.Operands) - m.bp
	for ; have < n; have++ {
		m.Operands = append(m.Operands, NilPointer)
	}
}

// FrameDepth reports how many call frames are currently open, used by the
// VM's nested closure invocation (vm.VM.Call) to run until the frame it
// opened has returned.
func (m *Memory) FrameDepth() int { return len(m.frames) }
