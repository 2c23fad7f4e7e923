/*
File    : yqlang/memory/memory_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/yqlang/value"
)

func TestAllocateDerefStore(t *testing.T) {
	m := New()
	p := m.Allocate(value.Int(41))
	assert.Equal(t, value.Int(41), m.Deref(p))
	m.Store(p, value.Int(42))
	assert.Equal(t, value.Int(42), m.Deref(p))
}

func TestFrameLocals(t *testing.T) {
	m := New()
	m.Push(m.Allocate(value.Int(1)))
	m.PushFrame(7, value.Null, 2)
	m.SetLocal(0, m.Allocate(value.Int(100)))
	m.SetLocal(1, m.Allocate(value.Int(200)))
	assert.Equal(t, value.Int(100), m.Deref(m.GetLocal(0)))
	assert.Equal(t, value.Int(200), m.Deref(m.GetLocal(1)))
	label, err := m.PopFrame()
	require.NoError(t, err)
	assert.EqualValues(t, 7, label)
	assert.Equal(t, 1, m.Depth())
}

func TestPopFrameUnderflow(t *testing.T) {
	m := New()
	_, err := m.PopFrame()
	require.Error(t, err)
}

func TestListCollectionRoundTrip(t *testing.T) {
	m := New()
	elemPtr := m.Allocate(value.Int(9))
	listId := m.PutCollection(NewListCollection([]Pointer{elemPtr}))
	ref := value.Ref(listId)
	assert.Equal(t, listId, ref.CollectionId())
	c := m.GetCollection(listId)
	assert.Equal(t, value.Int(9), m.Deref(c.List[0]))
}

func TestGCReclaimsUnreachable(t *testing.T) {
	m := New()
	garbage := m.Allocate(value.Int(1))
	_ = garbage
	kept := m.Allocate(value.Int(2))
	m.Push(kept)

	m.GC(nil)
	assert.Equal(t, 1, len(m.Heap))
	assert.Equal(t, value.Int(2), m.Deref(m.Operands[0]))
}

func TestGCKeepsReachableCollectionGraph(t *testing.T) {
	m := New()
	elem := m.Allocate(value.Int(5))
	listId := m.PutCollection(NewListCollection([]Pointer{elem}))
	root := m.Allocate(value.Ref(listId))
	m.Push(root)

	m.GC(nil)

	v := m.Deref(m.Operands[0])
	require.Equal(t, value.KindReference, v.Kind)
	c := m.GetCollection(v.CollectionId())
	require.Len(t, c.List, 1)
	assert.Equal(t, value.Int(5), m.Deref(c.List[0]))
}

func TestImageSerializeLoadRoundTrip(t *testing.T) {
	m := New()
	m.DefineStatic("counter", value.Int(3))
	img := m.Serialize()

	data, err := img.Marshal()
	require.NoError(t, err)
	loaded, err := UnmarshalImage(data)
	require.NoError(t, err)

	m2 := Load(loaded)
	p, ok := m2.LookupSymbol("counter")
	require.True(t, ok)
	assert.Equal(t, value.Int(3), m2.Deref(p))
}

func TestMergeCarriesGlobalForward(t *testing.T) {
	old := New()
	old.DefineStatic("count", value.Int(0))
	p, _ := old.LookupSymbol("count")
	old.Store(p, value.Int(41))

	fresh := New()
	fresh.DefineStatic("count", value.Int(0))
	fresh.DefineStatic("greeting", value.Int(1))
	newImage := fresh.Serialize()

	merged := Merge(old, newImage)
	mp, ok := merged.LookupSymbol("count")
	require.True(t, ok)
	assert.Equal(t, value.Int(41), merged.Deref(mp))

	gp, ok := merged.LookupSymbol("greeting")
	require.True(t, ok)
	assert.Equal(t, value.Int(1), merged.Deref(gp))
}

func TestMergeCopiesReferencedCollections(t *testing.T) {
	old := New()
	elem := old.Allocate(value.Int(99))
	listId := old.PutCollection(NewListCollection([]Pointer{elem}))
	old.DefineStatic("items", value.Ref(listId))

	fresh := New()
	fresh.DefineStatic("items", value.Ref(0))
	newImage := fresh.Serialize()

	merged := Merge(old, newImage)
	p, ok := merged.LookupSymbol("items")
	require.True(t, ok)
	v := merged.Deref(p)
	require.Equal(t, value.KindReference, v.Kind)
	c := merged.GetCollection(v.CollectionId())
	require.Len(t, c.List, 1)
	assert.Equal(t, value.Int(99), merged.Deref(c.List[0]))
}
