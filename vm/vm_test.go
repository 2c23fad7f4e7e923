/*
File    : yqlang/vm/vm_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/yqlang/codegen"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/parser"
	"github.com/akashmaji946/yqlang/runtime"
	"github.com/akashmaji946/yqlang/value"
)

// fakeEffects records every effect call for assertions instead of touching
// any real chat-bot host.
type fakeEffects struct {
	said     []string
	nudged   []int64
	first    bool
	nickname string
}

func (f *fakeEffects) Say(text string)           { f.said = append(f.said, text) }
func (f *fakeEffects) Nudge(userID int64)        { f.nudged = append(f.nudged, userID) }
func (f *fakeEffects) Picsave(picID string)       {}
func (f *fakeEffects) Picsend(picID string)       {}
func (f *fakeEffects) Nickname(id int64) (string, error) { return f.nickname, nil }
func (f *fakeEffects) Sleep(ms int64) error       { return nil }
func (f *fakeEffects) FirstRun() bool             { return f.first }

var _ runtime.Effects = (*fakeEffects)(nil)

// run compiles and executes src against a fresh Memory, returning the
// Memory (for inspecting globals afterward) and the Effects fake (for
// inspecting say/nudge calls).
func run(t *testing.T, src string) (*memory.Memory, *fakeEffects) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	mem := memory.New()
	bc, err := codegen.Compile(prog, mem)
	require.NoError(t, err)
	fx := &fakeEffects{first: true}
	v := New(bc, mem, fx)
	require.NoError(t, v.Run())
	return mem, fx
}

func global(t *testing.T, mem *memory.Memory, name string) value.Value {
	t.Helper()
	p, ok := mem.LookupSymbol(name)
	require.True(t, ok, "global %q not defined", name)
	return mem.Deref(p)
}

func TestArithmeticAndGlobals(t *testing.T) {
	mem, _ := run(t, `x = 1 + 2 * 3`)
	assert.Equal(t, value.Int(7), global(t, mem, "x"))
}

func TestStringConcatenation(t *testing.T) {
	mem, _ := run(t, `x = "foo" + "bar"`)
	v := global(t, mem, "x")
	c := mem.GetCollection(v.CollectionId())
	assert.Equal(t, "foobar", c.Text)
}

func TestIfElse(t *testing.T) {
	mem, _ := run(t, `
x = 0
if 1 < 2 {
  x = 10
} else {
  x = 20
}
`)
	assert.Equal(t, value.Int(10), global(t, mem, "x"))
}

func TestWhileLoop(t *testing.T) {
	mem, _ := run(t, `
x = 0
i = 0
while i < 5 {
  x = x + i
  i = i + 1
}
`)
	assert.Equal(t, value.Int(10), global(t, mem, "x"))
}

func TestForInOverRange(t *testing.T) {
	mem, _ := run(t, `
total = 0
for i in range(0, 5) {
  total = total + i
}
`)
	assert.Equal(t, value.Int(10), global(t, mem, "total"))
}

func TestListPatternDestructuringShortBindsNull(t *testing.T) {
	mem, _ := run(t, `
[a, b, c] = [1, 2]
`)
	assert.Equal(t, value.Int(1), global(t, mem, "a"))
	assert.Equal(t, value.Int(2), global(t, mem, "b"))
	assert.Equal(t, value.Null, global(t, mem, "c"))
}

func TestListIndexAndSlice(t *testing.T) {
	mem, _ := run(t, `
xs = [10, 20, 30, 40]
a = xs[1]
b = xs[1:3]
`)
	assert.Equal(t, value.Int(20), global(t, mem, "a"))
	bv := global(t, mem, "b")
	c := mem.GetCollection(bv.CollectionId())
	require.Len(t, c.List, 2)
	assert.Equal(t, value.Int(20), mem.Deref(c.List[0]))
	assert.Equal(t, value.Int(30), mem.Deref(c.List[1]))
}

func TestListElementAssignment(t *testing.T) {
	mem, _ := run(t, `
xs = [1, 2, 3]
xs[1] = 99
`)
	xs := global(t, mem, "xs")
	c := mem.GetCollection(xs.CollectionId())
	assert.Equal(t, value.Int(99), mem.Deref(c.List[1]))
}

func TestObjectFieldAccessAndAssignment(t *testing.T) {
	mem, _ := run(t, `
o = {a: 1, b: 2}
o.a = 10
x = o.a + o.b
`)
	assert.Equal(t, value.Int(12), global(t, mem, "x"))
}

func TestClosureCapturesByReference(t *testing.T) {
	mem, _ := run(t, `
func make() {
  count = 0
  c = func() {
    count = count + 1
    return count
  }
  return c
}
counter = make()
counter()
result = counter()
`)
	assert.Equal(t, value.Int(2), global(t, mem, "result"))
}

func TestShortCircuitCoercesToBoolean(t *testing.T) {
	mem, _ := run(t, `
x = 0 || 5
y = 3 && 7
`)
	assert.Equal(t, value.Bool(true), global(t, mem, "x"))
	assert.Equal(t, value.Bool(true), global(t, mem, "y"))
}

func TestSequenceBuiltins(t *testing.T) {
	mem, _ := run(t, `
xs = [3, 1, 2]
s = xs.sorted()
mx = xs.max()
total = xs.sum()
`)
	sv := global(t, mem, "s")
	c := mem.GetCollection(sv.CollectionId())
	require.Len(t, c.List, 3)
	assert.Equal(t, value.Int(1), mem.Deref(c.List[0]))
	assert.Equal(t, value.Int(2), mem.Deref(c.List[1]))
	assert.Equal(t, value.Int(3), mem.Deref(c.List[2]))
	assert.Equal(t, value.Int(3), global(t, mem, "mx"))
	assert.Equal(t, value.Int(6), global(t, mem, "total"))
}

func TestFilterMapReduceViaClosures(t *testing.T) {
	mem, _ := run(t, `
xs = [1, 2, 3, 4]
evens = xs.filter(func(x) { return x % 2 == 0 })
doubled = xs.map(func(x) { return x * 2 })
total = xs.reduce(func(acc, x) { return acc + x })
`)
	ev := global(t, mem, "evens")
	c := mem.GetCollection(ev.CollectionId())
	require.Len(t, c.List, 2)
	assert.Equal(t, value.Int(2), mem.Deref(c.List[0]))
	assert.Equal(t, value.Int(4), mem.Deref(c.List[1]))

	dv := global(t, mem, "doubled")
	dc := mem.GetCollection(dv.CollectionId())
	require.Len(t, dc.List, 4)
	assert.Equal(t, value.Int(8), mem.Deref(dc.List[3]))

	assert.Equal(t, value.Int(10), global(t, mem, "total"))
}

func TestSayActionInvokesEffects(t *testing.T) {
	_, fx := run(t, `say "hello"`)
	require.Len(t, fx.said, 1)
	assert.Equal(t, "hello", fx.said[0])
}

func TestSayActionRendersListsAndObjectsDeep(t *testing.T) {
	_, fx := run(t, `
a = [1, 2, 3]
a[1:2] = [9, 9]
say a
`)
	require.Len(t, fx.said, 1)
	assert.Equal(t, "[1, 9, 9, 3]", fx.said[0])
}

func TestSayActionOnSelfReferentialListDoesNotOverflow(t *testing.T) {
	_, fx := run(t, `
a = [1, 2]
a[0] = a
say a
`)
	require.Len(t, fx.said, 1)
	assert.Contains(t, fx.said[0], "<cycle>")
}

func TestFirstRunSemantics(t *testing.T) {
	prog, err := parser.Parse(`
init s = 0
s = s + 1
say s
`)
	require.NoError(t, err)
	mem := memory.New()
	bc, err := codegen.Compile(prog, mem)
	require.NoError(t, err)

	fx := &fakeEffects{first: true}
	v := New(bc, mem, fx)
	require.NoError(t, v.Run())
	assert.Equal(t, []string{"1"}, fx.said)

	img := mem.Serialize()
	reloaded := memory.Load(img)
	fx2 := &fakeEffects{first: false}
	v2 := New(bc, reloaded, fx2)
	require.NoError(t, v2.Run())
	assert.Equal(t, []string{"2"}, fx2.said)
}
