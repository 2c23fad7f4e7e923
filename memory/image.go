/*
File    : yqlang/memory/image.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package memory

import (
	"github.com/akashmaji946/yqlang/value"
	"gopkg.in/yaml.v3"
)

// wireValue is the YAML-friendly projection of a value.Value; Extra payloads
// that matter for persisted state (references, closures, regexes, ranges)
// are flattened into plain fields since value.Value's Extra is an
// interface{} that yaml can't round-trip on its own.
type wireValue struct {
	Kind  value.Kind `yaml:"kind"`
	Int   int64      `yaml:"int,omitempty"`
	Flt   float64    `yaml:"flt,omitempty"`
	Str   string     `yaml:"str,omitempty"`
	Entry int32      `yaml:"entry,omitempty"`
}

func toWire(v value.Value) wireValue {
	w := wireValue{Kind: v.Kind, Int: v.Int, Flt: v.Flt}
	switch v.Kind {
	case value.KindClosure:
		c := v.AsClosure()
		w.Int = int64(c.Captures)
		w.Entry = c.Entry
	case value.KindRegEx:
		r := v.AsRegEx()
		w.Str = r.Pattern + "\x00" + r.Flags
	}
	return w
}

func fromWire(w wireValue) value.Value {
	switch w.Kind {
	case value.KindClosure:
		return value.ClosureValue(value.CollectionId(w.Int), w.Entry)
	case value.KindRegEx:
		for i := 0; i < len(w.Str); i++ {
			if w.Str[i] == 0 {
				return value.RegExValue(w.Str[:i], w.Str[i+1:])
			}
		}
		return value.RegExValue(w.Str, "")
	default:
		return value.Value{Kind: w.Kind, Int: w.Int, Flt: w.Flt}
	}
}

// wireCollection is the YAML-friendly projection of a Collection; list and
// object entries are stored as raw 32-bit pointer integers, which is safe
// because the image format addresses only the static area (fixed, never
// compacted) — see the package doc comment on Image for why heap pointers
// never appear here.
type wireCollection struct {
	Kind   CollectionKind    `yaml:"kind"`
	Text   string            `yaml:"text,omitempty"`
	List   []uint32          `yaml:"list,omitempty"`
	Object map[string]uint32 `yaml:"object,omitempty"`
	Keys   []string          `yaml:"keys,omitempty"`
}

// Image is the serializable projection of a Memory (spec.md §6 "Memory
// image format"): the static area and the collection pool, plus the symbol
// table mapping global names to their static offset. The heap is
// deliberately excluded — it holds only transient per-run temporaries, and
// every static global's *storage slot* lives in Statics directly (see
// DefineStatic), so nothing reachable from a global ever needs a heap
// pointer to survive a round trip.
type Image struct {
	Statics []wireValue      `yaml:"statics"`
	Pool    []wireCollection `yaml:"pool"`
	Symbols map[string]int   `yaml:"symbols"`
}

// Serialize snapshots m's static area, collection pool and symbol table
// into an Image.
func (m *Memory) Serialize() Image {
	img := Image{Symbols: map[string]int{}}
	for _, v := range m.Statics {
		img.Statics = append(img.Statics, toWire(v))
	}
	for _, c := range m.pool {
		wc := wireCollection{Kind: c.Kind, Text: c.Text, Keys: append([]string(nil), c.Keys...)}
		for _, p := range c.List {
			wc.List = append(wc.List, uint32(p))
		}
		if c.Object != nil {
			wc.Object = make(map[string]uint32, len(c.Object))
			for k, p := range c.Object {
				wc.Object[k] = uint32(p)
			}
		}
		img.Pool = append(img.Pool, wc)
	}
	for name, idx := range m.symbols {
		img.Symbols[name] = idx
	}
	return img
}

// Marshal encodes the Image as YAML, used both for disk persistence and for
// the `yqlang list <id>` debug dump.
func (img Image) Marshal() ([]byte, error) { return yaml.Marshal(img) }

// Dump is the `yqlang list <id>` entry point: a human-readable YAML
// rendering of a running program's current static area, collection pool
// and symbol table.
func (m *Memory) Dump() ([]byte, error) { return m.Serialize().Marshal() }

// UnmarshalImage decodes a YAML-encoded Image.
func UnmarshalImage(data []byte) (Image, error) {
	var img Image
	if err := yaml.Unmarshal(data, &img); err != nil {
		return Image{}, err
	}
	return img, nil
}

// Load builds a fresh Memory from a deserialized Image, with an empty heap
// and operand stack — the state a freshly-deserialized program starts
// execution from.
func Load(img Image) *Memory {
	m := New()
	for _, wv := range img.Statics {
		m.Statics = append(m.Statics, fromWire(wv))
	}
	for _, wc := range img.Pool {
		c := Collection{Kind: wc.Kind, Text: wc.Text, Keys: append([]string(nil), wc.Keys...)}
		for _, p := range wc.List {
			c.List = append(c.List, Pointer(p))
		}
		if wc.Object != nil {
			c.Object = make(map[string]Pointer, len(wc.Object))
			for k, p := range wc.Object {
				c.Object[k] = Pointer(p)
			}
		}
		m.pool = append(m.pool, c)
	}
	for name, idx := range img.Symbols {
		m.symbols[name] = idx
	}
	return m
}

// Merge carries a program's live global state forward across an `update
// <id> <code>` recompile (spec.md §4.6): newImage is the freshly compiled
// program's static layout (literal constants plus one slot per global, in
// declaration order); old is the previous, still-running Memory. For every
// global name that exists in both, old's *current* value (not its original
// initializer) replaces the new image's slot, so in-flight counters and
// accumulated state survive the recompile. Globals the new program no
// longer declares are dropped; globals the new program adds keep their
// fresh initializer. Since old's live value may itself be a Reference into
// old's collection pool, any such collection (and anything it transitively
// reaches) is copied into the merged Memory's pool so the merged image
// never aliases the old Memory's storage.
func Merge(old *Memory, newImage Image) *Memory {
	merged := Load(newImage)
	poolCopy := map[int]int{}
	var copyValue func(v value.Value) value.Value
	var copyCollection func(id int) int
	var copyPointer func(p Pointer) Pointer

	copyCollection = func(id int) int {
		if nid, ok := poolCopy[id]; ok {
			return nid
		}
		src := old.pool[id]
		dst := Collection{Kind: src.Kind, Text: src.Text, Keys: append([]string(nil), src.Keys...)}
		nid := len(merged.pool)
		poolCopy[id] = nid
		merged.pool = append(merged.pool, Collection{})
		switch src.Kind {
		case CollectionList:
			for _, p := range src.List {
				dst.List = append(dst.List, copyPointer(p))
			}
		case CollectionObject:
			dst.Object = make(map[string]Pointer, len(src.Object))
			for _, k := range src.Keys {
				dst.Object[k] = copyPointer(src.Object[k])
			}
		}
		merged.pool[nid] = dst
		return nid
	}

	copyPointer = func(p Pointer) Pointer {
		if p.Region() != RegionHeap {
			return p
		}
		v := copyValue(old.Heap[p.Offset()])
		return merged.Allocate(v)
	}

	copyValue = func(v value.Value) value.Value {
		switch v.Kind {
		case value.KindReference:
			return value.Ref(value.CollectionId(copyCollection(int(v.CollectionId()))))
		case value.KindClosure:
			c := v.AsClosure()
			return value.ClosureValue(value.CollectionId(copyCollection(int(c.Captures))), c.Entry)
		case value.KindBoundProcedure:
			bp := v.AsBoundProcedure()
			return value.BoundProcedureValue(bp.Name, copyValue(bp.Receiver))
		default:
			return v
		}
	}

	for name, oldIdx := range old.symbols {
		newIdx, ok := merged.symbols[name]
		if !ok {
			continue
		}
		merged.Statics[newIdx] = copyValue(old.Statics[oldIdx])
	}
	return merged
}
