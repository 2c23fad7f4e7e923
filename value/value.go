/*
File    : yqlang/value/value.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package value implements yqlang's tagged Value union (spec.md §3, §4.5):
// Null; the mutually coercible arithmetic trio Boolean/Integer/Float;
// Reference (a pointer into the collection pool); Closure; BoundProcedure;
// RegEx; the subscript and range helper variants used by access views and
// iteration. Strings, lists, and objects themselves (the collection-pool
// side of the model) live in package memory, which imports this package.
package value

import "regexp"

// Kind is the tag of a Value. Kept as a small int, not a string, because
// Kind is compared on every VM dispatch step.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindReference
	KindClosure
	KindBoundProcedure
	KindRegEx
	KindIntegerSubscript
	KindKeySubscript
	KindIntegerRange
	KindCharRange
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "bool"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindReference:
		return "reference"
	case KindClosure:
		return "closure"
	case KindBoundProcedure:
		return "bound_procedure"
	case KindRegEx:
		return "regex"
	case KindIntegerSubscript:
		return "integer_subscript"
	case KindKeySubscript:
		return "key_subscript"
	case KindIntegerRange:
		return "integer_range"
	case KindCharRange:
		return "char_range"
	default:
		return "unknown"
	}
}

// CollectionId addresses a collection (String/List/Object) inside a
// memory.Pool. It is a plain integer type here, rather than in package
// memory, so that Value can carry a Reference without importing memory.
type CollectionId uint32

// Closure is the Extra payload of a KindClosure Value: the collection id of
// its capture list and the label its code starts at.
type Closure struct {
	Captures CollectionId
	Entry    int32
}

// BoundProcedure is the Extra payload of a KindBoundProcedure Value. It
// represents a method resolved against a receiver, e.g. "abc".length.
// BoundProcedure values are themselves heap-allocated like any other Value
// (see vm/access.go's accessGet), so Receiver is a normal GC root: the
// collection pool's GC mark/compact pass and memory/image.go's Merge both
// have to trace through it the same way they trace through Closure's
// Captures, since Receiver can itself hold a Reference into the pool.
type BoundProcedure struct {
	Name     string
	Receiver Value
}

// RegEx is the Extra payload of a KindRegEx Value.
type RegEx struct {
	Pattern  string
	Flags    string
	compiled *regexp.Regexp
}

// Compiled lazily compiles and caches the regexp for this value.
func (r *RegEx) Compiled() (*regexp.Regexp, error) {
	if r.compiled != nil {
		return r.compiled, nil
	}
	pattern := r.Pattern
	if containsRune(r.Flags, 'i') {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	r.compiled = re
	return re, nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// IntegerSubscript is the Extra payload of a KindIntegerSubscript Value. It
// records enough to tell a plain index apart from an open or closed slice
// (bytecode.SubscriptIndex / SubscriptOpenSlice / SubscriptClosedSlice).
type IntegerSubscript struct {
	Begin    int64
	HasBegin bool
	End      int64
	HasEnd   bool
	Slice    bool
}

// KeySubscript is the Extra payload of a KindKeySubscript Value: a.b style
// member/method access.
type KeySubscript struct {
	Key string
}

// IntegerRange is the Extra payload of a KindIntegerRange Value, produced by
// range(begin,end) / rangeInclusive(begin,end).
type IntegerRange struct {
	Lo        int64
	Hi        int64
	Inclusive bool
}

// CharRange is the Extra payload of a KindCharRange Value, produced by
// range/rangeInclusive over single-character strings.
type CharRange struct {
	Lo        rune
	Hi        rune
	Inclusive bool
}

// Value is the tagged union itself. Arithmetic variants (Null excluded) are
// stored directly in Int/Flt; every other variant's payload lives in Extra.
// Values are always passed by copy — "by reference" semantics for
// strings/lists/objects live one level up, via the CollectionId a
// KindReference Value carries.
type Value struct {
	Kind  Kind
	Int   int64
	Flt   float64
	Extra interface{}
}

// Null is the nil/absent value.
var Null = Value{Kind: KindNull}

func Bool(b bool) Value {
	i := int64(0)
	if b {
		i = 1
	}
	return Value{Kind: KindBoolean, Int: i}
}

func Int(i int64) Value { return Value{Kind: KindInteger, Int: i} }

func Float(f float64) Value { return Value{Kind: KindFloat, Flt: f} }

func Ref(id CollectionId) Value { return Value{Kind: KindReference, Int: int64(id)} }

func ClosureValue(captures CollectionId, entry int32) Value {
	return Value{Kind: KindClosure, Extra: &Closure{Captures: captures, Entry: entry}}
}

func BoundProcedureValue(name string, receiver Value) Value {
	return Value{Kind: KindBoundProcedure, Extra: &BoundProcedure{Name: name, Receiver: receiver}}
}

func RegExValue(pattern, flags string) Value {
	return Value{Kind: KindRegEx, Extra: &RegEx{Pattern: pattern, Flags: flags}}
}

func IndexSubscript(i int64) Value {
	return Value{Kind: KindIntegerSubscript, Extra: &IntegerSubscript{Begin: i, HasBegin: true, Slice: false}}
}

func SliceSubscript(begin int64, hasBegin bool, end int64, hasEnd bool) Value {
	return Value{Kind: KindIntegerSubscript, Extra: &IntegerSubscript{
		Begin: begin, HasBegin: hasBegin, End: end, HasEnd: hasEnd, Slice: true,
	}}
}

func KeySubscriptValue(key string) Value {
	return Value{Kind: KindKeySubscript, Extra: &KeySubscript{Key: key}}
}

func IntegerRangeValue(lo, hi int64, inclusive bool) Value {
	return Value{Kind: KindIntegerRange, Extra: &IntegerRange{Lo: lo, Hi: hi, Inclusive: inclusive}}
}

func CharRangeValue(lo, hi rune, inclusive bool) Value {
	return Value{Kind: KindCharRange, Extra: &CharRange{Lo: lo, Hi: hi, Inclusive: inclusive}}
}

// IsArithmetic reports whether v participates in the Bool<Int<Float
// coercion ladder (spec.md §4.5).
func (v Value) IsArithmetic() bool {
	return v.Kind == KindBoolean || v.Kind == KindInteger || v.Kind == KindFloat
}

// Truthy implements the language's notion of truthiness, used by TO_BOOL,
// JUMP_ZERO/JUMP_NOT_ZERO, and short-circuit && / ||.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean, KindInteger:
		return v.Int != 0
	case KindFloat:
		return v.Flt != 0
	default:
		// References (strings/lists/objects), closures, etc. are always
		// truthy as values; emptiness is not falsiness in yqlang.
		return true
	}
}

// AsClosure type-asserts the Extra payload; callers must check Kind first.
func (v Value) AsClosure() *Closure { return v.Extra.(*Closure) }

func (v Value) AsBoundProcedure() *BoundProcedure { return v.Extra.(*BoundProcedure) }

func (v Value) AsRegEx() *RegEx { return v.Extra.(*RegEx) }

func (v Value) AsIntegerSubscript() *IntegerSubscript { return v.Extra.(*IntegerSubscript) }

func (v Value) AsKeySubscript() *KeySubscript { return v.Extra.(*KeySubscript) }

func (v Value) AsIntegerRange() *IntegerRange { return v.Extra.(*IntegerRange) }

func (v Value) AsCharRange() *CharRange { return v.Extra.(*CharRange) }

func (v Value) CollectionId() CollectionId { return CollectionId(v.Int) }
