/*
File    : yqlang/value/format.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package value

import "fmt"

// ToString renders v in a plain, user-facing form, used for say/nudge text
// and string concatenation. Collection kinds (Reference) are rendered by
// package memory, which has pool access; this only covers the
// non-collection variants.
func (v Value) ToString() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean, KindInteger, KindFloat:
		return PrintableArith(v)
	case KindReference:
		return fmt.Sprintf("<ref#%d>", v.Int)
	case KindClosure:
		c := v.AsClosure()
		return fmt.Sprintf("<closure@%d>", c.Entry)
	case KindBoundProcedure:
		b := v.AsBoundProcedure()
		return fmt.Sprintf("<bound %s>", b.Name)
	case KindRegEx:
		r := v.AsRegEx()
		return fmt.Sprintf("/%s/%s", r.Pattern, r.Flags)
	case KindIntegerSubscript:
		s := v.AsIntegerSubscript()
		if !s.Slice {
			return fmt.Sprintf("[%d]", s.Begin)
		}
		begin, end := "", ""
		if s.HasBegin {
			begin = fmt.Sprintf("%d", s.Begin)
		}
		if s.HasEnd {
			end = fmt.Sprintf("%d", s.End)
		}
		return fmt.Sprintf("[%s:%s]", begin, end)
	case KindKeySubscript:
		return "." + v.AsKeySubscript().Key
	case KindIntegerRange:
		r := v.AsIntegerRange()
		if r.Inclusive {
			return fmt.Sprintf("%d...%d", r.Lo, r.Hi)
		}
		return fmt.Sprintf("%d..%d", r.Lo, r.Hi)
	case KindCharRange:
		r := v.AsCharRange()
		if r.Inclusive {
			return fmt.Sprintf("%c...%c", r.Lo, r.Hi)
		}
		return fmt.Sprintf("%c..%c", r.Lo, r.Hi)
	default:
		return "<?>"
	}
}

// ToObject renders a detailed, type-tagged debug form (e.g. "<int(42)>").
func (v Value) ToObject() string {
	switch v.Kind {
	case KindNull:
		return "<null>"
	case KindBoolean:
		return fmt.Sprintf("<bool(%t)>", v.Int != 0)
	case KindInteger:
		return fmt.Sprintf("<int(%d)>", v.Int)
	case KindFloat:
		return fmt.Sprintf("<float(%g)>", v.Flt)
	default:
		return v.ToString()
	}
}

// Equal implements the non-collection half of universal == (spec.md §4.5):
// arithmetic values compare across kinds via the coercion ladder; closures
// compare by identity (same captures collection and entry point); bound
// procedures and regexes compare structurally; everything else compares by
// Kind+payload equality. Structural equality for lists/objects is
// implemented in package memory, which can dereference CollectionIds.
func (v Value) Equal(other Value) bool {
	if v.IsArithmetic() && other.IsArithmetic() {
		return CompareArith(v, other) == 0
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindReference:
		return v.Int == other.Int
	case KindClosure:
		a, b := v.AsClosure(), other.AsClosure()
		return a.Captures == b.Captures && a.Entry == b.Entry
	case KindBoundProcedure:
		a, b := v.AsBoundProcedure(), other.AsBoundProcedure()
		return a.Name == b.Name && a.Receiver.Equal(b.Receiver)
	case KindRegEx:
		a, b := v.AsRegEx(), other.AsRegEx()
		return a.Pattern == b.Pattern && a.Flags == b.Flags
	case KindIntegerRange:
		a, b := v.AsIntegerRange(), other.AsIntegerRange()
		return *a == *b
	case KindCharRange:
		a, b := v.AsCharRange(), other.AsCharRange()
		return *a == *b
	case KindIntegerSubscript:
		a, b := v.AsIntegerSubscript(), other.AsIntegerSubscript()
		return *a == *b
	case KindKeySubscript:
		return v.AsKeySubscript().Key == other.AsKeySubscript().Key
	default:
		return false
	}
}
