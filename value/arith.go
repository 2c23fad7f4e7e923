/*
File    : yqlang/value/arith.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package value

import (
	"fmt"

	"github.com/akashmaji946/yqlang/errs"
)

// rank orders Bool < Int < Float for the coercion ladder (spec.md §4.5).
func rank(k Kind) int {
	switch k {
	case KindBoolean:
		return 0
	case KindInteger:
		return 1
	case KindFloat:
		return 2
	default:
		return -1
	}
}

// promote raises a, b to the higher of their two arithmetic kinds, then
// returns that Kind followed by both operands as int64s and as float64s,
// where only the pair matching Kind is meaningful.
func promote(a, b Value) (Kind, int64, int64, float64, float64) {
	target := a.Kind
	if rank(b.Kind) > rank(target) {
		target = b.Kind
	}
	ai, af := coerceTo(a, target)
	bi, bf := coerceTo(b, target)
	return target, ai, bi, af, bf
}

func coerceTo(v Value, target Kind) (int64, float64) {
	switch target {
	case KindFloat:
		if v.Kind == KindFloat {
			return 0, v.Flt
		}
		return 0, float64(v.Int)
	default: // KindBoolean or KindInteger both carry Int
		return v.Int, 0
	}
}

// AddArith implements + for two arithmetic values.
func AddArith(a, b Value) Value {
	k, ai, bi, af, bf := promote(a, b)
	if k == KindFloat {
		return Float(af + bf)
	}
	return Int(ai + bi)
}

func SubArith(a, b Value) Value {
	k, ai, bi, af, bf := promote(a, b)
	if k == KindFloat {
		return Float(af - bf)
	}
	return Int(ai - bi)
}

func MulArith(a, b Value) Value {
	k, ai, bi, af, bf := promote(a, b)
	if k == KindFloat {
		return Float(af * bf)
	}
	return Int(ai * bi)
}

// DivArith implements /. Integer division by zero returns an errs.Builtin
// error; float division follows IEEE rules (a zero divisor gives ±Inf or
// NaN). Integer overflow is not detected beyond the host's wrap-around.
func DivArith(a, b Value) (Value, error) {
	k, ai, bi, af, bf := promote(a, b)
	if k == KindFloat {
		return Float(af / bf), nil
	}
	if bi == 0 {
		return Value{}, &errs.Builtin{Name: "/", Message: "integer division by zero"}
	}
	return Int(ai / bi), nil
}

// ModArith implements %. Floating-point modulus is explicitly out of scope
// (spec.md §1 non-goals), so a Float operand is a type mismatch.
func ModArith(a, b Value) (Value, error) {
	if a.Kind == KindFloat || b.Kind == KindFloat {
		return Value{}, &errs.TypeMismatch{Expected: []string{"bool", "int"}, Found: "float", Context: "%"}
	}
	if b.Int == 0 {
		return Value{}, &errs.Builtin{Name: "%", Message: "modulus by zero"}
	}
	return Int(a.Int % b.Int), nil
}

func NegArith(a Value) Value {
	if a.Kind == KindFloat {
		return Float(-a.Flt)
	}
	return Int(-a.Int)
}

// CompareArith returns -1, 0, 1 for a<b, a==b, a>b over two arithmetic
// values.
func CompareArith(a, b Value) int {
	k, ai, bi, af, bf := promote(a, b)
	if k == KindFloat {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

// PrintableArith renders an arithmetic Value the way '+' string-concat and
// say/nudge argument formatting need.
func PrintableArith(v Value) string {
	switch v.Kind {
	case KindBoolean:
		return fmt.Sprintf("%t", v.Int != 0)
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Flt)
	default:
		return ""
	}
}
