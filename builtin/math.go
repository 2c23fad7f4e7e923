/*
File    : yqlang/builtin/math.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import (
	"math"

	"github.com/akashmaji946/yqlang/value"
)

func init() {
	register("abs", bAbs)
	register("pow", bPow)
	register("sqrt", bSqrt)
}

func numArg(v value.Value) (float64, bool, error) {
	switch v.Kind {
	case value.KindInteger, value.KindBoolean:
		return float64(v.Int), true, nil
	case value.KindFloat:
		return v.Flt, false, nil
	}
	return 0, false, typeErr("math", v.Kind, "int", "float")
}

func bAbs(_ *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "abs")
	if err != nil {
		return value.Value{}, err
	}
	switch v.Kind {
	case value.KindInteger:
		if v.Int < 0 {
			return value.Int(-v.Int), nil
		}
		return v, nil
	case value.KindFloat:
		return value.Float(math.Abs(v.Flt)), nil
	}
	return value.Value{}, typeErr("abs", v.Kind, "int", "float")
}

func bPow(_ *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return value.Value{}, typeErr("pow", value.KindNull, "int", "float")
	}
	base, baseIsInt, err := numArg(args[0])
	if err != nil {
		return value.Value{}, err
	}
	exp, expIsInt, err := numArg(args[1])
	if err != nil {
		return value.Value{}, err
	}
	r := math.Pow(base, exp)
	if baseIsInt && expIsInt && exp >= 0 {
		return value.Int(int64(r)), nil
	}
	return value.Float(r), nil
}

func bSqrt(_ *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "sqrt")
	if err != nil {
		return value.Value{}, err
	}
	f, _, err := numArg(v)
	if err != nil {
		return value.Value{}, err
	}
	return value.Float(math.Sqrt(f)), nil
}
