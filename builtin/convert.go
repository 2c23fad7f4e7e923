/*
File    : yqlang/builtin/convert.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import (
	"strconv"

	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/value"
)

func init() {
	register("number", bNumber)
	register("integer", bInteger)
	register("float", bFloat)
	register("string", bString)
	register("boolean", bBoolean)
	register("object", bObject)
	register("ord", bOrd)
	register("chr", bChr)
}

func arg0(args []value.Value, name string) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, &errs.Builtin{Name: name, Message: "expected 1 argument, got 0"}
	}
	return args[0], nil
}

func bNumber(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "number")
	if err != nil {
		return value.Value{}, err
	}
	if v.IsArithmetic() {
		return v, nil
	}
	if s, ok := stringText(ctx, v); ok {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float(f), nil
		}
		return value.Value{}, &errs.Builtin{Name: "number", Message: "cannot parse " + strconv.Quote(s) + " as a number"}
	}
	return value.Value{}, typeErr("number", v.Kind, "bool", "int", "float", "string")
}

func bInteger(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "integer")
	if err != nil {
		return value.Value{}, err
	}
	switch v.Kind {
	case value.KindBoolean, value.KindInteger:
		return value.Int(v.Int), nil
	case value.KindFloat:
		return value.Int(int64(v.Flt)), nil
	}
	if s, ok := stringText(ctx, v); ok {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return value.Value{}, &errs.Builtin{Name: "integer", Message: "cannot parse " + strconv.Quote(s) + " as an integer"}
		}
		return value.Int(i), nil
	}
	return value.Value{}, typeErr("integer", v.Kind, "bool", "int", "float", "string")
}

func bFloat(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "float")
	if err != nil {
		return value.Value{}, err
	}
	switch v.Kind {
	case value.KindBoolean, value.KindInteger:
		return value.Float(float64(v.Int)), nil
	case value.KindFloat:
		return v, nil
	}
	if s, ok := stringText(ctx, v); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Value{}, &errs.Builtin{Name: "float", Message: "cannot parse " + strconv.Quote(s) + " as a float"}
		}
		return value.Float(f), nil
	}
	return value.Value{}, typeErr("float", v.Kind, "bool", "int", "float", "string")
}

func bString(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "string")
	if err != nil {
		return value.Value{}, err
	}
	return newString(ctx, DisplayString(ctx, v)), nil
}

func bBoolean(_ *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "boolean")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(v.Truthy()), nil
}

// bObject builds a dict-object from a list of [key, value] pairs, the only
// user-defined-type mechanism yqlang has (spec.md §1's non-goal stops at
// "no user-defined types beyond dict-objects").
func bObject(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "object")
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind == value.KindReference {
		if _, ok := stringText(ctx, v); !ok {
			pairs, ok := listValues(ctx, v)
			if ok {
				keys := make([]string, 0, len(pairs))
				vals := make([]value.Value, 0, len(pairs))
				for _, p := range pairs {
					kv, ok := listValues(ctx, p)
					if !ok || len(kv) != 2 {
						return value.Value{}, &errs.Builtin{Name: "object", Message: "expected a list of [key, value] pairs"}
					}
					k, ok := stringText(ctx, kv[0])
					if !ok {
						return value.Value{}, typeErr("object", kv[0].Kind, "string")
					}
					keys = append(keys, k)
					vals = append(vals, kv[1])
				}
				return newObject(ctx, keys, vals), nil
			}
		}
	}
	return value.Value{}, typeErr("object", v.Kind, "list")
}

func bOrd(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "ord")
	if err != nil {
		return value.Value{}, err
	}
	s, ok := stringText(ctx, v)
	runes := []rune(s)
	if !ok || len(runes) != 1 {
		return value.Value{}, typeErr("ord", v.Kind, "single-character string")
	}
	return value.Int(int64(runes[0])), nil
}

func bChr(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "chr")
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindInteger {
		return value.Value{}, typeErr("chr", v.Kind, "int")
	}
	return newString(ctx, string(rune(v.Int))), nil
}
