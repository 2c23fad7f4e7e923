/*
File    : yqlang/builtin/rangefn.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import "github.com/akashmaji946/yqlang/value"

func init() {
	register("range", func(ctx *Context, r value.Value, has bool, args []value.Value) (value.Value, error) {
		return buildRange(ctx, args, false)
	})
	register("rangeInclusive", func(ctx *Context, r value.Value, has bool, args []value.Value) (value.Value, error) {
		return buildRange(ctx, args, true)
	})
}

func buildRange(ctx *Context, args []value.Value, inclusive bool) (value.Value, error) {
	if len(args) < 2 {
		return value.Value{}, typeErr("range", value.KindNull, "int", "int")
	}
	a, b := args[0], args[1]
	if a.Kind == value.KindInteger && b.Kind == value.KindInteger {
		return value.IntegerRangeValue(a.Int, b.Int, inclusive), nil
	}
	as, aok := stringText(ctx, a)
	bs, bok := stringText(ctx, b)
	if aok && bok && len([]rune(as)) == 1 && len([]rune(bs)) == 1 {
		return value.CharRangeValue([]rune(as)[0], []rune(bs)[0], inclusive), nil
	}
	return value.Value{}, typeErr("range", a.Kind, "int", "single-character string")
}
