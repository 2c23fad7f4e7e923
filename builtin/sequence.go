/*
File    : yqlang/builtin/sequence.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/value"
)

func init() {
	register("length", bLength)
	register("contains", bContains)
	register("find", bFind)
	register("findAll", bFindAll)
	register("split", bSplit)
	register("join", bJoin)
	register("random", bRandom)
	register("enumerated", bEnumerated)
	register("sum", bSum)
	register("filter", bFilter)
	register("reduce", bReduce)
	register("map", bMap)
	register("max", bMax)
	register("min", bMin)
	register("reversed", bReversed)
	register("sorted", bSorted)
}

// elements reads a method receiver generically: a List's own elements, or a
// String's characters as single-rune strings, so the bulk of the sequence
// library works identically over both (spec.md §4.9's "sequence methods").
func elements(ctx *Context, v value.Value) ([]value.Value, bool) {
	if vals, ok := listValues(ctx, v); ok {
		return vals, true
	}
	if s, ok := stringText(ctx, v); ok {
		runes := []rune(s)
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = newString(ctx, string(r))
		}
		return out, true
	}
	return nil, false
}

func bLength(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	if s, ok := stringText(ctx, receiver); ok {
		return value.Int(int64(len([]rune(s)))), nil
	}
	if vals, ok := listValues(ctx, receiver); ok {
		return value.Int(int64(len(vals))), nil
	}
	return value.Value{}, typeErr("length", receiver.Kind, "string", "list")
}

func bContains(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	needle, err := arg0(args, "contains")
	if err != nil {
		return value.Value{}, err
	}
	if s, ok := stringText(ctx, receiver); ok {
		if n, ok := stringText(ctx, needle); ok {
			return value.Bool(strings.Contains(s, n)), nil
		}
	}
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("contains", receiver.Kind, "string", "list")
	}
	for _, e := range els {
		if valuesEqual(ctx, e, needle) {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func bFind(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	needle, err := arg0(args, "find")
	if err != nil {
		return value.Value{}, err
	}
	if s, ok := stringText(ctx, receiver); ok {
		if n, ok := stringText(ctx, needle); ok {
			return value.Int(int64(strings.Index(s, n))), nil
		}
	}
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("find", receiver.Kind, "string", "list")
	}
	for i, e := range els {
		if valuesEqual(ctx, e, needle) {
			return value.Int(int64(i)), nil
		}
	}
	return value.Int(-1), nil
}

func bFindAll(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	needle, err := arg0(args, "findAll")
	if err != nil {
		return value.Value{}, err
	}
	var idxs []value.Value
	if s, ok := stringText(ctx, receiver); ok {
		if n, ok := stringText(ctx, needle); ok && n != "" {
			start := 0
			for {
				i := strings.Index(s[start:], n)
				if i < 0 {
					break
				}
				idxs = append(idxs, value.Int(int64(start+i)))
				start += i + len(n)
			}
			return newList(ctx, idxs), nil
		}
	}
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("findAll", receiver.Kind, "string", "list")
	}
	for i, e := range els {
		if valuesEqual(ctx, e, needle) {
			idxs = append(idxs, value.Int(int64(i)))
		}
	}
	return newList(ctx, idxs), nil
}

// bSplit supports splitting a string by another string, by a regex value, or
// (with no separator argument) by whitespace.
func bSplit(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	s, ok := stringText(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("split", receiver.Kind, "string")
	}
	var parts []string
	switch {
	case len(args) == 0:
		parts = strings.Fields(s)
	case args[0].Kind == value.KindRegEx:
		re := args[0].AsRegEx()
		compiled, err := re.Compiled()
		if err != nil {
			return value.Value{}, &errs.Builtin{Name: "split", Message: err.Error()}
		}
		parts = compiled.Split(s, -1)
	default:
		sep, ok := stringText(ctx, args[0])
		if !ok {
			return value.Value{}, typeErr("split", args[0].Kind, "string", "regex")
		}
		parts = strings.Split(s, sep)
	}
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = newString(ctx, p)
	}
	return newList(ctx, out), nil
}

func bJoin(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("join", receiver.Kind, "list")
	}
	sep := ""
	if len(args) > 0 {
		if s, ok := stringText(ctx, args[0]); ok {
			sep = s
		}
	}
	parts := make([]string, len(els))
	for i, e := range els {
		parts[i] = DisplayString(ctx, e)
	}
	return newString(ctx, strings.Join(parts, sep)), nil
}

func bRandom(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok || len(els) == 0 {
		return value.Value{}, typeErr("random", receiver.Kind, "non-empty string", "non-empty list")
	}
	return els[rand.Intn(len(els))], nil
}

func bEnumerated(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("enumerated", receiver.Kind, "string", "list")
	}
	out := make([]value.Value, len(els))
	for i, e := range els {
		out[i] = newList(ctx, []value.Value{value.Int(int64(i)), e})
	}
	return newList(ctx, out), nil
}

func bSum(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	els, ok := listValues(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("sum", receiver.Kind, "list")
	}
	acc := value.Int(0)
	for _, e := range els {
		if !e.IsArithmetic() {
			return value.Value{}, typeErr("sum", e.Kind, "int", "float")
		}
		acc = value.AddArith(acc, e)
	}
	return acc, nil
}

func closureArg(args []value.Value, name string) (value.Value, error) {
	v, err := arg0(args, name)
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindClosure {
		return value.Value{}, typeErr(name, v.Kind, "closure")
	}
	return v, nil
}

func bFilter(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("filter", receiver.Kind, "string", "list")
	}
	fn, err := closureArg(args, "filter")
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for _, e := range els {
		r, err := ctx.Call.Call(fn, []value.Value{e})
		if err != nil {
			return value.Value{}, err
		}
		if r.Truthy() {
			out = append(out, e)
		}
	}
	return newList(ctx, out), nil
}

func bReduce(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("reduce", receiver.Kind, "string", "list")
	}
	if len(args) == 0 {
		return value.Value{}, typeErr("reduce", value.KindNull, "closure")
	}
	fn := args[0]
	if fn.Kind != value.KindClosure {
		return value.Value{}, typeErr("reduce", fn.Kind, "closure")
	}
	var acc value.Value
	start := 0
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(els) == 0 {
			return value.Null, nil
		}
		acc = els[0]
		start = 1
	}
	for _, e := range els[start:] {
		r, err := ctx.Call.Call(fn, []value.Value{acc, e})
		if err != nil {
			return value.Value{}, err
		}
		acc = r
	}
	return acc, nil
}

func bMap(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("map", receiver.Kind, "string", "list")
	}
	fn, err := closureArg(args, "map")
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, len(els))
	for i, e := range els {
		r, err := ctx.Call.Call(fn, []value.Value{e})
		if err != nil {
			return value.Value{}, err
		}
		out[i] = r
	}
	return newList(ctx, out), nil
}

func bMax(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	return extremum(ctx, receiver, "max", 1)
}

func bMin(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	return extremum(ctx, receiver, "min", -1)
}

func extremum(ctx *Context, receiver value.Value, name string, want int) (value.Value, error) {
	els, ok := elements(ctx, receiver)
	if !ok || len(els) == 0 {
		return value.Value{}, typeErr(name, receiver.Kind, "non-empty string", "non-empty list")
	}
	best := els[0]
	for _, e := range els[1:] {
		if !e.IsArithmetic() || !best.IsArithmetic() {
			return value.Value{}, typeErr(name, e.Kind, "int", "float")
		}
		if value.CompareArith(e, best) == want {
			best = e
		}
	}
	return best, nil
}

func bReversed(ctx *Context, receiver value.Value, _ bool, _ []value.Value) (value.Value, error) {
	if s, ok := stringText(ctx, receiver); ok {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return newString(ctx, string(runes)), nil
	}
	els, ok := listValues(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("reversed", receiver.Kind, "string", "list")
	}
	out := make([]value.Value, len(els))
	for i, e := range els {
		out[len(els)-1-i] = e
	}
	return newList(ctx, out), nil
}

// bSorted sorts a list, optionally via a comparator closure that returns a
// truthy value when its first argument should come after its second
// (spec.md §4.9).
func bSorted(ctx *Context, receiver value.Value, _ bool, args []value.Value) (value.Value, error) {
	els, ok := listValues(ctx, receiver)
	if !ok {
		return value.Value{}, typeErr("sorted", receiver.Kind, "list")
	}
	out := make([]value.Value, len(els))
	copy(out, els)
	if len(args) > 0 && args[0].Kind == value.KindClosure {
		cmp := args[0]
		var callErr error
		sort.SliceStable(out, func(i, j int) bool {
			if callErr != nil {
				return false
			}
			r, err := ctx.Call.Call(cmp, []value.Value{out[i], out[j]})
			if err != nil {
				callErr = err
				return false
			}
			return !r.Truthy()
		})
		if callErr != nil {
			return value.Value{}, callErr
		}
		return newList(ctx, out), nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].IsArithmetic() {
			if s1, ok1 := stringText(ctx, out[i]); ok1 {
				s2, _ := stringText(ctx, out[j])
				return s1 < s2
			}
			return false
		}
		return value.CompareArith(out[i], out[j]) < 0
	})
	return newList(ctx, out), nil
}
