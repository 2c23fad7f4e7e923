/*
File    : yqlang/builtin/regexfn.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import (
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/value"
)

func init() {
	register("re", bRe)
	register("match", bMatch)
	register("matchAll", bMatchAll)
	register("matchEntire", bMatchEntire)
	register("replace", bReplace)
}

func bRe(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	pat, err := arg0(args, "re")
	if err != nil {
		return value.Value{}, err
	}
	pattern, ok := stringText(ctx, pat)
	if !ok {
		return value.Value{}, typeErr("re", pat.Kind, "string")
	}
	flags := ""
	if len(args) > 1 {
		if f, ok := stringText(ctx, args[1]); ok {
			flags = f
		}
	}
	return value.RegExValue(pattern, flags), nil
}

func regexArg(ctx *Context, v value.Value, name string) (*value.RegEx, error) {
	if v.Kind != value.KindRegEx {
		return nil, typeErr(name, v.Kind, "regex")
	}
	return v.AsRegEx(), nil
}

func bMatch(ctx *Context, receiver value.Value, hasReceiver bool, args []value.Value) (value.Value, error) {
	re, err := regexArg(ctx, receiver, "match")
	if err != nil {
		return value.Value{}, err
	}
	target, err := arg0(args, "match")
	if err != nil {
		return value.Value{}, err
	}
	s, ok := stringText(ctx, target)
	if !ok {
		return value.Value{}, typeErr("match", target.Kind, "string")
	}
	compiled, cerr := re.Compiled()
	if cerr != nil {
		return value.Value{}, &errs.Builtin{Name: "match", Message: cerr.Error()}
	}
	m := compiled.FindString(s)
	if m == "" && !compiled.MatchString(s) {
		return value.Null, nil
	}
	return newString(ctx, m), nil
}

func bMatchAll(ctx *Context, receiver value.Value, hasReceiver bool, args []value.Value) (value.Value, error) {
	re, err := regexArg(ctx, receiver, "matchAll")
	if err != nil {
		return value.Value{}, err
	}
	target, err := arg0(args, "matchAll")
	if err != nil {
		return value.Value{}, err
	}
	s, ok := stringText(ctx, target)
	if !ok {
		return value.Value{}, typeErr("matchAll", target.Kind, "string")
	}
	compiled, cerr := re.Compiled()
	if cerr != nil {
		return value.Value{}, &errs.Builtin{Name: "matchAll", Message: cerr.Error()}
	}
	matches := compiled.FindAllString(s, -1)
	out := make([]value.Value, len(matches))
	for i, m := range matches {
		out[i] = newString(ctx, m)
	}
	return newList(ctx, out), nil
}

func bMatchEntire(ctx *Context, receiver value.Value, hasReceiver bool, args []value.Value) (value.Value, error) {
	re, err := regexArg(ctx, receiver, "matchEntire")
	if err != nil {
		return value.Value{}, err
	}
	target, err := arg0(args, "matchEntire")
	if err != nil {
		return value.Value{}, err
	}
	s, ok := stringText(ctx, target)
	if !ok {
		return value.Value{}, typeErr("matchEntire", target.Kind, "string")
	}
	compiled, cerr := re.Compiled()
	if cerr != nil {
		return value.Value{}, &errs.Builtin{Name: "matchEntire", Message: cerr.Error()}
	}
	loc := compiled.FindStringIndex(s)
	return value.Bool(loc != nil && loc[0] == 0 && loc[1] == len(s)), nil
}

func bReplace(ctx *Context, receiver value.Value, hasReceiver bool, args []value.Value) (value.Value, error) {
	re, err := regexArg(ctx, receiver, "replace")
	if err != nil {
		return value.Value{}, err
	}
	if len(args) < 2 {
		return value.Value{}, typeErr("replace", value.KindNull, "string", "string")
	}
	s, ok := stringText(ctx, args[0])
	repl, ok2 := stringText(ctx, args[1])
	if !ok || !ok2 {
		return value.Value{}, typeErr("replace", args[0].Kind, "string")
	}
	compiled, cerr := re.Compiled()
	if cerr != nil {
		return value.Value{}, &errs.Builtin{Name: "replace", Message: cerr.Error()}
	}
	return newString(ctx, compiled.ReplaceAllString(s, repl)), nil
}
