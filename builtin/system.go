/*
File    : yqlang/builtin/system.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package builtin

import (
	"time"

	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/value"
)

func init() {
	register("time", bTime)
	register("sleep", bSleep)
	register("getNickname", bGetNickname)
}

func bTime(_ *Context, _ value.Value, _ bool, _ []value.Value) (value.Value, error) {
	return value.Int(time.Now().UnixMilli()), nil
}

func bSleep(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "sleep")
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindInteger {
		return value.Value{}, typeErr("sleep", v.Kind, "int")
	}
	if ctx.Effects == nil {
		return value.Null, nil
	}
	if err := ctx.Effects.Sleep(v.Int); err != nil {
		return value.Value{}, err
	}
	return value.Null, nil
}

func bGetNickname(ctx *Context, _ value.Value, _ bool, args []value.Value) (value.Value, error) {
	v, err := arg0(args, "getNickname")
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindInteger {
		return value.Value{}, typeErr("getNickname", v.Kind, "int")
	}
	if ctx.Effects == nil {
		return value.Value{}, &errs.Builtin{Name: "getNickname", Message: "no effects host installed"}
	}
	name, err := ctx.Effects.Nickname(v.Int)
	if err != nil {
		return value.Value{}, err
	}
	return newString(ctx, name), nil
}
