/*
File    : yqlang/vm/action.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// ACTION dispatches yqlang's four chat-bot effect statements (spec.md §6)
// onto the host-supplied runtime.Effects. It pops the already-evaluated
// argument, invokes the effect, and pushes Null back so the compiler's
// uniform "every statement leaves one value, then POP" shape still holds.
package vm

import (
	"github.com/akashmaji946/yqlang/builtin"
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/value"
)

// displayText renders any Value the way say/picsave/picsend arguments are
// shown: a string Reference's own text, the arithmetic printable form, or
// for a list/object the same deep, cycle-safe rendering `string()` and
// `join` use (builtin.DisplayString), not value.Value.ToString's opaque
// "<ref#N>" (spec.md §8's worked example requires `say a` on a list to
// print its elements, e.g. "[1, 9, 9, 3]").
func (v *VM) displayText(val value.Value) string {
	if s, ok := v.stringText(val); ok {
		return s
	}
	if val.IsArithmetic() {
		return value.PrintableArith(val)
	}
	return builtin.DisplayString(v.builtinCtx, val)
}

func (v *VM) runAction(kind bytecode.ActionKind) error {
	p := v.mem.Pop()
	arg := v.mem.Deref(p)

	if v.effects == nil {
		v.mem.Push(v.mem.Allocate(value.Null))
		return nil
	}

	switch kind {
	case bytecode.ActionSay:
		v.effects.Say(v.displayText(arg))
	case bytecode.ActionNudge:
		if !arg.IsArithmetic() {
			return &errs.TypeMismatch{Expected: []string{"int"}, Found: arg.Kind.String(), Context: "nudge"}
		}
		v.effects.Nudge(arg.Int)
	case bytecode.ActionPicsave:
		s, ok := v.stringText(arg)
		if !ok {
			return &errs.TypeMismatch{Expected: []string{"string"}, Found: arg.Kind.String(), Context: "picsave"}
		}
		v.effects.Picsave(s)
	case bytecode.ActionPicsend:
		s, ok := v.stringText(arg)
		if !ok {
			return &errs.TypeMismatch{Expected: []string{"string"}, Found: arg.Kind.String(), Context: "picsend"}
		}
		v.effects.Picsend(s)
	default:
		return &errs.Builtin{Name: "action", Message: "unknown action kind"}
	}
	v.mem.Push(v.mem.Allocate(value.Null))
	return nil
}
