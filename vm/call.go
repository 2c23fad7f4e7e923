/*
File    : yqlang/vm/call.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Call protocol (spec.md §4.8): one CALL opcode dispatches on the popped
// callee's Kind. A KindClosure value opens a real call frame and jumps into
// compiled bytecode; a KindBoundProcedure value — built either from a free
// builtin name (receiver value.Null) or from ACCESS_GET's method-resolution
// fallback — invokes the builtin registry directly and never opens a frame.
package vm

import (
	"github.com/akashmaji946/yqlang/builtin"
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/value"
)

// argSlice derefs an args-list value (as built by emitCallArgs's CONS_PUSH)
// into a plain slice for a builtin Func to consume.
func (v *VM) argSlice(args value.Value) []value.Value {
	if args.Kind != value.KindReference {
		return nil
	}
	c := v.mem.GetCollection(args.CollectionId())
	out := make([]value.Value, len(c.List))
	for i, p := range c.List {
		out[i] = v.mem.Deref(p)
	}
	return out
}

// call implements the CALL opcode. retLabel is the label to resume at once
// a real (closure) call eventually RETURNs; a builtin call never opens a
// frame, so it advances pc itself and ignores retLabel.
func (v *VM) call(retLabel int32) error {
	argsPtr := v.mem.Pop()
	calleePtr := v.mem.Pop()
	callee := v.mem.Deref(calleePtr)
	args := v.mem.Deref(argsPtr)

	switch callee.Kind {
	case value.KindClosure:
		cl := callee.AsClosure()
		captures := value.Ref(cl.Captures)
		v.mem.PushFrameFull(retLabel, value.Null, args, captures, 0)
		v.pc = v.prog.Labels[cl.Entry]
		return nil
	case value.KindBoundProcedure:
		bp := callee.AsBoundProcedure()
		fn, ok := builtin.Lookup(bp.Name)
		if !ok {
			return &errs.NoSuchMethod{Target: "builtin", Name: bp.Name}
		}
		hasReceiver := bp.Receiver.Kind != value.KindNull
		result, err := fn(v.builtinCtx, bp.Receiver, hasReceiver, v.argSlice(args))
		if err != nil {
			return err
		}
		v.mem.Push(v.mem.Allocate(result))
		v.pc++
		return nil
	default:
		return &errs.TypeMismatch{Expected: []string{"closure", "bound_procedure"}, Found: callee.Kind.String(), Context: "call"}
	}
}

// prepareFrame seeds local slots [0, nCaptures) by aliasing the callee's
// captured Pointers directly (bypassing POP_SAVE_LOCAL's declare-vs-mutate
// logic), then grows the frame to localCount slots for the compiled body's
// own locals and parameters (spec.md §4.6's push_frame layout).
func (v *VM) prepareFrame(localCount int) {
	captures := v.mem.Captures()
	nCaptures := 0
	if captures.Kind == value.KindReference {
		c := v.mem.GetCollection(captures.CollectionId())
		nCaptures = len(c.List)
		v.mem.GrowLocals(localCount)
		for i, p := range c.List {
			v.mem.SetLocal(i, p)
		}
	} else {
		v.mem.GrowLocals(localCount)
	}
	_ = nCaptures
}

// nthArg returns the Pointer backing the n-th argument of the current
// frame's args list (GET_NTH_ARG copies it; GET_NTH_ARG_REF aliases it
// directly into the parameter's local slot as a minor allocation
// optimization, safe because POP_SAVE_LOCAL's first-write branch always
// re-copies primitives anyway).
func (v *VM) nthArg(n int) memory.Pointer {
	args := v.mem.Args()
	if args.Kind != value.KindReference {
		return v.mem.Allocate(value.Null)
	}
	c := v.mem.GetCollection(args.CollectionId())
	if n < 0 || n >= len(c.List) {
		return v.mem.Allocate(value.Null)
	}
	return c.List[n]
}

// popReturn implements `return expr`: pop the result, close the frame, push
// the result back onto the caller's stack, and resume at the saved label.
func (v *VM) popReturn() error {
	result := v.mem.Pop()
	retLabel, err := v.mem.PopFrame()
	if err != nil {
		return err
	}
	v.mem.Push(result)
	v.pc = v.prog.Labels[retLabel]
	return nil
}

// plainReturn implements RETURN, emitted for a `return` with no expression
// and for the fallthrough CLEAR_REG/RETURN epilogue of closures.go's
// compileFuncBody: it closes the frame and pushes Null as the result.
func (v *VM) plainReturn() error {
	retLabel, err := v.mem.PopFrame()
	if err != nil {
		return err
	}
	v.mem.Push(v.mem.Allocate(value.Null))
	v.pc = v.prog.Labels[retLabel]
	return nil
}

// Call implements builtin.Caller, letting higher-order builtins (sorted's
// comparator, filter/map/reduce) invoke a user closure without this package
// importing builtin's call-site details in reverse.
func (v *VM) Call(closure value.Value, args []value.Value) (value.Value, error) {
	if closure.Kind != value.KindClosure {
		if closure.Kind == value.KindBoundProcedure {
			bp := closure.AsBoundProcedure()
			fn, ok := builtin.Lookup(bp.Name)
			if !ok {
				return value.Value{}, &errs.NoSuchMethod{Target: "builtin", Name: bp.Name}
			}
			return fn(v.builtinCtx, bp.Receiver, bp.Receiver.Kind != value.KindNull, args)
		}
		return value.Value{}, &errs.TypeMismatch{Expected: []string{"closure"}, Found: closure.Kind.String(), Context: "call"}
	}
	cl := closure.AsClosure()
	argPtrs := make([]memory.Pointer, len(args))
	for i, a := range args {
		argPtrs[i] = v.mem.Allocate(a)
	}
	argsID := v.mem.PutCollection(memory.NewListCollection(argPtrs))
	argsVal := value.Ref(argsID)
	captures := value.Ref(cl.Captures)

	// A fresh label per invocation, not a shared reserved one: a comparator
	// or predicate can itself trigger a nested Call before this one returns
	// (e.g. a higher-order builtin calling another), so the resume point
	// must not be clobbered by re-entrant use.
	returnHere := v.pc
	exitLabel := int32(len(v.prog.Labels))
	v.prog.Labels = append(v.prog.Labels, returnHere)

	v.mem.PushFrameFull(exitLabel, value.Null, argsVal, captures, 0)
	v.pc = v.prog.Labels[cl.Entry]
	if err := v.runUntilFrameCloses(); err != nil {
		return value.Value{}, err
	}
	resultPtr := v.mem.Pop()
	return v.mem.Deref(resultPtr), nil
}

// runUntilFrameCloses drives the dispatch loop for a nested Call invocation
// (a higher-order builtin calling back into a user closure) until the frame
// it just opened returns, so a builtin can get a value back without the
// host-level Run loop knowing anything changed.
func (v *VM) runUntilFrameCloses() error {
	target := v.mem.FrameDepth() - 1
	for v.mem.FrameDepth() > target {
		if int(v.pc) >= len(v.prog.Text) {
			return &errs.Resource{Message: "closure body ran past end of program"}
		}
		instr := v.prog.Text[v.pc]
		_, err := v.step(instr)
		if err != nil {
			return err
		}
	}
	return nil
}
