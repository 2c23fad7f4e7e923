/*
File    : yqlang/vm/vm.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package vm implements yqlang's stack-machine dispatch loop (spec.md
// §4.8): a straight-line fetch/decode/execute cycle over a bytecode.Program,
// indexed by a program counter, with jumps resolved through the label
// table. Four stacks coexist in one VM instance: the operand stack lives
// inside memory.Memory (it doubles as local-variable storage); the
// iterator stack, the access-view stack, and the one-slot register are
// owned here.
package vm

import (
	"time"

	"github.com/akashmaji946/yqlang/builtin"
	"github.com/akashmaji946/yqlang/bytecode"
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/runtime"
	"github.com/akashmaji946/yqlang/value"
)

// gcHeapThreshold is the heap-growth trigger for an automatic collection
// (spec.md §4.6: "GC may be triggered on heap growth thresholds").
const gcHeapThreshold = 4096

// VM executes one compiled bytecode.Program against one memory.Memory.
// Neither is shared with any other concurrently running VM (spec.md §5:
// "programs do not share mutable state").
type VM struct {
	mem  *memory.Memory
	prog bytecode.Program
	pc   int32

	reg memory.Pointer

	iterStack []iterFrame
	viewStack []accessView

	effects  runtime.Effects
	deadline time.Time
	cancel   <-chan struct{}

	lastGCHeapLen int
	builtinCtx    *builtin.Context
}

// New builds a VM ready to run prog against mem. effects may be nil for
// contexts that never execute an ACTION or System builtin (e.g. pure unit
// tests of arithmetic/control flow).
func New(prog bytecode.Program, mem *memory.Memory, effects runtime.Effects) *VM {
	v := &VM{mem: mem, prog: prog, reg: memory.NilPointer, effects: effects}
	v.builtinCtx = &builtin.Context{Mem: mem, Call: v, Effects: effects}
	return v
}

// SetDeadline installs a soft-budget wall-clock deadline; it is consulted
// at every jump and PREPARE_FRAME checkpoint (spec.md §5).
func (v *VM) SetDeadline(d time.Time) { v.deadline = d }

// SetCancel installs a cancellation channel consulted at the same
// checkpoints as the deadline, so a host can cooperatively abort a run.
func (v *VM) SetCancel(c <-chan struct{}) { v.cancel = c }

func (v *VM) checkInterrupt() error {
	if !v.deadline.IsZero() && !time.Now().Before(v.deadline) {
		return &errs.Interrupted{Reason: "deadline exceeded"}
	}
	if v.cancel != nil {
		select {
		case <-v.cancel:
			return &errs.Interrupted{Reason: "cancelled"}
		default:
		}
	}
	return nil
}

// Run drives the dispatch loop to completion: either the program reaches
// EXIT, or an instruction raises a runtime error, which unwinds the whole
// run immediately (spec.md §7: "the whole program dies").
func (v *VM) Run() error {
	for {
		if int(v.pc) >= len(v.prog.Text) {
			return nil
		}
		instr := v.prog.Text[v.pc]
		done, err := v.step(instr)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// step executes one instruction and advances the program counter, except
// for the jump family and CALL/RETURN, which set it themselves. done is
// true only for EXIT.
func (v *VM) step(instr bytecode.ByteCode) (done bool, err error) {
	switch instr.Op {
	case bytecode.NOP:
	case bytecode.POP:
		v.mem.Pop()

	case bytecode.LOAD_LOCAL_PUSH:
		v.mem.Push(v.mem.Copy(v.mem.GetLocal(int(instr.Operand))))
	case bytecode.LOAD_LOCAL_PUSH_REF:
		v.mem.Push(v.mem.GetLocal(int(instr.Operand)))
	case bytecode.LOAD_PUSH:
		v.mem.Push(v.mem.Copy(memory.Pointer(instr.Operand)))
	case bytecode.LOAD_PUSH_REF:
		v.mem.Push(memory.Pointer(instr.Operand))

	case bytecode.POP_SAVE_LOCAL:
		v.popSaveLocal(int(instr.Operand))
	case bytecode.POP_SAVE:
		val := v.mem.Deref(v.mem.Pop())
		v.mem.Store(memory.Pointer(instr.Operand), val)

	case bytecode.POP_ASSERT_EQ:
		got := v.mem.Deref(v.mem.Pop())
		want := v.mem.Deref(memory.Pointer(instr.Operand))
		if !v.valuesEqual(got, want) {
			return false, &errs.PatternMatchingConstantUnmatched{Expected: want.ToString(), Found: got.ToString()}
		}
	case bytecode.POP_ASSERT_EQ_IMM:
		got := v.mem.Deref(v.mem.Pop())
		want := immValue(bytecode.ImmCode(instr.Operand))
		if !v.valuesEqual(got, want) {
			return false, &errs.PatternMatchingConstantUnmatched{Expected: want.ToString(), Found: got.ToString()}
		}

	case bytecode.CONS_PUSH:
		v.consPush(int(instr.Operand))
	case bytecode.EXTRACT_LIST:
		if err := v.extractList(int(instr.Operand)); err != nil {
			return false, err
		}
	case bytecode.SUBSCRIPT_PUSH:
		if err := v.subscriptPush(bytecode.SubscriptKind(instr.Operand)); err != nil {
			return false, err
		}
	case bytecode.CONS_OBJ_PUSH:
		v.consObjPush(int(instr.Operand))

	case bytecode.PUSH_IMM:
		v.mem.Push(v.mem.Allocate(immValue(bytecode.ImmCode(instr.Operand))))

	case bytecode.ACTION:
		if err := v.runAction(bytecode.ActionKind(instr.Operand)); err != nil {
			return false, err
		}

	case bytecode.JUMP:
		if err := v.checkInterrupt(); err != nil {
			return false, err
		}
		v.pc = v.prog.Labels[instr.Operand]
		return false, nil
	case bytecode.JUMP_ZERO:
		if err := v.checkInterrupt(); err != nil {
			return false, err
		}
		top := v.mem.Deref(v.mem.Pop())
		if !top.Truthy() {
			v.pc = v.prog.Labels[instr.Operand]
			return false, nil
		}
	case bytecode.JUMP_NOT_ZERO:
		if err := v.checkInterrupt(); err != nil {
			return false, err
		}
		top := v.mem.Deref(v.mem.Pop())
		if top.Truthy() {
			v.pc = v.prog.Labels[instr.Operand]
			return false, nil
		}
	case bytecode.JUMP_IF_ITER_DONE:
		if err := v.checkInterrupt(); err != nil {
			return false, err
		}
		done, err := v.iterDone()
		if err != nil {
			return false, err
		}
		if done {
			v.pc = v.prog.Labels[instr.Operand]
			return false, nil
		}
	case bytecode.JUMP_NOT_FIRST_RUN:
		first := v.effects == nil || v.effects.FirstRun()
		if !first {
			v.pc = v.prog.Labels[instr.Operand]
			return false, nil
		}

	case bytecode.CREATE_CLOSURE:
		capturesPtr := v.mem.Pop()
		capturesVal := v.mem.Deref(capturesPtr)
		closure := value.ClosureValue(capturesVal.CollectionId(), instr.Operand)
		v.mem.Push(v.mem.Allocate(closure))

	case bytecode.PREPARE_FRAME:
		if err := v.checkInterrupt(); err != nil {
			return false, err
		}
		v.prepareFrame(int(instr.Operand))

	case bytecode.GET_NTH_ARG:
		v.mem.Push(v.mem.Copy(v.nthArg(int(instr.Operand))))
	case bytecode.GET_NTH_ARG_REF:
		v.mem.Push(v.nthArg(int(instr.Operand)))

	case bytecode.POP_RETURN:
		if err := v.popReturn(); err != nil {
			return false, err
		}
		return false, nil
	case bytecode.RETURN:
		if err := v.plainReturn(); err != nil {
			return false, err
		}
		return false, nil

	case bytecode.CALL:
		if err := v.call(instr.Operand); err != nil {
			return false, err
		}
		return false, nil

	case bytecode.POP_SAVE_TO_REG:
		v.reg = v.mem.Pop()
	case bytecode.CLEAR_REG:
		v.reg = memory.NilPointer

	case bytecode.PUSH_ITERATOR:
		if err := v.pushIterator(); err != nil {
			return false, err
		}
	case bytecode.POP_ITERATOR:
		if err := v.popIterator(); err != nil {
			return false, err
		}
	case bytecode.ITER_NEXT_PUSH:
		if err := v.iterNextPush(); err != nil {
			return false, err
		}

	case bytecode.PUSH_ACCESS_VIEW:
		v.pushAccessView()
	case bytecode.EXTEND_ACCESS_VIEW:
		if err := v.extendAccessView(bytecode.SubscriptKind(instr.Operand)); err != nil {
			return false, err
		}
	case bytecode.ACCESS_GET:
		if err := v.accessGet(true); err != nil {
			return false, err
		}
	case bytecode.ACCESS_GET_REF:
		if err := v.accessGet(false); err != nil {
			return false, err
		}
	case bytecode.ACCESS_SET:
		if err := v.accessSet(); err != nil {
			return false, err
		}

	case bytecode.BINARY_OP:
		if err := v.binaryOp(bytecode.BinaryOp(instr.Operand)); err != nil {
			return false, err
		}
	case bytecode.UNARY_OP:
		if err := v.unaryOp(bytecode.UnaryOp(instr.Operand)); err != nil {
			return false, err
		}
	case bytecode.TO_BOOL:
		top := v.mem.Pop()
		v.mem.Push(v.mem.Allocate(value.Bool(v.mem.Deref(top).Truthy())))
	case bytecode.OP_ASSIGN:
		if err := v.opAssign(bytecode.AssignOp(instr.Operand)); err != nil {
			return false, err
		}

	case bytecode.EXIT:
		return true, nil

	default:
		return false, &errs.Builtin{Name: "vm", Message: "unimplemented opcode " + instr.Op.String()}
	}

	v.pc++
	v.maybeGC()
	return false, nil
}

func immValue(code bytecode.ImmCode) value.Value {
	switch code {
	case bytecode.ImmFalse:
		return value.Bool(false)
	case bytecode.ImmTrue:
		return value.Bool(true)
	default:
		return value.Null
	}
}

// popSaveLocal implements the "variables are boxes" invariant: a slot's
// first write declares a fresh cell (so `y = x; y = 9` can never retroactively
// mutate x's cell), every later write mutates the existing cell in place (so
// a closure's captured slot, seeded directly by prepareFrame, keeps aliasing
// the outer scope's box).
func (v *VM) popSaveLocal(offset int) {
	p := v.mem.Pop()
	cur := v.mem.GetLocal(offset)
	if cur == memory.NilPointer {
		v.mem.SetLocal(offset, v.mem.Allocate(v.mem.Deref(p)))
		return
	}
	v.mem.Store(cur, v.mem.Deref(p))
}

// maybeGC triggers a collection once the heap has grown enough since the
// last pass to be worth the stop-the-world cost (spec.md §4.6).
func (v *VM) maybeGC() {
	if len(v.mem.Heap)-v.lastGCHeapLen < gcHeapThreshold {
		return
	}
	extra := v.gcRoots()
	remapped := v.mem.GC(extra)
	v.installRoots(remapped)
	v.lastGCHeapLen = len(v.mem.Heap)
}

// gcRoots collects every Pointer this package owns that Memory cannot see
// on its own: the iterator stack, the access-view stack, and the register
// (spec.md §4.6's extraRoots contract).
func (v *VM) gcRoots() []memory.Pointer {
	var roots []memory.Pointer
	for _, f := range v.iterStack {
		roots = append(roots, f.subject)
	}
	for _, av := range v.viewStack {
		roots = append(roots, av.root)
		for _, s := range av.steps {
			if s.kind == stepIndex {
				roots = append(roots, s.descriptor)
			} else {
				roots = append(roots, s.begin, s.end)
			}
		}
	}
	roots = append(roots, v.reg)
	return roots
}

func (v *VM) installRoots(remapped []memory.Pointer) {
	i := 0
	for fi := range v.iterStack {
		v.iterStack[fi].subject = remapped[i]
		i++
	}
	for ai := range v.viewStack {
		v.viewStack[ai].root = remapped[i]
		i++
		for si := range v.viewStack[ai].steps {
			if v.viewStack[ai].steps[si].kind == stepIndex {
				v.viewStack[ai].steps[si].descriptor = remapped[i]
				i++
			} else {
				v.viewStack[ai].steps[si].begin = remapped[i]
				i++
				v.viewStack[ai].steps[si].end = remapped[i]
				i++
			}
		}
	}
	v.reg = remapped[i]
}
