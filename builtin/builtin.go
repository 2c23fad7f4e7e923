/*
File    : yqlang/builtin/builtin.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package builtin implements yqlang's standard library (spec.md §4.9):
// conversions, math, sequence methods, range builders, regex, and system
// calls, registered by name and invoked through the VM's ordinary call
// protocol via a distinguished BoundProcedure value (see vm.Call). A builtin
// that needs to invoke a user closure back (sorted's optional comparator,
// filter/map/reduce) does so through the Caller interface rather than
// importing package vm, keeping the dependency one-directional.
package builtin

import (
	"github.com/akashmaji946/yqlang/errs"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/runtime"
	"github.com/akashmaji946/yqlang/value"
)

// Caller lets a builtin invoke a closure value with a fresh argument list,
// without package builtin ever importing package vm.
type Caller interface {
	Call(closure value.Value, args []value.Value) (value.Value, error)
}

// Context carries everything a builtin needs beyond its own arguments: the
// Memory to allocate/dereference collections in, a Caller for higher-order
// builtins, and the running program's Effects for getNickname/sleep.
type Context struct {
	Mem     *memory.Memory
	Call    Caller
	Effects runtime.Effects
}

// Func is one built-in's implementation. hasReceiver is true for a method
// call (`recv.name(args)`); receiver is then the method's target, otherwise
// value.Null. Args have already been dereferenced (copied) off the caller's
// argument list.
type Func func(ctx *Context, receiver value.Value, hasReceiver bool, args []value.Value) (value.Value, error)

var registry = map[string]Func{}

func register(name string, fn Func) { registry[name] = fn }

// Lookup returns the builtin registered under name, if any; ok reports
// whether name is registered at all. Whether name is also usable as a
// *method* name (callable as `x.name()`) is answered by IsMethodName.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// IsMethodName reports whether name is one of the method-style builtins
// ACCESS_GET should resolve against a receiver lacking that dict key (spec.md
// §4.8: "the view resolves to a method of that type").
func IsMethodName(name string) bool {
	_, ok := methodNames[name]
	return ok
}

var methodNames = map[string]bool{
	"length": true, "contains": true, "find": true, "findAll": true, "split": true,
	"join": true, "random": true, "enumerated": true, "sum": true, "filter": true,
	"reduce": true, "map": true, "max": true, "min": true, "reversed": true, "sorted": true,
	"match": true, "matchAll": true, "matchEntire": true, "replace": true,
}

func typeErr(ctx string, found value.Kind, expected ...string) error {
	return &errs.TypeMismatch{Expected: expected, Found: found.String(), Context: ctx}
}
