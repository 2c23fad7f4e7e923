/*
File    : yqlang/runtime/context.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package runtime

import (
	"sync"
	"time"
)

// HostEffects is the subset of Effects a host must implement directly:
// nickname lookups and the first-run check need the host's own state, and
// sleep blocks the calling goroutine. say/nudge/picsave/picsend are
// buffered by ExecutionContext itself and drained on the host's schedule
// instead (spec.md §5: "Output is buffered inside the execution context
// and drained periodically by the host").
type HostEffects interface {
	Nickname(userID int64) (string, error)
	FirstRun() bool
}

// OutputKind discriminates a buffered effect call.
type OutputKind int

const (
	OutputSay OutputKind = iota
	OutputNudge
	OutputPicsave
	OutputPicsend
)

// Output is one buffered effect call, recorded in the exact order the VM
// emitted it (spec.md §5's ordering guarantee within one program).
type Output struct {
	Kind   OutputKind
	Text   string
	UserID int64
	PicID  string
}

// ExecutionContext is the per-run home for one VM's effects: it implements
// runtime.Effects, buffering say/nudge/picsave/picsend for the host to
// Drain on its own quantum, delegating nickname/firstRun to the host, and
// tracking sleep time so the soft deadline can extend by the amount slept
// (spec.md §5: "a soft budget (e.g. 800 ms plus accumulated sleep time)").
type ExecutionContext struct {
	mu         sync.Mutex
	host       HostEffects
	out        []Output
	sleptTotal time.Duration
	softUntil  time.Time
}

// NewExecutionContext starts a context whose soft deadline is budget from
// now, against the given host for nickname/firstRun.
func NewExecutionContext(host HostEffects, budget time.Duration) *ExecutionContext {
	return &ExecutionContext{host: host, softUntil: time.Now().Add(budget)}
}

var _ Effects = (*ExecutionContext)(nil)

func (ec *ExecutionContext) Say(text string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.out = append(ec.out, Output{Kind: OutputSay, Text: text})
}

func (ec *ExecutionContext) Nudge(userID int64) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.out = append(ec.out, Output{Kind: OutputNudge, UserID: userID})
}

func (ec *ExecutionContext) Picsave(picID string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.out = append(ec.out, Output{Kind: OutputPicsave, PicID: picID})
}

func (ec *ExecutionContext) Picsend(picID string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.out = append(ec.out, Output{Kind: OutputPicsend, PicID: picID})
}

func (ec *ExecutionContext) Nickname(userID int64) (string, error) {
	return ec.host.Nickname(userID)
}

// Sleep blocks the calling goroutine for ms milliseconds and extends the
// soft deadline by the same amount, so a program that legitimately sleeps
// is not punished for the time it spent not computing.
func (ec *ExecutionContext) Sleep(ms int64) error {
	d := time.Duration(ms) * time.Millisecond
	time.Sleep(d)
	ec.mu.Lock()
	ec.sleptTotal += d
	ec.softUntil = ec.softUntil.Add(d)
	ec.mu.Unlock()
	return nil
}

func (ec *ExecutionContext) FirstRun() bool {
	return ec.host.FirstRun()
}

// Deadline returns the current soft wall-clock deadline, suitable for
// vm.VM.SetDeadline.
func (ec *ExecutionContext) Deadline() time.Time {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.softUntil
}

// Drain returns every effect buffered since the last Drain and clears the
// buffer, for the host to call on its own quantum (spec.md §5).
func (ec *ExecutionContext) Drain() []Output {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	out := ec.out
	ec.out = nil
	return out
}
