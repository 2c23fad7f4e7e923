/*
File    : yqlang/runtime/instance.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package runtime

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/akashmaji946/yqlang/errs"
)

// programGroup tracks the running instances of one program: a semaphore
// enforcing the concurrent-instance cap, an errgroup joining their
// completion, and the cancel funcs needed to abort them all at once.
type programGroup struct {
	mu      sync.Mutex
	sem     *semaphore.Weighted
	eg      *errgroup.Group
	cancels []context.CancelFunc
}

// InstanceManager enforces spec.md §5's "concurrent instances per program
// are capped" rule and gives the host a way to cancel every running
// instance of a program and wait for them to unwind before an `update`.
type InstanceManager struct {
	mu    sync.Mutex
	cap   int64
	progs map[string]*programGroup
}

// NewInstanceManager builds a manager enforcing cap concurrent instances
// per program id.
func NewInstanceManager(cap int) *InstanceManager {
	return &InstanceManager{cap: int64(cap), progs: map[string]*programGroup{}}
}

func (im *InstanceManager) group(programID string) *programGroup {
	im.mu.Lock()
	defer im.mu.Unlock()
	pg, ok := im.progs[programID]
	if !ok {
		pg = &programGroup{sem: semaphore.NewWeighted(im.cap), eg: &errgroup.Group{}}
		im.progs[programID] = pg
	}
	return pg
}

// Start launches fn as one instance of programID. fn receives a context
// cancelled by a later Cancel(programID) call. It returns *errs.Resource
// immediately, without running fn, if programID is already at its
// concurrent-instance cap.
func (im *InstanceManager) Start(ctx context.Context, programID string, fn func(context.Context) error) error {
	pg := im.group(programID)
	if !pg.sem.TryAcquire(1) {
		return &errs.Resource{Message: "instance cap reached for program " + programID}
	}
	runCtx, cancel := context.WithCancel(ctx)
	pg.mu.Lock()
	pg.cancels = append(pg.cancels, cancel)
	pg.mu.Unlock()

	pg.eg.Go(func() error {
		defer pg.sem.Release(1)
		defer cancel()
		return fn(runCtx)
	})
	return nil
}

// Cancel aborts every currently running instance of programID without
// waiting for them to unwind; pair with Join to block until they have
// (spec.md §5: "must cancel all instances and wait for their join first").
func (im *InstanceManager) Cancel(programID string) {
	im.mu.Lock()
	pg, ok := im.progs[programID]
	im.mu.Unlock()
	if !ok {
		return
	}
	pg.mu.Lock()
	cancels := pg.cancels
	pg.cancels = nil
	pg.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

// Join blocks until every currently running instance of programID has
// returned, surfacing the first non-nil error among them if any.
func (im *InstanceManager) Join(programID string) error {
	im.mu.Lock()
	pg, ok := im.progs[programID]
	im.mu.Unlock()
	if !ok {
		return nil
	}
	return pg.eg.Wait()
}
