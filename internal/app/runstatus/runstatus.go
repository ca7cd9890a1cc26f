// Package runstatus models a module worker's run-status as a named state
// machine (IDLE/FIRE/RUNNING/TERM/EARLY_TERM) instead of a bare integer,
// following the same looplab/fsm pattern used elsewhere in this codebase for
// small lifecycle state machines.
package runstatus

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
)

// States a module's run-status can occupy.
const (
	Idle      = "idle"
	Fire      = "fire"
	Running   = "running"
	Term      = "term"
	EarlyTerm = "early_term"
)

const (
	evFire      = "fire"
	evRun       = "run"
	evFinishOK  = "finish_ok"
	evFinishErr = "finish_err"
	evTerm      = "term"
)

// RunStatus is the mutex-guarded state machine backing one module's
// run-status cell. The spec calls for a plain atomic cell; fsm.FSM already
// serializes its own transitions internally, but it is not safe for
// concurrent Current()/Event() calls from multiple goroutines, so a mutex
// around it satisfies the "atomic cell" requirement without adding a second
// bespoke synchronization primitive.
type RunStatus struct {
	mu  sync.Mutex
	fsm *fsm.FSM
}

// New creates a RunStatus starting in Idle.
func New() *RunStatus {
	return &RunStatus{
		fsm: fsm.NewFSM(
			Idle,
			fsm.Events{
				{Name: evFire, Src: []string{Idle}, Dst: Fire},
				{Name: evRun, Src: []string{Fire}, Dst: Running},
				{Name: evFinishOK, Src: []string{Running}, Dst: Idle},
				{Name: evFinishErr, Src: []string{Running}, Dst: EarlyTerm},
				{Name: evTerm, Src: []string{Idle, Fire, Running}, Dst: Term},
			},
			fsm.Callbacks{},
		),
	}
}

// Get returns the current state.
func (r *RunStatus) Get() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Current()
}

// RequestFire transitions Idle -> Fire. It is a no-op (returns false) if the
// module is not Idle — this is how "drop a Fire command while RUNNING" is
// implemented: the caller checks the return value and emits NotifyWarn.
func (r *RunStatus) RequestFire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Event(context.Background(), evFire) == nil
}

// BeginRun transitions Fire -> Running. Called by the worker immediately
// before invoking the fire function.
func (r *RunStatus) BeginRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Event(context.Background(), evRun) == nil
}

// FinishOK transitions Running -> Idle.
func (r *RunStatus) FinishOK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Event(context.Background(), evFinishOK) == nil
}

// FinishErr transitions Running -> EarlyTerm.
func (r *RunStatus) FinishErr() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Event(context.Background(), evFinishErr) == nil
}

// RequestTerm transitions Idle/Fire/Running -> Term. It is idempotent: once
// Term or EarlyTerm, further calls are no-ops.
func (r *RunStatus) RequestTerm() {
	r.mu.Lock()
	defer r.mu.Unlock()

	_ = r.fsm.Event(context.Background(), evTerm)
}

// IsTerminal reports whether the worker loop should exit: Term or EarlyTerm.
func (r *RunStatus) IsTerminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.fsm.Current()

	return s == Term || s == EarlyTerm
}
