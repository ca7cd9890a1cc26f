package module

import (
	"context"
	"fmt"
	"time"

	"bachd/internal/app/errors"
	"bachd/internal/app/packet"
	"bachd/internal/app/runstatus"
)

// workerTick is how often the worker loop polls run-status while Idle.
const workerTick = 100 * time.Millisecond

// Handle is a spawned module's worker: the main fire loop and the alive
// emitter, each running on its own goroutine, both observing run-status
// cooperatively until it reaches a terminal state.
type Handle struct {
	Module Module

	workerDone chan struct{}
	aliveDone  chan struct{}
}

// Spawn starts a module's worker loop and alive emitter. aliveInterval is
// the emitter's sleep between heartbeats (ALIVE_PACKET_EMISSION_TIMEOUT).
func Spawn(m Module, aliveInterval time.Duration) *Handle {
	h := &Handle{
		Module:     m,
		workerDone: make(chan struct{}),
		aliveDone:  make(chan struct{}),
	}

	go h.runWorker()
	go h.runAliveEmitter(aliveInterval)

	return h
}

// runWorker is the per-pass IDLE/FIRE/RUNNING/TERM/EARLY_TERM branch the
// worker contract describes: idle sleeps a tick, fire atomically moves to
// running and invokes the fire function, term/early-term exit the loop.
func (h *Handle) runWorker() {
	defer close(h.workerDone)

	status := h.Module.RunStatus()

	for {
		switch status.Get() {
		case runstatus.Idle:
			time.Sleep(workerTick)
		case runstatus.Fire:
			if !status.BeginRun() {
				continue
			}

			if err := h.invokeFire(); err != nil {
				h.Module.MessageStack().Push(packet.NewNotifyErr(err.Error(), h.Module.Name(), "FIRE"))
				status.FinishErr()
			} else {
				h.Module.MessageStack().Push(packet.NewNotifyGood("Successful End", h.Module.Name(), "END"))
				status.FinishOK()
			}
		case runstatus.Term, runstatus.EarlyTerm:
			return
		default:
			time.Sleep(workerTick)
		}
	}
}

// invokeFire calls the module's fire function, converting a panic into an
// error so a single misbehaving module cannot take the worker goroutine
// down with it.
func (h *Handle) invokeFire() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fire function panicked: %v", r)
		}
	}()

	fn := h.Module.Fire()

	return fn(context.Background(), h.Module.MessageStack(), h.Module.RunStatus(), h.Module.ConfigPath(), h.Module.Name())
}

// runAliveEmitter sets the alive flag every interval until run-status
// becomes terminal. It also returns as soon as the worker loop exits, so a
// long interval does not delay Join.
func (h *Handle) runAliveEmitter(interval time.Duration) {
	defer close(h.aliveDone)

	status := h.Module.RunStatus()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !status.IsTerminal() {
		select {
		case <-ticker.C:
		case <-h.workerDone:
			return
		}

		if status.IsTerminal() {
			return
		}

		h.Module.AliveFlag().Set()
	}
}

// Join waits for both the worker loop and the alive emitter to exit, up to
// timeout. A non-nil error means the worker did not honour cancellation in
// time.
func (h *Handle) Join(timeout time.Duration) error {
	deadline := time.After(timeout)

	select {
	case <-h.workerDone:
	case <-deadline:
		return errors.ErrFailedToTerminateModule
	}

	select {
	case <-h.aliveDone:
	case <-deadline:
		return errors.ErrFailedToTerminateModule
	}

	return nil
}
