// Package daemon owns the bus and the manager, accepts control-channel
// commands, drives the perform-cycle, and orchestrates termination. It is
// the composition root's long-running loop — everything else in this
// codebase exists to be wired together here.
package daemon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"bachd/internal/app/bus"
	"bachd/internal/app/control"
	"bachd/internal/app/manager"
	"bachd/internal/app/packet"
	"bachd/internal/app/registry"
	"bachd/internal/config"
	"bachd/internal/config/logger"
)

// Daemon is the daemon's main loop: fire_cyclic, drain control commands,
// bus.Perform, sleep, repeat, until a Terminate command or context
// cancellation ends it.
type Daemon interface {
	// Bootstrap loads modules from cfg into the manager, wires the bus
	// connections and spawns every loaded module's worker. A failing module
	// never aborts the rest; the first load error (see manager.Load) and
	// every spawn error are returned.
	Bootstrap(cfg config.ModuleManagerConfig, reg registry.Registry) []error

	// Run drives the main loop until ctx is cancelled or a TERM command is
	// received on the control channel, then tears down every module.
	Run(ctx context.Context)
}

type daemon struct {
	bus        bus.Bus
	mgr        manager.Manager
	ctrl       control.Listener
	shutdowner fx.Shutdowner
	log        logger.Logger
}

// New creates a Daemon wired to b, mgr and ctrl. sd may be nil (as in tests
// that drive Run directly); when set, Run calls sd.Shutdown() after a TERM
// control command so the owning fx.App actually exits, not just this loop.
func New(b bus.Bus, mgr manager.Manager, ctrl control.Listener, sd fx.Shutdowner, log logger.Logger) Daemon {
	if log == nil {
		log = &logger.NoopLogger{}
	}

	return &daemon{bus: b, mgr: mgr, ctrl: ctrl, shutdowner: sd, log: log.WithComponent("DAEMON")}
}

// Bootstrap implements the daemon startup sequence of §4.E steps 2-3 that
// are module-manager specific: Load, Connect, SpawnAll.
func (d *daemon) Bootstrap(cfg config.ModuleManagerConfig, reg registry.Registry) []error {
	var errs []error

	if err := d.mgr.Load(cfg, reg); err != nil {
		errs = append(errs, err)
	}

	d.mgr.Connect(d.bus)

	errs = append(errs, d.mgr.SpawnAll()...)

	return errs
}

// Run is the main loop: fire_cyclic once per iteration, drain pending
// control connections, perform one bus cycle, sleep CycleInterval. It
// returns once ctx is cancelled or a TERM command arrives, after publishing
// Terminate and joining every module.
func (d *daemon) Run(ctx context.Context) {
	ticker := time.NewTicker(config.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case <-ticker.C:
		}

		d.mgr.FireCyclic(time.Now())

		if d.drainControl() {
			d.shutdown()
			d.notifyShutdown()
			return
		}

		d.bus.Perform()
	}
}

// notifyShutdown tells the owning fx.App to stop after Run exits because of
// a TERM control command — ctx cancellation already means fx is stopping on
// its own, but a TERM received on the control channel has no other way to
// unblock fxApp.Run(), so the daemon must ask for its own shutdown.
func (d *daemon) notifyShutdown() {
	if d.shutdowner == nil {
		return
	}

	if err := d.shutdowner.Shutdown(); err != nil {
		d.log.Error().Err(err).Msg("failed to request application shutdown")
	}
}

// drainControl translates every pending control-channel command into bus
// activity or a manager query, per §4.F. It returns true iff a TERM command
// was received, telling Run to shut down.
func (d *daemon) drainControl() bool {
	for _, cmd := range d.ctrl.DrainPending(config.MaxControlCommandsPerCycle) {
		switch cmd.Kind {
		case control.KindListRunning:
			d.printList(d.mgr.GetSpawnedList())
		case control.KindListLoaded:
			d.printList(d.mgr.GetModuleList())
		case control.KindStatus:
			fmt.Println(d.mgr.GetStatus(cmd.Name))
		case control.KindFire:
			name := cmd.Name
			d.bus.Send(packet.NewBackupCom(packet.EncodeBackupCommand(packet.BackupCommand{
				Kind: packet.BackupFire,
				Name: &name,
			})))
		case control.KindStop:
			d.bus.Send(packet.NewStop(cmd.Name))
		case control.KindTerminate:
			return true
		case control.KindUndef:
			d.log.Warn().Msg("ignoring undef control command")
		}
	}

	return false
}

func (d *daemon) printList(names []string) {
	for _, n := range names {
		fmt.Println(n)
	}
}

// shutdown publishes Terminate, performs one cycle to fan it out to every
// module connection, then joins every worker and logs the per-module
// outcome.
func (d *daemon) shutdown() {
	d.bus.Send(packet.NewTerminate())
	d.bus.Perform()

	for name, err := range d.mgr.JoinAll() {
		if err != nil {
			d.log.Error().Err(err).Str("module", name).Msg("module failed to join cleanly")
		} else {
			d.log.Info().Str("module", name).Msg("module joined")
		}
	}
}
