// Package app is the daemon's composition root module: it aggregates every
// subsystem's fx.Module so cmd/bachd/main.go only has to depend on this one
// package, the same shape as the teacher's own internal/app aggregator.
package app

import (
	"go.uber.org/fx"

	"bachd/internal/app/bus"
	"bachd/internal/app/control"
	"bachd/internal/app/daemon"
	"bachd/internal/app/manager"
	"bachd/internal/app/modules/dummy"
	"bachd/internal/app/modules/stdlogger"
	"bachd/internal/app/monitor"
	"bachd/internal/app/registry"
	"bachd/internal/app/vitals"
)

// Module provides every fx dependency the daemon needs, wired in the order
// each subsystem depends on the last: registry and the static modules it
// carries, bus, manager, control channel, vitals, then the daemon loop that
// ties them all together.
var Module = fx.Options(
	registry.Module,
	dummy.Module,
	stdlogger.Module,
	bus.Module,
	manager.Module,
	control.Module,
	monitor.Module,
	vitals.Module,
	daemon.Module,
)
