// Package module implements the worker contract every backup/report/notify
// module obeys: a stable name, lifecycle hooks, a run-status cell, an alive
// flag, a message-stack, and the fire function that does the actual work.
package module

import (
	"context"

	"bachd/internal/app/packet"
	"bachd/internal/app/runstatus"
)

// FireFunc is the module's actual work. It receives the shared message-stack
// so it can push progress/result notifications, the run-status cell so it
// can poll for cancellation, the module's config path, and its name (for
// tagging emitted notifications). It must poll run-status periodically and
// return promptly once run-status leaves Running.
type FireFunc func(ctx context.Context, stack *MessageStack, status *runstatus.RunStatus, configPath, name string) error

// Module is the capability interface the manager and the bus's default
// routing drive. Concrete modules typically embed Base (which supplies Name)
// and implement only Init, Destroy, Fire and Inlet.
type Module interface {
	Name() string
	ConfigPath() string
	Init() error
	Destroy() error
	Fire() FireFunc

	// Inlet is the module-defined tail of the default input routing: called
	// for any packet the shared BackupCom(FIRE)/Stop/Terminate handling did
	// not already consume.
	Inlet(p packet.Packet)

	RunStatus() *runstatus.RunStatus
	AliveFlag() *AliveFlag
	MessageStack() *MessageStack
}

// Base provides the shared state every module needs (run-status, alive
// flag, message-stack, config path) so concrete modules need only embed it
// and implement the behavioral methods.
type Base struct {
	NameValue  string
	ConfigFile string

	status *runstatus.RunStatus
	alive  *AliveFlag
	stack  *MessageStack
}

// NewBase creates a Base with freshly initialized shared state.
func NewBase(name, configFile string) Base {
	return Base{
		NameValue:  name,
		ConfigFile: configFile,
		status:     runstatus.New(),
		alive:      &AliveFlag{},
		stack:      NewMessageStack(),
	}
}

func (b *Base) Name() string               { return b.NameValue }
func (b *Base) ConfigPath() string          { return b.ConfigFile }
func (b *Base) RunStatus() *runstatus.RunStatus { return b.status }
func (b *Base) AliveFlag() *AliveFlag       { return b.alive }
func (b *Base) MessageStack() *MessageStack { return b.stack }

// DefaultInlet wraps m's module-defined Inlet with the shared input routing
// every module obeys: a matching BackupCom(FIRE) requests the Fire
// transition, a matching Stop or any Terminate requests Term. Anything else
// falls through to m.Inlet.
func DefaultInlet(m Module) func(packet.Packet) {
	return func(p packet.Packet) {
		switch p.Tag {
		case packet.TagBackupCom:
			cmd := packet.DecodeBackupCommand(p.Core)
			if cmd.Kind == packet.BackupFire && cmd.Name != nil && *cmd.Name == m.Name() {
				if !m.RunStatus().RequestFire() {
					m.MessageStack().Push(packet.NewNotifyWarn("fire dropped: module busy", m.Name(), "FIRE"))
				}

				return
			}
		case packet.TagStop:
			if name, ok := packet.ParseStop(p); ok && name == m.Name() {
				m.RunStatus().RequestTerm()
				return
			}
		case packet.TagTerminate:
			m.RunStatus().RequestTerm()
			return
		}

		m.Inlet(p)
	}
}

// DefaultFilter accepts every packet: tag-based filtering happens inside
// DefaultInlet (for the shared Fire/Stop/Terminate routing) and inside the
// module's own Inlet (for anything module-specific).
func DefaultFilter(packet.Packet) bool { return true }

// DefaultOutlet returns the module's next outbound packet: an Alive packet
// takes priority over the message-stack, so a heartbeat can overtake queued
// application packets, matching the bus's ordering note that alive emission
// need not preserve queue order.
func DefaultOutlet(m Module) func() (packet.Packet, bool) {
	return func() (packet.Packet, bool) {
		if m.AliveFlag().TestAndClear() {
			return packet.NewAlive(m.Name()), true
		}

		return m.MessageStack().Pop()
	}
}
