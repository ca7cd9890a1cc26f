// Package control implements the control channel: the length-free,
// fixed-1024-byte wire format an external client uses to list, inspect,
// fire, stop, or terminate modules over a plain TCP connection.
package control

import "bachd/internal/app/packet"

// Kind enumerates the control-channel commands a client may send.
type Kind int

const (
	KindListRunning Kind = iota
	KindListLoaded
	KindStatus
	KindFire
	KindStop
	KindTerminate
	KindUndef
)

// Command is the decoded view of one accepted connection's single frame.
type Command struct {
	Kind Kind
	Name string
}

// DecodeCommand reads a control frame: a 4-byte ASCII header at offset 0,
// and (for every header except TERM) a zero-padded name at offset 4. An
// unrecognized header, or a LIST whose name is neither "running" nor
// "loaded", decodes to KindUndef rather than failing.
func DecodeCommand(core packet.Core) Command {
	name := ""
	if n := packet.ReadName(core); n != nil {
		name = *n
	}

	switch packet.ReadHeader(core) {
	case "LIST":
		switch name {
		case "running":
			return Command{Kind: KindListRunning}
		case "loaded":
			return Command{Kind: KindListLoaded}
		default:
			return Command{Kind: KindUndef}
		}
	case "STAT":
		return Command{Kind: KindStatus, Name: name}
	case "FIRE":
		return Command{Kind: KindFire, Name: name}
	case "STOP":
		return Command{Kind: KindStop, Name: name}
	case "TERM":
		return Command{Kind: KindTerminate}
	default:
		return Command{Kind: KindUndef}
	}
}

// EncodeCommand renders c into a control frame, the inverse of
// DecodeCommand. Used by the bachctl client to build the frame it sends.
func EncodeCommand(c Command) packet.Core {
	var core packet.Core

	switch c.Kind {
	case KindListRunning:
		writeFrame(&core, "LIST", "running")
	case KindListLoaded:
		writeFrame(&core, "LIST", "loaded")
	case KindStatus:
		writeFrame(&core, "STAT", c.Name)
	case KindFire:
		writeFrame(&core, "FIRE", c.Name)
	case KindStop:
		writeFrame(&core, "STOP", c.Name)
	case KindTerminate:
		writeFrame(&core, "TERM", "")
	}

	return core
}

func writeFrame(core *packet.Core, header, name string) {
	copy(core[0:4], header)
	copy(core[4:104], name)
}
