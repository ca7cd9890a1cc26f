// Package packet implements the fixed-size wire format shared by the bus,
// the module worker contract and the control channel: every Packet carries a
// 1024-byte core with a 4-letter ASCII command header and zero-padded typed
// fields.
package packet

import "bachd/internal/app/errors"

// CoreSize is the fixed payload width of every PacketCore.
const CoreSize = 1024

// NameSize is the width of the name field carried by command-bearing cores.
const NameSize = 100

const (
	nameOffset     = 4
	resourceOffset = nameOffset + NameSize // 104
	resourceWidth  = CoreSize - resourceOffset
	credHalfWidth  = resourceWidth / 2 // 460
	credSecondOff  = resourceOffset + credHalfWidth
	notifySlot     = CoreSize / 3 // 341
	aliveHeaderLen = 5
)

// Core is the fixed 1024-byte payload every non-unit Packet variant carries.
type Core [CoreSize]byte

// Tag identifies which packet variant a Packet holds.
type Tag int

const (
	TagNotifyGood Tag = iota
	TagNotifyWarn
	TagNotifyErr
	TagNotifyCom
	TagWatchReportGood
	TagWatchReportWarn
	TagWatchReportFail
	TagWatchHold
	TagWatchCom
	TagBackupCom
	TagLoggerCom
	TagStop
	TagAlive
	TagTerminate
)

// String returns the human-readable name of the tag, used in logs.
func (t Tag) String() string {
	switch t {
	case TagNotifyGood:
		return "NotifyGood"
	case TagNotifyWarn:
		return "NotifyWarn"
	case TagNotifyErr:
		return "NotifyErr"
	case TagNotifyCom:
		return "NotifyCom"
	case TagWatchReportGood:
		return "WatchReportGood"
	case TagWatchReportWarn:
		return "WatchReportWarn"
	case TagWatchReportFail:
		return "WatchReportFail"
	case TagWatchHold:
		return "WatchHold"
	case TagWatchCom:
		return "WatchCom"
	case TagBackupCom:
		return "BackupCom"
	case TagLoggerCom:
		return "LoggerCom"
	case TagStop:
		return "Stop"
	case TagAlive:
		return "Alive"
	case TagTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

// Packet is a tagged variant: Terminate and WatchHold carry no payload, every
// other tag carries a 1024-byte Core.
type Packet struct {
	Tag  Tag
	Core Core
}

// coreToString reads bytes from b until the first zero byte (the sentinel
// terminator) or the end of the slice, whichever comes first.
func coreToString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// writeField copies s into dst, truncating s to len(dst) if it overflows.
func writeField(dst []byte, s string) {
	n := copy(dst, s)
	_ = n
}

func writeHeader(core *Core, header string) {
	copy(core[0:4], header)
}

func readHeader(core Core) string {
	return string(core[0:4])
}

func writeName(core *Core, name *string) {
	if name == nil {
		return
	}
	writeField(core[nameOffset:resourceOffset], *name)
}

func readName(core Core) *string {
	n := coreToString(core[nameOffset:resourceOffset])
	if n == "" {
		return nil
	}
	return &n
}

// ReadHeader returns the 4-byte ASCII command header of core. Exposed for
// callers, such as the control channel, that decode a family of commands
// packet.go does not itself define.
func ReadHeader(core Core) string {
	return readHeader(core)
}

// ReadName returns the name field (offset 4, width NameSize) of core, or nil
// if it is empty. Exposed for the same reason as ReadHeader.
func ReadName(core Core) *string {
	return readName(core)
}

// --- constructors -----------------------------------------------------

// NewNotifyGood splits message/provider/stage into three equal 341-byte
// slots of the core, independently truncated.
func NewNotifyGood(message, provider, stage string) Packet {
	return Packet{Tag: TagNotifyGood, Core: newNotifyCore(message, provider, stage)}
}

// NewNotifyWarn is the NotifyWarn counterpart of NewNotifyGood.
func NewNotifyWarn(message, provider, stage string) Packet {
	return Packet{Tag: TagNotifyWarn, Core: newNotifyCore(message, provider, stage)}
}

// NewNotifyErr is the NotifyErr counterpart of NewNotifyGood.
func NewNotifyErr(message, provider, stage string) Packet {
	return Packet{Tag: TagNotifyErr, Core: newNotifyCore(message, provider, stage)}
}

func newNotifyCore(message, provider, stage string) Core {
	var core Core
	writeField(core[0*notifySlot:1*notifySlot], message)
	writeField(core[1*notifySlot:2*notifySlot], provider)
	writeField(core[2*notifySlot:3*notifySlot], stage)
	return core
}

// NewNotifyCom wraps raw command bytes as a NotifyCom packet.
func NewNotifyCom(core Core) Packet { return Packet{Tag: TagNotifyCom, Core: core} }

// NewWatchReportGood builds a zero-payload WatchReportGood packet.
func NewWatchReportGood() Packet { return Packet{Tag: TagWatchReportGood} }

// NewWatchReportWarn wraps raw bytes as a WatchReportWarn packet.
func NewWatchReportWarn(core Core) Packet { return Packet{Tag: TagWatchReportWarn, Core: core} }

// NewWatchReportFail wraps raw bytes as a WatchReportFail packet.
func NewWatchReportFail(core Core) Packet { return Packet{Tag: TagWatchReportFail, Core: core} }

// NewWatchHold builds the unit WatchHold packet.
func NewWatchHold() Packet { return Packet{Tag: TagWatchHold} }

// NewWatchCom wraps an encoded WatchCommand as a WatchCom packet.
func NewWatchCom(core Core) Packet { return Packet{Tag: TagWatchCom, Core: core} }

// NewBackupCom wraps an encoded BackupCommand as a BackupCom packet.
func NewBackupCom(core Core) Packet { return Packet{Tag: TagBackupCom, Core: core} }

// NewLoggerCom wraps an encoded LoggerCommand as a LoggerCom packet.
func NewLoggerCom(core Core) Packet { return Packet{Tag: TagLoggerCom, Core: core} }

// NewStop builds a Stop packet targeting the module named name.
func NewStop(name string) Packet {
	var core Core
	writeHeader(&core, "STOP")
	writeName(&core, &name)
	return Packet{Tag: TagStop, Core: core}
}

// ParseStop returns the target module name carried by a Stop packet. ok is
// false if p is not tagged Stop or carries no name.
func ParseStop(p Packet) (name string, ok bool) {
	if p.Tag != TagStop {
		return "", false
	}

	n := readName(p.Core)
	if n == nil {
		return "", false
	}

	return *n, true
}

// NewTerminate builds the unit Terminate packet.
func NewTerminate() Packet { return Packet{Tag: TagTerminate} }

// NewAlive builds an Alive packet: the 5-byte "ALIVE" header followed by
// name, truncated to CoreSize-5 bytes.
func NewAlive(name string) Packet {
	var core Core
	copy(core[0:aliveHeaderLen], "ALIVE")
	writeField(core[aliveHeaderLen:], name)
	return Packet{Tag: TagAlive, Core: core}
}

// ParseAlive returns the name carried by an Alive packet, or an error if p
// is not tagged Alive.
func ParseAlive(p Packet) (string, error) {
	if p.Tag != TagAlive {
		return "", errors.ErrNotAlivePacket
	}
	return coreToString(p.Core[aliveHeaderLen:]), nil
}

// --- Notification (decoded view of Notify* packets) --------------------

// Notification is the decoded three-part payload of a NotifyGood/Warn/Err
// packet. Good is false, and all fields empty, for any other tag.
type Notification struct {
	Message  string
	Provider string
	Stage    string
	Good     bool
}

// DecodeNotification extracts the Notification carried by a NotifyGood,
// NotifyWarn or NotifyErr packet.
func DecodeNotification(p Packet) Notification {
	switch p.Tag {
	case TagNotifyGood, TagNotifyWarn, TagNotifyErr:
		return Notification{
			Message:  coreToString(p.Core[0*notifySlot : 1*notifySlot]),
			Provider: coreToString(p.Core[1*notifySlot : 2*notifySlot]),
			Stage:    coreToString(p.Core[2*notifySlot : 3*notifySlot]),
			Good:     true,
		}
	default:
		return Notification{}
	}
}

// --- NotifyCommand family ----------------------------------------------

// NotifyKind enumerates the NotifyCom command variants.
type NotifyKind int

const (
	NotifyShutUp NotifyKind = iota
	NotifyError
	NotifyWarning
	NotifyDebug
	NotifyUndef
)

// NotifyCommand is the decoded view of a NotifyCom packet's core.
type NotifyCommand struct {
	Kind NotifyKind
	Name *string
}

// EncodeNotifyCommand renders a NotifyCommand into a Core.
func EncodeNotifyCommand(c NotifyCommand) Core {
	var core Core
	switch c.Kind {
	case NotifyShutUp:
		writeHeader(&core, "SHUT")
	case NotifyError:
		writeHeader(&core, "ERRO")
	case NotifyWarning:
		writeHeader(&core, "WARN")
	case NotifyDebug:
		writeHeader(&core, "DEBU")
	default:
		writeHeader(&core, "WARN")
	}
	writeName(&core, c.Name)
	return core
}

// DecodeNotifyCommand parses a Core as a NotifyCommand. An unrecognized
// header decodes to NotifyUndef, never an error.
func DecodeNotifyCommand(core Core) NotifyCommand {
	name := readName(core)
	switch readHeader(core) {
	case "SHUT":
		return NotifyCommand{Kind: NotifyShutUp, Name: name}
	case "ERRO":
		return NotifyCommand{Kind: NotifyError, Name: name}
	case "WARN":
		return NotifyCommand{Kind: NotifyWarning, Name: name}
	case "DEBU":
		return NotifyCommand{Kind: NotifyDebug, Name: name}
	default:
		return NotifyCommand{Kind: NotifyUndef}
	}
}

// --- WatchCommand family ------------------------------------------------

// WatchKind enumerates the WatchCom command variants.
type WatchKind int

const (
	WatchChangeTarget WatchKind = iota
	WatchTestTarget
	WatchPrintTarget
	WatchTryRepair
	WatchUndef
)

// WatchCommand is the decoded view of a WatchCom packet's core.
type WatchCommand struct {
	Kind     WatchKind
	Name     *string
	Resource string
}

// EncodeWatchCommand renders a WatchCommand into a Core.
func EncodeWatchCommand(c WatchCommand) Core {
	var core Core
	header := "PRTA"
	switch c.Kind {
	case WatchChangeTarget:
		header = "CHTA"
	case WatchTestTarget:
		header = "TSTA"
	case WatchPrintTarget:
		header = "PRTA"
	case WatchTryRepair:
		header = "TRRP"
	}
	writeHeader(&core, header)
	writeName(&core, c.Name)
	writeField(core[resourceOffset:], c.Resource)
	return core
}

// DecodeWatchCommand parses a Core as a WatchCommand.
func DecodeWatchCommand(core Core) WatchCommand {
	name := readName(core)
	resource := coreToString(core[resourceOffset:])
	switch readHeader(core) {
	case "CHTA":
		return WatchCommand{Kind: WatchChangeTarget, Name: name, Resource: resource}
	case "TSTA":
		return WatchCommand{Kind: WatchTestTarget, Name: name, Resource: resource}
	case "PRTA":
		return WatchCommand{Kind: WatchPrintTarget, Name: name}
	case "TRRP":
		return WatchCommand{Kind: WatchTryRepair, Name: name, Resource: resource}
	default:
		return WatchCommand{Kind: WatchUndef}
	}
}

// --- BackupCommand family ------------------------------------------------

// BackupKind enumerates the BackupCom command variants.
type BackupKind int

const (
	BackupFire BackupKind = iota
	BackupChangeTarget
	BackupChangeSource
	BackupHasHostCapability
	BackupChangeHost
	BackupChangeHostCredentials
	BackupPingHost
	BackupPrint
	BackupUndef
)

// HostCredentials is the username/password pair carried by
// ChangeHostCredentials, each half occupying credHalfWidth bytes.
type HostCredentials struct {
	User string
	Pass string
}

// BackupCommand is the decoded view of a BackupCom packet's core.
type BackupCommand struct {
	Kind  BackupKind
	Name  *string
	Path  string
	IP    [4]byte
	Creds HostCredentials
}

// EncodeBackupCommand renders a BackupCommand into a Core.
func EncodeBackupCommand(c BackupCommand) Core {
	var core Core
	switch c.Kind {
	case BackupFire:
		writeHeader(&core, "FIRE")
		writeName(&core, c.Name)
	case BackupChangeTarget:
		writeHeader(&core, "CHTA")
		writeName(&core, c.Name)
		writeField(core[resourceOffset:], c.Path)
	case BackupChangeSource:
		writeHeader(&core, "CHSR")
		writeName(&core, c.Name)
		writeField(core[resourceOffset:], c.Path)
	case BackupHasHostCapability:
		writeHeader(&core, "HAHO")
		writeName(&core, c.Name)
	case BackupChangeHost:
		writeHeader(&core, "CHHO")
		writeName(&core, c.Name)
		copy(core[resourceOffset:resourceOffset+4], c.IP[:])
	case BackupChangeHostCredentials:
		writeHeader(&core, "CHHC")
		writeName(&core, c.Name)
		writeField(core[resourceOffset:credSecondOff], c.Creds.User)
		writeField(core[credSecondOff:CoreSize], c.Creds.Pass)
	case BackupPingHost:
		writeHeader(&core, "PIHO")
		writeName(&core, c.Name)
	case BackupPrint:
		writeHeader(&core, "PRNT")
		writeName(&core, c.Name)
	default:
		writeHeader(&core, "PRNT")
	}
	return core
}

// DecodeBackupCommand parses a Core as a BackupCommand.
func DecodeBackupCommand(core Core) BackupCommand {
	name := readName(core)
	switch readHeader(core) {
	case "FIRE":
		return BackupCommand{Kind: BackupFire, Name: name}
	case "CHTA":
		return BackupCommand{Kind: BackupChangeTarget, Name: name, Path: coreToString(core[resourceOffset:])}
	case "CHSR":
		return BackupCommand{Kind: BackupChangeSource, Name: name, Path: coreToString(core[resourceOffset:])}
	case "HAHO":
		return BackupCommand{Kind: BackupHasHostCapability, Name: name}
	case "CHHO":
		var ip [4]byte
		copy(ip[:], core[resourceOffset:resourceOffset+4])
		return BackupCommand{Kind: BackupChangeHost, Name: name, IP: ip}
	case "CHHC":
		return BackupCommand{
			Kind: BackupChangeHostCredentials,
			Name: name,
			Creds: HostCredentials{
				User: coreToString(core[resourceOffset:credSecondOff]),
				Pass: coreToString(core[credSecondOff:CoreSize]),
			},
		}
	case "PIHO":
		return BackupCommand{Kind: BackupPingHost, Name: name}
	case "PRNT":
		return BackupCommand{Kind: BackupPrint, Name: name}
	default:
		return BackupCommand{Kind: BackupUndef}
	}
}

// --- LoggerCommand family ------------------------------------------------

// LoggerKind enumerates the LoggerCom command variants.
type LoggerKind int

const (
	LoggerWrite LoggerKind = iota
	LoggerUndef
)

// LoggerCommand is the decoded view of a LoggerCom packet's core.
type LoggerCommand struct {
	Kind LoggerKind
	Text string
}

// EncodeLoggerCommand renders a LoggerCommand into a Core.
func EncodeLoggerCommand(c LoggerCommand) Core {
	var core Core
	writeHeader(&core, "WRIT")
	if c.Kind == LoggerWrite {
		writeField(core[4:], c.Text)
	}
	return core
}

// DecodeLoggerCommand parses a Core as a LoggerCommand.
func DecodeLoggerCommand(core Core) LoggerCommand {
	if readHeader(core) != "WRIT" {
		return LoggerCommand{Kind: LoggerUndef}
	}
	return LoggerCommand{Kind: LoggerWrite, Text: coreToString(core[4:])}
}
