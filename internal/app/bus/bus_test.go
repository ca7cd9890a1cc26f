package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bachd/internal/app/packet"
)

func TestBusFanOutExactlyOncePerCycle(t *testing.T) {
	b := New(nil)

	var calls int

	b.Connect(Connection{
		Label:  "counter",
		Filter: func(p packet.Packet) bool { return p.Tag == packet.TagNotifyGood },
		Inlet:  func(p packet.Packet) { calls++ },
	})

	b.Send(packet.NewNotifyGood("m", "p", "s"))
	b.Perform()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len())
}

func TestBusOrdering(t *testing.T) {
	b := New(nil)

	var received []string

	b.Connect(Connection{
		Filter: func(packet.Packet) bool { return true },
		Inlet: func(p packet.Packet) {
			n := packet.DecodeNotification(p)
			received = append(received, n.Message)
		},
	})

	b.Send(packet.NewNotifyGood("A", "p", "s"))
	b.Send(packet.NewNotifyGood("B", "p", "s"))

	b.Perform()
	b.Perform()

	assert.Equal(t, []string{"A", "B"}, received)
}

func TestBusDrainsQueueInOrderOverKCycles(t *testing.T) {
	b := New(nil)

	b.Send(packet.NewStop("1"))
	b.Send(packet.NewStop("2"))
	b.Send(packet.NewStop("3"))

	for i := 0; i < 3; i++ {
		b.Perform()
	}

	assert.Equal(t, 0, b.Len())
}

// TestBusScenarioS1 reproduces the S1 bus round-trip scenario: three
// subscribers, three packets, one emission survives to be drained.
func TestBusScenarioS1(t *testing.T) {
	b := New(nil)

	s1Emitted := false

	// S1 accepts NotifyGood and emits BackupCom(ChangeHost).
	b.Connect(Connection{
		Filter: func(p packet.Packet) bool { return p.Tag == packet.TagNotifyGood },
		Inlet:  func(packet.Packet) {},
		Outlet: func() (packet.Packet, bool) {
			if s1Emitted {
				return packet.Packet{}, false
			}

			s1Emitted = true

			return packet.NewBackupCom(packet.EncodeBackupCommand(packet.BackupCommand{
				Kind: packet.BackupChangeHost,
				IP:   [4]byte{192, 168, 1, 1},
			})), true
		},
	})

	// S2 accepts NotifyErr, emits nothing.
	b.Connect(Connection{
		Filter: func(p packet.Packet) bool { return p.Tag == packet.TagNotifyErr },
		Inlet:  func(packet.Packet) {},
	})

	// S3 accepts Terminate, emits nothing.
	b.Connect(Connection{
		Filter: func(p packet.Packet) bool { return p.Tag == packet.TagTerminate },
		Inlet:  func(packet.Packet) {},
	})

	b.Send(packet.NewNotifyGood("FOO", "FAA", "FEE"))
	b.Send(packet.NewNotifyErr("BAR", "BOR", "BER"))
	b.Send(packet.NewNotifyErr("BAZ", "BOZ", "BEZ"))

	b.Perform()
	b.Perform()
	b.Perform()

	// The ChangeHost emission from cycle 1 should now be queued.
	assert.Equal(t, 1, b.Len())

	got, ok := b.(*bus).queue.Pop()
	assert.True(t, ok)
	assert.Equal(t, packet.TagBackupCom, got.Tag)

	cmd := packet.DecodeBackupCommand(got.Core)
	assert.Equal(t, packet.BackupChangeHost, cmd.Kind)
	assert.Equal(t, [4]byte{192, 168, 1, 1}, cmd.IP)
}

func TestBusDisconnectRemovesOnlyMatchingLabel(t *testing.T) {
	b := New(nil)

	var aCalls, bCalls int

	b.Connect(Connection{
		Label:  "a",
		Filter: func(packet.Packet) bool { return true },
		Inlet:  func(packet.Packet) { aCalls++ },
	})
	b.Connect(Connection{
		Label:  "b",
		Filter: func(packet.Packet) bool { return true },
		Inlet:  func(packet.Packet) { bCalls++ },
	})

	b.Disconnect("a")

	b.Send(packet.NewStop("x"))
	b.Perform()

	assert.Equal(t, 0, aCalls)
	assert.Equal(t, 1, bCalls)
}

func TestBusRecoversPanickingSubscriber(t *testing.T) {
	b := New(nil)

	b.Connect(Connection{
		Filter: func(packet.Packet) bool { return true },
		Inlet:  func(packet.Packet) { panic("boom") },
	})

	assert.NotPanics(t, func() {
		b.Send(packet.NewStop("x"))
		b.Perform()
	})

	// A NotifyErr should have been queued for the next cycle.
	assert.Equal(t, 1, b.Len())
}
