package bus

import (
	"fmt"
	"sync"

	"github.com/getsentry/sentry-go"

	"bachd/internal/app/packet"
	"bachd/internal/config/logger"
)

// Connection is the bus's subscriber triple: inlet receives an accepted
// packet, filter decides whether a given packet is accepted, and outlet is
// polled once per cycle for an emission. Connections are otherwise opaque to
// the bus — a module's bus hookup and the manager's supervision hookup are
// both just Connections.
type Connection struct {
	Label  string
	Filter func(packet.Packet) bool
	Inlet  func(packet.Packet)
	Outlet func() (packet.Packet, bool)
}

// Bus owns a FIFO queue of packets and an ordered list of connections. It
// implements the cooperative "tick" model: Perform delivers at most one
// packet to each accepting connection per call, and collects at most one
// emission per connection.
type Bus interface {
	Connect(c Connection)
	// Disconnect removes every connection registered under label. Used by
	// the manager when it respawns a module, so the dead instance's
	// connection does not keep receiving fan-out alongside the fresh one.
	Disconnect(label string)
	Send(p packet.Packet)
	Perform()
	Len() int
}

type bus struct {
	mu          sync.Mutex
	connections []Connection
	queue       *Queue
	log         logger.Logger
}

// New creates an empty Bus.
func New(log logger.Logger) Bus {
	if log == nil {
		log = &logger.NoopLogger{}
	}

	return &bus{
		queue: NewQueue(),
		log:   log.WithComponent("BUS"),
	}
}

// Connect registers c. Connection order determines fan-out order on every
// subsequent cycle.
func (b *bus) Connect(c Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.connections = append(b.connections, c)
}

// Disconnect removes every connection registered under label, in place.
// Connection order is preserved for the remaining subscribers.
func (b *bus) Disconnect(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.connections[:0]
	for _, c := range b.connections {
		if c.Label != label {
			kept = append(kept, c)
		}
	}

	b.connections = kept
}

// Send pushes p to the tail of the queue.
func (b *bus) Send(p packet.Packet) {
	b.queue.Push(p)
}

// Len reports the number of packets waiting in the queue.
func (b *bus) Len() int {
	return b.queue.Len()
}

// Perform runs one cycle: pop at most one packet, fan it out to every
// connection whose filter accepts it (in registration order), then poll
// every connection's outlet for an emission. A connection's inlet is
// recovered — a panicking subscriber never kills the bus.
func (b *bus) Perform() {
	p, popped := b.queue.Pop()

	b.mu.Lock()
	connections := make([]Connection, len(b.connections))
	copy(connections, b.connections)
	b.mu.Unlock()

	for _, c := range connections {
		if popped && c.Filter != nil && c.Filter(p) {
			b.invokeInlet(c, p)
		}

		if c.Outlet == nil {
			continue
		}

		if emitted, ok := c.Outlet(); ok {
			b.Send(emitted)
		}
	}
}

// invokeInlet calls c.Inlet(p), isolating a panicking subscriber: the panic
// is reported to Sentry and turned into a NotifyErr queued for next cycle,
// per the bus-error taxonomy.
func (b *bus) invokeInlet(c Connection, p packet.Packet) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("bus connection %q panicked: %v", c.Label, r)

			sentry.CaptureException(err)
			b.log.Error().Err(err).Msg("recovered bus subscriber panic")

			b.Send(packet.NewNotifyErr(err.Error(), c.Label, "bus"))
		}
	}()

	c.Inlet(p)
}
