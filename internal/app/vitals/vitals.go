// Package vitals is the daemon's self-observability ticker: it samples the
// daemon's own process and publishes the result onto the bus as a debug
// packet. It never gates a control-plane decision — purely observational,
// and skippable via config so tests stay hermetic.
package vitals

import (
	"context"
	"fmt"
	"os"
	"time"

	"bachd/internal/app/bus"
	"bachd/internal/app/monitor"
	"bachd/internal/app/packet"
	"bachd/internal/config/logger"
)

// Vitals periodically samples the daemon's own process and publishes a
// NotifyCom(DEBU) packet carrying the reading.
type Vitals interface {
	// Start runs the sampling loop until ctx is cancelled. It does not
	// block the caller: the loop runs on its own goroutine.
	Start(ctx context.Context)
}

type vitals struct {
	mon      monitor.Monitor
	bus      bus.Bus
	log      logger.Logger
	interval time.Duration
}

// New creates a Vitals ticker. interval is the sampling period.
func New(mon monitor.Monitor, b bus.Bus, log logger.Logger, interval time.Duration) Vitals {
	if log == nil {
		log = &logger.NoopLogger{}
	}

	return &vitals{mon: mon, bus: b, log: log.WithComponent("VITALS"), interval: interval}
}

// Start launches the sampling loop on its own goroutine; it returns
// immediately.
func (v *vitals) Start(ctx context.Context) {
	go v.run(ctx)
}

func (v *vitals) run(ctx context.Context) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.sample(ctx)
		}
	}
}

func (v *vitals) sample(ctx context.Context) {
	stats, err := v.mon.GetStats(ctx, os.Getpid())
	if err != nil {
		v.log.Warn().Err(err).Msg("vitals sample failed")
		return
	}

	name := fmt.Sprintf("vitals cpu=%.1f%% rss=%.1fMB", stats.CPU, stats.MEM)

	v.bus.Send(packet.NewNotifyCom(packet.EncodeNotifyCommand(packet.NotifyCommand{
		Kind: packet.NotifyDebug,
		Name: &name,
	})))
}
