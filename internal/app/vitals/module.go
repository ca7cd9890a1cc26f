package vitals

import (
	"context"
	"time"

	"go.uber.org/fx"

	"bachd/internal/app/bus"
	"bachd/internal/app/monitor"
	"bachd/internal/config"
	"bachd/internal/config/logger"
)

// Module provides Vitals and starts its sampling loop for the lifetime of
// the fx app, unless disabled in config.
var Module = fx.Module("vitals",
	fx.Provide(func(mon monitor.Monitor, b bus.Bus, log logger.Logger, cfg *config.Config) Vitals {
		interval := time.Duration(cfg.Vitals.IntervalSeconds) * time.Second
		return New(mon, b, log, interval)
	}),
	fx.Invoke(func(lc fx.Lifecycle, v Vitals, cfg *config.Config) {
		if !cfg.Vitals.Enabled {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				v.Start(ctx)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
