package daemon

import (
	"context"

	"go.uber.org/fx"

	"bachd/internal/app/bus"
	"bachd/internal/app/control"
	"bachd/internal/app/manager"
	"bachd/internal/app/registry"
	"bachd/internal/config"
	"bachd/internal/config/logger"
)

// Module provides the Daemon and registers the fx lifecycle hooks that
// bootstrap it (load/connect/spawn every configured module) on start and
// drive its main loop for the life of the process, stopping it on fx
// shutdown.
var Module = fx.Module("daemon",
	fx.Provide(func(b bus.Bus, mgr manager.Manager, ctrl control.Listener, sd fx.Shutdowner, log logger.Logger) Daemon {
		return New(b, mgr, ctrl, sd, log)
	}),
	fx.Invoke(func(lc fx.Lifecycle, d Daemon, cfg *config.Config, reg registry.Registry, log logger.Logger) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				for _, err := range d.Bootstrap(cfg.ModuleManager, reg) {
					log.Error().Err(err).Msg("module failed to load or spawn")
				}

				go func() {
					defer close(done)
					d.Run(ctx)
				}()

				return nil
			},
			OnStop: func(stopCtx context.Context) error {
				cancel()

				select {
				case <-done:
				case <-stopCtx.Done():
				}

				return nil
			},
		})
	}),
)
