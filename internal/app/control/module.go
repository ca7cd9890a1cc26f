package control

import (
	"context"

	"go.uber.org/fx"

	"bachd/internal/config"
	"bachd/internal/config/logger"
)

// Module provides the control channel Listener for dependency injection,
// binding it eagerly at construction time and closing it on fx shutdown.
var Module = fx.Module("control",
	fx.Provide(func(cfg *config.Config, log logger.Logger) (Listener, error) {
		return Bind(cfg.IP, cfg.Port, config.ControlAcceptDeadline, log)
	}),
	fx.Invoke(func(lc fx.Lifecycle, l Listener) {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return l.Close()
			},
		})
	}),
)
