package manager

import (
	"time"

	"go.uber.org/fx"

	"bachd/internal/config"
	"bachd/internal/config/logger"
)

// Module provides the Manager for dependency injection, sized from the
// daemon's loaded configuration.
var Module = fx.Module("manager",
	fx.Provide(func(cfg *config.Config, log logger.Logger) Manager {
		respawn := time.Duration(cfg.ModuleManager.RespawnDurationSeconds) * time.Second
		alive := time.Duration(config.DefaultAliveEmissionSeconds) * time.Second

		return New(respawn, alive, log)
	}),
)
