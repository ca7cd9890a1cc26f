package bus

import (
	"go.uber.org/fx"

	"bachd/internal/config/logger"
)

// Module provides the Bus for dependency injection.
var Module = fx.Module("bus",
	fx.Provide(func(log logger.Logger) Bus {
		return New(log)
	}),
)
