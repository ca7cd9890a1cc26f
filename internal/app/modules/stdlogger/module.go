package stdlogger

import (
	"go.uber.org/fx"

	"bachd/internal/app/registry"
	"bachd/internal/config/logger"
)

// TypeName is the static-registry key operators use to select this module
// in a ModuleDefinition.
const TypeName = "stdlogger"

// Module registers the stdlogger constructor with the shared registry.
var Module = fx.Invoke(func(r registry.Registry, log logger.Logger) {
	r.Register(TypeName, New(log))
})
