package dummy

import (
	"go.uber.org/fx"

	"bachd/internal/app/registry"
)

// TypeName is the static-registry key operators use to select this module
// in a ModuleDefinition.
const TypeName = "dummy"

// Module registers the dummy constructor with the shared registry.
var Module = fx.Invoke(func(r registry.Registry) {
	r.Register(TypeName, New)
})
