// Package registry is the compile-time module-type registry the manager
// consults when a ModuleDefinition names a static module (as opposed to a
// dynamic shared-object lookup, which this implementation does not support
// — see DESIGN.md). A module type registers a constructor once, at
// fx.Invoke time, keyed by the name operators use in configuration.
package registry

import (
	"sort"
	"sync"

	"bachd/internal/app/errors"
	"bachd/internal/app/module"
)

// Constructor builds one Module instance for a given instance name and
// config path. Called once per ModuleDefinition at manager load time.
type Constructor func(name, configPath string) (module.Module, error)

// Registry maps module type names (the ModuleDefinition.Name field in
// configuration) to constructors.
type Registry interface {
	Register(typeName string, ctor Constructor)
	New(typeName, name, configPath string) (module.Module, error)
	Types() []string
}

type registry struct {
	mu           sync.Mutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty Registry.
func NewRegistry() Registry {
	return &registry{constructors: make(map[string]Constructor)}
}

// Register adds or replaces the constructor for typeName. Intended to be
// called once per module type at startup, before the manager loads any
// configuration.
func (r *registry) Register(typeName string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.constructors[typeName] = ctor
}

// New instantiates a module of typeName. Returns ErrModuleNotFound if no
// constructor was registered under that name.
func (r *registry) New(typeName, name, configPath string) (module.Module, error) {
	r.mu.Lock()
	ctor, ok := r.constructors[typeName]
	r.mu.Unlock()

	if !ok {
		return nil, errors.ErrModuleNotFound
	}

	return ctor(name, configPath)
}

// Types returns every registered type name, sorted, for diagnostics.
func (r *registry) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
