// Package registry provides the global tool-type registry. It maps type
// names to metadata and constructors used by the job loader, the CLI, and
// hosts embedding the framework.
package registry

import (
	"sync"

	mapwindow "github.com/Geoany/MapWindow5"
)

// ToolTypeDef describes a registered tool type.
type ToolTypeDef struct {
	Type        string // stable identifier used in job files
	Category    string // "vector", "raster", "analysis"
	DisplayName string
	Description string

	// New constructs a fresh tool instance. Each controller gets its own
	// instance so parameter state is never shared between runs.
	New func() mapwindow.Tool
}

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the singleton registry instance. On first call it
// initializes the registry and auto-registers all built-in tool types.
func Global() *Registry {
	globalOnce.Do(func() {
		global = newRegistry()
		registerBuiltins(global)
	})
	return global
}

// Registry holds all known tool types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ToolTypeDef
	order []string // preserves registration order
}

func newRegistry() *Registry {
	return &Registry{
		types: make(map[string]ToolTypeDef),
	}
}

// Register adds a tool type definition. If a type with the same name
// already exists it is overwritten.
func (r *Registry) Register(def ToolTypeDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[def.Type]; !exists {
		r.order = append(r.order, def.Type)
	}
	r.types[def.Type] = def
}

// Get returns a tool type definition by type name.
func (r *Registry) Get(typeName string) (ToolTypeDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[typeName]
	return def, ok
}

// Has returns true if the type name is registered.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[typeName]
	return ok
}

// New constructs a fresh instance of the named tool type.
func (r *Registry) New(typeName string) (mapwindow.Tool, bool) {
	def, ok := r.Get(typeName)
	if !ok || def.New == nil {
		return nil, false
	}
	return def.New(), true
}

// All returns all registered tool types in registration order.
func (r *Registry) All() []ToolTypeDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]ToolTypeDef, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.types[name])
	}
	return result
}

// Len returns the number of registered tool types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
