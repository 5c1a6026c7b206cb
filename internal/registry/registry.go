package registry

import (
	"maps"

	"github.com/specialistvlad/synthtags/pkg/ops"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered store kinds and operations for a single
// application instance.
type Registry struct {
	StoreRegistry     map[string]*RegisteredStore
	OperationRegistry map[string]ops.Func
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		StoreRegistry:     make(map[string]*RegisteredStore),
		OperationRegistry: make(map[string]ops.Func),
	}
}

// Operations returns a copy of the registered operations, ready to be passed
// to resolver.WithOperations.
func (r *Registry) Operations() map[string]ops.Func {
	return maps.Clone(r.OperationRegistry)
}
