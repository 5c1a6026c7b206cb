package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/synthtags/pkg/ops"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// RegisteredStore holds the Go parts of a store kind. NewInput returns a
// pointer to the struct a store block is decoded into; CreateFn receives
// that pointer once decoded.
type RegisteredStore struct {
	NewInput func() any
	CreateFn func(ctx context.Context, input any) (resolver.Store, error)
}

// RegisterStore registers a store kind.
func (r *Registry) RegisterStore(kind string, handler *RegisteredStore) {
	if _, exists := r.StoreRegistry[kind]; exists {
		panic(fmt.Sprintf("store kind '%s' already registered", kind))
	}
	slog.Debug("Registering store kind.", "kind", kind)
	r.StoreRegistry[kind] = handler
}

// RegisterOperation registers an operation under token.
func (r *Registry) RegisterOperation(token string, fn ops.Func) {
	if _, exists := r.OperationRegistry[token]; exists {
		panic(fmt.Sprintf("operation '%s' already registered", token))
	}
	slog.Debug("Registering operation.", "token", token)
	r.OperationRegistry[token] = fn
}
