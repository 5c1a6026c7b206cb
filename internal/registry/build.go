package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/specialistvlad/synthtags/internal/config"
	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// Stores holds the stores built from a configuration model.
type Stores struct {
	byName  map[string]resolver.Store
	closers []io.Closer
}

// Get returns the store configured under name.
func (s *Stores) Get(name string) (resolver.Store, bool) {
	store, ok := s.byName[name]
	return store, ok
}

// Names returns the configured store names in sorted order.
func (s *Stores) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every store implementing io.Closer, in reverse build order.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// BuildStores decodes each store block of model with conv and creates the
// store through its registered kind. Stores built before a failure are
// closed.
func (r *Registry) BuildStores(ctx context.Context, model *config.Model, conv config.Converter) (*Stores, error) {
	logger := ctxlog.FromContext(ctx)
	stores := &Stores{byName: make(map[string]resolver.Store, len(model.Stores))}

	names := make([]string, 0, len(model.Stores))
	for name := range model.Stores {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := model.Stores[name]
		store, err := r.buildStore(ctx, def, conv)
		if err != nil {
			if closeErr := stores.Close(); closeErr != nil {
				logger.Error("Failed to close stores after a build error.", "error", closeErr)
			}
			return nil, fmt.Errorf("store %q: %w", name, err)
		}
		logger.Debug("Built store.", "store", name, "kind", def.Kind)
		stores.byName[name] = store
		if closer, ok := store.(io.Closer); ok {
			stores.closers = append(stores.closers, closer)
		}
	}
	return stores, nil
}

func (r *Registry) buildStore(ctx context.Context, def *config.Store, conv config.Converter) (resolver.Store, error) {
	handler, ok := r.StoreRegistry[def.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown store kind %q", def.Kind)
	}
	input := handler.NewInput()
	if err := conv.DecodeBody(ctx, input, def.Body); err != nil {
		return nil, fmt.Errorf("decoding arguments: %w", err)
	}
	return handler.CreateFn(ctx, input)
}
