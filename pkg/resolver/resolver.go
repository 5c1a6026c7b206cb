package resolver

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/pkg/ops"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// Specs maps result keys to a *tag.Tag or a literal.
type Specs map[string]any

// Resolver evaluates Specs against a set of stores and keeps every value it
// fetches or computes.
type Resolver struct {
	stores    map[string]Store
	extraOps  map[string]ops.Func
	registry  *ops.Registry
	cache     map[string]value.Value
	callables map[*ops.Callable]int
	logger    *slog.Logger
	observer  Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStore registers an additional store under key. Leaves built with
// tag.NewInStore(name, key) are fetched from it.
func WithStore(key string, s Store) Option {
	return func(r *Resolver) {
		r.stores[key] = s
	}
}

// WithOperations adds operations to the built-in registry. Later options
// replace earlier ones of the same token.
func WithOperations(extra map[string]ops.Func) Option {
	return func(r *Resolver) {
		for token, fn := range extra {
			r.extraOps[token] = fn
		}
	}
}

// WithLogger sets the logger. Without it the logger is taken from the
// context of each call.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithObserver sets the observer notified of fetches, cache lookups and
// resolve calls.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// New returns a Resolver whose default store is defaultStore.
func New(defaultStore Store, opts ...Option) *Resolver {
	r := &Resolver{
		stores:    make(map[string]Store),
		extraOps:  make(map[string]ops.Func),
		cache:     make(map[string]value.Value),
		callables: make(map[*ops.Callable]int),
		observer:  nopObserver{},
	}
	if defaultStore != nil {
		r.stores[DefaultStoreKey] = defaultStore
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registry = ops.NewRegistry(r.extraOps)
	r.extraOps = nil
	return r
}

// Known returns the number of values held in the cache.
func (r *Resolver) Known() int { return len(r.cache) }

// Resolve evaluates specs. Literal specs are returned as scalars. When every
// series among the results shares one index, scalar results are broadcast to
// it so that the results line up as a table.
func (r *Resolver) Resolve(ctx context.Context, specs Specs) (results map[string]value.Value, err error) {
	start := time.Now()
	defer func() {
		r.observer.ObserveResolve(len(specs), time.Since(start), err)
	}()

	logger := r.loggerFor(ctx)

	p, err := r.collect(specs)
	if err != nil {
		return nil, err
	}
	for _, store := range sortedKeys(p.leaves) {
		logger.Debug("Collected leaves", "store", store, "count", len(p.leaves[store]))
	}

	if err := r.fetch(ctx, logger, p); err != nil {
		return nil, err
	}

	results = make(map[string]value.Value, len(p.roots))
	for _, key := range sortedKeys(p.roots) {
		v, err := r.eval(p, p.roots[key])
		if err != nil {
			return nil, &EvaluationError{Spec: key, Err: err}
		}
		results[key] = v
	}
	broadcastResults(results)

	logger.Debug("Resolved specs", "count", len(results), "known", len(r.cache), "duration", time.Since(start))
	return results, nil
}

// Latest resolves specs and keeps the last point of every series. Scalars
// are returned as is; series without points are left out.
func (r *Resolver) Latest(ctx context.Context, specs Specs) (map[string]cty.Value, error) {
	results, err := r.Resolve(ctx, specs)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]cty.Value, len(results))
	for key, v := range results {
		if last, ok := v.Last(); ok {
			latest[key] = last
		}
	}
	return latest, nil
}

func (r *Resolver) loggerFor(ctx context.Context) *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return ctxlog.FromContext(ctx)
}

// broadcastResults repeats scalar results across the index shared by all
// series results. Results with differing indexes are left alone.
func broadcastResults(results map[string]value.Value) {
	var index value.Index
	found := false
	for _, v := range results {
		if !v.IsSeries() {
			continue
		}
		if !found {
			index, found = v.Index(), true
			continue
		}
		if !v.Index().Equal(index) {
			return
		}
	}
	if !found {
		return
	}
	for key, v := range results {
		results[key] = value.Broadcast(v, index)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
