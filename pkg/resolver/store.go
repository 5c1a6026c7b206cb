package resolver

import (
	"context"
	"time"

	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// DefaultStoreKey is the key of the store passed to New. Leaves without a
// store annotation are routed to it.
const DefaultStoreKey = "value_store"

// Store resolves data point names to values.
//
// Fetch must return an entry for every requested name, using null for names
// unknown upstream. Names beyond the request are accepted and cached.
type Store interface {
	Fetch(ctx context.Context, names []string) (Result, error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, names []string) (Result, error)

// Fetch calls f.
func (f StoreFunc) Fetch(ctx context.Context, names []string) (Result, error) {
	return f(ctx, names)
}

// Result is the answer of a store. Without an Index every value is a scalar.
// With one, every value is a list or tuple holding one point per label, or
// null when the name has no data at all.
type Result struct {
	Values map[string]cty.Value
	Index  value.Index
}

// Observer receives resolver events, e.g. to export metrics.
type Observer interface {
	ObserveFetch(store string, names int, elapsed time.Duration, err error)
	ObserveCache(hit bool)
	ObserveResolve(specs int, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(string, int, time.Duration, error) {}
func (nopObserver) ObserveCache(bool)                              {}
func (nopObserver) ObserveResolve(int, time.Duration, error)       {}
