package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// fetch calls every store owning uncached leaves, once, in store key order.
func (r *Resolver) fetch(ctx context.Context, logger *slog.Logger, p *plan) error {
	for _, store := range sortedKeys(p.leaves) {
		var names []string
		for _, name := range sortedKeys(p.leaves[store]) {
			_, cached := r.cache[leafKey(store, name)]
			r.observer.ObserveCache(cached)
			if !cached {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			logger.Debug("All leaves cached, skipping store", "store", store)
			continue
		}

		logger.Debug("Fetching leaves", "store", store, "names", names)
		start := time.Now()
		res, err := r.stores[store].Fetch(ctx, names)
		r.observer.ObserveFetch(store, len(names), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("fetching from store %q: %w", store, err)
		}
		if err := r.bindResult(store, names, res); err != nil {
			return err
		}
	}
	return nil
}

// bindResult caches every value of res, including names that were not
// requested.
func (r *Resolver) bindResult(store string, requested []string, res Result) error {
	for _, name := range requested {
		if _, ok := res.Values[name]; !ok {
			return fmt.Errorf("%w: store %q, name %q", ErrIncompleteResult, store, name)
		}
	}

	for _, name := range sortedKeys(res.Values) {
		v, err := toValue(res.Values[name], res.Index)
		if err != nil {
			return fmt.Errorf("store %q returned an invalid value for %q: %w", store, name, err)
		}
		key := leafKey(store, name)
		if cached, ok := r.cache[key]; ok {
			if !cached.Equal(v) {
				return &AmbiguousIdentityError{Store: store, Name: name, Cached: cached, Got: v}
			}
			continue
		}
		r.cache[key] = v
	}
	return nil
}

func toValue(raw cty.Value, index value.Index) (value.Value, error) {
	if index == nil {
		if raw == cty.NilVal {
			raw = cty.NullVal(cty.DynamicPseudoType)
		}
		return value.Scalar(raw), nil
	}
	points, err := value.Elements(raw, len(index))
	if err != nil {
		return value.Value{}, err
	}
	return value.NewSeries(index, points)
}
