package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// Digits returns the number formed by the digits of name, ignoring every
// other character: "A1" is 1, "XY543--21ZZZ" is 54321.
func Digits(name string) int64 {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	n, _ := strconv.ParseInt(b.String(), 10, 64)
	return n
}

// DigitStore resolves every name to Digits(name).
func DigitStore() resolver.StoreFunc {
	return scalarStore(func(name string) int64 { return Digits(name) })
}

// ThousandsStore resolves every name to Digits(name) * 1111, so "A3" is 3333.
func ThousandsStore() resolver.StoreFunc {
	return scalarStore(func(name string) int64 { return Digits(name) * 1111 })
}

func scalarStore(fn func(string) int64) resolver.StoreFunc {
	return func(_ context.Context, names []string) (resolver.Result, error) {
		values := make(map[string]cty.Value, len(names))
		for _, name := range names {
			values[name] = cty.NumberIntVal(fn(name))
		}
		return resolver.Result{Values: values}, nil
	}
}

// SeriesLength is the number of points returned by SeriesStore.
const SeriesLength = 7

// SeriesStore resolves every name to SeriesLength consecutive values starting
// at Digits(name) and wrapping at 99, on a positional index: "A96" is
// [96 97 98 99 0 1 2].
func SeriesStore() resolver.StoreFunc {
	return func(_ context.Context, names []string) (resolver.Result, error) {
		values := make(map[string]cty.Value, len(names))
		for _, name := range names {
			points := make([]cty.Value, SeriesLength)
			for i := range points {
				points[i] = cty.NumberIntVal((Digits(name) + int64(i)) % 100)
			}
			values[name] = cty.TupleVal(points)
		}
		return resolver.Result{Values: values, Index: value.RangeIndex(SeriesLength)}, nil
	}
}

// Spy records every call made to the store it wraps.
type Spy struct {
	store resolver.Store
	mu    sync.Mutex
	calls [][]string
}

// NewSpy wraps store.
func NewSpy(store resolver.Store) *Spy {
	return &Spy{store: store}
}

// Fetch records names and delegates to the wrapped store.
func (s *Spy) Fetch(ctx context.Context, names []string) (resolver.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), names...))
	s.mu.Unlock()
	return s.store.Fetch(ctx, names)
}

// Calls returns the names of every call, each sorted.
func (s *Spy) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.calls))
	for i, c := range s.calls {
		sorted := append([]string(nil), c...)
		sort.Strings(sorted)
		out[i] = sorted
	}
	return out
}

// CallCount returns the number of calls so far.
func (s *Spy) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
