// Package envstore provides the "env" store kind: values read from
// environment variables, handy for thresholds and set points.
package envstore

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the store kind this module registers.
const Kind = "env"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an env store block. The variable read for
// name is Prefix + name.
type Input struct {
	Prefix string `hcl:"prefix,optional"`
}

// Store resolves names from the process environment.
type Store struct {
	prefix string
}

// New returns a store reading variables that start with prefix.
func New(prefix string) *Store {
	return &Store{prefix: prefix}
}

// Fetch reads one variable per name. Numbers and booleans are parsed; other
// values stay strings. Unset variables are null.
func (s *Store) Fetch(_ context.Context, names []string) (resolver.Result, error) {
	values := make(map[string]cty.Value, len(names))
	for _, name := range names {
		raw, ok := os.LookupEnv(s.prefix + name)
		if !ok {
			values[name] = cty.NullVal(cty.DynamicPseudoType)
			continue
		}
		values[name] = parse(raw)
	}
	return resolver.Result{Values: values}, nil
}

func parse(raw string) cty.Value {
	s := strings.TrimSpace(raw)
	if s == "true" || s == "false" {
		return cty.BoolVal(s == "true")
	}
	if n, err := cty.ParseNumberVal(s); err == nil {
		return n
	}
	return cty.StringVal(raw)
}

func createStore(_ context.Context, input any) (resolver.Store, error) {
	return New(input.(*Input).Prefix), nil
}

// Register registers the store kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStore(Kind, &registry.RegisteredStore{
		NewInput: func() any { return new(Input) },
		CreateFn: createStore,
	})
}
