package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for format-specific data binding. It acts as
// the bridge between a raw store block and the Go input struct of the module
// that builds the store.
type Converter interface {
	// DecodeBody decodes a raw configuration body into target, a pointer to
	// a struct carrying the format's field tags.
	DecodeBody(ctx context.Context, target any, body hcl.Body) error
}
