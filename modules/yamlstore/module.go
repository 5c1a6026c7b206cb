// Package yamlstore provides the "yaml" store kind: values read from a
// snapshot file on every fetch.
package yamlstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/internal/snapshot"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"gopkg.in/yaml.v3"
)

// Kind is the store kind this module registers.
const Kind = "yaml"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a yaml store block.
type Input struct {
	Path string `hcl:"path"`
}

// Store reads a snapshot.Document from a YAML file.
type Store struct {
	path   string
	logger *slog.Logger
}

// New returns a store for the file at path. The file is read once to fail
// early on a missing or malformed file.
func New(ctx context.Context, path string) (*Store, error) {
	s := &Store{path: path, logger: ctxlog.FromContext(ctx).With("store", Kind, "path", path)}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

// Fetch rereads the file, so edits show up on the next resolver.
func (s *Store) Fetch(_ context.Context, names []string) (resolver.Result, error) {
	doc, err := s.read()
	if err != nil {
		return resolver.Result{}, err
	}
	s.logger.Debug("Read snapshot", "names", len(names), "known", len(doc.Values))
	return doc.Result(names)
}

func (s *Store) read() (snapshot.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return snapshot.Document{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var doc snapshot.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return snapshot.Document{}, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}
	return doc, nil
}

func createStore(ctx context.Context, input any) (resolver.Store, error) {
	return New(ctx, input.(*Input).Path)
}

// Register registers the store kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStore(Kind, &registry.RegisteredStore{
		NewInput: func() any { return new(Input) },
		CreateFn: createStore,
	})
}
