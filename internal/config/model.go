package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Stores     map[string]*Store
	Synthetics map[string]*Synthetic
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Stores:     make(map[string]*Store),
		Synthetics: make(map[string]*Synthetic),
	}
}

// Store is the format-agnostic representation of a `store` block. Body holds
// the module-specific arguments, decoded later through a Converter.
type Store struct {
	Name    string
	Kind    string
	Default bool
	Body    hcl.Body
}

// Synthetic is one named formula. Spec is a *tag.Tag or a literal value.
type Synthetic struct {
	Key         string
	Description string
	Spec        any
}

// AddStore merges s into the model, rejecting duplicate names.
func (m *Model) AddStore(s *Store) error {
	if _, exists := m.Stores[s.Name]; exists {
		return fmt.Errorf("store %q is defined more than once", s.Name)
	}
	m.Stores[s.Name] = s
	return nil
}

// AddSynthetic merges s into the model, rejecting duplicate keys.
func (m *Model) AddSynthetic(s *Synthetic) error {
	if _, exists := m.Synthetics[s.Key]; exists {
		return fmt.Errorf("synthetic %q is defined more than once", s.Key)
	}
	m.Synthetics[s.Key] = s
	return nil
}

// DefaultStore returns the name of the store marked as default. With a
// single store, that store is the default.
func (m *Model) DefaultStore() (string, error) {
	var defaults []string
	for name, s := range m.Stores {
		if s.Default {
			defaults = append(defaults, name)
		}
	}
	sort.Strings(defaults)

	switch {
	case len(defaults) > 1:
		return "", fmt.Errorf("more than one default store: %v", defaults)
	case len(defaults) == 1:
		return defaults[0], nil
	case len(m.Stores) == 1:
		for name := range m.Stores {
			return name, nil
		}
	}
	return "", nil
}

// Specs returns the synthetics as resolver input.
func (m *Model) Specs() resolver.Specs {
	specs := make(resolver.Specs, len(m.Synthetics))
	for key, s := range m.Synthetics {
		specs[key] = s.Spec
	}
	return specs
}
