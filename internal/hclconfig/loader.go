package hclconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/synthtags/internal/config"
	"github.com/specialistvlad/synthtags/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Stores     []*storeBlock     `hcl:"store,block"`
	Synthetics []*syntheticBlock `hcl:"synthetic,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

type storeBlock struct {
	Name    string   `hcl:"name,label"`
	Kind    string   `hcl:"kind"`
	Default *bool    `hcl:"default,optional"`
	Remain  hcl.Body `hcl:",remain"`
}

type syntheticBlock struct {
	Key         string         `hcl:"key,label"`
	Description *string        `hcl:"description,optional"`
	Value       hcl.Expression `hcl:"value"`
}

// Load parses every .hcl file found under paths and merges their blocks into
// one model. Store and synthetic names must be unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "pathCount", len(paths))

	model := config.NewModel()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Stores {
			store := &config.Store{Name: block.Name, Kind: block.Kind, Body: block.Remain}
			if block.Default != nil {
				store.Default = *block.Default
			}
			if err := model.AddStore(store); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
		}
		for _, block := range root.Synthetics {
			synthetic, err := l.translateSynthetic(block)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := model.AddSynthetic(synthetic); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
		}
	}

	logger.Debug("HCL loading complete.", "stores", len(model.Stores), "synthetics", len(model.Synthetics))
	return model, NewConverter(), nil
}

func (l *Loader) translateSynthetic(block *syntheticBlock) (*config.Synthetic, error) {
	spec, diags := Translate(block.Value)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid formula for synthetic %q: %w", block.Key, diags)
	}
	synthetic := &config.Synthetic{Key: block.Key, Spec: spec}
	if block.Description != nil {
		synthetic.Description = *block.Description
	}
	return synthetic, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
