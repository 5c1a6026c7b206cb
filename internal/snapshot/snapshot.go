// Package snapshot defines the document shape shared by stores that receive
// values as YAML or JSON: an optional index and one entry per name.
//
//	index: [1700000000000, 1700000060000]
//	values:
//	  A1: [1, 2]
//	  B2: [3, null]
//
// Without an index every value is a scalar.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// Document is a store answer as found in a file or on the wire.
type Document struct {
	RequestID string         `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Index     []any          `json:"index,omitempty" yaml:"index,omitempty"`
	Values    map[string]any `json:"values" yaml:"values"`
}

// Decode converts generic decoded data, e.g. a socket.io payload, into a
// Document.
func Decode(data any) (Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Document{}, fmt.Errorf("encoding payload: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding payload: %w", err)
	}
	return doc, nil
}

// Result converts the entries for names into a resolver result. A name
// missing from the document resolves to null.
func (d Document) Result(names []string) (resolver.Result, error) {
	res := resolver.Result{Values: make(map[string]cty.Value, len(names))}
	if d.Index != nil {
		res.Index = make(value.Index, len(d.Index))
		for i, label := range d.Index {
			v, err := value.FromGo(label)
			if err != nil {
				return resolver.Result{}, fmt.Errorf("index label %d: %w", i, err)
			}
			res.Index[i] = v
		}
	}

	for _, name := range names {
		raw, ok := d.Values[name]
		if !ok {
			res.Values[name] = cty.NullVal(cty.DynamicPseudoType)
			continue
		}
		v, err := value.FromGo(raw)
		if err != nil {
			return resolver.Result{}, fmt.Errorf("value of %q: %w", name, err)
		}
		res.Values[name] = v
	}
	return res, nil
}
