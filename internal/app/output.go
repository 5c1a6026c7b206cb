package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// seriesDoc is the JSON shape of a series result.
type seriesDoc struct {
	Index  []any `json:"index"`
	Values []any `json:"values"`
}

// writeResults prints resolved values. Results that are all series on one
// index are printed as a single table with one column per key.
func writeResults(w io.Writer, format string, results map[string]value.Value) error {
	keys := sortedKeys(results)
	if format == OutputJSON {
		doc := make(map[string]any, len(results))
		for _, key := range keys {
			v, err := resultToGo(results[key])
			if err != nil {
				return fmt.Errorf("result %q: %w", key, err)
			}
			doc[key] = v
		}
		return writeJSON(w, doc)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if index, ok := sharedIndex(results); ok {
		fmt.Fprintf(tw, "INDEX\t%s\n", strings.Join(keys, "\t"))
		for i, label := range index {
			row := make([]string, 0, len(keys)+1)
			row = append(row, value.Format(label))
			for _, key := range keys {
				row = append(row, value.Format(results[key].At(i)))
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, results[key])
	}
	return tw.Flush()
}

// writeLatest prints one value per key.
func writeLatest(w io.Writer, format string, latest map[string]cty.Value) error {
	keys := sortedKeys(latest)
	if format == OutputJSON {
		doc := make(map[string]any, len(latest))
		for _, key := range keys {
			v, err := value.ToGo(latest[key])
			if err != nil {
				return fmt.Errorf("result %q: %w", key, err)
			}
			doc[key] = v
		}
		return writeJSON(w, doc)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, value.Format(latest[key]))
	}
	return tw.Flush()
}

// sharedIndex returns the index of the results when every one of them is a
// series on it.
func sharedIndex(results map[string]value.Value) (value.Index, bool) {
	var index value.Index
	found := false
	for _, v := range results {
		if !v.IsSeries() {
			return nil, false
		}
		if !found {
			index, found = v.Index(), true
			continue
		}
		if !v.Index().Equal(index) {
			return nil, false
		}
	}
	return index, found
}

func resultToGo(v value.Value) (any, error) {
	if !v.IsSeries() {
		return value.ToGo(v.Scalar())
	}
	doc := seriesDoc{
		Index:  make([]any, v.Len()),
		Values: make([]any, v.Len()),
	}
	for i, label := range v.Index() {
		var err error
		if doc.Index[i], err = value.ToGo(label); err != nil {
			return nil, err
		}
		if doc.Values[i], err = value.ToGo(v.At(i)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func writeJSON(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
