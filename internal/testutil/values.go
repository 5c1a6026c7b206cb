package testutil

import (
	"testing"

	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// Native converts a scalar point into float64, bool or string for
// comparison in tests. Null becomes nil.
func Native(t *testing.T, v cty.Value) any {
	t.Helper()
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case cty.Bool:
		return v.True()
	case cty.String:
		return v.AsString()
	}
	require.Failf(t, "unexpected type", "cannot compare a %s", v.Type().FriendlyName())
	return nil
}

// Scalar asserts that v is a scalar and returns it via Native.
func Scalar(t *testing.T, v value.Value) any {
	t.Helper()
	require.False(t, v.IsSeries(), "expected a scalar, got %s", v)
	return Native(t, v.Scalar())
}

// Points asserts that v is a series and returns its points via Native.
func Points(t *testing.T, v value.Value) []any {
	t.Helper()
	require.True(t, v.IsSeries(), "expected a series, got %s", v)
	out := make([]any, len(v.Points()))
	for i, p := range v.Points() {
		out[i] = Native(t, p)
	}
	return out
}

// Floats is a shorthand for building expected series of numbers.
func Floats(nums ...float64) []any {
	out := make([]any, len(nums))
	for i, n := range nums {
		out[i] = n
	}
	return out
}

// Bools is a shorthand for building expected series of booleans.
func Bools(bs ...bool) []any {
	out := make([]any, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}
