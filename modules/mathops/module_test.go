package mathops

import (
	"context"
	"testing"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/internal/testutil"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOperations(t *testing.T) {
	testCases := []struct {
		name string
		spec *tag.Tag
		want any
	}{
		{"max", tag.Apply("max", tag.New("A1"), tag.New("B7"), 3), 7.0},
		{"max of one", tag.Apply("max", tag.New("A4")), 4.0},
		{"min", tag.Apply("min", tag.New("A1"), tag.New("B7"), 3), 1.0},
		{"min with a bool", tag.Apply("min", tag.New("A5"), true), 1.0},
		{"abs", tag.Apply("abs", tag.New("A3").Neg()), 3.0},
		{"clamp below", tag.Apply("clamp", tag.New("A1"), 2, 5), 2.0},
		{"clamp inside", tag.Apply("clamp", tag.New("A3"), 2, 5), 3.0},
		{"clamp above", tag.Apply("clamp", tag.New("A9"), 2, 5), 5.0},
		{"is_even true", tag.Apply("is_even", tag.New("A4")), true},
		{"is_even false", tag.Apply("is_even", tag.New("A7")), false},
	}

	r := resolver.New(testutil.DigitStore(), resolver.WithOperations(Operations()))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := r.Resolve(context.Background(), resolver.Specs{"out": tc.spec})
			require.NoError(t, err)
			assert.Equal(t, tc.want, testutil.Scalar(t, res["out"]))
		})
	}
}

func TestOperations_Series(t *testing.T) {
	r := resolver.New(testutil.SeriesStore(), resolver.WithOperations(Operations()))
	res, err := r.Resolve(context.Background(), resolver.Specs{
		"even": tag.Apply("is_even", tag.New("A96")),
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.Bools(true, false, true, false, true, false, true), testutil.Points(t, res["even"]))
}

func TestOperations_Errors(t *testing.T) {
	fns := Operations()
	testCases := []struct {
		name  string
		token string
		args  []cty.Value
	}{
		{"max without operands", "max", nil},
		{"max of a string", "max", []cty.Value{cty.StringVal("x")}},
		{"abs arity", "abs", []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}},
		{"clamp arity", "clamp", []cty.Value{cty.NumberIntVal(1)}},
		{"clamp inverted", "clamp", []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(5), cty.NumberIntVal(2)}},
		{"is_even arity", "is_even", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fns[tc.token](tc.args...)
			require.Error(t, err)
		})
	}
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Len(t, r.OperationRegistry, 5)
	require.NoError(t, r.ValidateRegistry(context.Background()))
}
