package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func num(f float64) cty.Value { return cty.NumberFloatVal(f) }

func asFloat(t *testing.T, v cty.Value) float64 {
	t.Helper()
	require.Equal(t, cty.Number, v.Type())
	f, _ := v.AsBigFloat().Float64()
	return f
}

func call(t *testing.T, r *Registry, token string, args ...cty.Value) cty.Value {
	t.Helper()
	fn, err := r.Lookup(token)
	require.NoError(t, err)
	res, err := fn(args...)
	require.NoError(t, err)
	return res
}

func TestBuiltins_Arithmetic(t *testing.T) {
	r := NewRegistry(nil)

	tests := []struct {
		token string
		a, b  float64
		want  float64
	}{
		{Add, 2, 40, 42},
		{Sub, 10, 4, 6},
		{Mul, 6, 7, 42},
		{Div, 110, 11, 10},
		{Div, 1, 4, 0.25},
		{FloorDiv, 19, 4, 4},
		{FloorDiv, -7, 2, -4},
		{Mod, 14, 4, 2},
		{Mod, -7, 3, 2},
		{Pow, 3, 3, 27},
		{Pow, 2, -1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := call(t, r, tt.token, num(tt.a), num(tt.b))
			assert.InDelta(t, tt.want, asFloat(t, got), 1e-12)
		})
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []cty.Value{cty.True, num(2), cty.StringVal("x"), cty.ListVal([]cty.Value{num(1)})} {
		got, err := Truthy(v)
		require.NoError(t, err)
		assert.True(t, got, v.GoString())
	}
	for _, v := range []cty.Value{cty.False, num(0), cty.StringVal("")} {
		got, err := Truthy(v)
		require.NoError(t, err)
		assert.False(t, got, v.GoString())
	}

	_, err := Truthy(cty.NullVal(cty.Number))
	assert.ErrorContains(t, err, "null has no truth value")
}

func TestBuiltins_ReverseTokens(t *testing.T) {
	r := NewRegistry(nil)

	assert.InDelta(t, 10.0, asFloat(t, call(t, r, "r/", num(11), num(110))), 1e-12)
	assert.InDelta(t, 6.0, asFloat(t, call(t, r, "r-", num(4), num(10))), 1e-12)
	assert.InDelta(t, 8.0, asFloat(t, call(t, r, "r**", num(3), num(2))), 1e-12)
	assert.InDelta(t, 2.0, asFloat(t, call(t, r, "r%", num(4), num(14))), 1e-12)
	assert.InDelta(t, 4.0, asFloat(t, call(t, r, "r//", num(4), num(19))), 1e-12)
}

func TestBuiltins_DivisionByZero(t *testing.T) {
	r := NewRegistry(nil)
	for _, token := range []string{Div, FloorDiv, Mod, Recip} {
		fn, err := r.Lookup(token)
		require.NoError(t, err)
		args := []cty.Value{num(1), num(0)}
		if token == Recip {
			args = []cty.Value{num(0)}
		}
		_, err = fn(args...)
		assert.ErrorIs(t, err, errDivisionByZero, token)
	}
}

func TestBuiltins_BooleansAndComparisons(t *testing.T) {
	r := NewRegistry(nil)

	assert.True(t, call(t, r, And, num(1), cty.True).True())
	assert.False(t, call(t, r, And, num(0), cty.True).True())
	assert.True(t, call(t, r, Or, num(0), cty.StringVal("x")).True())
	assert.True(t, call(t, r, Xor, cty.True, cty.False).True())
	assert.False(t, call(t, r, "^", cty.True, cty.True).True())
	assert.True(t, call(t, r, Not, num(0)).True())
	assert.False(t, call(t, r, Bool, cty.StringVal("")).True())

	assert.True(t, call(t, r, Gt, num(3), num(2)).True())
	assert.True(t, call(t, r, Ge, num(2), num(2)).True())
	assert.False(t, call(t, r, Lt, num(3), num(2)).True())
	assert.True(t, call(t, r, Le, cty.True, num(1)).True())
	assert.True(t, call(t, r, Eq, cty.NumberIntVal(2), num(2)).True())
	assert.True(t, call(t, r, Ne, num(2), num(3)).True())
}

func TestBuiltins_Math(t *testing.T) {
	r := NewRegistry(nil)

	assert.InDelta(t, 0.0, asFloat(t, call(t, r, Sin, num(0))), 1e-12)
	assert.InDelta(t, 1.0, asFloat(t, call(t, r, Cos, num(0))), 1e-12)
	assert.InDelta(t, 3.0, asFloat(t, call(t, r, Sqrt, num(9))), 1e-12)
	assert.InDelta(t, 3.0, asFloat(t, call(t, r, Log2, num(8))), 1e-12)
	assert.InDelta(t, 2.0, asFloat(t, call(t, r, Log10, num(100))), 1e-12)
	assert.InDelta(t, 1.0, asFloat(t, call(t, r, Log, num(math.E))), 1e-12)
	assert.InDelta(t, 2.0, asFloat(t, call(t, r, Log, num(9), num(3))), 1e-12)
	assert.InDelta(t, 3.0, asFloat(t, call(t, r, Ceil, num(2.1))), 1e-12)
	assert.InDelta(t, 2.0, asFloat(t, call(t, r, Floor, num(2.9))), 1e-12)
	assert.InDelta(t, 0.25, asFloat(t, call(t, r, Recip, num(4))), 1e-12)
	assert.InDelta(t, -4.0, asFloat(t, call(t, r, Neg, num(4))), 1e-12)

	assert.True(t, call(t, r, Sqrt, num(-1)).IsNull(), "undefined results are null")
}

func TestBuiltins_StringOperands(t *testing.T) {
	r := NewRegistry(nil)

	assert.Equal(t, "ab", call(t, r, Add, cty.StringVal("a"), cty.StringVal("b")).AsString())
	assert.InDelta(t, 6.0, asFloat(t, call(t, r, Add, cty.StringVal("5"), num(1))), 1e-12)

	fn, err := r.Lookup(Mul)
	require.NoError(t, err)
	_, err = fn(cty.StringVal("five"), num(1))
	assert.ErrorContains(t, err, "expected a number")
}

func TestBuiltins_Arity(t *testing.T) {
	r := NewRegistry(nil)

	fn, err := r.Lookup(Add)
	require.NoError(t, err)
	_, err = fn(num(1))
	assert.ErrorContains(t, err, `"+" expects 2 operands, got 1`)

	fn, err = r.Lookup("r-")
	require.NoError(t, err)
	_, err = fn(num(1), num(2), num(3))
	assert.ErrorContains(t, err, "expects 2 operands")
}

func TestRegistry_UnknownOperator(t *testing.T) {
	r := NewRegistry(nil)

	for _, token := range []string{"foo", "rfoo", "r", "", "rand", "rsin", "rnot", "rlog", "rgt"} {
		_, err := r.Lookup(token)
		assert.ErrorIs(t, err, ErrUnknownOperator, token)
		assert.False(t, r.Has(token))
	}
}

func TestRegistry_ReverseOnlyForReversibleOperators(t *testing.T) {
	r := NewRegistry(map[string]Func{"span": func(args ...cty.Value) (cty.Value, error) {
		return args[0].Subtract(args[1]), nil
	}})

	assert.True(t, r.Has("r-"))
	assert.True(t, r.Has("r^"))
	assert.False(t, r.Has("rspan"), "extra operations have no reverse form")
	assert.True(t, IsReversible(Pow))
	assert.False(t, IsReversible(And))
}

func TestRegistry_ExtraOperations(t *testing.T) {
	double := func(args ...cty.Value) (cty.Value, error) {
		return args[0].Multiply(cty.NumberIntVal(2)), nil
	}
	base := NewRegistry(nil)
	r := base.With(map[string]Func{"double": double})

	assert.InDelta(t, 8.0, asFloat(t, call(t, r, "double", num(4))), 1e-12)
	assert.False(t, base.Has("double"), "With must not touch the receiver")
	assert.Contains(t, r.Tokens(), "double")

	// Extra entries shadow built-ins of the same token.
	shadow := NewRegistry(map[string]Func{Add: double})
	assert.InDelta(t, 8.0, asFloat(t, call(t, shadow, Add, num(4))), 1e-12)
}

func TestBuiltins_ReturnsFreshTable(t *testing.T) {
	a := Builtins()
	delete(a, Add)
	_, ok := Builtins()[Add]
	assert.True(t, ok)
}
