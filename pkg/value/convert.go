package value

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// FromGo converts a native Go value into a cty.Value. Decoded JSON/YAML shapes
// (maps, slices, numbers, strings, bools) are handled directly; anything else
// falls back to gocty's implied type. NaN becomes null, the missing-value
// sentinel.
func FromGo(data any) (cty.Value, error) {
	switch v := data.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return v, nil
	case Value:
		if v.IsSeries() {
			return cty.NilVal, fmt.Errorf("a series cannot be used as a literal")
		}
		return v.Scalar(), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int32:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float32:
		return floatVal(float64(v)), nil
	case float64:
		return floatVal(v), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(v))
		for key, val := range v {
			ctyVal, err := FromGo(val)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = ctyVal
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(v))
		for _, val := range v {
			ctyVal, err := FromGo(val)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ctyVal)
		}
		return cty.TupleVal(elems), nil
	}

	ty, err := gocty.ImpliedType(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unsupported type for conversion to cty.Value: %T", data)
	}
	return gocty.ToCtyValue(data, ty)
}

func floatVal(f float64) cty.Value {
	if math.IsNaN(f) {
		return cty.NullVal(cty.Number)
	}
	return cty.NumberFloatVal(f)
}

// ToGo converts a cty.Value back into plain Go data suitable for JSON
// encoding. Whole numbers become int64, other numbers float64.
func ToGo(val cty.Value) (any, error) {
	if val == cty.NilVal || !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if ty.IsPrimitiveType() {
		switch ty {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			bf := val.AsBigFloat()
			if bf.IsInt() {
				if i, acc := bf.Int64(); acc == 0 {
					return i, nil
				}
			}
			f, _ := bf.Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", ty.FriendlyName())
		}
	}
	if ty.IsObjectType() || ty.IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			goVal, err := ToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = goVal
		}
		return out, nil
	}
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			goVal, err := ToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, goVal)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}

// Elements splits a list or tuple value into its elements. A null value yields
// n null elements, the shape a store uses for a name it knows nothing about.
func Elements(val cty.Value, n int) ([]cty.Value, error) {
	if val == cty.NilVal || val.IsNull() {
		out := make([]cty.Value, n)
		for i := range out {
			out[i] = cty.NullVal(cty.DynamicPseudoType)
		}
		return out, nil
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("expected a list of %d points, got %s", n, ty.FriendlyName())
	}
	if val.LengthInt() != n {
		return nil, fmt.Errorf("expected %d points, got %d", n, val.LengthInt())
	}
	out := make([]cty.Value, 0, n)
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		out = append(out, v)
	}
	return out, nil
}
