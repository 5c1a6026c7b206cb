package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Align returns the index shared by all series operands. ok is false when every
// operand is a scalar. Series with differing indexes yield a ShapeMismatchError,
// even when their lengths match.
func Align(operands ...Value) (index Index, ok bool, err error) {
	first := -1
	for i, op := range operands {
		if !op.series {
			continue
		}
		if first < 0 {
			first = i
			index = op.index
			continue
		}
		if !op.index.Equal(index) {
			return nil, false, &ShapeMismatchError{Operand: i, Want: index, Got: op.index}
		}
	}
	return index, first >= 0, nil
}

// Map applies fn to the operands. With any series among them, fn is applied
// once per label of the shared index, scalars being repeated at every
// position; otherwise fn is applied once to the scalars. A null argument
// yields a null result without calling fn.
func Map(fn func(args ...cty.Value) (cty.Value, error), operands ...Value) (Value, error) {
	index, isSeries, err := Align(operands...)
	if err != nil {
		return Value{}, err
	}

	if !isSeries {
		args := make([]cty.Value, len(operands))
		for i, op := range operands {
			args[i] = op.Scalar()
		}
		res, err := call(fn, args)
		if err != nil {
			return Value{}, err
		}
		return Scalar(res), nil
	}

	points := make([]cty.Value, len(index))
	for pos := range index {
		args := make([]cty.Value, len(operands))
		for i, op := range operands {
			args[i] = op.At(pos)
		}
		res, err := call(fn, args)
		if err != nil {
			return Value{}, fmt.Errorf("at %s: %w", Format(index[pos]), err)
		}
		points[pos] = res
	}
	return Value{index: index, points: points, series: true}, nil
}

func call(fn func(args ...cty.Value) (cty.Value, error), args []cty.Value) (cty.Value, error) {
	for _, a := range args {
		if a.IsNull() {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
	}
	return fn(args...)
}
