// Package mathops registers operations beyond the built-in set: max, min,
// abs, clamp and is_even.
package mathops

import (
	"fmt"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/pkg/ops"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Operations returns the module's operations by token.
func Operations() map[string]ops.Func {
	return map[string]ops.Func{
		"max":     variadic("max", stdlib.Max),
		"min":     variadic("min", stdlib.Min),
		"abs":     abs,
		"clamp":   clamp,
		"is_even": isEven,
	}
}

// Register registers the operations with the registry.
func (m *Module) Register(r *registry.Registry) {
	for token, fn := range Operations() {
		r.RegisterOperation(token, fn)
	}
}

func numbers(args []cty.Value) ([]cty.Value, error) {
	out := make([]cty.Value, len(args))
	for i, a := range args {
		n, err := ops.Number(a)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func variadic(token string, fn func(...cty.Value) (cty.Value, error)) ops.Func {
	return func(args ...cty.Value) (cty.Value, error) {
		if len(args) == 0 {
			return cty.NilVal, fmt.Errorf("%q expects at least 1 operand", token)
		}
		nums, err := numbers(args)
		if err != nil {
			return cty.NilVal, err
		}
		return fn(nums...)
	}
}

func abs(args ...cty.Value) (cty.Value, error) {
	if len(args) != 1 {
		return cty.NilVal, fmt.Errorf("%q expects 1 operand, got %d", "abs", len(args))
	}
	nums, err := numbers(args)
	if err != nil {
		return cty.NilVal, err
	}
	return stdlib.Absolute(nums[0])
}

// clamp(x, lo, hi) limits x to [lo, hi].
func clamp(args ...cty.Value) (cty.Value, error) {
	if len(args) != 3 {
		return cty.NilVal, fmt.Errorf("%q expects 3 operands, got %d", "clamp", len(args))
	}
	nums, err := numbers(args)
	if err != nil {
		return cty.NilVal, err
	}
	if nums[1].GreaterThan(nums[2]).True() {
		return cty.NilVal, fmt.Errorf("clamp bounds are inverted: %s > %s", nums[1].AsBigFloat().String(), nums[2].AsBigFloat().String())
	}
	lower, err := stdlib.Max(nums[0], nums[1])
	if err != nil {
		return cty.NilVal, err
	}
	return stdlib.Min(lower, nums[2])
}

func isEven(args ...cty.Value) (cty.Value, error) {
	if len(args) != 1 {
		return cty.NilVal, fmt.Errorf("%q expects 1 operand, got %d", "is_even", len(args))
	}
	nums, err := numbers(args)
	if err != nil {
		return cty.NilVal, err
	}
	rem := nums[0].Modulo(cty.NumberIntVal(2))
	return rem.Equals(cty.Zero), nil
}
