package ops

import (
	"errors"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Operator tokens understood by the built-in registry.
const (
	Add      = "+"
	Sub      = "-"
	Mul      = "*"
	Div      = "/"
	FloorDiv = "//"
	Mod      = "%"
	Pow      = "**"

	And  = "and"
	Or   = "or"
	Xor  = "xor"
	Not  = "not"
	Bool = "bool"

	Gt = "gt"
	Ge = "ge"
	Lt = "lt"
	Le = "le"
	Eq = "eq"
	Ne = "ne"

	Sin   = "sin"
	Cos   = "cos"
	Tan   = "tan"
	Sqrt  = "sqrt"
	Log   = "log"
	Log2  = "log2"
	Log10 = "log10"
	Ceil  = "ceil"
	Floor = "floor"

	Recip = "recip"
	Neg   = "neg"
)

var errDivisionByZero = errors.New("division by zero")

// Builtins returns a fresh copy of the default operation table.
func Builtins() map[string]Func {
	return map[string]Func{
		Add:      binary(Add, add),
		Sub:      binary(Sub, numeric2(stdlib.Subtract)),
		Mul:      binary(Mul, numeric2(stdlib.Multiply)),
		Div:      binary(Div, numeric2(divide)),
		FloorDiv: binary(FloorDiv, numeric2(floorDivide)),
		Mod:      binary(Mod, numeric2(modulo)),
		Pow:      binary(Pow, numeric2(power)),

		And:  binary(And, logical(func(a, b bool) bool { return a && b })),
		Or:   binary(Or, logical(func(a, b bool) bool { return a || b })),
		Xor:  binary(Xor, logical(func(a, b bool) bool { return a != b })),
		"&":  binary("&", logical(func(a, b bool) bool { return a && b })),
		"|":  binary("|", logical(func(a, b bool) bool { return a || b })),
		"^":  binary("^", logical(func(a, b bool) bool { return a != b })),
		Not:  unary(Not, func(v cty.Value) (cty.Value, error) { return truthValue(v, true) }),
		Bool: unary(Bool, func(v cty.Value) (cty.Value, error) { return truthValue(v, false) }),

		Gt: binary(Gt, numeric2(stdlib.GreaterThan)),
		Ge: binary(Ge, numeric2(stdlib.GreaterThanOrEqualTo)),
		Lt: binary(Lt, numeric2(stdlib.LessThan)),
		Le: binary(Le, numeric2(stdlib.LessThanOrEqualTo)),
		Eq: binary(Eq, stdlib.Equal),
		Ne: binary(Ne, stdlib.NotEqual),

		Sin:   unary(Sin, float1(math.Sin)),
		Cos:   unary(Cos, float1(math.Cos)),
		Tan:   unary(Tan, float1(math.Tan)),
		Sqrt:  unary(Sqrt, float1(math.Sqrt)),
		Log2:  unary(Log2, float1(math.Log2)),
		Log10: unary(Log10, float1(math.Log10)),
		Log:   logarithm,
		Ceil:  unary(Ceil, numeric1(stdlib.Ceil)),
		Floor: unary(Floor, numeric1(stdlib.Floor)),

		Recip: unary(Recip, func(v cty.Value) (cty.Value, error) {
			n, err := Number(v)
			if err != nil {
				return cty.NilVal, err
			}
			return divide(cty.NumberIntVal(1), n)
		}),
		Neg: unary(Neg, numeric1(stdlib.Negate)),
	}
}

func unary(token string, fn func(cty.Value) (cty.Value, error)) Func {
	return func(args ...cty.Value) (cty.Value, error) {
		if len(args) != 1 {
			return cty.NilVal, fmt.Errorf("%q expects 1 operand, got %d", token, len(args))
		}
		return fn(args[0])
	}
}

func binary(token string, fn func(a, b cty.Value) (cty.Value, error)) Func {
	return func(args ...cty.Value) (cty.Value, error) {
		if len(args) != 2 {
			return cty.NilVal, fmt.Errorf("%q expects 2 operands, got %d", token, len(args))
		}
		return fn(args[0], args[1])
	}
}

// Number converts v to a cty.Number. Booleans count as 0 and 1; strings must
// hold a decimal number.
func Number(v cty.Value) (cty.Value, error) {
	if v.Type() == cty.Bool {
		if v.True() {
			return cty.NumberIntVal(1), nil
		}
		return cty.NumberIntVal(0), nil
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	return n, nil
}

// Float converts v to a float64 through Number.
func Float(v cty.Value) (float64, error) {
	n, err := Number(v)
	if err != nil {
		return 0, err
	}
	f, _ := n.AsBigFloat().Float64()
	return f, nil
}

// FloatVal turns a float64 result back into a value. NaN means the result is
// undefined for its inputs and becomes null.
func FloatVal(f float64) cty.Value {
	if math.IsNaN(f) {
		return cty.NullVal(cty.Number)
	}
	return cty.NumberFloatVal(f)
}

// Truthy reports the truth value of v: non-zero numbers, non-empty strings and
// collections are true. Null has no truth value; the resolver never passes
// one to an operation.
func Truthy(v cty.Value) (bool, error) {
	if v.IsNull() {
		return false, errors.New("null has no truth value")
	}
	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		return v.AsBigFloat().Sign() != 0, nil
	case ty == cty.String:
		return v.AsString() != "", nil
	case ty.IsCollectionType() || ty.IsTupleType() || ty.IsObjectType():
		return v.LengthInt() > 0, nil
	}
	return false, fmt.Errorf("cannot use %s as a boolean", ty.FriendlyName())
}

func truthValue(v cty.Value, negate bool) (cty.Value, error) {
	b, err := Truthy(v)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.BoolVal(b != negate), nil
}

func logical(fn func(a, b bool) bool) func(a, b cty.Value) (cty.Value, error) {
	return func(a, b cty.Value) (cty.Value, error) {
		x, err := Truthy(a)
		if err != nil {
			return cty.NilVal, err
		}
		y, err := Truthy(b)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(fn(x, y)), nil
	}
}

func numeric1(fn func(cty.Value) (cty.Value, error)) func(cty.Value) (cty.Value, error) {
	return func(v cty.Value) (cty.Value, error) {
		n, err := Number(v)
		if err != nil {
			return cty.NilVal, err
		}
		return fn(n)
	}
}

func numeric2(fn func(a, b cty.Value) (cty.Value, error)) func(a, b cty.Value) (cty.Value, error) {
	return func(a, b cty.Value) (cty.Value, error) {
		x, err := Number(a)
		if err != nil {
			return cty.NilVal, err
		}
		y, err := Number(b)
		if err != nil {
			return cty.NilVal, err
		}
		return fn(x, y)
	}
}

func float1(fn func(float64) float64) func(cty.Value) (cty.Value, error) {
	return func(v cty.Value) (cty.Value, error) {
		f, err := Float(v)
		if err != nil {
			return cty.NilVal, err
		}
		return FloatVal(fn(f)), nil
	}
}

// add concatenates two strings and sums anything else.
func add(a, b cty.Value) (cty.Value, error) {
	if a.Type() == cty.String && b.Type() == cty.String {
		return cty.StringVal(a.AsString() + b.AsString()), nil
	}
	return numeric2(stdlib.Add)(a, b)
}

func isZero(n cty.Value) bool {
	return n.AsBigFloat().Sign() == 0
}

func divide(a, b cty.Value) (cty.Value, error) {
	if isZero(b) {
		return cty.NilVal, errDivisionByZero
	}
	return stdlib.Divide(a, b)
}

// floorDivide rounds the quotient towards negative infinity.
func floorDivide(a, b cty.Value) (cty.Value, error) {
	q, err := divide(a, b)
	if err != nil {
		return cty.NilVal, err
	}
	return stdlib.Floor(q)
}

// modulo takes the sign of the divisor: a - b*floor(a/b).
func modulo(a, b cty.Value) (cty.Value, error) {
	q, err := floorDivide(a, b)
	if err != nil {
		return cty.NilVal, err
	}
	prod, err := stdlib.Multiply(b, q)
	if err != nil {
		return cty.NilVal, err
	}
	return stdlib.Subtract(a, prod)
}

func power(a, b cty.Value) (cty.Value, error) {
	x, _ := a.AsBigFloat().Float64()
	y, _ := b.AsBigFloat().Float64()
	if x == 0 && y < 0 {
		return cty.NilVal, errDivisionByZero
	}
	return FloatVal(math.Pow(x, y)), nil
}

// logarithm is the natural logarithm, or the logarithm to an explicit base
// when given a second operand.
func logarithm(args ...cty.Value) (cty.Value, error) {
	switch len(args) {
	case 1:
		return float1(math.Log)(args[0])
	case 2:
		x, err := Float(args[0])
		if err != nil {
			return cty.NilVal, err
		}
		base, err := Float(args[1])
		if err != nil {
			return cty.NilVal, err
		}
		if base == 1 {
			return cty.NilVal, errDivisionByZero
		}
		return FloatVal(math.Log(x) / math.Log(base)), nil
	}
	return cty.NilVal, fmt.Errorf("%q expects 1 or 2 operands, got %d", Log, len(args))
}
