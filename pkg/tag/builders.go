package tag

import "github.com/specialistvlad/synthtags/pkg/ops"

// Add returns t + other.
func (t *Tag) Add(other any) *Tag { return t.Calc(ops.Add, other) }

// Sub returns t - other.
func (t *Tag) Sub(other any) *Tag { return t.Calc(ops.Sub, other) }

// Mul returns t * other.
func (t *Tag) Mul(other any) *Tag { return t.Calc(ops.Mul, other) }

// Div returns t / other.
func (t *Tag) Div(other any) *Tag { return t.Calc(ops.Div, other) }

// FloorDiv returns t // other, the quotient rounded towards negative infinity.
func (t *Tag) FloorDiv(other any) *Tag { return t.Calc(ops.FloorDiv, other) }

// Mod returns t % other, with the sign of other.
func (t *Tag) Mod(other any) *Tag { return t.Calc(ops.Mod, other) }

// Pow returns t ** other.
func (t *Tag) Pow(other any) *Tag { return t.Calc(ops.Pow, other) }

// And returns the boolean conjunction of t and other.
func (t *Tag) And(other any) *Tag { return t.Calc(ops.And, other) }

// Or returns the boolean disjunction of t and other.
func (t *Tag) Or(other any) *Tag { return t.Calc(ops.Or, other) }

// Xor returns the boolean exclusive or of t and other.
func (t *Tag) Xor(other any) *Tag { return t.Calc(ops.Xor, other) }

// Gt returns t > other.
func (t *Tag) Gt(other any) *Tag { return t.Calc(ops.Gt, other) }

// Ge returns t >= other.
func (t *Tag) Ge(other any) *Tag { return t.Calc(ops.Ge, other) }

// Lt returns t < other.
func (t *Tag) Lt(other any) *Tag { return t.Calc(ops.Lt, other) }

// Le returns t <= other.
func (t *Tag) Le(other any) *Tag { return t.Calc(ops.Le, other) }

// Eq returns t == other.
func (t *Tag) Eq(other any) *Tag { return t.Calc(ops.Eq, other) }

// Ne returns t != other.
func (t *Tag) Ne(other any) *Tag { return t.Calc(ops.Ne, other) }

// Not returns the boolean negation of t.
func (t *Tag) Not() *Tag { return t.Calc(ops.Not) }

// Bool returns the truth value of t.
func (t *Tag) Bool() *Tag { return t.Calc(ops.Bool) }

// BoolNot is Not.
func (t *Tag) BoolNot() *Tag { return t.Not() }

// Neg returns -t.
func (t *Tag) Neg() *Tag { return t.Calc(ops.Neg) }

// Recip returns 1 / t.
func (t *Tag) Recip() *Tag { return t.Calc(ops.Recip) }

// commutative operators keep their token when the operands are swapped.
var commutative = map[string]bool{
	ops.Add: true, ops.Mul: true,
	ops.And: true, ops.Or: true, ops.Xor: true,
	ops.Eq: true, ops.Ne: true,
}

// mirrored comparisons flip when the operands are swapped.
var mirrored = map[string]string{
	ops.Gt: ops.Lt,
	ops.Lt: ops.Gt,
	ops.Ge: ops.Le,
	ops.Le: ops.Ge,
}

// binary builds a OP b with the node on the left whenever only b is a node.
func binary(token string, a, b any) *Tag {
	if t, ok := a.(*Tag); ok {
		return t.Calc(token, b)
	}
	t, ok := b.(*Tag)
	if !ok {
		return Apply(token, a, b)
	}
	switch {
	case commutative[token]:
		return t.Calc(token, a)
	case mirrored[token] != "":
		return t.Calc(mirrored[token], a)
	default:
		return t.Calc(ops.Reverse(token), a)
	}
}

// Add returns a + b for any mix of tags and literals.
func Add(a, b any) *Tag { return binary(ops.Add, a, b) }

// Sub returns a - b. With a literal on the left it uses the reverse token, so
// Sub(2, t) computes 2 - t.
func Sub(a, b any) *Tag { return binary(ops.Sub, a, b) }

// Mul returns a * b.
func Mul(a, b any) *Tag { return binary(ops.Mul, a, b) }

// Div returns a / b.
func Div(a, b any) *Tag { return binary(ops.Div, a, b) }

// FloorDiv returns a // b, the quotient rounded down.
func FloorDiv(a, b any) *Tag { return binary(ops.FloorDiv, a, b) }

// Mod returns a % b, which takes the sign of b.
func Mod(a, b any) *Tag { return binary(ops.Mod, a, b) }

// Pow returns a ** b.
func Pow(a, b any) *Tag { return binary(ops.Pow, a, b) }

// And returns the boolean and of a and b.
func And(a, b any) *Tag { return binary(ops.And, a, b) }

// Or returns the boolean or of a and b.
func Or(a, b any) *Tag { return binary(ops.Or, a, b) }

// Xor returns the boolean exclusive or of a and b.
func Xor(a, b any) *Tag { return binary(ops.Xor, a, b) }

// Gt returns a > b. With a literal on the left it is built as b < a.
func Gt(a, b any) *Tag { return binary(ops.Gt, a, b) }

// Ge returns a >= b.
func Ge(a, b any) *Tag { return binary(ops.Ge, a, b) }

// Lt returns a < b.
func Lt(a, b any) *Tag { return binary(ops.Lt, a, b) }

// Le returns a <= b.
func Le(a, b any) *Tag { return binary(ops.Le, a, b) }

// Eq returns a == b.
func Eq(a, b any) *Tag { return binary(ops.Eq, a, b) }

// Ne returns a != b.
func Ne(a, b any) *Tag { return binary(ops.Ne, a, b) }

// Not returns the boolean negation of a.
func Not(a any) *Tag { return Apply(ops.Not, a) }

// Bool returns the truth value of a.
func Bool(a any) *Tag { return Apply(ops.Bool, a) }

// Sin returns the sine of a.
func Sin(a any) *Tag { return Apply(ops.Sin, a) }

// Cos returns the cosine of a.
func Cos(a any) *Tag { return Apply(ops.Cos, a) }

// Tan returns the tangent of a.
func Tan(a any) *Tag { return Apply(ops.Tan, a) }

// Sqrt returns the square root of a.
func Sqrt(a any) *Tag { return Apply(ops.Sqrt, a) }

// Log2 returns the base 2 logarithm of a.
func Log2(a any) *Tag { return Apply(ops.Log2, a) }

// Log10 returns the base 10 logarithm of a.
func Log10(a any) *Tag { return Apply(ops.Log10, a) }

// Ceil returns a rounded up.
func Ceil(a any) *Tag { return Apply(ops.Ceil, a) }

// Floor returns a rounded down.
func Floor(a any) *Tag { return Apply(ops.Floor, a) }

// Log returns the natural logarithm of a, or its logarithm to base when one
// is given.
func Log(a any, base ...any) *Tag {
	return Apply(ops.Log, append([]any{a}, base...)...)
}
