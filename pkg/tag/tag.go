package tag

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/specialistvlad/synthtags/pkg/ops"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// Operator is the operation of a formula: a registry token or a raw callable.
type Operator struct {
	token    string
	callable *ops.Callable
}

// Token returns the registry token, or "" for a callable.
func (o Operator) Token() string { return o.token }

// Callable returns the raw callable, or nil for a token.
func (o Operator) Callable() *ops.Callable { return o.callable }

func (o Operator) String() string {
	if o.callable != nil {
		return o.callable.Name
	}
	return o.token
}

// Operand is one argument of a formula: a Tag or a literal.
type Operand struct {
	tag     *Tag
	literal cty.Value
}

// TagOperand wraps a Tag as an operand.
func TagOperand(t *Tag) Operand { return Operand{tag: t} }

// LiteralOperand wraps a literal as an operand.
func LiteralOperand(v cty.Value) Operand { return Operand{literal: v} }

// Tag returns the operand's Tag, or nil for a literal.
func (o Operand) Tag() *Tag { return o.tag }

// Literal returns the operand's literal value. It is only meaningful when
// Tag returns nil.
func (o Operand) Literal() cty.Value {
	if o.literal == cty.NilVal {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return o.literal
}

func (o Operand) String() string {
	if o.tag != nil {
		return o.tag.name
	}
	return value.Format(o.Literal())
}

// Tag is a node of an expression tree.
type Tag struct {
	name  string
	store string
	op    *Operator
	args  []Operand
	err   error
}

// New returns a leaf for the data point name in the default store.
func New(name string) *Tag {
	return NewInStore(name, "")
}

// NewInStore returns a leaf for the data point name in the named store.
func NewInStore(name, store string) *Tag {
	t := &Tag{name: name, store: store}
	if name == "" {
		t.err = errors.New("tag name must not be empty")
	}
	return t
}

// Name returns the tag name of a leaf or the rendered formula.
func (t *Tag) Name() string { return t.name }

// Store returns the store annotation of a leaf, "" meaning the default store.
func (t *Tag) Store() string { return t.store }

// IsLeaf reports whether t has no formula.
func (t *Tag) IsLeaf() bool { return t.op == nil }

// Operator returns the formula's operator. ok is false for leaves.
func (t *Tag) Operator() (op Operator, ok bool) {
	if t.op == nil {
		return Operator{}, false
	}
	return *t.op, true
}

// Operands returns a copy of the formula's operands.
func (t *Tag) Operands() []Operand {
	out := make([]Operand, len(t.args))
	copy(out, t.args)
	return out
}

// Err returns the first error recorded while building t or any of its
// operands.
func (t *Tag) Err() error { return t.err }

func (t *Tag) String() string { return t.name }

// Calc applies op to t followed by args. See Apply for the accepted op values.
func (t *Tag) Calc(op any, args ...any) *Tag {
	return Apply(op, append([]any{t}, args...)...)
}

// Apply builds a formula. op is a registry token (string), an *ops.Callable,
// an ops.Func or a plain func(...cty.Value) (cty.Value, error). Each arg is a
// *Tag, an Operand, or a literal convertible by value.FromGo.
//
// Wrapping the same function twice yields two distinct operators; reuse one
// *ops.Callable to let formulas share cached results.
func Apply(op any, args ...any) *Tag {
	operator, err := operatorOf(op)
	return build(operator, err, args)
}

// With builds a formula from an already resolved operator and operands.
func With(op Operator, operands ...Operand) *Tag {
	args := make([]any, len(operands))
	for i, o := range operands {
		args[i] = o
	}
	return build(op, nil, args)
}

func build(op Operator, err error, args []any) *Tag {
	t := &Tag{op: &op, err: err}
	t.args = make([]Operand, 0, len(args))
	for i, arg := range args {
		operand, argErr := operandOf(arg)
		if argErr != nil && t.err == nil {
			t.err = fmt.Errorf("operand %d of %s: %w", i, op, argErr)
		}
		t.args = append(t.args, operand)
	}
	t.name = render(op, t.args)
	return t
}

func operandOf(arg any) (Operand, error) {
	switch a := arg.(type) {
	case *Tag:
		if a == nil {
			return LiteralOperand(cty.NilVal), errors.New("nil tag")
		}
		return TagOperand(a), a.err
	case Operand:
		if a.tag != nil {
			return a, a.tag.err
		}
		return a, nil
	}
	lit, err := value.FromGo(arg)
	if err != nil {
		return LiteralOperand(cty.NilVal), err
	}
	return LiteralOperand(lit), nil
}

func operatorOf(op any) (Operator, error) {
	switch o := op.(type) {
	case string:
		if o == "" {
			return Operator{token: "?"}, errors.New("empty operator token")
		}
		return Operator{token: o}, nil
	case *ops.Callable:
		if o == nil || o.Fn == nil {
			return Operator{token: "?"}, errors.New("nil callable")
		}
		return Operator{callable: o}, nil
	case ops.Func:
		if o == nil {
			return Operator{token: "?"}, errors.New("nil callable")
		}
		return Operator{callable: ops.NewCallable(funcName(o), o)}, nil
	case func(...cty.Value) (cty.Value, error):
		if o == nil {
			return Operator{token: "?"}, errors.New("nil callable")
		}
		return Operator{callable: ops.NewCallable(funcName(o), o)}, nil
	}
	return Operator{token: fmt.Sprint(op)}, fmt.Errorf("unsupported operator type %T", op)
}

// funcName returns the bare Go name of fn, e.g. "foobar" for pkg.foobar.
func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
