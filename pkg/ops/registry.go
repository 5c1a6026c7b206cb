package ops

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownOperator is returned by Lookup for tokens that are neither
// registered nor the reverse form of a reversible operator.
var ErrUnknownOperator = errors.New("unknown operator")

// ReversePrefix marks a binary token whose operands are swapped before the
// forward operation is applied.
const ReversePrefix = "r"

// Func is an n-ary operation over cty values.
type Func func(args ...cty.Value) (cty.Value, error)

// Callable is a raw function used in place of a registered token. Its pointer
// is its identity, so one Callable reused across formulas shares cached
// results while two Callables never do.
type Callable struct {
	Name string
	Fn   Func
}

// NewCallable wraps fn under a display name.
func NewCallable(name string, fn Func) *Callable {
	return &Callable{Name: name, Fn: fn}
}

// reversible are the binary operators that have a reverse token.
var reversible = map[string]bool{
	Sub: true, Div: true, FloorDiv: true, Mod: true, Pow: true,
	Add: true, Mul: true, "&": true, "|": true, "^": true,
}

// Reverse returns the reverse token of a binary operator.
func Reverse(token string) string {
	return ReversePrefix + token
}

// IsReversible reports whether token has a reverse form.
func IsReversible(token string) bool {
	return reversible[token]
}

// Registry is an immutable token to Func mapping.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry merges extra over the built-in operations. Entries in extra
// replace built-ins of the same token.
func NewRegistry(extra map[string]Func) *Registry {
	funcs := Builtins()
	for token, fn := range extra {
		funcs[token] = fn
	}
	return &Registry{funcs: funcs}
}

// With returns a new Registry holding r's operations merged with extra. r is
// left untouched.
func (r *Registry) With(extra map[string]Func) *Registry {
	funcs := make(map[string]Func, len(r.funcs)+len(extra))
	for token, fn := range r.funcs {
		funcs[token] = fn
	}
	for token, fn := range extra {
		funcs[token] = fn
	}
	return &Registry{funcs: funcs}
}

// Lookup resolves a token, including reverse tokens of the reversible
// operators. "rand" is not the reverse of "and" and fails like any other
// unknown token.
func (r *Registry) Lookup(token string) (Func, error) {
	if fn, ok := r.funcs[token]; ok {
		return fn, nil
	}
	if forward, ok := strings.CutPrefix(token, ReversePrefix); ok && reversible[forward] {
		if fn, ok := r.funcs[forward]; ok {
			return swapped(forward, fn), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, token)
}

// Has reports whether Lookup would succeed for token.
func (r *Registry) Has(token string) bool {
	_, err := r.Lookup(token)
	return err == nil
}

// Tokens returns the registered tokens in sorted order.
func (r *Registry) Tokens() []string {
	tokens := make([]string, 0, len(r.funcs))
	for token := range r.funcs {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func swapped(forward string, fn Func) Func {
	return func(args ...cty.Value) (cty.Value, error) {
		if len(args) != 2 {
			return cty.NilVal, fmt.Errorf("reverse of %q expects 2 operands, got %d", forward, len(args))
		}
		return fn(args[1], args[0])
	}
}
