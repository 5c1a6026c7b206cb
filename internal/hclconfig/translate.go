package hclconfig

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/synthtags/pkg/ops"
	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/zclconf/go-cty/cty"
)

// tagFunc is the formula function that names a leaf explicitly.
const tagFunc = "tag"

var binaryOps = map[*hclsyntax.Operation]func(a, b any) *tag.Tag{
	hclsyntax.OpLogicalOr:          tag.Or,
	hclsyntax.OpLogicalAnd:         tag.And,
	hclsyntax.OpEqual:              tag.Eq,
	hclsyntax.OpNotEqual:           tag.Ne,
	hclsyntax.OpGreaterThan:        tag.Gt,
	hclsyntax.OpGreaterThanOrEqual: tag.Ge,
	hclsyntax.OpLessThan:           tag.Lt,
	hclsyntax.OpLessThanOrEqual:    tag.Le,
	hclsyntax.OpAdd:                tag.Add,
	hclsyntax.OpSubtract:           tag.Sub,
	hclsyntax.OpMultiply:           tag.Mul,
	hclsyntax.OpDivide:             tag.Div,
	hclsyntax.OpModulo:             tag.Mod,
}

// binaryFuncs are function names for operators HCL has no syntax for.
var binaryFuncs = map[string]func(a, b any) *tag.Tag{
	"pow":      tag.Pow,
	"floordiv": tag.FloorDiv,
	"mod":      tag.Mod,
	"xor":      tag.Xor,
}

// Translate turns a formula expression into resolver input: a *tag.Tag, or a
// cty.Value when the expression is a literal. Operators between literals
// become formulas, so they are computed by the resolver's operations.
func Translate(expr hcl.Expression) (any, hcl.Diagnostics) {
	spec, diags := translate(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	if t, ok := spec.(*tag.Tag); ok && t.Err() != nil {
		return nil, unsupported(expr, t.Err().Error())
	}
	return spec, nil
}

func translate(expr hcl.Expression) (any, hcl.Diagnostics) {
	if isLiteral(expr) {
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		return v, nil
	}

	switch e := expr.(type) {
	case *hclsyntax.ParenthesesExpr:
		return translate(e.Expression)
	case *hclsyntax.ScopeTraversalExpr:
		return translateTraversal(e)
	case *hclsyntax.BinaryOpExpr:
		build, ok := binaryOps[e.Op]
		if !ok {
			return nil, unsupported(e, "This operator cannot be used in a formula.")
		}
		lhs, diags := translate(e.LHS)
		if diags.HasErrors() {
			return nil, diags
		}
		rhs, diags := translate(e.RHS)
		if diags.HasErrors() {
			return nil, diags
		}
		return build(lhs, rhs), nil
	case *hclsyntax.UnaryOpExpr:
		val, diags := translate(e.Val)
		if diags.HasErrors() {
			return nil, diags
		}
		switch e.Op {
		case hclsyntax.OpLogicalNot:
			return tag.Not(val), nil
		case hclsyntax.OpNegate:
			return tag.Apply(ops.Neg, val), nil
		}
		return nil, unsupported(e, "This operator cannot be used in a formula.")
	case *hclsyntax.FunctionCallExpr:
		return translateCall(e)
	case *hclsyntax.ConditionalExpr:
		return nil, unsupported(e, "Conditional expressions cannot be used in a formula; use comparisons and boolean operators instead.")
	case *hclsyntax.ForExpr:
		return nil, unsupported(e, "For expressions cannot be used in a formula.")
	}
	return nil, unsupported(expr, "Only tag names, literals, operators and function calls can be used in a formula.")
}

// translateTraversal maps `name` to a leaf in the default store and
// `store.name` to a leaf in a named store.
func translateTraversal(e *hclsyntax.ScopeTraversalExpr) (any, hcl.Diagnostics) {
	switch len(e.Traversal) {
	case 1:
		return tag.New(e.Traversal.RootName()), nil
	case 2:
		if attr, ok := e.Traversal[1].(hcl.TraverseAttr); ok {
			return tag.NewInStore(attr.Name, e.Traversal.RootName()), nil
		}
	}
	return nil, unsupported(e, `A tag reference is either "name" or "store.name"; use tag("name", "store") for other names.`)
}

func translateCall(e *hclsyntax.FunctionCallExpr) (any, hcl.Diagnostics) {
	if e.ExpandFinal {
		return nil, unsupported(e, "Argument expansion cannot be used in a formula.")
	}
	if e.Name == tagFunc {
		return translateTagCall(e)
	}

	args := make([]any, len(e.Args))
	for i, arg := range e.Args {
		v, diags := translate(arg)
		if diags.HasErrors() {
			return nil, diags
		}
		args[i] = v
	}
	if build, ok := binaryFuncs[e.Name]; ok && len(args) == 2 {
		return build(args[0], args[1]), nil
	}
	return tag.Apply(e.Name, args...), nil
}

// translateTagCall handles tag("name") and tag("name", "store"), which reach
// names that are not valid HCL identifiers.
func translateTagCall(e *hclsyntax.FunctionCallExpr) (any, hcl.Diagnostics) {
	if len(e.Args) < 1 || len(e.Args) > 2 {
		return nil, unsupported(e, fmt.Sprintf("%s() takes a name and an optional store, got %d arguments.", tagFunc, len(e.Args)))
	}
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		if !isConstant(arg) {
			return nil, unsupported(arg, fmt.Sprintf("Arguments of %s() must be constant strings.", tagFunc))
		}
		v, diags := arg.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if v.IsNull() || v.Type() != cty.String {
			return nil, unsupported(arg, fmt.Sprintf("Arguments of %s() must be strings, got %s.", tagFunc, v.Type().FriendlyName()))
		}
		parts[i] = v.AsString()
	}
	if len(parts) == 1 {
		return tag.New(parts[0]), nil
	}
	return tag.NewInStore(parts[0], parts[1]), nil
}

// isLiteral reports whether expr is a value written out in the formula: a
// literal, a negative number, a string or a collection without references.
func isLiteral(expr hcl.Expression) bool {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return true
	case *hclsyntax.UnaryOpExpr:
		lit, ok := e.Val.(*hclsyntax.LiteralValueExpr)
		return ok && e.Op == hclsyntax.OpNegate && lit.Val.Type() == cty.Number
	case *hclsyntax.TemplateExpr, *hclsyntax.TemplateWrapExpr, *hclsyntax.TupleConsExpr, *hclsyntax.ObjectConsExpr:
		return isConstant(e)
	}
	return false
}

// isConstant reports whether expr can be evaluated without an eval context.
func isConstant(expr hcl.Expression) bool {
	if len(expr.Variables()) > 0 {
		return false
	}
	syntaxExpr, ok := expr.(hclsyntax.Expression)
	if !ok {
		return false
	}
	functions := make(map[string]struct{})
	walkForFunctions(syntaxExpr, functions)
	return len(functions) == 0
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, functions)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForFunctions(item.KeyExpr, functions)
			walkForFunctions(item.ValueExpr, functions)
		}
	case *hclsyntax.ForExpr:
		walkForFunctions(e.CollExpr, functions)
		walkForFunctions(e.KeyExpr, functions)
		walkForFunctions(e.ValExpr, functions)
		walkForFunctions(e.CondExpr, functions)
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.SplatExpr:
		walkForFunctions(e.Source, functions)
		walkForFunctions(e.Each, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}

func unsupported(expr hcl.Expression, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported formula expression",
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}}
}
