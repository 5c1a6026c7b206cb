package hclconfig

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct {
	evalCtx *hcl.EvalContext
}

// NewConverter creates a new HCL converter. Store arguments may call env,
// format, lower, upper and trimspace.
func NewConverter() *Converter {
	return &Converter{
		evalCtx: &hcl.EvalContext{
			Functions: map[string]function.Function{
				"env":       envFunc,
				"format":    stdlib.FormatFunc,
				"lower":     stdlib.LowerFunc,
				"upper":     stdlib.UpperFunc,
				"trimspace": stdlib.TrimSpaceFunc,
			},
		},
	}
}

// DecodeBody decodes body into target using its `hcl` field tags.
func (c *Converter) DecodeBody(ctx context.Context, target any, body hcl.Body) error {
	logger := ctxlog.FromContext(ctx)

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, got %T", target)
	}
	if body == nil {
		return nil
	}

	logger.Debug("Decoding store body.", "target", fmt.Sprintf("%T", target))
	if diags := gohcl.DecodeBody(body, c.evalCtx, target); diags.HasErrors() {
		return diags
	}
	return nil
}

// envFunc reads an environment variable, falling back to an optional default.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		name := args[0].AsString()
		if v, ok := os.LookupEnv(name); ok {
			return cty.StringVal(v), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return cty.NilVal, fmt.Errorf("environment variable %q is not set", name)
	},
})
