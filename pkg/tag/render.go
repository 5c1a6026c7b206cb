package tag

import (
	"strings"

	"github.com/specialistvlad/synthtags/pkg/ops"
)

var infix = map[string]bool{
	ops.Add: true, ops.Sub: true, ops.Mul: true, ops.Div: true,
	ops.FloorDiv: true, ops.Mod: true, ops.Pow: true,
	ops.And: true, ops.Or: true, ops.Xor: true,
	"&": true, "|": true, "^": true,
}

// render produces the display name of a formula: "([a] + [b])" for infix
// operators, "op([a], [b])" for everything else. A reverse token renders as
// its forward operator with the operands swapped back.
func render(op Operator, args []Operand) string {
	token := op.token
	if op.callable == nil && len(args) == 2 {
		if infix[token] {
			return "([" + args[0].String() + "] " + token + " [" + args[1].String() + "])"
		}
		if forward, ok := strings.CutPrefix(token, ops.ReversePrefix); ok && infix[forward] {
			return "([" + args[1].String() + "] " + forward + " [" + args[0].String() + "])"
		}
	}

	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = "[" + a.String() + "]"
	}
	return op.String() + "(" + strings.Join(parts, ", ") + ")"
}
