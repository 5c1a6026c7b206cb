package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

// Cache keys identify a node by structure, never by display name: a leaf by
// store and name, a literal by type and value, a formula by a digest of its
// operator and operand keys.

func leafKey(store, name string) string {
	return "leaf:" + store + ":" + strconv.Quote(name)
}

func literalKey(v cty.Value) string {
	return "lit:" + v.Type().FriendlyName() + ":" + value.Format(v)
}

// operatorKey numbers callables in order of first use. The resolver keeps
// every numbered callable alive, so a number is never reused.
func (r *Resolver) operatorKey(op tag.Operator) string {
	c := op.Callable()
	if c == nil {
		return "op:" + op.Token()
	}
	id, ok := r.callables[c]
	if !ok {
		id = len(r.callables) + 1
		r.callables[c] = id
	}
	return "callable:" + strconv.Itoa(id)
}

func formulaKey(operator string, operands []string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s", len(operator), operator)
	for _, k := range operands {
		fmt.Fprintf(h, "|%d:%s", len(k), k)
	}
	return "formula:" + hex.EncodeToString(h.Sum(nil))
}
