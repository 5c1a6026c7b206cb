package resolver

import (
	"fmt"

	"github.com/specialistvlad/synthtags/pkg/value"
)

// eval computes node idx of p. Leaves and formulas are read from and written
// to the cache; literals are used as is.
func (r *Resolver) eval(p *plan, idx int) (value.Value, error) {
	n := &p.nodes[idx]
	switch n.kind {
	case literalNode:
		return value.Scalar(n.literal), nil
	case leafNode:
		v, ok := r.cache[n.key]
		if !ok {
			return value.Value{}, fmt.Errorf("%w: %s in store %q", errUnboundLeaf, n.name, n.store)
		}
		return v, nil
	}

	if v, ok := r.cache[n.key]; ok {
		r.observer.ObserveCache(true)
		return v, nil
	}
	r.observer.ObserveCache(false)

	operands := make([]value.Value, len(n.args))
	for i, arg := range n.args {
		v, err := r.eval(p, arg)
		if err != nil {
			return value.Value{}, err
		}
		operands[i] = v
	}

	v, err := value.Map(n.fn, operands...)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s: %w", n.name, err)
	}
	r.cache[n.key] = v
	return v, nil
}
