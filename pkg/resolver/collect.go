package resolver

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/synthtags/pkg/ops"
	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
)

type nodeKind int

const (
	leafNode nodeKind = iota
	literalNode
	formulaNode
)

// node is a bound expression: aliases spliced, operators looked up. Nodes
// live in the plan's arena and refer to their operands by index.
type node struct {
	kind    nodeKind
	key     string
	name    string
	store   string
	literal cty.Value
	fn      ops.Func
	args    []int
}

// plan is the outcome of collection for one Resolve call.
type plan struct {
	nodes  []node
	byKey  map[string]int
	roots  map[string]int
	leaves map[string]map[string]struct{}
}

type color int

const (
	white color = iota
	gray
	black
)

type collector struct {
	r     *Resolver
	specs Specs
	plan  *plan
	color map[string]color
	bound map[string]int
	path  []string
}

// collect binds every spec in sorted key order.
func (r *Resolver) collect(specs Specs) (*plan, error) {
	c := &collector{
		r:     r,
		specs: specs,
		plan: &plan{
			byKey:  make(map[string]int),
			roots:  make(map[string]int, len(specs)),
			leaves: make(map[string]map[string]struct{}),
		},
		color: make(map[string]color, len(specs)),
		bound: make(map[string]int, len(specs)),
	}
	for _, key := range sortedKeys(specs) {
		idx, err := c.bindSpec(key)
		if err != nil {
			return nil, err
		}
		c.plan.roots[key] = idx
	}
	return c.plan, nil
}

// bindSpec binds a spec key with white/gray/black marking: reaching a gray
// key again means the key is on the current path and depends on itself.
func (c *collector) bindSpec(key string) (int, error) {
	switch c.color[key] {
	case black:
		return c.bound[key], nil
	case gray:
		return -1, c.cycle(key)
	}

	c.color[key] = gray
	c.path = append(c.path, key)
	idx, err := c.bindSpecValue(key, c.specs[key])
	c.path = c.path[:len(c.path)-1]
	if err != nil {
		return -1, err
	}
	c.color[key] = black
	c.bound[key] = idx
	return idx, nil
}

func (c *collector) bindSpecValue(key string, spec any) (int, error) {
	t, ok := spec.(*tag.Tag)
	if !ok {
		lit, err := value.FromGo(spec)
		if err != nil {
			return -1, &ConfigurationError{Spec: key, Err: err}
		}
		return c.addLiteral(lit), nil
	}
	if t == nil {
		return -1, &ConfigurationError{Spec: key, Err: errors.New("nil tag")}
	}
	return c.bindTag(t)
}

func (c *collector) bindTag(t *tag.Tag) (int, error) {
	if err := t.Err(); err != nil {
		return -1, c.configErr(t, err)
	}

	if t.IsLeaf() {
		if t.Store() == "" {
			if _, isSpec := c.specs[t.Name()]; isSpec {
				return c.bindSpec(t.Name())
			}
		}
		return c.addLeaf(t)
	}

	op, _ := t.Operator()
	var fn ops.Func
	if callable := op.Callable(); callable != nil {
		fn = callable.Fn
	} else {
		var err error
		if fn, err = c.r.registry.Lookup(op.Token()); err != nil {
			return -1, c.configErr(t, err)
		}
	}

	operands := t.Operands()
	args := make([]int, len(operands))
	keys := make([]string, len(operands))
	for i, operand := range operands {
		var idx int
		if sub := operand.Tag(); sub != nil {
			var err error
			if idx, err = c.bindTag(sub); err != nil {
				return -1, err
			}
		} else {
			idx = c.addLiteral(operand.Literal())
		}
		args[i] = idx
		keys[i] = c.plan.nodes[idx].key
	}

	key := formulaKey(c.r.operatorKey(op), keys)
	return c.add(node{kind: formulaNode, key: key, name: t.Name(), fn: fn, args: args}), nil
}

func (c *collector) addLeaf(t *tag.Tag) (int, error) {
	store := t.Store()
	if store == "" {
		store = DefaultStoreKey
	}
	if _, ok := c.r.stores[store]; !ok {
		return -1, c.configErr(t, fmt.Errorf("%w %q", ErrUnknownStore, store))
	}
	names, ok := c.plan.leaves[store]
	if !ok {
		names = make(map[string]struct{})
		c.plan.leaves[store] = names
	}
	names[t.Name()] = struct{}{}
	return c.add(node{kind: leafNode, key: leafKey(store, t.Name()), name: t.Name(), store: store}), nil
}

func (c *collector) addLiteral(v cty.Value) int {
	return c.add(node{kind: literalNode, key: literalKey(v), name: value.Format(v), literal: v})
}

// add stores n unless a node with the same key exists.
func (c *collector) add(n node) int {
	if idx, ok := c.plan.byKey[n.key]; ok {
		return idx
	}
	c.plan.nodes = append(c.plan.nodes, n)
	idx := len(c.plan.nodes) - 1
	c.plan.byKey[n.key] = idx
	return idx
}

func (c *collector) cycle(key string) error {
	start := 0
	for i, k := range c.path {
		if k == key {
			start = i
			break
		}
	}
	path := append(append([]string(nil), c.path[start:]...), key)

	formula := key
	if t, ok := c.specs[key].(*tag.Tag); ok && t != nil {
		formula = t.Name()
	}
	return &CyclicDefinitionError{Key: key, Path: path, Formula: formula}
}

func (c *collector) configErr(t *tag.Tag, err error) error {
	spec := ""
	if len(c.path) > 0 {
		spec = c.path[len(c.path)-1]
	}
	return &ConfigurationError{Spec: spec, Tag: t.Name(), Err: err}
}
