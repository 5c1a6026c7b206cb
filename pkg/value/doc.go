// Package value holds the resolved form of a data point: either a scalar
// cty.Value or a series of points aligned to an ordered Index.
//
// Operations over values go through Map, which broadcasts scalars across the
// index shared by every series operand and evaluates element-wise in index
// order. Series with different indexes cannot be combined; Map reports them
// with a ShapeMismatchError instead of guessing an alignment.
package value
