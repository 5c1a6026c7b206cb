// Package tag builds expression trees over named data points.
//
// A Tag is either a leaf, naming a data point in a value store, or a formula:
// an operator applied to an ordered list of operands, each of which is another
// Tag or a literal cty.Value. Tags are immutable. Every builder returns a new
// Tag and leaves its operands untouched, so sub-trees can be shared freely.
//
//	power := tag.New("A1").Add(tag.New("B2").Mul(tag.New("B3")))
//	ratio := tag.Div(110, tag.New("A11")) // 110 / A11
//
// A Tag's name is a human-readable rendering of its formula. It is cosmetic and
// plays no part in evaluation.
package tag
