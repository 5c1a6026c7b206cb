// Package ops maps operator tokens to executable functions over cty values.
//
// A Registry is built once, by merging Builtins with caller-supplied
// operations, and is read-only afterwards. Reverse tokens ("r-", "r/", ...)
// are not stored: Lookup strips the prefix, finds the forward operation and
// swaps its two operands, so that a literal on the left of a node computes
// literal OP value.
package ops
