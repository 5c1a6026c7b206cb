// Package resolver evaluates named synthetic values defined as tag
// expressions.
//
// A Resolve call runs in four steps:
//
//  1. Collection binds every spec to a tree of nodes. A leaf without a store
//     annotation whose name is another spec key is replaced by that spec
//     (aliasing), and cycles introduced this way are rejected. Operators are
//     looked up here, so an unknown one fails before any store is called.
//  2. Fetching calls each store once with the leaf names it owns that are not
//     cached yet.
//  3. Evaluation walks each tree bottom-up, broadcasting scalars across
//     series operands. A null operand, e.g. a name the store knows nothing
//     about, makes the result null without calling the operation. This holds
//     for every operation, boolean ones and callables included: not(null) is
//     null, not true.
//  4. Every fetched leaf and computed formula is cached under its structural
//     identity, so later calls on the same Resolver reuse them.
//
// The cache lives exactly as long as the Resolver. A Resolver is not safe for
// concurrent use: give each goroutine its own, or guard it with a mutex.
package resolver
