// Package hclconfig is the HCL implementation of config.Loader and
// config.Converter.
//
// A formula file holds `store` blocks, whose remaining arguments belong to
// the store's module, and `synthetic` blocks, whose `value` expression is
// translated into a tag tree instead of being evaluated:
//
//	store "plant" {
//	  kind    = "yaml"
//	  default = true
//	  path    = "fixtures.yaml"
//	}
//
//	synthetic "power" {
//	  value = A1 + B2 * B3
//	}
//
// Bare names become leaves in the default store, `store.name` and
// `tag("name", "store")` become leaves in a named store, operators and
// function calls become formulas, and literals stay values. Operators
// between literals are formulas too: `-7 % 2` is computed by the resolver
// exactly like `A1 % 2`.
package hclconfig
