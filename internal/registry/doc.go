// Package registry provides the central "glue" for the module system.
//
// Modules register store kinds and operations with the Registry at startup.
// A store kind pairs a constructor for the module's input struct with a
// function creating the store from the decoded input; the application
// matches each configured `store` block to a registered kind by name.
//
// Registering the same kind or operation twice is a programming error and
// panics.
package registry
