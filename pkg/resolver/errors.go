package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/synthtags/pkg/value"
)

var (
	// ErrUnknownStore is wrapped by ConfigurationError when a leaf names a
	// store the resolver was not given.
	ErrUnknownStore = errors.New("unknown value store")

	// ErrIncompleteResult is returned when a store omits a requested name.
	ErrIncompleteResult = errors.New("store result is missing a requested name")

	errUnboundLeaf = errors.New("leaf has no value in context")
)

// ConfigurationError reports a spec that cannot be evaluated as written: an
// unknown operator, an unknown store, or a tag that failed to build.
type ConfigurationError struct {
	Spec string
	Tag  string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("spec %q: %v", e.Spec, e.Err)
	}
	return fmt.Sprintf("spec %q: tag %q: %v", e.Spec, e.Tag, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CyclicDefinitionError reports a spec that depends on itself through
// aliasing. Path lists the spec keys of the cycle, starting and ending with
// Key.
type CyclicDefinitionError struct {
	Key     string
	Path    []string
	Formula string
}

func (e *CyclicDefinitionError) Error() string {
	return fmt.Sprintf("cyclic definition of %q: %s in %s", e.Key, strings.Join(e.Path, " -> "), e.Formula)
}

// AmbiguousIdentityError reports a store returning a value for a name that is
// already bound to a different value under the same store.
type AmbiguousIdentityError struct {
	Store  string
	Name   string
	Cached value.Value
	Got    value.Value
}

func (e *AmbiguousIdentityError) Error() string {
	return fmt.Sprintf("store %q returned %s for %q, which is already bound to %s", e.Store, e.Got, e.Name, e.Cached)
}

// EvaluationError wraps a failure while computing a spec, such as a
// *value.ShapeMismatchError or an error returned by an operation.
type EvaluationError struct {
	Spec string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating spec %q: %v", e.Spec, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
