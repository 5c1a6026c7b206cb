package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/pkg/ops"
)

// ValidateRegistry checks that every store kind can be built and reports
// operations shadowing a built-in.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range sortedKeys(r.StoreRegistry) {
		handler := r.StoreRegistry[kind]
		if handler == nil || handler.CreateFn == nil {
			errs = append(errs, fmt.Sprintf("store kind '%s': missing create function", kind))
			continue
		}
		if handler.NewInput == nil {
			errs = append(errs, fmt.Sprintf("store kind '%s': missing input constructor", kind))
			continue
		}
		input := reflect.TypeOf(handler.NewInput())
		if input == nil || input.Kind() != reflect.Ptr || input.Elem().Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("store kind '%s': input must be a pointer to a struct, got %v", kind, input))
		}
	}

	builtins := ops.Builtins()
	for _, token := range sortedKeys(r.OperationRegistry) {
		if r.OperationRegistry[token] == nil {
			errs = append(errs, fmt.Sprintf("operation '%s': nil function", token))
			continue
		}
		if _, shadows := builtins[token]; shadows {
			logger.Warn("Registered operation shadows a built-in operation.", "token", token)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
