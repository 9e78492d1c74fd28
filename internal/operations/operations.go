// Package operations maps named operations of every resource onto resource
// client calls, one work item at a time.
package operations

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// Operation runs one named operation for one work item and returns a value
// ready to be serialized as JSON, or a *pulse.BinaryData.
type Operation func(ctx context.Context, params Parameters, itemIndex int, client pulse.ResourceClient) (interface{}, error)

// Definition lists the operations of one resource.
type Definition struct {
	Resource   pulse.ResourceType
	Operations map[string]Operation
}

// UnsupportedOperationError reports an operation name missing from a
// resource's table.
type UnsupportedOperationError struct {
	Resource  pulse.ResourceType
	Operation string
}

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("The operation %q is not supported for resource %q", e.Operation, e.Resource)
}

// Unwrap makes the error match pulse.ErrUnsupportedOperation.
func (e *UnsupportedOperationError) Unwrap() error {
	return pulse.ErrUnsupportedOperation
}

var definitions = map[pulse.ResourceType]Definition{}

func register(definition Definition) {
	definitions[definition.Resource] = definition
}

// bind adapts an operation written against a concrete client interface.
func bind[C pulse.ResourceClient](fn func(ctx context.Context, params Parameters, itemIndex int, client C) (interface{}, error)) Operation {
	return func(ctx context.Context, params Parameters, itemIndex int, client pulse.ResourceClient) (interface{}, error) {
		typed, ok := client.(C)
		if !ok {
			return nil, fmt.Errorf("%w: got %q", pulse.ErrClientMismatch, client.ResourceType())
		}

		return fn(ctx, params, itemIndex, typed)
	}
}

// NormalizeResource turns user input such as " Talent " into a resource tag.
func NormalizeResource(resource string) pulse.ResourceType {
	return pulse.ResourceType(strings.ToLower(strings.TrimSpace(resource)))
}

// Lookup finds an operation. Besides the canonical camelCase name it accepts
// kebab-case and snake_case spellings, e.g. "get-talent-list".
func Lookup(resource pulse.ResourceType, operation string) (Operation, error) {
	definition, ok := definitions[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", pulse.ErrUnsupportedResource, resource)
	}

	if op, ok := definition.Operations[operation]; ok {
		return op, nil
	}

	if op, ok := definition.Operations[strcase.ToLowerCamel(operation)]; ok {
		return op, nil
	}

	return nil, &UnsupportedOperationError{Resource: resource, Operation: operation}
}

// Dispatch runs operation for one item.
func Dispatch(ctx context.Context, resource pulse.ResourceType, operation string, params Parameters, itemIndex int, client pulse.ResourceClient) (interface{}, error) {
	op, err := Lookup(resource, operation)
	if err != nil {
		return nil, err
	}

	return op(ctx, params, itemIndex, client)
}

// Resources lists the resources with operations, sorted.
func Resources() []pulse.ResourceType {
	resources := make([]pulse.ResourceType, 0, len(definitions))
	for resource := range definitions {
		resources = append(resources, resource)
	}

	slices.Sort(resources)

	return resources
}

// Names lists the operation names of a resource, sorted.
func Names(resource pulse.ResourceType) []string {
	definition, ok := definitions[resource]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(definition.Operations))
	for name := range definition.Operations {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
