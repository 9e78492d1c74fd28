package operations

import (
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// Parameters resolves operation parameters by name for one work item. A
// missing parameter resolves to fallback; a nil fallback makes it required.
type Parameters interface {
	Get(name string, itemIndex int, fallback interface{}) (interface{}, error)
}

// MapParameters serves parameters from per-item maps, falling back to a map
// shared by every item.
type MapParameters struct {
	Items    []map[string]interface{}
	Defaults map[string]interface{}
}

// NewMapParameters creates parameters with shared defaults and one map per item.
func NewMapParameters(defaults map[string]interface{}, items ...map[string]interface{}) *MapParameters {
	return &MapParameters{Items: items, Defaults: defaults}
}

// Len returns the number of items, at least one.
func (p *MapParameters) Len() int {
	if len(p.Items) == 0 {
		return 1
	}

	return len(p.Items)
}

// Get implements Parameters.
func (p *MapParameters) Get(name string, itemIndex int, fallback interface{}) (interface{}, error) {
	if itemIndex >= 0 && itemIndex < len(p.Items) {
		if value, ok := p.Items[itemIndex][name]; ok && value != nil {
			return value, nil
		}
	}

	if value, ok := p.Defaults[name]; ok && value != nil {
		return value, nil
	}

	if fallback == nil {
		return nil, fmt.Errorf("%w: %s", pulse.ErrMissingParameter, name)
	}

	return fallback, nil
}

func invalidParameter(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", pulse.ErrInvalidParameter, name, err)
}

// requiredString resolves a non-blank string parameter.
func requiredString(params Parameters, name string, itemIndex int) (string, error) {
	raw, err := params.Get(name, itemIndex, nil)
	if err != nil {
		return "", err
	}

	var value string

	err = mapstructure.WeakDecode(raw, &value)
	if err != nil {
		return "", invalidParameter(name, err)
	}

	value = strings.TrimSpace(value)

	err = validation.Validate(value, validation.Required)
	if err != nil {
		return "", fmt.Errorf("%w: %s", pulse.ErrMissingParameter, name)
	}

	return value, nil
}

// optionalString resolves a string parameter, empty when absent.
func optionalString(params Parameters, name string, itemIndex int) (string, error) {
	raw, err := params.Get(name, itemIndex, "")
	if err != nil {
		return "", err
	}

	var value string

	err = mapstructure.WeakDecode(raw, &value)
	if err != nil {
		return "", invalidParameter(name, err)
	}

	return strings.TrimSpace(value), nil
}

// boolParam resolves a boolean parameter. Strings such as "true" are accepted.
func boolParam(params Parameters, name string, itemIndex int) (bool, error) {
	raw, err := params.Get(name, itemIndex, false)
	if err != nil {
		return false, err
	}

	var value bool

	err = mapstructure.WeakDecode(raw, &value)
	if err != nil {
		return false, invalidParameter(name, err)
	}

	return value, nil
}

// intParam resolves a non-negative integer parameter.
func intParam(params Parameters, name string, itemIndex int, fallback int) (int, error) {
	raw, err := params.Get(name, itemIndex, fallback)
	if err != nil {
		return 0, err
	}

	var value int

	err = mapstructure.WeakDecode(raw, &value)
	if err != nil {
		return 0, invalidParameter(name, err)
	}

	err = validation.Validate(value, validation.Min(0))
	if err != nil {
		return 0, invalidParameter(name, err)
	}

	return value, nil
}

// stringListParam resolves a list parameter given either as a list or as a
// comma-separated string. Blank entries are dropped.
func stringListParam(params Parameters, name string, itemIndex int) ([]string, error) {
	raw, err := params.Get(name, itemIndex, []string{})
	if err != nil {
		return nil, err
	}

	var values []string

	if text, ok := raw.(string); ok {
		values = strings.Split(text, ",")
	} else {
		err = mapstructure.WeakDecode(raw, &values)
		if err != nil {
			return nil, invalidParameter(name, err)
		}
	}

	out := make([]string, 0, len(values))

	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}

	return out, nil
}

// attributesParam resolves a free-form object given as a map or as JSON text.
// Malformed JSON is a usage error.
func attributesParam(params Parameters, name string, itemIndex int) (pulse.Attributes, error) {
	raw, err := params.Get(name, itemIndex, pulse.Attributes{})
	if err != nil {
		return nil, err
	}

	switch value := raw.(type) {
	case map[string]interface{}:
		return value, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return pulse.Attributes{}, nil
		}

		var attributes pulse.Attributes

		err = json.Unmarshal([]byte(value), &attributes)
		if err != nil {
			return nil, fmt.Errorf("%w in %s: %w", pulse.ErrInvalidJSON, name, err)
		}

		return attributes, nil
	default:
		var attributes pulse.Attributes

		err = mapstructure.Decode(value, &attributes)
		if err != nil {
			return nil, invalidParameter(name, err)
		}

		return attributes, nil
	}
}

// attributesListParam resolves a list of objects given as a list or as a JSON
// array.
func attributesListParam(params Parameters, name string, itemIndex int) ([]pulse.Attributes, error) {
	raw, err := params.Get(name, itemIndex, []pulse.Attributes{})
	if err != nil {
		return nil, err
	}

	if text, ok := raw.(string); ok {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}

		var list []pulse.Attributes

		err = json.Unmarshal([]byte(text), &list)
		if err != nil {
			return nil, fmt.Errorf("%w in %s: %w", pulse.ErrInvalidJSON, name, err)
		}

		return list, nil
	}

	var list []pulse.Attributes

	err = mapstructure.Decode(raw, &list)
	if err != nil {
		return nil, invalidParameter(name, err)
	}

	return list, nil
}

// relationshipsParam resolves JSON:API relationships given as a map or JSON
// text, keyed by relationship name.
func relationshipsParam(params Parameters, name string, itemIndex int) (map[string]pulse.Relationship, error) {
	raw, err := params.Get(name, itemIndex, "")
	if err != nil {
		return nil, err
	}

	var data []byte

	switch value := raw.(type) {
	case string:
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}

		data = []byte(value)
	default:
		data, err = json.Marshal(value)
		if err != nil {
			return nil, invalidParameter(name, err)
		}
	}

	var relationships map[string]pulse.Relationship

	err = json.Unmarshal(data, &relationships)
	if err != nil {
		return nil, fmt.Errorf("%w in %s: %w", pulse.ErrInvalidJSON, name, err)
	}

	return relationships, nil
}

// queryParam builds the query of a read operation from the "additionalFields"
// and "included" parameters.
func queryParam(params Parameters, itemIndex int) (pulse.QueryParams, error) {
	raw, err := params.Get("additionalFields", itemIndex, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	var loose map[string]interface{}

	if text, ok := raw.(string); ok {
		if strings.TrimSpace(text) != "" {
			err = json.Unmarshal([]byte(text), &loose)
			if err != nil {
				return nil, fmt.Errorf("%w in additionalFields: %w", pulse.ErrInvalidJSON, err)
			}
		}
	} else {
		err = mapstructure.Decode(raw, &loose)
		if err != nil {
			return nil, invalidParameter("additionalFields", err)
		}
	}

	fields, err := pulse.DecodeAdditionalFields(loose)
	if err != nil {
		return nil, err
	}

	included, err := stringListParam(params, "included", itemIndex)
	if err != nil {
		return nil, err
	}

	return pulse.BuildQueryParams(fields, included), nil
}

// document builds an outgoing document from the "attributes" and
// "relationships" parameters.
func document(params Parameters, itemIndex int, resourceType, id string) (*pulse.Document[pulse.Attributes], error) {
	attributes, err := attributesParam(params, "attributes", itemIndex)
	if err != nil {
		return nil, err
	}

	relationships, err := relationshipsParam(params, "relationships", itemIndex)
	if err != nil {
		return nil, err
	}

	doc := pulse.NewDocument(resourceType, id, attributes)
	for name, relationship := range relationships {
		doc.WithRelationship(name, relationship)
	}

	return doc, nil
}
