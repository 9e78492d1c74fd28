package pulse

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// QueryValue is a query parameter value: a single string or an ordered list.
// Lists are serialized with the bracket-array convention (key[]=a&key[]=b).
type QueryValue struct {
	Values []string
	Multi  bool
}

// Scalar returns a single-valued QueryValue.
func Scalar(value string) QueryValue {
	return QueryValue{Values: []string{value}}
}

// List returns a list-valued QueryValue.
func List(values ...string) QueryValue {
	return QueryValue{Values: values, Multi: true}
}

// QueryParams maps parameter names to values.
type QueryParams map[string]QueryValue

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() QueryParams {
	return QueryParams{}
}

// Set sets a scalar parameter.
func (q QueryParams) Set(key, value string) QueryParams {
	q[key] = Scalar(value)

	return q
}

// SetList sets a list parameter.
func (q QueryParams) SetList(key string, values ...string) QueryParams {
	q[key] = List(values...)

	return q
}

// WithPage sets page[number] and page[size].
func (q QueryParams) WithPage(number, size int) QueryParams {
	q[PageNumberParam] = Scalar(strconv.Itoa(number))
	q[PageSizeParam] = Scalar(strconv.Itoa(size))

	return q
}

// Clone returns a shallow copy with independent value slices.
func (q QueryParams) Clone() QueryParams {
	out := make(QueryParams, len(q))
	for key, value := range q {
		values := make([]string, len(value.Values))
		copy(values, value.Values)
		out[key] = QueryValue{Values: values, Multi: value.Multi}
	}

	return out
}

// ToValues converts the parameters to url.Values. List values are placed
// under "key[]".
func (q QueryParams) ToValues() url.Values {
	values := url.Values{}

	for key, value := range q {
		if value.Multi {
			for _, v := range value.Values {
				values.Add(key+"[]", v)
			}

			continue
		}

		if len(value.Values) > 0 {
			values.Set(key, value.Values[0])
		}
	}

	return values
}

// Encode returns the percent-encoded query string, keys sorted.
func (q QueryParams) Encode() string {
	return q.ToValues().Encode()
}

// Query parameter names used by the API.
const (
	IncludedParam   = "included"
	SortParam       = "sort"
	PageNumberParam = "page[number]"
	PageSizeParam   = "page[size]"
)

// Filter selects resources whose Key matches one of the comma-separated Values.
type Filter struct {
	Key    string `json:"key"    mapstructure:"key"    yaml:"key"`
	Values string `json:"values" mapstructure:"values" yaml:"values"`
}

// FieldSelection restricts the attributes returned for resource type Key.
type FieldSelection struct {
	Key    string `json:"key"    mapstructure:"key"    yaml:"key"`
	Fields string `json:"fields" mapstructure:"fields" yaml:"fields"`
}

// FilterGroup wraps the filter entries as the host sends them.
type FilterGroup struct {
	Filter []Filter `json:"filter,omitempty" mapstructure:"filter" yaml:"filter,omitempty"`
}

// FieldGroup wraps the field selections as the host sends them.
type FieldGroup struct {
	Field []FieldSelection `json:"field,omitempty" mapstructure:"field" yaml:"field,omitempty"`
}

// AdditionalFields is the optional-parameters bundle accepted by list operations.
type AdditionalFields struct {
	Sort       string      `json:"sort,omitempty"       mapstructure:"sort"       yaml:"sort,omitempty"`
	PageNumber *int        `json:"pageNumber,omitempty" mapstructure:"pageNumber" yaml:"pageNumber,omitempty"`
	PageSize   *int        `json:"pageSize,omitempty"   mapstructure:"pageSize"   yaml:"pageSize,omitempty"`
	Filters    FilterGroup `json:"filters,omitempty"    mapstructure:"filters"    yaml:"filters,omitempty"`
	Fields     FieldGroup  `json:"fields,omitempty"     mapstructure:"fields"     yaml:"fields,omitempty"`
}

// BuildQueryParams flattens additional fields and included relationships
// into query parameters. Pagination is only emitted when both the page number
// and the page size are present. Filter and field values are comma-split and
// trimmed. Keys and values are not validated.
func BuildQueryParams(fields AdditionalFields, included []string) QueryParams {
	params := NewQueryParams()

	if len(included) > 0 {
		params.SetList(IncludedParam, included...)
	}

	if fields.Sort != "" {
		params.Set(SortParam, fields.Sort)
	}

	if fields.PageNumber != nil && fields.PageSize != nil {
		params.WithPage(*fields.PageNumber, *fields.PageSize)
	}

	for _, filter := range fields.Filters.Filter {
		params.SetList("filter["+filter.Key+"]", splitTrim(filter.Values)...)
	}

	for _, field := range fields.Fields.Field {
		params.SetList("fields["+field.Key+"]", splitTrim(field.Fields)...)
	}

	return params
}

func splitTrim(value string) []string {
	parts := strings.Split(value, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	return parts
}

// DecodeAdditionalFields decodes a loosely typed parameter value, as a host
// runtime would supply it, into AdditionalFields. Numbers given as strings
// are accepted.
func DecodeAdditionalFields(raw map[string]interface{}) (AdditionalFields, error) {
	var fields AdditionalFields

	if len(raw) == 0 {
		return fields, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fields,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return fields, fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(raw)
	if err != nil {
		return fields, fmt.Errorf("%w: additional fields: %w", ErrInvalidParameter, err)
	}

	return fields, nil
}
