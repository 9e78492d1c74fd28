package pulse_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

func intPtr(n int) *int {
	return &n
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestBuildQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fields   pulse.AdditionalFields
		included []string
		expected pulse.QueryParams
	}{
		{
			name:     "empty",
			expected: pulse.QueryParams{},
		},
		{
			name:     "included relationships",
			included: []string{"owner", "stages"},
			expected: pulse.QueryParams{"included": pulse.List("owner", "stages")},
		},
		{
			name:     "sort",
			fields:   pulse.AdditionalFields{Sort: "-createdAt"},
			expected: pulse.QueryParams{"sort": pulse.Scalar("-createdAt")},
		},
		{
			name:   "page number and size",
			fields: pulse.AdditionalFields{PageNumber: intPtr(2), PageSize: intPtr(10)},
			expected: pulse.QueryParams{
				"page[number]": pulse.Scalar("2"),
				"page[size]":   pulse.Scalar("10"),
			},
		},
		{
			name:     "page number without size",
			fields:   pulse.AdditionalFields{PageNumber: intPtr(2)},
			expected: pulse.QueryParams{},
		},
		{
			name:     "page size without number",
			fields:   pulse.AdditionalFields{PageSize: intPtr(10)},
			expected: pulse.QueryParams{},
		},
		{
			name: "filters are split and trimmed",
			fields: pulse.AdditionalFields{Filters: pulse.FilterGroup{Filter: []pulse.Filter{
				{Key: "status", Values: "a, b ,c"},
			}}},
			expected: pulse.QueryParams{"filter[status]": pulse.List("a", "b", "c")},
		},
		{
			name: "field selections are split and trimmed",
			fields: pulse.AdditionalFields{Fields: pulse.FieldGroup{Field: []pulse.FieldSelection{
				{Key: "talents", Fields: "firstName, lastName"},
			}}},
			expected: pulse.QueryParams{"fields[talents]": pulse.List("firstName", "lastName")},
		},
		{
			name: "everything",
			fields: pulse.AdditionalFields{
				Sort:       "name",
				PageNumber: intPtr(1),
				PageSize:   intPtr(25),
				Filters:    pulse.FilterGroup{Filter: []pulse.Filter{{Key: "office", Values: "paris"}}},
			},
			included: []string{"office"},
			expected: pulse.QueryParams{
				"included":       pulse.List("office"),
				"sort":           pulse.Scalar("name"),
				"page[number]":   pulse.Scalar("1"),
				"page[size]":     pulse.Scalar("25"),
				"filter[office]": pulse.List("paris"),
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := pulse.BuildQueryParams(testCase.fields, testCase.included)
			assert.Equal(t, testCase.expected, result)
		})
	}
}

func TestBuildQueryParams_Deterministic(t *testing.T) {
	t.Parallel()

	fields := pulse.AdditionalFields{
		Sort:       "name",
		PageNumber: intPtr(3),
		PageSize:   intPtr(5),
		Filters:    pulse.FilterGroup{Filter: []pulse.Filter{{Key: "status", Values: "open,closed"}}},
	}
	included := []string{"owner"}

	first := pulse.BuildQueryParams(fields, included)
	second := pulse.BuildQueryParams(fields, included)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Encode(), second.Encode())
	assert.Equal(t, 3, *fields.PageNumber)
	assert.Equal(t, []string{"owner"}, included)
}

func TestQueryParams_Encode(t *testing.T) {
	t.Parallel()

	params := pulse.NewQueryParams().
		Set("sort", "-name").
		SetList("filter[status]", "open", "closed").
		WithPage(1, 20)

	assert.Equal(t,
		"filter%5Bstatus%5D%5B%5D=open&filter%5Bstatus%5D%5B%5D=closed&page%5Bnumber%5D=1&page%5Bsize%5D=20&sort=-name",
		params.Encode())

	values := params.ToValues()
	assert.Equal(t, url.Values{
		"filter[status][]": []string{"open", "closed"},
		"page[number]":     []string{"1"},
		"page[size]":       []string{"20"},
		"sort":             []string{"-name"},
	}, values)
}

func TestQueryParams_Clone(t *testing.T) {
	t.Parallel()

	original := pulse.NewQueryParams().SetList("included", "owner")
	clone := original.Clone()
	clone["included"].Values[0] = "changed"
	clone.Set("sort", "name")

	assert.Equal(t, "owner", original["included"].Values[0])
	assert.NotContains(t, original, "sort")
}

func TestDecodeAdditionalFields(t *testing.T) {
	t.Parallel()

	t.Run("loose host values", func(t *testing.T) {
		t.Parallel()

		fields, err := pulse.DecodeAdditionalFields(map[string]interface{}{
			"sort":       "name",
			"pageNumber": "2",
			"pageSize":   10,
			"filters": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"key": "status", "values": "open"},
				},
			},
			"fields": map[string]interface{}{
				"field": []interface{}{
					map[string]interface{}{"key": "talents", "fields": "firstName"},
				},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "name", fields.Sort)
		require.NotNil(t, fields.PageNumber)
		assert.Equal(t, 2, *fields.PageNumber)
		require.NotNil(t, fields.PageSize)
		assert.Equal(t, 10, *fields.PageSize)
		assert.Equal(t, []pulse.Filter{{Key: "status", Values: "open"}}, fields.Filters.Filter)
		assert.Equal(t, []pulse.FieldSelection{{Key: "talents", Fields: "firstName"}}, fields.Fields.Field)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		fields, err := pulse.DecodeAdditionalFields(nil)
		require.NoError(t, err)
		assert.Nil(t, fields.PageNumber)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := pulse.DecodeAdditionalFields(map[string]interface{}{"pageNumber": "two"})
		require.ErrorIs(t, err, pulse.ErrInvalidParameter)
		assert.True(t, pulse.IsUsageError(err))
	})
}
