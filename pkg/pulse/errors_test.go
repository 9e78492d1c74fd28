package pulse_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

func TestErrorReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"message field", 404, `{"message":"Resource not found"}`, "Resource not found"},
		{"json:api detail", 422, `{"errors":[{"title":"Invalid","detail":"name is required"}]}`, "name is required"},
		{"json:api title", 422, `{"errors":[{"title":"Invalid"}]}`, "Invalid"},
		{"empty body", 503, ``, "Service Unavailable"},
		{"not json", 502, `<html></html>`, "Bad Gateway"},
		{"unknown status", 599, ``, "HTTP 599"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, pulse.ErrorReason(testCase.status, []byte(testCase.body)))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	authErr := &pulse.AuthenticationError{StatusCode: 401, Reason: "Invalid credentials"}
	assert.Equal(t, "Authentication failed: Invalid credentials", authErr.Error())

	apiErr := &pulse.APIRequestError{StatusCode: 404, Reason: "Resource not found"}
	assert.Equal(t, "API request failed: Resource not found", apiErr.Error())
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	wrappedNotFound := fmt.Errorf("getting talent: %w", &pulse.APIRequestError{StatusCode: 404})
	assert.True(t, pulse.IsNotFound(wrappedNotFound))
	assert.False(t, pulse.IsNotFound(&pulse.APIRequestError{StatusCode: 500}))
	assert.False(t, pulse.IsNotFound(errors.New("plain")))

	assert.True(t, pulse.IsUnauthorized(&pulse.AuthenticationError{StatusCode: 401}))
	assert.True(t, pulse.IsUnauthorized(&pulse.APIRequestError{StatusCode: 401}))
	assert.False(t, pulse.IsUnauthorized(&pulse.APIRequestError{StatusCode: 403}))

	for _, err := range []error{
		pulse.ErrUnsupportedOperation,
		pulse.ErrUnsupportedResource,
		pulse.ErrMissingScopes,
		pulse.ErrInvalidJSON,
		pulse.ErrNoFieldsToUpdate,
		pulse.ErrMissingParameter,
		pulse.ErrInvalidParameter,
		pulse.ErrClientMismatch,
	} {
		assert.True(t, pulse.IsUsageError(err), err.Error())
	}

	assert.False(t, pulse.IsUsageError(&pulse.APIRequestError{StatusCode: 400}))
}
