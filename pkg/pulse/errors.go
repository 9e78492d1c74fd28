package pulse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AuthenticationError is returned when the login call is rejected.
type AuthenticationError struct {
	StatusCode int    `json:"status_code"`
	Reason     string `json:"reason"`
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "Authentication failed: " + e.Reason
}

// APIRequestError is returned for any non-2xx response from a data call.
type APIRequestError struct {
	StatusCode int    `json:"status_code"`
	Reason     string `json:"reason"`
	Body       []byte `json:"-"`
}

// Error implements the error interface.
func (e *APIRequestError) Error() string {
	return "API request failed: " + e.Reason
}

// ErrUsage is the root of every error raised locally, before any network
// call, because of an invalid combination of caller-supplied parameters.
var ErrUsage = errors.New("invalid usage")

// Usage errors. All of them satisfy errors.Is(err, ErrUsage).
var (
	ErrUnsupportedOperation = fmt.Errorf("%w: unsupported operation", ErrUsage)
	ErrUnsupportedResource  = fmt.Errorf("%w: unsupported resource", ErrUsage)
	ErrMissingScopes        = fmt.Errorf("%w: at least one scope is required", ErrUsage)
	ErrInvalidJSON          = fmt.Errorf("%w: invalid JSON", ErrUsage)
	ErrNoFieldsToUpdate     = fmt.Errorf("%w: no fields to update", ErrUsage)
	ErrMissingParameter     = fmt.Errorf("%w: missing required parameter", ErrUsage)
	ErrInvalidParameter     = fmt.Errorf("%w: invalid parameter", ErrUsage)
	ErrClientMismatch       = fmt.Errorf("%w: client does not serve this resource", ErrUsage)
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrNoTokenInLogin = errors.New("no token in login response")
)

// IsUsageError reports whether err was raised before any network call.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUsage)
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr := &APIRequestError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is a 401 from either login or a data call.
func IsUnauthorized(err error) bool {
	authErr := &AuthenticationError{}
	if errors.As(err, &authErr) {
		return authErr.StatusCode == http.StatusUnauthorized
	}

	apiErr := &APIRequestError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// errorBody is the subset of an error payload the API sends back.
type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// ErrorReason extracts a human readable reason from an error response body.
// It prefers the top-level "message" field, then the first JSON:API error,
// and finally the HTTP status text.
func ErrorReason(statusCode int, body []byte) string {
	var parsed errorBody

	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}

		if len(parsed.Errors) > 0 {
			if parsed.Errors[0].Detail != "" {
				return parsed.Errors[0].Detail
			}

			if parsed.Errors[0].Title != "" {
				return parsed.Errors[0].Title
			}
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}

	return fmt.Sprintf("HTTP %d", statusCode)
}
