package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/pulse/internal/auth"
	. "github.com/fivetwenty-io/pulse/internal/client"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// newTestClient creates a client against handler that presents a fixed token.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewWithTokenManager(&pulse.Config{APIURL: server.URL, APIKey: "key"}, auth.NewStaticTokenManager("test-token"))
	require.NoError(t, err)

	return client
}

// writeJSON writes a JSON response.
func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		assert.NoError(t, json.NewEncoder(writer).Encode(body))
	}
}

func resourceBody(resourceType, id string, attributes pulse.Attributes) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"type":       resourceType,
			"id":         id,
			"attributes": attributes,
		},
	}
}

// runCRUDTests exercises every CRUD method of a resource client against
// collectionPath.
//
//nolint:funlen // Test functions can be longer for comprehensive testing
func runCRUDTests(t *testing.T, collectionPath, resourceType string, pick func(*Client) pulse.CRUDClient) {
	t.Helper()

	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, collectionPath, request.URL.Path)
			assert.Equal(t, "name", request.URL.Query().Get("sort"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"data": []interface{}{
					resourceBody(resourceType, "1", pulse.Attributes{"name": "a"})["data"],
					resourceBody(resourceType, "2", pulse.Attributes{"name": "b"})["data"],
				},
			})
		})

		doc, err := pick(client).List(ctx, pulse.NewQueryParams().Set("sort", "name"))
		require.NoError(t, err)
		require.Len(t, doc.Data, 2)
		assert.Equal(t, "1", doc.Data[0].ID)
		assert.Equal(t, "b", doc.Data[1].Attributes["name"])
	})

	t.Run("Get", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, collectionPath+"/42", request.URL.Path)
			assert.Equal(t, []string{"owner"}, request.URL.Query()["included[]"])
			writeJSON(t, writer, http.StatusOK, resourceBody(resourceType, "42", pulse.Attributes{"name": "x"}))
		})

		doc, err := pick(client).Get(ctx, "42", pulse.BuildQueryParams(pulse.AdditionalFields{}, []string{"owner"}))
		require.NoError(t, err)
		assert.Equal(t, "42", doc.Data.ID)
		assert.Equal(t, resourceType, doc.Data.Type)
	})

	t.Run("Get requires an id", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			t.Error("no request expected")
		})

		_, err := pick(client).Get(ctx, "", nil)
		require.ErrorIs(t, err, pulse.ErrMissingParameter)
		assert.True(t, pulse.IsUsageError(err))
	})

	t.Run("Create", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, collectionPath, request.URL.Path)

			var body pulse.Document[pulse.Attributes]

			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, resourceType, body.Data.Type)
			assert.Equal(t, "new", body.Data.Attributes["name"])

			writeJSON(t, writer, http.StatusCreated, resourceBody(resourceType, "7", body.Data.Attributes))
		})

		doc, err := pick(client).Create(ctx, pulse.NewDocument(resourceType, "", pulse.Attributes{"name": "new"}))
		require.NoError(t, err)
		assert.Equal(t, "7", doc.Data.ID)
	})

	t.Run("Update", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPatch, request.Method)
			assert.Equal(t, collectionPath+"/7", request.URL.Path)

			var body pulse.Document[pulse.Attributes]

			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "7", body.Data.ID)

			writeJSON(t, writer, http.StatusOK, resourceBody(resourceType, "7", body.Data.Attributes))
		})

		doc, err := pick(client).Update(ctx, "7", pulse.NewDocument(resourceType, "", pulse.Attributes{"name": "renamed"}))
		require.NoError(t, err)
		assert.Equal(t, "renamed", doc.Data.Attributes["name"])
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodDelete, request.Method)
			assert.Equal(t, collectionPath+"/7", request.URL.Path)
			writer.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, pick(client).Delete(ctx, "7"))
	})

	t.Run("Delete not found", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(t, writer, http.StatusNotFound, map[string]string{"message": "Resource not found"})
		})

		err := pick(client).Delete(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, "API request failed: Resource not found", err.Error())
		assert.True(t, pulse.IsNotFound(err))
	})
}
