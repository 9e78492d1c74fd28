package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRecruitmentClient_CreateCampaignWithStages(t *testing.T) {
	t.Parallel()

	campaign := func() *pulse.Document[pulse.Attributes] {
		return pulse.NewDocument("", "", pulse.Attributes{"name": "Backend engineer"})
	}

	stages := []pulse.Attributes{{"name": "Screening"}, {"name": "Interview"}}

	t.Run("creates campaign then stages", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/api/v3/recruitment/campaigns":
				var body pulse.Document[pulse.Attributes]

				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.Equal(t, "campaigns", body.Data.Type)
				writeJSON(t, writer, http.StatusCreated, resourceBody("campaigns", "c1", body.Data.Attributes))
			case "/api/v3/recruitment/campaigns/c1/stages":
				var body pulse.ListDocument[pulse.Attributes]

				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				if !assert.Len(t, body.Data, 2) {
					return
				}

				assert.Equal(t, "stages", body.Data[0].Type)
				assert.Equal(t, "Interview", body.Data[1].Attributes["name"])

				writeJSON(t, writer, http.StatusCreated, map[string]interface{}{
					"data": []interface{}{
						resourceBody("stages", "s1", body.Data[0].Attributes)["data"],
						resourceBody("stages", "s2", body.Data[1].Attributes)["data"],
					},
				})
			default:
				t.Errorf("unexpected path %s", request.URL.Path)
			}
		})

		result, err := client.Recruitment().CreateCampaignWithStages(context.Background(), campaign(), stages)
		require.NoError(t, err)
		assert.False(t, result.Partial())
		assert.Equal(t, "c1", result.Campaign.Data.ID)
		require.NotNil(t, result.Stages)
		assert.Len(t, result.Stages.Data, 2)
	})

	t.Run("keeps the campaign when stages fail", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/api/v3/recruitment/campaigns" {
				writeJSON(t, writer, http.StatusCreated, resourceBody("campaigns", "c2", nil))

				return
			}

			writeJSON(t, writer, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid stage"})
		})

		result, err := client.Recruitment().CreateCampaignWithStages(context.Background(), campaign(), stages)
		require.NoError(t, err)
		assert.True(t, result.Partial())
		assert.Equal(t, "c2", result.Campaign.Data.ID)
		assert.Nil(t, result.Stages)
		require.EqualError(t, result.StagesError, "API request failed: Invalid stage")

		var apiErr *pulse.APIRequestError
		require.ErrorAs(t, result.StagesError, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	})

	t.Run("fails when the campaign fails", func(t *testing.T) {
		t.Parallel()

		calls := 0

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			calls++

			writeJSON(t, writer, http.StatusBadRequest, map[string]string{"message": "Name taken"})
		})

		result, err := client.Recruitment().CreateCampaignWithStages(context.Background(), campaign(), stages)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, "API request failed: Name taken", err.Error())
		assert.Equal(t, 1, calls)
	})

	t.Run("no stages", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/v3/recruitment/campaigns", request.URL.Path)
			writeJSON(t, writer, http.StatusCreated, resourceBody("campaigns", "c3", nil))
		})

		result, err := client.Recruitment().CreateCampaignWithStages(context.Background(), campaign(), nil)
		require.NoError(t, err)
		assert.Nil(t, result.Stages)
		assert.False(t, result.Partial())
	})
}

func TestRecruitmentClient_ListStages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v3/recruitment/campaigns/c1/stages", request.URL.Path)
		writeJSON(t, writer, http.StatusOK, map[string]interface{}{"data": []interface{}{}})
	})

	doc, err := client.Recruitment().ListStages(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Data)

	_, err = client.Recruitment().CreateStages(context.Background(), "c1", nil)
	require.ErrorIs(t, err, pulse.ErrMissingParameter)
}
