package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// RecruitmentClient implements pulse.RecruitmentClient.
type RecruitmentClient struct {
	*Base
	resource
}

// NewRecruitmentClient creates a new recruitment client.
func NewRecruitmentClient(base *Base) *RecruitmentClient {
	return &RecruitmentClient{
		Base:     base,
		resource: newResource(base, constants.APIPathCampaigns, "campaign"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *RecruitmentClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceRecruitment
}

// ListStages lists the stages of a campaign.
func (c *RecruitmentClient) ListStages(ctx context.Context, campaignID string, params pulse.QueryParams) (*pulse.ListDocument[pulse.Attributes], error) {
	if campaignID == "" {
		return nil, fmt.Errorf("%w: campaign id", pulse.ErrMissingParameter)
	}

	return listDocument[pulse.Attributes](ctx, c.Base, c.stagesPath(campaignID), params)
}

// CreateStages adds stages to a campaign in a single call.
func (c *RecruitmentClient) CreateStages(ctx context.Context, campaignID string, stages []pulse.Attributes) (*pulse.ListDocument[pulse.Attributes], error) {
	if campaignID == "" {
		return nil, fmt.Errorf("%w: campaign id", pulse.ErrMissingParameter)
	}

	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: stages", pulse.ErrMissingParameter)
	}

	data := make([]pulse.Resource[pulse.Attributes], 0, len(stages))
	for _, stage := range stages {
		data = append(data, pulse.Resource[pulse.Attributes]{
			Type:       constants.TypeStage,
			Attributes: stage,
		})
	}

	body := pulse.ListDocument[pulse.Attributes]{Data: data}

	var doc pulse.ListDocument[pulse.Attributes]

	err := c.RequestJSON(ctx, http.MethodPost, c.stagesPath(campaignID), body, nil, &doc)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// CreateCampaignWithStages creates a campaign and then its stages. The two
// calls are not atomic: when the stages fail the campaign stays created and
// the failure is reported in the result's StagesError. The returned error is
// non-nil only when the campaign itself could not be created.
func (c *RecruitmentClient) CreateCampaignWithStages(ctx context.Context, campaign *pulse.Document[pulse.Attributes], stages []pulse.Attributes) (*pulse.CampaignWithStages, error) {
	if campaign == nil {
		return nil, fmt.Errorf("%w: campaign document", pulse.ErrMissingParameter)
	}

	if campaign.Data.Type == "" {
		campaign.Data.Type = constants.TypeCampaign
	}

	created, err := c.Create(ctx, campaign)
	if err != nil {
		return nil, err
	}

	result := &pulse.CampaignWithStages{Campaign: created}

	if len(stages) == 0 {
		return result, nil
	}

	createdStages, err := c.CreateStages(ctx, created.Data.ID, stages)
	if err != nil {
		result.StagesError = err

		c.warn("Campaign created but its stages failed", map[string]interface{}{
			"campaign_id": created.Data.ID,
			"stages":      len(stages),
			"error":       err.Error(),
		})

		return result, nil
	}

	result.Stages = createdStages

	return result, nil
}

func (c *RecruitmentClient) stagesPath(campaignID string) string {
	return c.memberPath(campaignID) + "/stages"
}
