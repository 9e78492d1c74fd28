package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// TalentsClient implements pulse.TalentsClient.
type TalentsClient struct {
	*Base
	resource
}

// NewTalentsClient creates a new talents client.
func NewTalentsClient(base *Base) *TalentsClient {
	return &TalentsClient{
		Base:     base,
		resource: newResource(base, constants.APIPathTalents, "talent"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *TalentsClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceTalent
}

// GetReport downloads the talent's report file.
func (c *TalentsClient) GetReport(ctx context.Context, talentID string) (*pulse.BinaryData, error) {
	if talentID == "" {
		return nil, fmt.Errorf("%w: talent id", pulse.ErrMissingParameter)
	}

	report, err := c.RequestBinary(ctx, http.MethodGet, c.memberPath(talentID)+"/report", nil)
	if err != nil {
		return nil, err
	}

	if report.FileName == "" {
		report.FileName = "talent-" + talentID + "-report"
	}

	return report, nil
}
