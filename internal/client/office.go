package client

import (
	"context"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// OfficeClient implements pulse.OfficeClient. Its CRUD endpoints manage
// employees.
type OfficeClient struct {
	*Base
	resource
}

// NewOfficeClient creates a new office client.
func NewOfficeClient(base *Base) *OfficeClient {
	return &OfficeClient{
		Base:     base,
		resource: newResource(base, constants.APIPathEmployees, "employee"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *OfficeClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceOffice
}

// ListOffices lists the offices employees can be attached to.
func (c *OfficeClient) ListOffices(ctx context.Context, params pulse.QueryParams) (*pulse.ListDocument[pulse.Attributes], error) {
	return listDocument[pulse.Attributes](ctx, c.Base, constants.APIPathOffices, params)
}
