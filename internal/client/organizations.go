package client

import (
	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// OrganizationsClient implements pulse.OrganizationsClient.
type OrganizationsClient struct {
	*Base
	resource
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(base *Base) *OrganizationsClient {
	return &OrganizationsClient{
		Base:     base,
		resource: newResource(base, constants.APIPathOrganizations, "organization"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *OrganizationsClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceOrganizations
}
