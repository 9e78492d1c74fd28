package client

import (
	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// PeopleClient implements pulse.PeopleClient.
type PeopleClient struct {
	*Base
	resource
}

// NewPeopleClient creates a new people client.
func NewPeopleClient(base *Base) *PeopleClient {
	return &PeopleClient{
		Base:     base,
		resource: newResource(base, constants.APIPathPeople, "person"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *PeopleClient) ResourceType() pulse.ResourceType {
	return pulse.ResourcePeople
}
