package client

import (
	"slices"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// constructor selects a resource client from the root client.
type constructor func(*Client) pulse.ResourceClient

// registry maps resource tags to their clients. Adding a resource is one
// entry here.
var registry = map[pulse.ResourceType]constructor{
	pulse.ResourceAccount:       func(c *Client) pulse.ResourceClient { return c.accounts },
	pulse.ResourcePeople:        func(c *Client) pulse.ResourceClient { return c.people },
	pulse.ResourceTalent:        func(c *Client) pulse.ResourceClient { return c.talents },
	pulse.ResourceOffice:        func(c *Client) pulse.ResourceClient { return c.office },
	pulse.ResourceOrganizations: func(c *Client) pulse.ResourceClient { return c.organizations },
	pulse.ResourceRecruitment:   func(c *Client) pulse.ResourceClient { return c.recruitment },
	pulse.ResourceQuizz:         func(c *Client) pulse.ResourceClient { return c.quizz },
	pulse.ResourceWorkflow:      func(c *Client) pulse.ResourceClient { return c.workflow },
}

// NewResourceClient returns the client registered for resourceType, or the
// root client itself when the tag is unknown.
func NewResourceClient(c *Client, resourceType pulse.ResourceType) pulse.ResourceClient {
	if construct, ok := registry[resourceType]; ok {
		return construct(c)
	}

	return c
}

// IsRegistered reports whether resourceType has a dedicated client.
func IsRegistered(resourceType pulse.ResourceType) bool {
	_, ok := registry[resourceType]

	return ok
}

// ResourceTypes lists the registered tags in sorted order.
func ResourceTypes() []pulse.ResourceType {
	types := make([]pulse.ResourceType, 0, len(registry))
	for resourceType := range registry {
		types = append(types, resourceType)
	}

	slices.Sort(types)

	return types
}
