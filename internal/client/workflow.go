package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// WorkflowClient implements pulse.WorkflowClient.
type WorkflowClient struct {
	*Base
	resource
}

// NewWorkflowClient creates a new workflow client.
func NewWorkflowClient(base *Base) *WorkflowClient {
	return &WorkflowClient{
		Base:     base,
		resource: newResource(base, constants.APIPathProjects, "project"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *WorkflowClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceWorkflow
}

// ListTasks lists the tasks of a project.
func (c *WorkflowClient) ListTasks(ctx context.Context, projectID string, params pulse.QueryParams) (*pulse.ListDocument[pulse.Attributes], error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id", pulse.ErrMissingParameter)
	}

	return listDocument[pulse.Attributes](ctx, c.Base, c.memberPath(projectID)+"/tasks", params)
}
