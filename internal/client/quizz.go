package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// QuizzClient implements pulse.QuizzClient. The quiz endpoints predate the
// versioned API and live outside /api/v3.
type QuizzClient struct {
	*Base

	quizzes  resource
	sessions resource
}

// NewQuizzClient creates a new quizz client.
func NewQuizzClient(base *Base) *QuizzClient {
	return &QuizzClient{
		Base:     base,
		quizzes:  newResource(base, constants.APIPathQuizzes, "quizz"),
		sessions: newResource(base, constants.APIPathQuizzSessions, "quizz session"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *QuizzClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceQuizz
}

// List retrieves one page of quizzes.
func (c *QuizzClient) List(ctx context.Context, params pulse.QueryParams) (*pulse.ListDocument[pulse.Attributes], error) {
	return c.quizzes.List(ctx, params)
}

// ListAll retrieves every quiz.
func (c *QuizzClient) ListAll(ctx context.Context, params pulse.QueryParams) ([]pulse.Resource[pulse.Attributes], error) {
	return c.quizzes.ListAll(ctx, params)
}

// Get retrieves a quiz.
func (c *QuizzClient) Get(ctx context.Context, id string, params pulse.QueryParams) (*pulse.Document[pulse.Attributes], error) {
	return c.quizzes.Get(ctx, id, params)
}

// CreateSession starts a quiz session, typically for a talent.
func (c *QuizzClient) CreateSession(ctx context.Context, doc *pulse.Document[pulse.Attributes]) (*pulse.Document[pulse.Attributes], error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: session document", pulse.ErrMissingParameter)
	}

	if doc.Data.Type == "" {
		doc.Data.Type = constants.TypeQuizzSession
	}

	return getDocument[pulse.Attributes](ctx, c.Base, http.MethodPost, constants.APIPathQuizzSessions, doc, nil)
}

// GetSession retrieves a quiz session.
func (c *QuizzClient) GetSession(ctx context.Context, id string, params pulse.QueryParams) (*pulse.Document[pulse.Attributes], error) {
	return c.sessions.Get(ctx, id, params)
}
