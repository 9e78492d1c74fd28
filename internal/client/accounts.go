package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// AccountsClient implements pulse.AccountsClient.
type AccountsClient struct {
	*Base
	resource
}

// NewAccountsClient creates a new accounts client.
func NewAccountsClient(base *Base) *AccountsClient {
	return &AccountsClient{
		Base:     base,
		resource: newResource(base, constants.APIPathAccounts, "account"),
	}
}

// ResourceType implements pulse.ResourceClient.
func (c *AccountsClient) ResourceType() pulse.ResourceType {
	return pulse.ResourceAccount
}

// CreateAPIKey issues an API key for an account. At least one scope is
// required; the check happens before any network call.
func (c *AccountsClient) CreateAPIKey(ctx context.Context, accountID, name string, scopes []string) (*pulse.Document[pulse.Attributes], error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id", pulse.ErrMissingParameter)
	}

	if len(scopes) == 0 {
		return nil, pulse.ErrMissingScopes
	}

	attributes := pulse.Attributes{"scopes": scopes}
	if name != "" {
		attributes["name"] = name
	}

	doc := pulse.NewDocument(constants.TypeAPIKey, "", attributes)

	return getDocument[pulse.Attributes](ctx, c.Base, http.MethodPost, c.memberPath(accountID)+"/api-keys", doc, nil)
}
