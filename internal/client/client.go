package client

import (
	"errors"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/pulse/internal/auth"
	internalhttp "github.com/fivetwenty-io/pulse/internal/http"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// Static errors for err113 compliance.
var (
	ErrAPIURLRequired           = errors.New("API URL is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the pulse.Client interface.
type Client struct {
	*Base

	baseURL string

	// Resource clients
	accounts      *AccountsClient
	people        *PeopleClient
	talents       *TalentsClient
	office        *OfficeClient
	organizations *OrganizationsClient
	recruitment   *RecruitmentClient
	quizz         *QuizzClient
	workflow      *WorkflowClient
}

// newRetryableClient builds the transport shared by the login call and
// data calls so timeouts and retry policy apply to both.
func newRetryableClient(config *pulse.Config) *retryablehttp.Client {
	shared := internalhttp.NewRetryableClient()

	if config.HTTPTimeout > 0 {
		shared.HTTPClient.Timeout = config.HTTPTimeout
	}

	if config.RetryMax > 0 {
		shared.RetryMax = config.RetryMax

		if config.RetryWaitMin > 0 {
			shared.RetryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			shared.RetryWaitMax = config.RetryWaitMax
		}
	}

	return shared
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *pulse.Config, shared *retryablehttp.Client) []internalhttp.Option {
	httpOpts := []internalhttp.Option{internalhttp.WithHTTPClient(shared)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// New creates a Pulse API client. No network call is made: the first
// request logs in with the configured key and secret.
func New(config *pulse.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	shared := newRetryableClient(config)

	tokenManager, err := auth.NewLoginTokenManager(&auth.LoginConfig{
		APIURL:     config.APIURL,
		APIKey:     config.APIKey,
		APISecret:  config.APISecret,
		UserAgent:  config.UserAgent,
		Logger:     config.Logger,
		HTTPClient: shared,
	})
	if err != nil {
		return nil, err
	}

	httpClient := internalhttp.NewClient(config.APIURL, tokenManager, createHTTPClientOptions(config, shared)...)

	return newClient(httpClient, config.Logger), nil
}

// NewWithTokenManager creates a Pulse API client with a custom token manager.
func NewWithTokenManager(config *pulse.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, pulse.ErrConfigRequired
	}

	if config.APIURL == "" {
		return nil, ErrAPIURLRequired
	}

	shared := newRetryableClient(config)
	httpClient := internalhttp.NewClient(config.APIURL, tokenManager, createHTTPClientOptions(config, shared)...)

	return newClient(httpClient, config.Logger), nil
}

func newClient(httpClient *internalhttp.Client, logger pulse.Logger) *Client {
	client := &Client{
		Base:    NewBase(httpClient, logger),
		baseURL: httpClient.BaseURL(),
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.accounts = NewAccountsClient(c.Base)
	c.people = NewPeopleClient(c.Base)
	c.talents = NewTalentsClient(c.Base)
	c.office = NewOfficeClient(c.Base)
	c.organizations = NewOrganizationsClient(c.Base)
	c.recruitment = NewRecruitmentClient(c.Base)
	c.quizz = NewQuizzClient(c.Base)
	c.workflow = NewWorkflowClient(c.Base)
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResourceType reports the generic base tag.
func (c *Client) ResourceType() pulse.ResourceType {
	return pulse.ResourceBase
}

// Accounts returns the accounts client.
func (c *Client) Accounts() pulse.AccountsClient {
	return c.accounts
}

// People returns the people client.
func (c *Client) People() pulse.PeopleClient {
	return c.people
}

// Talents returns the talents client.
func (c *Client) Talents() pulse.TalentsClient {
	return c.talents
}

// Office returns the office client.
func (c *Client) Office() pulse.OfficeClient {
	return c.office
}

// Organizations returns the organizations client.
func (c *Client) Organizations() pulse.OrganizationsClient {
	return c.organizations
}

// Recruitment returns the recruitment client.
func (c *Client) Recruitment() pulse.RecruitmentClient {
	return c.recruitment
}

// Quizz returns the quizz client.
func (c *Client) Quizz() pulse.QuizzClient {
	return c.quizz
}

// Workflow returns the workflow client.
func (c *Client) Workflow() pulse.WorkflowClient {
	return c.workflow
}
