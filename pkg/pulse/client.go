package pulse

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ResourceType tags a business area of the API. It selects the resource
// client returned by the client factory.
type ResourceType string

// Known resource types.
const (
	ResourceBase          ResourceType = "base"
	ResourceAccount       ResourceType = "account"
	ResourcePeople        ResourceType = "people"
	ResourceTalent        ResourceType = "talent"
	ResourceOffice        ResourceType = "office"
	ResourceOrganizations ResourceType = "organizations"
	ResourceRecruitment   ResourceType = "recruitment"
	ResourceQuizz         ResourceType = "quizz"
	ResourceWorkflow      ResourceType = "workflow"
)

// Requester is the authenticated request primitive shared by every client.
type Requester interface {
	// Authenticate logs in with the configured credentials and caches the token.
	Authenticate(ctx context.Context) (string, error)
	// GetToken returns the cached token, authenticating first if needed.
	GetToken(ctx context.Context) (string, error)
	// Request performs a call and returns the decoded JSON body, or true for DELETE.
	Request(ctx context.Context, method, path string, body interface{}, params QueryParams) (interface{}, error)
	// RequestJSON performs a call and decodes the JSON body into out.
	RequestJSON(ctx context.Context, method, path string, body interface{}, params QueryParams, out interface{}) error
	// RequestBinary performs a call and returns the raw response bytes.
	RequestBinary(ctx context.Context, method, path string, params QueryParams) (*BinaryData, error)
}

// ResourceClient is any client produced by the client factory.
type ResourceClient interface {
	Requester
	ResourceType() ResourceType
}

// CRUDClient is the collection/member endpoint set most resources expose.
type CRUDClient interface {
	List(ctx context.Context, params QueryParams) (*ListDocument[Attributes], error)
	ListAll(ctx context.Context, params QueryParams) ([]Resource[Attributes], error)
	Get(ctx context.Context, id string, params QueryParams) (*Document[Attributes], error)
	Create(ctx context.Context, doc *Document[Attributes]) (*Document[Attributes], error)
	Update(ctx context.Context, id string, doc *Document[Attributes]) (*Document[Attributes], error)
	Delete(ctx context.Context, id string) error
}

// AccountsClient manages IAM accounts.
type AccountsClient interface {
	ResourceClient
	CRUDClient
	CreateAPIKey(ctx context.Context, accountID, name string, scopes []string) (*Document[Attributes], error)
}

// PeopleClient manages people records.
type PeopleClient interface {
	ResourceClient
	CRUDClient
}

// TalentsClient manages talents.
type TalentsClient interface {
	ResourceClient
	CRUDClient
	GetReport(ctx context.Context, talentID string) (*BinaryData, error)
}

// OfficeClient manages employees and offices.
type OfficeClient interface {
	ResourceClient
	CRUDClient
	ListOffices(ctx context.Context, params QueryParams) (*ListDocument[Attributes], error)
}

// OrganizationsClient manages organizations.
type OrganizationsClient interface {
	ResourceClient
	CRUDClient
}

// RecruitmentClient manages recruitment campaigns and their stages.
type RecruitmentClient interface {
	ResourceClient
	CRUDClient
	ListStages(ctx context.Context, campaignID string, params QueryParams) (*ListDocument[Attributes], error)
	CreateStages(ctx context.Context, campaignID string, stages []Attributes) (*ListDocument[Attributes], error)
	CreateCampaignWithStages(ctx context.Context, campaign *Document[Attributes], stages []Attributes) (*CampaignWithStages, error)
}

// QuizzClient reads quizzes and manages quiz sessions.
type QuizzClient interface {
	ResourceClient
	List(ctx context.Context, params QueryParams) (*ListDocument[Attributes], error)
	ListAll(ctx context.Context, params QueryParams) ([]Resource[Attributes], error)
	Get(ctx context.Context, id string, params QueryParams) (*Document[Attributes], error)
	CreateSession(ctx context.Context, doc *Document[Attributes]) (*Document[Attributes], error)
	GetSession(ctx context.Context, id string, params QueryParams) (*Document[Attributes], error)
}

// WorkflowClient manages workflow projects.
type WorkflowClient interface {
	ResourceClient
	CRUDClient
	ListTasks(ctx context.Context, projectID string, params QueryParams) (*ListDocument[Attributes], error)
}

// Client is the root client with access to every resource client.
type Client interface {
	ResourceClient
	Accounts() AccountsClient
	People() PeopleClient
	Talents() TalentsClient
	Office() OfficeClient
	Organizations() OrganizationsClient
	Recruitment() RecruitmentClient
	Quizz() QuizzClient
	Workflow() WorkflowClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config holds the credentials and transport options for a client.
//
// Credentials are immutable for the lifetime of a client. The token obtained
// with them is cached by that client only and is never persisted.
type Config struct {
	// APIURL is the platform base URL, e.g. "https://acme.pulse.example".
	// Endpoints are resolved relative to it.
	APIURL string
	// APIKey identifies the API user.
	APIKey string
	// APISecret is optional; it is sent with the key when set.
	APISecret string

	// HTTPTimeout bounds each HTTP round trip. Zero leaves the transport default.
	HTTPTimeout time.Duration
	// RetryMax is the number of retries for transient failures. Zero (the
	// default) performs exactly one attempt per call.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger receives structured diagnostics. Nil disables logging.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Validate checks that the credentials are usable.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.RetryMax, validation.Min(0)),
	)
}
