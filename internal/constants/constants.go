package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// OutputFilePerm is the permission for downloaded files.
	OutputFilePerm = 0640
)

// HTTP and network timeouts.
const (
	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are off unless a caller opts in.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the page size used when collecting every page.
	DefaultPageSize = 50

	// MaxListAllPages stops runaway pagination.
	MaxListAllPages = 1000
)

// API path prefixes.
const (
	// APIPrefix is the versioned prefix of every current endpoint.
	APIPrefix = "/api/v3"

	// LegacyPrefix is used by the quiz endpoints, which predate /api/v3.
	LegacyPrefix = ""
)

// API paths.
const (
	APIPathLogin         = APIPrefix + "/iam/auth/api/login"
	APIPathAccounts      = APIPrefix + "/iam/accounts"
	APIPathPeople        = APIPrefix + "/people/persons"
	APIPathTalents       = APIPrefix + "/talents/talents"
	APIPathEmployees     = APIPrefix + "/office/employees"
	APIPathOffices       = APIPrefix + "/office/offices"
	APIPathOrganizations = APIPrefix + "/organizations/organizations"
	APIPathCampaigns     = APIPrefix + "/recruitment/campaigns"
	APIPathProjects      = APIPrefix + "/workflow/projects"
	APIPathQuizzes       = LegacyPrefix + "/quizz/quizzes"
	APIPathQuizzSessions = LegacyPrefix + "/quizz/sessions"
)

// JSON:API resource type names.
const (
	TypeAccount      = "accounts"
	TypeAPIKey       = "api-keys"
	TypePerson       = "persons"
	TypeTalent       = "talents"
	TypeEmployee     = "employees"
	TypeOrganization = "organizations"
	TypeCampaign     = "campaigns"
	TypeStage        = "stages"
	TypeQuizzSession = "sessions"
	TypeProject      = "projects"
)

// HTTP headers and media types.
const (
	HeaderAuthorization      = "Authorization"
	HeaderAccept             = "Accept"
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderUserAgent          = "User-Agent"

	MediaTypeJSON        = "application/json"
	MediaTypeOctetStream = "application/octet-stream"

	// DispositionAttachment asks the server for a file download.
	DispositionAttachment = "attachment"

	// DefaultUserAgent is sent unless overridden.
	DefaultUserAgent = "pulse-go-client"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StringTruncationLimit is used when truncating strings.
	StringTruncationLimit = 60
)
