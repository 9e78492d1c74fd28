package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIURL    = errors.New("no API URL configured, set api_url in the config file or PULSE_API_URL")
	ErrNoAPIKey    = errors.New("no API key configured, set api_key in the config file or PULSE_API_KEY")
	ErrUnknownKey  = errors.New("unknown configuration key")
	ErrInvalidItem = errors.New("items must be a list of parameter maps")
)

// CLI argument errors.
var (
	ErrInvalidParamFlag = errors.New("--param must be in the form name=value")
	ErrNATSSubjectEmpty = errors.New("--nats-subject is required with --nats-url")
	ErrRunFailed        = errors.New("one or more items failed")
)
