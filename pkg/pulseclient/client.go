package pulseclient

import (
	"strings"

	"github.com/fivetwenty-io/pulse/internal/client"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// New creates a new Pulse API client. The API URL is normalized: a missing
// scheme defaults to https and a trailing slash is dropped. No network call is
// made until the first request.
func New(config *pulse.Config) (pulse.Client, error) {
	if config == nil {
		return nil, pulse.ErrConfigRequired
	}

	root, err := client.New(normalized(config))
	if err != nil {
		return nil, err
	}

	return root, nil
}

// NewResourceClient creates a client and returns the resource client
// registered for resourceType, falling back to the base client.
func NewResourceClient(config *pulse.Config, resourceType pulse.ResourceType) (pulse.ResourceClient, error) {
	if config == nil {
		return nil, pulse.ErrConfigRequired
	}

	root, err := client.New(normalized(config))
	if err != nil {
		return nil, err
	}

	return client.NewResourceClient(root, resourceType), nil
}

// normalized returns a copy of config with its API URL normalized, leaving
// the caller's value untouched.
func normalized(config *pulse.Config) *pulse.Config {
	cfg := *config
	cfg.APIURL = NormalizeAPIURL(cfg.APIURL)

	return &cfg
}

// ResourceTypes lists the resource tags with a dedicated client.
func ResourceTypes() []pulse.ResourceType {
	return client.ResourceTypes()
}

// NormalizeAPIURL adds a missing https scheme and drops a trailing slash.
func NormalizeAPIURL(apiURL string) string {
	apiURL = strings.TrimSuffix(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		return apiURL
	}

	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		apiURL = "https://" + apiURL
	}

	return apiURL
}
