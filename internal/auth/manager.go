package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrLoginConfigRequired      = errors.New("login configuration is required")
	ErrNoToken                  = errors.New("no token available")
)

// TokenManager hands out bearer tokens.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
	Invalidate()
}

// LoginConfig configures a LoginTokenManager.
type LoginConfig struct {
	APIURL    string
	APIKey    string
	APISecret string
	UserAgent string
	Logger    pulse.Logger
	// HTTPClient performs the login call. A single-attempt client is
	// created when nil.
	HTTPClient *retryablehttp.Client
}

// LoginTokenManager obtains a token by posting the API key and secret to the
// login endpoint, lazily, on first use.
type LoginTokenManager struct {
	config     *LoginConfig
	store      *TokenStore
	httpClient *retryablehttp.Client

	// mutex serializes check-then-login so concurrent callers share one login.
	mutex sync.Mutex
}

// NewLoginTokenManager creates a login token manager.
func NewLoginTokenManager(config *LoginConfig) (*LoginTokenManager, error) {
	if config == nil {
		return nil, ErrLoginConfigRequired
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 0
		httpClient.Logger = nil
		httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	}

	return &LoginTokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}, nil
}

// GetToken returns the cached token, logging in when none is valid.
func (m *LoginTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	return m.authenticate(ctx)
}

// Authenticate logs in unconditionally and caches the new token.
func (m *LoginTokenManager) Authenticate(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.authenticate(ctx)
}

// RefreshToken drops the cached token and logs in again.
func (m *LoginTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Clear()

	_, err := m.authenticate(ctx)

	return err
}

// SetToken manually sets the access token.
func (m *LoginTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, IssuedAt: time.Now(), ExpiresAt: expiresAt})
}

// Invalidate drops the cached token; the next GetToken logs in again.
func (m *LoginTokenManager) Invalidate() {
	m.store.Clear()
}

// Token returns the cached token, or nil.
func (m *LoginTokenManager) Token() *Token {
	return m.store.Get()
}

type loginRequest struct {
	Key    string `json:"key"`
	Secret string `json:"secret,omitempty"`
}

type loginResponse struct {
	Meta struct {
		Token string `json:"token"`
	} `json:"meta"`
}

// authenticate must be called with m.mutex held.
func (m *LoginTokenManager) authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{Key: m.config.APIKey, Secret: m.config.APISecret})
	if err != nil {
		return "", fmt.Errorf("encoding login request: %w", err)
	}

	loginURL := strings.TrimSuffix(m.config.APIURL, "/") + constants.APIPathLogin

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}

	req.Header.Set(constants.HeaderContentType, constants.MediaTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.MediaTypeJSON)

	userAgent := m.config.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}

	req.Header.Set(constants.HeaderUserAgent, userAgent)

	m.log("Authenticating", map[string]interface{}{"url": loginURL})

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		authErr := &pulse.AuthenticationError{
			StatusCode: resp.StatusCode,
			Reason:     pulse.ErrorReason(resp.StatusCode, respBody),
		}

		if m.config.Logger != nil {
			m.config.Logger.Error("Authentication failed", map[string]interface{}{
				"status_code": resp.StatusCode,
				"reason":      authErr.Reason,
			})
		}

		return "", authErr
	}

	var parsed loginResponse

	err = json.Unmarshal(respBody, &parsed)
	if err != nil {
		return "", &pulse.AuthenticationError{StatusCode: resp.StatusCode, Reason: "invalid login response: " + err.Error()}
	}

	if parsed.Meta.Token == "" {
		return "", &pulse.AuthenticationError{StatusCode: resp.StatusCode, Reason: pulse.ErrNoTokenInLogin.Error()}
	}

	token := NewToken(parsed.Meta.Token)
	m.store.Set(token)

	fields := map[string]interface{}{}
	if !token.ExpiresAt.IsZero() {
		fields["expires_at"] = token.ExpiresAt.Format(time.RFC3339)
	}

	m.log("Authenticated", fields)

	return token.AccessToken, nil
}

func (m *LoginTokenManager) log(msg string, fields map[string]interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, fields)
	}
}

// StaticTokenManager provides a fixed token, e.g. one obtained earlier by `pulse login`.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a static token manager.
func NewStaticTokenManager(token string) *StaticTokenManager {
	store := NewTokenStore()
	store.Set(NewToken(token))

	return &StaticTokenManager{store: store}
}

// GetToken returns the static token, or ErrNoToken once it has been dropped.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token == nil || token.AccessToken == "" {
		return "", ErrNoToken
	}

	return token.AccessToken, nil
}

// RefreshToken always fails: there are no credentials to log in with.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

// SetToken replaces the static token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, IssuedAt: time.Now(), ExpiresAt: expiresAt})
}

// Invalidate drops the token.
func (m *StaticTokenManager) Invalidate() {
	m.store.Clear()
}
