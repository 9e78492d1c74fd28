package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/fivetwenty-io/pulse/internal/auth"
	"github.com/fivetwenty-io/pulse/internal/constants"
	internalhttp "github.com/fivetwenty-io/pulse/internal/http"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// authenticator is a token manager that can also log in on demand.
type authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// Base is the authenticated request primitive embedded by every resource
// client. It implements pulse.Requester.
type Base struct {
	httpClient   *internalhttp.Client
	tokenManager auth.TokenManager
	logger       pulse.Logger
}

// NewBase creates the request primitive over an HTTP client. The token
// manager is taken from the HTTP client.
func NewBase(httpClient *internalhttp.Client, logger pulse.Logger) *Base {
	return &Base{
		httpClient:   httpClient,
		tokenManager: httpClient.TokenManager(),
		logger:       logger,
	}
}

// Authenticate logs in and caches the token.
func (b *Base) Authenticate(ctx context.Context) (string, error) {
	if b.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	if manager, ok := b.tokenManager.(authenticator); ok {
		return manager.Authenticate(ctx)
	}

	return b.tokenManager.GetToken(ctx)
}

// GetToken returns the cached token, logging in first if there is none.
func (b *Base) GetToken(ctx context.Context) (string, error) {
	if b.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	return b.tokenManager.GetToken(ctx)
}

// Request performs an authenticated call. It returns true for a successful
// DELETE, nil for an empty body and the decoded JSON value otherwise.
func (b *Base) Request(ctx context.Context, method, path string, body interface{}, params pulse.QueryParams) (interface{}, error) {
	resp, err := b.do(ctx, method, path, body, params)
	if err != nil {
		return nil, err
	}

	if method == http.MethodDelete {
		return true, nil
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	var result interface{}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return result, nil
}

// RequestJSON performs an authenticated call and decodes the body into out.
// out is left untouched for DELETE and for empty bodies.
func (b *Base) RequestJSON(ctx context.Context, method, path string, body interface{}, params pulse.QueryParams, out interface{}) error {
	resp, err := b.do(ctx, method, path, body, params)
	if err != nil {
		return err
	}

	if method == http.MethodDelete || out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

// RequestBinary performs an authenticated download.
func (b *Base) RequestBinary(ctx context.Context, method, path string, params pulse.QueryParams) (*pulse.BinaryData, error) {
	resp, err := b.httpClient.Do(ctx, &internalhttp.Request{
		Method: method,
		Path:   path,
		Query:  params,
		Binary: true,
	})
	if err != nil {
		return nil, err
	}

	data := &pulse.BinaryData{
		Data:     resp.Body,
		MimeType: constants.MediaTypeOctetStream,
		FileSize: len(resp.Body),
	}

	if contentType := resp.Headers.Get(constants.HeaderContentType); contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			data.MimeType = mediaType
		}
	}

	if disposition := resp.Headers.Get(constants.HeaderContentDisposition); disposition != "" {
		if _, dispositionParams, err := mime.ParseMediaType(disposition); err == nil {
			data.FileName = dispositionParams["filename"]
		}
	}

	return data, nil
}

func (b *Base) do(ctx context.Context, method, path string, body interface{}, params pulse.QueryParams) (*internalhttp.Response, error) {
	return b.httpClient.Do(ctx, &internalhttp.Request{
		Method: method,
		Path:   path,
		Query:  params,
		Body:   body,
	})
}

func (b *Base) warn(msg string, fields map[string]interface{}) {
	if b.logger != nil {
		b.logger.Warn(msg, fields)
	}
}
