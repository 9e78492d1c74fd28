package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fivetwenty-io/pulse/internal/constants"
)

// Token is an API access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewToken wraps a raw token string. When the token is a JWT carrying an
// "exp" claim the expiry is taken from it; otherwise the token never expires.
// The signature is not verified: the client only needs to know when to stop
// presenting the token.
func NewToken(raw string) *Token {
	token := &Token{
		AccessToken: raw,
		IssuedAt:    time.Now(),
	}

	if expiresAt, ok := jwtExpiry(raw); ok {
		token.ExpiresAt = expiresAt
	}

	return token
}

func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(raw, claims)
	if err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// Valid reports whether the token can still be presented. A token expiring
// within TokenExpirationBuffer is treated as expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds at most one token. Clear is the invalidation boundary.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear drops the stored token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}
