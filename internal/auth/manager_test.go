package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/pulse/internal/auth"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

func newLoginServer(t *testing.T, logins *int32, handler func(w http.ResponseWriter, body map[string]interface{})) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/iam/auth/api/login", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		atomic.AddInt32(logins, 1)

		var body map[string]interface{}

		_ = json.NewDecoder(r.Body).Decode(&body)
		handler(w, body)
	}))
	t.Cleanup(server.Close)

	return server
}

func writeToken(w http.ResponseWriter, token string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"meta": map[string]interface{}{"token": token},
	})
}

func TestLoginTokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("logs in once and caches the token", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			assert.Equal(t, "key", body["key"])
			assert.Equal(t, "secret", body["secret"])
			writeToken(w, "t")
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "key", APISecret: "secret"})
		require.NoError(t, err)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "t", token)

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "t", token)
		assert.Equal(t, int32(1), atomic.LoadInt32(&logins))
	})

	t.Run("omits empty secret", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			assert.Equal(t, "key", body["key"])
			_, hasSecret := body["secret"]
			assert.False(t, hasSecret)
			writeToken(w, "t")
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL + "/", APIKey: "key"})
		require.NoError(t, err)

		_, err = manager.GetToken(context.Background())
		require.NoError(t, err)
	})

	t.Run("concurrent callers share one login", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			time.Sleep(20 * time.Millisecond)
			writeToken(w, "shared")
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "key"})
		require.NoError(t, err)

		var wg sync.WaitGroup

		for range 5 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				token, err := manager.GetToken(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, "shared", token)
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(1), atomic.LoadInt32(&logins))
	})

	t.Run("invalidate forces a new login", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			writeToken(w, "t")
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "key"})
		require.NoError(t, err)

		_, err = manager.GetToken(context.Background())
		require.NoError(t, err)

		manager.Invalidate()
		assert.Nil(t, manager.Token())

		_, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&logins))
	})
}

func TestLoginTokenManager_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "bad"})
		require.NoError(t, err)

		_, err = manager.Authenticate(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Authentication failed: Invalid credentials", err.Error())

		authErr := &pulse.AuthenticationError{}
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
		assert.True(t, pulse.IsUnauthorized(err))
	})

	t.Run("falls back to status text", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			w.WriteHeader(http.StatusForbidden)
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "key"})
		require.NoError(t, err)

		_, err = manager.Authenticate(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Authentication failed: Forbidden", err.Error())
	})

	t.Run("missing token in response", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"meta": map[string]interface{}{}})
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "key"})
		require.NoError(t, err)

		_, err = manager.Authenticate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no token in login response")
	})

	t.Run("refresh re-authenticates", func(t *testing.T) {
		t.Parallel()

		var logins int32

		server := newLoginServer(t, &logins, func(w http.ResponseWriter, body map[string]interface{}) {
			writeToken(w, "fresh")
		})

		manager, err := auth.NewLoginTokenManager(&auth.LoginConfig{APIURL: server.URL, APIKey: "key"})
		require.NoError(t, err)

		manager.SetToken("stale", time.Time{})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "stale", token)

		require.NoError(t, manager.RefreshToken(context.Background()))

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
		assert.Equal(t, int32(1), atomic.LoadInt32(&logins))
	})
}

func TestNewLoginTokenManager_NilConfig(t *testing.T) {
	t.Parallel()

	_, err := auth.NewLoginTokenManager(nil)
	require.ErrorIs(t, err, auth.ErrLoginConfigRequired)
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("static")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static", token)

	require.ErrorIs(t, manager.RefreshToken(context.Background()), auth.ErrStaticTokenCannotRefresh)

	manager.Invalidate()

	token, err = manager.GetToken(context.Background())
	require.ErrorIs(t, err, auth.ErrNoToken)
	assert.Empty(t, token)

	manager.SetToken("replacement", time.Time{})

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replacement", token)
}

func TestStaticTokenManager_EmptyToken(t *testing.T) {
	t.Parallel()

	_, err := auth.NewStaticTokenManager("").GetToken(context.Background())
	require.ErrorIs(t, err, auth.ErrNoToken)
}
