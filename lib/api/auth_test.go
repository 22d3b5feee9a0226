package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHeader(t *testing.T) {
	t.Run("disabled yields no header", func(t *testing.T) {
		header, err := AuthHeader(context.Background(), Config{Auth: AuthConfig{Type: AuthDisabled}})
		require.NoError(t, err)
		assert.Empty(t, header)
	})
	t.Run("unset type yields no header", func(t *testing.T) {
		header, err := AuthHeader(context.Background(), Config{})
		require.NoError(t, err)
		assert.Empty(t, header)
	})
	t.Run("basic", func(t *testing.T) {
		header, err := AuthHeader(context.Background(), Config{Auth: AuthConfig{
			Type:  AuthBasic,
			Basic: &BasicAuthConfig{Username: "u", Password: "p"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("u:p")), header)
	})
	t.Run("unsupported mechanism", func(t *testing.T) {
		_, err := AuthHeader(context.Background(), Config{Auth: AuthConfig{Type: AuthBasic}})
		require.EqualError(t, err, "unsupported auth mechanism: basic")
	})
	t.Run("client credentials", func(t *testing.T) {
		var capturedForm map[string]string
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			capturedForm = map[string]string{
				"grant_type":    r.PostForm.Get("grant_type"),
				"client_id":     r.PostForm.Get("client_id"),
				"client_secret": r.PostForm.Get("client_secret"),
				"scope":         r.PostForm.Get("scope"),
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-123",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer tokenServer.Close()

		header, err := AuthHeader(context.Background(), Config{Auth: AuthConfig{
			Type: AuthClientCredentials,
			ClientCredentials: &ClientCredentialsConfig{
				TokenEndpoint: tokenServer.URL,
				ClientID:      "client-1",
				ClientSecret:  "secret-1",
				Scope:         "system/Patient.read",
			},
		}})
		require.NoError(t, err)
		assert.Equal(t, "Bearer token-123", header)
		assert.Equal(t, "client_credentials", capturedForm["grant_type"])
		assert.Equal(t, "client-1", capturedForm["client_id"])
		assert.Equal(t, "secret-1", capturedForm["client_secret"])
		assert.Equal(t, "system/Patient.read", capturedForm["scope"])
	})
	t.Run("client credentials endpoint failure is fatal", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer tokenServer.Close()

		_, err := AuthHeader(context.Background(), Config{Auth: AuthConfig{
			Type: AuthClientCredentials,
			ClientCredentials: &ClientCredentialsConfig{
				TokenEndpoint: tokenServer.URL,
				ClientID:      "client-1",
				ClientSecret:  "secret-1",
			},
		}})
		require.ErrorContains(t, err, "failed to get OAuth token")
	})
}
