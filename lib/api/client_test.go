package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_URLNormalization(t *testing.T) {
	tests := []struct {
		name     string
		rootURL  string
		basePath string
		expected string
	}{
		{"plain", "https://example.com", "fhir", "https://example.com/fhir"},
		{"trailing slash on root", "https://example.com/", "fhir", "https://example.com/fhir"},
		{"redundant slashes everywhere", "https://example.com//", "//fhir///", "https://example.com/fhir"},
		{"no base path", "https://example.com/", "", "https://example.com"},
		{"base path with inner segments", "https://example.com", "/foo///bar//", "https://example.com/foo///bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.rootURL, tt.basePath, "", "")
			assert.Equal(t, tt.expected, client.RootURL())
		})
	}
}

func TestClient_URL(t *testing.T) {
	client := NewClient("https://example.com", "base", "", "")
	t.Run("leading slashes on path are trimmed", func(t *testing.T) {
		assert.Equal(t, "https://example.com/base/foo/bar", client.URL("//foo/bar", nil))
	})
	t.Run("idempotent under repeated trimming", func(t *testing.T) {
		assert.Equal(t, client.URL("/foo", nil), client.URL("///foo", nil))
	})
	t.Run("nil values are skipped, zero values are kept", func(t *testing.T) {
		result := client.URL("/search", QueryParams{
			"count":   0,
			"active":  false,
			"name":    "",
			"skipped": nil,
		})
		parsed, err := url.Parse(result)
		require.NoError(t, err)
		values := parsed.Query()
		assert.Equal(t, "0", values.Get("count"))
		assert.Equal(t, "false", values.Get("active"))
		assert.Contains(t, values, "name")
		assert.NotContains(t, values, "skipped")
	})
	t.Run("values are percent-encoded", func(t *testing.T) {
		result := client.URL("/search", QueryParams{"identifier": "https://fhir.nhs.scot|012"})
		assert.Contains(t, result, "identifier="+url.QueryEscape("https://fhir.nhs.scot|012"))
	})
}

func TestOpt(t *testing.T) {
	assert.Nil(t, Opt(""))
	assert.Equal(t, "value", Opt("value"))
}

func TestClient_Headers(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "Bearer token-123", "key-456")
	_, err := client.Get(context.Background(), "/Patient", nil, map[string]string{
		"Prefer": "return=representation",
		"Empty":  "",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", captured.Get("Content-Type"))
	assert.Equal(t, "Bearer token-123", captured.Get("Authorization"))
	assert.Equal(t, "key-456", captured.Get("X-API-Key"))
	assert.Equal(t, "return=representation", captured.Get("Prefer"))
	// empty header values are filtered out, not sent
	_, present := captured["Empty"]
	assert.False(t, present)
}

func TestClient_StatusAgnostic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	response, err := client.Get(context.Background(), "/Patient/123", nil, nil)
	require.NoError(t, err, "non-2xx responses are delivered as data, not errors")
	assert.Equal(t, http.StatusBadGateway, response.StatusCode)
	assert.JSONEq(t, `{"error":"upstream down"}`, string(response.Body))
}

func TestClient_Post(t *testing.T) {
	var capturedBody string
	var capturedMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capturedBody = string(body)
		capturedMethod = r.Method
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	response, err := client.Post(context.Background(), "/Patient", map[string]string{"resourceType": "Patient"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, capturedMethod)
	assert.JSONEq(t, `{"resourceType":"Patient"}`, capturedBody)
	assert.Equal(t, http.StatusCreated, response.StatusCode)
}

func TestClient_Ping(t *testing.T) {
	t.Run("error status still counts as reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := NewClient(server.URL, "", "", "")
		assert.True(t, client.Ping(context.Background(), ""))
	})
	t.Run("connection failure is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()
		client := NewClient(server.URL, "", "", "")
		assert.False(t, client.Ping(context.Background(), ""))
	})
}
