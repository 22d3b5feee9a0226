package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// QueryParams holds query parameters for a request. A nil value means the
// parameter is omitted; every other value (including 0, false and the empty
// string) is included and percent-encoded.
type QueryParams map[string]any

// Opt turns an optional string into a query parameter value: empty strings
// are omitted from the request.
func Opt(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// Response is the uniform result of every client call, regardless of the
// HTTP status code. Callers must inspect StatusCode themselves: the client
// never translates status codes into errors.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into target.
func (r *Response) Decode(target any) error {
	return json.Unmarshal(r.Body, target)
}

type HTTPRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the generic REST wrapper shared by all upstream integrations.
// It owns URL composition and header injection; translating HTTP statuses
// into errors is the responsibility of the protocol specializations.
type Client struct {
	rootURL    string
	authHeader string
	apiKey     string

	// HTTPClient performs the requests. Swappable for testing.
	HTTPClient HTTPRequestDoer
}

// NewClient builds a client rooted at serverRootURL with an optional base
// path appended. Redundant slashes on either part are normalized away.
func NewClient(serverRootURL, basePath, authHeader, apiKey string) *Client {
	rootURL := TrimTrailingSlash(serverRootURL)
	if basePath != "" {
		rootURL = rootURL + "/" + TrimLeadingSlash(TrimTrailingSlash(basePath))
	}
	return &Client{
		rootURL:    TrimTrailingSlash(rootURL),
		authHeader: authHeader,
		apiKey:     apiKey,
		HTTPClient: http.DefaultClient,
	}
}

func (c *Client) RootURL() string {
	return c.rootURL
}

// URL composes a request URL from the client root, a path and query
// parameters. Leading slashes on the path are trimmed so the root's base
// path is never discarded.
func (c *Client) URL(path string, queryParams QueryParams) string {
	result := c.rootURL + "/" + TrimLeadingSlash(path)
	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			if value == nil {
				continue
			}
			values.Set(key, fmt.Sprint(value))
		}
		if len(values) > 0 {
			result += "?" + values.Encode()
		}
	}
	return result
}

func (c *Client) headers(optionalHeaders map[string]string) http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	if c.authHeader != "" {
		headers.Set("Authorization", c.authHeader)
	}
	if c.apiKey != "" {
		headers.Set("X-API-Key", c.apiKey)
	}
	for key, value := range optionalHeaders {
		// filter out empty values
		if value != "" {
			headers.Set(key, value)
		}
	}
	return headers
}

// Do executes a request against a fully composed URL. Every response,
// whatever its status code, is returned as a Response; an error is returned
// only on connection-level failure.
func (c *Client) Do(ctx context.Context, method string, requestURL string, payload any, optionalHeaders map[string]string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := marshalPayload(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, err
	}
	request.Header = c.headers(optionalHeaders)

	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       responseBody,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, queryParams QueryParams, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, c.URL(path, queryParams), nil, headers)
}

func (c *Client) Post(ctx context.Context, path string, payload any, queryParams QueryParams, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, c.URL(path, queryParams), payload, headers)
}

func (c *Client) Put(ctx context.Context, path string, payload any, queryParams QueryParams, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodPut, c.URL(path, queryParams), payload, headers)
}

func (c *Client) Delete(ctx context.Context, path string, queryParams QueryParams, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, c.URL(path, queryParams), nil, headers)
}

// Ping probes the API for reachability. Any response, even an error status,
// counts as reachable; only a connection-level failure yields false.
func (c *Client) Ping(ctx context.Context, path string) bool {
	if path == "" {
		path = "/any-old-url"
	}
	_, err := c.Get(ctx, path, nil, nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msgf("API at %s is unreachable", c.rootURL)
		return false
	}
	return true
}

func marshalPayload(payload any) ([]byte, error) {
	switch data := payload.(type) {
	case json.RawMessage:
		return data, nil
	case []byte:
		return data, nil
	default:
		return json.Marshal(payload)
	}
}

// TrimTrailingSlash removes every trailing slash from part.
func TrimTrailingSlash(part string) string {
	for len(part) > 0 && part[len(part)-1] == '/' {
		part = part[:len(part)-1]
	}
	return part
}

// TrimLeadingSlash removes every leading slash from part.
func TrimLeadingSlash(part string) string {
	for len(part) > 0 && part[0] == '/' {
		part = part[1:]
	}
	return part
}
