// Package fhirapi specializes the generic REST client with FHIR resource
// semantics. Unlike the generic client it does translate HTTP statuses:
// 404 becomes a typed not-found error, any other non-success status a
// generic error.
package fhirapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

	"github.com/ndp-scot/cdr-gateway/lib/api"
	"github.com/ndp-scot/cdr-gateway/lib/apperror"
)

type Client struct {
	rest *api.Client
}

// New builds a FHIR client rooted at serverRootURL + basePath, optionally
// scoped to a tenant segment.
func New(serverRootURL, basePath, authHeader, apiKey, tenantID string) *Client {
	// a bare "/" base path is the same as none
	if basePath == "/" {
		basePath = ""
	}
	if tenantID != "" {
		basePath = api.TrimTrailingSlash(basePath) + "/tenant/" + tenantID
	}
	return &Client{rest: api.NewClient(serverRootURL, basePath, authHeader, apiKey)}
}

// URL exposes the composed request URL, mainly for logging.
func (c *Client) URL(path string) string {
	return c.rest.URL(path, nil)
}

func (c *Client) Ping(ctx context.Context) bool {
	return c.rest.Ping(ctx, "")
}

// ListResourceByType fetches all resources of a type into target. Custom
// query fragments are appended raw: neither key nor value is re-encoded, so
// callers must pre-encode where needed.
func (c *Client) ListResourceByType(ctx context.Context, typeName string, customQueries []string, target any) error {
	requestURL := c.rest.URL("/"+typeName, nil)
	if len(customQueries) > 0 {
		var fragments []string
		for _, query := range customQueries {
			tokens := strings.SplitN(query, "=", 2)
			if len(tokens) == 1 {
				tokens = append(tokens, "")
			}
			fragments = append(fragments, tokens[0]+"="+tokens[1])
		}
		requestURL += "?" + strings.Join(fragments, "&")
	}
	log.Ctx(ctx).Debug().Msgf("Listing %s from API...", typeName)
	response, err := c.rest.Do(ctx, http.MethodGet, requestURL, nil, nil)
	if err != nil {
		return err
	}
	return c.decodeOrFail(response, http.StatusOK, target)
}

// GetResourceById fetches a single resource by its logical ID into target.
func (c *Client) GetResourceById(ctx context.Context, typeName, id string, target any) error {
	log.Ctx(ctx).Debug().Msgf("Getting %s by ID from API...", typeName)
	response, err := c.rest.Get(ctx, "/"+typeName+"/"+id, nil, nil)
	if err != nil {
		return err
	}
	return c.decodeOrFail(response, http.StatusOK, target)
}

// SearchByIdentifier searches a resource type by identifier token
// (system|identifier, or the bare identifier when no system is given).
func (c *Client) SearchByIdentifier(ctx context.Context, typeName, identifier, identifierSystem string, target any) error {
	token := identifier
	if identifierSystem != "" {
		token = identifierSystem + "|" + identifier
	}
	log.Ctx(ctx).Debug().Msgf("Searching %s by identifier from API...", typeName)
	response, err := c.rest.Get(ctx, "/"+typeName, api.QueryParams{"identifier": token}, nil)
	if err != nil {
		return err
	}
	return c.decodeOrFail(response, http.StatusOK, target)
}

// GetFirstByIdentifier searches by identifier and returns the first matching
// Bundle entry's resource, or nil when the Bundle reports no matches.
func (c *Client) GetFirstByIdentifier(ctx context.Context, typeName, identifier, identifierSystem string) (json.RawMessage, error) {
	var bundle fhir.Bundle
	if err := c.SearchByIdentifier(ctx, typeName, identifier, identifierSystem, &bundle); err != nil {
		return nil, err
	}
	if bundle.Total != nil && *bundle.Total == 0 {
		return nil, nil
	}
	if len(bundle.Entry) == 0 {
		return nil, nil
	}
	return bundle.Entry[0].Resource, nil
}

// Create posts a new resource; anything but HTTP 201 is an error.
func (c *Client) Create(ctx context.Context, typeName string, payload any, target any) error {
	log.Ctx(ctx).Debug().Msgf("Posting %s", typeName)
	response, err := c.rest.Post(ctx, "/"+typeName, payload, nil, nil)
	if err != nil {
		return err
	}
	if response.StatusCode != http.StatusCreated {
		return statusError(response.StatusCode)
	}
	return decode(response, target)
}

// Match invokes the $match operation on a resource type.
func (c *Client) Match(ctx context.Context, typeName string, matchParams any, target any) error {
	requestURL := c.rest.URL("/"+typeName, nil) + "?$match"
	log.Ctx(ctx).Debug().Msgf("Posting to %s/$match", typeName)
	response, err := c.rest.Do(ctx, http.MethodPost, requestURL, matchParams, nil)
	if err != nil {
		return err
	}
	return c.decodeOrFail(response, http.StatusOK, target)
}

// Search performs a GET search with structured, individually encoded query
// parameters.
func (c *Client) Search(ctx context.Context, typeName string, searchParams url.Values, target any) error {
	requestURL := c.rest.URL("/"+typeName, nil)
	if len(searchParams) > 0 {
		requestURL += "?" + searchParams.Encode()
	}
	log.Ctx(ctx).Debug().Msgf("Getting %s (search)", typeName)
	response, err := c.rest.Do(ctx, http.MethodGet, requestURL, nil, nil)
	if err != nil {
		return err
	}
	return c.decodeOrFail(response, http.StatusOK, target)
}

func (c *Client) decodeOrFail(response *api.Response, wantStatus int, target any) error {
	if response.StatusCode == http.StatusNotFound {
		return apperror.NotFound("")
	}
	if response.StatusCode != wantStatus {
		return statusError(response.StatusCode)
	}
	return decode(response, target)
}

func decode(response *api.Response, target any) error {
	if target == nil {
		return nil
	}
	if err := response.Decode(target); err != nil {
		return fmt.Errorf("failed to decode FHIR response: %w", err)
	}
	return nil
}

func statusError(statusCode int) error {
	return fmt.Errorf("response %d: %s", statusCode, http.StatusText(statusCode))
}
