// Package openehrapi specializes the generic REST client with openEHR
// semantics: EHR and composition lifecycles, AQL querying, and the MDDH
// patient/device API built on top of openEHR.
package openehrapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ndp-scot/cdr-gateway/lib/api"
)

const defaultServerNodeName = "local.ehrbase.org"

// Client speaks the openEHR REST API; the base path is always suffixed with
// /openehr/v1.
type Client struct {
	rest           *api.Client
	serverNodeName string
}

func New(serverRootURL, basePath, authHeader, apiKey, serverNodeName string) *Client {
	if basePath != "" {
		basePath = api.TrimLeadingSlash(api.TrimTrailingSlash(basePath))
	}
	basePath = basePath + "/openehr/v1"
	if serverNodeName == "" {
		serverNodeName = defaultServerNodeName
	}
	return &Client{
		rest:           api.NewClient(serverRootURL, basePath, authHeader, apiKey),
		serverNodeName: serverNodeName,
	}
}

func (c *Client) URL(path string) string {
	return c.rest.URL(path, nil)
}

func (c *Client) Ping(ctx context.Context) bool {
	return c.rest.Ping(ctx, "")
}

func (c *Client) PostEHR(ctx context.Context, ehr any, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Posting EHR...")
	return c.rest.Post(ctx, "/ehr", ehr, nil, headers)
}

func (c *Client) GetEHR(ctx context.Context, ehrID string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Querying by EHR ID...")
	return c.rest.Get(ctx, "/ehr/"+url.PathEscape(ehrID), nil, headers)
}

// GetEHRBySubject looks an EHR up by external subject identifier and optional
// namespace.
func (c *Client) GetEHRBySubject(ctx context.Context, subjectID, subjectNamespace string, headers map[string]string) (*api.Response, error) {
	queryParams := api.QueryParams{
		"subject_id":        subjectID,
		"subject_namespace": api.Opt(subjectNamespace),
	}
	log.Ctx(ctx).Debug().Msg("Querying by subject ID...")
	return c.rest.Get(ctx, "/ehr", queryParams, headers)
}

func (c *Client) PostComposition(ctx context.Context, ehrID string, composition any, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Posting composition...")
	return c.rest.Post(ctx, "/ehr/"+url.PathEscape(ehrID)+"/composition", composition, nil, headers)
}

// GetComposition fetches a composition, optionally pinned to a specific
// version; version-qualified IDs take the form id::serverNodeName::version.
func (c *Client) GetComposition(ctx context.Context, ehrID, compositionID string, version *int, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msgf("Getting composition %s::%s for EHR %s...", compositionID, versionLabel(version), ehrID)
	path := "/ehr/" + url.PathEscape(ehrID) + "/composition/" + compositionPath(compositionID, c.serverNodeName, version)
	return c.rest.Get(ctx, path, nil, headers)
}

func (c *Client) PutComposition(ctx context.Context, ehrID, compositionID string, payload any, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Updating composition...")
	return c.rest.Put(ctx, "/ehr/"+url.PathEscape(ehrID)+"/composition/"+compositionID, payload, nil, headers)
}

// QueryAQL posts an AQL query; rows and columns are passed through as
// returned by the server.
func (c *Client) QueryAQL(ctx context.Context, query AQLQuery, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Querying by AQL...")
	return c.rest.Post(ctx, "/query/aql", query, nil, headers)
}

func compositionPath(compositionID, serverNodeName string, version *int) string {
	if version == nil {
		return url.PathEscape(compositionID)
	}
	return url.PathEscape(compositionID) + "::" + url.PathEscape(serverNodeName) + "::" + strconv.Itoa(*version)
}

func versionLabel(version *int) string {
	if version == nil {
		return "latest"
	}
	return strconv.Itoa(*version)
}
