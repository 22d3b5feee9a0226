package openehrapi

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/ndp-scot/cdr-gateway/lib/api"
)

// Data formats the MDDH API serves compositions in.
const (
	FormatCanonical  = "CANONICAL"
	FormatFlat       = "FLAT"
	FormatStructured = "STRUCTURED"
)

// MDDHClient speaks the Medical Device Registry API, an openEHR-shaped
// service with its own patient and device-search surface. Unlike Client the
// base path is used as given.
type MDDHClient struct {
	rest           *api.Client
	serverNodeName string
}

func NewMDDH(serverRootURL, basePath, authHeader, apiKey, serverNodeName string) *MDDHClient {
	if serverNodeName == "" {
		serverNodeName = defaultServerNodeName
	}
	return &MDDHClient{
		rest:           api.NewClient(serverRootURL, basePath, authHeader, apiKey),
		serverNodeName: serverNodeName,
	}
}

func (c *MDDHClient) URL(path string) string {
	return c.rest.URL(path, nil)
}

func (c *MDDHClient) Ping(ctx context.Context) bool {
	return c.rest.Ping(ctx, "")
}

func (c *MDDHClient) CreatePatient(ctx context.Context, ehr any, format string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Posting EHR...")
	return c.rest.Post(ctx, "/patient", ehr, formatParams(format), headers)
}

func (c *MDDHClient) GetEHR(ctx context.Context, ehrID, format string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Querying by EHR ID...")
	return c.rest.Get(ctx, "/patient/"+url.PathEscape(ehrID), formatParams(format), headers)
}

func (c *MDDHClient) GetEHRBySubject(ctx context.Context, subjectID, subjectNamespace, format string, headers map[string]string) (*api.Response, error) {
	queryParams := formatParams(format)
	queryParams["subject_id"] = subjectID
	queryParams["subject_namespace"] = api.Opt(subjectNamespace)
	log.Ctx(ctx).Debug().Msg("Querying by subject ID...")
	return c.rest.Get(ctx, "/patient", queryParams, headers)
}

// ListCompositionsForEHR lists every composition held for an EHR; the body
// decodes into DeviceSearchResponse.
func (c *MDDHClient) ListCompositionsForEHR(ctx context.Context, ehrID, format string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Querying by EHR ID for compositions...")
	return c.rest.Get(ctx, "/patient/"+url.PathEscape(ehrID)+"/composition", formatParams(format), headers)
}

func (c *MDDHClient) PostComposition(ctx context.Context, ehrID string, composition any, format string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Posting composition...")
	return c.rest.Post(ctx, "/patient/"+url.PathEscape(ehrID)+"/composition", composition, formatParams(format), headers)
}

func (c *MDDHClient) GetComposition(ctx context.Context, ehrID, compositionID string, version *int, format string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msgf("Getting composition %s::%s for EHR %s...", compositionID, versionLabel(version), ehrID)
	path := "/patient/" + url.PathEscape(ehrID) + "/composition/" + compositionPath(compositionID, c.serverNodeName, version)
	return c.rest.Get(ctx, path, formatParams(format), headers)
}

func (c *MDDHClient) PutComposition(ctx context.Context, ehrID, compositionID string, payload any, format string, headers map[string]string) (*api.Response, error) {
	log.Ctx(ctx).Debug().Msg("Updating composition...")
	return c.rest.Put(ctx, "/patient/"+url.PathEscape(ehrID)+"/composition/"+compositionID, payload, formatParams(format), headers)
}

// SearchDevices queries the device search endpoint with caller-provided
// search parameters passed through verbatim.
func (c *MDDHClient) SearchDevices(ctx context.Context, searchParams map[string]string, headers map[string]string) (*api.Response, error) {
	queryParams := api.QueryParams{}
	for key, value := range searchParams {
		queryParams[key] = value
	}
	log.Ctx(ctx).Debug().Msg("Querying by GET API...")
	return c.rest.Get(ctx, "/devices/search", queryParams, headers)
}

func formatParams(format string) api.QueryParams {
	return api.QueryParams{"format": api.Opt(format)}
}
