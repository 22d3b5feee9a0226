// Package healthcheck serves the liveness endpoint and an upstream
// reachability probe.
package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
)

// Pinger reports whether an upstream API answers at all; any HTTP response
// counts as reachable.
type Pinger interface {
	Ping(ctx context.Context) bool
}

func New(upstreams map[string]Pinger) *Service {
	return &Service{upstreams: upstreams}
}

type Service struct {
	upstreams map[string]Pinger
}

func (s Service) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealthCheck)
	mux.HandleFunc("GET /health/upstreams", s.handleUpstreamsCheck)
}

func (s Service) handleHealthCheck(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(map[string]string{"status": "up"})
}

func (s Service) handleUpstreamsCheck(writer http.ResponseWriter, request *http.Request) {
	results := make(map[string]bool, len(s.upstreams))
	allUp := true
	for name, upstream := range s.upstreams {
		up := upstream.Ping(request.Context())
		results[name] = up
		allUp = allUp && up
	}
	writer.Header().Set("Content-Type", "application/json")
	if !allUp {
		writer.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(writer).Encode(results)
}
