package httpserv

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Route struct {
	Method     string
	Path       string
	Handler    http.HandlerFunc
	Middleware func(http.HandlerFunc) http.HandlerFunc
}

func RegisterRoutes(mux *http.ServeMux, routes ...Route) {
	for _, route := range routes {
		if route.Handler == nil {
			panic("route handler cannot be nil")
		}
		mux.HandleFunc(strings.Join([]string{route.Method, route.Path}, " "), func(writer http.ResponseWriter, request *http.Request) {
			if route.Middleware != nil {
				route.Middleware(route.Handler)(writer, request)
			} else {
				route.Handler(writer, request)
			}
		})
	}
}

func Chain(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(final http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// RequestLogger tags the request context logger with a generated request ID,
// so all upstream calls made for this request log under it.
func RequestLogger(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		logger := log.Ctx(request.Context()).With().
			Str("request_id", uuid.NewString()).
			Logger()
		logger.Debug().Msgf("%s %s", request.Method, request.URL.Path)
		next(writer, request.WithContext(logger.WithContext(request.Context())))
	}
}
