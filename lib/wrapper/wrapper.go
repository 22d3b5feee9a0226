// Package wrapper holds the error-translation helpers shared by the upstream
// service wrappers.
package wrapper

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ndp-scot/cdr-gateway/lib/apperror"
)

// Base carries the upstream service name and translates upstream failures
// into the two signals the query layer knows: not-found (with the lookup
// identifiers) and unhandled (cause logged, not exposed).
type Base struct {
	ServiceName string
}

func (b Base) NotFound(message string, identifiers map[string]string) error {
	return apperror.NotFoundForService(b.ServiceName, message, identifiers)
}

func (b Base) Unhandled(ctx context.Context, err error) error {
	log.Ctx(ctx).Error().Err(err).Msgf("%s: unhandled upstream error", b.ServiceName)
	return apperror.Unhandled(b.ServiceName, err)
}
