package errors

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Mapper maps typed errors to HTTP status codes
type Mapper struct {
	logger zerolog.Logger
}

func NewMapper(logger zerolog.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// MapErrorToHTTP returns the status and the client-facing message for err.
// Internal causes are logged and never leave the service.
func (m *Mapper) MapErrorToHTTP(err error) (int, string) {
	if err == nil {
		return fasthttp.StatusOK, ""
	}

	if status, msg, ok := clientStatus(err); ok {
		return status, msg
	}

	var internalErr *InternalError
	switch {
	case errors.As(err, &internalErr):
		m.logger.Error().Err(err).Msg("internal server error")
		return fasthttp.StatusInternalServerError, internalErr.message
	case errors.Is(err, context.DeadlineExceeded):
		m.logger.Warn().Err(err).Msg("request timed out")
		return fasthttp.StatusGatewayTimeout, "request timed out"
	}

	m.logger.Error().Err(err).Msg("unknown error")
	return fasthttp.StatusInternalServerError, "internal server error"
}

// clientStatus finds the outermost typed client error in the chain
func clientStatus(err error) (int, string, bool) {
	var (
		validationErr  *ValidationError
		permissionErr  *PermissionError
		notFoundErr    *NotFoundError
		conflictErr    *ConflictError
		unavailableErr *ServiceUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		return fasthttp.StatusBadRequest, validationErr.Error(), true
	case errors.As(err, &permissionErr):
		return fasthttp.StatusForbidden, permissionErr.Error(), true
	case errors.As(err, &notFoundErr):
		return fasthttp.StatusNotFound, notFoundErr.Error(), true
	case errors.As(err, &conflictErr):
		return fasthttp.StatusConflict, conflictErr.Error(), true
	case errors.As(err, &unavailableErr):
		return fasthttp.StatusServiceUnavailable, unavailableErr.Error(), true
	}
	return 0, "", false
}
