package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Guards are the authentication layers routes are composed from
type Guards struct {
	Optional func(http.Handler) http.Handler // resolves a principal when a token is present
	Required func(http.Handler) http.Handler // rejects requests without a valid token
	Admin    func(http.Handler) http.Handler // rejects non-admin principals; runs after Required
}

// writeResult renders a service outcome. Store failures become a 500 error
// envelope and are logged with the request-scoped logger.
func writeResult[T any](w http.ResponseWriter, r *http.Request, fallback *zap.Logger, op string, result domain.ServiceResult[T], err error) {
	if err != nil {
		logger.FromContext(r.Context(), fallback).Error(op+" failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	middleware.RespondWithResult(w, result)
}

// decodeFailed answers a body that did not decode or validate
func decodeFailed(w http.ResponseWriter, r *http.Request, fallback *zap.Logger, err error) {
	logger.FromContext(r.Context(), fallback).Debug("Request validation failed", zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func int64Param(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v, err == nil
}
