package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// writeServiceError maps service sentinels onto the API error envelope.
// Anything unrecognised is logged and answered with 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid username or password")
	case errors.Is(err, domain.ErrUnauthenticated):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateUsername):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "Username already exists")
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "Email already exists")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeAlreadyRegistered, err.Error())
	case errors.Is(err, domain.ErrEventFull):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeEventFull, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// identity returns the caller set by RequireAuth, writing 401 when absent.
func identity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return nil, false
	}
	return id, true
}
