package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/errs"
	"github.com/storelane/storelane/pkg/logger"
	"github.com/storelane/storelane/pkg/middleware"
	"github.com/storelane/storelane/pkg/response"
)

// respondError maps a service error onto the HTTP status for its kind.
// Domain errors surface their message; anything unexpected is logged and
// hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrEmptyCart):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrValidation):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// uintParam parses a {name} path segment as an unsigned id.
func uintParam(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// intQuery parses a query value as an int, falling back to def when absent.
func intQuery(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// currentUserID reads the authenticated user id set by the auth middleware.
// Routes behind AuthMiddleware always have it; a miss is a wiring bug.
func currentUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
	}
	return id, ok
}
