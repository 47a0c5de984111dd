// Package webutil adapts error-returning HTTP handlers to net/http and turns
// domain errors into JSON error payloads.
package webutil

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/logging"
)

// AppHandler is a handler that reports failure by returning an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

type publicError struct {
	err     error
	code    int
	message string
}

// Order matters: the first match wins.
var publicErrors = []publicError{
	{common.ErrMissingHeader, http.StatusUnauthorized, "Missing Authorization header"},
	{common.ErrMalformedHeader, http.StatusBadRequest, "Invalid Authorization header"},
	{common.ErrUnknownToken, http.StatusUnauthorized, "Invalid session token"},
	{common.ErrExpiredSession, http.StatusUnauthorized, "Session expired"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{common.ErrInvalidUpdateToken, http.StatusUnauthorized, "Invalid update token"},
	{common.ErrDuplicateAccount, http.StatusConflict, "User already exists"},
	{common.ErrRateLimited, http.StatusTooManyRequests, "Too many login attempts"},
	{common.ErrInvalidImage, http.StatusBadRequest, ""},
	{common.ErrUnsupportedImage, http.StatusBadRequest, ""},
	{common.ErrorValidation, http.StatusBadRequest, ""},
	{common.ErrorNotFound, http.StatusNotFound, msgNotFound},
	{common.ErrorAlreadyExists, http.StatusConflict, msgConflict},
}

// StatusFor maps err to a status code and a message that is safe to show.
// An empty message means the error text itself is safe.
func StatusFor(err error) (int, string) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}
	for _, pe := range publicErrors {
		if errors.Is(err, pe.err) {
			if pe.message == "" {
				return pe.code, err.Error()
			}
			return pe.code, pe.message
		}
	}
	return http.StatusInternalServerError, msgInternalServer
}

// Adapter converts AppHandlers into http.HandlerFuncs that log failures.
type Adapter struct {
	logger logging.Logger
}

func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// MakeHandler runs handler and, on error, writes {"error": "..."} with the
// mapped status. Internal details only reach the log.
func (a *Adapter) MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		code, message := StatusFor(err)
		ctx := r.Context()
		if code >= http.StatusInternalServerError {
			a.logger.Error(ctx, "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		} else {
			a.logger.Debug(ctx, "request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
		}

		if hasResponseWriterSentHeader(w) {
			a.logger.Warn(ctx, "handler returned error after writing response", "path", r.URL.Path, "error", err)
			return
		}
		RespondWithError(w, code, message)
	}
}
