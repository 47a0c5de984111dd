// Package common defines shared constants and sentinel errors used across
// client and server layers of posterboard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")
	ErrRateLimited  = errors.New("too many attempts")

	// Authorization gate errors.
	ErrMissingHeader   = errors.New("missing authorization header")
	ErrMalformedHeader = errors.New("invalid authorization header")
	ErrUnknownToken    = errors.New("unknown session token")
	ErrExpiredSession  = errors.New("session expired or invalid")

	// Account and session lifecycle errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUpdateToken = errors.New("invalid update token")
	ErrDuplicateAccount   = errors.New("user already exists")

	// Asset pipeline errors.
	ErrInvalidImage     = errors.New("invalid image data")
	ErrUnsupportedImage = errors.New("unsupported image type")
)
