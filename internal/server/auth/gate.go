package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

// HeaderGetter is the only thing the gate needs from a request.
// http.Header satisfies it. Values returns nil when the header is absent.
type HeaderGetter interface {
	Values(name string) []string
}

// SessionLookup resolves a session token to its owner.
type SessionLookup interface {
	GetBySessionToken(ctx context.Context, token string) (*models.User, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// An absent header is ErrMissingHeader; a present but blank one is malformed.
func BearerToken(h HeaderGetter) (string, error) {
	values := h.Values(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return "", common.ErrMissingHeader
	}

	value := strings.TrimSpace(values[0])
	scheme, rest, ok := strings.Cut(value, " ")
	if !ok || scheme != common.BearerScheme {
		return "", common.ErrMalformedHeader
	}

	token := strings.TrimSpace(rest)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", common.ErrMalformedHeader
	}
	return token, nil
}

// Gate guards protected operations.
type Gate struct {
	sessions *Manager
	users    SessionLookup
}

func NewGate(sessions *Manager, users SessionLookup) *Gate {
	return &Gate{sessions: sessions, users: users}
}

// Authorize returns the user owning a live session named by the request's
// bearer token. It has no side effects.
func (g *Gate) Authorize(ctx context.Context, h HeaderGetter) (*models.User, error) {
	token, err := BearerToken(h)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownToken
		}
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	if !g.sessions.VerifySession(token, user) {
		return nil, common.ErrExpiredSession
	}
	return user, nil
}
