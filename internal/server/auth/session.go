package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/clock"
	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

// DefaultSessionTTL is how long a session token stays valid after it is minted.
const DefaultSessionTTL = 24 * time.Hour

// SessionWriter persists a user's token triple. Implementations must write
// all three fields in a single statement, and only while the stored update
// token still equals prevUpdateToken; otherwise they return
// common.ErrorNotFound.
type SessionWriter interface {
	UpdateSession(ctx context.Context, userID, prevUpdateToken string, s models.Session) error
}

// SessionExpirer moves the expiration of one specific session token. It must
// not touch the token values, and must not extend an expiration that is
// already earlier than at.
type SessionExpirer interface {
	ExpireSession(ctx context.Context, userID, sessionToken string, at time.Time) error
}

// Revoker ends a session early.
type Revoker interface {
	Revoke(ctx context.Context, w SessionExpirer, user *models.User) error
}

// Manager issues, renews, revokes and checks session triples.
type Manager struct {
	issuer TokenIssuer
	clock  clock.Clock
	ttl    time.Duration
}

func NewManager(issuer TokenIssuer, clk clock.Clock, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{issuer: issuer, clock: clk, ttl: ttl}
}

// TTL returns the lifetime applied to new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) mint() (models.Session, error) {
	token, err := m.issuer.Generate()
	if err != nil {
		return models.Session{}, fmt.Errorf("session token: %w", err)
	}
	update, err := m.issuer.Generate()
	if err != nil {
		return models.Session{}, fmt.Errorf("update token: %w", err)
	}
	return models.Session{
		Token:       token,
		Expiration:  m.clock.Now().Add(m.ttl),
		UpdateToken: update,
	}, nil
}

// Create puts a fresh session on a user that has not been stored yet.
func (m *Manager) Create(user *models.User) error {
	s, err := m.mint()
	if err != nil {
		return err
	}
	user.SetSession(s)
	return nil
}

// Renew replaces the whole triple, both in storage and on user. The previous
// session and update tokens stop working once the write lands. If the stored
// triple was already replaced since user was read, nothing is written and
// common.ErrInvalidUpdateToken is returned.
func (m *Manager) Renew(ctx context.Context, w SessionWriter, user *models.User) (models.Session, error) {
	s, err := m.mint()
	if err != nil {
		return models.Session{}, err
	}
	if err := w.UpdateSession(ctx, user.ID, user.UpdateToken, s); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Session{}, common.ErrInvalidUpdateToken
		}
		return models.Session{}, err
	}
	user.SetSession(s)
	return s, nil
}

// Revoke moves the expiration of user's current session token to now and
// leaves the token values in place. A session that was renewed in the
// meantime is not affected.
func (m *Manager) Revoke(ctx context.Context, w SessionExpirer, user *models.User) error {
	now := m.clock.Now()
	if err := w.ExpireSession(ctx, user.ID, user.SessionToken, now); err != nil {
		return err
	}
	if user.SessionExpiration.After(now) {
		user.SessionExpiration = now
	}
	return nil
}

// VerifySession holds iff token equals the stored session token and now is
// strictly before the stored expiration.
func (m *Manager) VerifySession(token string, user *models.User) bool {
	if !tokensEqual(token, user.SessionToken) {
		return false
	}
	return m.clock.Now().Before(user.SessionExpiration)
}

// VerifyUpdateToken checks equality only. Update tokens carry no expiry.
func (m *Manager) VerifyUpdateToken(token string, user *models.User) bool {
	return tokensEqual(token, user.UpdateToken)
}

func tokensEqual(got, stored string) bool {
	if got == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(stored)) == 1
}
