// Package services contains server-side business logic. This file implements
// UserService: registration, login, session refresh and logout, all of which
// hand out or revoke the session triple stored on the user row.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/auth"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/ratelimit"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/repomanager"
)

// RegisterInput carries the fields of a registration request. ImageData is
// an optional profile picture as a data URL.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
	ImageData   string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *auth.Manager
	revoker     auth.Revoker
	gate        *auth.Gate
	hasher      *auth.Hasher
	limiter     ratelimit.LoginLimiter
	assets      *AssetService
	logger      logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *auth.Manager, hasher *auth.Hasher,
	limiter ratelimit.LoginLimiter, assets *AssetService, logger logging.Logger) *UserService {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		revoker:     sessions,
		gate:        auth.NewGate(sessions, m.Users(db)),
		hasher:      hasher,
		limiter:     limiter,
		assets:      assets,
		logger:      logger.With("module", "users"),
	}
}

// Register creates the account and its first session. A profile picture that
// fails to upload is logged and skipped.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, common.ErrDuplicateAccount
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: in.Email, DisplayName: in.DisplayName, PasswordDigest: digest}
	if err := s.sessions.Create(user); err != nil {
		return nil, err
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	if in.ImageData != "" && s.assets != nil {
		if _, err := s.assets.Upload(ctx, in.ImageData, Owner{UserID: user.ID}); err != nil {
			s.logger.Warn(ctx, "profile picture skipped", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		pw, err := common.MakeRandHexString(16)
		if err == nil {
			s.dummyDigest, _ = s.hasher.Hash(pw)
		}
	})
	return s.dummyDigest
}

// Login checks the password and renews the session. Unknown emails still pay
// for a bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := s.limiter.Check(ctx, email); err != nil {
		if errors.Is(err, common.ErrRateLimited) {
			return nil, err
		}
		s.logger.Warn(ctx, "login limiter unavailable", "error", err)
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.hasher.Verify(password, s.dummy())
		s.recordFailure(ctx, email)
		return nil, common.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordDigest) {
		s.recordFailure(ctx, email)
		return nil, common.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn(ctx, "login limiter reset failed", "error", err)
	}

	err = s.renew(ctx, user)
	if errors.Is(err, common.ErrInvalidUpdateToken) {
		// A refresh replaced the triple after the row was read; renew from the current row.
		if user, err = s.repomanager.Users(s.db).GetByID(ctx, user.ID); err == nil {
			err = s.renew(ctx, user)
		}
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

func (s *UserService) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.Fail(ctx, email); err != nil {
		s.logger.Warn(ctx, "login limiter update failed", "error", err)
	}
}

func (s *UserService) renew(ctx context.Context, user *models.User) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.sessions.Renew(ctx, s.repomanager.Users(tx), user)
		return err
	})
}

// Refresh trades an update token for a brand-new session triple.
func (s *UserService) Refresh(ctx context.Context, updateToken string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUpdateToken(ctx, updateToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidUpdateToken
		}
		return nil, err
	}
	if !s.sessions.VerifyUpdateToken(updateToken, user) {
		return nil, common.ErrInvalidUpdateToken
	}

	if err := s.renew(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout expires the caller's session immediately. If the session was renewed
// after user was read, the renewed session stays valid.
func (s *UserService) Logout(ctx context.Context, user *models.User) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.revoker.Revoke(ctx, s.repomanager.Users(tx), user)
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// Authorize runs the authorization gate against request headers.
func (s *UserService) Authorize(ctx context.Context, h auth.HeaderGetter) (*models.User, error) {
	return s.gate.Authorize(ctx, h)
}

func (s *UserService) Profile(ctx context.Context, user *models.User) (*UserProfile, error) {
	return loadProfile(ctx, s.db, s.repomanager, user)
}

// AddInterests links the user to the named categories. Unknown titles are
// skipped.
func (s *UserService) AddInterests(ctx context.Context, user *models.User, titles []string) (*UserProfile, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cats := s.repomanager.Categories(tx)
		users := s.repomanager.Users(tx)
		for _, title := range titles {
			c, err := cats.GetByTitle(ctx, title)
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := users.AddInterest(ctx, user.ID, c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, user)
}
