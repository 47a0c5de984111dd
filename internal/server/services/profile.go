package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/repomanager"
)

// UserProfile is a user together with everything linked to the account.
type UserProfile struct {
	User       *models.User
	ProfilePic *models.Asset
	MyPosters  []models.Poster
	Interests  []models.Category
	Saved      []models.Poster
}

func loadProfile(ctx context.Context, db dbx.DBTX, m repomanager.RepositoryManager, user *models.User) (*UserProfile, error) {
	p := &UserProfile{User: user}

	pic, err := m.Assets(db).GetForUser(ctx, user.ID)
	switch {
	case err == nil:
		p.ProfilePic = pic
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	pr := m.Posters(db)
	if p.MyPosters, err = pr.ListOwned(ctx, user.ID, posters.AllDates, time.Time{}); err != nil {
		return nil, err
	}
	if p.Saved, err = pr.ListSaved(ctx, user.ID, posters.AllDates, time.Time{}); err != nil {
		return nil, err
	}
	if p.Interests, err = m.Users(db).ListInterests(ctx, user.ID); err != nil {
		return nil, err
	}
	return p, nil
}
