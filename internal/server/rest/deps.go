package rest

import (
	"context"

	"github.com/dmitrijs2005/posterboard/internal/server/auth"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/services"
)

// The handlers depend on these narrow views of the services package.

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Refresh(ctx context.Context, updateToken string) (*models.User, error)
	Logout(ctx context.Context, user *models.User) error
	Authorize(ctx context.Context, h auth.HeaderGetter) (*models.User, error)
	Profile(ctx context.Context, user *models.User) (*services.UserProfile, error)
	AddInterests(ctx context.Context, user *models.User, titles []string) (*services.UserProfile, error)
}

type PosterService interface {
	Get(ctx context.Context, id string) (*services.PosterDetail, error)
	View(ctx context.Context, id string) (*services.PosterDetail, error)
	Like(ctx context.Context, id string) (*services.PosterDetail, error)
	Dislike(ctx context.Context, id string) (*services.PosterDetail, error)
	Save(ctx context.Context, user *models.User, posterID string) (*services.UserProfile, error)
	ListSaved(ctx context.Context, user *models.User, period posters.Period) ([]models.Poster, error)
	ListOwned(ctx context.Context, user *models.User, period posters.Period) ([]models.Poster, error)
	Create(ctx context.Context, user *models.User, in services.CreatePosterInput) (*services.PosterDetail, error)
}

type CategoryService interface {
	Initialize(ctx context.Context) ([]services.CategoryDetail, error)
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*services.CategoryDetail, error)
	Search(ctx context.Context, prefix string) ([]services.CategoryDetail, error)
}

type AssetService interface {
	Upload(ctx context.Context, imageData string, owner services.Owner) (*models.Asset, error)
}
