package posters

import (
	"context"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

// Period narrows a poster listing by event date relative to a reference time.
type Period int

const (
	AllDates Period = iota
	Upcoming
	Past
)

type Repository interface {
	Create(ctx context.Context, p *models.Poster) (*models.Poster, error)
	GetByID(ctx context.Context, id string) (*models.Poster, error)
	AddViews(ctx context.Context, id string, n int64) (*models.Poster, error)
	AddLikes(ctx context.Context, id string, n int64) (*models.Poster, error)
	AttachCategory(ctx context.Context, posterID, categoryID string) error
	Categories(ctx context.Context, posterID string) ([]models.Category, error)
	Save(ctx context.Context, userID, posterID string) error
	ListSaved(ctx context.Context, userID string, period Period, now time.Time) ([]models.Poster, error)
	ListOwned(ctx context.Context, userID string, period Period, now time.Time) ([]models.Poster, error)
	SavedBy(ctx context.Context, posterID string) ([]models.User, error)
}
