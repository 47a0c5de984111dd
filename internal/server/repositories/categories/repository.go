package categories

import (
	"context"

	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, title string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByTitle(ctx context.Context, title string) (*models.Category, error)
	SearchByPrefix(ctx context.Context, prefix string) ([]models.Category, error)
	PostersWithCategory(ctx context.Context, categoryID string) ([]models.Poster, error)
	UsersWithCategory(ctx context.Context, categoryID string) ([]models.User, error)
}
