package assets

import (
	"context"

	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Asset) (*models.Asset, error)
	GetForPoster(ctx context.Context, posterID string) (*models.Asset, error)
	GetForUser(ctx context.Context, userID string) (*models.Asset, error)
}
