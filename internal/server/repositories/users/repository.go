package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySessionToken(ctx context.Context, token string) (*models.User, error)
	GetByUpdateToken(ctx context.Context, token string) (*models.User, error)
	UpdateSession(ctx context.Context, userID, prevUpdateToken string, session models.Session) error
	ExpireSession(ctx context.Context, userID, sessionToken string, at time.Time) error
	AddInterest(ctx context.Context, userID, categoryID string) error
	ListInterests(ctx context.Context, userID string) ([]models.Category, error)
}
