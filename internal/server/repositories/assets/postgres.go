package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	query :=
		`INSERT INTO assets (base_url, salt, extension, width, height, user_id, poster_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.BaseURL, a.Salt, a.Extension, a.Width, a.Height,
		nullable(a.UserID), nullable(a.PosterID), a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, column, id string) (*models.Asset, error) {
	query := `SELECT id, base_url, salt, extension, width, height, user_id, poster_id, created_at
		 FROM assets WHERE ` + column + ` = $1
		 ORDER BY created_at DESC LIMIT 1`

	a := &models.Asset{}
	var userID, posterID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.BaseURL, &a.Salt, &a.Extension, &a.Width, &a.Height, &userID, &posterID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.UserID = userID.String
	a.PosterID = posterID.String
	return a, nil
}

// GetForPoster returns the most recent picture of a poster.
func (r *PostgresRepository) GetForPoster(ctx context.Context, posterID string) (*models.Asset, error) {
	return r.getOne(ctx, "poster_id", posterID)
}

// GetForUser returns the most recent profile picture of a user.
func (r *PostgresRepository) GetForUser(ctx context.Context, userID string) (*models.Asset, error) {
	return r.getOne(ctx, "user_id", userID)
}
