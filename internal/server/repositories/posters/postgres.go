package posters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

const posterColumns = `p.id, p.name, p.author, p.date, p.location, p.description, p.number_of_views, p.number_of_likes, p.user_id, p.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPoster(s scanner) (*models.Poster, error) {
	p := &models.Poster{}
	err := s.Scan(&p.ID, &p.Name, &p.Author, &p.Date, &p.Location, &p.Description,
		&p.Views, &p.Likes, &p.UserID, &p.CreatedAt)
	return p, err
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Poster) (*models.Poster, error) {
	query :=
		`INSERT INTO posters (name, author, date, location, description, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, number_of_views, number_of_likes, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Author, p.Date, p.Location, p.Description, p.UserID).
		Scan(&p.ID, &p.Views, &p.Likes, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Poster, error) {
	p, err := scanPoster(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Poster, error) {
	return r.one(ctx, `SELECT `+posterColumns+` FROM posters p WHERE p.id = $1`, id)
}

// AddViews adjusts the view counter in SQL and returns the updated poster.
func (r *PostgresRepository) AddViews(ctx context.Context, id string, n int64) (*models.Poster, error) {
	query :=
		`UPDATE posters p SET number_of_views = p.number_of_views + $2
		 WHERE p.id = $1
		 RETURNING ` + posterColumns
	return r.one(ctx, query, id, n)
}

// AddLikes adjusts the like counter in SQL; n may be negative.
func (r *PostgresRepository) AddLikes(ctx context.Context, id string, n int64) (*models.Poster, error) {
	query :=
		`UPDATE posters p SET number_of_likes = p.number_of_likes + $2
		 WHERE p.id = $1
		 RETURNING ` + posterColumns
	return r.one(ctx, query, id, n)
}

func (r *PostgresRepository) AttachCategory(ctx context.Context, posterID, categoryID string) error {
	query :=
		`INSERT INTO posters_to_categories (poster_id, category_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `
	if _, err := r.db.ExecContext(ctx, query, posterID, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Categories(ctx context.Context, posterID string) ([]models.Category, error) {
	query :=
		`SELECT c.id, c.title FROM categories c
		 JOIN posters_to_categories pc ON pc.category_id = c.id
		 WHERE pc.poster_id = $1
		 ORDER BY c.title
		 `

	rows, err := r.db.QueryContext(ctx, query, posterID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Save records that the user saved the poster. Saving twice yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Save(ctx context.Context, userID, posterID string) error {
	query :=
		`INSERT INTO posters_to_users (user_id, poster_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, userID, posterID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func periodClause(period Period) string {
	switch period {
	case Upcoming:
		return ` AND p.date > $2`
	case Past:
		return ` AND p.date < $2`
	default:
		return ``
	}
}

func (r *PostgresRepository) list(ctx context.Context, query string, userID string, period Period, now time.Time) ([]models.Poster, error) {
	args := []any{userID}
	if period != AllDates {
		args = append(args, now)
	}

	rows, err := r.db.QueryContext(ctx, query+periodClause(period)+` ORDER BY p.date`, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Poster{}
	for rows.Next() {
		p, err := scanPoster(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListSaved(ctx context.Context, userID string, period Period, now time.Time) ([]models.Poster, error) {
	query := `SELECT ` + posterColumns + ` FROM posters p
		 JOIN posters_to_users pu ON pu.poster_id = p.id
		 WHERE pu.user_id = $1`
	return r.list(ctx, query, userID, period, now)
}

func (r *PostgresRepository) ListOwned(ctx context.Context, userID string, period Period, now time.Time) ([]models.Poster, error) {
	query := `SELECT ` + posterColumns + ` FROM posters p WHERE p.user_id = $1`
	return r.list(ctx, query, userID, period, now)
}

func (r *PostgresRepository) SavedBy(ctx context.Context, posterID string) ([]models.User, error) {
	query :=
		`SELECT u.id, u.email, u.display_name FROM users u
		 JOIN posters_to_users pu ON pu.user_id = u.id
		 WHERE pu.poster_id = $1
		 ORDER BY u.display_name
		 `

	rows, err := r.db.QueryContext(ctx, query, posterID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
