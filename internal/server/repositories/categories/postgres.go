package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

// Create inserts a category or returns the existing one with the same title.
func (r *PostgresRepository) Create(ctx context.Context, title string) (*models.Category, error) {
	query :=
		`INSERT INTO categories (title)
		 VALUES ($1)
		 ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
		 RETURNING id, title
		 `

	c := &models.Category{}
	if err := r.db.QueryRowContext(ctx, query, title).Scan(&c.ID, &c.Title); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Category, error) {
	return r.query(ctx, `SELECT id, title FROM categories ORDER BY title`)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Category, error) {
	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.getOne(ctx, `SELECT id, title FROM categories WHERE id = $1`, id)
}

// GetByTitle matches the title exactly, case included.
func (r *PostgresRepository) GetByTitle(ctx context.Context, title string) (*models.Category, error) {
	return r.getOne(ctx, `SELECT id, title FROM categories WHERE title = $1`, title)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByPrefix returns categories whose title starts with prefix, ignoring case.
func (r *PostgresRepository) SearchByPrefix(ctx context.Context, prefix string) ([]models.Category, error) {
	query :=
		`SELECT id, title FROM categories
		 WHERE lower(title) LIKE lower($1) || '%' ESCAPE '\'
		 ORDER BY title
		 `
	return r.query(ctx, query, likeEscaper.Replace(prefix))
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func (r *PostgresRepository) PostersWithCategory(ctx context.Context, categoryID string) ([]models.Poster, error) {
	query :=
		`SELECT p.id, p.name, p.author, p.date, p.location, p.description,
		        p.number_of_views, p.number_of_likes, p.user_id, p.created_at
		 FROM posters p
		 JOIN posters_to_categories pc ON pc.poster_id = p.id
		 WHERE pc.category_id = $1
		 ORDER BY p.date
		 `

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Poster{}
	for rows.Next() {
		var p models.Poster
		if err := rows.Scan(&p.ID, &p.Name, &p.Author, &p.Date, &p.Location, &p.Description,
			&p.Views, &p.Likes, &p.UserID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UsersWithCategory(ctx context.Context, categoryID string) ([]models.User, error) {
	query :=
		`SELECT u.id, u.email, u.display_name
		 FROM users u
		 JOIN users_to_categories uc ON uc.user_id = u.id
		 WHERE uc.category_id = $1
		 ORDER BY u.display_name
		 `

	rows, err := r.db.QueryContext(ctx, query, categoryID)
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
