package users

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

const userColumns = `id, email, display_name, password_digest, session_token, session_expiration, update_token, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, display_name, password_digest, session_token, session_expiration, update_token)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.DisplayName, user.PasswordDigest,
		user.SessionToken, user.SessionExpiration, user.UpdateToken).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PasswordDigest,
		&user.SessionToken, &user.SessionExpiration, &user.UpdateToken, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *PostgresRepository) GetBySessionToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, "session_token", token)
}

func (r *PostgresRepository) GetByUpdateToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, "update_token", token)
}

// UpdateSession overwrites the whole token triple in one statement, provided
// the stored update token is still prevUpdateToken.
func (r *PostgresRepository) UpdateSession(ctx context.Context, userID, prevUpdateToken string, s models.Session) error {
	query :=
		`UPDATE users SET session_token = $1, session_expiration = $2, update_token = $3
		 WHERE id = $4 AND update_token = $5
		 `

	res, err := r.db.ExecContext(ctx, query, s.Token, s.Expiration, s.UpdateToken, userID, prevUpdateToken)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// ExpireSession pulls the expiration of sessionToken back to at. Tokens that
// were already replaced or expired are left alone.
func (r *PostgresRepository) ExpireSession(ctx context.Context, userID, sessionToken string, at time.Time) error {
	query :=
		`UPDATE users SET session_expiration = $1
		 WHERE id = $2 AND session_token = $3 AND session_expiration > $1
		 `

	if _, err := r.db.ExecContext(ctx, query, at, userID, sessionToken); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddInterest(ctx context.Context, userID, categoryID string) error {
	query :=
		`INSERT INTO users_to_categories (user_id, category_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListInterests(ctx context.Context, userID string) ([]models.Category, error) {
	query :=
		`SELECT c.id, c.title FROM categories c
		 JOIN users_to_categories uc ON uc.category_id = c.id
		 WHERE uc.user_id = $1
		 ORDER BY c.title
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
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
