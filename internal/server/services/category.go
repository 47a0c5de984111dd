package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/repomanager"
)

// CategoryDetail is a category with the posters and users linked to it.
type CategoryDetail struct {
	Category models.Category
	Posters  []models.Poster
	Users    []models.User
}

type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *CategoryService {
	return &CategoryService{db: db, repomanager: m, logger: logger.With("module", "categories")}
}

func (s *CategoryService) details(ctx context.Context, db dbx.DBTX, list []models.Category) ([]CategoryDetail, error) {
	repo := s.repomanager.Categories(db)
	out := make([]CategoryDetail, 0, len(list))
	for _, c := range list {
		d := CategoryDetail{Category: c}
		var err error
		if d.Posters, err = repo.PostersWithCategory(ctx, c.ID); err != nil {
			return nil, err
		}
		if d.Users, err = repo.UsersWithCategory(ctx, c.ID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Initialize seeds the default categories. Running it again is harmless.
func (s *CategoryService) Initialize(ctx context.Context) ([]CategoryDetail, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Categories(tx)
		for _, title := range models.DefaultCategories {
			if _, err := repo.Create(ctx, title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "categories initialized", "count", len(models.DefaultCategories))

	list, err := s.repomanager.Categories(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, s.db, list)
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*CategoryDetail, error) {
	c, err := s.repomanager.Categories(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := s.details(ctx, s.db, []models.Category{*c})
	if err != nil {
		return nil, err
	}
	return &d[0], nil
}

// Search returns the categories whose title starts with prefix, ignoring case.
func (s *CategoryService) Search(ctx context.Context, prefix string) ([]CategoryDetail, error) {
	list, err := s.repomanager.Categories(s.db).SearchByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, s.db, list)
}
