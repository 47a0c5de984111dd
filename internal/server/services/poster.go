package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/clock"
	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/repomanager"
)

// PosterDetail is a poster with its relations resolved.
type PosterDetail struct {
	Poster     *models.Poster
	Categories []models.Category
	Picture    *models.Asset
	SavedBy    []models.User
}

type CreatePosterInput struct {
	Name        string
	Author      string
	Date        time.Time
	Location    string
	Description string
	ImageData   string
	Categories  []string
}

type PosterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assets      *AssetService
	clock       clock.Clock
	logger      logging.Logger
}

func NewPosterService(db *sql.DB, m repomanager.RepositoryManager, assets *AssetService, clk clock.Clock, logger logging.Logger) *PosterService {
	return &PosterService{
		db:          db,
		repomanager: m,
		assets:      assets,
		clock:       clk,
		logger:      logger.With("module", "posters"),
	}
}

func (s *PosterService) detail(ctx context.Context, db dbx.DBTX, p *models.Poster) (*PosterDetail, error) {
	d := &PosterDetail{Poster: p}
	var err error

	if d.Categories, err = s.repomanager.Posters(db).Categories(ctx, p.ID); err != nil {
		return nil, err
	}
	if d.SavedBy, err = s.repomanager.Posters(db).SavedBy(ctx, p.ID); err != nil {
		return nil, err
	}

	pic, err := s.repomanager.Assets(db).GetForPoster(ctx, p.ID)
	switch {
	case err == nil:
		d.Picture = pic
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}
	return d, nil
}

func (s *PosterService) Get(ctx context.Context, id string) (*PosterDetail, error) {
	p, err := s.repomanager.Posters(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, s.db, p)
}

// View counts one more view. Clients call it the first time a poster is shown.
func (s *PosterService) View(ctx context.Context, id string) (*PosterDetail, error) {
	p, err := s.repomanager.Posters(s.db).AddViews(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, s.db, p)
}

func (s *PosterService) Like(ctx context.Context, id string) (*PosterDetail, error) {
	return s.like(ctx, id, 1)
}

// Dislike takes back a like.
func (s *PosterService) Dislike(ctx context.Context, id string) (*PosterDetail, error) {
	return s.like(ctx, id, -1)
}

func (s *PosterService) like(ctx context.Context, id string, delta int64) (*PosterDetail, error) {
	p, err := s.repomanager.Posters(s.db).AddLikes(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, s.db, p)
}

// Save adds the poster to the user's saved list and returns the updated
// profile. Saving the same poster twice yields common.ErrorAlreadyExists.
func (s *PosterService) Save(ctx context.Context, user *models.User, posterID string) (*UserProfile, error) {
	repo := s.repomanager.Posters(s.db)
	if _, err := repo.GetByID(ctx, posterID); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, user.ID, posterID); err != nil {
		return nil, err
	}
	return loadProfile(ctx, s.db, s.repomanager, user)
}

func (s *PosterService) ListSaved(ctx context.Context, user *models.User, period posters.Period) ([]models.Poster, error) {
	return s.repomanager.Posters(s.db).ListSaved(ctx, user.ID, period, s.clock.Now())
}

func (s *PosterService) ListOwned(ctx context.Context, user *models.User, period posters.Period) ([]models.Poster, error) {
	return s.repomanager.Posters(s.db).ListOwned(ctx, user.ID, period, s.clock.Now())
}

// Create uploads the picture first, then stores the poster, its asset row
// and its category links in one transaction. Unknown category titles are
// skipped.
func (s *PosterService) Create(ctx context.Context, user *models.User, in CreatePosterInput) (*PosterDetail, error) {
	asset, err := s.assets.Store(ctx, in.ImageData)
	if err != nil {
		return nil, err
	}

	var detail *PosterDetail
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := s.repomanager.Posters(tx).Create(ctx, &models.Poster{
			Name:        in.Name,
			Author:      in.Author,
			Date:        in.Date,
			Location:    in.Location,
			Description: in.Description,
			UserID:      user.ID,
		})
		if err != nil {
			return err
		}

		asset.PosterID = p.ID
		if _, err := s.repomanager.Assets(tx).Create(ctx, asset); err != nil {
			return err
		}

		cats := s.repomanager.Categories(tx)
		for _, title := range in.Categories {
			c, err := cats.GetByTitle(ctx, title)
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := s.repomanager.Posters(tx).AttachCategory(ctx, p.ID, c.ID); err != nil {
				return err
			}
		}

		detail, err = s.detail(ctx, tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "poster created", "poster_id", detail.Poster.ID, "user_id", user.ID)
	return detail, nil
}
