package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"slices"
	"strings"

	"github.com/dmitrijs2005/posterboard/internal/clock"
	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/objectstore"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/repomanager"
	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"
)

const saltLength = 16

var allowedExtensions = []string{"png", "gif", "jpg", "jpeg"}

// AssetService turns base64 data URLs into public images in object storage.
type AssetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Uploader
	baseURL     string
	clock       clock.Clock
	logger      logging.Logger
}

func NewAssetService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Uploader, baseURL string, clk clock.Clock, logger logging.Logger) *AssetService {
	return &AssetService{
		db:          db,
		repomanager: m,
		store:       store,
		baseURL:     strings.TrimRight(baseURL, "/"),
		clock:       clk,
		logger:      logger.With("module", "assets"),
	}
}

type decodedImage struct {
	data        []byte
	contentType string
	extension   string
	width       int
	height      int
}

// decodeImage validates a "data:image/...;base64," URL and sniffs the real
// format from the payload rather than trusting the declared media type.
func decodeImage(imageData string) (*decodedImage, error) {
	du, err := dataurl.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidImage, err)
	}
	if du.Type != "image" || du.Encoding != dataurl.EncodingBase64 {
		return nil, fmt.Errorf("%w: expected base64 image data", common.ErrInvalidImage)
	}

	mt := mimetype.Detect(du.Data)
	ext := strings.TrimPrefix(mt.Extension(), ".")
	if !slices.Contains(allowedExtensions, ext) {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedImage, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(du.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidImage, err)
	}

	return &decodedImage{
		data:        du.Data,
		contentType: mt.String(),
		extension:   ext,
		width:       cfg.Width,
		height:      cfg.Height,
	}, nil
}

// Store uploads the image and returns an asset that has not been saved to
// the database yet.
func (s *AssetService) Store(ctx context.Context, imageData string) (*models.Asset, error) {
	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	salt, err := common.MakeRandString(saltLength, common.UpperAlphanumeric)
	if err != nil {
		return nil, fmt.Errorf("asset salt: %w", err)
	}

	a := &models.Asset{
		BaseURL:   s.baseURL,
		Salt:      salt,
		Extension: img.extension,
		Width:     img.width,
		Height:    img.height,
		CreatedAt: s.clock.Now(),
	}

	if err := s.store.Put(ctx, a.Key(), img.contentType, img.data); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "asset uploaded", "key", a.Key(), "width", a.Width, "height", a.Height)
	return a, nil
}

// Owner links an uploaded asset to a user or a poster. Both may be empty.
type Owner struct {
	UserID   string
	PosterID string
}

// Upload stores the image and records it.
func (s *AssetService) Upload(ctx context.Context, imageData string, owner Owner) (*models.Asset, error) {
	a, err := s.Store(ctx, imageData)
	if err != nil {
		return nil, err
	}
	a.UserID = owner.UserID
	a.PosterID = owner.PosterID

	return s.repomanager.Assets(s.db).Create(ctx, a)
}
