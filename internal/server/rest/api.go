// Package rest exposes the posterboard services over HTTP using chi.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/webutil"
)

// DefaultMaxBodyBytes caps request bodies unless WithMaxBodyBytes says otherwise.
const DefaultMaxBodyBytes int64 = 16 << 20

const (
	msgInvalidBody     = "Invalid Body"
	msgBodyTooLarge    = "Request body too large"
	msgPosterNotFound  = "Poster not found"
	msgCategoryMissing = "Category not found"
)

// API holds the services the HTTP handlers call into.
type API struct {
	users      UserService
	posters    PosterService
	categories CategoryService
	assets     AssetService
	adapter    *webutil.Adapter
	logger     logging.Logger

	maxBodyBytes int64
}

type Option func(*API)

// WithMaxBodyBytes limits the size of request bodies. Non-positive values
// keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}

func NewAPI(users UserService, posters PosterService, categories CategoryService, assets AssetService, logger logging.Logger, opts ...Option) *API {
	logger = logger.With("module", "rest")
	a := &API{
		users:        users,
		posters:      posters,
		categories:   categories,
		assets:       assets,
		adapter:      webutil.NewAdapter(logger),
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// decodeBody reads a JSON request body into dst. Bodies over the size limit
// are answered with 413; any other decoding problem is an invalid body.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return webutil.NewHTTPErrorWrap(http.StatusRequestEntityTooLarge, msgBodyTooLarge, err)
		}
		return webutil.ErrBadRequestWrap(msgInvalidBody, err)
	}
	return nil
}

// pathID returns the {id} URL parameter. Values that are not UUIDs cannot
// name a row, so they are reported as notFound.
func pathID(id, notFound string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", webutil.NewHTTPErrorWrap(http.StatusNotFound, notFound, common.ErrorNotFound)
	}
	return id, nil
}

func notFoundAs(err error, message string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return webutil.NewHTTPErrorWrap(http.StatusNotFound, message, err)
	}
	return err
}
