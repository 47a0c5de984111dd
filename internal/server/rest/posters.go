package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/services"
	"github.com/dmitrijs2005/posterboard/internal/server/webutil"
)

type createPosterRequest struct {
	Name        *string  `json:"name"`
	Author      *string  `json:"author"`
	Date        *string  `json:"date"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	ImageData   *string  `json:"image_data"`
	Categories  []string `json:"categories"`
}

type posterAction func(ctx context.Context, id string) (*services.PosterDetail, error)

func (a *API) posterHandler(action posterAction) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(chi.URLParam(r, paramID), msgPosterNotFound)
		if err != nil {
			return err
		}
		detail, err := action(r.Context(), id)
		if err != nil {
			return notFoundAs(err, msgPosterNotFound)
		}
		return webutil.RespondWithJSON(w, http.StatusOK, newPoster(detail))
	}
}

// GET /poster/{id}/
func (a *API) HandleGetPoster(w http.ResponseWriter, r *http.Request) error {
	return a.posterHandler(a.posters.Get)(w, r)
}

// POST /poster/clicked/view/{id}/
func (a *API) HandleViewPoster(w http.ResponseWriter, r *http.Request) error {
	return a.posterHandler(a.posters.View)(w, r)
}

// POST /poster/clicked/likes/{id}/
func (a *API) HandleLikePoster(w http.ResponseWriter, r *http.Request) error {
	return a.posterHandler(a.posters.Like)(w, r)
}

// POST /poster/clicked/dislikes/{id}/
func (a *API) HandleDislikePoster(w http.ResponseWriter, r *http.Request) error {
	return a.posterHandler(a.posters.Dislike)(w, r)
}

// HandleSavePoster adds the poster to the caller's saved list and returns
// the caller's updated profile.
// POST /poster/clicked/save/{id}/
func (a *API) HandleSavePoster(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(chi.URLParam(r, paramID), msgPosterNotFound)
	if err != nil {
		return err
	}

	profile, err := a.posters.Save(r.Context(), user, id)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return webutil.NewHTTPErrorWrap(http.StatusConflict, "Already saved this poster", err)
	}
	if err != nil {
		return notFoundAs(err, msgPosterNotFound)
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newUser(profile))
}

func (a *API) listSaved(period posters.Period) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		user, err := currentUser(r)
		if err != nil {
			return err
		}
		list, err := a.posters.ListSaved(r.Context(), user, period)
		if err != nil {
			return err
		}
		return webutil.RespondWithJSON(w, http.StatusOK, newSimplePosters(list))
	}
}

func (a *API) listOwned(period posters.Period) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		user, err := currentUser(r)
		if err != nil {
			return err
		}
		list, err := a.posters.ListOwned(r.Context(), user, period)
		if err != nil {
			return err
		}
		return webutil.RespondWithJSON(w, http.StatusOK, newSimplePosters(list))
	}
}

// HandleCreatePoster publishes a poster owned by the caller.
// POST /user/posters/poster
func (a *API) HandleCreatePoster(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	var req createPosterRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Name == nil || req.Author == nil || req.Date == nil || req.Location == nil ||
		req.Description == nil || req.ImageData == nil {
		return webutil.ErrBadRequest(msgInvalidBody)
	}

	date, err := time.ParseInLocation(posterDateLayout, *req.Date, time.UTC)
	if err != nil {
		return webutil.ErrBadRequestWrap("Invalid date, expected YYYY-MM-DD HH:MM", err)
	}

	detail, err := a.posters.Create(r.Context(), user, services.CreatePosterInput{
		Name:        *req.Name,
		Author:      *req.Author,
		Date:        date,
		Location:    *req.Location,
		Description: *req.Description,
		ImageData:   *req.ImageData,
		Categories:  req.Categories,
	})
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusCreated, newPoster(detail))
}
