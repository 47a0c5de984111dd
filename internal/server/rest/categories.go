package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/posterboard/internal/server/webutil"
)

type searchRequest struct {
	Search *string `json:"search"`
}

// HandleInitialize seeds the default categories and returns all of them.
// POST /initialize/
func (a *API) HandleInitialize(w http.ResponseWriter, r *http.Request) error {
	list, err := a.categories.Initialize(r.Context())
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newCategories(list))
}

// GET /categories/
func (a *API) HandleListCategories(w http.ResponseWriter, r *http.Request) error {
	list, err := a.categories.List(r.Context())
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newSimpleCategories(list))
}

// GET /category/{id}/
func (a *API) HandleGetCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(chi.URLParam(r, paramID), msgCategoryMissing)
	if err != nil {
		return err
	}
	detail, err := a.categories.Get(r.Context(), id)
	if err != nil {
		return notFoundAs(err, msgCategoryMissing)
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newCategory(detail))
}

// HandleSearchCategories returns categories whose title starts with the
// search string, ignoring case.
// POST /category/search/
func (a *API) HandleSearchCategories(w http.ResponseWriter, r *http.Request) error {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Search == nil {
		return webutil.ErrBadRequest(msgInvalidBody)
	}

	list, err := a.categories.Search(r.Context(), *req.Search)
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newCategories(list))
}
