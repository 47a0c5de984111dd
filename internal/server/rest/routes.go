package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/webutil"
)

const paramID = "id"

// Routes builds the HTTP router. Paths keep their trailing slashes.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestSize(a.maxBodyBytes))

	h := a.adapter.MakeHandler

	r.Post("/register/", h(a.HandleRegister))
	r.Post("/login/", h(a.HandleLogin))
	r.Post("/session/", h(a.HandleRefresh))
	r.Post("/upload/", h(a.HandleUpload))

	r.Post("/initialize/", h(a.HandleInitialize))
	r.Get("/categories/", h(a.HandleListCategories))
	r.Get("/category/{id}/", h(a.HandleGetCategory))
	r.Post("/category/search/", h(a.HandleSearchCategories))

	r.Get("/poster/{id}/", h(a.HandleGetPoster))
	r.Post("/poster/clicked/view/{id}/", h(a.HandleViewPoster))
	r.Post("/poster/clicked/likes/{id}/", h(a.HandleLikePoster))
	r.Post("/poster/clicked/dislikes/{id}/", h(a.HandleDislikePoster))

	r.Group(func(r chi.Router) {
		r.Use(a.requireSession)

		r.Get("/secret/", h(a.HandleSecret))
		r.Post("/logout/", h(a.HandleLogout))
		r.Get("/user/", h(a.HandleGetUser))
		r.Post("/user/categories/", h(a.HandleAddInterests))
		r.Post("/poster/clicked/save/{id}/", h(a.HandleSavePoster))

		r.Get("/user/posters/saved/upcoming/", h(a.listSaved(posters.Upcoming)))
		r.Get("/user/posters/saved/past/", h(a.listSaved(posters.Past)))
		r.Get("/user/posters/owned/upcoming/", h(a.listOwned(posters.Upcoming)))
		r.Get("/user/posters/owned/past/", h(a.listOwned(posters.Past)))
		r.Post("/user/posters/poster", h(a.HandleCreatePoster))
	})

	r.Get("/healthz", handleHealthCheck)

	return r
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	_ = webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
