package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/posterboard/internal/server/auth"
	"github.com/dmitrijs2005/posterboard/internal/server/services"
	"github.com/dmitrijs2005/posterboard/internal/server/webutil"
)

type registerRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Password    *string `json:"password"`
	ImageData   string  `json:"image_data"`
}

type loginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type interestsRequest struct {
	Categories []string `json:"categories"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleRegister creates an account and returns its first session bundle.
// POST /register/
func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Email == nil || req.DisplayName == nil || req.Password == nil {
		return webutil.ErrBadRequest(msgInvalidBody)
	}
	email := strings.TrimSpace(*req.Email)
	if email == "" || *req.Password == "" {
		return webutil.ErrBadRequest(msgInvalidBody)
	}

	user, err := a.users.Register(r.Context(), services.RegisterInput{
		Email:       email,
		DisplayName: *req.DisplayName,
		Password:    *req.Password,
		ImageData:   req.ImageData,
	})
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusCreated, newSessionBundle(user))
}

// HandleLogin exchanges credentials for a fresh session bundle.
// POST /login/
func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Email == nil || req.Password == nil {
		return webutil.ErrBadRequest(msgInvalidBody)
	}

	user, err := a.users.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newSessionBundle(user))
}

// HandleRefresh takes the update token as a bearer credential and renews the
// whole session triple.
// POST /session/
func (a *API) HandleRefresh(w http.ResponseWriter, r *http.Request) error {
	token, err := auth.BearerToken(r.Header)
	if err != nil {
		return err
	}

	user, err := a.users.Refresh(r.Context(), token)
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newSessionBundle(user))
}

// GET /secret/
func (a *API) HandleSecret(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "hello " + user.DisplayName})
}

// POST /logout/
func (a *API) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	if err := a.users.Logout(r.Context(), user); err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "You have been logged out"})
}

// GET /user/
func (a *API) HandleGetUser(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	profile, err := a.users.Profile(r.Context(), user)
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newUser(profile))
}

// HandleAddInterests links the named categories to the caller. Titles that
// do not exist are ignored.
// POST /user/categories/
func (a *API) HandleAddInterests(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	var req interestsRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Categories == nil {
		return webutil.ErrBadRequest(msgInvalidBody)
	}

	profile, err := a.users.AddInterests(r.Context(), user, req.Categories)
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusOK, newUser(profile))
}

type uploadRequest struct {
	ImageData string `json:"image_data"`
}

// HandleUpload stores a standalone image.
// POST /upload/
func (a *API) HandleUpload(w http.ResponseWriter, r *http.Request) error {
	var req uploadRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.ImageData == "" {
		return webutil.ErrBadRequest("No Base64 URL")
	}

	asset, err := a.assets.Upload(r.Context(), req.ImageData, services.Owner{})
	if err != nil {
		return err
	}
	return webutil.RespondWithJSON(w, http.StatusCreated, newAsset(asset))
}
