package rest

import (
	"time"

	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/services"
)

const (
	posterDateLayout = "2006-01-02 15:04"
	timestampLayout  = "2006-01-02 15:04:05"
)

type sessionBundle struct {
	SessionToken      string `json:"session_token"`
	SessionExpiration string `json:"session_expiration"`
	UpdateToken       string `json:"update_token"`
}

func newSessionBundle(u *models.User) sessionBundle {
	return sessionBundle{
		SessionToken:      u.SessionToken,
		SessionExpiration: u.SessionExpiration.UTC().Format(time.RFC3339Nano),
		UpdateToken:       u.UpdateToken,
	}
}

type assetJSON struct {
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

func newAsset(a *models.Asset) *assetJSON {
	if a == nil {
		return nil
	}
	return &assetJSON{URL: a.URL(), CreatedAt: a.CreatedAt.UTC().Format(timestampLayout)}
}

type simpleUserJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func newSimpleUsers(list []models.User) []simpleUserJSON {
	out := make([]simpleUserJSON, 0, len(list))
	for _, u := range list {
		out = append(out, simpleUserJSON{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName})
	}
	return out
}

type simpleCategoryJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newSimpleCategories(list []models.Category) []simpleCategoryJSON {
	out := make([]simpleCategoryJSON, 0, len(list))
	for _, c := range list {
		out = append(out, simpleCategoryJSON{ID: c.ID, Title: c.Title})
	}
	return out
}

type simplePosterJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Likes       int64  `json:"number_of_likes"`
	Views       int64  `json:"number_of_views"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
}

func newSimplePoster(p *models.Poster) simplePosterJSON {
	return simplePosterJSON{
		ID:          p.ID,
		Name:        p.Name,
		Likes:       p.Likes,
		Views:       p.Views,
		Author:      p.Author,
		Date:        p.Date.UTC().Format(posterDateLayout),
		Location:    p.Location,
		Description: p.Description,
		UserID:      p.UserID,
	}
}

func newSimplePosters(list []models.Poster) []simplePosterJSON {
	out := make([]simplePosterJSON, 0, len(list))
	for i := range list {
		out = append(out, newSimplePoster(&list[i]))
	}
	return out
}

type posterJSON struct {
	simplePosterJSON
	RelatedCategories []simpleCategoryJSON `json:"related_categories"`
	PosterPic         *assetJSON           `json:"poster_pic"`
	UsersSavedTo      []simpleUserJSON     `json:"users_saved_to"`
}

func newPoster(d *services.PosterDetail) posterJSON {
	return posterJSON{
		simplePosterJSON:  newSimplePoster(d.Poster),
		RelatedCategories: newSimpleCategories(d.Categories),
		PosterPic:         newAsset(d.Picture),
		UsersSavedTo:      newSimpleUsers(d.SavedBy),
	}
}

type userJSON struct {
	simpleUserJSON
	ProfilePic            *assetJSON           `json:"profile_pic"`
	MyPosters             []simplePosterJSON   `json:"my_posters"`
	InterestingCategories []simpleCategoryJSON `json:"interesting_categories"`
	SavedPosters          []simplePosterJSON   `json:"saved_posters"`
}

func newUser(p *services.UserProfile) userJSON {
	return userJSON{
		simpleUserJSON:        simpleUserJSON{ID: p.User.ID, Email: p.User.Email, DisplayName: p.User.DisplayName},
		ProfilePic:            newAsset(p.ProfilePic),
		MyPosters:             newSimplePosters(p.MyPosters),
		InterestingCategories: newSimpleCategories(p.Interests),
		SavedPosters:          newSimplePosters(p.Saved),
	}
}

type categoryJSON struct {
	simpleCategoryJSON
	Posters []simplePosterJSON `json:"posters_with_category"`
	Users   []simpleUserJSON   `json:"users_with_category"`
}

func newCategory(d *services.CategoryDetail) categoryJSON {
	return categoryJSON{
		simpleCategoryJSON: simpleCategoryJSON{ID: d.Category.ID, Title: d.Category.Title},
		Posters:            newSimplePosters(d.Posters),
		Users:              newSimpleUsers(d.Users),
	}
}

func newCategories(list []services.CategoryDetail) []categoryJSON {
	out := make([]categoryJSON, 0, len(list))
	for i := range list {
		out = append(out, newCategory(&list[i]))
	}
	return out
}
