// Package models holds the client-side views of API payloads.
package models

import "time"

// Session is the credential bundle returned by register, login and refresh.
type Session struct {
	SessionToken      string    `json:"session_token"`
	SessionExpiration time.Time `json:"session_expiration"`
	UpdateToken       string    `json:"update_token"`
}

// Expired reports whether the session token is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.SessionExpiration)
}

type Asset struct {
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Poster struct {
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

// Profile is the full user view served by GET /user/.
type Profile struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	DisplayName           string     `json:"display_name"`
	ProfilePic            *Asset     `json:"profile_pic"`
	MyPosters             []Poster   `json:"my_posters"`
	InterestingCategories []Category `json:"interesting_categories"`
	SavedPosters          []Poster   `json:"saved_posters"`
}

// Identity is what the gRPC WhoAmI call reports.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}
