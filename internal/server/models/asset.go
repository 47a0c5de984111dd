package models

import "time"

// Asset is an image stored in object storage. Exactly one of UserID and
// PosterID is set.
type Asset struct {
	ID        string
	BaseURL   string
	Salt      string
	Extension string
	Width     int
	Height    int
	UserID    string
	PosterID  string
	CreatedAt time.Time
}

// Key is the object key inside the bucket.
func (a *Asset) Key() string {
	return a.Salt + "." + a.Extension
}

// URL is the public address of the stored image.
func (a *Asset) URL() string {
	return a.BaseURL + "/" + a.Key()
}
