package models

import "time"

type Poster struct {
	ID          string
	Name        string
	Author      string
	Date        time.Time
	Location    string
	Description string
	Views       int64
	Likes       int64
	UserID      string
	CreatedAt   time.Time
}

type Category struct {
	ID    string
	Title string
}

// DefaultCategories are seeded by the initialize endpoint.
var DefaultCategories = []string{
	"Design", "Business", "Art", "Music", "Sports",
	"Computer Science", "Chinese", "Employment", "Hiking", "Nature",
	"Culture", "Food", "Math", "Movies", "Concerts",
}
