package models

import "time"

// Post is a single search result, reduced to the fields the exporter writes
type Post struct {
	CreatedAt     time.Time
	ID            string
	Text          string
	Hashtags      []string
	Favorited     bool
	FavoriteCount int
	Retweeted     bool
	RetweetCount  int
	// Source is the client label, e.g. "Twitter Web App"
	Source string
}
