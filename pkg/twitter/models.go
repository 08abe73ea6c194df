package twitter

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tweetexport/pkg/models"
)

// User is the subset of the user object returned by verify_credentials
type User struct {
	ID         int64  `json:"id"`
	IDStr      string `json:"id_str"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// Status is a tweet as returned by the search endpoint in extended mode
type Status struct {
	CreatedAt     string   `json:"created_at"`
	ID            int64    `json:"id"`
	IDStr         string   `json:"id_str"`
	FullText      string   `json:"full_text"`
	Text          string   `json:"text"`
	Entities      Entities `json:"entities"`
	Favorited     bool     `json:"favorited"`
	FavoriteCount int      `json:"favorite_count"`
	Retweeted     bool     `json:"retweeted"`
	RetweetCount  int      `json:"retweet_count"`
	Source        string   `json:"source"`
}

// Entities holds the parsed entities of a status
type Entities struct {
	Hashtags []Hashtag `json:"hashtags"`
}

// Hashtag is a single hashtag entity, Text excludes the leading '#'
type Hashtag struct {
	Text    string `json:"text"`
	Indices []int  `json:"indices"`
}

// SearchResponse is the body of search/tweets.json
type SearchResponse struct {
	Statuses       []Status       `json:"statuses"`
	SearchMetadata SearchMetadata `json:"search_metadata"`
}

// SearchMetadata carries the pagination state of a search page
type SearchMetadata struct {
	Count       int    `json:"count"`
	MaxIDStr    string `json:"max_id_str"`
	NextResults string `json:"next_results"`
	Query       string `json:"query"`
}

// ToPost converts the wire status into the exporter's model
func (s *Status) ToPost() (*models.Post, error) {
	createdAt, err := time.Parse(CreatedAtLayout, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("status %s: invalid created_at %q: %w", s.IDStr, s.CreatedAt, err)
	}

	id := s.IDStr
	if id == "" {
		id = strconv.FormatInt(s.ID, 10)
	}

	text := s.FullText
	if text == "" {
		text = s.Text
	}

	hashtags := make([]string, 0, len(s.Entities.Hashtags))
	for _, h := range s.Entities.Hashtags {
		hashtags = append(hashtags, h.Text)
	}

	return &models.Post{
		CreatedAt:     createdAt.UTC(),
		ID:            id,
		Text:          text,
		Hashtags:      hashtags,
		Favorited:     s.Favorited,
		FavoriteCount: s.FavoriteCount,
		Retweeted:     s.Retweeted,
		RetweetCount:  s.RetweetCount,
		Source:        sourceLabel(s.Source),
	}, nil
}

var anchorText = regexp.MustCompile(`(?s)<a\b[^>]*>(.*?)</a>`)

// sourceLabel reduces the HTML anchor of the source field to its text
func sourceLabel(source string) string {
	if m := anchorText.FindStringSubmatch(source); m != nil {
		source = m[1]
	}
	return strings.TrimSpace(html.UnescapeString(source))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
