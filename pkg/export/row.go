package export

import (
	"fmt"
	"strconv"
	"strings"

	"tweetexport/pkg/models"
)

// DefaultTimeFormat is the layout of the timestamp column
const DefaultTimeFormat = "2006-01-02 15:04:05"

// Columns names the row fields in output order. The file itself has no header.
var Columns = []string{
	"timestamp",
	"id",
	"text",
	"hashtags",
	"favorited",
	"favorite_count",
	"retweeted",
	"retweet_count",
	"source",
}

// Row is a post flattened to the exported fields
type Row struct {
	Timestamp     string
	ID            string
	Text          string
	Hashtags      []string
	Favorited     bool
	FavoriteCount int
	Retweeted     bool
	RetweetCount  int
	Source        string
}

var delimiterSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "|", " ")

// Flatten converts post into a Row. Line breaks and pipes in the text become
// single spaces; the timestamp is rendered in UTC with timeFormat.
func Flatten(post *models.Post, timeFormat string) Row {
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}

	hashtags := make([]string, len(post.Hashtags))
	copy(hashtags, post.Hashtags)

	return Row{
		Timestamp:     post.CreatedAt.UTC().Format(timeFormat),
		ID:            post.ID,
		Text:          delimiterSafe.Replace(post.Text),
		Hashtags:      hashtags,
		Favorited:     post.Favorited,
		FavoriteCount: post.FavoriteCount,
		Retweeted:     post.Retweeted,
		RetweetCount:  post.RetweetCount,
		Source:        post.Source,
	}
}

// Record renders the row as CSV fields in Columns order.
// Hashtags use Go's default slice formatting, e.g. [go csv].
func (r Row) Record() []string {
	return []string{
		r.Timestamp,
		r.ID,
		r.Text,
		fmt.Sprint(r.Hashtags),
		strconv.FormatBool(r.Favorited),
		strconv.Itoa(r.FavoriteCount),
		strconv.FormatBool(r.Retweeted),
		strconv.Itoa(r.RetweetCount),
		r.Source,
	}
}
