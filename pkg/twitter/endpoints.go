package twitter

import (
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the root of the v1.1 REST API
	DefaultBaseURL = "https://api.twitter.com/1.1/"

	// VerifyCredentialsEndpoint returns the user the access token belongs to
	VerifyCredentialsEndpoint = "account/verify_credentials.json"

	// SearchEndpoint is the standard search endpoint
	SearchEndpoint = "search/tweets.json"

	// MaxPageSize is the largest count the search endpoint accepts
	MaxPageSize = 100

	// CreatedAtLayout is the time layout of created_at fields
	CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"
)

// parseBaseURL parses base and makes sure relative endpoints resolve below it
func parseBaseURL(base string) (*url.URL, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return url.Parse(base)
}

// searchParams builds the query string of one search page
func searchParams(query, lang string, count int, maxID string) url.Values {
	params := url.Values{}
	params.Set("q", query)
	if lang != "" {
		params.Set("lang", lang)
	}
	params.Set("count", itoa(count))
	params.Set("tweet_mode", "extended")
	params.Set("include_entities", "true")
	if maxID != "" {
		params.Set("max_id", maxID)
	}
	return params
}

// nextMaxID extracts max_id from search_metadata.next_results,
// which looks like "?max_id=123&q=golang&count=100"
func nextMaxID(nextResults string) string {
	if nextResults == "" {
		return ""
	}
	values, err := url.ParseQuery(strings.TrimPrefix(nextResults, "?"))
	if err != nil {
		return ""
	}
	return values.Get("max_id")
}
