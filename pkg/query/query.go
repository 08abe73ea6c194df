// Package query builds the search string sent to the search endpoint.
package query

import "strings"

// ExcludeRetweets is the search operator that drops retweets from results
const ExcludeRetweets = "-filter:retweets"

// Build combines the user's query with the retweet clause.
// Surrounding whitespace is trimmed, so an empty query yields just the clause.
func Build(userQuery string, excludeRetweets bool) string {
	clause := ""
	if excludeRetweets {
		clause = ExcludeRetweets
	}
	return strings.TrimSpace(strings.TrimSpace(userQuery) + " " + clause)
}
