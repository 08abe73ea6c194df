package twitter

import (
	"context"
	"fmt"
	"io"

	"tweetexport/pkg/models"
)

// SearchParams describes one search
type SearchParams struct {
	// Query is sent verbatim as q
	Query string
	// Language restricts results to a BCP 47 language code, empty for any
	Language string
	// MaxItems bounds the number of posts the cursor yields
	MaxItems int
}

// Cursor pulls search results page by page. It is not safe for concurrent
// use and cannot be restarted; once Next returns an error every later call
// returns the same error.
type Cursor struct {
	client  *Client
	params  SearchParams
	buf     []Status
	maxID   string
	yielded int
	pages   int
	done    bool
	err     error
}

// Next returns the next post, or io.EOF once the results or MaxItems are exhausted.
// A page is requested only when the buffered page is used up.
func (c *Cursor) Next(ctx context.Context) (*models.Post, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.yielded >= c.params.MaxItems {
		return nil, io.EOF
	}

	for len(c.buf) == 0 {
		if c.done {
			return nil, io.EOF
		}
		if err := c.fetch(ctx); err != nil {
			c.err = err
			return nil, err
		}
	}

	status := c.buf[0]
	c.buf = c.buf[1:]

	post, err := status.ToPost()
	if err != nil {
		c.err = err
		return nil, err
	}
	c.yielded++
	return post, nil
}

// Yielded returns the number of posts returned so far
func (c *Cursor) Yielded() int {
	return c.yielded
}

func (c *Cursor) fetch(ctx context.Context) error {
	count := c.params.MaxItems - c.yielded
	if count > c.client.pageSize {
		count = c.client.pageSize
	}

	var page SearchResponse
	params := searchParams(c.params.Query, c.params.Language, count, c.maxID)
	if err := c.client.GetJSON(ctx, SearchEndpoint, params, &page); err != nil {
		return fmt.Errorf("search page %d: %w", c.pages+1, err)
	}
	c.pages++

	c.client.logger.DebugWithFields("fetched search page", map[string]interface{}{
		"page":     c.pages,
		"statuses": len(page.Statuses),
		"count":    count,
	})

	c.buf = page.Statuses
	c.maxID = nextMaxID(page.SearchMetadata.NextResults)
	if c.maxID == "" || len(page.Statuses) == 0 {
		c.done = true
	}
	return nil
}
