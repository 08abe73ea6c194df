package export

import (
	"context"

	"tweetexport/pkg/models"
)

// PostSource is a pull-based, finite, non-restartable sequence of posts.
// Next returns io.EOF once the sequence is exhausted.
type PostSource interface {
	Next(ctx context.Context) (*models.Post, error)
}

// RowWriter durably appends a single record
type RowWriter interface {
	Append(record []string) error
}
