package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tweetexport/pkg/logger"
	"tweetexport/pkg/models"
)

// Exporter drains a PostSource into a RowWriter, one row per post
type Exporter struct {
	writer     RowWriter
	timeFormat string
	logger     logger.Logger

	// OnRow, when set, is called after each row has been appended
	OnRow func(post *models.Post, written int)
}

// New creates an exporter writing to w
func New(w RowWriter, timeFormat string, log logger.Logger) *Exporter {
	if log == nil {
		log = logger.GetLogger()
	}
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	return &Exporter{writer: w, timeFormat: timeFormat, logger: log}
}

// Export pulls up to maxItems posts from src and appends each one before
// asking for the next. It returns the number of rows written. On a source or
// write failure the rows already written stay in place and the error is
// returned wrapped with that count.
func (e *Exporter) Export(ctx context.Context, src PostSource, maxItems int) (int, error) {
	written := 0

	for written < maxItems {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("export stopped after %d rows: %w", written, err)
		}

		post, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			e.logger.WithError(err).WithField("written", written).Error("search failed")
			return written, fmt.Errorf("search failed after %d rows: %w", written, err)
		}

		row := Flatten(post, e.timeFormat)
		if err := e.writer.Append(row.Record()); err != nil {
			e.logger.WithError(err).WithField("post_id", post.ID).Error("append failed")
			return written, fmt.Errorf("append failed after %d rows: %w", written, err)
		}
		written++

		logger.LogExportProgress(e.logger, post.ID, written, maxItems)
		if e.OnRow != nil {
			e.OnRow(post, written)
		}
	}

	e.logger.InfoWithFields("export finished", map[string]interface{}{
		"written": written,
		"max":     maxItems,
	})
	return written, nil
}
