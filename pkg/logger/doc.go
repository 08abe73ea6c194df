// Package logger provides the structured logging interface used across tweetexport.
//
// It wraps zerolog behind a small Logger interface with field helpers and a
// process-global instance. Console output is written to stderr; an optional
// log file receives the same records.
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("query", q).Info("Starting search")
//	logger.WithError(err).Error("Export failed")
//
// TestLogger records messages in memory so tests can assert on them.
package logger
