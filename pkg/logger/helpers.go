package logger

import (
	"time"
)

// LogRequest logs HTTP request information against l
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration":    duration,
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// LogAuthentication logs the outcome of the self-identity check
func LogAuthentication(l Logger, screenName string, err error) {
	if err != nil {
		l.WithError(err).Warn("Credential verification failed")
		return
	}
	l.WithField("screen_name", screenName).Info("Credentials verified")
}

// LogExportProgress logs one appended row
func LogExportProgress(l Logger, postID string, written, max int) {
	l.DebugWithFields("Row appended", map[string]interface{}{
		"post_id": postID,
		"written": written,
		"max":     max,
	})
}
