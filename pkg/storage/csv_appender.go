package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// CSVAppender appends records to a CSV file, one open-write-sync-close cycle per record
type CSVAppender struct {
	path    string
	useCRLF bool
	written int
}

// NewCSVAppender prepares appending to path, creating its directory if needed.
// The file itself is created by the first Append.
func NewCSVAppender(path string) (*CSVAppender, error) {
	if path == "" {
		return nil, fmt.Errorf("output path is empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return &CSVAppender{
		path:    path,
		useCRLF: runtime.GOOS == "windows",
	}, nil
}

// Append writes record as a single CSV row at the end of the file
func (a *CSVAppender) Append(record []string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = a.useCRLF
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write row: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	a.written++
	return nil
}

// RowsWritten returns the number of rows appended by this appender
func (a *CSVAppender) RowsWritten() int {
	return a.written
}

// Path returns the output file path
func (a *CSVAppender) Path() string {
	return a.path
}
