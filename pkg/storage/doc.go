// Package storage provides the append-only output file of the exporter.
//
// The storage package handles:
//   - Creating the output file and its parent directory on first use
//   - Appending one CSV record per call with a single write
//   - Flushing every record to disk before returning
//
// The file is opened and closed for every record, so a crash or an API
// failure halfway through an export leaves only complete rows behind and
// rows from earlier runs are never touched.
//
// Usage:
//
//	out, err := storage.NewCSVAppender("tweets.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := out.Append([]string{"2018-10-10 20:19:24", "1050118621198921728", "text"}); err != nil {
//	    log.Printf("Failed to append row: %v", err)
//	}
package storage
