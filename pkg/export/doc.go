// Package export turns search results into CSV rows.
//
// Export is strictly sequential: a post is flattened and its row appended
// before the next post is requested, so nothing is buffered between the
// source and the output file. Any PostSource works; twitter.Cursor is the
// production one.
//
// Usage:
//
//	out, _ := storage.NewCSVAppender("tweets.csv")
//	exp := export.New(out, export.DefaultTimeFormat, nil)
//	n, err := exp.Export(ctx, client.Search(params), 100)
package export
