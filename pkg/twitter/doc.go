// Package twitter provides an OAuth 1.0a signed client for the Twitter v1.1
// REST API, limited to what a search export needs.
//
// This package includes:
//   - Authenticate, which builds the client and checks the credentials
//   - A pull-based Cursor over search/tweets.json
//   - Wire models for users and statuses, converted to models.Post
//
// Example usage:
//
//	session, err := twitter.Authenticate(ctx, creds, twitter.ClientOptions{Timeout: 30 * time.Second})
//	if err != nil {
//	    return err
//	}
//	if err := session.Require(); err != nil {
//	    // credentials were rejected
//	}
//
//	cursor := session.Client.Search(twitter.SearchParams{Query: "golang", Language: "en", MaxItems: 50})
//	for {
//	    post, err := cursor.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use post
//	}
//
// API failures are *errors.Error values from tweetexport/pkg/errors; their
// Type tells authentication, rate limit and server faults apart.
package twitter
