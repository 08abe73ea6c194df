package twitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetexport/pkg/auth"
	apierrors "tweetexport/pkg/errors"
	"tweetexport/pkg/logger"
)

func testCreds() *auth.Credentials {
	return &auth.Credentials{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "ats",
	}
}

func newTestClient(t *testing.T, server *httptest.Server, opts ClientOptions) *Client {
	t.Helper()
	opts.BaseURL = server.URL + "/1.1"
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger()
	}
	client, err := NewClient(testCreds(), opts)
	require.NoError(t, err)
	return client
}

func statusJSON(id int, text string, hashtags ...string) string {
	tags := make([]string, len(hashtags))
	for i, h := range hashtags {
		tags[i] = fmt.Sprintf(`{"text":%q,"indices":[0,1]}`, h)
	}
	return fmt.Sprintf(`{
		"created_at": "Wed Oct 10 20:19:24 +0000 2018",
		"id": %d,
		"id_str": "%d",
		"full_text": %q,
		"entities": {"hashtags": [%s]},
		"favorited": false,
		"favorite_count": %d,
		"retweeted": false,
		"retweet_count": 1,
		"source": "<a href=\"https://mobile.twitter.com\" rel=\"nofollow\">Twitter Web App</a>"
	}`, id, id, text, strings.Join(tags, ","), id)
}

// searchServer serves total statuses with descending ids, paging by count and max_id
func searchServer(t *testing.T, total int, requests *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "OAuth "), "request must be signed")
		assert.Equal(t, "/1.1/search/tweets.json", r.URL.Path)
		*requests = append(*requests, r.URL.RawQuery)

		q := r.URL.Query()
		count, _ := strconv.Atoi(q.Get("count"))
		start := total
		if maxID := q.Get("max_id"); maxID != "" {
			start, _ = strconv.Atoi(maxID)
		}

		var statuses []string
		id := start
		for ; id > 0 && len(statuses) < count; id-- {
			statuses = append(statuses, statusJSON(id, fmt.Sprintf("post %d", id)))
		}

		next := ""
		if id > 0 {
			next = fmt.Sprintf("?max_id=%d&q=%s&count=%d", id, q.Get("q"), count)
		}
		fmt.Fprintf(w, `{"statuses":[%s],"search_metadata":{"count":%d,"next_results":%q}}`,
			strings.Join(statuses, ","), count, next)
	}))
}

func drain(t *testing.T, c *Cursor) []string {
	t.Helper()
	var ids []string
	for {
		post, err := c.Next(context.Background())
		if err == io.EOF {
			return ids
		}
		require.NoError(t, err)
		ids = append(ids, post.ID)
	}
}

func TestAuthenticateVerified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.1/account/verify_credentials.json", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), `oauth_consumer_key="ck"`)
		assert.Contains(t, r.Header.Get("Authorization"), `oauth_token="at"`)
		fmt.Fprint(w, `{"id": 42, "id_str": "42", "name": "Ada Lovelace", "screen_name": "ada"}`)
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	session, err := Authenticate(context.Background(), testCreds(), ClientOptions{
		BaseURL: server.URL + "/1.1/",
		Timeout: 5 * time.Second,
		Logger:  log,
	})
	require.NoError(t, err)

	assert.True(t, session.Verified)
	assert.NoError(t, session.VerifyErr)
	assert.NoError(t, session.Require())
	assert.Equal(t, &Identity{ID: "42", Name: "Ada Lovelace", ScreenName: "ada"}, session.Identity)
	assert.True(t, log.HasMessage("Credentials verified"))
}

func TestAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"code":89,"message":"Invalid or expired token."}]}`)
	}))
	defer server.Close()

	session, err := Authenticate(context.Background(), testCreds(), ClientOptions{
		BaseURL: server.URL + "/1.1/",
		Timeout: 5 * time.Second,
		Logger:  logger.NewTestLogger(),
	})
	require.NoError(t, err, "a failed check is not an Authenticate error")
	require.NotNil(t, session.Client)

	assert.False(t, session.Verified)
	assert.Nil(t, session.Identity)

	var apiErr *apierrors.Error
	require.True(t, errors.As(session.VerifyErr, &apiErr))
	assert.Equal(t, apierrors.ErrorTypeAuth, apiErr.Type)
	assert.Equal(t, 89, apiErr.APICode)

	err = session.Require()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, err, session.VerifyErr)
}

func TestAuthenticateNetworkFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	session, err := Authenticate(context.Background(), testCreds(), ClientOptions{
		BaseURL: base + "/1.1/",
		Timeout: time.Second,
		Logger:  logger.NewTestLogger(),
	})
	require.NoError(t, err)
	assert.False(t, session.Verified)

	var apiErr *apierrors.Error
	require.True(t, errors.As(session.VerifyErr, &apiErr))
	assert.Equal(t, apierrors.ErrorTypeNetwork, apiErr.Type)
}

func TestAuthenticateIncompleteCredentials(t *testing.T) {
	session, err := Authenticate(context.Background(), &auth.Credentials{ConsumerKey: "ck"}, ClientOptions{})
	assert.Nil(t, session)
	assert.ErrorIs(t, err, auth.ErrIncompleteCredentials)
}

func TestSearchPagination(t *testing.T) {
	var requests []string
	server := searchServer(t, 7, &requests)
	defer server.Close()

	client := newTestClient(t, server, ClientOptions{PageSize: 3})
	cursor := client.Search(SearchParams{Query: "golang -filter:retweets", Language: "en", MaxItems: 100})

	ids := drain(t, cursor)
	assert.Equal(t, []string{"7", "6", "5", "4", "3", "2", "1"}, ids)
	assert.Equal(t, 7, cursor.Yielded())
	require.Len(t, requests, 3)

	first := parseQuery(t, requests[0])
	assert.Equal(t, "golang -filter:retweets", first.Get("q"))
	assert.Equal(t, "en", first.Get("lang"))
	assert.Equal(t, "3", first.Get("count"))
	assert.Equal(t, "extended", first.Get("tweet_mode"))
	assert.Equal(t, "true", first.Get("include_entities"))
	assert.Empty(t, first.Get("max_id"))

	assert.Equal(t, "4", parseQuery(t, requests[1]).Get("max_id"))
	assert.Equal(t, "1", parseQuery(t, requests[2]).Get("max_id"))

	// exhausted cursors stay exhausted without further requests
	_, err := cursor.Next(context.Background())
	assert.Equal(t, io.EOF, err)
	assert.Len(t, requests, 3)
}

func TestSearchStopsAtMaxItems(t *testing.T) {
	var requests []string
	server := searchServer(t, 50, &requests)
	defer server.Close()

	client := newTestClient(t, server, ClientOptions{PageSize: 4})
	ids := drain(t, client.Search(SearchParams{Query: "q", MaxItems: 6}))

	assert.Len(t, ids, 6)
	require.Len(t, requests, 2)
	assert.Equal(t, "4", parseQuery(t, requests[0]).Get("count"))
	assert.Equal(t, "2", parseQuery(t, requests[1]).Get("count"), "last page asks only for what remains")
	assert.Empty(t, parseQuery(t, requests[0]).Get("lang"))
}

func TestSearchZeroItems(t *testing.T) {
	var requests []string
	server := searchServer(t, 5, &requests)
	defer server.Close()

	client := newTestClient(t, server, ClientOptions{})
	_, err := client.Search(SearchParams{Query: "q", MaxItems: 0}).Next(context.Background())

	assert.Equal(t, io.EOF, err)
	assert.Empty(t, requests)
}

func TestSearchErrorIsSticky(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprintf(w, `{"statuses":[%s],"search_metadata":{"next_results":"?max_id=1"}}`, statusJSON(2, "only"))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, ClientOptions{MaxRetries: 3, RetryWait: time.Millisecond})
	cursor := client.Search(SearchParams{Query: "q", MaxItems: 10})

	post, err := cursor.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", post.ID)

	_, err = cursor.Next(context.Background())
	var apiErr *apierrors.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.ErrorTypeRateLimit, apiErr.Type)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "rate limits are not retried")

	_, again := cursor.Next(context.Background())
	assert.Equal(t, err, again)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"id_str":"1","name":"n","screen_name":"s"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, ClientOptions{MaxRetries: 2, RetryWait: time.Millisecond})
	identity, err := client.VerifyCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s", identity.ScreenName)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNoRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server, ClientOptions{})
	_, err := client.VerifyCredentials(context.Background())

	var apiErr *apierrors.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.ErrorTypeServerError, apiErr.Type)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSONParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	client := newTestClient(t, server, ClientOptions{Logger: log})
	_, err := client.VerifyCredentials(context.Background())

	var apiErr *apierrors.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.ErrorTypeParsing, apiErr.Type)
	assert.True(t, log.HasMessage("failed to parse JSON response"))
}
