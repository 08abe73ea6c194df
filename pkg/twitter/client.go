package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/hashicorp/go-retryablehttp"

	"tweetexport/pkg/auth"
	apierrors "tweetexport/pkg/errors"
	"tweetexport/pkg/logger"
)

// ClientOptions configures a Client
type ClientOptions struct {
	// BaseURL defaults to DefaultBaseURL
	BaseURL string
	// Timeout bounds each HTTP attempt
	Timeout time.Duration
	// MaxRetries is the number of extra attempts on transport faults and 5xx
	// responses. Zero disables retrying.
	MaxRetries int
	// RetryWait is the minimum wait between attempts, retryablehttp's default when zero
	RetryWait time.Duration
	// PageSize is the count requested per search page, capped at MaxPageSize
	PageSize int
	Logger   logger.Logger
}

// Client is an OAuth 1.0a signed client for the Twitter REST API
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    *url.URL
	pageSize   int
	logger     logger.Logger
}

// NewClient creates a client that signs every request with creds
func NewClient(creds *auth.Credentials, opts ClientOptions) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	signer := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	signed := signer.Client(oauth1.NoContext, token)
	signed.Timeout = opts.Timeout

	rc := retryablehttp.NewClient()
	rc.HTTPClient = signed
	rc.RetryMax = opts.MaxRetries
	if opts.RetryWait > 0 {
		rc.RetryWaitMin = opts.RetryWait
		rc.RetryWaitMax = opts.RetryWait
	}
	rc.Logger = nil
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.WarnWithFields("retrying HTTP request", map[string]interface{}{
				"method":  req.Method,
				"url":     req.URL.Path,
				"attempt": attempt,
			})
		}
	}

	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &Client{
		httpClient: rc,
		baseURL:    base,
		pageSize:   pageSize,
		logger:     log,
	}, nil
}

// checkRetry retries transport faults and the status codes classified as
// transient. Rate limits are never retried.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return apierrors.IsRetryableStatusCode(resp.StatusCode), nil
}

// GetJSON performs a signed GET on endpoint and decodes the JSON response into target
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, target interface{}) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint})
	u.RawQuery = params.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return apierrors.New(apierrors.ErrorTypeUnknown, 0, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   http.MethodGet,
			"url":      u.Path,
			"error":    err.Error(),
			"duration": duration,
		})
		return apierrors.New(apierrors.ErrorTypeNetwork, 0, "request failed", err)
	}
	defer resp.Body.Close()

	// Query strings are left out of logs, they carry the user's search terms
	logger.LogRequest(c.logger, http.MethodGet, u.Path, resp.StatusCode, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierrors.New(apierrors.ErrorTypeNetwork, resp.StatusCode, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierrors.FromResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          u.Path,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return apierrors.New(apierrors.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON", err)
	}

	return nil
}

// VerifyCredentials returns the account the access token belongs to
func (c *Client) VerifyCredentials(ctx context.Context) (*Identity, error) {
	params := url.Values{}
	params.Set("skip_status", "true")
	params.Set("include_entities", "false")

	var user User
	if err := c.GetJSON(ctx, VerifyCredentialsEndpoint, params, &user); err != nil {
		return nil, err
	}

	id := user.IDStr
	if id == "" && user.ID != 0 {
		id = itoa64(user.ID)
	}
	return &Identity{ID: id, Name: user.Name, ScreenName: user.ScreenName}, nil
}

// Search returns a cursor over the results of query, stopping after
// params.MaxItems posts
func (c *Client) Search(params SearchParams) *Cursor {
	return &Cursor{client: c, params: params}
}
