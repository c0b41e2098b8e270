package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://www.sec.gov"
	defaultAPIURL   = "https://data.sec.gov"
	defaultEdgarURL = "https://www.sec.gov/Archives/edgar"

	defaultRequestDelay = 100 * time.Millisecond
)

// Client talks to the EDGAR endpoints. Every request carries the configured
// User-Agent, passes a shared rate limiter that spaces consecutive requests,
// and retries rate-limit rejections with exponential backoff. Construct one
// per run and hand it to the components that need it.
type Client struct {
	http      *retryablehttp.Client
	limiter   *rate.Limiter
	userAgent string
	baseURL   string
	apiURL    string
	edgarURL  string
	log       *zap.SugaredLogger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithUserAgent sets the User-Agent header. The SEC requires a descriptive
// identity with a contact address.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithEndpoints overrides the three EDGAR roots: the www host (ticker
// registry), the data host (submissions feed) and the archives root. Empty
// values keep the defaults. Tests point these at a local server.
func WithEndpoints(baseURL, apiURL, edgarURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
		if apiURL != "" {
			c.apiURL = apiURL
		}
		if edgarURL != "" {
			c.edgarURL = edgarURL
		}
	}
}

// WithRequestDelay sets the minimum spacing between consecutive requests.
func WithRequestDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithRetryMax sets how many times a rate-limited request is retried.
func WithRetryMax(n int) ClientOption {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithLogger attaches a logger for fallback decisions. Defaults to a no-op.
func WithLogger(log *zap.SugaredLogger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient builds a Client with SEC-safe defaults.
func NewClient(opts ...ClientOption) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = 60 * time.Second
	rc.CheckRetry = checkRetry

	c := &Client{
		http:      rc,
		limiter:   rate.NewLimiter(rate.Every(defaultRequestDelay), 1),
		userAgent: "secdl/1.0 (admin@example.com)",
		baseURL:   defaultBaseURL,
		apiURL:    defaultAPIURL,
		edgarURL:  defaultEdgarURL,
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkRetry retries only rate-limit style rejections (429 and 503, where
// the default backoff honors Retry-After) and transient transport failures.
// Every other error surfaces to the caller on the first attempt.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return true, nil
	}
	return false, nil
}

// StatusError reports a non-200 response that was not retried away.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.Code)
}

// EdgarURL returns the configured archives root.
func (c *Client) EdgarURL() string { return c.edgarURL }

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp, nil
}

// getJSON fetches url and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// getDocument fetches url and returns the body as UTF-8 text. Filing
// documents predate UTF-8 and frequently arrive as latin-1; the charset
// reader sniffs Content-Type and the body to normalize them.
func (c *Client) getDocument(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("charset for %s: %w", url, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}
