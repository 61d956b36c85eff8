// Package ifixit provides a read-only client for the iFixit public API and
// normalization of its heterogeneous guide payloads into the canonical
// fixhub.Guide schema.
package ifixit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/fixhub"
	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultBaseURL   = "https://www.ifixit.com/api/2.0"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "fixhub/1.0"
)

// maxBodyExcerpt bounds the upstream body carried in EUPSTREAM messages.
const maxBodyExcerpt = 200

// Ensure Client implements fixhub.GuideSource at compile time.
var _ fixhub.GuideSource = (*Client)(nil)

// Client issues outbound GET requests to the iFixit API. It never issues
// mutation calls and holds no local state beyond its HTTP client.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	client    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit caps outbound requests per second. Unset means unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new iFixit API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// Search returns candidate guide references for a free-text query, in
// upstream order. Non-guide records in the response are skipped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]fixhub.GuideReference, error) {
	if query == "" {
		return nil, fixhub.Errorf(fixhub.EINVALID, "search query required")
	}
	if limit < 1 {
		return nil, fixhub.Errorf(fixhub.EINVALID, "limit must be at least 1")
	}

	u := fmt.Sprintf("%s/search/%s?limit=%d&filter=guide", c.baseURL, url.PathEscape(query), limit)
	body, _, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	return decodeSearch(body)
}

// FetchGuide retrieves a single guide by identifier and normalizes it.
func (c *Client) FetchGuide(ctx context.Context, id string) (*fixhub.Guide, error) {
	if id == "" {
		return nil, fixhub.Errorf(fixhub.EINVALID, "guide identifier required")
	}

	u := fmt.Sprintf("%s/guides/%s", c.baseURL, url.PathEscape(id))
	body, status, err := c.get(ctx, u)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fixhub.Errorf(fixhub.ENOTFOUND, "guide %q not found", id)
		}
		return nil, err
	}

	guide, err := Normalize(body)
	if err != nil {
		return nil, err
	}
	if guide.ID == "" {
		guide.ID = id
	}
	return guide, nil
}

// get performs a GET request and classifies failures: transport errors and
// timeouts become EUNAVAILABLE, non-2xx statuses become EUPSTREAM carrying
// the status and a truncated body excerpt. The returned status is zero when
// no response was received.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fixhub.Errorf(fixhub.EUNAVAILABLE, "upstream request canceled: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fixhub.Errorf(fixhub.EINTERNAL, "building upstream request: %v", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fixhub.Errorf(fixhub.EUNAVAILABLE, "upstream unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fixhub.Errorf(fixhub.EUNAVAILABLE, "reading upstream response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fixhub.Errorf(fixhub.EUPSTREAM, "upstream status %d: %s", resp.StatusCode, excerpt(body))
	}
	return body, resp.StatusCode, nil
}

func excerpt(body []byte) string {
	s := string(body)
	if len(s) > maxBodyExcerpt {
		s = s[:maxBodyExcerpt] + "..."
	}
	return s
}

// itoa renders an upstream numeric identifier as the opaque string the
// domain uses, empty when unset.
func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
