// Package fetch resolves bibliographic references to paper content by
// walking a cascade of publisher, repository, and mirror endpoints. Every
// endpoint is treated as unreliable; a tier failure moves the cascade on
// to the next tier.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the shared outbound request budget. Polite crawling;
	// NCBI allows 3 req/s without an API key.
	RateLimit = 3.0

	// DefaultUserAgent identifies us to publishers. Some block default Go UAs.
	DefaultUserAgent = "Mozilla/5.0 (compatible; litcheck/1.0; literature verification)"

	// maxBodySize caps response reads. Publisher PDFs run tens of MB.
	maxBodySize = 64 << 20
)

// Client is a rate-limited HTTP client shared by all fetch tiers.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	contactEmail string
	ncbiAPIKey   string
	userAgent    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithContactEmail sets the email passed to APIs that request one.
func WithContactEmail(email string) ClientOption {
	return func(c *Client) {
		c.contactEmail = email
	}
}

// WithNCBIAPIKey sets the NCBI API key, raising the efetch rate limit.
func WithNCBIAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.ncbiAPIKey = key
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a fetch client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL and returns the response body. Non-2xx statuses map
// to the package error sentinels.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	return body, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", ErrBlocked, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}
	return nil
}
