// Package poster fetches remote poster images with cache-first semantics:
// every request consults the cache tiers before touching the network, and
// successful responses are written back through them.
package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/filmshelf/filmshelf/cache"
)

// DefaultTimeout bounds a single fetch attempt. There is no retry: a
// failed attempt is terminal and the caller falls back to a placeholder.
const DefaultTimeout = 30 * time.Second

// ErrFetchFailed is returned when the transport reports an error, the
// response status is outside 200-299, or the payload is not a decodable
// image. Use errors.Is to classify; the wrapped chain carries the cause
// (including context.DeadlineExceeded on timeout).
var ErrFetchFailed = errors.New("fetch failed")

// maxPosterSize caps how much of a response body is read.
const maxPosterSize = 20 << 20 // 20 MiB

type Client struct {
	http    *http.Client
	cache   cache.ReadWriter // optional; nil means no cache
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient injects the transport. Tests use this to substitute a
// failing or counting round tripper.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache wires the two-tier cache in front of the network.
func WithCache(rw cache.ReadWriter) Option {
	return func(c *Client) { c.cache = rw }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the poster bytes for url. Any cached entry, even one past
// its headers-derived expiry, is preferred over a network fetch. A miss
// falls through to a single network attempt whose result is written to
// both cache tiers. The fetch is abandonable through ctx.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, false)
}

// Refresh bypasses the cache read and always performs a network fetch,
// overwriting whatever the tiers held for url.
func (c *Client) Refresh(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, true)
}

func (c *Client) fetch(ctx context.Context, url string, bypass bool) ([]byte, error) {
	key := cache.KeyForURL(url)

	if c.cache != nil && !bypass {
		if entry, ok := c.cache.Read(key); ok {
			return entry.Body, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %w", url, ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %w: status %s", url, ErrFetchFailed, resp.Status)
	}

	// Read one byte past the cap so truncation is detectable: a silently
	// truncated image can still carry a valid header and would otherwise
	// pass validation and get cached.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterSize+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %w", url, ErrFetchFailed, err)
	}
	if len(body) > maxPosterSize {
		return nil, fmt.Errorf("GET %s: %w: response exceeds %d bytes", url, ErrFetchFailed, maxPosterSize)
	}
	if err := validateImage(body); err != nil {
		return nil, fmt.Errorf("GET %s: %w: %w", url, ErrFetchFailed, err)
	}

	if c.cache != nil {
		entry := &cache.Entry{
			FetchedAt: time.Now(),
			ExpiresAt: expiryFromHeader(resp.Header, time.Now()),
			Status:    resp.StatusCode,
			Body:      body,
		}
		_ = c.cache.Write(key, entry)
	}
	return body, nil
}

// expiryFromHeader derives an expiry time from Cache-Control max-age or
// the Expires header. Zero time means no expiry metadata; such entries
// never go stale.
func expiryFromHeader(h http.Header, now time.Time) time.Time {
	for _, directive := range strings.Split(h.Get("Cache-Control"), ",") {
		directive = strings.TrimSpace(directive)
		if age, ok := strings.CutPrefix(directive, "max-age="); ok {
			if secs, err := strconv.Atoi(age); err == nil && secs > 0 {
				return now.Add(time.Duration(secs) * time.Second)
			}
		}
	}
	if expires := h.Get("Expires"); expires != "" {
		if t, err := http.ParseTime(expires); err == nil {
			return t
		}
	}
	return time.Time{}
}
