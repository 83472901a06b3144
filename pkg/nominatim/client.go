// Package nominatim provides a client for the OpenStreetMap Nominatim
// reverse-geocoding API (https://nominatim.org/release-docs/latest/api/Reverse/).
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultUserAgent identifies this tool per the Nominatim usage policy,
	// which rejects requests without a User-Agent.
	DefaultUserAgent = "geo_validation"
)

// Client defines the Nominatim operations used by the curation pipeline.
type Client interface {
	// Reverse looks up the place at a coordinate. A coordinate the service
	// cannot resolve returns (nil, nil), not an error.
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
	// Locate reports whether a coordinate resolves to a known place.
	// Lookup timeouts count as not found; any other failure is an error.
	Locate(ctx context.Context, lat, lon float64) (bool, error)
}

// Place is the subset of the reverse-geocode response the pipeline uses.
type Place struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`

	// Error is set by the service instead of an HTTP error when the
	// coordinate cannot be resolved ("Unable to geocode").
	Error string `json:"error"`
}

// Option configures the Nominatim client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing or a self-hosted instance).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests at rps requests per second. The
// public instance's usage policy allows at most one request per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a Nominatim client with the public instance defaults:
// 10 second request timeout and a 1 request/second limiter.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit wait")
	}

	reqURL := fmt.Sprintf("%s/reverse?format=json&lat=%g&lon=%g", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: reverse request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var place Place
	if err := json.Unmarshal(body, &place); err != nil {
		return nil, eris.Wrap(err, "nominatim: unmarshal response")
	}
	if place.Error != "" || place.DisplayName == "" {
		return nil, nil
	}
	return &place, nil
}

func (c *httpClient) Locate(ctx context.Context, lat, lon float64) (bool, error) {
	place, err := c.Reverse(ctx, lat, lon)
	if err != nil {
		if IsTimeout(err) {
			return false, nil
		}
		return false, err
	}
	return place != nil, nil
}

// IsTimeout reports whether err is a request timeout rather than a hard
// transport or service failure.
func IsTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
