// Package gbif provides a client for the GBIF occurrence search and species
// match APIs (https://techdocs.gbif.org/en/openapi/).
package gbif

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public GBIF API root.
const DefaultBaseURL = "https://api.gbif.org/v1"

// Client defines the GBIF operations used by the curation pipeline.
type Client interface {
	// SearchOccurrences fetches one page of occurrence records for a
	// scientific name.
	SearchOccurrences(ctx context.Context, species string, limit, offset int) (*SearchPage, error)
	// MatchName resolves a name against the GBIF backbone taxonomy.
	MatchName(ctx context.Context, name string) (*NameMatch, error)
}

// SearchPage is one page of the occurrence search response. Results are kept
// as raw JSON so downstream tabulation preserves the wire field order.
type SearchPage struct {
	Offset       int               `json:"offset"`
	Limit        int               `json:"limit"`
	EndOfRecords bool              `json:"endOfRecords"`
	Count        int64             `json:"count"`
	Results      []json.RawMessage `json:"results"`
}

// NameMatch is the backbone match response for a scientific name.
type NameMatch struct {
	UsageKey       int64  `json:"usageKey"`
	ScientificName string `json:"scientificName"`
	CanonicalName  string `json:"canonicalName"`
	Rank           string `json:"rank"`
	Status         string `json:"status"`
	Confidence     int    `json:"confidence"`
	MatchType      string `json:"matchType"`
}

// Matched reports whether the backbone found any usable match. The API
// returns matchType NONE rather than an error when nothing matches.
func (m *NameMatch) Matched() bool {
	return m.MatchType != "" && m.MatchType != "NONE"
}

// PortalSearchURL returns the human-facing GBIF portal URL for an occurrence
// search, with spaces in the name percent-encoded.
func PortalSearchURL(species string) string {
	return "https://www.gbif.org/occurrence/search?scientificName=" + strings.ReplaceAll(species, " ", "%20")
}

// Option configures the GBIF client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests at rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a GBIF API client. The API is public; no key is needed.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchOccurrences(ctx context.Context, species string, limit, offset int) (*SearchPage, error) {
	reqURL := fmt.Sprintf("%s/occurrence/search?scientificName=%s&limit=%d&offset=%d",
		c.baseURL, url.QueryEscape(species), limit, offset)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "gbif: occurrence search")
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, eris.Wrap(err, "gbif: unmarshal occurrence page")
	}
	return &page, nil
}

func (c *httpClient) MatchName(ctx context.Context, name string) (*NameMatch, error) {
	reqURL := fmt.Sprintf("%s/species/match?name=%s", c.baseURL, url.QueryEscape(name))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "gbif: species match")
	}

	var match NameMatch
	if err := json.Unmarshal(body, &match); err != nil {
		return nil, eris.Wrap(err, "gbif: unmarshal name match")
	}
	return &match, nil
}

// get performs a single GET request. Transport failures and non-200 statuses
// are returned as errors; callers treat them as fatal, no retry.
func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
