package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gogpu/glyphsvg"
)

// DefaultBaseURL is the Google Fonts Developer API webfonts endpoint.
const DefaultBaseURL = "https://www.googleapis.com/webfonts/v1/webfonts"

// maxCatalogBytes caps the catalog response body.
const maxCatalogBytes = 64 << 20

// Client fetches the catalog from the webfonts API.
type Client struct {
	apiKey  string
	baseURL string
	sort    string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the catalog endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client used for the request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSort asks the service to order families
// ("alpha", "date", "popularity", "style" or "trending").
func WithSort(sort string) Option {
	return func(c *Client) {
		c.sort = sort
	}
}

// NewClient returns a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one catalog request. Failures are returned as
// *glyphsvg.CatalogFetchError; the API key never appears in them.
func (c *Client) Fetch(ctx context.Context) (*Catalog, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, &glyphsvg.CatalogFetchError{Err: err}
	}
	q := endpoint.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	if c.sort != "" {
		q.Set("sort", c.sort)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &glyphsvg.CatalogFetchError{Err: c.redact(err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &glyphsvg.CatalogFetchError{Err: c.redact(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &glyphsvg.CatalogFetchError{Status: resp.StatusCode}
	}

	var cat Catalog
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBytes)).Decode(&cat); err != nil {
		return nil, &glyphsvg.CatalogFetchError{Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}

	glyphsvg.Logger().Info("catalog: loaded",
		"families", len(cat.Families),
		"elapsed", time.Since(start))
	return &cat, nil
}

// redact drops the request URL, which carries the API key, from transport
// errors while keeping the underlying cause.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s %s: %w", uerr.Op, c.baseURL, uerr.Err)
	}
	return err
}
