// Package fontload downloads and parses font outline files.
//
// Concurrent requests for the same URL share one download, and parsed
// fonts are kept in an LRU cache so switching back to a recently used
// variant does not hit the network.
package fontload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/internal/cache"
	"github.com/gogpu/glyphsvg/typeset"
)

// DefaultMaxBytes caps the size of a downloaded outline file.
const DefaultMaxBytes = 32 << 20

// Loader fetches and parses outline resources. It is safe for concurrent use.
type Loader struct {
	http     *http.Client
	maxBytes int64
	fonts    *cache.Cache[string, *typeset.Font]
	group    singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) {
		if hc != nil {
			l.http = hc
		}
	}
}

// WithCacheSize sets how many parsed fonts are kept.
func WithCacheSize(n int) Option {
	return func(l *Loader) {
		l.fonts = cache.New[string, *typeset.Font](n)
	}
}

// WithMaxBytes limits the accepted response size.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		http:     &http.Client{Timeout: 30 * time.Second},
		maxBytes: DefaultMaxBytes,
		fonts:    cache.New[string, *typeset.Font](cache.DefaultCapacity),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch returns the parsed font at url. Failures are returned as
// *glyphsvg.OutlineFetchError.
func (l *Loader) Fetch(ctx context.Context, url string) (*typeset.Font, error) {
	if f, ok := l.fonts.Get(url); ok {
		return f, nil
	}

	ch := l.group.DoChan(url, func() (any, error) {
		// The download outlives a single caller's context so that other
		// waiters on the same URL are not failed by one cancellation.
		f, err := l.download(context.WithoutCancel(ctx), url)
		if err != nil {
			return nil, err
		}
		l.fonts.Set(url, f)
		return f, nil
	})

	select {
	case <-ctx.Done():
		return nil, &glyphsvg.OutlineFetchError{URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*typeset.Font), nil
	}
}

// Stats reports the parsed-font cache counters.
func (l *Loader) Stats() cache.Stats {
	return l.fonts.Stats()
}

func (l *Loader) download(ctx context.Context, url string) (*typeset.Font, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &glyphsvg.OutlineFetchError{URL: url, Err: err}
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, &glyphsvg.OutlineFetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &glyphsvg.OutlineFetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, &glyphsvg.OutlineFetchError{URL: url, Status: resp.StatusCode, Err: err}
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &glyphsvg.OutlineFetchError{
			URL:    url,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("response exceeds %d bytes", l.maxBytes),
		}
	}

	f, err := typeset.ParseFont(data)
	if err != nil {
		return nil, &glyphsvg.OutlineFetchError{URL: url, Status: resp.StatusCode, Err: err}
	}

	glyphsvg.Logger().Debug("fontload: fetched",
		"url", url,
		"bytes", f.Size(),
		"font", f.Name(),
		"glyphs", f.NumGlyphs(),
		"elapsed", time.Since(start))
	return f, nil
}
