package app

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/gogpu/glyphsvg/catalog"
	"github.com/gogpu/glyphsvg/typeset"
)

// ErrNoClipboard is returned by the default clipboard.
var ErrNoClipboard = errors.New("app: no clipboard available")

// CatalogSource loads the font catalog.
type CatalogSource interface {
	Fetch(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogFunc adapts a function to CatalogSource.
type CatalogFunc func(ctx context.Context) (*catalog.Catalog, error)

// Fetch calls f(ctx).
func (f CatalogFunc) Fetch(ctx context.Context) (*catalog.Catalog, error) { return f(ctx) }

// StaticCatalog returns a CatalogSource that always yields cat.
func StaticCatalog(cat *catalog.Catalog) CatalogSource {
	return CatalogFunc(func(context.Context) (*catalog.Catalog, error) { return cat, nil })
}

// FontFetcher loads the outline resource at a URL.
type FontFetcher interface {
	Fetch(ctx context.Context, url string) (*typeset.Font, error)
}

// FontFunc adapts a function to FontFetcher.
type FontFunc func(ctx context.Context, url string) (*typeset.Font, error)

// Fetch calls f(ctx, url).
func (f FontFunc) Fetch(ctx context.Context, url string) (*typeset.Font, error) { return f(ctx, url) }

// Location is the query string of the page the controller serves.
type Location interface {
	Query() url.Values

	// ReplaceQuery replaces the current query without adding a history
	// entry.
	ReplaceQuery(q url.Values)
}

// Clipboard receives copied output.
type Clipboard interface {
	Copy(text string) error
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type noClipboard struct{}

func (noClipboard) Copy(string) error { return ErrNoClipboard }

// MemoryLocation is a Location held in memory.
type MemoryLocation struct {
	mu sync.Mutex
	q  url.Values
}

// NewMemoryLocation returns a location holding q.
func NewMemoryLocation(q url.Values) *MemoryLocation {
	return &MemoryLocation{q: cloneValues(q)}
}

func (l *MemoryLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.q)
}

func (l *MemoryLocation) ReplaceQuery(q url.Values) {
	l.mu.Lock()
	l.q = cloneValues(q)
	l.mu.Unlock()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
