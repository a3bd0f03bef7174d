package app

import (
	"time"

	"github.com/gogpu/glyphsvg/svgexport"
	"github.com/gogpu/glyphsvg/typeset"
)

// DefaultCopyFeedback is how long the copy button reads "copied".
const DefaultCopyFeedback = 2000 * time.Millisecond

// Option configures a Controller.
type Option func(*options)

type options struct {
	catalog      CatalogSource
	fonts        FontFetcher
	location     Location
	clipboard    Clipboard
	clock        Clock
	shaper       *typeset.Shaper
	svg          svgexport.Options
	copyFeedback time.Duration
}

func defaultOptions() options {
	return options{
		location:     NewMemoryLocation(nil),
		clipboard:    noClipboard{},
		clock:        systemClock{},
		svg:          svgexport.DefaultOptions(),
		copyFeedback: DefaultCopyFeedback,
	}
}

// WithCatalogSource sets where the font catalog is loaded from.
func WithCatalogSource(src CatalogSource) Option {
	return func(o *options) {
		o.catalog = src
	}
}

// WithFontFetcher sets how outline resources are loaded.
// The default is a fontload.Loader with its default settings.
func WithFontFetcher(f FontFetcher) Option {
	return func(o *options) {
		o.fonts = f
	}
}

// WithLocation sets the query string the form state is mirrored into.
func WithLocation(l Location) Option {
	return func(o *options) {
		if l != nil {
			o.location = l
		}
	}
}

// WithClipboard sets the clipboard used by CopyToClipboard.
func WithClipboard(c Clipboard) Option {
	return func(o *options) {
		if c != nil {
			o.clipboard = c
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithShaper sets the text shaper.
func WithShaper(s *typeset.Shaper) Option {
	return func(o *options) {
		o.shaper = s
	}
}

// WithSVGOptions sets the appearance of the exported markup.
func WithSVGOptions(opts svgexport.Options) Option {
	return func(o *options) {
		o.svg = opts
	}
}

// WithCopyFeedback sets how long the copy button shows its feedback label.
func WithCopyFeedback(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.copyFeedback = d
		}
	}
}
