// Package glyphsvg renders text set in a Google Font as SVG outlines.
//
// # Overview
//
// The work is split across small packages:
//
//   - catalog: the remote font catalog (families, variants, file URLs)
//   - fontload: fetching and caching outline resources
//   - typeset: shaping text and extracting positioned glyph outlines
//   - outline: path geometry (bounds, flattening, winding, union)
//   - svgexport: serializing a text model to SVG markup
//   - form: form state, render requests and URL query persistence
//   - app: the Font Render Controller tying the pieces together
//   - server: HTTP endpoints and the live WebSocket session
//
// The root package holds what every sub-package shares: the logger and the
// error types.
//
// # Quick Start
//
//	src := catalog.NewClient(apiKey)
//	fonts := fontload.New()
//	ctrl := app.New(form.NewMemoryControls(), app.WithCatalogSource(src), app.WithFontFetcher(fonts))
//	if err := ctrl.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctrl.Close()
//
// # Logging
//
// glyphsvg is silent by default. Call [SetLogger] to receive log output.
package glyphsvg
