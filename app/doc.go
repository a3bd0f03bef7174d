// Package app implements the font render controller: it loads the font
// catalog, keeps the family and variant selectors consistent, mirrors the
// form into the URL query string and turns every edit into a render whose
// SVG markup is written back to the form.
//
// The controller never touches a page directly. It talks to the form
// through form.Controls and to its environment through the collaborators
// passed as options:
//
//	c := app.New(controls,
//	    app.WithCatalogSource(catalog.NewClient(apiKey)),
//	    app.WithFontFetcher(fontload.New()),
//	    app.WithLocation(loc),
//	)
//	if err := c.Init(ctx); err != nil {
//	    return err
//	}
//	defer c.Close()
//
// # Concurrency
//
// Renders run concurrently. Each trigger takes the next request id, and a
// finished render is written to the form only if its id is still the
// latest one issued; older results are dropped with glyphsvg.ErrSuperseded.
package app
