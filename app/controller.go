package app

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/catalog"
	"github.com/gogpu/glyphsvg/fontload"
	"github.com/gogpu/glyphsvg/form"
	"github.com/gogpu/glyphsvg/svgexport"
)

// ErrInitialized is returned by a second call to Init.
var ErrInitialized = errors.New("app: controller already initialized")

// dataURIPrefix starts the href of the download link.
const dataURIPrefix = "data:" + svgexport.MIMEType + ";base64,"

// RenderResult is the outcome of one render.
type RenderResult struct {
	ID     uint64
	Markup string
}

// Download is a data URI for the current output.
type Download struct {
	Filename string
	Href     string
}

// Controller drives one render form.
//
// Controller is safe for concurrent use. All writes to the controls that
// happen after Init are serialized by the controller.
type Controller struct {
	controls form.Controls
	opts     options
	renderer *Renderer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	cat         *catalog.Catalog
	initialized bool
	closed      bool
	latest      uint64
	result      RenderResult
	copyTimer   Timer
	copyGen     uint64
}

// New returns a controller for controls. Call Init to load the catalog
// and start rendering.
func New(controls form.Controls, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.fonts == nil {
		o.fonts = fontload.New()
	}

	c := &Controller{
		controls: controls,
		opts:     o,
		renderer: NewRenderer(o.fonts, o.shaper, o.svg),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Init loads the catalog, restores the form from the location's query
// string, binds the form events and issues the first render.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrInitialized
	}
	c.initialized = true
	c.mu.Unlock()

	if _, err := c.LoadCatalog(ctx); err != nil {
		return err
	}
	c.RestoreFromURL()
	c.bindEvents()
	c.RenderCurrent()
	return nil
}

// Close stops the controller and waits for renders in flight.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	if c.copyTimer != nil {
		c.copyTimer.Stop()
		c.copyTimer = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

// Wait blocks until every render issued so far has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Catalog returns the loaded catalog, or nil before LoadCatalog succeeds.
func (c *Controller) Catalog() *catalog.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cat
}

// Result returns the last applied render.
func (c *Controller) Result() RenderResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// LoadCatalog fetches the catalog once and fills the family selector.
// Failures are reported on the status control. Once loaded, the catalog
// is kept and later calls return it without a request.
func (c *Controller) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if cat := c.Catalog(); cat != nil {
		return cat, nil
	}
	if c.opts.catalog == nil {
		c.report(glyphsvg.ErrNoCatalog)
		return nil, glyphsvg.ErrNoCatalog
	}

	cat, err := c.opts.catalog.Fetch(ctx)
	if err == nil && cat.Len() == 0 {
		err = &glyphsvg.CatalogFetchError{Err: errors.New("catalog has no families")}
	}
	if err != nil {
		c.report(err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cat != nil {
		return c.cat, nil
	}
	c.cat = cat
	c.controls.SetOptions(form.FontSelect, cat.Names())
	c.controls.SetOptions(form.FontVariant, cat.Families[0].Variants)
	return cat, nil
}

// OnFamilyChanged refills the variant selector from the selected family,
// selecting its first variant, and renders once.
func (c *Controller) OnFamilyChanged() {
	c.mu.Lock()
	if c.cat == nil || c.closed {
		c.mu.Unlock()
		return
	}
	c.loadVariants(c.controls.Value(form.FontSelect))
	c.mu.Unlock()

	c.RenderCurrent()
}

// loadVariants refills the variant selector for family. An unknown family
// selects the first one. The caller must hold c.mu.
func (c *Controller) loadVariants(family string) {
	fi := c.cat.Index(family)
	if fi < 0 {
		fi = 0
		c.controls.SetValue(form.FontSelect, c.cat.Families[0].Name)
	}
	c.controls.SetOptions(form.FontVariant, c.cat.Families[fi].Variants)
}

// ComputeRenderRequest reads the form and resolves it against the catalog.
func (c *Controller) ComputeRenderRequest() (form.RenderRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return form.NewRenderRequest(form.ReadState(c.controls), c.cat)
}

// PersistToURL writes s into the location's query string.
func (c *Controller) PersistToURL(s form.State) {
	loc := c.opts.location
	loc.ReplaceQuery(s.Query(loc.Query()))
}

// RestoreFromURL overlays the location's query string on the form and
// returns the resulting state. The family is restored first, then the
// variant list is rebuilt for it, then the variant and the remaining
// fields are restored.
func (c *Controller) RestoreFromURL() form.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.opts.location.Query()
	prior := form.ReadState(c.controls)
	s := form.RestoreFromQuery(q, prior)
	if c.cat == nil {
		s.Apply(c.controls)
		return s
	}

	fi := c.cat.Index(s.Family)
	if fi < 0 {
		fi = 0
	}
	fam := &c.cat.Families[fi]
	s.Family = fam.Name
	c.controls.SetValue(form.FontSelect, s.Family)
	c.controls.SetOptions(form.FontVariant, fam.Variants)

	// A variant carried over from another family does not apply.
	if fam.Name != prior.Family && !form.HasValue(q, form.FontVariant) {
		s.Variant = ""
	}
	if !contains(fam.Variants, s.Variant) && len(fam.Variants) > 0 {
		s.Variant = fam.Variants[0]
	}
	s.Apply(c.controls)
	return s
}

// RenderCurrent persists the form to the URL and starts a render of it in
// the background. It returns the id of the new request, or 0 when the
// controller is closed.
func (c *Controller) RenderCurrent() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}

	s := form.ReadState(c.controls)
	c.PersistToURL(s)

	c.latest++
	id := c.latest

	req, err := form.NewRenderRequest(s, c.cat)
	if err != nil {
		c.reportLocked(err)
		return id
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, _ = c.render(c.ctx, id, req)
	}()
	return id
}

// Render runs req to completion as a new request and applies the result
// unless a newer request was issued meanwhile.
func (c *Controller) Render(ctx context.Context, req form.RenderRequest) (RenderResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return RenderResult{}, context.Canceled
	}
	c.latest++
	id := c.latest
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	return c.render(ctx, id, req)
}

func (c *Controller) render(ctx context.Context, id uint64, req form.RenderRequest) (RenderResult, error) {
	markup, err := c.renderer.Render(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.latest {
		glyphsvg.Logger().Debug("app: dropping stale render", "id", id, "latest", c.latest)
		return RenderResult{ID: id}, glyphsvg.ErrSuperseded
	}
	if c.closed {
		return RenderResult{ID: id}, context.Canceled
	}
	if err != nil {
		c.reportLocked(err)
		return RenderResult{ID: id}, err
	}

	c.result = RenderResult{ID: id, Markup: markup}
	c.controls.SetValue(form.SVGRender, markup)
	c.controls.SetValue(form.OutputSVG, markup)
	c.controls.SetValue(form.RenderStatus, "")
	glyphsvg.Logger().Debug("app: rendered",
		"id", id,
		"family", req.Family,
		"variant", req.Variant,
		"bytes", len(markup))
	return c.result, nil
}

// CopyToClipboard copies the output text. The copy button reads "copied"
// until the feedback delay has passed, whether or not the copy worked.
func (c *Controller) CopyToClipboard() error {
	c.mu.Lock()
	text := c.controls.Value(form.OutputSVG)
	if !c.closed {
		c.controls.SetValue(form.CopyButton, form.CopiedLabel)
		if c.copyTimer != nil {
			c.copyTimer.Stop()
		}
		c.copyGen++
		gen := c.copyGen
		c.copyTimer = c.opts.clock.AfterFunc(c.opts.copyFeedback, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if gen == c.copyGen && !c.closed {
				c.controls.SetValue(form.CopyButton, form.CopyLabel)
				c.copyTimer = nil
			}
		})
	}
	c.mu.Unlock()

	err := c.opts.clipboard.Copy(text)
	if err != nil {
		glyphsvg.Logger().Warn("app: copy to clipboard failed", "err", err)
	}
	return err
}

// DownloadOutput encodes the output as a data URI named after the text
// input and points the download link at it.
func (c *Controller) DownloadOutput() Download {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := Download{
		Filename: c.controls.Value(form.InputText),
		Href:     dataURIPrefix + base64.StdEncoding.EncodeToString([]byte(c.controls.Value(form.OutputSVG))),
	}
	if l, ok := c.controls.(form.Linker); ok {
		l.SetLink(form.DownloadButton, d.Href, d.Filename)
	}
	return d
}

func (c *Controller) bindEvents() {
	c.controls.OnChange(form.FontSelect, c.OnFamilyChanged)
	for _, id := range []string{
		form.FontVariant,
		form.InputText,
		form.InputSize,
		form.InputUnion,
		form.InputKerning,
		form.InputSeparate,
		form.InputCurveAccuracy,
	} {
		c.controls.OnChange(id, func() { c.RenderCurrent() })
	}
	c.controls.OnChange(form.CopyButton, func() { _ = c.CopyToClipboard() })
	c.controls.OnChange(form.DownloadButton, func() { c.DownloadOutput() })
}

func (c *Controller) report(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reportLocked(err)
}

// reportLocked shows err on the status control. The caller must hold c.mu.
func (c *Controller) reportLocked(err error) {
	glyphsvg.Logger().Warn("app: reporting error", "err", err)
	if !c.closed {
		c.controls.SetValue(form.RenderStatus, err.Error())
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
