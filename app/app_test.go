package app

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/catalog"
	"github.com/gogpu/glyphsvg/form"
	"github.com/gogpu/glyphsvg/svgexport"
	"github.com/gogpu/glyphsvg/typeset"
)

var testFont = func() *typeset.Font {
	f, err := typeset.ParseFont(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}()

// loadRoboto returns Roboto Regular, which unlike Go Regular carries
// kerning pairs.
func loadRoboto(t *testing.T) *typeset.Font {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "typeset", "testdata", "Roboto-Regular.ttf"))
	require.NoError(t, err)
	f, err := typeset.ParseFont(data)
	require.NoError(t, err)
	return f
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{Families: []catalog.Family{
		{
			Name:     "Go",
			Variants: []string{"regular", "italic"},
			Files: map[string]string{
				"regular": "https://fonts.test/go-regular.ttf",
				"italic":  "http://fonts.test/go-italic.ttf",
			},
		},
		{
			Name:     "Roboto",
			Variants: []string{"100", "regular", "700"},
			Files: map[string]string{
				"100":     "https://fonts.test/roboto-100.ttf",
				"regular": "https://fonts.test/roboto-regular.ttf",
				"700":     "https://fonts.test/roboto-700.ttf",
			},
		},
	}}
}

// fakeFonts serves font, or testFont when font is nil, for every URL. URLs listed in block wait for
// their channel to close, announcing themselves on started first.
type fakeFonts struct {
	mu      sync.Mutex
	calls   []string
	block   map[string]chan struct{}
	started chan string
	err     error
	font    *typeset.Font
}

func (f *fakeFonts) Fetch(ctx context.Context, u string) (*typeset.Font, error) {
	f.mu.Lock()
	f.calls = append(f.calls, u)
	gate := f.block[u]
	err := f.err
	font := f.font
	f.mu.Unlock()

	if gate != nil {
		if f.started != nil {
			f.started <- u
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if font != nil {
		return font, nil
	}
	return testFont, nil
}

func (f *fakeFonts) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFonts) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (c *fakeClipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return c.err
}

type fixture struct {
	c        *Controller
	controls *form.MemoryControls
	fonts    *fakeFonts
	loc      *MemoryLocation
}

func newFixture(t *testing.T, query url.Values, opts ...Option) *fixture {
	t.Helper()
	fx := &fixture{
		controls: form.NewMemoryControls(),
		fonts:    &fakeFonts{},
		loc:      NewMemoryLocation(query),
	}
	opts = append([]Option{
		WithCatalogSource(StaticCatalog(testCatalog())),
		WithFontFetcher(fx.fonts),
		WithLocation(fx.loc),
	}, opts...)
	fx.c = New(fx.controls, opts...)
	t.Cleanup(func() { _ = fx.c.Close() })
	return fx
}

func (fx *fixture) init(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.c.Init(context.Background()))
	fx.c.Wait()
}

func TestInitPopulatesAndRenders(t *testing.T) {
	fx := newFixture(t, nil)
	fx.init(t)

	assert.Equal(t, []string{"Go", "Roboto"}, fx.controls.Options(form.FontSelect))
	assert.Equal(t, []string{"regular", "italic"}, fx.controls.Options(form.FontVariant))
	assert.Equal(t, []string{"https://fonts.test/go-regular.ttf"}, fx.fonts.Calls())

	out := fx.controls.Value(form.OutputSVG)
	assert.Contains(t, out, "<svg")
	assert.Equal(t, out, fx.controls.Value(form.SVGRender))
	assert.Equal(t, out, fx.c.Result().Markup)
	assert.Empty(t, fx.controls.Value(form.RenderStatus))

	q := fx.loc.Query()
	assert.Equal(t, "Go", q.Get(form.FontSelect))
	assert.Equal(t, "Hello", q.Get(form.InputText))
	assert.Equal(t, "true", q.Get(form.InputKerning))

	assert.ErrorIs(t, fx.c.Init(context.Background()), ErrInitialized)
}

func TestInitRestoresFromURL(t *testing.T) {
	fx := newFixture(t, url.Values{
		form.FontSelect:    {"Roboto"},
		form.FontVariant:   {"700"},
		form.InputText:     {"Hi"},
		form.InputSize:     {"50"},
		form.InputSeparate: {"true"},
		form.InputKerning:  {"null"},
	})
	fx.init(t)

	assert.Equal(t, "Roboto", fx.controls.Value(form.FontSelect))
	assert.Equal(t, []string{"100", "regular", "700"}, fx.controls.Options(form.FontVariant))
	assert.Equal(t, "700", fx.controls.Value(form.FontVariant))
	assert.Equal(t, "true", fx.controls.Value(form.InputKerning))
	assert.Equal(t, []string{"https://fonts.test/roboto-700.ttf"}, fx.fonts.Calls())

	out := fx.controls.Value(form.OutputSVG)
	assert.Contains(t, out, `<g id="0">`)
	assert.Contains(t, out, `<g id="1">`)
}

func TestInitUnknownVariantFallsBackToFirst(t *testing.T) {
	fx := newFixture(t, url.Values{
		form.FontSelect:  {"Roboto"},
		form.FontVariant: {"italic"},
	})
	fx.init(t)

	assert.Equal(t, "100", fx.controls.Value(form.FontVariant))
	assert.Equal(t, []string{"https://fonts.test/roboto-100.ttf"}, fx.fonts.Calls())
}

func TestFamilyChangeResetsVariantAndRendersOnce(t *testing.T) {
	fx := newFixture(t, nil)
	fx.init(t)
	fx.controls.Change(form.FontVariant, "italic")
	fx.c.Wait()
	fx.fonts.Reset()

	fx.controls.Change(form.FontSelect, "Roboto")
	fx.c.Wait()

	assert.Equal(t, "100", fx.controls.Value(form.FontVariant))
	assert.Equal(t, []string{"100", "regular", "700"}, fx.controls.Options(form.FontVariant))
	assert.Equal(t, []string{"https://fonts.test/roboto-100.ttf"}, fx.fonts.Calls())
	assert.Equal(t, "100", fx.loc.Query().Get(form.FontVariant))
}

func TestComputeRenderRequestDefaultsSize(t *testing.T) {
	fx := newFixture(t, nil)
	fx.init(t)

	for _, raw := range []string{"", "abc", "0"} {
		fx.controls.SetValue(form.InputSize, raw)
		req, err := fx.c.ComputeRenderRequest()
		require.NoError(t, err)
		assert.Equal(t, 100.0, req.Size, "size %q", raw)
	}

	fx.controls.SetValue(form.InputCurveAccuracy, "nope")
	req, err := fx.c.ComputeRenderRequest()
	require.NoError(t, err)
	assert.Zero(t, req.CurveAccuracy)
	assert.Equal(t, "https://fonts.test/go-regular.ttf", req.URL)
}

func TestScenarioTwoGlyphsNoLayers(t *testing.T) {
	fx := newFixture(t, url.Values{
		form.FontSelect:    {"Roboto"},
		form.FontVariant:   {"regular"},
		form.InputText:     {"Hi"},
		form.InputSize:     {"50"},
		form.InputUnion:    {"false"},
		form.InputKerning:  {"true"},
		form.InputSeparate: {"false"},
	})
	fx.fonts.font = loadRoboto(t)
	fx.init(t)

	out := fx.controls.Value(form.OutputSVG)
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.NotContains(t, out, `<g id="0"`)
	assert.NotContains(t, out, `<g id="1"`)
	assert.Equal(t, []string{"https://fonts.test/roboto-regular.ttf"}, fx.fonts.Calls())
}

func TestKerningTightensPairs(t *testing.T) {
	fonts := &fakeFonts{font: loadRoboto(t)}
	r := NewRenderer(fonts, nil, svgexport.DefaultOptions())
	req := form.RenderRequest{URL: "https://fonts.test/roboto-regular.ttf", Text: "AV", Size: 100}

	req.Kerning = true
	kerned, err := r.Model(context.Background(), req)
	require.NoError(t, err)
	req.Kerning = false
	plain, err := r.Model(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, kerned.Glyphs, 2)
	assert.Less(t, kerned.Advance, plain.Advance)
	assert.Less(t, kerned.Glyphs[1].Path.Bounds().Min.X, plain.Glyphs[1].Path.Bounds().Min.X)
}

func TestCatalogFailureIsReported(t *testing.T) {
	controls := form.NewMemoryControls()
	c := New(controls, WithCatalogSource(CatalogFunc(func(context.Context) (*catalog.Catalog, error) {
		return nil, &glyphsvg.CatalogFetchError{Status: 503}
	})))
	defer c.Close()

	err := c.Init(context.Background())
	var ferr *glyphsvg.CatalogFetchError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, controls.Value(form.RenderStatus), "503")
	assert.Nil(t, c.Catalog())
	assert.Empty(t, controls.Options(form.FontSelect))
}

func TestMissingCatalogSource(t *testing.T) {
	c := New(form.NewMemoryControls())
	defer c.Close()
	assert.ErrorIs(t, c.Init(context.Background()), glyphsvg.ErrNoCatalog)
}

func TestOutlineFailureIsReported(t *testing.T) {
	fx := newFixture(t, nil)
	fx.fonts.err = &glyphsvg.OutlineFetchError{URL: "https://fonts.test/go-regular.ttf", Status: 404}
	fx.init(t)

	assert.Contains(t, fx.controls.Value(form.RenderStatus), "HTTP 404")
	assert.Empty(t, fx.controls.Value(form.OutputSVG))
}

func TestLatestRequestWins(t *testing.T) {
	fx := newFixture(t, nil)
	fx.init(t)

	gate := make(chan struct{})
	fx.fonts.mu.Lock()
	fx.fonts.block = map[string]chan struct{}{"https://fonts.test/go-italic.ttf": gate}
	fx.fonts.started = make(chan string, 1)
	fx.fonts.mu.Unlock()

	fx.controls.SetValue(form.FontVariant, "italic")
	slow := fx.c.RenderCurrent()
	<-fx.fonts.started

	fx.controls.SetValue(form.FontVariant, "regular")
	fx.controls.SetValue(form.InputText, "B")
	fast := fx.c.RenderCurrent()
	require.Greater(t, fast, slow)

	require.Eventually(t, func() bool { return fx.c.Result().ID == fast }, 5*time.Second, time.Millisecond)
	want := fx.controls.Value(form.OutputSVG)

	close(gate)
	fx.c.Wait()

	assert.Equal(t, fast, fx.c.Result().ID)
	assert.Equal(t, want, fx.controls.Value(form.OutputSVG))
}

func TestRenderSuperseded(t *testing.T) {
	fx := newFixture(t, nil)
	fx.init(t)

	gate := make(chan struct{})
	fx.fonts.mu.Lock()
	fx.fonts.block = map[string]chan struct{}{"https://fonts.test/go-italic.ttf": gate}
	fx.fonts.started = make(chan string, 1)
	fx.fonts.mu.Unlock()

	slowReq := form.RenderRequest{URL: "https://fonts.test/go-italic.ttf", Text: "A", Size: 20}
	errc := make(chan error, 1)
	go func() {
		_, err := fx.c.Render(context.Background(), slowReq)
		errc <- err
	}()
	<-fx.fonts.started

	res, err := fx.c.Render(context.Background(), form.RenderRequest{URL: "https://fonts.test/go-regular.ttf", Text: "B", Size: 20})
	require.NoError(t, err)

	close(gate)
	assert.ErrorIs(t, <-errc, glyphsvg.ErrSuperseded)
	assert.Equal(t, res, fx.c.Result())
}

func TestCopyToClipboard(t *testing.T) {
	clock := &fakeClock{}
	clip := &fakeClipboard{}
	fx := newFixture(t, nil, WithClock(clock), WithClipboard(clip))
	fx.init(t)

	fx.controls.Click(form.CopyButton)
	assert.Equal(t, form.CopiedLabel, fx.controls.Value(form.CopyButton))
	assert.Equal(t, fx.controls.Value(form.OutputSVG), clip.text)

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, form.CopiedLabel, fx.controls.Value(form.CopyButton))
	clock.Advance(time.Millisecond)
	assert.Equal(t, form.CopyLabel, fx.controls.Value(form.CopyButton))
}

func TestCopyToClipboardFailureStillGivesFeedback(t *testing.T) {
	clock := &fakeClock{}
	clip := &fakeClipboard{err: errors.New("denied")}
	fx := newFixture(t, nil, WithClock(clock), WithClipboard(clip))
	fx.init(t)

	require.Error(t, fx.c.CopyToClipboard())
	assert.Equal(t, form.CopiedLabel, fx.controls.Value(form.CopyButton))

	// A second click restarts the feedback period.
	clock.Advance(1500 * time.Millisecond)
	_ = fx.c.CopyToClipboard()
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, form.CopiedLabel, fx.controls.Value(form.CopyButton))
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, form.CopyLabel, fx.controls.Value(form.CopyButton))
}

func TestDownloadOutput(t *testing.T) {
	fx := newFixture(t, url.Values{form.InputText: {"Hi there"}})
	fx.init(t)

	fx.controls.Click(form.DownloadButton)
	link := fx.controls.Link(form.DownloadButton)
	assert.Equal(t, "Hi there", link.Filename)
	require.True(t, strings.HasPrefix(link.Href, "data:image/svg+xml;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link.Href, "data:image/svg+xml;base64,"))
	require.NoError(t, err)
	assert.Equal(t, fx.controls.Value(form.OutputSVG), string(raw))

	d := fx.c.DownloadOutput()
	assert.Equal(t, link.Href, d.Href)
}

func TestPersistToURLKeepsUnrelatedParameters(t *testing.T) {
	fx := newFixture(t, url.Values{"ref": {"share"}})
	fx.init(t)

	fx.controls.Change(form.InputKerning, "false")
	fx.c.Wait()

	q := fx.loc.Query()
	assert.Equal(t, "share", q.Get("ref"))
	assert.Equal(t, "false", q.Get(form.InputKerning))
	for _, id := range form.PersistedIDs {
		assert.True(t, q.Has(id), "query lacks %s", id)
	}
}

func TestCloseStopsRendering(t *testing.T) {
	fx := newFixture(t, nil)
	fx.init(t)
	require.NoError(t, fx.c.Close())

	assert.Zero(t, fx.c.RenderCurrent())
	_, err := fx.c.Render(context.Background(), form.RenderRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
