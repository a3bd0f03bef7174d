package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/app"
	"github.com/gogpu/glyphsvg/catalog"
	"github.com/gogpu/glyphsvg/form"
	"github.com/gogpu/glyphsvg/svgexport"
	"github.com/gogpu/glyphsvg/typeset"
)

//go:embed static
var staticFiles embed.FS

// Server serves the render form for one catalog.
type Server struct {
	cat          *catalog.Catalog
	fonts        app.FontFetcher
	shaper       *typeset.Shaper
	svg          svgexport.Options
	copyFeedback time.Duration

	renderer *app.Renderer
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithShaper sets the shaper shared by all renders.
func WithShaper(sh *typeset.Shaper) Option {
	return func(s *Server) {
		s.shaper = sh
	}
}

// WithSVGOptions sets the appearance of the exported markup.
func WithSVGOptions(opts svgexport.Options) Option {
	return func(s *Server) {
		s.svg = opts
	}
}

// WithCopyFeedback sets how long a page's copy button shows "copied".
func WithCopyFeedback(d time.Duration) Option {
	return func(s *Server) {
		s.copyFeedback = d
	}
}

// New returns a server rendering from cat with fonts loaded by fonts.
func New(cat *catalog.Catalog, fonts app.FontFetcher, opts ...Option) *Server {
	s := &Server{
		cat:          cat,
		fonts:        fonts,
		svg:          svgexport.DefaultOptions(),
		copyFeedback: app.DefaultCopyFeedback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16 << 10,
		},
		mux: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.shaper == nil {
		s.shaper = typeset.NewShaper()
	}
	s.renderer = app.NewRenderer(fonts, s.shaper, s.svg)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.mux.Handle("GET /", http.FileServerFS(static))
	s.mux.HandleFunc("GET /ws", s.handleSession)
	s.mux.HandleFunc("GET /api/families", s.handleFamilies)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/download", s.handleDownload)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		glyphsvg.Logger().Info("server: listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) newController(sess *session) *app.Controller {
	return app.New(sess,
		app.WithCatalogSource(app.StaticCatalog(s.cat)),
		app.WithFontFetcher(s.fonts),
		app.WithLocation(sess),
		app.WithClipboard(sess),
		app.WithShaper(s.shaper),
		app.WithSVGOptions(s.svg),
		app.WithCopyFeedback(s.copyFeedback),
	)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		glyphsvg.Logger().Debug("server: upgrade failed", "err", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageSize)

	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	var hello message
	if err := ws.ReadJSON(&hello); err != nil || hello.Type != msgHello {
		glyphsvg.Logger().Debug("server: session without hello", "err", err)
		return
	}
	_ = ws.SetReadDeadline(time.Time{})

	query, _ := url.ParseQuery(strings.TrimPrefix(hello.Query, "?"))
	sess := newSession(ws, query)
	ctrl := s.newController(sess)
	defer ctrl.Close()

	if err := ctrl.Init(r.Context()); err != nil {
		// Reported to the page through the status control.
		glyphsvg.Logger().Warn("server: session init failed", "err", err)
	}
	glyphsvg.Logger().Info("server: session opened", "remote", r.RemoteAddr)
	defer glyphsvg.Logger().Info("server: session closed", "remote", r.RemoteAddr)

	for {
		var m message
		if err := ws.ReadJSON(&m); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				glyphsvg.Logger().Debug("server: session read failed", "err", err)
			}
			return
		}
		sess.dispatch(m)
	}
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	families := s.cat.Filter(r.URL.Query().Get("filter"))
	if families == nil {
		families = []catalog.Family{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(families); err != nil {
		glyphsvg.Logger().Debug("server: write families", "err", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	markup, _, ok := s.renderQuery(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", svgexport.MIMEType)
	_, _ = w.Write([]byte(markup))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	markup, req, ok := s.renderQuery(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", svgexport.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": downloadName(req.Text),
	}))
	_, _ = w.Write([]byte(markup))
}

// renderQuery renders the form state carried by the request query. On
// failure it has already written the error response.
func (s *Server) renderQuery(w http.ResponseWriter, r *http.Request) (string, form.RenderRequest, bool) {
	state := form.RestoreFromQuery(r.URL.Query(), form.DefaultState())
	req, err := form.NewRenderRequest(state, s.cat)
	if err != nil {
		writeError(w, err)
		return "", req, false
	}
	markup, err := s.renderer.Render(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return "", req, false
	}
	return markup, req, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var oerr *glyphsvg.OutlineFetchError
	switch {
	case errors.As(err, &oerr):
		status = http.StatusBadGateway
	case errors.Is(err, glyphsvg.ErrUnknownFamily), errors.Is(err, glyphsvg.ErrUnknownVariant):
		status = http.StatusNotFound
	case errors.Is(err, glyphsvg.ErrNoCatalog):
		status = http.StatusServiceUnavailable
	}
	glyphsvg.Logger().Warn("server: render failed", "status", status, "err", err)
	http.Error(w, err.Error(), status)
}

// downloadName names the attachment after the rendered text.
func downloadName(text string) string {
	name := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(text))
	if name == "" {
		name = "text"
	}
	return name + ".svg"
}
