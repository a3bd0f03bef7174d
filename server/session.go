package server

import (
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/app"
	"github.com/gogpu/glyphsvg/form"
)

const (
	writeWait      = 10 * time.Second
	helloWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// conn is the part of *websocket.Conn a session writes to.
type conn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
}

// session mirrors one page's form. Values are kept locally so reads never
// wait on the network; every write is forwarded to the page.
type session struct {
	conn    conn
	writeMu sync.Mutex

	mu       sync.Mutex
	values   map[string]string
	options  map[string][]string
	handlers map[string][]func()
	query    url.Values
}

var (
	_ form.Controls = (*session)(nil)
	_ form.Linker   = (*session)(nil)
	_ app.Location  = (*session)(nil)
	_ app.Clipboard = (*session)(nil)
)

func newSession(c conn, query url.Values) *session {
	s := &session{
		conn:     c,
		values:   make(map[string]string),
		options:  make(map[string][]string),
		handlers: make(map[string][]func()),
		query:    query,
	}
	form.DefaultState().Apply(s)
	s.SetValue(form.CopyButton, form.CopyLabel)
	return s
}

func (s *session) Value(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[id]
}

func (s *session) SetValue(id, value string) {
	s.mu.Lock()
	s.values[id] = value
	s.mu.Unlock()
	s.send(message{Type: msgSet, ID: id, Value: value})
}

func (s *session) SetOptions(id string, options []string) {
	s.mu.Lock()
	s.options[id] = append([]string(nil), options...)
	if len(options) > 0 {
		s.values[id] = options[0]
	} else {
		s.values[id] = ""
	}
	s.mu.Unlock()
	s.send(message{Type: msgOptions, ID: id, Options: options})
}

func (s *session) OnChange(id string, fn func()) {
	s.mu.Lock()
	s.handlers[id] = append(s.handlers[id], fn)
	s.mu.Unlock()
}

func (s *session) SetLink(id, href, filename string) {
	s.send(message{Type: msgLink, ID: id, Href: href, Filename: filename})
}

func (s *session) Query() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := make(url.Values, len(s.query))
	for k, v := range s.query {
		q[k] = append([]string(nil), v...)
	}
	return q
}

func (s *session) ReplaceQuery(q url.Values) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	s.send(message{Type: msgReplaceState, Query: q.Encode()})
}

// Copy asks the page to put text on its clipboard. The page reports no
// outcome, so a nil error only means the request was sent.
func (s *session) Copy(text string) error {
	return s.send(message{Type: msgClipboard, Value: text})
}

// dispatch applies one message from the page.
func (s *session) dispatch(m message) {
	switch m.Type {
	case msgChange:
		s.mu.Lock()
		s.values[m.ID] = m.Value
		s.mu.Unlock()
		s.fire(m.ID)
	case msgAction:
		s.fire(m.ID)
	default:
		glyphsvg.Logger().Debug("server: ignoring message", "type", m.Type, "id", m.ID)
	}
}

func (s *session) fire(id string) {
	s.mu.Lock()
	fns := append([]func(){}, s.handlers[id]...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *session) send(m message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(m); err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			glyphsvg.Logger().Debug("server: write failed", "type", m.Type, "err", err)
		}
		return err
	}
	return nil
}
