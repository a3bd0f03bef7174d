package form

import "sync"

// MemoryControls is an in-process Controls backed by maps. It stands in
// for a page when the controller runs headless, as in the CLI and tests.
//
// MemoryControls is safe for concurrent use. Handlers run on the
// goroutine that calls Change or Click.
type MemoryControls struct {
	mu       sync.Mutex
	values   map[string]string
	options  map[string][]string
	links    map[string]Link
	handlers map[string][]func()
}

// Link is the target of a link control.
type Link struct {
	Href     string
	Filename string
}

var (
	_ Controls = (*MemoryControls)(nil)
	_ Linker   = (*MemoryControls)(nil)
)

// NewMemoryControls returns controls holding DefaultState.
func NewMemoryControls() *MemoryControls {
	m := &MemoryControls{
		values:   make(map[string]string),
		options:  make(map[string][]string),
		links:    make(map[string]Link),
		handlers: make(map[string][]func()),
	}
	DefaultState().Apply(m)
	m.values[CopyButton] = CopyLabel
	return m
}

func (m *MemoryControls) Value(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[id]
}

func (m *MemoryControls) SetValue(id, value string) {
	m.mu.Lock()
	m.values[id] = value
	m.mu.Unlock()
}

func (m *MemoryControls) SetOptions(id string, options []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.options[id] = append([]string(nil), options...)
	if len(options) > 0 {
		m.values[id] = options[0]
	} else {
		m.values[id] = ""
	}
}

func (m *MemoryControls) OnChange(id string, fn func()) {
	m.mu.Lock()
	m.handlers[id] = append(m.handlers[id], fn)
	m.mu.Unlock()
}

func (m *MemoryControls) SetLink(id, href, filename string) {
	m.mu.Lock()
	m.links[id] = Link{Href: href, Filename: filename}
	m.mu.Unlock()
}

// Options returns the options of a selector.
func (m *MemoryControls) Options(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.options[id]...)
}

// Link returns the target last set on a link control.
func (m *MemoryControls) Link(id string) Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[id]
}

// Change sets a value as a user edit would and runs the change handlers.
func (m *MemoryControls) Change(id, value string) {
	m.SetValue(id, value)
	m.fire(id)
}

// Click runs the handlers of a button.
func (m *MemoryControls) Click(id string) {
	m.fire(id)
}

func (m *MemoryControls) fire(id string) {
	m.mu.Lock()
	fns := append([]func(){}, m.handlers[id]...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
