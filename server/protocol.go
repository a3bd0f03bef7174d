package server

// Message types sent by the page.
const (
	msgHello  = "hello"
	msgChange = "change"
	msgAction = "action"
)

// Message types sent to the page.
const (
	msgSet          = "set"
	msgOptions      = "options"
	msgReplaceState = "replaceState"
	msgClipboard    = "clipboard"
	msgLink         = "link"
)

// message is one JSON frame of the session protocol.
type message struct {
	Type     string   `json:"type"`
	ID       string   `json:"id,omitempty"`
	Value    string   `json:"value,omitempty"`
	Options  []string `json:"options,omitempty"`
	Query    string   `json:"query,omitempty"`
	Href     string   `json:"href,omitempty"`
	Filename string   `json:"filename,omitempty"`
}
