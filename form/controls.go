package form

// Element ids of the render form.
const (
	FontSelect         = "font-select"
	FontVariant        = "font-variant"
	InputUnion         = "input-union"
	InputKerning       = "input-kerning"
	InputSeparate      = "input-separate"
	InputText          = "input-text"
	InputCurveAccuracy = "input-bezier-accuracy"
	InputSize          = "input-size"
	SVGRender          = "svg-render"
	OutputSVG          = "output-svg"
	CopyButton         = "copy-to-clipboard-btn"
	DownloadButton     = "download-btn"
	RenderStatus       = "render-status"
)

// Labels of the copy button.
const (
	CopyLabel   = "copy to clipboard"
	CopiedLabel = "copied"
)

// PersistedIDs lists the controls mirrored into the URL query string,
// in the order they are written.
var PersistedIDs = []string{
	FontSelect,
	FontVariant,
	InputUnion,
	InputKerning,
	InputSeparate,
	InputText,
	InputCurveAccuracy,
	InputSize,
}

// Controls reads and writes form controls by element id.
//
// Checkbox values are "true" or "false". A selector's value is the text of
// its selected option. SetValue never fires change handlers.
type Controls interface {
	Value(id string) string
	SetValue(id, value string)

	// SetOptions replaces the options of a selector and selects the first.
	SetOptions(id string, options []string)

	// OnChange registers fn to run when the user edits or activates id.
	OnChange(id string, fn func())
}

// Linker is implemented by Controls that can point a link element at a
// downloadable resource.
type Linker interface {
	SetLink(id, href, filename string)
}
