package typeset

import (
	"math"
	"strconv"

	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/outline"
)

// Options controls how a text model is built.
type Options struct {
	// Union merges overlapping glyph outlines.
	Union bool

	// Kerning applies the font's pair kerning.
	Kerning bool

	// CurveAccuracy, when positive, replaces curves with line segments
	// that stay within this distance of the true outline. It is also the
	// flattening tolerance of the union pass. Zero keeps native curves.
	CurveAccuracy float64
}

// Glyph is one glyph sub-shape of a text model.
type Glyph struct {
	// Index is the position of the glyph in the shaped run, counting
	// glyphs without outlines such as spaces.
	Index int

	GID GlyphID

	// Layer names the layer the glyph is drawn on; "" is the default layer.
	Layer string

	// Path is the outline in model coordinates.
	Path *outline.Path
}

// Model is a string set in a font at one size, as positioned outlines.
type Model struct {
	Text    string
	Size    float64
	Glyphs  []Glyph
	Advance float64
}

// Bounds returns the bounding box of all glyph outlines.
func (m *Model) Bounds() outline.Rect {
	r := outline.EmptyRect()
	for _, g := range m.Glyphs {
		r = r.Union(g.Path.Bounds())
	}
	return r
}

// SeparateLayers puts every glyph on its own layer named after its index.
func (m *Model) SeparateLayers() {
	for i := range m.Glyphs {
		m.Glyphs[i].Layer = strconv.Itoa(m.Glyphs[i].Index)
	}
}

// Layers returns the distinct layer names in first-use order.
func (m *Model) Layers() []string {
	var layers []string
	seen := make(map[string]bool)
	for _, g := range m.Glyphs {
		if !seen[g.Layer] {
			seen[g.Layer] = true
			layers = append(layers, g.Layer)
		}
	}
	return layers
}

// TextModel shapes text in f at size and collects the positioned glyph
// outlines. Glyphs that have no outline are left out of the model but keep
// their index slot.
func (s *Shaper) TextModel(f *Font, text string, size float64, opts Options) (*Model, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, ErrInvalidSize
	}

	shaped := s.Shape(f, text, size, opts.Kerning)
	m := &Model{Text: text, Size: size}

	var buf sfnt.Buffer
	for i, sg := range shaped {
		m.Advance += sg.Advance

		p, err := f.GlyphPath(&buf, sg.GID, size)
		if err != nil {
			glyphsvg.Logger().Debug("typeset: skipping glyph", "gid", sg.GID, "err", err)
			continue
		}
		if p.IsEmpty() {
			continue
		}
		p = p.Translate(sg.X, sg.Y)
		if opts.CurveAccuracy > 0 {
			p = p.Linearize(opts.CurveAccuracy)
		}
		m.Glyphs = append(m.Glyphs, Glyph{Index: i, GID: sg.GID, Path: p})
	}

	if opts.Union && len(m.Glyphs) > 1 {
		paths := make([]*outline.Path, len(m.Glyphs))
		for i, g := range m.Glyphs {
			paths[i] = g.Path
		}
		merged := outline.Union(paths, opts.CurveAccuracy)
		kept := m.Glyphs[:0]
		for i, g := range m.Glyphs {
			if merged[i].IsEmpty() {
				continue
			}
			g.Path = merged[i]
			kept = append(kept, g)
		}
		m.Glyphs = kept
	}

	return m, nil
}
