package typeset

import (
	"bytes"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphsvg/outline"
)

// GlyphID is a glyph index within a font.
type GlyphID uint16

// Font is a parsed outline resource.
// It holds two views of the same bytes: an sfnt.Font for glyph outlines
// and a go-text Font for shaping. Both are read-only.
//
// Font is safe for concurrent use.
type Font struct {
	data   []byte
	outl   *sfnt.Font
	shaper *gotext.Font
	name   string
}

// ParseFont parses TTF or OTF data. The data slice is retained and must
// not be modified afterwards.
func ParseFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	outl, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("typeset: failed to parse font: %w", err)
	}

	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("typeset: failed to load font for shaping: %w", err)
	}

	f := &Font{
		data:   data,
		outl:   outl,
		shaper: face.Font,
	}
	f.name = fontName(outl)
	return f, nil
}

// Name returns the family name recorded in the font, or "Unknown Font".
func (f *Font) Name() string {
	return f.name
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.outl.NumGlyphs()
}

// Size returns the size of the font data in bytes.
func (f *Font) Size() int {
	return len(f.data)
}

// GlyphPath returns the outline of a glyph scaled so that one em equals
// size units. Glyphs without contours (such as a space) return an empty
// path. buf may be nil; reuse one buffer per goroutine to avoid allocations.
func (f *Font) GlyphPath(buf *sfnt.Buffer, gid GlyphID, size float64) (*outline.Path, error) {
	if buf == nil {
		buf = &sfnt.Buffer{}
	}
	segments, err := f.outl.LoadGlyph(buf, sfnt.GlyphIndex(gid), floatToFixed(size), nil)
	if err != nil {
		return nil, fmt.Errorf("typeset: glyph %d: %w", gid, err)
	}

	p := outline.NewPath()
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			pt := seg.Args[0]
			p.MoveTo(fixedToFloat(pt.X), fixedToFloat(pt.Y))
			open = true
		case sfnt.SegmentOpLineTo:
			pt := seg.Args[0]
			p.LineTo(fixedToFloat(pt.X), fixedToFloat(pt.Y))
		case sfnt.SegmentOpQuadTo:
			c, pt := seg.Args[0], seg.Args[1]
			p.QuadTo(fixedToFloat(c.X), fixedToFloat(c.Y), fixedToFloat(pt.X), fixedToFloat(pt.Y))
		case sfnt.SegmentOpCubeTo:
			c1, c2, pt := seg.Args[0], seg.Args[1], seg.Args[2]
			p.CubicTo(fixedToFloat(c1.X), fixedToFloat(c1.Y),
				fixedToFloat(c2.X), fixedToFloat(c2.Y),
				fixedToFloat(pt.X), fixedToFloat(pt.Y))
		}
	}
	if open {
		p.Close()
	}
	return p, nil
}

// fontName extracts the family name, falling back to the full name.
func fontName(f *sfnt.Font) string {
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
