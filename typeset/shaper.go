package typeset

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// kernTag is the OpenType feature tag for pair kerning.
var kernTag = opentype.NewTag('k', 'e', 'r', 'n')

// ShapedGlyph is one glyph positioned along the baseline.
type ShapedGlyph struct {
	GID GlyphID

	// Cluster is the index of the first rune of the text this glyph
	// was produced from.
	Cluster int

	// X, Y are the pen position plus the glyph offset, in SVG
	// orientation (Y down).
	X, Y float64

	// Advance is the horizontal pen advance after this glyph.
	Advance float64
}

// Shaper converts text to positioned glyphs using HarfBuzz shaping from
// go-text/typesetting. It applies the font's kerning (GPOS or legacy kern
// table) unless kerning is switched off for a call.
//
// Shaper is safe for concurrent use. HarfbuzzShaper instances carry
// mutable buffers and are pooled; go-text Face values are created per call.
type Shaper struct {
	pool sync.Pool
	lang language.Language
}

// ShaperOption configures a Shaper.
type ShaperOption func(*Shaper)

// WithLanguage sets the language used for shaping (default English).
func WithLanguage(tag xlanguage.Tag) ShaperOption {
	return func(s *Shaper) {
		s.lang = language.NewLanguage(tag.String())
	}
}

// NewShaper creates a Shaper.
func NewShaper(opts ...ShaperOption) *Shaper {
	s := &Shaper{
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		lang: language.NewLanguage("en"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shape positions the glyphs of text set in f at the given size.
// The text is normalized to NFC first so that precomposed glyphs are used
// where the font has them.
func (s *Shaper) Shape(f *Font, text string, size float64, kerning bool) []ShapedGlyph {
	if text == "" || f == nil {
		return nil
	}
	runes := []rune(norm.NFC.String(text))

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.shaper),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  s.lang,
	}
	if !kerning {
		input.FontFeatures = []shaping.FontFeature{{Tag: kernTag, Value: 0}}
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	return convertGlyphs(output.Glyphs)
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// convertGlyphs converts go-text output to ShapedGlyph values, flipping
// the vertical offset into SVG orientation.
func convertGlyphs(glyphs []shaping.Glyph) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}
	result := make([]ShapedGlyph, len(glyphs))
	var x float64
	for i, g := range glyphs {
		adv := fixedToFloat(g.Advance)
		result[i] = ShapedGlyph{
			GID:     GlyphID(uint16(g.GlyphID)), //nolint:gosec // glyph ids fit in 16 bits for sfnt fonts
			Cluster: g.TextIndex(),
			X:       x + fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		}
		x += adv
	}
	return result
}
