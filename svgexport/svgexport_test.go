package svgexport

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/glyphsvg/outline"
	"github.com/gogpu/glyphsvg/typeset"
)

func box(x, y, w, h float64) *outline.Path {
	p := outline.NewPath()
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

func twoGlyphModel() *typeset.Model {
	return &typeset.Model{
		Text: "Hi",
		Size: 50,
		Glyphs: []typeset.Glyph{
			{Index: 0, Path: box(0, -35, 25, 35)},
			{Index: 1, Path: box(30, -36, 6, 36)},
		},
	}
}

func TestMarkupDefaultLayer(t *testing.T) {
	out := Markup(twoGlyphModel(), DefaultOptions())

	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("got %d <path> elements, want 2", got)
	}
	if !strings.Contains(out, `id="svgGroup"`) {
		t.Error("missing root group")
	}
	if strings.Contains(out, `<g id="0"`) || strings.Contains(out, `<g id="1"`) {
		t.Error("default layer output must not contain layer groups")
	}
	if !strings.Contains(out, "viewBox=") {
		t.Error("missing viewBox")
	}
	if !strings.Contains(out, "</svg>") {
		t.Error("document not closed")
	}
}

func TestMarkupSeparateLayers(t *testing.T) {
	m := twoGlyphModel()
	m.SeparateLayers()
	out := Markup(m, Options{})

	for _, id := range []string{`<g id="0">`, `<g id="1">`} {
		if !strings.Contains(out, id) {
			t.Errorf("markup missing layer group %s", id)
		}
	}
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("got %d <path> elements, want 2", got)
	}
}

func TestMarkupEmptyModel(t *testing.T) {
	out := Markup(&typeset.Model{}, DefaultOptions())
	if strings.Contains(out, "<path") {
		t.Error("empty model should produce no paths")
	}
	if !strings.Contains(out, "<svg") {
		t.Error("empty model should still produce an svg element")
	}
}

func TestPathData(t *testing.T) {
	p := box(0, 0, 10, 10)
	want := "M 0 0 L 10 0 L 10 10 L 0 10 Z"
	if got := PathData(p, 3); got != want {
		t.Errorf("PathData() = %q, want %q", got, want)
	}

	c := outline.NewPath()
	c.MoveTo(0, 0)
	c.QuadTo(1.23456, 2, 3, 0)
	c.CubicTo(4, 1, 5, 1, 6.0004, 0)
	want = "M 0 0 Q 1.235 2 3 0 C 4 1 5 1 6 0"
	if got := PathData(c, 3); got != want {
		t.Errorf("PathData() = %q, want %q", got, want)
	}
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		v    float64
		prec int
		want string
	}{
		{1.23456, 3, "1.235"},
		{-0.0001, 3, "0"},
		{12, 3, "12"},
		{-7.5, 1, "-7.5"},
		{0.126, 2, "0.13"},
	}
	for _, tt := range tests {
		if got := formatCoord(tt.v, tt.prec); got != tt.want {
			t.Errorf("formatCoord(%v, %d) = %q, want %q", tt.v, tt.prec, got, tt.want)
		}
	}
}

func TestViewBox(t *testing.T) {
	x, y, w, h := viewBox(outline.Rect{Min: outline.Pt(0.5, -35.2), Max: outline.Pt(36, 0.1)})
	if x != 0 || y != -36 || w != 36 || h != 37 {
		t.Errorf("viewBox = %d %d %d %d, want 0 -36 36 37", x, y, w, h)
	}
	if x, y, w, h := viewBox(outline.EmptyRect()); x|y|w|h != 0 {
		t.Errorf("empty viewBox = %d %d %d %d, want zeros", x, y, w, h)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportsError(t *testing.T) {
	if err := Write(failingWriter{}, twoGlyphModel(), DefaultOptions()); err == nil {
		t.Error("Write() = nil, want error from the underlying writer")
	}
}
