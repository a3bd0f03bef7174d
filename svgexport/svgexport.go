// Package svgexport serializes text models to SVG markup.
//
// The output mirrors a plotter-friendly drawing: outlines are stroked,
// not filled, inside a single root group, and glyphs that were assigned a
// layer are wrapped in a group whose id is the layer name.
package svgexport

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/gogpu/glyphsvg/outline"
	"github.com/gogpu/glyphsvg/typeset"
)

// MIMEType is the media type of the markup produced by this package.
const MIMEType = "image/svg+xml"

// Options controls the appearance of exported markup.
type Options struct {
	// Stroke is the outline color.
	Stroke string

	// StrokeWidth is the outline width, including its unit.
	StrokeWidth string

	// Precision is the number of decimals kept in path coordinates.
	Precision int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Stroke:      "#000",
		StrokeWidth: "0.25mm",
		Precision:   3,
	}
}

// Markup returns the SVG document for m.
func Markup(m *typeset.Model, opts Options) string {
	var b bytes.Buffer
	// bytes.Buffer writes cannot fail.
	_ = Write(&b, m, opts)
	return b.String()
}

// Write writes the SVG document for m to w.
func Write(w io.Writer, m *typeset.Model, opts Options) error {
	if opts.Precision <= 0 {
		opts.Precision = DefaultOptions().Precision
	}
	if opts.Stroke == "" {
		opts.Stroke = DefaultOptions().Stroke
	}
	if opts.StrokeWidth == "" {
		opts.StrokeWidth = DefaultOptions().StrokeWidth
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	x0, y0, vw, vh := viewBox(m.Bounds())
	canvas.Startview(vw, vh, x0, y0, vw, vh)
	canvas.Group(
		`id="svgGroup"`,
		`stroke-linecap="round"`,
		`fill-rule="evenodd"`,
		`font-size="9pt"`,
		`stroke="`+opts.Stroke+`"`,
		`stroke-width="`+opts.StrokeWidth+`"`,
		`fill="none"`,
		`style="stroke:`+opts.Stroke+`;stroke-width:`+opts.StrokeWidth+`;fill:none"`,
	)
	for _, layer := range m.Layers() {
		if layer != "" {
			canvas.Gid(layer)
		}
		for _, g := range m.Glyphs {
			if g.Layer != layer {
				continue
			}
			canvas.Path(PathData(g.Path, opts.Precision), `vector-effect="non-scaling-stroke"`)
		}
		if layer != "" {
			canvas.Gend()
		}
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

// PathData returns the SVG path data ("d" attribute) for p.
func PathData(p *outline.Path, precision int) string {
	var sb strings.Builder
	num := func(v float64) {
		sb.WriteString(formatCoord(v, precision))
	}
	pt := func(cmd string, pts ...outline.Point) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(cmd)
		for _, q := range pts {
			sb.WriteByte(' ')
			num(q.X)
			sb.WriteByte(' ')
			num(q.Y)
		}
	}
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case outline.MoveTo:
			pt("M", e.Point)
		case outline.LineTo:
			pt("L", e.Point)
		case outline.QuadTo:
			pt("Q", e.Control, e.Point)
		case outline.CubicTo:
			pt("C", e.Control1, e.Control2, e.Point)
		case outline.Close:
			pt("Z")
		}
	}
	return sb.String()
}

// formatCoord rounds v to precision decimals and drops trailing zeros.
func formatCoord(v float64, precision int) string {
	scale := math.Pow(10, float64(precision))
	v = math.Round(v*scale) / scale
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// viewBox returns an integer view box enclosing r.
func viewBox(r outline.Rect) (x, y, w, h int) {
	if r.IsEmpty() {
		return 0, 0, 0, 0
	}
	x = int(math.Floor(r.Min.X))
	y = int(math.Floor(r.Min.Y))
	w = int(math.Ceil(r.Max.X)) - x
	h = int(math.Ceil(r.Max.Y)) - y
	return x, y, w, h
}

// errWriter records the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
