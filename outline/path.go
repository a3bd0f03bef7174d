package outline

// Element represents a single element in a path.
type Element interface {
	isElement()
}

// MoveTo starts a new subpath at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isElement() {}

// Path is a sequence of subpaths. A subpath may be closed or open; open
// subpaths appear in union results where an outline was cut.
type Path struct {
	elements []Element
	start    Point
	current  Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{elements: make([]Element, 0, 16)}
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line from the current point.
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadTo draws a quadratic Bezier curve from the current point.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve from the current point.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{Control1: Pt(c1x, c1y), Control2: Pt(c2x, c2y), Point: pt})
	p.current = pt
}

// Close closes the current subpath back to its start point.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the path elements. The slice must not be modified.
func (p *Path) Elements() []Element {
	return p.elements
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.elements) == 0
}

// CurrentPoint returns the current pen position.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Translate returns a copy of the path moved by (dx, dy).
func (p *Path) Translate(dx, dy float64) *Path {
	d := Pt(dx, dy)
	out := &Path{
		elements: make([]Element, len(p.elements)),
		start:    p.start.Add(d),
		current:  p.current.Add(d),
	}
	for i, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			out.elements[i] = MoveTo{Point: e.Point.Add(d)}
		case LineTo:
			out.elements[i] = LineTo{Point: e.Point.Add(d)}
		case QuadTo:
			out.elements[i] = QuadTo{Control: e.Control.Add(d), Point: e.Point.Add(d)}
		case CubicTo:
			out.elements[i] = CubicTo{Control1: e.Control1.Add(d), Control2: e.Control2.Add(d), Point: e.Point.Add(d)}
		case Close:
			out.elements[i] = e
		}
	}
	return out
}

// Bounds returns the tight bounding box of the path, including curve
// extrema. An empty path has an empty Rect.
func (p *Path) Bounds() Rect {
	r := EmptyRect()
	if p == nil {
		return r
	}
	var current Point
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			r = r.Extend(e.Point)
			current = e.Point
		case LineTo:
			r = r.Extend(e.Point)
			current = e.Point
		case QuadTo:
			r = r.Union(QuadBez{P0: current, P1: e.Control, P2: e.Point}.BoundingBox())
			current = e.Point
		case CubicTo:
			r = r.Union(CubicBez{P0: current, P1: e.Control1, P2: e.Control2, P3: e.Point}.BoundingBox())
			current = e.Point
		}
	}
	return r
}

// Append adds all elements of other to p.
func (p *Path) Append(other *Path) {
	if other.IsEmpty() {
		return
	}
	p.elements = append(p.elements, other.elements...)
	p.start = other.start
	p.current = other.current
}
