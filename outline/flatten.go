package outline

// DefaultTolerance is the flattening tolerance used when a caller passes a
// non-positive value, in output units.
const DefaultTolerance = 0.1

// Polyline is one flattened subpath.
type Polyline struct {
	Points []Point
	Closed bool
}

// Flatten converts every subpath to a polyline. tolerance is the maximum
// distance between a curve and its approximating segments.
func (p *Path) Flatten(tolerance float64) []Polyline {
	if p.IsEmpty() {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	tolSq := tolerance * tolerance

	var (
		result  []Polyline
		cur     *Polyline
		current Point
	)
	finish := func() {
		if cur != nil && len(cur.Points) > 1 {
			result = append(result, *cur)
		}
		cur = nil
	}
	emit := func(pt Point) {
		if cur == nil {
			cur = &Polyline{Points: []Point{current}}
		}
		cur.Points = append(cur.Points, pt)
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			finish()
			current = e.Point
			cur = &Polyline{Points: []Point{e.Point}}
		case LineTo:
			emit(e.Point)
			current = e.Point
		case QuadTo:
			flattenQuad(QuadBez{P0: current, P1: e.Control, P2: e.Point}, tolSq, maxDepth, emit)
			current = e.Point
		case CubicTo:
			flattenCubic(CubicBez{P0: current, P1: e.Control1, P2: e.Control2, P3: e.Point}, tolSq, maxDepth, emit)
			current = e.Point
		case Close:
			if cur != nil {
				cur.Closed = true
				current = cur.Points[0]
			}
			finish()
		}
	}
	finish()
	return result
}

// Linearize returns a copy of the path with every curve replaced by line
// segments within tolerance.
func (p *Path) Linearize(tolerance float64) *Path {
	return FromPolylines(p.Flatten(tolerance))
}

// FromPolylines builds a path from polylines, closing the closed ones.
func FromPolylines(lines []Polyline) *Path {
	out := NewPath()
	for _, pl := range lines {
		if len(pl.Points) == 0 {
			continue
		}
		out.MoveTo(pl.Points[0].X, pl.Points[0].Y)
		pts := pl.Points[1:]
		if pl.Closed && len(pts) > 0 && pts[len(pts)-1] == pl.Points[0] {
			pts = pts[:len(pts)-1]
		}
		for _, pt := range pts {
			out.LineTo(pt.X, pt.Y)
		}
		if pl.Closed {
			out.Close()
		}
	}
	return out
}

// maxDepth bounds curve subdivision at 2^16 segments per curve.
const maxDepth = 16

// flattenQuad flattens a quadratic Bezier curve by recursive subdivision.
// The start point is not emitted.
func flattenQuad(q QuadBez, toleranceSq float64, depth int, fn func(Point)) {
	mid := q.P0.Lerp(q.P2, 0.5)
	d := q.P1.Sub(mid)
	if depth == 0 || d.X*d.X+d.Y*d.Y <= toleranceSq {
		fn(q.P2)
		return
	}
	q1, q2 := q.Subdivide()
	flattenQuad(q1, toleranceSq, depth-1, fn)
	flattenQuad(q2, toleranceSq, depth-1, fn)
}

// flattenCubic flattens a cubic Bezier curve by recursive subdivision.
// The start point is not emitted.
func flattenCubic(c CubicBez, toleranceSq float64, depth int, fn func(Point)) {
	if depth == 0 || c.flatness() <= toleranceSq*16 {
		fn(c.P3)
		return
	}
	c1, c2 := c.Subdivide()
	flattenCubic(c1, toleranceSq, depth-1, fn)
	flattenCubic(c2, toleranceSq, depth-1, fn)
}
