package outline

import (
	"math"
	"sort"
)

// eps is the geometric tolerance used when splitting and joining edges.
const eps = 1e-9

// edgeEps is the distance within which a piece counts as lying on an
// edge of another input.
const edgeEps = 1e-7

// shape is one flattened input of Union.
type shape struct {
	index  int
	lines  []Polyline
	bounds Rect
}

// Union merges overlapping outlines. Each input path is flattened with
// tolerance, cut wherever it crosses another input, and the pieces lying
// inside any other input are dropped. The result has one path per input,
// in input order; a path that overlaps nothing comes back flattened but
// otherwise unchanged.
//
// Edges shared by two inputs are kept once, by the earlier input, when
// they run the same way, and removed from both when they run opposite
// ways, as where two outlines touch.
//
// Union does not resolve overlaps within a single input.
func Union(paths []*Path, tolerance float64) []*Path {
	shapes := make([]shape, len(paths))
	for i, p := range paths {
		lines := p.Flatten(tolerance)
		b := EmptyRect()
		for _, pl := range lines {
			for _, pt := range pl.Points {
				b = b.Extend(pt)
			}
		}
		shapes[i] = shape{index: i, lines: lines, bounds: b}
	}

	out := make([]*Path, len(paths))
	for i := range shapes {
		var others []*shape
		for j := range shapes {
			if j != i && shapes[i].bounds.Overlaps(shapes[j].bounds) {
				others = append(others, &shapes[j])
			}
		}
		if len(others) == 0 {
			out[i] = FromPolylines(shapes[i].lines)
			continue
		}
		res := NewPath()
		for _, pl := range shapes[i].lines {
			clipPolyline(res, i, pl, others)
		}
		out[i] = res
	}
	return out
}

// clipPolyline appends to dst the parts of pl, a polyline of input i, that
// belong to the union boundary.
func clipPolyline(dst *Path, i int, pl Polyline, others []*shape) {
	pts := pl.Points
	n := len(pts)
	edges := n - 1
	if pl.Closed {
		edges = n
	}

	var (
		pieces  [][2]Point
		dropped bool
	)
	for k := 0; k < edges; k++ {
		a, b := pts[k], pts[(k+1)%n]
		if a.Near(b, eps) {
			continue
		}
		ts := []float64{0, 1}
		for _, o := range others {
			ts = appendCrossings(ts, a, b, o.lines)
		}
		sort.Float64s(ts)

		for m := 1; m < len(ts); m++ {
			t0, t1 := ts[m-1], ts[m]
			if t1-t0 < eps {
				continue
			}
			p0, p1 := a.Lerp(b, t0), a.Lerp(b, t1)
			if !keepPiece(i, p0, p1, others) {
				dropped = true
				continue
			}
			pieces = append(pieces, [2]Point{p0, p1})
		}
	}

	if len(pieces) == 0 {
		return
	}
	if !dropped && pl.Closed {
		dst.Append(FromPolylines([]Polyline{pl}))
		return
	}

	pen := Pt(math.NaN(), math.NaN())
	for _, piece := range pieces {
		if !pen.Near(piece[0], eps) {
			dst.MoveTo(piece[0].X, piece[0].Y)
		}
		dst.LineTo(piece[1].X, piece[1].Y)
		pen = piece[1]
	}
}

// appendCrossings appends the parameters along a-b where it crosses an
// edge of lines.
func appendCrossings(ts []float64, a, b Point, lines []Polyline) []float64 {
	r := b.Sub(a)
	for _, pl := range lines {
		n := len(pl.Points)
		for i := 0; i < n; i++ {
			c, d := pl.Points[i], pl.Points[(i+1)%n]
			s := d.Sub(c)
			denom := r.Cross(s)
			if math.Abs(denom) < eps {
				ts = appendCollinear(ts, a, r, c, d)
				continue
			}
			ac := c.Sub(a)
			t := ac.Cross(s) / denom
			u := ac.Cross(r) / denom
			if t > 0 && t < 1 && u >= 0 && u <= 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

// appendCollinear appends the parameters along a-b (r = b-a) of the
// endpoints of c-d when both segments lie on the same line.
func appendCollinear(ts []float64, a, r, c, d Point) []float64 {
	rr := r.Dot(r)
	if rr < eps || math.Abs(c.Sub(a).Cross(r)) > edgeEps*math.Sqrt(rr) {
		return ts
	}
	for _, p := range [2]Point{c, d} {
		if t := p.Sub(a).Dot(r) / rr; t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

// keepPiece reports whether the piece p0-p1 of input i is part of the
// union boundary.
func keepPiece(i int, p0, p1 Point, others []*shape) bool {
	mid := p0.Lerp(p1, 0.5)
	dir := p1.Sub(p0)
	for _, o := range others {
		switch sharedEdge(o.lines, mid, dir) {
		case 1:
			if o.index < i {
				return false
			}
		case -1:
			return false
		default:
			if Winding(o.lines, mid) != 0 {
				return false
			}
		}
	}
	return true
}

// sharedEdge reports whether the piece through mid with direction dir lies
// on an edge of lines: 1 when that edge runs the same way, -1 when it runs
// the opposite way, 0 when the piece is on no edge.
func sharedEdge(lines []Polyline, mid, dir Point) int {
	dlen := math.Hypot(dir.X, dir.Y)
	if dlen < eps {
		return 0
	}
	for _, pl := range lines {
		n := len(pl.Points)
		if n < 2 {
			continue
		}
		for k := 0; k < n; k++ {
			c, d := pl.Points[k], pl.Points[(k+1)%n]
			s := d.Sub(c)
			slen := math.Hypot(s.X, s.Y)
			if slen < eps {
				continue
			}
			if math.Abs(dir.Cross(s)) > edgeEps*dlen*slen {
				continue
			}
			mc := mid.Sub(c)
			if math.Abs(s.Cross(mc)) > edgeEps*slen {
				continue
			}
			if u := mc.Dot(s) / (slen * slen); u <= 0 || u >= 1 {
				continue
			}
			if dir.Dot(s) > 0 {
				return 1
			}
			return -1
		}
	}
	return 0
}
