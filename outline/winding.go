package outline

// Winding returns the winding number of pt relative to the flattened
// polylines. Open polylines are treated as implicitly closed.
// 0 = outside, non-zero = inside (non-zero fill rule).
func Winding(lines []Polyline, pt Point) int {
	var winding int
	for _, pl := range lines {
		n := len(pl.Points)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			a := pl.Points[i]
			b := pl.Points[(i+1)%n]
			winding += lineWinding(a, b, pt)
		}
	}
	return winding
}

// lineWinding computes the winding contribution of a line segment for a
// horizontal ray cast from pt to the right.
func lineWinding(p0, p1, pt Point) int {
	if p0.Y <= pt.Y && p1.Y > pt.Y {
		if isLeft(p0, p1, pt) > 0 {
			return 1
		}
	} else if p0.Y > pt.Y && p1.Y <= pt.Y {
		if isLeft(p0, p1, pt) < 0 {
			return -1
		}
	}
	return 0
}

// isLeft returns positive if pt is left of line p0-p1, negative if right, 0 if on.
func isLeft(p0, p1, pt Point) float64 {
	return (p1.X-p0.X)*(pt.Y-p0.Y) - (pt.X-p0.X)*(p1.Y-p0.Y)
}
