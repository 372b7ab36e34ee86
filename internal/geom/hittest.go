package geom

// Contains reports whether p lies inside the polygon described by vertices
// using the even-odd rule: a ray cast from p towards +x is counted against
// every edge and an odd number of crossings means inside.
//
// Points exactly on an edge or a vertex are reported as inside.
// Fewer than 3 vertices never contain anything.
func Contains(vertices []Point, p Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	if !Bounds(vertices).Contains(p) {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]

		if onSegment(vi, vj, p) {
			return true
		}

		// Half-open in y so a ray through a shared vertex is counted once.
		if (vi.Y > p.Y) == (vj.Y > p.Y) {
			continue
		}

		// p.X < xIntersect, cross-multiplied to stay in integers.
		dy := vj.Y - vi.Y
		lhs := (p.X - vi.X) * dy
		rhs := (vj.X - vi.X) * (p.Y - vi.Y)
		if (dy > 0 && lhs < rhs) || (dy < 0 && lhs > rhs) {
			inside = !inside
		}
	}
	return inside
}

// onSegment reports whether p lies on the closed segment a-b.
func onSegment(a, b, p Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// Centroid returns the integer mean of the vertices.
// It is inside any convex polygon; callers use it as a label anchor.
func Centroid(vertices []Point) Point {
	if len(vertices) == 0 {
		return Point{}
	}
	var sx, sy int
	for _, p := range vertices {
		sx += p.X
		sy += p.Y
	}
	return Point{X: sx / len(vertices), Y: sy / len(vertices)}
}
