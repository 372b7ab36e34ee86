package draw

import (
	"iter"
	"slices"

	"github.com/tomz197/polyfill/internal/geom"
)

// Span is a horizontal run of pixels (XStart..XEnd, Y), both ends inclusive,
// to be set to Color.
type Span struct {
	Y      int
	XStart int
	XEnd   int
	Color  geom.Color
}

// Width returns XEnd - XStart. A single-pixel span has width 0.
func (s Span) Width() int {
	return s.XEnd - s.XStart
}

// Fill enumerates the filled spans of the closed polygon described by
// vertices using the even-odd scanline rule.
//
// Spans come out in increasing Y and, within a scanline, increasing X.
// The sequence is lazy and can be ranged over any number of times.
// Fewer than 3 vertices, or vertices that all share one Y, yield nothing.
func Fill(vertices []geom.Point, color geom.Color) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if len(vertices) < 3 {
			return
		}
		bounds := geom.Bounds(vertices)
		if bounds.Height() == 0 {
			return
		}

		var intersections []int
		for y := bounds.Min.Y; y <= bounds.Max.Y; y++ {
			intersections = scanlineIntersections(intersections[:0], vertices, y, y == bounds.Max.Y)
			slices.Sort(intersections)

			// An odd trailing intersection is dropped.
			for i := 0; i+1 < len(intersections); i += 2 {
				span := Span{Y: y, XStart: intersections[i], XEnd: intersections[i+1], Color: color}
				if !yield(span) {
					return
				}
			}
		}
	}
}

// Spans collects Fill into a slice.
func Spans(vertices []geom.Point, color geom.Color) []Span {
	return slices.Collect(Fill(vertices, color))
}

// scanlineIntersections appends the x-intersections of scanline y with every
// non-horizontal edge to dst.
//
// An edge covers the half-open range [lowY, highY), so a vertex shared by two
// edges is counted once. On the last scanline of the polygon the range is
// closed at highY; no vertex there can be a pass-through vertex.
func scanlineIntersections(dst []int, vertices []geom.Point, y int, last bool) []int {
	n := len(vertices)
	for i := 0; i < n; i++ {
		p1 := vertices[i]
		p2 := vertices[(i+1)%n]
		if p1.Y == p2.Y {
			continue
		}

		lowY, highY := min(p1.Y, p2.Y), max(p1.Y, p2.Y)
		if y < lowY || y > highY || (y == highY && !last) {
			continue
		}

		// Truncated toward zero like the integer conversion of the float result.
		x := float64(p1.X) + float64(y-p1.Y)*float64(p2.X-p1.X)/float64(p2.Y-p1.Y)
		dst = append(dst, int(x))
	}
	return dst
}
