package draw

import (
	"iter"

	"github.com/tomz197/polyfill/internal/geom"
)

// Stroke is a closed polyline: every vertex connects to the next and the
// last one back to the first.
type Stroke struct {
	Vertices []geom.Point
	Color    geom.Color
	Width    int
}

// Pixels enumerates the pixels covered by the stroke. Each point of the
// Bresenham line is stamped with a Width x Width square pen. Pixels where
// edges meet are visited more than once.
func (s Stroke) Pixels() iter.Seq[geom.Point] {
	return func(yield func(geom.Point) bool) {
		n := len(s.Vertices)
		if n < 2 {
			return
		}
		w := max(s.Width, 1)
		lo := -(w - 1) / 2
		hi := lo + w - 1

		for i := 0; i < n; i++ {
			for p := range Line(s.Vertices[i], s.Vertices[(i+1)%n]) {
				for dy := lo; dy <= hi; dy++ {
					for dx := lo; dx <= hi; dx++ {
						if !yield(geom.Point{X: p.X + dx, Y: p.Y + dy}) {
							return
						}
					}
				}
			}
		}
	}
}

// Line enumerates the pixels of the segment p1-p2 using Bresenham's
// algorithm, both endpoints included.
func Line(p1, p2 geom.Point) iter.Seq[geom.Point] {
	return func(yield func(geom.Point) bool) {
		x1, y1 := p1.X, p1.Y
		x2, y2 := p2.X, p2.Y

		dx := abs(x2 - x1)
		dy := abs(y2 - y1)

		sx := 1
		if x1 > x2 {
			sx = -1
		}
		sy := 1
		if y1 > y2 {
			sy = -1
		}

		err := dx - dy

		for {
			if !yield(geom.Point{X: x1, Y: y1}) {
				return
			}

			if x1 == x2 && y1 == y2 {
				return
			}

			e2 := 2 * err
			if e2 > -dy {
				err -= dy
				x1 += sx
			}
			if e2 < dx {
				err += dx
				y1 += sy
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
