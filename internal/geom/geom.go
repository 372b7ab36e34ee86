// Package geom holds the integer geometry shared by the fill engine,
// the hit tester and the polygon store.
package geom

// Point is a 2D integer coordinate in canvas pixels.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Color is an 8-bit RGB triple. There is no alpha channel.
type Color struct {
	R, G, B uint8
}

// RGB is shorthand for Color{R: r, G: g, B: b}.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Rect is an axis-aligned bounding box. Min and Max are both inclusive.
type Rect struct {
	Min, Max Point
}

// Width returns Max.X - Min.X.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns Max.Y - Min.Y. Zero means the vertices share one scanline.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Bounds returns the bounding box of vertices.
// The zero Rect is returned for an empty slice.
func Bounds(vertices []Point) Rect {
	if len(vertices) == 0 {
		return Rect{}
	}
	r := Rect{Min: vertices[0], Max: vertices[0]}
	for _, p := range vertices[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	const digits = "0123456789abcdef"
	b := [7]byte{'#'}
	for i, v := range [3]uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b[:])
}
