package session

import (
	"slices"

	"github.com/tomz197/polyfill/internal/geom"
	"github.com/tomz197/polyfill/internal/polygon"
)

// State is the authoring state of a Draft.
type State int

const (
	Idle    State = iota // No polygon is being authored
	Drawing              // Vertices are being collected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Draft is the polygon currently being authored, vertex by vertex.
// It only becomes a stored polygon through Finalize.
type Draft struct {
	state    State
	vertices []geom.Point
}

// State returns the current authoring state.
func (d *Draft) State() State {
	return d.state
}

// Len returns the number of vertices placed so far.
func (d *Draft) Len() int {
	return len(d.vertices)
}

// Vertices returns a copy of the vertices placed so far.
func (d *Draft) Vertices() []geom.Point {
	return slices.Clone(d.vertices)
}

// PlacePoint starts a new draft with p when idle, or appends p otherwise.
// A point equal to the last placed vertex is dropped and placed is false.
func (d *Draft) PlacePoint(p geom.Point) (placed bool) {
	if d.state == Idle {
		d.state = Drawing
		d.vertices = d.vertices[:0]
	} else if n := len(d.vertices); n > 0 && d.vertices[n-1] == p {
		return false
	}
	d.vertices = append(d.vertices, p)
	return true
}

// Finalize ends the draft and returns its vertices when there are enough to
// form a polygon. Short drafts are discarded and ok is false. The draft is
// idle and empty afterwards either way.
func (d *Draft) Finalize() (vertices []geom.Point, ok bool) {
	if d.state == Drawing && len(d.vertices) >= polygon.MinVertices {
		vertices = slices.Clone(d.vertices)
		ok = true
	}
	d.reset()
	return vertices, ok
}

// Cancel discards the draft. It reports whether there was one.
func (d *Draft) Cancel() bool {
	wasDrawing := d.state == Drawing
	d.reset()
	return wasDrawing
}

func (d *Draft) reset() {
	d.state = Idle
	d.vertices = d.vertices[:0]
}
