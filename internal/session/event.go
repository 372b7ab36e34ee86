package session

import "github.com/tomz197/polyfill/internal/geom"

// Event is an input to Session.Dispatch. It is one of PlacePoint, Finalize,
// ToggleEdges, Cancel, SelectAt, Recolor or Delete.
type Event interface {
	event()
}

// PlacePoint adds a vertex to the draft, starting one if needed.
type PlacePoint struct {
	Point geom.Point
}

// Finalize commits the draft when it has at least 3 vertices.
type Finalize struct{}

// ToggleEdges flips edge visibility for every polygon.
type ToggleEdges struct{}

// Cancel discards the draft.
type Cancel struct{}

// SelectAt selects the first stored polygon containing Point.
type SelectAt struct {
	Point geom.Point
}

// Recolor sets the fill color of the polygon at Index.
type Recolor struct {
	Index int
	Color geom.Color
}

// Delete removes the polygon at Index.
type Delete struct {
	Index int
}

func (PlacePoint) event()  {}
func (Finalize) event()    {}
func (ToggleEdges) event() {}
func (Cancel) event()      {}
func (SelectAt) event()    {}
func (Recolor) event()     {}
func (Delete) event()      {}
