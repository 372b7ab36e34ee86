// Package polygon keeps the committed polygons of an editing session.
package polygon

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
	"github.com/tomz197/polyfill/internal/geom"
)

// MinVertices is the smallest vertex count a stored polygon can have.
const MinVertices = 3

// ErrIndexOutOfRange is returned when an index does not name a stored
// polygon, typically because a selection went stale after a delete.
var ErrIndexOutOfRange = errors.New("polygon index out of range")

// Polygon is a committed, filled polygon.
type Polygon struct {
	ID       uuid.UUID
	Vertices []geom.Point // Edge i joins vertex i to vertex (i+1) % len
	Color    geom.Color
}

func (p Polygon) clone() Polygon {
	p.Vertices = slices.Clone(p.Vertices)
	return p
}

// Store is an ordered list of polygons. Insertion order is both the render
// order (later polygons are drawn on top) and the hit-test order (earlier
// polygons win).
//
// A Store is not safe for concurrent use.
type Store struct {
	polygons []Polygon
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of stored polygons.
func (s *Store) Len() int {
	return len(s.polygons)
}

// Append adds a polygon at the end of the store. vertices is copied.
// With fewer than MinVertices distinct vertices nothing is stored and ok is
// false.
func (s *Store) Append(vertices []geom.Point, color geom.Color) (p Polygon, ok bool) {
	if distinct(vertices, MinVertices) < MinVertices {
		return Polygon{}, false
	}
	p = Polygon{
		ID:       uuid.New(),
		Vertices: slices.Clone(vertices),
		Color:    color,
	}
	s.polygons = append(s.polygons, p)
	return p.clone(), true
}

// At returns a copy of the polygon at index.
func (s *Store) At(index int) (Polygon, error) {
	if err := s.check(index); err != nil {
		return Polygon{}, err
	}
	return s.polygons[index].clone(), nil
}

// Recolor replaces the color of the polygon at index. Vertices are kept.
func (s *Store) Recolor(index int, color geom.Color) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.polygons[index].Color = color
	return nil
}

// Delete removes the polygon at index. Later polygons move down by one, so
// any index held for them is stale afterwards.
func (s *Store) Delete(index int) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.polygons = slices.Delete(s.polygons, index, index+1)
	return nil
}

// All iterates over the polygons in store order. The yielded values are
// copies; changing them does not affect the store.
func (s *Store) All() iter.Seq2[int, Polygon] {
	return func(yield func(int, Polygon) bool) {
		for i, p := range s.polygons {
			if !yield(i, p.clone()) {
				return
			}
		}
	}
}

// HitTest returns the index of the first polygon, in store order, that
// contains p. Boundary points count as inside.
func (s *Store) HitTest(p geom.Point) (int, bool) {
	for i, poly := range s.polygons {
		if geom.Contains(poly.Vertices, p) {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) check(index int) error {
	if index < 0 || index >= len(s.polygons) {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, index, len(s.polygons))
	}
	return nil
}

// distinct counts the distinct points in vertices, stopping at limit.
func distinct(vertices []geom.Point, limit int) int {
	seen := make([]geom.Point, 0, limit)
	for _, v := range vertices {
		if !slices.Contains(seen, v) {
			seen = append(seen, v)
			if len(seen) == limit {
				break
			}
		}
	}
	return len(seen)
}
