// Package session holds the state of one editing session: the committed
// polygons, the draft being authored, the shared edge visibility flag and
// the current selection. Every change goes through Dispatch, so a recorded
// event list replays to the same frame.
package session

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/charmbracelet/log"
	"github.com/tomz197/polyfill/internal/geom"
	"github.com/tomz197/polyfill/internal/polygon"
)

// ErrUnknownEvent is returned by Dispatch for a nil event.
var ErrUnknownEvent = errors.New("unknown event")

// Options configures a Session.
type Options struct {
	FillColor    geom.Color // Color of newly committed polygons
	EdgeColor    geom.Color // Stroke color of every polygon's edges
	EdgeWidth    int        // Stroke width in pixels
	EdgesVisible bool       // Initial state of the shared edge flag
	Logger       *log.Logger
}

// Session is a single editor's state. It is not safe for concurrent use;
// the owner serializes events.
type Session struct {
	store        *polygon.Store
	draft        Draft
	edgesVisible bool
	fillColor    geom.Color
	edgeColor    geom.Color
	edgeWidth    int

	selected    int
	hasSelected bool

	logger *log.Logger
}

// New creates an empty session.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		store:        polygon.NewStore(),
		edgesVisible: opts.EdgesVisible,
		fillColor:    opts.FillColor,
		edgeColor:    opts.EdgeColor,
		edgeWidth:    max(opts.EdgeWidth, 1),
		logger:       logger,
	}
}

// Dispatch applies one event. Only Recolor and Delete can fail, with
// polygon.ErrIndexOutOfRange, and they leave the store unchanged when they do.
func (s *Session) Dispatch(ev Event) error {
	switch ev := ev.(type) {
	case PlacePoint:
		if !s.draft.PlacePoint(ev.Point) {
			s.logger.Debug("repeated vertex dropped", "x", ev.Point.X, "y", ev.Point.Y)
		}
	case Finalize:
		s.finalize()
	case ToggleEdges:
		s.edgesVisible = !s.edgesVisible
		s.logger.Debug("edges toggled", "visible", s.edgesVisible)
	case Cancel:
		if s.draft.Cancel() {
			s.logger.Debug("draft cancelled")
		}
	case SelectAt:
		s.selectAt(ev.Point)
	case Recolor:
		return s.recolor(ev.Index, ev.Color)
	case Delete:
		return s.delete(ev.Index)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	return nil
}

func (s *Session) finalize() {
	if s.draft.State() != Drawing {
		return
	}
	vertices, ok := s.draft.Finalize()
	if !ok {
		s.logger.Debug("draft discarded, too few vertices")
		return
	}
	p, ok := s.store.Append(vertices, s.fillColor)
	if !ok {
		s.logger.Debug("draft discarded, too few distinct vertices")
		return
	}
	s.logger.Debug("polygon committed", "id", p.ID, "index", s.store.Len()-1, "vertices", len(p.Vertices))
}

func (s *Session) selectAt(p geom.Point) {
	s.selected, s.hasSelected = s.store.HitTest(p)
	if s.hasSelected {
		s.logger.Debug("polygon selected", "index", s.selected, "x", p.X, "y", p.Y)
	}
}

func (s *Session) recolor(index int, color geom.Color) error {
	if err := s.store.Recolor(index, color); err != nil {
		return fmt.Errorf("recolor: %w", err)
	}
	s.ClearSelection()
	s.logger.Debug("polygon recolored", "index", index, "color", color.Hex())
	return nil
}

func (s *Session) delete(index int) error {
	if err := s.store.Delete(index); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	s.ClearSelection()
	s.logger.Debug("polygon deleted", "index", index, "remaining", s.store.Len())
	return nil
}

// OnPrimaryClick places a draft vertex at (x, y).
func (s *Session) OnPrimaryClick(x, y int) {
	_ = s.Dispatch(PlacePoint{Point: geom.Pt(x, y)})
}

// OnSecondaryClick selects the polygon under (x, y), if any.
func (s *Session) OnSecondaryClick(x, y int) (int, bool) {
	return s.QuerySelection(x, y)
}

// OnFinalizeKey commits or discards the draft.
func (s *Session) OnFinalizeKey() {
	_ = s.Dispatch(Finalize{})
}

// OnToggleEdgesKey flips the shared edge visibility flag.
func (s *Session) OnToggleEdgesKey() {
	_ = s.Dispatch(ToggleEdges{})
}

// OnCancelKey discards the draft.
func (s *Session) OnCancelKey() {
	_ = s.Dispatch(Cancel{})
}

// QuerySelection hit-tests (x, y) against the stored polygons, oldest first,
// and remembers the result as the current selection.
func (s *Session) QuerySelection(x, y int) (int, bool) {
	_ = s.Dispatch(SelectAt{Point: geom.Pt(x, y)})
	return s.Selection()
}

// ApplyRecolor sets the color of the polygon at index and clears the selection.
func (s *Session) ApplyRecolor(index int, color geom.Color) error {
	return s.Dispatch(Recolor{Index: index, Color: color})
}

// ApplyDelete removes the polygon at index and clears the selection.
func (s *Session) ApplyDelete(index int) error {
	return s.Dispatch(Delete{Index: index})
}

// Selection returns the selected index. It is re-validated against the
// current store, so a selection made stale by a delete reports false.
func (s *Session) Selection() (int, bool) {
	if !s.hasSelected || s.selected < 0 || s.selected >= s.store.Len() {
		return -1, false
	}
	return s.selected, true
}

// ClearSelection forgets the current selection.
func (s *Session) ClearSelection() {
	s.selected, s.hasSelected = -1, false
}

// State returns the draft's authoring state.
func (s *Session) State() State {
	return s.draft.State()
}

// DraftVertices returns a copy of the draft's vertices.
func (s *Session) DraftVertices() []geom.Point {
	return s.draft.Vertices()
}

// EdgesVisible reports the shared edge visibility flag.
func (s *Session) EdgesVisible() bool {
	return s.edgesVisible
}

// FillColor returns the color given to newly committed polygons.
func (s *Session) FillColor() geom.Color {
	return s.fillColor
}

// Len returns the number of committed polygons.
func (s *Session) Len() int {
	return s.store.Len()
}

// Polygon returns a copy of the committed polygon at index.
func (s *Session) Polygon(index int) (polygon.Polygon, error) {
	return s.store.At(index)
}

// Polygons iterates over the committed polygons in store order.
func (s *Session) Polygons() iter.Seq2[int, polygon.Polygon] {
	return s.store.All()
}
