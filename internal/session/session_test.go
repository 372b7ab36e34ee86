package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/polyfill/internal/draw"
	"github.com/tomz197/polyfill/internal/geom"
	"github.com/tomz197/polyfill/internal/polygon"
)

var (
	purple = geom.RGB(111, 0, 171)
	yellow = geom.RGB(255, 255, 0)
	cyan   = geom.RGB(0, 255, 255)
)

func newTestSession() *Session {
	return New(Options{
		FillColor:    purple,
		EdgeColor:    yellow,
		EdgeWidth:    2,
		EdgesVisible: true,
	})
}

func place(s *Session, points ...geom.Point) {
	for _, p := range points {
		s.OnPrimaryClick(p.X, p.Y)
	}
}

func TestCommitPolygon(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4), geom.Pt(0, 4))
	assert.Equal(t, Drawing, s.State())
	assert.Zero(t, s.Len())

	s.OnFinalizeKey()
	assert.Equal(t, Idle, s.State())
	require.Equal(t, 1, s.Len())

	p, err := s.Polygon(0)
	require.NoError(t, err)
	assert.Equal(t, purple, p.Color)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4), geom.Pt(0, 4)}, p.Vertices)
}

func TestFinalizeShortDraftDiscards(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0))
	s.OnFinalizeKey()

	assert.Zero(t, s.Len())
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.DraftVertices())
}

func TestRepeatedClicksDoNotCommit(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(5, 5), geom.Pt(5, 5), geom.Pt(5, 5))
	assert.Len(t, s.DraftVertices(), 1)
	s.OnFinalizeKey()
	assert.Zero(t, s.Len())

	// A draft that revisits its first point still has only two distinct vertices.
	place(s, geom.Pt(5, 5), geom.Pt(9, 5), geom.Pt(5, 5))
	s.OnFinalizeKey()
	assert.Zero(t, s.Len())

	_, ok := s.QuerySelection(5, 5)
	assert.False(t, ok)
	assert.Empty(t, s.RenderFrame())
}

func TestCancelDiscardsDraft(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4))
	s.OnCancelKey()

	assert.Equal(t, Idle, s.State())
	assert.Zero(t, s.Len())
	assert.Empty(t, s.RenderFrame())
}

func TestToggleEdgesKeepsDraft(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0))
	s.OnToggleEdgesKey()

	assert.False(t, s.EdgesVisible())
	assert.Equal(t, Drawing, s.State())
	assert.Len(t, s.DraftVertices(), 2)

	s.OnToggleEdgesKey()
	assert.True(t, s.EdgesVisible())
}

func TestSelectionFirstMatch(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10))
	s.OnFinalizeKey()
	place(s, geom.Pt(5, 5), geom.Pt(20, 5), geom.Pt(20, 20), geom.Pt(5, 20))
	s.OnFinalizeKey()

	i, ok := s.OnSecondaryClick(7, 7)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = s.QuerySelection(15, 15)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.QuerySelection(100, 100)
	assert.False(t, ok)
	_, ok = s.Selection()
	assert.False(t, ok, "a miss clears the selection")
}

func TestApplyRecolor(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4))
	s.OnFinalizeKey()
	before, _ := s.Polygon(0)

	i, ok := s.QuerySelection(3, 1)
	require.True(t, ok)
	require.NoError(t, s.ApplyRecolor(i, cyan))

	after, _ := s.Polygon(0)
	assert.Equal(t, cyan, after.Color)
	assert.Equal(t, before.Vertices, after.Vertices)
	_, ok = s.Selection()
	assert.False(t, ok, "selection cleared after recolor")
}

func TestApplyDeleteAndStaleSelection(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4))
	s.OnFinalizeKey()
	place(s, geom.Pt(10, 10), geom.Pt(14, 10), geom.Pt(14, 14))
	s.OnFinalizeKey()
	second, _ := s.Polygon(1)

	i, ok := s.QuerySelection(13, 11)
	require.True(t, ok)
	require.Equal(t, 1, i)

	require.NoError(t, s.ApplyDelete(0))
	_, ok = s.Selection()
	assert.False(t, ok)

	// The held index 1 no longer names anything.
	err := s.ApplyRecolor(i, cyan)
	require.ErrorIs(t, err, polygon.ErrIndexOutOfRange)
	err = s.ApplyDelete(i)
	require.ErrorIs(t, err, polygon.ErrIndexOutOfRange)

	require.Equal(t, 1, s.Len())
	remaining, _ := s.Polygon(0)
	assert.Equal(t, second, remaining)
}

func TestSelectionRevalidated(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4))
	s.OnFinalizeKey()
	place(s, geom.Pt(10, 10), geom.Pt(14, 10), geom.Pt(14, 14))
	s.OnFinalizeKey()

	_, ok := s.QuerySelection(13, 11)
	require.True(t, ok)

	// Deleting through Dispatch clears; a store that shrinks under an old
	// selection must not report it either.
	s.selected, s.hasSelected = 1, true
	require.NoError(t, s.store.Delete(1))
	_, ok = s.Selection()
	assert.False(t, ok)
}

func TestDispatchReplay(t *testing.T) {
	events := []Event{
		PlacePoint{Point: geom.Pt(0, 0)},
		PlacePoint{Point: geom.Pt(4, 0)},
		PlacePoint{Point: geom.Pt(4, 4)},
		PlacePoint{Point: geom.Pt(0, 4)},
		Finalize{},
		PlacePoint{Point: geom.Pt(20, 20)},
		PlacePoint{Point: geom.Pt(24, 20)},
		Cancel{},
		ToggleEdges{},
		SelectAt{Point: geom.Pt(2, 2)},
		Recolor{Index: 0, Color: cyan},
	}

	a, b := newTestSession(), newTestSession()
	for _, ev := range events {
		require.NoError(t, a.Dispatch(ev))
		require.NoError(t, b.Dispatch(ev))
	}
	assert.Equal(t, a.RenderFrame(), b.RenderFrame())

	var want []draw.Instruction
	for y := 0; y <= 4; y++ {
		want = append(want, draw.FillInstruction(draw.Span{Y: y, XStart: 0, XEnd: 4, Color: cyan}))
	}
	assert.Equal(t, want, a.RenderFrame(), "edges hidden, one recolored square")
}

func TestDispatchErrors(t *testing.T) {
	s := newTestSession()
	require.ErrorIs(t, s.Dispatch(nil), ErrUnknownEvent)
	require.ErrorIs(t, s.Dispatch(Delete{Index: 0}), polygon.ErrIndexOutOfRange)
	require.ErrorIs(t, s.Dispatch(Recolor{Index: -1}), polygon.ErrIndexOutOfRange)
}

func TestRenderFrameOrder(t *testing.T) {
	s := newTestSession()
	square := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4), geom.Pt(0, 4)}
	place(s, square...)
	s.OnFinalizeKey()
	place(s, geom.Pt(10, 0), geom.Pt(12, 0), geom.Pt(12, 2))

	frame := s.RenderFrame()

	// Draft: 3 spans + stroke, then the square: 5 spans + stroke.
	require.Len(t, frame, 3+1+5+1)
	kinds := make([]draw.InstructionKind, len(frame))
	for i, in := range frame {
		kinds[i] = in.Kind
	}
	assert.Equal(t, []draw.InstructionKind{
		draw.FillSpan, draw.FillSpan, draw.FillSpan, draw.StrokeLoop,
		draw.FillSpan, draw.FillSpan, draw.FillSpan, draw.FillSpan, draw.FillSpan, draw.StrokeLoop,
	}, kinds)

	assert.Equal(t, purple, frame[0].Span.Color, "draft uses the default fill")
	assert.Equal(t, 10, frame[0].Span.XStart)

	stroke := frame[len(frame)-1].Stroke
	assert.Equal(t, square, stroke.Vertices)
	assert.Equal(t, yellow, stroke.Color)
	assert.Equal(t, 2, stroke.Width)
}

func TestRenderFrameDraftNeedsThreeVertices(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0))
	assert.Empty(t, s.RenderFrame())

	s.OnPrimaryClick(0, 4)
	assert.NotEmpty(t, s.RenderFrame())
}

func TestAppendFrameReusesBuffer(t *testing.T) {
	s := newTestSession()
	place(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4))
	s.OnFinalizeKey()

	buf := make([]draw.Instruction, 0, 64)
	frame := s.AppendFrame(buf[:0])
	assert.Equal(t, s.RenderFrame(), frame)
}
