package session

import (
	"github.com/tomz197/polyfill/internal/draw"
	"github.com/tomz197/polyfill/internal/geom"
	"github.com/tomz197/polyfill/internal/polygon"
)

// RenderFrame returns the draw instructions for the current state.
func (s *Session) RenderFrame() []draw.Instruction {
	return s.AppendFrame(nil)
}

// AppendFrame appends the draw instructions for the current state to dst.
//
// The draft comes first, once it has enough vertices, filled with the
// default color. Stored polygons follow in store order so newer ones paint
// over older ones. Each polygon is its fill spans followed, when edges are
// visible, by one closed stroke.
func (s *Session) AppendFrame(dst []draw.Instruction) []draw.Instruction {
	if s.draft.State() == Drawing && s.draft.Len() >= polygon.MinVertices {
		dst = s.appendPolygon(dst, s.draft.Vertices(), s.fillColor)
	}
	for _, p := range s.store.All() {
		dst = s.appendPolygon(dst, p.Vertices, p.Color)
	}
	return dst
}

func (s *Session) appendPolygon(dst []draw.Instruction, vertices []geom.Point, color geom.Color) []draw.Instruction {
	for span := range draw.Fill(vertices, color) {
		dst = append(dst, draw.FillInstruction(span))
	}
	if s.edgesVisible {
		dst = append(dst, draw.StrokeInstruction(vertices, s.edgeColor, s.edgeWidth))
	}
	return dst
}
