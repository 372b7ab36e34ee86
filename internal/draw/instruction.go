package draw

import "github.com/tomz197/polyfill/internal/geom"

// InstructionKind tells a renderer which field of an Instruction to read.
type InstructionKind int

const (
	FillSpan   InstructionKind = iota // Set Span's pixels to its color
	StrokeLoop                        // Trace Stroke's closed vertex loop
)

// Instruction is one draw command of a frame. Exactly one of Span or Stroke
// is meaningful, selected by Kind.
type Instruction struct {
	Kind   InstructionKind
	Span   Span
	Stroke Stroke
}

// FillInstruction wraps a span.
func FillInstruction(s Span) Instruction {
	return Instruction{Kind: FillSpan, Span: s}
}

// StrokeInstruction wraps a closed polyline. The vertices are not copied.
func StrokeInstruction(vertices []geom.Point, color geom.Color, width int) Instruction {
	return Instruction{Kind: StrokeLoop, Stroke: Stroke{Vertices: vertices, Color: color, Width: width}}
}

// Target receives pixels from Apply.
type Target interface {
	FillSpan(s Span)
	SetPixel(x, y int, c geom.Color)
}

// Apply replays instructions onto t in order, so later instructions paint
// over earlier ones.
func Apply(t Target, instructions []Instruction) {
	for _, in := range instructions {
		switch in.Kind {
		case FillSpan:
			t.FillSpan(in.Span)
		case StrokeLoop:
			for p := range in.Stroke.Pixels() {
				t.SetPixel(p.X, p.Y, in.Stroke.Color)
			}
		}
	}
}
