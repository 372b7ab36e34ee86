package draw

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/polyfill/internal/geom"
)

func TestCanvasApply(t *testing.T) {
	c := NewCanvas(10, 5, termenv.Ascii)
	yellow := geom.RGB(255, 255, 0)
	square := []geom.Point{geom.Pt(1, 1), geom.Pt(5, 1), geom.Pt(5, 5), geom.Pt(1, 5)}

	var frame []Instruction
	for s := range Fill(square, purple) {
		frame = append(frame, FillInstruction(s))
	}
	frame = append(frame, StrokeInstruction(square, yellow, 1))
	Apply(c, frame)

	got, ok := c.At(3, 3)
	require.True(t, ok)
	assert.Equal(t, purple, got, "interior keeps the fill")

	got, ok = c.At(1, 3)
	require.True(t, ok)
	assert.Equal(t, yellow, got, "stroke paints over the fill")

	_, ok = c.At(7, 7)
	assert.False(t, ok)

	c.Clear()
	_, ok = c.At(3, 3)
	assert.False(t, ok)
}

func TestCanvasClipsSpans(t *testing.T) {
	c := NewCanvas(4, 1, termenv.Ascii)
	c.FillSpan(Span{Y: 1, XStart: -5, XEnd: 10, Color: purple})
	c.FillSpan(Span{Y: 2, XStart: 0, XEnd: 3, Color: purple})
	c.FillSpan(Span{Y: -1, XStart: 0, XEnd: 3, Color: purple})

	for x := 0; x < 4; x++ {
		_, ok := c.At(x, 1)
		assert.True(t, ok)
		_, ok = c.At(x, 0)
		assert.False(t, ok)
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 1, termenv.Ascii)
	c.SetPixel(0, 0, purple)
	c.SetPixel(1, 0, purple)
	c.SetPixel(1, 1, purple)

	var sb strings.Builder
	c.Render(&sb)
	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "\033[1;1H"))
	assert.Contains(t, out, "▀")
	assert.Contains(t, out, "█")
	assert.True(t, strings.HasSuffix(out, "\033[0m"))
}

func TestCanvasRenderTrueColor(t *testing.T) {
	c := NewCanvas(1, 1, termenv.TrueColor)
	c.SetPixel(0, 0, geom.RGB(255, 0, 0))
	c.SetPixel(0, 1, geom.RGB(0, 0, 255))

	var sb strings.Builder
	c.Render(&sb)
	assert.Contains(t, sb.String(), "38;2;255;0;0")
	assert.Contains(t, sb.String(), "48;2;0;0;255")
}

func TestCanvasBackground(t *testing.T) {
	c := NewCanvas(2, 1, termenv.TrueColor)
	white := geom.RGB(255, 255, 255)
	c.SetBackground(&white)

	var sb strings.Builder
	c.Render(&sb)
	assert.Contains(t, sb.String(), "38;2;255;255;255")
	assert.NotContains(t, sb.String(), " ")
}

func TestCanvasCoordinates(t *testing.T) {
	c := NewCanvas(80, 24, termenv.Ascii)
	assert.Equal(t, 80, c.Width())
	assert.Equal(t, 48, c.Height())

	p := c.CellToPixel(5, 3)
	assert.Equal(t, geom.Pt(4, 4), p)
	col, row := c.PixelToCell(p)
	assert.Equal(t, 5, col)
	assert.Equal(t, 3, row)
}

// writeSizes records the length of every Write call.
type writeSizes []int

func (w *writeSizes) Write(p []byte) (int, error) {
	*w = append(*w, len(p))
	return len(p), nil
}

func TestCanvasRenderChunks(t *testing.T) {
	c := NewCanvas(120, 40, termenv.TrueColor)
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			c.SetPixel(x, y, geom.RGB(uint8(x), uint8(y), uint8(x+y)))
		}
	}

	var sizes writeSizes
	c.Render(&sizes)
	require.Greater(t, len(sizes), 1)
	for _, n := range sizes {
		assert.LessOrEqual(t, n, maxChunkSize)
	}
	assert.Equal(t, 1400, maxChunkSize)
}
