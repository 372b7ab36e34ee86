package draw

import (
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/tomz197/polyfill/internal/geom"
)

// Canvas is a color pixel buffer with 2x vertical resolution, rendered with
// half-block characters: the top pixel of a cell is the foreground of '▀'
// and the bottom pixel its background.
type Canvas struct {
	termWidth      int          // Actual terminal columns
	termHeight     int          // Terminal rows used by the canvas
	subPixelHeight int          // termHeight * 2
	pixels         []geom.Color // Flat slice: [y * termWidth + x]
	painted        []bool       // Whether pixels[i] was set since the last Clear

	profile    termenv.Profile
	background *geom.Color // nil leaves unpainted pixels to the terminal

	// Reusable buffers to reduce allocations
	renderBuf strings.Builder
	fgSeq     map[geom.Color]string
	bgSeq     map[geom.Color]string
}

// NewCanvas creates a canvas covering width columns and height rows.
// Pixel coordinates run from (0,0) to (width-1, height*2-1).
func NewCanvas(width, height int, profile termenv.Profile) *Canvas {
	c := &Canvas{
		profile: profile,
		fgSeq:   make(map[geom.Color]string),
		bgSeq:   make(map[geom.Color]string),
	}
	c.Resize(width, height)
	return c
}

// Resize updates the canvas for new terminal dimensions. Contents are lost
// when the size actually changes.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return
	}
	subPixelHeight := termHeight * 2
	c.pixels = make([]geom.Color, subPixelHeight*termWidth)
	c.painted = make([]bool, subPixelHeight*termWidth)
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = subPixelHeight
}

// SetBackground sets the color of unpainted pixels. nil means the terminal's
// own background.
func (c *Canvas) SetBackground(bg *geom.Color) {
	c.background = bg
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.painted)
}

// SetPixel sets a pixel. Out of range coordinates are ignored.
func (c *Canvas) SetPixel(x, y int, color geom.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = color
		c.painted[i] = true
	}
}

// FillSpan sets every pixel of s, clipped to the canvas.
func (c *Canvas) FillSpan(s Span) {
	if s.Y < 0 || s.Y >= c.subPixelHeight {
		return
	}
	start := max(s.XStart, 0)
	end := min(s.XEnd, c.termWidth-1)
	row := s.Y * c.termWidth
	for x := start; x <= end; x++ {
		c.pixels[row+x] = s.Color
		c.painted[row+x] = true
	}
}

// At returns the color of a pixel and whether it was painted since the last
// Clear.
func (c *Canvas) At(x, y int) (geom.Color, bool) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return geom.Color{}, false
	}
	i := y*c.termWidth + x
	return c.pixels[i], c.painted[i]
}

// Ensure Canvas can receive instructions.
var _ Target = (*Canvas)(nil)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical 1500 byte MTU for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes every cell of the canvas to w. Rows are rewritten in full
// each frame, so nothing from the previous frame survives.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 16)

	for row := 0; row < c.termHeight; row++ {
		c.renderBuf.WriteString("\033[")
		c.renderBuf.WriteString(strconv.Itoa(row + 1))
		c.renderBuf.WriteString(";1H")

		prev := ""
		for col := 0; col < c.termWidth; col++ {
			top, topOK := c.cellPixel(col, row*2)
			bottom, bottomOK := c.cellPixel(col, row*2+1)
			seq, ch := c.cellStyle(top, topOK, bottom, bottomOK)
			if seq != prev {
				c.renderBuf.WriteString(seq)
				prev = seq
			}
			c.renderBuf.WriteRune(ch)
		}
		c.renderBuf.WriteString(resetSeq)
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

const resetSeq = termenv.CSI + termenv.ResetSeq + "m"

// cellPixel returns the pixel color, falling back to the background.
func (c *Canvas) cellPixel(x, y int) (geom.Color, bool) {
	color, ok := c.At(x, y)
	if !ok && c.background != nil {
		return *c.background, true
	}
	return color, ok
}

// cellStyle picks the SGR sequence and block character for one cell.
func (c *Canvas) cellStyle(top geom.Color, topOK bool, bottom geom.Color, bottomOK bool) (string, rune) {
	switch {
	case topOK && bottomOK && top == bottom:
		return c.sgr(c.fg(top), ""), BlockFull
	case topOK && bottomOK:
		return c.sgr(c.fg(top), c.bg(bottom)), BlockUpperHalf
	case topOK:
		return c.sgr(c.fg(top), ""), BlockUpperHalf
	case bottomOK:
		return c.sgr(c.fg(bottom), ""), BlockLowerHalf
	default:
		return resetSeq, BlockEmpty
	}
}

func (c *Canvas) sgr(fg, bg string) string {
	seq := termenv.CSI + termenv.ResetSeq
	if fg != "" {
		seq += ";" + fg
	}
	if bg != "" {
		seq += ";" + bg
	}
	return seq + "m"
}

func (c *Canvas) fg(color geom.Color) string {
	seq, ok := c.fgSeq[color]
	if !ok {
		seq = c.profile.Color(color.Hex()).Sequence(false)
		c.fgSeq[color] = seq
	}
	return seq
}

func (c *Canvas) bg(color geom.Color) string {
	seq, ok := c.bgSeq[color]
	if !ok {
		seq = c.profile.Color(color.Hex()).Sequence(true)
		c.bgSeq[color] = seq
	}
	return seq
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.termWidth
}

// Height returns the canvas height in pixels (twice the terminal rows).
func (c *Canvas) Height() int {
	return c.subPixelHeight
}

// TerminalWidth returns the terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count covered by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// CellToPixel converts a 1-based terminal position to the pixel under the
// top half of that cell.
func (c *Canvas) CellToPixel(col, row int) geom.Point {
	return geom.Point{X: col - 1, Y: (row - 1) * 2}
}

// PixelToCell converts pixel coordinates to a 1-based terminal position.
// This is useful for placing text overlays on canvas-drawn shapes.
func (c *Canvas) PixelToCell(p geom.Point) (col, row int) {
	return p.X + 1, p.Y/2 + 1
}
