package client

import (
	"fmt"
	"slices"

	"github.com/tomz197/polyfill/internal/config"
	"github.com/tomz197/polyfill/internal/geom"
	"github.com/tomz197/polyfill/internal/input"
	"github.com/tomz197/polyfill/internal/polygon"
	"github.com/tomz197/polyfill/internal/session"
)

// Content lines of the context menu box.
const (
	menuLineTitle = iota
	menuLineColor
	menuLineDelete
	menuLineClose
)

// handleEvent routes one input event by mode. Ctrl-C quits from anywhere.
func (c *Client) handleEvent(ev input.Event) {
	if ev.Key == input.KeyInterrupt {
		c.state.Running = false
		return
	}

	switch c.state.Mode {
	case ModeCanvas:
		c.handleCanvasEvent(ev)
	case ModeMenu:
		c.handleMenuEvent(ev)
	case ModePalette:
		c.handlePaletteEvent(ev)
	case ModeShutdown:
		if isRune(ev, 'q') {
			c.state.Running = false
		}
	}
}

func (c *Client) handleCanvasEvent(ev input.Event) {
	switch {
	case ev.Key == input.KeyMouse:
		p, ok := c.mouseToPixel(ev)
		if !ok {
			return
		}
		switch ev.Button {
		case input.ButtonLeft:
			c.session.OnPrimaryClick(p.X, p.Y)
		case input.ButtonRight:
			c.selectAt(ev, p)
		}
	case ev.Key == input.KeyEnter || ev.Key == input.KeySpace:
		c.finalize()
	case ev.Key == input.KeyEscape:
		if c.session.State() == session.Drawing {
			c.session.OnCancelKey()
			c.setMessage("draft cancelled")
		}
	case isRune(ev, 'a'):
		c.session.OnToggleEdgesKey()
		if c.session.EdgesVisible() {
			c.setMessage("edges shown")
		} else {
			c.setMessage("edges hidden")
		}
	case isRune(ev, 'q'):
		c.state.Running = false
	}
}

// finalize commits the draft and reports the outcome.
func (c *Client) finalize() {
	if c.session.State() != session.Drawing {
		return
	}
	placed := len(c.session.DraftVertices())
	before := c.session.Len()
	c.session.OnFinalizeKey()

	if c.session.Len() > before {
		c.setMessage(fmt.Sprintf("polygon #%d added", c.session.Len()))
	} else {
		c.setMessage(fmt.Sprintf("draft discarded: %d placed, %d distinct vertices needed", placed, polygon.MinVertices))
	}
}

// selectAt selects the polygon under p and opens its menu next to the click.
func (c *Client) selectAt(ev input.Event, p geom.Point) {
	index, ok := c.session.OnSecondaryClick(p.X, p.Y)
	if !ok {
		c.setMessage("no polygon here")
		return
	}
	c.openBox(ModeMenu, ev.Col+1, ev.Row)
	c.setMessage(fmt.Sprintf("polygon #%d selected", index+1))
}

func (c *Client) handleMenuEvent(ev input.Event) {
	index, ok := c.session.Selection()
	if !ok {
		c.closeBox()
		return
	}

	line := -1
	switch {
	case ev.Key == input.KeyEscape || ev.Key == input.KeyBackspace:
		line = menuLineClose
	case isRune(ev, 'c', '1'):
		line = menuLineColor
	case isRune(ev, 'd', 'x', '2'):
		line = menuLineDelete
	case ev.Key == input.KeyMouse:
		if line = c.boxLineAt(ev); line < 0 {
			line = menuLineClose
		}
	}

	switch line {
	case menuLineColor:
		c.openBox(ModePalette, c.state.menuCol, c.state.menuRow)
	case menuLineDelete:
		if err := c.session.ApplyDelete(index); err != nil {
			c.report(err)
		} else {
			c.setMessage(fmt.Sprintf("polygon #%d deleted", index+1))
		}
		c.closeBox()
	case menuLineClose:
		c.closeBox()
	}
}

func (c *Client) handlePaletteEvent(ev input.Event) {
	index, ok := c.session.Selection()
	if !ok {
		c.closeBox()
		return
	}

	entry := -1
	switch {
	case ev.Key == input.KeyEscape || ev.Key == input.KeyBackspace:
		c.closeBox()
		return
	case ev.Key == input.KeyRune && ev.Rune >= '1' && ev.Rune <= '9':
		entry = int(ev.Rune - '1')
	case ev.Key == input.KeyMouse:
		line := c.boxLineAt(ev)
		if line < 0 {
			c.closeBox()
			return
		}
		// Line 0 is the title.
		entry = line - 1
	}
	if entry < 0 || entry >= len(c.theme.Palette) {
		return
	}

	color := c.theme.Palette[entry]
	if err := c.session.ApplyRecolor(index, color); err != nil {
		c.report(err)
	} else {
		c.setMessage(fmt.Sprintf("polygon #%d is now %s", index+1, config.ColorName(color)))
	}
	c.closeBox()
}

// openBox switches to an overlay mode with its box anchored at (col, row).
func (c *Client) openBox(mode Mode, col, row int) {
	c.state.Mode = mode
	c.state.menuCol = col
	c.state.menuRow = row
}

// closeBox drops the selection and returns to the canvas.
func (c *Client) closeBox() {
	c.session.ClearSelection()
	c.state.Mode = ModeCanvas
}

// boxLineAt returns the content line of the last drawn box under a mouse
// press, or -1 when the press is outside the box content.
func (c *Client) boxLineAt(ev input.Event) int {
	b := c.state.box
	if ev.Col <= b.col || ev.Col >= b.col+b.width-1 {
		return -1
	}
	line := ev.Row - b.row - 1
	if line < 0 || line >= b.height-2 {
		return -1
	}
	return line
}

// isRune reports whether ev is one of runes, ignoring ASCII case.
func isRune(ev input.Event, runes ...byte) bool {
	if ev.Key != input.KeyRune {
		return false
	}
	r := ev.Rune
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	return slices.Contains(runes, r)
}
