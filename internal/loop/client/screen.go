package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/polyfill/internal/config"
	"github.com/tomz197/polyfill/internal/draw"
	"github.com/tomz197/polyfill/internal/geom"
	loopconfig "github.com/tomz197/polyfill/internal/loop/config"
	"github.com/tomz197/polyfill/internal/session"
)

const helpText = "left click: point  enter: close  esc: cancel  right click: edit  a: edges  q: quit"

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	cw := c.chunkWriter
	if c.state.needsClear {
		cw.WriteString("\033[H\033[2J")
		c.state.needsClear = false
	}

	if c.state.termWidth < loopconfig.MinTerminalWidth || c.state.termHeight < loopconfig.MinTerminalHeight {
		cw.WriteAt(1, 1, "terminal too small")
		return cw.Flush()
	}

	c.canvas.Clear()
	c.frame = c.session.AppendFrame(c.frame[:0])
	draw.Apply(c.canvas, c.frame)
	c.drawDraft()

	// Canvas rows are rewritten in full, so overlays from the previous
	// frame never persist.
	c.canvas.Render(cw)

	c.drawSelectionLabel()
	c.drawOverlay()
	c.drawStatusBar()

	return cw.Flush()
}

// drawDraft draws the open path through the draft vertices with a marker on
// each vertex.
func (c *Client) drawDraft() {
	if c.session.State() != session.Drawing {
		return
	}
	vertices := c.session.DraftVertices()
	for i := 1; i < len(vertices); i++ {
		for p := range draw.Line(vertices[i-1], vertices[i]) {
			c.canvas.SetPixel(p.X, p.Y, c.theme.Edge)
		}
	}

	const s = loopconfig.DraftMarkerSize
	for _, v := range vertices {
		for dy := -s; dy <= s; dy++ {
			for dx := -s; dx <= s; dx++ {
				c.canvas.SetPixel(v.X+dx, v.Y+dy, c.theme.Edge)
			}
		}
	}
}

// drawSelectionLabel writes "#n" over the selected polygon.
func (c *Client) drawSelectionLabel() {
	index, ok := c.session.Selection()
	if !ok {
		return
	}
	p, err := c.session.Polygon(index)
	if err != nil {
		return
	}

	label := c.styles.label.Render(fmt.Sprintf("#%d", index+1))
	col, row := c.canvas.PixelToCell(geom.Centroid(p.Vertices))
	col -= lipgloss.Width(label) / 2
	col = clamp(col, 1, c.canvas.TerminalWidth()-lipgloss.Width(label)+1)
	row = clamp(row, 1, c.canvas.TerminalHeight())
	c.chunkWriter.WriteAt(col, row, label)
}

// drawOverlay draws the box for the current mode, if any.
func (c *Client) drawOverlay() {
	switch {
	case c.state.Mode == ModeShutdown:
		remaining := int(c.state.shutdownTimer) + 1
		c.drawCenteredBox([]string{
			c.styles.title.Render("SERVER SHUTTING DOWN"),
			"",
			"Please reconnect in a moment.",
			fmt.Sprintf("Disconnecting in %d seconds...", remaining),
			"Press Q to disconnect now",
		})
	case c.state.isInactive:
		remaining := int(loopconfig.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
		c.drawCenteredBox([]string{
			c.styles.title.Render("INACTIVITY WARNING"),
			"",
			fmt.Sprintf("You will be disconnected in %d seconds.", max(remaining, 0)),
			"Press any key to continue",
		})
	case c.state.Mode == ModeMenu:
		c.drawAnchoredBox(c.menuLines())
	case c.state.Mode == ModePalette:
		c.drawAnchoredBox(c.paletteLines())
	}
}

// menuLines returns the context menu content, indexed by the menuLine constants.
func (c *Client) menuLines() []string {
	index, _ := c.session.Selection()
	k := c.styles.key.Render
	lines := make([]string, menuLineClose+1)
	lines[menuLineTitle] = c.styles.title.Render(fmt.Sprintf("Polygon #%d", index+1))
	lines[menuLineColor] = k("1 c") + "  Change color"
	lines[menuLineDelete] = k("2 d") + "  Delete"
	lines[menuLineClose] = k("esc") + "  Close"
	return lines
}

// paletteLines returns the title followed by one line per palette entry.
func (c *Client) paletteLines() []string {
	index, _ := c.session.Selection()
	lines := []string{c.styles.title.Render(fmt.Sprintf("Color for #%d", index+1))}
	for i, color := range c.theme.Palette {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			c.styles.key.Render(fmt.Sprint(i+1)), c.styles.swatch(color), config.ColorName(color)))
	}
	return append(lines, c.styles.key.Render("esc")+" Back")
}

// drawAnchoredBox draws lines in a box next to the requested menu position.
func (c *Client) drawAnchoredBox(lines []string) {
	c.drawBox(lines, c.state.menuCol, c.state.menuRow)
}

// drawCenteredBox draws lines in a box centered on the canvas.
func (c *Client) drawCenteredBox(lines []string) {
	box := c.styles.box.Render(strings.Join(lines, "\n"))
	col := (c.canvas.TerminalWidth()-lipgloss.Width(box))/2 + 1
	row := (c.canvas.TerminalHeight()-lipgloss.Height(box))/2 + 1
	c.writeBox(box, col, row)
}

func (c *Client) drawBox(lines []string, col, row int) {
	c.writeBox(c.styles.box.Render(strings.Join(lines, "\n")), col, row)
}

// writeBox clamps a rendered box into the canvas area, writes it and
// remembers where it went for mouse hit tests.
func (c *Client) writeBox(box string, col, row int) {
	width, height := lipgloss.Width(box), lipgloss.Height(box)
	col = clamp(col, 1, c.canvas.TerminalWidth()-width+1)
	row = clamp(row, 1, c.canvas.TerminalHeight()-height+1)
	c.chunkWriter.WriteLinesAt(col, row, box)
	c.state.box = boxRect{col: col, row: row, width: width, height: height}
}

// drawStatusBar writes the single status row below the canvas.
func (c *Client) drawStatusBar() {
	mode := c.styles.mode.Render(c.state.Mode.String())

	parts := []string{fmt.Sprintf("%d polygons", c.session.Len())}
	if c.session.State() == session.Drawing {
		parts = append(parts, fmt.Sprintf("draft %d pts", len(c.session.DraftVertices())))
	}
	if c.session.EdgesVisible() {
		parts = append(parts, "edges on")
	} else {
		parts = append(parts, "edges off")
	}
	parts = append(parts, fmt.Sprintf("%d online", c.registry.Count()))
	if name := c.handle.Username; name != "" {
		if len(name) > loopconfig.MaxUsernameLength {
			name = name[:loopconfig.MaxUsernameLength]
		}
		parts = append(parts, name)
	}

	msg := c.state.message
	if msg == "" && c.state.Mode == ModeCanvas {
		msg = helpText
	}
	if msg != "" {
		parts = append(parts, msg)
	}

	infoWidth := max(c.state.termWidth-lipgloss.Width(mode), 0)
	info := c.styles.bar.
		Width(infoWidth).
		MaxWidth(infoWidth).
		MaxHeight(1).
		Render(" " + strings.Join(parts, " | "))

	row := c.canvas.TerminalHeight() + 1
	c.chunkWriter.WriteAt(1, row, lipgloss.JoinHorizontal(lipgloss.Top, mode, info))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
