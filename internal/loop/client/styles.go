package client

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tomz197/polyfill/internal/geom"
)

// styles are the lipgloss styles of the status bar and overlay boxes,
// bound to the connection's own renderer and color profile.
type styles struct {
	renderer *lipgloss.Renderer
	mode     lipgloss.Style
	bar      lipgloss.Style
	box      lipgloss.Style
	title    lipgloss.Style
	key      lipgloss.Style
	label    lipgloss.Style
}

func newStyles(w io.Writer, profile termenv.Profile, accent geom.Color) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	accentColor := lipgloss.Color(accent.Hex())
	return styles{
		renderer: r,
		mode: r.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).
			Background(accentColor),
		bar: r.NewStyle().
			Foreground(lipgloss.Color("#d0d0d0")).
			Background(lipgloss.Color("#303030")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1),
		title: r.NewStyle().Bold(true),
		key:   r.NewStyle().Bold(true).Foreground(accentColor),
		label: r.NewStyle().Bold(true).Reverse(true),
	}
}

// swatch renders a two-cell sample of c.
func (s styles) swatch(c geom.Color) string {
	return s.renderer.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
}
