package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/polyfill/internal/geom"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned by ParseColor for names it cannot resolve.
var ErrUnknownColor = errors.New("unknown color")

// ParseColor resolves a CSS/SVG color name ("rebeccapurple") or a hex
// triplet ("#6f00ab", "#fa0").
func ParseColor(s string) (geom.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return geom.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
		}
		r, g, b := c.RGB255()
		return geom.RGB(r, g, b), nil
	}
	if c, ok := colornames.Map[name]; ok {
		return geom.RGB(c.R, c.G, c.B), nil
	}
	return geom.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// DefaultPalette returns n evenly spaced hues, starting at red.
func DefaultPalette(n int) []string {
	palette := make([]string, 0, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(n)
		palette = append(palette, colorful.Hsv(hue, 0.85, 0.95).Clamped().Hex())
	}
	return palette
}

// ColorName returns the SVG name of c when it has one, otherwise its hex
// form. It is used for labels in the color picker.
func ColorName(c geom.Color) string {
	for _, name := range colornames.Names {
		if v := colornames.Map[name]; v.R == c.R && v.G == c.G && v.B == c.B {
			return name
		}
	}
	return c.Hex()
}
