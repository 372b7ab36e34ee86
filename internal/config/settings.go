package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/tomz197/polyfill/internal/geom"
)

// MaxPaletteSize is the number of color picker entries reachable with the
// digit keys 1-9.
const MaxPaletteSize = 9

// Settings are the user-tunable values. They are read from defaults, then
// an optional TOML file, then POLYFILL_* environment variables.
type Settings struct {
	FillColor    string   `toml:"fill_color"`    // Color of newly committed polygons
	EdgeColor    string   `toml:"edge_color"`    // Stroke color of polygon edges
	EdgeWidth    int      `toml:"edge_width"`    // Stroke width in pixels
	EdgesVisible bool     `toml:"edges_visible"` // Initial edge visibility
	Background   string   `toml:"background"`    // Canvas background, "none" for terminal default
	Palette      []string `toml:"palette"`       // Color picker entries
	ColorProfile string   `toml:"color_profile"` // auto, truecolor, 256, 16 or ascii
	LogLevel     string   `toml:"log_level"`
	LogFile      string   `toml:"log_file"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		FillColor:    "#6f00ab",
		EdgeColor:    "#ffff00",
		EdgeWidth:    2,
		EdgesVisible: true,
		Background:   "white",
		Palette:      DefaultPalette(MaxPaletteSize),
		ColorProfile: "auto",
		LogLevel:     "info",
	}
}

// Load returns the settings for path. An empty path skips the file.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &s); err != nil {
			return Settings{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	s.applyEnv()
	if _, err := s.Theme(); err != nil {
		return Settings{}, err
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return Settings{}, fmt.Errorf("log_level: %w", err)
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	s.FillColor = GetEnv("POLYFILL_FILL_COLOR", s.FillColor)
	s.EdgeColor = GetEnv("POLYFILL_EDGE_COLOR", s.EdgeColor)
	s.EdgeWidth = GetEnvInt("POLYFILL_EDGE_WIDTH", s.EdgeWidth)
	s.EdgesVisible = GetEnvBool("POLYFILL_EDGES_VISIBLE", s.EdgesVisible)
	s.Background = GetEnv("POLYFILL_BACKGROUND", s.Background)
	s.Palette = GetEnvList("POLYFILL_PALETTE", s.Palette)
	s.ColorProfile = GetEnv("POLYFILL_COLOR_PROFILE", s.ColorProfile)
	s.LogLevel = GetEnv("POLYFILL_LOG_LEVEL", s.LogLevel)
	s.LogFile = GetEnv("POLYFILL_LOG_FILE", s.LogFile)
}

// Theme holds the parsed colors of a Settings.
type Theme struct {
	Fill       geom.Color
	Edge       geom.Color
	EdgeWidth  int
	Background *geom.Color // nil for the terminal's own background
	Palette    []geom.Color
}

// Theme parses and validates the color settings.
func (s Settings) Theme() (Theme, error) {
	var t Theme
	var err error
	if t.Fill, err = ParseColor(s.FillColor); err != nil {
		return Theme{}, fmt.Errorf("fill_color: %w", err)
	}
	if t.Edge, err = ParseColor(s.EdgeColor); err != nil {
		return Theme{}, fmt.Errorf("edge_color: %w", err)
	}
	if s.EdgeWidth < 1 || s.EdgeWidth > 8 {
		return Theme{}, fmt.Errorf("edge_width: %d not in 1..8", s.EdgeWidth)
	}
	t.EdgeWidth = s.EdgeWidth

	switch bg := strings.ToLower(strings.TrimSpace(s.Background)); bg {
	case "", "none":
	default:
		c, err := ParseColor(bg)
		if err != nil {
			return Theme{}, fmt.Errorf("background: %w", err)
		}
		t.Background = &c
	}

	if len(s.Palette) == 0 || len(s.Palette) > MaxPaletteSize {
		return Theme{}, fmt.Errorf("palette: %d entries not in 1..%d", len(s.Palette), MaxPaletteSize)
	}
	for i, name := range s.Palette {
		c, err := ParseColor(name)
		if err != nil {
			return Theme{}, fmt.Errorf("palette[%d]: %w", i, err)
		}
		t.Palette = append(t.Palette, c)
	}
	return t, nil
}

// Profile returns the terminal color profile to render with. "auto" asks
// detect, which callers point at the terminal they write to.
func (s Settings) Profile(detect func() termenv.Profile) termenv.Profile {
	switch strings.ToLower(s.ColorProfile) {
	case "truecolor", "24bit":
		return termenv.TrueColor
	case "256", "ansi256":
		return termenv.ANSI256
	case "16", "ansi":
		return termenv.ANSI
	case "ascii", "none":
		return termenv.Ascii
	default:
		return detect()
	}
}

// NewLogger builds the logger described by the settings. Output goes to
// LogFile when set, otherwise to fallback. The returned close function
// releases the file, if any.
func (s Settings) NewLogger(prefix string, fallback io.Writer) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log_level: %w", err)
	}

	out := fallback
	closeFn := func() error { return nil }
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	return logger, closeFn, nil
}
