package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/polyfill/internal/geom"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Color
		wantErr bool
	}{
		{"#6f00ab", geom.RGB(111, 0, 171), false},
		{"#FFFF00", geom.RGB(255, 255, 0), false},
		{"#fa0", geom.RGB(255, 170, 0), false},
		{"white", geom.RGB(255, 255, 255), false},
		{" MediumPurple ", geom.RGB(147, 112, 219), false},
		{"#12", geom.Color{}, true},
		{"not-a-color", geom.Color{}, true},
		{"", geom.Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPalette(t *testing.T) {
	palette := DefaultPalette(MaxPaletteSize)
	require.Len(t, palette, MaxPaletteSize)

	seen := map[string]bool{}
	for _, hex := range palette {
		_, err := ParseColor(hex)
		require.NoError(t, err)
		assert.False(t, seen[hex], "duplicate %s", hex)
		seen[hex] = true
	}

	first, _ := ParseColor(palette[0])
	assert.Greater(t, first.R, first.G, "palette starts at red")
}

func TestColorName(t *testing.T) {
	assert.Equal(t, "red", ColorName(geom.RGB(255, 0, 0)))
	assert.Equal(t, "#010203", ColorName(geom.RGB(1, 2, 3)))
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Equal(t, geom.RGB(111, 0, 171), theme.Fill)
	assert.Equal(t, geom.RGB(255, 255, 0), theme.Edge)
	assert.Equal(t, 2, theme.EdgeWidth)
	require.NotNil(t, theme.Background)
	assert.Equal(t, geom.RGB(255, 255, 255), *theme.Background)
	assert.Len(t, theme.Palette, MaxPaletteSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polyfill.toml")
	content := `
fill_color = "teal"
edge_width = 3
edges_visible = false
background = "none"
palette = ["red", "#00ff00", "navy"]
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "teal", s.FillColor)
	assert.Equal(t, "#ffff00", s.EdgeColor, "unset keys keep defaults")
	assert.Equal(t, 3, s.EdgeWidth)
	assert.False(t, s.EdgesVisible)
	assert.Equal(t, "debug", s.LogLevel)

	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Nil(t, theme.Background)
	assert.Equal(t, []geom.Color{geom.RGB(255, 0, 0), geom.RGB(0, 255, 0), geom.RGB(0, 0, 128)}, theme.Palette)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POLYFILL_FILL_COLOR", "orange")
	t.Setenv("POLYFILL_EDGE_WIDTH", "4")
	t.Setenv("POLYFILL_EDGES_VISIBLE", "false")
	t.Setenv("POLYFILL_PALETTE", "red, blue,,green")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "orange", s.FillColor)
	assert.Equal(t, 4, s.EdgeWidth)
	assert.False(t, s.EdgesVisible)
	assert.Equal(t, []string{"red", "blue", "green"}, s.Palette)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad fill", `fill_color = "blurple"`, "fill_color"},
		{"bad width", `edge_width = 0`, "edge_width"},
		{"empty palette", `palette = []`, "palette"},
		{"bad palette entry", `palette = ["red", "nope"]`, "palette[1]"},
		{"bad level", `log_level = "loud"`, "log_level"},
		{"bad toml", `fill_color = `, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "polyfill.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProfile(t *testing.T) {
	detect := func() termenv.Profile { return termenv.ANSI256 }
	tests := map[string]termenv.Profile{
		"truecolor": termenv.TrueColor,
		"256":       termenv.ANSI256,
		"16":        termenv.ANSI,
		"ASCII":     termenv.Ascii,
		"auto":      termenv.ANSI256,
	}
	for name, want := range tests {
		s := Default()
		s.ColorProfile = name
		assert.Equal(t, want, s.Profile(detect), name)
	}
}

func TestNewLogger(t *testing.T) {
	s := Default()
	s.LogLevel = "debug"
	s.LogFile = filepath.Join(t.TempDir(), "polyfill.log")

	logger, closeFn, err := s.NewLogger("polyfill", nil)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger.Debug("polygon committed", "vertices", 4)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(s.LogFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "polygon committed"))
	assert.Contains(t, string(data), "vertices=4")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("POLYFILL_TEST_INT", "x")
	assert.Equal(t, 7, GetEnvInt("POLYFILL_TEST_INT", 7))
	t.Setenv("POLYFILL_TEST_INT", " 12 ")
	assert.Equal(t, 12, GetEnvInt("POLYFILL_TEST_INT", 7))

	t.Setenv("POLYFILL_TEST_BOOL", "maybe")
	assert.True(t, GetEnvBool("POLYFILL_TEST_BOOL", true))

	assert.Equal(t, "fallback", GetEnv("POLYFILL_TEST_UNSET", "fallback"))
	assert.Equal(t, []string{"a"}, GetEnvList("POLYFILL_TEST_UNSET", []string{"a"}))
}
