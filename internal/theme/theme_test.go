package theme

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/janekbaraniewski/claude-powerline/internal/config"
)

var paletteKeys = []string{
	"directory", "git", "model", "session", "block", "today", "tmux", "context",
	KeyContextWarning, KeyContextCritical, "metrics", "version", "usageLimit", KeyUsageLimitWarning,
}

func TestBuiltinPalettesAreComplete(t *testing.T) {
	for _, name := range config.Themes {
		p := Get(name, nil)
		for _, key := range paletteKeys {
			c, ok := p[key]
			if assert.True(t, ok, "%s: missing %s", name, key) {
				assert.NotEmpty(t, c.Bg, "%s/%s bg", name, key)
				assert.NotEmpty(t, c.Fg, "%s/%s fg", name, key)
			}
		}
	}
}

func TestGet(t *testing.T) {
	assert.Equal(t, Colors{Bg: "#8b4513", Fg: "#ffffff"}, Get(config.ThemeDark, nil)["directory"])
	assert.Equal(t, Colors{Bg: "#504945", Fg: "#ebdbb2"}, Get(config.ThemeGruvbox, nil)["directory"])
	assert.Equal(t, lipgloss.Color("#81A1C1"), Get(config.ThemeNord, nil)["directory"].Bg)
	assert.Equal(t, Get(config.ThemeDark, nil), Get("unknown", nil))
}

func TestGet_ReturnsCopies(t *testing.T) {
	p := Get(config.ThemeDark, nil)
	p["directory"] = Colors{Bg: "#000000", Fg: "#000000"}
	assert.Equal(t, lipgloss.Color("#8b4513"), Get(config.ThemeDark, nil)["directory"].Bg)
}

func TestGet_Custom(t *testing.T) {
	p := Get(config.ThemeCustom, map[string]config.SegmentColor{
		"directory":  {Bg: " #112233 ", Fg: ""},
		"usageLimit": {Fg: "#abcdef"},
		"extra":      {Bg: "#010101", Fg: "#020202"},
	})

	assert.Equal(t, Colors{Bg: "#112233", Fg: "#ffffff"}, p["directory"])
	assert.Equal(t, Colors{Bg: "#1e3a5f", Fg: "#abcdef"}, p["usageLimit"])
	assert.Equal(t, Colors{Bg: "#010101", Fg: "#020202"}, p["extra"])
	assert.Equal(t, dark["model"], p["model"])
	assert.Equal(t, lipgloss.Color("#8b4513"), dark["directory"].Bg, "built-in table untouched")
}

func TestPalette_For(t *testing.T) {
	p := Get(config.ThemeDark, nil)
	assert.Equal(t, p["usageLimit"], p.For("usageLimit"))
	assert.Equal(t, p["directory"], p.For("nope"))
}

func TestProfile(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, termenv.ANSI, Profile(config.ColorANSI, &buf))
	assert.Equal(t, termenv.ANSI256, Profile(config.ColorANSI256, &buf))
	assert.Equal(t, termenv.TrueColor, Profile(config.ColorTrueColor, &buf))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, Profile(config.ColorAuto, &buf))
}
