// Package theme holds the built-in segment palettes and resolves the
// configured color compatibility mode to a terminal color profile.
package theme

import (
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/janekbaraniewski/claude-powerline/internal/config"
)

// Palette keys that are not segment names.
const (
	KeyContextWarning    = "contextWarning"
	KeyContextCritical   = "contextCritical"
	KeyUsageLimitWarning = "usageLimitWarning"
)

// Colors is the background/foreground pair for one segment.
type Colors struct {
	Bg lipgloss.Color
	Fg lipgloss.Color
}

// Palette maps segment names (and the warning keys above) to colors.
type Palette map[string]Colors

// For returns the colors for key, falling back to the directory colors.
func (p Palette) For(key string) Colors {
	if c, ok := p[key]; ok {
		return c
	}
	return p[config.SegmentDirectory]
}

// Get returns the palette for the named theme. "custom" starts from dark and
// overlays the non-empty entries of custom. Unknown names resolve to dark.
func Get(name string, custom map[string]config.SegmentColor) Palette {
	if name == config.ThemeCustom {
		return overlay(builtin(config.ThemeDark), custom)
	}
	return builtin(name)
}

func builtin(name string) Palette {
	var p Palette
	switch name {
	case config.ThemeGruvbox:
		p = gruvbox
	case config.ThemeRosePine:
		p = rosePine
	case config.ThemeNord:
		p = fromTokens(nord)
	case config.ThemeTokyoNight:
		p = fromTokens(tokyoNight)
	case config.ThemeLight:
		p = fromTokens(light)
	default:
		p = dark
	}
	return maps.Clone(p)
}

func trimColor(s string) lipgloss.Color {
	return lipgloss.Color(strings.TrimSpace(s))
}

func overlay(base Palette, custom map[string]config.SegmentColor) Palette {
	for key, c := range custom {
		cur := base[key]
		if bg := trimColor(c.Bg); bg != "" {
			cur.Bg = bg
		}
		if fg := trimColor(c.Fg); fg != "" {
			cur.Fg = fg
		}
		base[key] = cur
	}
	return base
}

// Profile maps a colorCompatibility mode to a termenv profile. "auto" inspects
// the environment the way termenv does for w, without requiring w to be a
// terminal: Claude Code reads the status line through a pipe.
func Profile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case config.ColorANSI:
		return termenv.ANSI
	case config.ColorANSI256:
		return termenv.ANSI256
	case config.ColorTrueColor:
		return termenv.TrueColor
	}
	return termenv.NewOutput(w, termenv.WithUnsafe()).EnvColorProfile()
}
