// Package render draws segments as a styled status line.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/janekbaraniewski/claude-powerline/internal/config"
	"github.com/janekbaraniewski/claude-powerline/internal/segment"
	"github.com/janekbaraniewski/claude-powerline/internal/theme"
)

type symbols struct {
	sep      string
	capLeft  string
	capRight string
}

var (
	unicodeSymbols = symbols{sep: "\ue0b0", capLeft: "\ue0b6", capRight: "\ue0b4"}
	textSymbols    = symbols{sep: ">", capLeft: "(", capRight: ")"}
)

// Renderer draws lines of segments in one display style.
type Renderer struct {
	style    string
	sym      symbols
	padding  string
	autoWrap bool
	width    int
	palette  theme.Palette
	lg       *lipgloss.Renderer
}

// New returns a renderer for display. Colors are degraded to profile. width
// is the terminal width used for wrapping; zero disables wrapping.
func New(profile termenv.Profile, display config.DisplayConfig, palette theme.Palette, width int) *Renderer {
	lg := lipgloss.NewRenderer(io.Discard)
	lg.SetColorProfile(profile)

	sym := unicodeSymbols
	if display.Charset == config.CharsetText {
		sym = textSymbols
	}
	return &Renderer{
		style:    display.Style,
		sym:      sym,
		padding:  strings.Repeat(" ", max(display.Padding, 0)),
		autoWrap: display.AutoWrap,
		width:    width,
		palette:  palette,
		lg:       lg,
	}
}

// Render draws every configured line, wrapping long lines when enabled.
// Lines without segments are dropped.
func (r *Renderer) Render(lines [][]segment.Segment) string {
	var out []string
	for _, line := range lines {
		for _, row := range r.wrap(line) {
			out = append(out, r.renderRow(row))
		}
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) body(s segment.Segment) string {
	return r.padding + s.Text + r.padding
}

// unitWidth is the visible width a segment adds to a row.
func (r *Renderer) unitWidth(s segment.Segment, first bool) int {
	w := ansi.StringWidth(r.body(s))
	switch r.style {
	case config.StylePowerline:
		w += ansi.StringWidth(r.sym.sep)
	case config.StyleCapsule:
		w += ansi.StringWidth(r.sym.capLeft) + ansi.StringWidth(r.sym.capRight)
		if !first {
			w++
		}
	}
	return w
}

func (r *Renderer) wrap(line []segment.Segment) [][]segment.Segment {
	if len(line) == 0 {
		return nil
	}
	if !r.autoWrap || r.width <= 0 {
		return [][]segment.Segment{line}
	}

	var rows [][]segment.Segment
	var row []segment.Segment
	used := 0
	for _, s := range line {
		w := r.unitWidth(s, len(row) == 0)
		if len(row) > 0 && used+w > r.width {
			rows = append(rows, row)
			row, used = nil, 0
			w = r.unitWidth(s, true)
		}
		row = append(row, s)
		used += w
	}
	return append(rows, row)
}

func (r *Renderer) renderRow(row []segment.Segment) string {
	var b strings.Builder
	for i, s := range row {
		c := r.palette.For(s.Key)
		body := r.lg.NewStyle().Background(c.Bg).Foreground(c.Fg).Render(r.body(s))

		switch r.style {
		case config.StylePowerline:
			sep := r.lg.NewStyle().Foreground(c.Bg)
			if i+1 < len(row) {
				sep = sep.Background(r.palette.For(row[i+1].Key).Bg)
			}
			b.WriteString(body)
			b.WriteString(sep.Render(r.sym.sep))
		case config.StyleCapsule:
			capStyle := r.lg.NewStyle().Foreground(c.Bg)
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(capStyle.Render(r.sym.capLeft))
			b.WriteString(body)
			b.WriteString(capStyle.Render(r.sym.capRight))
		default:
			b.WriteString(body)
		}
	}
	return b.String()
}
