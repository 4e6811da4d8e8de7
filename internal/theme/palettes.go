package theme

import "github.com/charmbracelet/lipgloss"

var dark = Palette{
	"directory":          {Bg: "#8b4513", Fg: "#ffffff"},
	"git":                {Bg: "#404040", Fg: "#ffffff"},
	"model":              {Bg: "#2d2d2d", Fg: "#ffffff"},
	"session":            {Bg: "#202020", Fg: "#00ffff"},
	"block":              {Bg: "#2a2a2a", Fg: "#87ceeb"},
	"today":              {Bg: "#1a1a1a", Fg: "#98fb98"},
	"tmux":               {Bg: "#2f4f2f", Fg: "#90ee90"},
	"context":            {Bg: "#4a5568", Fg: "#cbd5e0"},
	KeyContextWarning:    {Bg: "#92400e", Fg: "#fbbf24"},
	KeyContextCritical:   {Bg: "#991b1b", Fg: "#fca5a5"},
	"metrics":            {Bg: "#374151", Fg: "#d1d5db"},
	"version":            {Bg: "#3a3a4a", Fg: "#b8b8d0"},
	"usageLimit":         {Bg: "#1e3a5f", Fg: "#7dd3fc"},
	KeyUsageLimitWarning: {Bg: "#92400e", Fg: "#fbbf24"},
}

var gruvbox = Palette{
	"directory":          {Bg: "#504945", Fg: "#ebdbb2"},
	"git":                {Bg: "#3c3836", Fg: "#b8bb26"},
	"model":              {Bg: "#665c54", Fg: "#83a598"},
	"session":            {Bg: "#282828", Fg: "#8ec07c"},
	"block":              {Bg: "#3c3836", Fg: "#83a598"},
	"today":              {Bg: "#282828", Fg: "#fabd2f"},
	"tmux":               {Bg: "#282828", Fg: "#fe8019"},
	"context":            {Bg: "#458588", Fg: "#ebdbb2"},
	KeyContextWarning:    {Bg: "#d79921", Fg: "#282828"},
	KeyContextCritical:   {Bg: "#cc241d", Fg: "#ebdbb2"},
	"metrics":            {Bg: "#d3869b", Fg: "#282828"},
	"version":            {Bg: "#504945", Fg: "#8ec07c"},
	"usageLimit":         {Bg: "#458588", Fg: "#ebdbb2"},
	KeyUsageLimitWarning: {Bg: "#d79921", Fg: "#282828"},
}

var rosePine = Palette{
	"directory":          {Bg: "#26233a", Fg: "#c4a7e7"},
	"git":                {Bg: "#1f1d2e", Fg: "#9ccfd8"},
	"model":              {Bg: "#191724", Fg: "#ebbcba"},
	"session":            {Bg: "#26233a", Fg: "#f6c177"},
	"block":              {Bg: "#2a273f", Fg: "#eb6f92"},
	"today":              {Bg: "#232136", Fg: "#9ccfd8"},
	"tmux":               {Bg: "#26233a", Fg: "#908caa"},
	"context":            {Bg: "#393552", Fg: "#e0def4"},
	KeyContextWarning:    {Bg: "#f6c177", Fg: "#191724"},
	KeyContextCritical:   {Bg: "#eb6f92", Fg: "#191724"},
	"metrics":            {Bg: "#524f67", Fg: "#e0def4"},
	"version":            {Bg: "#2a273f", Fg: "#c4a7e7"},
	"usageLimit":         {Bg: "#393552", Fg: "#e0def4"},
	KeyUsageLimitWarning: {Bg: "#f6c177", Fg: "#191724"},
}

// tokens is a base16-style color scheme; fromTokens assigns its colors to
// segments.
type tokens struct {
	Base, Mantle                 lipgloss.Color
	Surface0, Surface1, Surface2 lipgloss.Color
	Text, Subtext                lipgloss.Color
	Accent, Blue, Sapphire       lipgloss.Color
	Green, Yellow, Red, Peach    lipgloss.Color
	Teal, Lavender               lipgloss.Color
}

var nord = tokens{
	Base: "#2E3440", Mantle: "#242933",
	Surface0: "#3B4252", Surface1: "#434C5E", Surface2: "#4C566A",
	Text: "#ECEFF4", Subtext: "#D8DEE9",
	Accent: "#B48EAD", Blue: "#81A1C1", Sapphire: "#88C0D0",
	Green: "#A3BE8C", Yellow: "#EBCB8B", Red: "#BF616A", Peach: "#D08770",
	Teal: "#8FBCBB", Lavender: "#B48EAD",
}

var tokyoNight = tokens{
	Base: "#1A1B26", Mantle: "#16161E",
	Surface0: "#24283B", Surface1: "#414868", Surface2: "#565F89",
	Text: "#C0CAF5", Subtext: "#A9B1D6",
	Accent: "#BB9AF7", Blue: "#7AA2F7", Sapphire: "#7DCFFF",
	Green: "#9ECE6A", Yellow: "#E0AF68", Red: "#F7768E", Peach: "#FF9E64",
	Teal: "#73DACA", Lavender: "#BB9AF7",
}

var light = tokens{
	Base: "#EFF1F5", Mantle: "#E6E9EF",
	Surface0: "#CCD0DA", Surface1: "#BCC0CC", Surface2: "#ACB0BE",
	Text: "#4C4F69", Subtext: "#5C5F77",
	Accent: "#8839EF", Blue: "#1E66F5", Sapphire: "#209FB5",
	Green: "#40A02B", Yellow: "#DF8E1D", Red: "#D20F39", Peach: "#FE640B",
	Teal: "#179299", Lavender: "#7287FD",
}

func fromTokens(t tokens) Palette {
	return Palette{
		"directory":          {Bg: t.Blue, Fg: t.Base},
		"git":                {Bg: t.Surface0, Fg: t.Green},
		"model":              {Bg: t.Surface1, Fg: t.Text},
		"session":            {Bg: t.Surface0, Fg: t.Sapphire},
		"block":              {Bg: t.Surface1, Fg: t.Lavender},
		"today":              {Bg: t.Mantle, Fg: t.Green},
		"tmux":               {Bg: t.Surface0, Fg: t.Teal},
		"context":            {Bg: t.Surface2, Fg: t.Text},
		KeyContextWarning:    {Bg: t.Yellow, Fg: t.Base},
		KeyContextCritical:   {Bg: t.Red, Fg: t.Base},
		"metrics":            {Bg: t.Surface1, Fg: t.Subtext},
		"version":            {Bg: t.Surface0, Fg: t.Accent},
		"usageLimit":         {Bg: t.Surface2, Fg: t.Sapphire},
		KeyUsageLimitWarning: {Bg: t.Peach, Fg: t.Base},
	}
}
