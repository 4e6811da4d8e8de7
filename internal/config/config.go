package config

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

const (
	ThemeLight      = "light"
	ThemeDark       = "dark"
	ThemeNord       = "nord"
	ThemeTokyoNight = "tokyo-night"
	ThemeRosePine   = "rose-pine"
	ThemeGruvbox    = "gruvbox"
	ThemeCustom     = "custom"

	StyleMinimal   = "minimal"
	StylePowerline = "powerline"
	StyleCapsule   = "capsule"

	CharsetUnicode = "unicode"
	CharsetText    = "text"

	ColorAuto      = "auto"
	ColorANSI      = "ansi"
	ColorANSI256   = "ansi256"
	ColorTrueColor = "truecolor"
)

var (
	Themes      = []string{ThemeLight, ThemeDark, ThemeNord, ThemeTokyoNight, ThemeRosePine, ThemeGruvbox, ThemeCustom}
	Styles      = []string{StyleMinimal, StylePowerline, StyleCapsule}
	Charsets    = []string{CharsetUnicode, CharsetText}
	ColorModes  = []string{ColorAuto, ColorANSI, ColorANSI256, ColorTrueColor}
	BudgetTypes = []string{"cost", "tokens"}
)

type Config struct {
	Theme              string         `json:"theme"`
	Display            DisplayConfig  `json:"display"`
	Colors             ColorsConfig   `json:"colors"`
	Budget             BudgetConfig   `json:"budget"`
	ModelContextLimits map[string]int `json:"modelContextLimits"`
}

type DisplayConfig struct {
	Lines              []LineConfig `json:"lines"`
	Style              string       `json:"style"`
	Charset            string       `json:"charset"`
	ColorCompatibility string       `json:"colorCompatibility"`
	AutoWrap           bool         `json:"autoWrap"`
	Padding            int          `json:"padding"`
}

// ColorsConfig holds the palette used when Theme is "custom".
type ColorsConfig struct {
	Custom map[string]SegmentColor `json:"custom,omitempty"`
}

type SegmentColor struct {
	Bg string `json:"bg"`
	Fg string `json:"fg"`
}

type BudgetConfig struct {
	Session *BudgetItem `json:"session,omitempty"`
	Today   *BudgetItem `json:"today,omitempty"`
	Block   *BudgetItem `json:"block,omitempty"`
}

type BudgetItem struct {
	Amount           *float64 `json:"amount,omitempty"`
	WarningThreshold *float64 `json:"warningThreshold,omitempty"`
	Type             string   `json:"type,omitempty"`
}

// Default returns a freshly allocated copy of the compiled-in configuration.
// Callers may mutate the result freely.
func Default() Config {
	return Config{
		Theme: ThemeDark,
		Display: DisplayConfig{
			Style:              StyleMinimal,
			Charset:            CharsetUnicode,
			ColorCompatibility: ColorAuto,
			AutoWrap:           true,
			Padding:            1,
			Lines:              []LineConfig{defaultLine()},
		},
		Budget: BudgetConfig{
			Session: &BudgetItem{WarningThreshold: lo.ToPtr(80.0)},
			Today:   &BudgetItem{WarningThreshold: lo.ToPtr(80.0), Amount: lo.ToPtr(50.0)},
			Block:   &BudgetItem{WarningThreshold: lo.ToPtr(80.0), Amount: lo.ToPtr(15.0)},
		},
		ModelContextLimits: map[string]int{
			"default": 200000,
			"sonnet":  200000,
			"opus":    200000,
		},
	}
}

// ContextLimit returns the configured context window for a model name,
// matching model families by substring before falling back to "default".
func (c Config) ContextLimit(model string) int {
	if limit, ok := c.ModelContextLimits[model]; ok {
		return limit
	}
	for _, family := range []string{"opus", "sonnet", "haiku"} {
		if containsFold(model, family) {
			if limit, ok := c.ModelContextLimits[family]; ok {
				return limit
			}
		}
	}
	return c.ModelContextLimits["default"]
}

// UserConfigPaths lists the per-user config locations in lookup order.
func UserConfigPaths(home string) []string {
	if home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, ".claude", "claude-powerline.json"),
		filepath.Join(home, ".config", "claude-powerline", "config.json"),
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
