package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	EnvTheme  = "CLAUDE_POWERLINE_THEME"
	EnvStyle  = "CLAUDE_POWERLINE_STYLE"
	EnvConfig = "CLAUDE_POWERLINE_CONFIG"

	FlagConfig  = "--config"
	FlagTheme   = "--theme"
	FlagStyle   = "--style"
	FlagCharset = "--charset"
)

// Inputs is everything Resolve reads from the outside world.
type Inputs struct {
	Args       []string
	Getenv     func(string) string
	HomeDir    string
	WorkDir    string
	ProjectDir string
}

func (in Inputs) env(key string) string {
	if in.Getenv == nil {
		return ""
	}
	return in.Getenv(key)
}

// Result is a resolved configuration together with how it was obtained.
type Result struct {
	Config Config
	// Path is the config file that was applied, empty when none was.
	Path     string
	Warnings []string
}

// Resolve folds defaults, the discovered config file, the environment and the
// CLI arguments (in that order) into one validated Config. It never fails:
// unreadable layers are skipped and invalid enum values replaced by their
// fallback, each with a warning.
func Resolve(in Inputs, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	r := &resolver{in: in, log: log}
	cfg := Default()

	if path := r.findConfigFile(); path != "" {
		r.applyFile(&cfg, path)
	}
	r.validate(&cfg, "in config file")

	r.applyOverrides(&cfg, r.envLayer(), "environment")
	r.applyOverrides(&cfg, r.cliLayer(), "CLI arguments")

	return Result{Config: cfg, Path: r.path, Warnings: r.warnings}
}

type resolver struct {
	in       Inputs
	log      *zap.Logger
	path     string
	warnings []string
}

func (r *resolver) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	r.log.Warn(msg)
}

// ConfigPath returns the explicit config path from --config or
// CLAUDE_POWERLINE_CONFIG, with a leading "~" expanded.
func (in Inputs) ConfigPath() string {
	path, _ := ArgValue(in.Args, FlagConfig)
	if path == "" {
		path = in.env(EnvConfig)
	}
	if path == "" {
		return ""
	}
	path = expandHome(path, in.HomeDir)
	if !filepath.IsAbs(path) && in.WorkDir != "" {
		path = filepath.Join(in.WorkDir, path)
	}
	return path
}

// findConfigFile returns the first existing config file, or "" if none. An
// explicit path disables discovery of the other locations.
func (r *resolver) findConfigFile() string {
	if explicit := r.in.ConfigPath(); explicit != "" {
		if fileExists(explicit) {
			return explicit
		}
		r.log.Debug("explicit config file not found", zap.String("path", explicit))
		return ""
	}

	var candidates []string
	if r.in.ProjectDir != "" {
		candidates = append(candidates, filepath.Join(r.in.ProjectDir, projectFileName))
	}
	if r.in.WorkDir != "" {
		candidates = append(candidates, filepath.Join(r.in.WorkDir, projectFileName))
	}
	candidates = append(candidates, UserConfigPaths(r.in.HomeDir)...)

	path, _ := lo.Find(candidates, fileExists)
	return path
}

func (r *resolver) applyFile(cfg *Config, path string) {
	data, err := readLayerFile(path)
	if err != nil {
		r.warn("Failed to load config file %s: %v", path, err)
		return
	}
	skipped, err := mergeLayer(cfg, data)
	if err != nil {
		r.warn("Failed to load config file %s: %v", path, err)
		return
	}
	for _, fieldErr := range skipped {
		r.warn("Ignoring invalid value in config file %s: %v", path, fieldErr)
	}
	r.path = path
	r.log.Debug("applied config file", zap.String("path", path))
}

// validate replaces out-of-range enum values with their fallback.
func (r *resolver) validate(cfg *Config, source string) {
	r.checkEnum(&cfg.Theme, Themes, ThemeDark, "theme", source)
	r.checkEnum(&cfg.Display.Style, Styles, StyleMinimal, "display style", source)
	r.checkEnum(&cfg.Display.Charset, Charsets, CharsetUnicode, "charset", source)
	r.checkEnum(&cfg.Display.ColorCompatibility, ColorModes, ColorAuto, "color compatibility", source)
	budgets := []struct {
		name string
		item *BudgetItem
	}{
		{"session", cfg.Budget.Session},
		{"today", cfg.Budget.Today},
		{"block", cfg.Budget.Block},
	}
	for _, b := range budgets {
		if b.item != nil && b.item.Type != "" {
			r.checkEnum(&b.item.Type, BudgetTypes, "cost", b.name+" budget type", source)
		}
	}
}

func (r *resolver) checkEnum(value *string, allowed []string, fallback, what, source string) {
	if lo.Contains(allowed, *value) {
		return
	}
	r.warn("Invalid %s '%s' %s, falling back to '%s'", what, *value, source, fallback)
	*value = fallback
}

type overrides struct {
	Theme   string            `json:"theme,omitempty"`
	Display *displayOverrides `json:"display,omitempty"`
}

type displayOverrides struct {
	Style   string `json:"style,omitempty"`
	Charset string `json:"charset,omitempty"`
}

func (r *resolver) envLayer() overrides {
	var o overrides
	if theme := r.in.env(EnvTheme); theme != "" {
		r.checkEnum(&theme, Themes, ThemeDark, "theme", "from environment variable")
		o.Theme = theme
	}
	if style := r.in.env(EnvStyle); style != "" {
		r.checkEnum(&style, Styles, StyleMinimal, "display style", "from environment variable")
		o.Display = &displayOverrides{Style: style}
	}
	return o
}

func (r *resolver) cliLayer() overrides {
	var o overrides
	if theme, _ := ArgValue(r.in.Args, FlagTheme); theme != "" {
		r.checkEnum(&theme, Themes, ThemeDark, "theme", "from CLI argument")
		o.Theme = theme
	}
	display := displayOverrides{}
	if style, _ := ArgValue(r.in.Args, FlagStyle); style != "" {
		r.checkEnum(&style, Styles, StyleMinimal, "display style", "from CLI argument")
		display.Style = style
	}
	if charset, _ := ArgValue(r.in.Args, FlagCharset); charset != "" {
		r.checkEnum(&charset, Charsets, CharsetUnicode, "charset", "from CLI argument")
		display.Charset = charset
	}
	if display != (displayOverrides{}) {
		o.Display = &display
	}
	return o
}

func (r *resolver) applyOverrides(cfg *Config, o overrides, source string) {
	data, err := json.Marshal(o)
	if err != nil {
		r.warn("Failed to apply %s overrides: %v", source, err)
		return
	}
	if _, err := mergeLayer(cfg, data); err != nil {
		r.warn("Failed to apply %s overrides: %v", source, err)
	}
}
