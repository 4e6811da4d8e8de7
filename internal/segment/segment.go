// Package segment turns configuration and session data into the text of the
// status line segments.
package segment

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/claude-powerline/internal/config"
	"github.com/janekbaraniewski/claude-powerline/internal/hook"
	"github.com/janekbaraniewski/claude-powerline/internal/theme"
	"github.com/janekbaraniewski/claude-powerline/internal/usagelimit"
)

const (
	warnPercent = 80

	contextWarnPercent     = 60
	contextCriticalPercent = 80
)

// Segment is one drawn block. Key selects its colors from the palette.
type Segment struct {
	Name string
	Key  string
	Text string
}

// Sources is everything segments are computed from.
type Sources struct {
	Input   hook.Input
	Usage   *usagelimit.Data
	Context *ContextUsage
	Home    string
	Charset string
	Now     time.Time
}

// ContextUsage is how much of the model's context window the session fills.
type ContextUsage struct {
	Tokens int
	Limit  int
}

func (s Sources) textOnly() bool { return s.Charset == config.CharsetText }

// Build returns the enabled segments of a line that have something to show,
// in configured order. Segments without a data source here are skipped.
func Build(line config.LineConfig, data Sources) []Segment {
	segs := line.Segments
	var out []Segment
	for _, name := range segs.Names() {
		var seg *Segment
		switch name {
		case config.SegmentDirectory:
			if segs.Directory.Enabled {
				seg = directory(data, segs.Directory.Style)
			}
		case config.SegmentModel:
			if segs.Model.Enabled {
				seg = model(data)
			}
		case config.SegmentVersion:
			if segs.Version.Enabled {
				seg = version(data)
			}
		case config.SegmentContext:
			if segs.Context.Enabled {
				seg = contextWindow(data, *segs.Context)
			}
		case config.SegmentUsageLimit:
			if segs.UsageLimit.Enabled {
				seg = usageLimit(data, *segs.UsageLimit)
			}
		}
		if seg != nil {
			out = append(out, *seg)
		}
	}
	return out
}

// NeedsUsage reports whether any line draws the usage-limit segment, so the
// caller can skip the lookup otherwise.
func NeedsUsage(lines []config.LineConfig) bool {
	return lo.ContainsBy(lines, func(l config.LineConfig) bool {
		return l.Segments.UsageLimit != nil && l.Segments.UsageLimit.Enabled
	})
}

// NeedsContext reports whether any line draws the context segment.
func NeedsContext(lines []config.LineConfig) bool {
	return lo.ContainsBy(lines, func(l config.LineConfig) bool {
		return l.Segments.Context != nil && l.Segments.Context.Enabled
	})
}

func directory(data Sources, style string) *Segment {
	dir := data.Input.Dir()
	if dir == "" {
		return nil
	}
	var text string
	switch style {
	case "full":
		text = tildePath(dir, data.Home)
	case "fish":
		text = fishPath(tildePath(dir, data.Home))
	default:
		text = filepath.Base(dir)
	}
	return &Segment{Name: config.SegmentDirectory, Key: config.SegmentDirectory, Text: text}
}

func tildePath(dir, home string) string {
	if home == "" {
		return dir
	}
	if dir == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(dir, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return dir
}

// fishPath shortens every component but the last to its first character.
func fishPath(p string) string {
	sep := string(filepath.Separator)
	parts := strings.Split(p, sep)
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if part == "" || part == "~" {
			continue
		}
		n := 1
		if strings.HasPrefix(part, ".") && len(part) > 1 {
			n = 2
		}
		parts[i] = firstRunes(part, n)
	}
	return strings.Join(parts, sep)
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func model(data Sources) *Segment {
	name := data.Input.ModelName()
	if name == "" {
		return nil
	}
	return &Segment{Name: config.SegmentModel, Key: config.SegmentModel, Text: name}
}

func version(data Sources) *Segment {
	v := data.Input.Version
	if v == "" {
		return nil
	}
	return &Segment{Name: config.SegmentVersion, Key: config.SegmentVersion, Text: "v" + v}
}

func contextWindow(data Sources, opts config.ContextSegmentConfig) *Segment {
	ctx := data.Context
	if ctx == nil || ctx.Limit <= 0 {
		return nil
	}
	pct := min(100, ctx.Tokens*100/ctx.Limit)

	seg := &Segment{Name: config.SegmentContext, Key: config.SegmentContext}
	if opts.ShowPercentageOnly {
		seg.Text = fmt.Sprintf("%d%%", pct)
	} else {
		seg.Text = fmt.Sprintf("%s (%d%%)", formatTokens(ctx.Tokens), pct)
	}
	switch {
	case pct >= contextCriticalPercent:
		seg.Key = theme.KeyContextCritical
	case pct >= contextWarnPercent:
		seg.Key = theme.KeyContextWarning
	}
	return seg
}

func formatTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.Itoa(n)
}

func usageLimit(data Sources, opts config.UsageLimitSegmentConfig) *Segment {
	usage := data.Usage
	if usage == nil {
		return nil
	}
	plan := lo.FromPtrOr(usage.PlanName, "Usage")
	seg := &Segment{Name: config.SegmentUsageLimit, Key: config.SegmentUsageLimit}

	if usage.APIUnavailable {
		mark := "⚠"
		if data.textOnly() {
			mark = "!"
		}
		seg.Text = plan + " " + mark
		return seg
	}

	var windows []string
	if usage.FiveHour != nil {
		w := fmt.Sprintf("5h %d%%", *usage.FiveHour)
		if opts.ShowResetTime {
			if reset := usagelimit.FormatResetTime(usage.FiveHourResetAt, data.Now); reset != "" {
				w += " (" + reset + ")"
			}
		}
		windows = append(windows, w)
	}
	if opts.ShowSevenDay && usage.SevenDay != nil {
		windows = append(windows, fmt.Sprintf("7d %d%%", *usage.SevenDay))
	}

	seg.Text = plan
	if len(windows) > 0 {
		sep := " · "
		if data.textOnly() {
			sep = " | "
		}
		seg.Text += " " + strings.Join(windows, sep)
	}

	if usagelimit.IsLimitReached(*usage) || atLeast(usage.FiveHour, warnPercent) || atLeast(usage.SevenDay, warnPercent) {
		seg.Key = theme.KeyUsageLimitWarning
	}
	return seg
}

func atLeast(pct *int, threshold int) bool {
	return pct != nil && *pct >= threshold
}
