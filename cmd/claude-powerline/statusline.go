package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/janekbaraniewski/claude-powerline/internal/config"
	"github.com/janekbaraniewski/claude-powerline/internal/hook"
	"github.com/janekbaraniewski/claude-powerline/internal/render"
	"github.com/janekbaraniewski/claude-powerline/internal/segment"
	"github.com/janekbaraniewski/claude-powerline/internal/theme"
	"github.com/janekbaraniewski/claude-powerline/internal/transcript"
	"github.com/janekbaraniewski/claude-powerline/internal/usagelimit"
)

func (a *app) runStatusLine(ctx context.Context) error {
	var in hook.Input
	if !isTerminal(a.stdin) {
		var err error
		if in, err = hook.Read(a.stdin); err != nil {
			a.log.Warn("ignoring status line payload", zap.Error(err))
		}
	}

	cfg := config.Resolve(a.inputs(in.Workspace.ProjectDir), a.log).Config

	var usage *usagelimit.Data
	if segment.NeedsUsage(cfg.Display.Lines) {
		usage = a.usageLimits(ctx)
	}

	src := segment.Sources{
		Input:   in,
		Usage:   usage,
		Context: a.contextUsage(cfg, in),
		Home:    a.home,
		Charset: cfg.Display.Charset,
		Now:     a.now(),
	}
	lines := lo.Map(cfg.Display.Lines, func(l config.LineConfig, _ int) []segment.Segment {
		return segment.Build(l, src)
	})

	r := render.New(
		theme.Profile(cfg.Display.ColorCompatibility, a.stdout),
		cfg.Display,
		theme.Get(cfg.Theme, cfg.Colors.Custom),
		a.width(),
	)
	_, err := fmt.Fprintln(a.stdout, r.Render(lines))
	return err
}

// usageLimits is nil without a home directory, since the credentials and the
// cache both live under it.
func (a *app) usageLimits(ctx context.Context) *usagelimit.Data {
	if a.home == "" {
		return nil
	}
	return a.usage(ctx, a.home)
}

// contextUsage prefers the context window reported in the payload and falls
// back to the last assistant message of the transcript.
func (a *app) contextUsage(cfg config.Config, in hook.Input) *segment.ContextUsage {
	if !segment.NeedsContext(cfg.Display.Lines) {
		return nil
	}
	limit := cfg.ContextLimit(in.Model.ID)

	if cw := in.ContextWindow; cw != nil && cw.CurrentUsage.Tokens() > 0 {
		if cw.Size > 0 {
			limit = cw.Size
		}
		return &segment.ContextUsage{Tokens: cw.CurrentUsage.Tokens(), Limit: limit}
	}

	if in.TranscriptPath == "" {
		return nil
	}
	u, err := transcript.LastUsage(in.TranscriptPath)
	if err != nil {
		a.log.Debug("no context usage", zap.String("transcript", in.TranscriptPath), zap.Error(err))
		return nil
	}
	return &segment.ContextUsage{Tokens: u.ContextTokens(), Limit: limit}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of the controlling terminal. Stdout is a
// pipe when Claude Code runs the command, so stderr and COLUMNS are consulted.
func terminalWidth(stderr *os.File, getenv func(string) string) int {
	if w, _, err := term.GetSize(int(stderr.Fd())); err == nil && w > 0 {
		return w
	}
	if n, err := strconv.Atoi(getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 0
}
