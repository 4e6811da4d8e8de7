package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janekbaraniewski/claude-powerline/internal/appupdate"
	"github.com/janekbaraniewski/claude-powerline/internal/config"
	"github.com/janekbaraniewski/claude-powerline/internal/logging"
	"github.com/janekbaraniewski/claude-powerline/internal/usagelimit"
	"github.com/janekbaraniewski/claude-powerline/internal/version"
)

func main() {
	log := logging.New(os.Stderr, os.Getenv(logging.DebugEnvVar) != "")
	defer func() { _ = log.Sync() }()

	home, err := os.UserHomeDir()
	if err != nil {
		log.Debug("no home directory, usage limits disabled", zap.Error(err))
	}
	wd, _ := os.Getwd()
	a := &app{
		args:    os.Args[1:],
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		getenv:  os.Getenv,
		home:    home,
		workDir: wd,
		now:     time.Now,
		log:     log,
		width: func() int {
			return terminalWidth(os.Stderr, os.Getenv)
		},
		usage: func(ctx context.Context, home string) *usagelimit.Data {
			return usagelimit.NewProvider(home, log).GetUsageLimitInfo(ctx)
		},
		checkUpdate: func(ctx context.Context) (appupdate.Result, error) {
			return appupdate.Check(ctx, appupdate.CheckOptions{CurrentVersion: version.Version})
		},
	}

	if err := a.execute(context.Background()); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// app carries the process environment so commands can be run against fakes.
type app struct {
	args    []string
	stdin   io.Reader
	stdout  io.Writer
	getenv  func(string) string
	home    string
	workDir string
	now     func() time.Time
	log     *zap.Logger
	width   func() int
	usage   func(ctx context.Context, home string) *usagelimit.Data

	checkUpdate func(ctx context.Context) (appupdate.Result, error)
}

func (a *app) inputs(projectDir string) config.Inputs {
	return config.Inputs{
		Args:       a.args,
		Getenv:     a.getenv,
		HomeDir:    a.home,
		WorkDir:    a.workDir,
		ProjectDir: projectDir,
	}
}

func (a *app) execute(ctx context.Context) error {
	root := a.rootCommand()
	root.SetArgs(commandArgs(a.args))
	return root.ExecuteContext(ctx)
}

// commandArgs drops a trailing value flag that has no value. The resolver
// ignores it, but the flag parser would reject the whole command line.
func commandArgs(args []string) []string {
	if n := len(args); n > 0 && lo.Contains(valueFlags, args[n-1]) {
		return args[:n-1]
	}
	return args
}

var valueFlags = []string{config.FlagConfig, config.FlagTheme, config.FlagStyle, config.FlagCharset}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "claude-powerline",
		Short: "Powerline status line for Claude Code.",
		Long: "Reads the Claude Code status line payload from stdin and prints a styled status line.\n" +
			"Configuration is read from --config, CLAUDE_POWERLINE_CONFIG, ./.claude-powerline.json,\n" +
			"~/.claude/claude-powerline.json or ~/.config/claude-powerline/config.json.",
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStatusLine(cmd.Context())
		},
	}

	// Values are read from the raw arguments so the first occurrence of a
	// flag wins; these declarations exist for --help and parsing.
	flags := root.PersistentFlags()
	flags.String("config", "", "path to a config file (JSON or YAML)")
	flags.String("theme", "", "color theme: "+joinNames(config.Themes))
	flags.String("style", "", "separator style: "+joinNames(config.Styles))
	flags.String("charset", "", "symbol set: "+joinNames(config.Charsets))

	root.AddCommand(a.usageCommand())
	root.AddCommand(a.configCommand())
	root.AddCommand(a.versionCommand())
	return root
}
