package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janekbaraniewski/claude-powerline/internal/config"
	"github.com/janekbaraniewski/claude-powerline/internal/version"
)

func (a *app) usageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Print subscription usage limits as JSON",
		Long:  "Looks up the five-hour and seven-day usage of the signed-in Claude subscription. Prints null when no subscription credentials are available.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printJSON(a.usageLimits(cmd.Context()))
		},
	}
}

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			res := config.Resolve(a.inputs(""), a.log)
			a.log.Debug("resolved config", zap.String("path", res.Path), zap.Int("warnings", len(res.Warnings)))
			return a.printJSON(res.Config)
		},
	}
}

func (a *app) versionCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.stdout, version.String())
			if !check {
				return nil
			}

			res, err := a.checkUpdate(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking for updates: %w", err)
			}
			switch {
			case res.CurrentVersion == "":
				fmt.Fprintln(a.stdout, "development build, not checking for updates")
			case res.UpdateAvailable:
				fmt.Fprintf(a.stdout, "update available: %s -> %s\nupgrade with: %s\n",
					res.CurrentVersion, res.LatestVersion, res.UpgradeHint)
			default:
				fmt.Fprintln(a.stdout, "up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func (a *app) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(out))
	return err
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
