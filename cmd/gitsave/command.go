package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/errors"
)

// newRootCommand builds the gitsave command tree around app.
func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   constants.AppName + " [flags]",
		Short: constants.Tagline,
		Long: `gitsave stages every change in a project, records it in a timestamped
commit and pushes it to a remote, creating the remote when it is missing.

Settings are read from $XDG_CONFIG_HOME/gitsave/config.yaml, then from
GITSAVE_* environment variables, then from the flags below.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unexpected argument %q", args[0]))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Config.Load(cmd.Flags()); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	app.Config.SetupFlags(root.Flags())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			app.ShowVersion()
		},
	})

	return root
}

func usageError(err error) error {
	return errors.NewConfigError("flags", nil, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
}

// Execute parses args, runs gitsave and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.ExecuteContext(ctx)
	code := ExitCode(err)

	switch {
	case err == nil, code == ExitOK:
	case code == ExitInterrupted:
		_, _ = fmt.Fprintln(a.Stderr, "🛑 gitsave interrupted")
	default:
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error: %v\n", err)
		if isFlagError(err) {
			_, _ = fmt.Fprintf(a.Stderr, "Run '%s --help' for usage.\n", constants.AppName)
		}
	}

	return code
}

func isFlagError(err error) bool {
	var cfgErr *errors.ConfigError
	return errors.As(err, &cfgErr) && cfgErr.Parameter == "flags"
}
