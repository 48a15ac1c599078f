package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/locale"
	"github.com/tartampluch/go-jubileum/internal/logging"
)

// reportedError marks a failure the presenter already showed to the user.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(stderr, err)
		}
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// NewRootCommand builds the command tree writing to the given streams.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           config.CLIName,
		Short:         config.CmdShortRoot,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Without --debug the console stays reserved for results.
			var console io.Writer
			if debug {
				console = stderr
			}
			logging.Setup(logging.Options{Console: console, Debug: debug})
			logging.LogStartup(config.CompCLI)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVar(&debug, config.FlagDebug, false, config.FlagDescDebugC)

	t := locale.New(config.DefaultLanguage)
	root.AddCommand(calcCmd(t), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), logging.VersionString(config.CLIName))
		},
	}
}
