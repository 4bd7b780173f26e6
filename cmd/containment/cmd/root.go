// Package cmd implements the containment CLI commands.
//
// The CLI replays scenario files against stack controllers:
//   - trace: print the lifecycle callbacks each step produces
//   - snapshot: render the final screen as a PNG wireframe
//   - validate: check a scenario without running it
//
// All commands accept --verbose (-v), which enables debug logging and
// reports lifecycle calls that were ignored because they arrived out of
// phase.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	drifterrors "github.com/go-drift/containment/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "containment",
		Short:        "Replay container lifecycle scenarios",
		Long:         `containment drives stack controllers through the steps of a scenario file and reports the lifecycle callbacks every child unit receives.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(stderr, level)
			drifterrors.SetHandler(drifterrors.NewLogHandlerWithLogger(logger, verbose))
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("containment %s (built %s)\n", Version, BuildTime))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newTraceCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newValidateCmd())

	return root
}
