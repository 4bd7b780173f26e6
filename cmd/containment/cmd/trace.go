package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/containment/cmd/containment/internal/config"
	"github.com/go-drift/containment/cmd/containment/internal/scenario"
	drifterrors "github.com/go-drift/containment/pkg/errors"
)

func newTraceCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "trace <scenario.yaml>",
		Short: "Print the lifecycle callbacks of a scenario",
		Long: `Run a scenario and print, for every step, the callbacks each unit received
along with their animated and moving flags.

Steps that fail (for example pushing a unit that is already on a stack) are
reported inline; use --strict to turn them into a non-zero exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := runScenario(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			if err := trace.Format(cmd.OutOrStdout()); err != nil {
				return err
			}
			if failed := trace.Failed(); strict && len(failed) > 0 {
				return fmt.Errorf("%d step(s) failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any step fails")
	return cmd
}

// runScenario resolves and plays the scenario at path. If after is set it
// is called with the runner before the runner is closed.
func runScenario(ctx context.Context, path string, after func(*scenario.Runner) error) (trace *scenario.Trace, err error) {
	defer drifterrors.RecoverWithCallback("containment.run", func(v any) {
		err = fmt.Errorf("scenario panicked: %v", v)
	})

	logger := loggerFromContext(ctx)
	resolved, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded scenario", "name", resolved.Name, "steps", len(resolved.Steps), "animated", resolved.Animated)

	runner, err := scenario.New(resolved, logger)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	trace, err = runner.Run(ctx)
	if err != nil {
		return nil, err
	}
	if after != nil {
		if err := after(runner); err != nil {
			return nil, err
		}
	}
	return trace, nil
}
