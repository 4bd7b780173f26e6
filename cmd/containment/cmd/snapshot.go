package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/containment/cmd/containment/internal/scenario"
	"github.com/go-drift/containment/cmd/containment/internal/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	var (
		output string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "snapshot <scenario.yaml>",
		Short: "Render the final screen of a scenario as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			_, err := runScenario(cmd.Context(), args[0], func(r *scenario.Runner) error {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				if err := snapshot.Render(f, r.Screen(), r.Labels(), snapshot.Options{Scale: scale}); err != nil {
					return fmt.Errorf("failed to render snapshot: %w", err)
				}
				return f.Close()
			})
			if err != nil {
				return err
			}
			logger.Info("wrote snapshot", "path", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "snapshot.png", "output file")
	cmd.Flags().Float64Var(&scale, "scale", 1, "output scale factor")
	return cmd
}
