package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/containment/cmd/containment/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.Resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d stack(s), %d step(s)\n",
				resolved.Name, len(resolved.Stacks), len(resolved.Steps))
			return nil
		},
	}
}
