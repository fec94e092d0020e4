package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset player statistics and game history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this erases all progress; run again with --yes to confirm")
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		ctx := cmd.Context()
		if err := rt.Services.Stats.Reset(ctx); err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}
		if err := rt.Store.EventRepo().PurgeGameHistory(ctx); err != nil {
			return fmt.Errorf("purge history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
}
