package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/misparia/internal/app"
)

// runApp opens the runtime and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	return app.Run(cmd.Context(), rt)
}
