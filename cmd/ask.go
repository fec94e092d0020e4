package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the tutor a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		reply := rt.Services.Oracle.Tutor(cmd.Context(), nil, strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}
