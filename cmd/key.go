package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/misparia/internal/keystore"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the oracle API key",
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API key is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		key, src, err := rt.Services.Keys.Get(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provider: %s\n", rt.Services.Oracle.ProviderName())
		if src == keystore.SourceNone {
			fmt.Fprintln(out, "Key:      not set")
			return nil
		}
		fmt.Fprintf(out, "Key:      %s (%s)\n", keystore.Mask(key), src)
		return nil
	},
}

var keySetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Validate and store an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		if err := rt.Services.Keys.Save(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, keystore.ErrInvalidKey) {
				return fmt.Errorf("the provider rejected this key")
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Key saved.")
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		if err := rt.Services.Keys.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stored key removed.")
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyStatusCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
}
