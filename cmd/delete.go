package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwasow/tabtime/internal/session"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("no session named %q", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
