package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwasow/tabtime/internal/session"
)

var backupCmd = &cobra.Command{
	Use:   "backup <session>",
	Short: "Copy a session into the backups directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		dst, err := store.Backup(args[0])
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("no session named %q", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backed up to %s\n", dst)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
