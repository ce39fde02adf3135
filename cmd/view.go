package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/kwasow/tabtime/internal/session"
	"github.com/kwasow/tabtime/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <session>",
	Short: "View the time tree of a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		snap, err := store.Load(args[0])
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("no session named %q", args[0])
			}
			return err
		}

		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderTree(snap))
			return nil
		}
		return tui.Run(snap)
	},
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "print the tree without the interactive viewer")
	rootCmd.AddCommand(viewCmd)
}
