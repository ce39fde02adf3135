package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kwasow/tabtime/internal/session"
)

var watchSessions bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := printSessions(cmd, store); err != nil {
			return err
		}
		if !watchSessions {
			return nil
		}
		return watchSessionDir(cmd, store)
	},
}

func printSessions(cmd *cobra.Command, store *session.Store) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

// watchSessionDir reprints the list whenever a session file appears or
// disappears. Blocks until interrupted.
func watchSessionDir(cmd *cobra.Command, store *session.Store) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(store.Dir()); err != nil {
		return fmt.Errorf("watching %s: %w", store.Dir(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				fmt.Fprintln(cmd.OutOrStdout())
				if err := printSessions(cmd, store); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

func init() {
	sessionsCmd.Flags().BoolVarP(&watchSessions, "watch", "w", false, "keep running and reprint on changes")
	rootCmd.AddCommand(sessionsCmd)
}
