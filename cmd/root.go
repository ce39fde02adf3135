package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwasow/tabtime/internal/config"
	"github.com/kwasow/tabtime/internal/host"
	"github.com/kwasow/tabtime/internal/logging"
	"github.com/kwasow/tabtime/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var (
	flagDataDir string
	flagLogFile string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tabtime",
	Short: "Track time spent per browser tab",
	Long: `tabtime is the native messaging companion of a browser extension.

Run without arguments it speaks the length-prefixed JSON protocol on
stdin/stdout; browsers launch it that way via the native messaging
manifest. The subcommands inspect and manage the sessions it stores.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.Merge(global)

		// Flags beat config file and environment.
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagLogFile != "" {
			cfg.LogFile = flagLogFile
		}
		if flagVerbose {
			cfg.Verbose = true
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		logPath := cfg.LogFile
		if logPath == "" {
			if logPath, err = logging.DefaultPath(); err != nil {
				return err
			}
		}
		logger, closer, err := logging.New(logPath, cfg.Verbose)
		if err != nil {
			return err
		}
		defer closer.Close()

		return host.New(os.Stdin, os.Stdout, store, logger).Run()
	},
}

// openStore resolves the session directory and returns a store on it.
func openStore() (*session.Store, error) {
	dir := cfg.DataDir
	if dir == "" {
		var err error
		if dir, err = session.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return session.NewStore(dir)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "session storage directory")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "host log file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level logging")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
