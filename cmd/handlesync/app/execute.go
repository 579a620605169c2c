package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/globals"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
)

// Execute runs the handlesync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "handlesync",
		Short:   "Reconcile legislators' Twitter accounts against the directory",
		Version: a.version,
		Long: `handlesync reads legislators and the Twitter handles and ids they are
known by from a roster, asks the Twitter directory about every claim and
stores one record per claim with its status, such as unchanged,
handle-updated, id-not-found or id-added.

Consumer credentials are read from TWITTER_CONSUMER_KEY and
TWITTER_CONSUMER_SECRET (or the MORPH_ prefixed variants), a .env file or
the config file.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	globals.AddFlags(rootCmd)

	rootCmd.SetVersionTemplate("handlesync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// An explicit --config replaces what was loaded from the default locations.
	if f := cmd.Flags().Lookup(globals.FlagConfig); f != nil && f.Changed {
		config, err := LoadConfig(f.Value.String())
		if err != nil {
			return errors.WrapResource("load", "config", f.Value.String(), err)
		}
		a.config = config
	}

	a.config.UpdateFromFlags(cmd)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
