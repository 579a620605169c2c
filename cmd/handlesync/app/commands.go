package app

import (
	"github.com/spf13/cobra"

	"github.com/jkobl1/berlin-is-twitter-data/cmd/handlesync/cmd/claims"
	"github.com/jkobl1/berlin-is-twitter-data/cmd/handlesync/cmd/run"
	"github.com/jkobl1/berlin-is-twitter-data/cmd/handlesync/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(run.NewCommand(a))
	rootCmd.AddCommand(claims.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}
