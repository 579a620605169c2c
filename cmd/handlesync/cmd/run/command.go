// Package run provides the command that extracts claims from the roster,
// reconciles them against the directory and replaces the stored records.
package run

import (
	"github.com/spf13/cobra"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/application"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/globals"
)

// Flags holds the flags read by the command itself. Everything else is
// folded into configuration before the command runs.
type Flags struct {
	DryRun  bool
	Records bool
}

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Reconcile roster claims and store the records",
		Long: `Run extracts every (handle, id) claim from the roster, looks the claims up
in the directory and replaces the stored records with the result.

Claims with an id are looked up by id first and report unchanged,
handle-updated or id-not-found. Claims with only a handle are looked up by
handle and report id-added, id-added-handle-updated or handle-not-found.

A lookup batch that fails does not stop the run. By default its claims are
stored as lookup-failed. Use --failed-batch-policy=drop to reproduce the
legacy behaviour, where a failed batch's records are left out entirely.
Use it when comparing against records stored by earlier runs.`,
		Example: `  handlesync run                                  # Default sqlite sink (data.sqlite)
  handlesync run --country DE --country FR        # Selected countries only
  handlesync run --roster-file roster.yaml --sink yaml --output-file out.yaml
  handlesync run --dry-run --records -o json      # Print records, store nothing
  handlesync run --failed-batch-policy=drop       # Legacy output: leave failed batches out`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := Flags{}
			flags.DryRun, _ = cmd.Flags().GetBool(globals.FlagDryRun)
			flags.Records, _ = cmd.Flags().GetBool(globals.FlagRecords)
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
		},
	}

	globals.AddRosterFlags(cmd)
	globals.AddRunFlags(cmd)

	return cmd
}
