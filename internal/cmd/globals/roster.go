package globals

import "github.com/spf13/cobra"

// AddRosterFlags adds the flags selecting and filtering the roster.
// Values left unset fall back to configuration.
func AddRosterFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagRosterFile, "",
		"Read the roster from a local YAML file instead of the roster URL")
	cmd.Flags().String(FlagRosterURL, "",
		"URL of the countries.json roster index")
	cmd.Flags().StringSlice(FlagCountry, nil,
		"Restrict to countries by code, slug or name (repeatable)")
}

// AddRunFlags adds the reconciliation and persistence flags of the run command.
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagSink, "",
		"Where records are stored: sqlite, postgres, yaml")
	cmd.Flags().String(FlagDatabasePath, "",
		"SQLite database file")
	cmd.Flags().String(FlagDatabaseURL, "",
		"PostgreSQL connection string")
	cmd.Flags().String(FlagDatabaseTable, "",
		"Table records are stored in")
	cmd.Flags().String(FlagOutputFile, "",
		"YAML file records are written to")
	cmd.Flags().Int(FlagBatchSize, 0,
		"Keys per directory lookup (1-100)")
	cmd.Flags().String(FlagFailedBatchPolicy, "",
		"What to do with claims of a failed lookup batch: mark (store as lookup-failed), drop (legacy: leave out)")
	cmd.Flags().String(FlagMetricsFile, "",
		"Write Prometheus metrics to this textfile")
	cmd.Flags().Bool(FlagDryRun, false,
		"Reconcile without touching the stored records")
	cmd.Flags().Bool(FlagRecords, false,
		"Print every reconciled record instead of the summary")
}
