// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import "github.com/spf13/cobra"

// Flag names shared between commands and the configuration layer.
const (
	FlagConfig            = "config"
	FlagFormat            = "format"
	FlagQuiet             = "quiet"
	FlagVerbose           = "verbose"
	FlagNoColor           = "no-color"
	FlagLogLevel          = "log-level"
	FlagRosterFile        = "roster-file"
	FlagRosterURL         = "roster-url"
	FlagCountry           = "country"
	FlagSink              = "sink"
	FlagDatabasePath      = "database-path"
	FlagDatabaseURL       = "database-url"
	FlagDatabaseTable     = "database-table"
	FlagOutputFile        = "output-file"
	FlagBatchSize         = "batch-size"
	FlagFailedBatchPolicy = "failed-batch-policy"
	FlagMetricsFile       = "metrics-file"
	FlagDryRun            = "dry-run"
	FlagRecords           = "records"
)

// Flags holds global common flags across all commands.
type Flags struct {
	ConfigFile string
	Format     string
	Quiet      bool
	Verbose    bool
	NoColor    bool
	LogLevel   string
}

// AddFlags adds common flags to the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVar(&flags.ConfigFile, FlagConfig, "",
		"config file (default is $HOME/.handlesync.yaml)")
	cmd.PersistentFlags().StringVarP(&flags.Format, FlagFormat, "o", "",
		"Output format: table, json, yaml, wide")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, FlagQuiet, "q", false,
		"Minimal output (shortcut for --log-level=warn)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, FlagVerbose, "v", false,
		"Verbose output (shortcut for --log-level=debug)")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, FlagNoColor, false,
		"Disable colored output")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, FlagLogLevel, "",
		"Log level: trace, debug, info, warn, error (overrides -v/-q)")

	return flags
}

// Parse extracts global flags from the command hierarchy.
// This is useful for subcommands that need to access global flags when
// they weren't passed the flags struct directly.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd
	for root.Parent() != nil {
		root = root.Parent()
	}

	configFile, _ := root.PersistentFlags().GetString(FlagConfig)
	format, _ := root.PersistentFlags().GetString(FlagFormat)
	quiet, _ := root.PersistentFlags().GetBool(FlagQuiet)
	verbose, _ := root.PersistentFlags().GetBool(FlagVerbose)
	noColor, _ := root.PersistentFlags().GetBool(FlagNoColor)
	logLevel, _ := root.PersistentFlags().GetString(FlagLogLevel)

	return &Flags{
		ConfigFile: configFile,
		Format:     format,
		Quiet:      quiet,
		Verbose:    verbose,
		NoColor:    noColor,
		LogLevel:   logLevel,
	}, nil
}
