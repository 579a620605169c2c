// Package claims provides the command that prints the claims extracted
// from the roster without contacting the directory.
package claims

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/alerts"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/application"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/globals"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/output"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// NewCommand creates the claims command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "claims",
		GroupID: "core",
		Short:   "Print the claims extracted from the roster",
		Long: `Claims reads the roster and prints every (person, handle, id) claim that
run would look up, followed by extraction statistics. No credentials are
needed and nothing is stored.`,
		Example: `  handlesync claims --country GB
  handlesync claims --roster-file roster.yaml -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	globals.AddRosterFlags(cmd)

	return cmd
}

// Execute extracts the claims and writes them to w, with extraction
// notices to errW.
func Execute(ctx context.Context, app application.Application, w, errW io.Writer) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "claims")

	if _, err := output.ParseFormat(app.OutputFormat()); err != nil {
		return err
	}
	format := output.DetectFormat(app.OutputFormat())

	src, err := app.Roster()
	if err != nil {
		return err
	}

	ex, err := roster.Extract(ctx, src, app.RosterOptions()...)
	if err != nil {
		return err
	}

	m, metricsFile := app.Metrics()
	m.ObserveClaims(len(ex.Claims))
	if metricsFile != "" && m != nil {
		if err := m.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	if err := output.FormatClaims(w, ex, format); err != nil {
		return err
	}
	return alerts.WriteAll(alerts.NewFormatWriter(errW, format), alerts.ForExtraction(ex.Stats))
}
