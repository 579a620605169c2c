// Package application defines what commands need from the application.
//
// The App in cmd/handlesync/app implements Application. Commands accept the
// interface so they can be tested with Mock.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jkobl1/berlin-is-twitter-data/internal/metrics"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

// Application provides configured dependencies to commands.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Roster returns the configured roster source.
	Roster() (roster.Source, error)

	// RosterOptions returns the extraction options from configuration,
	// such as the country filter.
	RosterOptions() []roster.Option

	// Directory exchanges credentials and returns a directory client.
	// It fails before any lookup when credentials are missing.
	Directory(ctx context.Context) (reconcile.Directory, error)

	// ReconcileOptions returns the reconciler options from configuration.
	ReconcileOptions() ([]reconcile.Option, error)

	// Sink opens the configured persistence sink. Callers close it.
	Sink(ctx context.Context) (store.Sink, error)

	// Metrics returns the run metrics and the textfile they are written to.
	// The path is empty when metrics are not written.
	Metrics() (*metrics.Metrics, string)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
