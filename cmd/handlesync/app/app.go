// Package app provides the application context and dependency management
// for the handlesync CLI. It centralizes configuration, logging and the
// lazily built roster, directory, sink and metrics dependencies.
package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/application"
	"github.com/jkobl1/berlin-is-twitter-data/internal/directory"
	"github.com/jkobl1/berlin-is-twitter-data/internal/metrics"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster/everypolitician"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster/file"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store/postgres"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store/sqlite"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store/yamlfile"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

var _ application.Application = (*App)(nil)

// App represents the handlesync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	httpClient *http.Client

	// Lazily built, or injected by options
	mu        sync.Mutex
	roster    roster.Source
	directory reconcile.Directory
	metrics   *metrics.Metrics
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment and the
// default config file locations, then customized by options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:    version,
		commit:     commit,
		date:       date,
		builtBy:    builtBy,
		httpClient: &http.Client{Timeout: constants.DefaultHTTPTimeout},
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Roster returns the roster source: the local file when roster_file is set,
// the EveryPolitician index otherwise.
func (a *App) Roster() (roster.Source, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.roster != nil {
		return a.roster, nil
	}

	if a.config.RosterFile != "" {
		src, err := file.Open(a.config.RosterFile)
		if errors.IsNotFound(err) {
			return nil, errors.NewConfigError("roster_file", a.config.RosterFile+" does not exist", err)
		}
		if err != nil {
			return nil, err
		}
		a.roster = src
		return src, nil
	}

	a.roster = everypolitician.New(
		everypolitician.WithIndexURL(a.config.RosterURL),
		everypolitician.WithHTTPClient(a.httpClient),
		everypolitician.WithUserAgent(a.userAgent()),
	)
	return a.roster, nil
}

// RosterOptions returns the extraction options from configuration.
func (a *App) RosterOptions() []roster.Option {
	var opts []roster.Option
	if len(a.config.Countries) > 0 {
		opts = append(opts, roster.WithCountries(a.config.Countries...))
	}
	return opts
}

// Directory exchanges the consumer credentials for a bearer token and
// returns the directory client.
func (a *App) Directory(ctx context.Context) (reconcile.Directory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.directory != nil {
		return a.directory, nil
	}

	client, err := directory.Connect(ctx, directory.Config{
		BaseURL:        a.config.APIURL,
		ConsumerKey:    a.config.ConsumerKey,
		ConsumerSecret: a.config.ConsumerSecret,
		UserAgent:      a.userAgent(),
		HTTPClient:     a.httpClient,
	})
	if err != nil {
		return nil, err
	}
	a.directory = client
	return client, nil
}

// ReconcileOptions returns the reconciler options from configuration.
func (a *App) ReconcileOptions() ([]reconcile.Option, error) {
	var opts []reconcile.Option
	if a.config.BatchSize != 0 {
		opts = append(opts, reconcile.WithBatchSize(a.config.BatchSize))
	}
	if a.config.FailedBatchPolicy != "" {
		policy, err := reconcile.ParseFailedBatchPolicy(a.config.FailedBatchPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reconcile.WithFailedBatchPolicy(policy))
	}
	return opts, nil
}

// Sink opens the configured persistence sink.
func (a *App) Sink(ctx context.Context) (store.Sink, error) {
	switch a.config.Sink {
	case "", SinkSQLite:
		path := a.config.DatabasePath
		if path == "" {
			path = constants.DefaultDatabasePath
		}
		sink, err := sqlite.Open(path, sqlite.WithTable(a.config.DatabaseTable))
		if err != nil {
			return nil, err
		}
		return sink, nil
	case SinkPostgres:
		sink, err := postgres.Open(ctx, a.config.DatabaseURL, postgres.WithTable(a.config.DatabaseTable))
		if err != nil {
			return nil, err
		}
		return sink, nil
	case SinkYAML:
		path := a.config.OutputFile
		if path == "" {
			path = constants.DefaultOutputFile
		}
		sink, err := yamlfile.New(path)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, errors.NewValidationError("sink", a.config.Sink, "must be one of sqlite, postgres, yaml")
	}
}

// Metrics returns the run metrics, creating them on first use, and the
// textfile they are written to.
func (a *App) Metrics() (*metrics.Metrics, string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	return a.metrics, a.config.MetricsFile
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

func (a *App) userAgent() string {
	return "handlesync/" + a.version
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRoster sets the roster source (useful for testing).
func WithRoster(src roster.Source) Option {
	return func(a *App) error {
		a.roster = src
		return nil
	}
}

// WithDirectory sets the directory client, skipping the token exchange
// (useful for testing).
func WithDirectory(dir reconcile.Directory) Option {
	return func(a *App) error {
		a.directory = dir
		return nil
	}
}
