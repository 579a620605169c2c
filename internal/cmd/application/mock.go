package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jkobl1/berlin-is-twitter-data/internal/metrics"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

var _ Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    RosterFunc: func() (roster.Source, error) {
//	        return file.Parse("roster.yaml", data)
//	    },
//	    DirectoryFunc: func(context.Context) (reconcile.Directory, error) {
//	        return fakeDirectory, nil
//	    },
//	}
//	cmd := run.NewCommand(mock)
type Mock struct {
	LoggerFunc           func() *zerolog.Logger
	OutputFormatFunc     func() string
	RosterFunc           func() (roster.Source, error)
	RosterOptionsFunc    func() []roster.Option
	DirectoryFunc        func(ctx context.Context) (reconcile.Directory, error)
	ReconcileOptionsFunc func() ([]reconcile.Option, error)
	SinkFunc             func(ctx context.Context) (store.Sink, error)
	MetricsFunc          func() (*metrics.Metrics, string)
	VersionFunc          func() string
	CommitFunc           func() string
	DateFunc             func() string
	BuiltByFunc          func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Roster returns a roster source using the mock function or nil.
func (m *Mock) Roster() (roster.Source, error) {
	if m.RosterFunc != nil {
		return m.RosterFunc()
	}
	return nil, nil
}

// RosterOptions returns extraction options using the mock function or none.
func (m *Mock) RosterOptions() []roster.Option {
	if m.RosterOptionsFunc != nil {
		return m.RosterOptionsFunc()
	}
	return nil
}

// Directory returns a directory using the mock function or nil.
func (m *Mock) Directory(ctx context.Context) (reconcile.Directory, error) {
	if m.DirectoryFunc != nil {
		return m.DirectoryFunc(ctx)
	}
	return nil, nil
}

// ReconcileOptions returns reconciler options using the mock function or none.
func (m *Mock) ReconcileOptions() ([]reconcile.Option, error) {
	if m.ReconcileOptionsFunc != nil {
		return m.ReconcileOptionsFunc()
	}
	return nil, nil
}

// Sink returns a sink using the mock function or nil.
func (m *Mock) Sink(ctx context.Context) (store.Sink, error) {
	if m.SinkFunc != nil {
		return m.SinkFunc(ctx)
	}
	return nil, nil
}

// Metrics returns metrics using the mock function or nil.
func (m *Mock) Metrics() (*metrics.Metrics, string) {
	if m.MetricsFunc != nil {
		return m.MetricsFunc()
	}
	return nil, ""
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
