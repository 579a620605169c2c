package run

import (
	"context"
	"io"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/alerts"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/application"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/output"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

// Execute runs one full reconciliation, writes the report to w and
// notices about failed batches or skipped persons to errW.
//
// Configuration and credential problems fail before the roster is read.
// Persistence is skipped when ctx is cancelled or on a dry run.
func Execute(ctx context.Context, app application.Application, w, errW io.Writer, flags Flags) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "run")
	logger := logging.FromContext(ctx)

	if _, err := output.ParseFormat(app.OutputFormat()); err != nil {
		return err
	}
	format := output.DetectFormat(app.OutputFormat())

	opts, err := app.ReconcileOptions()
	if err != nil {
		return err
	}

	src, err := app.Roster()
	if err != nil {
		return err
	}

	dir, err := app.Directory(ctx)
	if err != nil {
		return err
	}

	reconciler, err := reconcile.New(dir, opts...)
	if err != nil {
		return err
	}

	ex, err := roster.Extract(ctx, src, app.RosterOptions()...)
	if err != nil {
		return err
	}

	res, err := reconciler.Run(ctx, ex.Claims)
	if err != nil {
		return err
	}

	m, metricsFile := app.Metrics()
	m.ObserveClaims(len(ex.Claims))
	m.ObserveResult(res)

	summary := output.NewSummary(res)
	summary.DryRun = flags.DryRun

	if !flags.DryRun {
		if err := ctx.Err(); err != nil {
			return errors.Join(errors.ErrCanceled, err)
		}
		name, err := persist(ctx, app, res)
		if err != nil {
			return err
		}
		summary.Sink = name
	} else {
		logger.Info().Int("records", len(res.Records)).Msg("Dry run, stored records left unchanged")
	}

	if metricsFile != "" && m != nil {
		if err := m.WriteTextfile(metricsFile); err != nil {
			return err
		}
		logger.Debug().Str("path", metricsFile).Msg("Metrics written")
	}

	if flags.Records {
		err = output.FormatRecords(w, res.Records, format)
	} else {
		err = output.FormatSummary(w, res, summary, format)
	}
	if err != nil {
		return err
	}

	notices := append(alerts.ForExtraction(ex.Stats), alerts.ForRun(res, summary.Sink)...)
	return alerts.WriteAll(alerts.NewFormatWriter(errW, format), notices)
}

// persist replaces the stored records and returns the sink name.
func persist(ctx context.Context, app application.Application, res *reconcile.Result) (name string, err error) {
	sink, err := app.Sink(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = errors.WrapResource("close", "sink", sink.Name(), cerr)
		}
	}()

	if err := store.ReplaceAll(ctx, sink, res.Records); err != nil {
		return "", err
	}
	return sink.Name(), nil
}
