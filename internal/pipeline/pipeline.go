package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/focos-report/internal/domain"
	"github.com/couchcryptid/focos-report/internal/observability"
	"github.com/couchcryptid/focos-report/internal/report"
)

// Loader reads an input file into a Dataset.
type Loader interface {
	Load(ctx context.Context, path string) (domain.Dataset, error)
}

// Builder renders a derived Dataset into a Dashboard.
type Builder interface {
	Build(ctx context.Context, ds domain.Dataset) (*report.Dashboard, error)
}

// Publisher writes a Dashboard and returns the written paths.
type Publisher interface {
	Publish(ctx context.Context, d *report.Dashboard) ([]string, error)
}

// Result describes one successful run.
type Result struct {
	RunID    string
	Records  int
	Panels   int
	Paths    []string
	Duration time.Duration
}

// Pipeline orchestrates load, derive, build and publish for one input file.
type Pipeline struct {
	loader    Loader
	builder   Builder
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(l Loader, b Builder, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:    l,
		builder:   b,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a dashboard has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no dashboard has been published yet")
	}
	return nil
}

// Run loads path, derives calendar fields, renders every panel and publishes
// the dashboard. Any failure aborts the run before anything is written.
func (p *Pipeline) Run(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	p.logger.Info("report run started", "path", path)

	ds, err := p.loader.Load(ctx, path)
	if err != nil {
		return Result{}, p.fail(errorKind(err, observability.ErrKindLoad), "load", err)
	}
	if ds.Len() == 0 {
		return Result{}, p.fail(observability.ErrKindLoad, "load", fmt.Errorf("%w: %s has no detections", domain.ErrInvalidArgument, path))
	}
	p.metrics.RecordsLoaded.Add(float64(ds.Len()))
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("dataset loaded", "path", path, "records", ds.Len(), "duration", time.Since(start))

	renderStart := time.Now()
	dashboard, err := p.builder.Build(ctx, domain.Derive(ds))
	if err != nil {
		return Result{}, p.fail(observability.ErrKindRender, "build dashboard", err)
	}
	p.metrics.ChartsRendered.Add(float64(len(dashboard.Panels)))

	paths, err := p.publisher.Publish(ctx, dashboard)
	if err != nil {
		return Result{}, p.fail(observability.ErrKindPublish, "publish dashboard", err)
	}
	p.metrics.RenderDuration.Observe(time.Since(renderStart).Seconds())
	p.metrics.DashboardsWritten.Inc()
	p.metrics.LastSuccess.SetToCurrentTime()
	p.ready.Store(true)

	res := Result{
		RunID:    dashboard.RunID,
		Records:  ds.Len(),
		Panels:   len(dashboard.Panels),
		Paths:    paths,
		Duration: time.Since(start),
	}
	p.logger.Info("report run finished",
		"run_id", res.RunID,
		"records", res.Records,
		"panels", res.Panels,
		"duration", res.Duration,
	)
	return res, nil
}

func (p *Pipeline) fail(kind, stage string, err error) error {
	p.metrics.LoadErrors.WithLabelValues(kind).Inc()
	p.logger.Error("report run failed", "stage", stage, "kind", kind, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}

// errorKind maps a loader error onto a metrics label.
func errorKind(err error, fallback string) string {
	var parseErr *domain.ParseError
	switch {
	case errors.As(err, &parseErr):
		return observability.ErrKindParse
	case errors.Is(err, domain.ErrFileNotFound):
		return observability.ErrKindNotFound
	default:
		return fallback
	}
}
